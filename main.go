package main

import (
	"time"

	"omniauction/internal/agent"
	auction "omniauction/internal/auctionService"
	"omniauction/internal/broadcast"
	"omniauction/internal/config"
	model "omniauction/internal/models"
	"omniauction/internal/registry"
	"omniauction/internal/server"
	"omniauction/internal/voicecall"
	"omniauction/utils"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		utils.Fatal("cannot load config", map[string]any{"error": err.Error()})
	}

	reg := registry.New(defaultCatalog(cfg.AuctionDuration), time.Now)
	broadcaster := broadcast.New()
	service := auction.NewAuctionService(reg, broadcaster, cfg.BidIncrement)
	interp := agent.NewInterpreter(service)
	sessions := agent.NewSessionStore()
	dispatcher := voicecall.NewHTTPDispatcher(cfg.CallProviderURL)

	router := server.SetupRouter(service, interp, sessions, broadcaster, dispatcher)

	utils.Info("starting auction server", map[string]any{"address": cfg.ServerAddress})
	if err := router.Run(cfg.ServerAddress); err != nil {
		utils.Fatal("server stopped", map[string]any{"error": err.Error()})
	}
}

// defaultCatalog builds the fixed set of auctioned products. Every auction
// runs for the configured duration starting at process startup.
func defaultCatalog(duration time.Duration) []model.Product {
	endsAt := time.Now().Add(duration)
	return []model.Product{
		{
			ProductID:     "vintage-watch",
			Name:          "Vintage Watch Collection",
			Description:   "A curated set of five mid-century mechanical wristwatches, all serviced and running.",
			StartingPrice: 250,
			EndsAt:        endsAt,
		},
		{
			ProductID:     "iphone",
			Name:          "iPhone 15 Pro",
			Description:   "Factory-sealed 256GB model in natural titanium.",
			StartingPrice: 800,
			EndsAt:        endsAt,
		},
		{
			ProductID:     "oil-painting",
			Name:          "Original Oil Painting",
			Description:   "Signed coastal landscape, oil on canvas, 60x80cm, framed.",
			StartingPrice: 500,
			EndsAt:        endsAt,
		},
		{
			ProductID:     "acoustic-guitar",
			Name:          "Signed Acoustic Guitar",
			Description:   "Dreadnought acoustic guitar signed by the touring lineup, with case.",
			StartingPrice: 150,
			EndsAt:        endsAt,
		},
	}
}
