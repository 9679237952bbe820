package server

import (
	"omniauction/internal/agent"
	"omniauction/internal/broadcast"
	"omniauction/internal/voicecall"
	handler "omniauction/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.AuctionServiceInterface, interp handler.CommandInterpreter, sessions *agent.SessionStore, broadcaster *broadcast.Broadcaster, calls voicecall.Dispatcher) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(service, interp, sessions, calls)

	api := router.Group("/api")
	{
		api.GET("/products", auctionHandler.ListProductsHandler)
		api.GET("/products/:product_id", auctionHandler.GetProductHandler)
		api.POST("/bids", auctionHandler.PlaceBidHandler)
		api.POST("/commands", auctionHandler.CommandHandler)
		api.POST("/calls", auctionHandler.PlaceCallHandler)
	}

	router.GET("/ws", SubscribeHandler(broadcaster))

	return router
}
