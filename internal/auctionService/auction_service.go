package auction

import (
	"fmt"

	"omniauction/internal/auctionerrors"
	"omniauction/internal/models"
	"omniauction/internal/registry"
)

// EventPublisher receives a BidPlacedEvent for every accepted bid.
// Implementations must not block: publishing is fire-and-forget relative to
// the bid commit.
type EventPublisher interface {
	Publish(event models.BidPlacedEvent)
}

// AuctionService is the bid processor: the only writer of bid state. It
// validates submissions, commits them through the registry, and publishes a
// bid_placed event for each accepted bid.
type AuctionService struct {
	registry     *registry.Registry
	events       EventPublisher
	minIncrement float64
}

// NewAuctionService creates a new AuctionService instance. A non-positive
// minimum increment falls back to 1.
func NewAuctionService(reg *registry.Registry, events EventPublisher, minIncrement float64) *AuctionService {
	if minIncrement <= 0 {
		minIncrement = 1
	}
	return &AuctionService{
		registry:     reg,
		events:       events,
		minIncrement: minIncrement,
	}
}

// PlaceBid validates and commits a bid. Business-rule violations come back
// as wrapped sentinel errors from the auctionerrors package; an accepted bid
// is never rolled back by a downstream notification problem.
func (s *AuctionService) PlaceBid(productID, user string, amount float64) (models.Bid, error) {
	if productID == "" || user == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing product ID or user", auctionerrors.ErrInvalidBid)
	}

	bid, err := s.registry.CommitBid(productID, user, amount, s.minIncrement, func(bid models.Bid, product models.Product) {
		if s.events == nil {
			return
		}
		// Runs inside the product's critical section so events for one
		// product reach the broadcaster in commit order. Publish is
		// non-blocking.
		s.events.Publish(models.BidPlacedEvent{
			Type:      models.EventBidPlaced,
			ProductID: bid.ProductID,
			User:      bid.User,
			Amount:    bid.Amount,
			Message:   fmt.Sprintf("Bid of $%.2f placed on %s by %s", bid.Amount, product.Name, bid.User),
		})
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to place bid on %s by %s: %w", productID, user, err)
	}

	return bid, nil
}

// ListProducts returns all products in catalog order.
func (s *AuctionService) ListProducts() []models.ProductSummary {
	return s.registry.ListProducts()
}

// GetProduct returns one product with its recent bid history.
func (s *AuctionService) GetProduct(productID string) (models.ProductDetail, error) {
	if productID == "" {
		return models.ProductDetail{}, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrProductNotFound)
	}

	detail, err := s.registry.GetProduct(productID)
	if err != nil {
		return models.ProductDetail{}, fmt.Errorf("service: failed to get product %s: %w", productID, err)
	}

	return detail, nil
}
