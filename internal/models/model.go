package models

import "time"

// Product represents an item under auction. The catalog is fixed at startup;
// only bid state changes afterward.
type Product struct {
	ProductID     string    `json:"product_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	StartingPrice float64   `json:"starting_price"`
	EndsAt        time.Time `json:"ends_at"`
}

// Bid represents an accepted bid on a product. Immutable once created.
type Bid struct {
	BidID     string    `json:"bid_id"`
	ProductID string    `json:"product_id"`
	User      string    `json:"user"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductSummary is the read model returned by listing.
type ProductSummary struct {
	ProductID     string
	Name          string
	Description   string
	HighestBid    float64
	HighestBidder string
	TimeRemaining time.Duration
	BidsCount     int
}

// ProductDetail adds the recent bid history (chronological, newest last).
type ProductDetail struct {
	ProductSummary
	BiddingHistory []Bid
}

// BidPlacedEvent is fanned out to subscribers after each bid commit.
type BidPlacedEvent struct {
	Type      string  `json:"type"`
	ProductID string  `json:"product_id"`
	User      string  `json:"user"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message"`
}

// EventBidPlaced is the Type value carried by BidPlacedEvent.
const EventBidPlaced = "bid_placed"
