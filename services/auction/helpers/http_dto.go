package helpers

import (
	"time"

	model "omniauction/internal/models"
	"omniauction/utils"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	User      string  `json:"user" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type CommandRequest struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

type PlaceCallRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	ProductID   string `json:"product_id" binding:"required"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	ProductID string  `json:"product_id"`
	User      string  `json:"user"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type CommandResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type ProductSummaryResponse struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	CurrentHighestBid    float64 `json:"current_highest_bid"`
	TimeRemaining        string  `json:"time_remaining"`
	TimeRemainingSeconds float64 `json:"time_remaining_seconds"`
	BidsCount            int     `json:"bids_count"`
}

type ProductDetailResponse struct {
	ProductSummaryResponse
	BiddingHistory []BidHistoryEntry `json:"bidding_history"`
}

type BidHistoryEntry struct {
	User      string  `json:"user"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

// NewProductSummaryResponse maps a domain summary onto the wire format.
func NewProductSummaryResponse(s model.ProductSummary) ProductSummaryResponse {
	return ProductSummaryResponse{
		ID:                   s.ProductID,
		Name:                 s.Name,
		Description:          s.Description,
		CurrentHighestBid:    s.HighestBid,
		TimeRemaining:        utils.FormatRemaining(s.TimeRemaining),
		TimeRemainingSeconds: s.TimeRemaining.Seconds(),
		BidsCount:            s.BidsCount,
	}
}

// NewProductDetailResponse maps a domain detail onto the wire format; the
// history stays chronological (newest last), display layers reverse.
func NewProductDetailResponse(d model.ProductDetail) ProductDetailResponse {
	resp := ProductDetailResponse{
		ProductSummaryResponse: NewProductSummaryResponse(d.ProductSummary),
		BiddingHistory:         make([]BidHistoryEntry, 0, len(d.BiddingHistory)),
	}
	for _, bid := range d.BiddingHistory {
		resp.BiddingHistory = append(resp.BiddingHistory, BidHistoryEntry{
			User:      bid.User,
			Amount:    bid.Amount,
			Timestamp: bid.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
