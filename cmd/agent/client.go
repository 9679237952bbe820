package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"omniauction/internal/auctionerrors"
	model "omniauction/internal/models"
	"omniauction/utils"
)

// apiClient drives the auction API over HTTP so the local interpreter can
// run against a remote server. It implements agent.AuctionAPI.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope matches the server's JSON response wrapper.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type productPayload struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	CurrentHighestBid    float64 `json:"current_highest_bid"`
	TimeRemainingSeconds float64 `json:"time_remaining_seconds"`
	BidsCount            int     `json:"bids_count"`
	BiddingHistory       []struct {
		User      string  `json:"user"`
		Amount    float64 `json:"amount"`
		Timestamp string  `json:"timestamp"`
	} `json:"bidding_history"`
}

func (p productPayload) summary() model.ProductSummary {
	return model.ProductSummary{
		ProductID:     p.ID,
		Name:          p.Name,
		Description:   p.Description,
		HighestBid:    p.CurrentHighestBid,
		TimeRemaining: time.Duration(p.TimeRemainingSeconds * float64(time.Second)),
		BidsCount:     p.BidsCount,
	}
}

// ListProducts fetches the catalog; on any failure it returns an empty list
// so the interpreter can reply that nothing is available.
func (c *apiClient) ListProducts() []model.ProductSummary {
	env, err := c.get("/api/products")
	if err != nil {
		utils.Error("agent: error fetching products", map[string]any{"error": err.Error()})
		return nil
	}

	var payloads []productPayload
	if err := json.Unmarshal(env.Data, &payloads); err != nil {
		utils.Error("agent: malformed product list", map[string]any{"error": err.Error()})
		return nil
	}

	summaries := make([]model.ProductSummary, 0, len(payloads))
	for _, p := range payloads {
		summaries = append(summaries, p.summary())
	}
	return summaries
}

// GetProduct fetches one product with its recent bid history.
func (c *apiClient) GetProduct(productID string) (model.ProductDetail, error) {
	env, err := c.get("/api/products/" + productID)
	if err != nil {
		return model.ProductDetail{}, err
	}

	var payload productPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return model.ProductDetail{}, fmt.Errorf("get product %s: %w", productID, err)
	}

	detail := model.ProductDetail{ProductSummary: payload.summary()}
	for _, entry := range payload.BiddingHistory {
		createdAt, _ := time.Parse(time.RFC3339, entry.Timestamp)
		detail.BiddingHistory = append(detail.BiddingHistory, model.Bid{
			ProductID: productID,
			User:      entry.User,
			Amount:    entry.Amount,
			CreatedAt: createdAt,
		})
	}
	return detail, nil
}

// PlaceBid submits a bid and translates the server's rejection reasons back
// into the local error taxonomy so interpreter replies stay accurate.
func (c *apiClient) PlaceBid(productID, user string, amount float64) (model.Bid, error) {
	body, err := json.Marshal(map[string]any{
		"product_id": productID,
		"user":       user,
		"amount":     amount,
	})
	if err != nil {
		return model.Bid{}, fmt.Errorf("place bid: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+"/api/bids", "application/json", strings.NewReader(string(body)))
	if err != nil {
		return model.Bid{}, fmt.Errorf("place bid: %w: %v", auctionerrors.ErrInfrastructure, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return model.Bid{}, fmt.Errorf("place bid: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return model.Bid{}, rejectionError(resp.StatusCode, env)
	}

	var bid model.Bid
	if err := json.Unmarshal(env.Data, &bid); err != nil {
		return model.Bid{}, fmt.Errorf("place bid: decode bid: %w", err)
	}
	return bid, nil
}

func (c *apiClient) get(path string) (envelope, error) {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return envelope{}, fmt.Errorf("get %s: %w: %v", path, auctionerrors.ErrInfrastructure, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("get %s: decode response: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return envelope{}, rejectionError(resp.StatusCode, env)
	}
	return env, nil
}

// rejectionError maps a server rejection onto the local sentinel errors,
// preserving the server's reason text.
func rejectionError(statusCode int, env envelope) error {
	reason := env.Error
	if reason == "" {
		reason = env.Message
	}

	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w - %s", auctionerrors.ErrProductNotFound, reason)
	case strings.Contains(env.Message, "too low"):
		return fmt.Errorf("%w - %s", auctionerrors.ErrBidTooLow, reason)
	case strings.Contains(env.Message, "ended"):
		return fmt.Errorf("%w - %s", auctionerrors.ErrAuctionClosed, reason)
	case strings.Contains(env.Message, "invalid bid amount"):
		return fmt.Errorf("%w - %s", auctionerrors.ErrInvalidAmount, reason)
	default:
		return fmt.Errorf("%w - %s", auctionerrors.ErrInfrastructure, reason)
	}
}
