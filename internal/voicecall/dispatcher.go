package voicecall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"omniauction/internal/auctionerrors"
)

// Dispatcher asks the external voice provider to place an outbound call
// quoting a product and its current bid. The in-call bid capture happens on
// the provider's side; only success or failure of the dispatch comes back.
type Dispatcher interface {
	PlaceCall(ctx context.Context, phoneNumber, productName string, currentBid float64) error
}

// HTTPDispatcher talks to the call provider over HTTP.
type HTTPDispatcher struct {
	baseURL string
	http    *http.Client
}

// NewHTTPDispatcher creates a dispatcher for the given provider base URL. An
// empty URL yields a dispatcher that reports every call as unavailable.
func NewHTTPDispatcher(baseURL string) *HTTPDispatcher {
	return &HTTPDispatcher{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// PlaceCall requests one outbound call from the provider.
func (d *HTTPDispatcher) PlaceCall(ctx context.Context, phoneNumber, productName string, currentBid float64) error {
	if d.baseURL == "" {
		return fmt.Errorf("place call: %w: no call provider configured", auctionerrors.ErrInfrastructure)
	}

	body, err := json.Marshal(map[string]any{
		"phone_number": phoneNumber,
		"product_name": productName,
		"current_bid":  currentBid,
	})
	if err != nil {
		return fmt.Errorf("place call: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/calls", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("place call: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("place call: %w: %v", auctionerrors.ErrInfrastructure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("place call: %w: provider returned %d", auctionerrors.ErrInfrastructure, resp.StatusCode)
	}

	return nil
}
