package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"omniauction/internal/agent"
	"omniauction/internal/auctionerrors"
	model "omniauction/internal/models"
	"omniauction/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// stubDispatcher records call dispatch requests.
type stubDispatcher struct {
	calls []string
	err   error
}

func (d *stubDispatcher) PlaceCall(ctx context.Context, phoneNumber, productName string, currentBid float64) error {
	d.calls = append(d.calls, phoneNumber)
	return d.err
}

func setupTestRouter(t *testing.T, service AuctionServiceInterface, interp CommandInterpreter, dispatcher *stubDispatcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewAuctionHandler(service, interp, agent.NewSessionStore(), dispatcher)

	router := gin.New()
	router.GET("/api/products", h.ListProductsHandler)
	router.GET("/api/products/:product_id", h.GetProductHandler)
	router.POST("/api/bids", h.PlaceBidHandler)
	router.POST("/api/commands", h.CommandHandler)
	router.POST("/api/calls", h.PlaceCallHandler)
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, url string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestListProductsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	router := setupTestRouter(t, mockService, NewMockCommandInterpreter(ctrl), &stubDispatcher{})

	mockService.EXPECT().ListProducts().Return([]model.ProductSummary{
		{
			ProductID:     "watch",
			Name:          "Vintage Watch Collection",
			Description:   "Mid-century wristwatches",
			HighestBid:    250,
			TimeRemaining: 90 * time.Minute,
			BidsCount:     3,
		},
	})

	w, resp := performJSON(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := resp["data"].([]any)
	require.Len(t, data, 1)
	product := data[0].(map[string]any)
	require.Equal(t, "watch", product["id"])
	require.Equal(t, 250.0, product["current_highest_bid"])
	require.Equal(t, "1h 30m remaining", product["time_remaining"])
	require.Equal(t, 5400.0, product["time_remaining_seconds"])
	require.Equal(t, 3.0, product["bids_count"])
}

func TestGetProductHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	router := setupTestRouter(t, mockService, NewMockCommandInterpreter(ctrl), &stubDispatcher{})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mockService.EXPECT().GetProduct("watch").Return(model.ProductDetail{
			ProductSummary: model.ProductSummary{
				ProductID:     "watch",
				Name:          "Vintage Watch Collection",
				HighestBid:    300,
				TimeRemaining: time.Hour,
				BidsCount:     1,
			},
			BiddingHistory: []model.Bid{
				{BidID: uuid.NewString(), ProductID: "watch", User: "alice", Amount: 300, CreatedAt: now},
			},
		}, nil)

		w, resp := performJSON(t, router, http.MethodGet, "/api/products/watch", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		history := data["bidding_history"].([]any)
		require.Len(t, history, 1)
		entry := history[0].(map[string]any)
		require.Equal(t, "alice", entry["user"])
		require.Equal(t, 300.0, entry["amount"])
		require.Equal(t, "2026-03-01T12:00:00Z", entry["timestamp"])
	})

	t.Run("not_found", func(t *testing.T) {
		mockService.EXPECT().GetProduct("nope").
			Return(model.ProductDetail{}, auctionerrors.ErrProductNotFound)

		w, resp := performJSON(t, router, http.MethodGet, "/api/products/nope", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "product not found", resp["message"])
	})
}

func TestPlaceBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	router := setupTestRouter(t, mockService, NewMockCommandInterpreter(ctrl), &stubDispatcher{})

	now := time.Now().UTC()

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success_valid_bid",
			requestBody: helpers.PlaceBidRequest{ProductID: "watch", User: "alice", Amount: 300},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("watch", "alice", 300.0).
					Return(model.Bid{
						BidID:     uuid.NewString(),
						ProductID: "watch",
						User:      "alice",
						Amount:    300,
						CreatedAt: now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_product_id",
			requestBody:    helpers.PlaceBidRequest{User: "alice", Amount: 300},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "zero_amount_rejected_by_binding",
			requestBody:    helpers.PlaceBidRequest{ProductID: "watch", User: "alice", Amount: 0},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "unknown_product",
			requestBody: helpers.PlaceBidRequest{ProductID: "nope", User: "alice", Amount: 300},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("nope", "alice", 300.0).
					Return(model.Bid{}, auctionerrors.ErrProductNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "product not found",
		},
		{
			name:        "unmapped_service_error",
			requestBody: helpers.PlaceBidRequest{ProductID: "watch", User: "alice", Amount: 10},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("watch", "alice", 10.0).
					Return(model.Bid{}, errors.New("registry unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
		{
			name:        "bid_too_low",
			requestBody: helpers.PlaceBidRequest{ProductID: "watch", User: "alice", Amount: 10},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("watch", "alice", 10.0).
					Return(model.Bid{}, auctionerrors.ErrBidTooLow)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "bid amount too low",
		},
		{
			name:        "auction_closed",
			requestBody: helpers.PlaceBidRequest{ProductID: "watch", User: "alice", Amount: 400},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("watch", "alice", 400.0).
					Return(model.Bid{}, auctionerrors.ErrAuctionClosed)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "auction has ended",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w, resp := performJSON(t, router, http.MethodPost, "/api/bids", tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedMsg, resp["message"])

			if tc.expectedStatus == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.Equal(t, "watch", data["product_id"])
				require.Equal(t, "alice", data["user"])
				require.Equal(t, 300.0, data["amount"])
				_, parseErr := uuid.Parse(data["bid_id"].(string))
				require.NoError(t, parseErr)
			}
		})
	}
}

func TestCommandHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	mockInterp := NewMockCommandInterpreter(ctrl)
	router := setupTestRouter(t, mockService, mockInterp, &stubDispatcher{})

	t.Run("reply_for_session", func(t *testing.T) {
		mockInterp.EXPECT().
			Handle(gomock.Any(), "list items").
			Return("Here are the items available for auction:")

		w, resp := performJSON(t, router, http.MethodPost, "/api/commands",
			helpers.CommandRequest{Text: "list items", SessionID: "s1"})
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, "s1", data["session_id"])
		require.Equal(t, "Here are the items available for auction:", data["reply"])
	})

	t.Run("missing_session_id", func(t *testing.T) {
		w, resp := performJSON(t, router, http.MethodPost, "/api/commands",
			map[string]any{"text": "list items"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid request payload", resp["message"])
	})
}

func TestPlaceCallHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)

	t.Run("dispatch_requested", func(t *testing.T) {
		dispatcher := &stubDispatcher{}
		router := setupTestRouter(t, mockService, NewMockCommandInterpreter(ctrl), dispatcher)

		mockService.EXPECT().GetProduct("watch").Return(model.ProductDetail{
			ProductSummary: model.ProductSummary{ProductID: "watch", Name: "Vintage Watch Collection", HighestBid: 300},
		}, nil)

		w, resp := performJSON(t, router, http.MethodPost, "/api/calls",
			helpers.PlaceCallRequest{PhoneNumber: "+15550100", ProductID: "watch"})
		require.Equal(t, http.StatusAccepted, w.Code)
		require.Equal(t, "call dispatch requested", resp["message"])
		require.Equal(t, []string{"+15550100"}, dispatcher.calls)
	})

	t.Run("provider_failure", func(t *testing.T) {
		dispatcher := &stubDispatcher{err: auctionerrors.ErrInfrastructure}
		router := setupTestRouter(t, mockService, NewMockCommandInterpreter(ctrl), dispatcher)

		mockService.EXPECT().GetProduct("watch").Return(model.ProductDetail{
			ProductSummary: model.ProductSummary{ProductID: "watch", Name: "Vintage Watch Collection"},
		}, nil)

		w, resp := performJSON(t, router, http.MethodPost, "/api/calls",
			helpers.PlaceCallRequest{PhoneNumber: "+15550100", ProductID: "watch"})
		require.Equal(t, http.StatusBadGateway, w.Code)
		require.Equal(t, "upstream provider unavailable", resp["message"])
	})

	t.Run("unknown_product", func(t *testing.T) {
		dispatcher := &stubDispatcher{}
		router := setupTestRouter(t, mockService, NewMockCommandInterpreter(ctrl), dispatcher)

		mockService.EXPECT().GetProduct("nope").
			Return(model.ProductDetail{}, auctionerrors.ErrProductNotFound)

		w, _ := performJSON(t, router, http.MethodPost, "/api/calls",
			helpers.PlaceCallRequest{PhoneNumber: "+15550100", ProductID: "nope"})
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Empty(t, dispatcher.calls)
	})
}
