package handler

import (
	"fmt"
	"net/http"
	"time"

	"omniauction/internal/agent"
	model "omniauction/internal/models"
	"omniauction/internal/voicecall"
	"omniauction/services/auction/helpers"
	"omniauction/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	ListProducts() []model.ProductSummary
	GetProduct(productID string) (model.ProductDetail, error)
	PlaceBid(productID, user string, amount float64) (model.Bid, error)
}

type CommandInterpreter interface {
	Handle(ctx *agent.DialogueContext, text string) string
}

type AuctionHandler struct {
	service  AuctionServiceInterface
	interp   CommandInterpreter
	sessions *agent.SessionStore
	calls    voicecall.Dispatcher
}

func NewAuctionHandler(service AuctionServiceInterface, interp CommandInterpreter, sessions *agent.SessionStore, calls voicecall.Dispatcher) *AuctionHandler {
	return &AuctionHandler{
		service:  service,
		interp:   interp,
		sessions: sessions,
		calls:    calls,
	}
}

// ListProductsHandler handles GET /api/products
func (h *AuctionHandler) ListProductsHandler(c *gin.Context) {
	summaries := h.service.ListProducts()

	resp := make([]helpers.ProductSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, helpers.NewProductSummaryResponse(s))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "products retrieved successfully")
	helpers.LogSuccess("ListProductsHandler", "products retrieved successfully", map[string]any{
		"count": len(resp),
	})
}

// GetProductHandler handles GET /api/products/:product_id
func (h *AuctionHandler) GetProductHandler(c *gin.Context) {
	productID := c.Param("product_id")

	detail, err := h.service.GetProduct(productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetProductHandler: error retrieving product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProductDetailResponse(detail), "product retrieved successfully")
	helpers.LogSuccess("GetProductHandler", "product retrieved successfully", map[string]any{
		"product_id": productID,
		"bids_count": detail.BidsCount,
	})
}

// PlaceBidHandler handles POST /api/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(req.ProductID, req.User, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"product_id": req.ProductID,
			"user":       req.User,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.BidResponse{
		BidID:     bid.BidID,
		ProductID: bid.ProductID,
		User:      bid.User,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"product_id": bid.ProductID,
		"user":       req.User,
		"amount":     bid.Amount,
	})
}

// CommandHandler handles POST /api/commands: one interpreter turn for the
// given session. Replies are always 200; the interpreter never propagates an
// error to the reply channel.
func (h *AuctionHandler) CommandHandler(c *gin.Context) {
	var req helpers.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CommandHandler", err)
		return
	}

	ctx := h.sessions.Context(req.SessionID)
	reply := h.interp.Handle(ctx, req.Text)

	resp := helpers.CommandResponse{
		SessionID: req.SessionID,
		Reply:     reply,
	}

	utils.JSONResponse(c, http.StatusOK, resp, "command processed successfully")
	helpers.LogSuccess("CommandHandler", "command processed successfully", map[string]any{
		"session_id": req.SessionID,
	})
}

// PlaceCallHandler handles POST /api/calls: dispatches an outbound call via
// the external voice provider quoting the product's current bid.
func (h *AuctionHandler) PlaceCallHandler(c *gin.Context) {
	var req helpers.PlaceCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceCallHandler", err)
		return
	}

	detail, err := h.service.GetProduct(req.ProductID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("PlaceCallHandler: unknown product", map[string]any{"product_id": req.ProductID, "error": err.Error()})
		return
	}

	if err := h.calls.PlaceCall(c.Request.Context(), req.PhoneNumber, detail.Name, detail.HighestBid); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceCallHandler: call dispatch failed", map[string]any{
			"product_id": req.ProductID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusAccepted, gin.H{"product_id": req.ProductID}, "call dispatch requested")
	helpers.LogSuccess("PlaceCallHandler", "call dispatch requested", map[string]any{
		"product_id": req.ProductID,
	})
}
