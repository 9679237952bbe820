package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"omniauction/internal/agent"
	auction "omniauction/internal/auctionService"
	"omniauction/internal/broadcast"
	model "omniauction/internal/models"
	"omniauction/internal/registry"
	"omniauction/internal/server"
	"omniauction/internal/voicecall"

	"github.com/gin-gonic/gin"
)

// SetupTestRouter wires the full in-memory stack behind a router seeded with
// the given products. No call provider is configured.
func SetupTestRouter(products ...model.Product) *gin.Engine {
	return SetupTestRouterWithProvider("", products...)
}

// SetupTestRouterWithProvider is SetupTestRouter with an external call
// provider URL for the voice dispatch tests.
func SetupTestRouterWithProvider(callProviderURL string, products ...model.Product) *gin.Engine {
	gin.SetMode(gin.TestMode)

	reg := registry.New(products, time.Now)
	broadcaster := broadcast.New()
	service := auction.NewAuctionService(reg, broadcaster, 1)
	interp := agent.NewInterpreter(service)
	dispatcher := voicecall.NewHTTPDispatcher(callProviderURL)

	return server.SetupRouter(service, interp, agent.NewSessionStore(), broadcaster, dispatcher)
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}

// openProduct builds a product whose auction is still running.
func openProduct(id, name string, startingPrice float64) model.Product {
	return model.Product{
		ProductID:     id,
		Name:          name,
		Description:   "description for " + name,
		StartingPrice: startingPrice,
		EndsAt:        time.Now().Add(time.Hour),
	}
}

// closedProduct builds a product whose auction already ended.
func closedProduct(id, name string, startingPrice float64) model.Product {
	p := openProduct(id, name, startingPrice)
	p.EndsAt = time.Now().Add(-time.Minute)
	return p
}
