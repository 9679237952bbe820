package registry

import (
	"fmt"
	"math"
	"sync"
	"time"

	"omniauction/internal/auctionerrors"
	model "omniauction/internal/models"
	"omniauction/utils"
)

// historyLimit caps the bid history returned by GetProduct.
const historyLimit = 10

// Registry owns the product catalog and every product's bid state. The
// catalog is populated once at construction and never structurally modified,
// so the outer map needs no lock; each product carries its own RWMutex so
// bids on different products never serialize behind each other.
type Registry struct {
	now      func() time.Time
	order    []string
	products map[string]*productState
}

type productState struct {
	mu            sync.RWMutex
	product       model.Product
	highest       float64
	highestBidder string
	bids          []model.Bid
}

// New creates a Registry seeded with the given catalog. Products with a
// duplicate ID are ignored after the first occurrence. The clock is injected
// so tests can control time; nil defaults to time.Now.
func New(catalog []model.Product, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}

	r := &Registry{
		now:      now,
		products: make(map[string]*productState, len(catalog)),
	}

	for _, p := range catalog {
		if _, exists := r.products[p.ProductID]; exists {
			continue
		}
		r.order = append(r.order, p.ProductID)
		r.products[p.ProductID] = &productState{
			product: p,
			highest: p.StartingPrice,
		}
	}

	return r
}

// ListProducts returns summaries for every product in catalog order.
func (r *Registry) ListProducts() []model.ProductSummary {
	now := r.now()
	summaries := make([]model.ProductSummary, 0, len(r.order))
	for _, id := range r.order {
		st := r.products[id]
		st.mu.RLock()
		summaries = append(summaries, st.summaryLocked(now))
		st.mu.RUnlock()
	}
	return summaries
}

// GetProduct returns the summary plus the most recent bids in chronological
// order (at most historyLimit entries, newest last).
func (r *Registry) GetProduct(productID string) (model.ProductDetail, error) {
	st, ok := r.products[productID]
	if !ok {
		return model.ProductDetail{}, fmt.Errorf("get product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}

	st.mu.RLock()
	defer st.mu.RUnlock()

	detail := model.ProductDetail{ProductSummary: st.summaryLocked(r.now())}
	start := len(st.bids) - historyLimit
	if start < 0 {
		start = 0
	}
	detail.BiddingHistory = append([]model.Bid(nil), st.bids[start:]...)
	return detail, nil
}

// Has reports whether a product exists without taking its lock.
func (r *Registry) Has(productID string) bool {
	_, ok := r.products[productID]
	return ok
}

// CommitBid runs the whole validate-append-update sequence for one bid under
// the product's lock, so no reader can observe an appended bid whose amount
// has not yet updated the highest bid. Validation order: product exists,
// auction still open, amount finite and positive, amount strictly above the
// current highest.
//
// onCommit is invoked inside the critical section so that events for the same
// product are published in commit order; it must not block.
func (r *Registry) CommitBid(productID, user string, amount, minIncrement float64, onCommit func(bid model.Bid, product model.Product)) (model.Bid, error) {
	st, ok := r.products[productID]
	if !ok {
		return model.Bid{}, fmt.Errorf("commit bid for product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	now := r.now()
	if !st.product.EndsAt.After(now) {
		return model.Bid{}, fmt.Errorf("commit bid for product %s: %w", productID, auctionerrors.ErrAuctionClosed)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return model.Bid{}, fmt.Errorf("commit bid for product %s: %w", productID, auctionerrors.ErrInvalidAmount)
	}
	if amount <= st.highest {
		return model.Bid{}, fmt.Errorf("commit bid for product %s: %w - minimum acceptable bid is %.2f",
			productID, auctionerrors.ErrBidTooLow, st.highest+minIncrement)
	}

	bid := model.Bid{
		BidID:     utils.GenerateID(),
		ProductID: productID,
		User:      user,
		Amount:    amount,
		CreatedAt: now.UTC(),
	}

	st.bids = append(st.bids, bid)
	st.highest = amount
	st.highestBidder = user

	if onCommit != nil {
		onCommit(bid, st.product)
	}

	return bid, nil
}

// summaryLocked builds a summary snapshot; callers must hold at least the
// read lock.
func (st *productState) summaryLocked(now time.Time) model.ProductSummary {
	remaining := st.product.EndsAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return model.ProductSummary{
		ProductID:     st.product.ProductID,
		Name:          st.product.Name,
		Description:   st.product.Description,
		HighestBid:    st.highest,
		HighestBidder: st.highestBidder,
		TimeRemaining: remaining,
		BidsCount:     len(st.bids),
	}
}
