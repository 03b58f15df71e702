// Package guard serializes payment finalization per request id so a
// double-submitted finalize cannot apply the same payment twice.
package guard

import (
	"strings"
	"sync"

	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
)

type FinalizeGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewFinalizeGuard() *FinalizeGuard {
	return &FinalizeGuard{inFlight: make(map[string]struct{})}
}

// Acquire latches the request id. It fails with ErrPaymentInFlight while
// an earlier finalize for the same id has not released the latch.
func (g *FinalizeGuard) Acquire(requestID string) error {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return domain.ErrInvalidRequest
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.inFlight[requestID]; ok {
		return domain.ErrPaymentInFlight
	}
	g.inFlight[requestID] = struct{}{}
	return nil
}

// Release clears the latch. Called after success or failure; a retry is a
// user decision and arrives as a fresh Acquire.
func (g *FinalizeGuard) Release(requestID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, strings.TrimSpace(requestID))
}
