// Package event fans out funding-change notifications to subscribers
// (cache invalidation, dashboards) without coupling the ledger to any of
// them.
package event

import (
	"sync"
	"time"

	"github.com/gmallikarjunreddy/fundaroo-collective/internal/logger"
	"github.com/panjf2000/ants/v2"
)

// FundingChanged is emitted after each successfully applied backing.
type FundingChanged struct {
	ProjectID   uint      `json:"project_id"`
	Raised      float64   `json:"raised"`
	BackerCount int       `json:"backer_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Subscriber receives funding-changed events. Subscribers run on the
// notifier's worker pool and must not block indefinitely.
type Subscriber func(FundingChanged)

// Notifier dispatches events to subscribers on a shared goroutine pool.
type Notifier struct {
	pool *ants.Pool

	mu   sync.RWMutex
	subs []Subscriber
}

// NewNotifier creates a notifier backed by a pool of the given size.
func NewNotifier(workers int) (*Notifier, error) {
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Notifier{pool: pool}, nil
}

// Subscribe registers a subscriber for all future events.
func (n *Notifier) Subscribe(sub Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, sub)
}

// Publish delivers the event to every subscriber. Delivery is
// asynchronous; a full pool falls back to inline delivery rather than
// dropping the event.
func (n *Notifier) Publish(ev FundingChanged) {
	n.mu.RLock()
	subs := make([]Subscriber, len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, sub := range subs {
		sub := sub
		if err := n.pool.Submit(func() { sub(ev) }); err != nil {
			logger.Warn("event pool submit failed, delivering inline: %v", err)
			sub(ev)
		}
	}
}

// Close releases the worker pool.
func (n *Notifier) Close() {
	n.pool.Release()
}
