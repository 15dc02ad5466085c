// Package search runs item searches at keystroke rate. Live debounces query
// updates, cancels superseded queries and only delivers the result of the
// most recent one.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/models"
)

// Searcher is the query backend, normally *services.ItemService.
type Searcher interface {
	Search(ctx context.Context, v models.Variant, query string) ([]models.ItemView, error)
}

// Result is one delivered search outcome.
type Result struct {
	Generation uint64
	Variant    models.Variant
	Query      string
	Items      []models.ItemView
	Err        error
}

// Live coalesces query updates. After Update, the query runs once no further
// update arrives within the debounce window. A result is handed to the
// deliver callback only if no newer Update happened meanwhile, and
// deliveries never overlap.
type Live struct {
	parent   context.Context
	searcher Searcher
	debounce time.Duration
	deliver  func(Result)
	log      logging.Logger

	mu      sync.Mutex
	gen     uint64
	pending *pendingQuery
	timer   *time.Timer
	cancel  context.CancelFunc
	closed  bool

	deliverMu sync.Mutex
	wg        sync.WaitGroup
}

type pendingQuery struct {
	gen     uint64
	variant models.Variant
	query   string
}

func NewLive(ctx context.Context, s Searcher, debounce time.Duration, deliver func(Result), log logging.Logger) *Live {
	if log == nil {
		log = logging.NewNop()
	}
	return &Live{parent: ctx, searcher: s, debounce: debounce, deliver: deliver, log: log}
}

// Update replaces the pending query. Any scheduled or running search for an
// older query is abandoned. It returns the generation assigned to query.
func (l *Live) Update(v models.Variant, query string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return l.gen
	}

	l.gen++
	gen := l.gen

	if l.timer != nil {
		l.timer.Stop()
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	l.pending = &pendingQuery{gen: gen, variant: v, query: query}
	l.timer = time.AfterFunc(l.debounce, func() { l.fire(gen, v, query) })
	return gen
}

// Flush runs the pending query without waiting for the debounce window and
// returns once its result, or that of a search already running, has been
// delivered.
func (l *Live) Flush() {
	l.mu.Lock()
	p := l.pending
	if p != nil && l.timer != nil {
		l.timer.Stop()
	}
	l.mu.Unlock()

	if p != nil {
		l.fire(p.gen, p.variant, p.query)
	}
	l.wg.Wait()
}

func (l *Live) fire(gen uint64, v models.Variant, query string) {
	l.mu.Lock()
	// The timer and Flush may both try to run the same query; whoever
	// claims pending first runs it.
	if l.closed || gen != l.gen || l.pending == nil || l.pending.gen != gen {
		l.mu.Unlock()
		return
	}
	l.pending = nil
	ctx, cancel := context.WithCancel(l.parent)
	l.cancel = cancel
	l.wg.Add(1)
	l.mu.Unlock()

	defer l.wg.Done()
	defer cancel()

	items, err := l.searcher.Search(ctx, v, query)

	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	l.mu.Lock()
	stale := l.closed || gen != l.gen
	if !stale {
		l.cancel = nil
	}
	l.mu.Unlock()

	if stale {
		l.log.Debug(ctx, "stale search result dropped", "generation", gen, "query", query)
		return
	}

	l.deliver(Result{Generation: gen, Variant: v, Query: query, Items: items, Err: err})
}

// Close stops the pending timer, cancels a running search and waits for it
// to return. No result is delivered after Close returns.
func (l *Live) Close() {
	l.mu.Lock()
	l.closed = true
	l.pending = nil
	if l.timer != nil {
		l.timer.Stop()
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	l.wg.Wait()
}
