// Package prefetch warms the fetch cache for queries a user is likely to
// issue next, so continuing to type lands on an already-warm entry.
package prefetch

import (
	"context"
	"sync"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
	"github.com/illmade-knight/go-storefront-cache/pkg/fetchcache"
	"github.com/rs/zerolog"
)

// Suffixes are the fixed word-suffix extensions speculatively appended to the
// current query.
var Suffixes = []string{"s", "es", "ing", "ed"}

// minWarmLength is the query length a debounced search must exceed before
// warming kicks in.
const minWarmLength = 2

// Searcher is the slice of the fetcher the warmer drives. Search populates
// the cache for its own query as a side effect, which is all the warmer
// wants from it.
type Searcher interface {
	Search(ctx context.Context, query string) (catalog.Result[[]catalog.Product], error)
}

// Warmer fires best-effort background searches for suffix extensions of the
// current query. Warms only ever populate the cache, so a warm that lands
// after the user has moved on is harmless: it keys on its own query string.
type Warmer struct {
	searcher Searcher
	store    fetchcache.Store
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

// NewWarmer creates a Warmer over the fetcher and the store it caches into.
func NewWarmer(searcher Searcher, store fetchcache.Store, logger zerolog.Logger) *Warmer {
	return &Warmer{
		searcher: searcher,
		store:    store,
		logger:   logger.With().Str("component", "Warmer").Logger(),
	}
}

// Warm speculatively fetches query+suffix for each suffix, skipping
// candidates that are already cached. It never blocks the caller: each
// candidate is fetched on its own goroutine, detached from the caller's
// cancellation so an in-flight warm survives the next keystroke.
func (w *Warmer) Warm(ctx context.Context, query string) {
	if len(query) <= minWarmLength {
		return
	}

	warmCtx := context.WithoutCancel(ctx)
	for _, suffix := range Suffixes {
		candidate := query + suffix

		// Already cached: nothing to warm.
		if _, ok, _ := w.store.Get(ctx, catalog.SearchKey(candidate)); ok {
			continue
		}

		w.wg.Add(1)
		go func(candidate string) {
			defer w.wg.Done()
			// Warm failures are logged at debug and otherwise discarded;
			// the real search runs its own chain.
			if _, err := w.searcher.Search(warmCtx, candidate); err != nil {
				w.logger.Debug().Err(err).Str("query", candidate).Msg("Prefetch candidate failed.")
			}
		}(candidate)
	}
}

// Wait blocks until every in-flight warm has finished. Serving paths never
// need this; it exists for tests and graceful shutdown.
func (w *Warmer) Wait() {
	w.wg.Wait()
}
