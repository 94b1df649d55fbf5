package prefetch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
	"github.com/illmade-knight/go-storefront-cache/pkg/fetchcache"
	"github.com/illmade-knight/go-storefront-cache/pkg/prefetch"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSearcher records the queries it was asked to search and optionally
// blocks until released, to prove Warm never waits for its goroutines.
type mockSearcher struct {
	store   *fetchcache.MemoryStore
	release chan struct{}
	err     error

	mu      sync.Mutex
	queries []string
}

func (m *mockSearcher) Search(ctx context.Context, query string) (catalog.Result[[]catalog.Product], error) {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.err != nil {
		return catalog.Result[[]catalog.Product]{}, m.err
	}
	result := catalog.OK([]catalog.Product{})
	value := []byte(`{"success":true,"data":[]}`)
	_ = m.store.Set(ctx, catalog.SearchKey(query), value, time.Minute)
	return result, nil
}

func (m *mockSearcher) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

func TestWarmer_Warm(t *testing.T) {
	ctx := context.Background()

	t.Run("Short queries are not warmed", func(t *testing.T) {
		store := fetchcache.NewMemoryStore()
		searcher := &mockSearcher{store: store}
		warmer := prefetch.NewWarmer(searcher, store, zerolog.Nop())

		warmer.Warm(ctx, "la")
		warmer.Wait()

		assert.Empty(t, searcher.seen(), "length-2 queries must not trigger prefetch")
	})

	t.Run("All suffix candidates are fetched and cached", func(t *testing.T) {
		store := fetchcache.NewMemoryStore()
		searcher := &mockSearcher{store: store}
		warmer := prefetch.NewWarmer(searcher, store, zerolog.Nop())

		// Act
		warmer.Warm(ctx, "lap")
		warmer.Wait()

		// Assert
		assert.ElementsMatch(t, []string{"laps", "lapes", "laping", "laped"}, searcher.seen())
		for _, candidate := range []string{"laps", "lapes", "laping", "laped"} {
			_, ok, err := store.Get(ctx, catalog.SearchKey(candidate))
			require.NoError(t, err)
			assert.True(t, ok, "candidate %q should be warm", candidate)
		}
	})

	t.Run("Already-cached candidates are skipped", func(t *testing.T) {
		store := fetchcache.NewMemoryStore()
		searcher := &mockSearcher{store: store}
		warmer := prefetch.NewWarmer(searcher, store, zerolog.Nop())

		require.NoError(t, store.Set(ctx, catalog.SearchKey("laps"), []byte(`{}`), time.Minute))

		// Act
		warmer.Warm(ctx, "lap")
		warmer.Wait()

		// Assert
		assert.ElementsMatch(t, []string{"lapes", "laping", "laped"}, searcher.seen())
	})

	t.Run("Warm does not block the caller", func(t *testing.T) {
		store := fetchcache.NewMemoryStore()
		searcher := &mockSearcher{store: store, release: make(chan struct{})}
		warmer := prefetch.NewWarmer(searcher, store, zerolog.Nop())

		// Act: with every search gated shut, Warm must still return promptly.
		done := make(chan struct{})
		go func() {
			warmer.Warm(ctx, "lap")
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Warm blocked on its prefetch goroutines")
		}

		// Release the gated searches and drain them.
		close(searcher.release)
		warmer.Wait()
		assert.Len(t, searcher.seen(), 4)
	})

	t.Run("Failures are swallowed", func(t *testing.T) {
		store := fetchcache.NewMemoryStore()
		searcher := &mockSearcher{store: store, err: errors.New("chain exhausted")}
		warmer := prefetch.NewWarmer(searcher, store, zerolog.Nop())

		// Act: nothing to assert beyond "does not panic and completes".
		warmer.Warm(ctx, "lap")
		warmer.Wait()

		assert.Len(t, searcher.seen(), 4)
	})
}
