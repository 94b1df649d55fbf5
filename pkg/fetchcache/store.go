// Package fetchcache provides the time-bounded key/value store that memoizes
// upstream fetch results. Values are opaque JSON payloads; the fetcher owns
// their shape. Entries expire lazily: an expired entry is removed as a side
// effect of the read that discovers it.
package fetchcache

import (
	"context"
	"io"
	"time"
)

// Store is the contract for a fetch cache tier. Implementations must be safe
// for concurrent use; ordering across concurrent writers for the same key is
// last writer wins.
type Store interface {
	// Get returns the stored value for key. The second return is false when
	// the key is absent or its entry has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl, unconditionally overwriting any
	// existing entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry. The next read of any key forces a fresh
	// upstream fetch.
	Clear(ctx context.Context) error
	// Closer is included for implementations that manage network connections.
	io.Closer
}
