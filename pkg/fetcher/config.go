// Package fetcher implements the resilient catalog fetcher: for each logical
// query it consults the fetch cache, then walks an ordered chain of provider
// tiers, first success wins. The final returned result, and only that result,
// is written back to the cache under the originally requested key.
package fetcher

import (
	"time"

	"github.com/illmade-knight/go-storefront-cache/pkg/providers"
)

// TTLConfig is the per-operation freshness table. Catalog-wide listings churn
// more than a single item's detail, and categories are nearly static, so each
// operation gets its own window.
type TTLConfig struct {
	ListAll    time.Duration
	GetByID    time.Duration
	Categories time.Duration
	ByCategory time.Duration
}

// DefaultTTLConfig returns the standard freshness table.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		ListAll:    5 * time.Minute,
		GetByID:    10 * time.Minute,
		Categories: 30 * time.Minute,
		ByCategory: 10 * time.Minute,
	}
}

func (c TTLConfig) withDefaults() TTLConfig {
	defaults := DefaultTTLConfig()
	if c.ListAll <= 0 {
		c.ListAll = defaults.ListAll
	}
	if c.GetByID <= 0 {
		c.GetByID = defaults.GetByID
	}
	if c.Categories <= 0 {
		c.Categories = defaults.Categories
	}
	if c.ByCategory <= 0 {
		c.ByCategory = defaults.ByCategory
	}
	return c
}

// Config holds the fetcher's tunables.
type Config struct {
	TTL TTLConfig
	// DedupeInFlight collapses concurrent cache misses for the same key into
	// a single upstream fetch. Off by default: without it two racing callers
	// both pay for the fetch and last writer wins, which is harmless.
	DedupeInFlight bool
	// SearchObserver, when set, is told about every search issued: the term,
	// the number of hits, and whether the cache answered. It must not block.
	SearchObserver func(term string, hits int, cacheHit bool)
}

// Chains are the ordered provider tiers per operation. A nil tier entry is
// never valid; optional tiers are simply omitted.
type Chains struct {
	ListAll    []providers.ProductLister
	GetByID    []providers.ProductGetter
	Categories []providers.CategoryLister
	ByCategory []providers.CategoryProductLister
}

// DefaultChains wires the standard fallback order. The mirror, when present,
// is consulted before the external providers for product reads. The category
// chain always terminates in the static defaults tier, which is what makes
// category listings always-available degraded data.
func DefaultChains(mirror *providers.Mirror, primary *providers.PrimaryAPI, secondary *providers.SecondaryAPI, defaults *providers.StaticCategories) Chains {
	if defaults == nil {
		defaults = providers.NewStaticCategories(nil)
	}

	chains := Chains{
		ListAll:    []providers.ProductLister{primary, secondary},
		GetByID:    []providers.ProductGetter{primary, secondary},
		Categories: []providers.CategoryLister{primary, secondary, defaults},
		ByCategory: []providers.CategoryProductLister{primary, secondary},
	}
	if mirror != nil {
		chains.ListAll = append([]providers.ProductLister{mirror}, chains.ListAll...)
		chains.GetByID = append([]providers.ProductGetter{mirror}, chains.GetByID...)
	}
	return chains
}
