// Package providers contains the upstream catalog data sources. Each provider
// speaks its own wire convention and vocabulary; all of them normalize their
// responses into the canonical catalog types before returning, so the fetcher
// and cache never see a provider-specific shape.
package providers

import (
	"context"
	"time"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
)

// Page is a normalized slice of a product listing. Total is the upstream
// total where the provider reports one, otherwise the served count.
type Page struct {
	Products []catalog.Product
	Total    int
}

// The fetcher iterates ordered chains of these narrow strategies, first
// success wins. A provider implements only the operations it can serve.

// ProductLister serves paginated product listings.
type ProductLister interface {
	Name() string
	ListProducts(ctx context.Context, query catalog.ListQuery) (Page, error)
}

// ProductGetter serves single product lookups.
type ProductGetter interface {
	Name() string
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// CategoryLister serves the category listing.
type CategoryLister interface {
	Name() string
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

// CategoryProductLister serves listings filtered to one category, identified
// by its display name.
type CategoryProductLister interface {
	Name() string
	ListByCategory(ctx context.Context, displayName string) (Page, error)
}

// Config holds the tunables shared by the HTTP provider clients.
type Config struct {
	BaseURL string
	// RequestTimeout bounds every upstream call; a timeout is a tier failure
	// like any other.
	RequestTimeout time.Duration
	// CurrencyMultiplier converts upstream prices into the target currency
	// during normalization. It is deliberately plain configuration, not an
	// exchange rate the module tries to infer.
	CurrencyMultiplier float64
}

const (
	defaultRequestTimeout     = 10 * time.Second
	defaultCurrencyMultiplier = 1.0
)

func (c Config) withDefaults() Config {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.CurrencyMultiplier <= 0 {
		c.CurrencyMultiplier = defaultCurrencyMultiplier
	}
	return c
}
