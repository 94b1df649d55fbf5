package catalog

import "errors"

// Terminal errors surfaced once an operation's entire provider chain is
// exhausted. Transient per-tier failures are never surfaced directly; they
// only advance the chain.
var (
	// ErrProductsUnavailable is returned when no provider could serve a
	// product listing.
	ErrProductsUnavailable = errors.New("products unavailable from all providers")

	// ErrProductNotFound is returned when no provider could serve a product
	// detail lookup.
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoriesUnavailable exists for completeness of the taxonomy. The
	// category chain always degrades to DefaultCategories, so this error is
	// never actually returned.
	ErrCategoriesUnavailable = errors.New("categories unavailable from all providers")

	// ErrCategoryProductsUnavailable exists for completeness of the taxonomy.
	// The by-category chain always degrades to local filtering, so this error
	// is never actually returned.
	ErrCategoryProductsUnavailable = errors.New("category products unavailable from all providers")
)
