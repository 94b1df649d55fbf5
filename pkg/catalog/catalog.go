// Package catalog defines the canonical product and category records shared by
// every provider, cache, and fetcher in the module. Upstream providers each
// return their own response shapes; everything is normalized into these types
// before it is cached or handed to a caller.
package catalog

import "time"

// Product is the canonical normalized product record. It is the only product
// shape the cache ever stores, regardless of which provider tier produced it.
// Mirror documents carry the same field names, which is what the mirror's
// category filter and createdAt ordering query against.
type Product struct {
	ID          string    `json:"id" firestore:"id"`
	Name        string    `json:"name" firestore:"name"`
	Price       float64   `json:"price" firestore:"price"`
	Description string    `json:"description" firestore:"description"`
	Category    string    `json:"category" firestore:"category"`
	Stock       int       `json:"stock" firestore:"stock"`
	Images      []string  `json:"images" firestore:"images"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// Category pairs a provider-side slug with its display name.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// DefaultCategories is the terminal fallback tier for category listings. It is
// served when every category provider is unavailable, so category navigation
// degrades rather than erroring.
var DefaultCategories = []Category{
	{Slug: "elektronik", Name: "Elektronik"},
	{Slug: "pakaian-pria", Name: "Pakaian Pria"},
	{Slug: "pakaian-wanita", Name: "Pakaian Wanita"},
	{Slug: "perhiasan", Name: "Perhiasan"},
	{Slug: "kecantikan", Name: "Kecantikan"},
	{Slug: "rumah-tangga", Name: "Rumah Tangga"},
}
