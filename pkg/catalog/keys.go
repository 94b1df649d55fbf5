package catalog

import (
	"encoding/json"
	"strings"
)

// ListQuery describes a paginated product listing request. It is part of the
// query descriptor: equal queries must always produce equal cache keys.
type ListQuery struct {
	Limit    int    `json:"limit"`
	Skip     int    `json:"skip"`
	Category string `json:"category,omitempty"`
}

// ListAllKey builds the cache key for a product listing. The parameters are
// serialized as canonical JSON so the key is deterministic: struct field
// order is fixed and an unset category is omitted entirely.
func ListAllKey(q ListQuery) string {
	params, _ := json.Marshal(q)
	return "products-all-" + string(params)
}

// ProductKey builds the cache key for a product detail lookup.
func ProductKey(id string) string {
	return "product-" + id
}

// CategoriesKey is the cache key for the category listing. The operation has
// no parameters, so the key is constant.
const CategoriesKey = "categories"

// CategoryKey builds the cache key for a by-category listing. Display names
// are matched case-insensitively everywhere, so the key folds case too.
func CategoryKey(displayName string) string {
	return "category-" + strings.ToLower(displayName)
}

// SearchKey builds the cache key for a search query. Searches match
// case-insensitively, so the key folds case: a prefetch for "Laps" warms the
// same entry a later search for "laps" reads.
func SearchKey(query string) string {
	return "search-" + strings.ToLower(query)
}
