package fetcher

import (
	"context"
	"strings"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
)

// Search serves a substring search over name, description, and category,
// case-insensitively, on top of the uncategorized listing. Results are cached
// under the search key with the listing TTL, which is what the prefetch
// warmer relies on.
func (s *Service) Search(ctx context.Context, query string) (catalog.Result[[]catalog.Product], error) {
	key := catalog.SearchKey(query)
	if cached, ok := readCached[[]catalog.Product](ctx, s, key); ok {
		s.observeSearch(query, len(cached.Data), true)
		return cached, nil
	}

	result, err := inFlight(s, key, func() (catalog.Result[[]catalog.Product], error) {
		listing, err := s.ListAll(ctx, catalog.ListQuery{Limit: fallbackScanLimit})
		if err != nil {
			return catalog.Fail[[]catalog.Product](catalog.ErrProductsUnavailable), catalog.ErrProductsUnavailable
		}

		needle := strings.ToLower(query)
		matches := make([]catalog.Product, 0)
		for _, product := range listing.Data {
			if strings.Contains(strings.ToLower(product.Name), needle) ||
				strings.Contains(strings.ToLower(product.Description), needle) ||
				strings.Contains(strings.ToLower(product.Category), needle) {
				matches = append(matches, product)
			}
		}

		searchResult := catalog.OKWithTotal(matches, len(matches))
		writeCached(ctx, s, key, searchResult, s.cfg.TTL.ListAll)
		return searchResult, nil
	})
	if err == nil {
		s.observeSearch(query, len(result.Data), false)
	}
	return result, err
}

func (s *Service) observeSearch(term string, hits int, cacheHit bool) {
	if s.cfg.SearchObserver != nil {
		s.cfg.SearchObserver(term, hits, cacheHit)
	}
}
