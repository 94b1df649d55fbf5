package fetcher

import (
	"context"
	"strings"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
)

// fallbackScanLimit bounds the uncategorized listing fetched when the
// by-category chain degrades to local filtering.
const fallbackScanLimit = 100

// ListCategories serves the category listing. With the standard chain the
// final tier is the static defaults, so this operation degrades rather than
// erroring; a custom chain without that tier can still exhaust.
func (s *Service) ListCategories(ctx context.Context) (catalog.Result[[]catalog.Category], error) {
	key := catalog.CategoriesKey
	if cached, ok := readCached[[]catalog.Category](ctx, s, key); ok {
		return cached, nil
	}

	return inFlight(s, key, func() (catalog.Result[[]catalog.Category], error) {
		for _, tier := range s.chains.Categories {
			categories, err := tier.ListCategories(ctx)
			if err != nil {
				s.logger.Warn().Err(err).Str("provider", tier.Name()).Msg("Category tier failed, advancing chain.")
				continue
			}
			result := catalog.OK(categories)
			writeCached(ctx, s, key, result, s.cfg.TTL.Categories)
			return result, nil
		}

		s.logger.Error().Msg("Every category tier failed.")
		return catalog.Fail[[]catalog.Category](catalog.ErrCategoriesUnavailable), catalog.ErrCategoriesUnavailable
	})
}

// ListByCategory serves a category-filtered listing. After the provider tiers
// it degrades to filtering an uncategorized listing locally, so the operation
// never errors: an empty result means no matches, not failure.
func (s *Service) ListByCategory(ctx context.Context, displayName string) (catalog.Result[[]catalog.Product], error) {
	key := catalog.CategoryKey(displayName)
	if cached, ok := readCached[[]catalog.Product](ctx, s, key); ok {
		return cached, nil
	}

	return inFlight(s, key, func() (catalog.Result[[]catalog.Product], error) {
		for _, tier := range s.chains.ByCategory {
			page, err := tier.ListByCategory(ctx, displayName)
			if err != nil {
				s.logger.Warn().Err(err).Str("provider", tier.Name()).Str("category", displayName).Msg("By-category tier failed, advancing chain.")
				continue
			}
			result := catalog.OKWithTotal(page.Products, page.Total)
			writeCached(ctx, s, key, result, s.cfg.TTL.ByCategory)
			return result, nil
		}

		// Terminal tier: filter already-fetchable data locally.
		s.logger.Warn().Str("category", displayName).Msg("Every by-category tier failed, filtering an uncategorized listing locally.")
		listing, err := s.ListAll(ctx, catalog.ListQuery{Limit: fallbackScanLimit})
		if err != nil {
			// Even the uncategorized listing is unavailable. The operation
			// still does not error; it reports no matches.
			result := catalog.OK([]catalog.Product{})
			return result, nil
		}

		filtered := make([]catalog.Product, 0)
		for _, product := range listing.Data {
			if strings.EqualFold(product.Category, displayName) {
				filtered = append(filtered, product)
			}
		}
		result := catalog.OKWithTotal(filtered, len(filtered))
		writeCached(ctx, s, key, result, s.cfg.TTL.ByCategory)
		return result, nil
	})
}
