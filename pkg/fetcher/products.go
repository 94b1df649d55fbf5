package fetcher

import (
	"context"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
)

// ListAll serves a paginated product listing: cache first, then the product
// chain in order. Both providers down is a terminal failure the caller must
// surface with a retry affordance.
func (s *Service) ListAll(ctx context.Context, query catalog.ListQuery) (catalog.Result[[]catalog.Product], error) {
	key := catalog.ListAllKey(query)
	if cached, ok := readCached[[]catalog.Product](ctx, s, key); ok {
		return cached, nil
	}

	return inFlight(s, key, func() (catalog.Result[[]catalog.Product], error) {
		for _, tier := range s.chains.ListAll {
			page, err := tier.ListProducts(ctx, query)
			if err != nil {
				s.logger.Warn().Err(err).Str("provider", tier.Name()).Msg("Product listing tier failed, advancing chain.")
				continue
			}
			result := catalog.OKWithTotal(page.Products, page.Total)
			writeCached(ctx, s, key, result, s.cfg.TTL.ListAll)
			return result, nil
		}

		s.logger.Error().Str("key", key).Msg("Every product listing tier failed.")
		return catalog.Fail[[]catalog.Product](catalog.ErrProductsUnavailable), catalog.ErrProductsUnavailable
	})
}

// GetByID serves a single product lookup through the same chain discipline.
func (s *Service) GetByID(ctx context.Context, id string) (catalog.Result[catalog.Product], error) {
	key := catalog.ProductKey(id)
	if cached, ok := readCached[catalog.Product](ctx, s, key); ok {
		return cached, nil
	}

	return inFlight(s, key, func() (catalog.Result[catalog.Product], error) {
		for _, tier := range s.chains.GetByID {
			product, err := tier.GetProduct(ctx, id)
			if err != nil {
				s.logger.Warn().Err(err).Str("provider", tier.Name()).Str("id", id).Msg("Product lookup tier failed, advancing chain.")
				continue
			}
			result := catalog.OK(product)
			writeCached(ctx, s, key, result, s.cfg.TTL.GetByID)
			return result, nil
		}

		s.logger.Error().Str("id", id).Msg("Every product lookup tier failed.")
		return catalog.Fail[catalog.Product](catalog.ErrProductNotFound), catalog.ErrProductNotFound
	})
}
