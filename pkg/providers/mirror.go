package providers

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MirrorConfig holds configuration for the Firestore catalog mirror.
type MirrorConfig struct {
	ProjectID      string
	CollectionName string
}

// Mirror reads products from a Firestore collection that replicates the
// storefront's own catalog. Deployments that maintain such a replica put it
// first in the product chains so external providers are only consulted when
// the replica is unavailable. It serves product listings and lookups only;
// category operations stay with the external providers.
type Mirror struct {
	client         *firestore.Client
	collectionName string
	logger         zerolog.Logger
}

// NewMirror creates a catalog mirror over an existing Firestore client. The
// client's lifecycle is managed by the caller.
func NewMirror(cfg *MirrorConfig, client *firestore.Client, logger zerolog.Logger) (*Mirror, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client cannot be nil")
	}

	logger.Info().Str("project_id", cfg.ProjectID).Str("collection", cfg.CollectionName).Msg("Catalog mirror initialized.")

	return &Mirror{
		client:         client,
		collectionName: cfg.CollectionName,
		logger:         logger.With().Str("component", "Mirror").Logger(),
	}, nil
}

// Name identifies this provider in chain logs.
func (m *Mirror) Name() string { return "mirror" }

// ListProducts reads a page of products from the mirror collection. Documents
// already hold the canonical shape, so no normalization is needed. A
// category-qualified query filters on the stored display name.
func (m *Mirror) ListProducts(ctx context.Context, query catalog.ListQuery) (Page, error) {
	q := m.client.Collection(m.collectionName).Query
	if query.Category != "" {
		q = q.Where("category", "==", query.Category)
	}
	q = q.OrderBy("createdAt", firestore.Desc).Offset(query.Skip).Limit(query.Limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var products []catalog.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			m.logger.Error().Err(err).Msg("Failed to iterate mirror collection.")
			return Page{}, fmt.Errorf("mirror list: %w", err)
		}
		var product catalog.Product
		if err := doc.DataTo(&product); err != nil {
			return Page{}, fmt.Errorf("mirror DataTo for %s: %w", doc.Ref.ID, err)
		}
		products = append(products, product)
	}

	// An empty mirror means the replica has not been seeded; advancing the
	// chain beats serving an empty catalog.
	if len(products) == 0 {
		return Page{}, fmt.Errorf("mirror collection %s is empty", m.collectionName)
	}

	m.logger.Debug().Int("count", len(products)).Msg("Served product listing from mirror.")
	return Page{Products: products, Total: len(products) + query.Skip}, nil
}

// GetProduct reads a single product document by ID.
func (m *Mirror) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	docSnap, err := m.client.Collection(m.collectionName).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			m.logger.Warn().Str("id", id).Msg("Product not in mirror.")
			return catalog.Product{}, fmt.Errorf("product %s not in mirror: %w", id, err)
		}
		m.logger.Error().Err(err).Str("id", id).Msg("Failed to read product from mirror.")
		return catalog.Product{}, fmt.Errorf("mirror get for %s: %w", id, err)
	}

	var product catalog.Product
	if err := docSnap.DataTo(&product); err != nil {
		return catalog.Product{}, fmt.Errorf("mirror DataTo for %s: %w", id, err)
	}
	return product, nil
}

// Close is a no-op as the Firestore client's lifecycle is managed externally.
func (m *Mirror) Close() error {
	m.logger.Info().Msg("Mirror does not close the injected Firestore client.")
	return nil
}
