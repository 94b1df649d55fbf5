package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
	"github.com/rs/zerolog"
)

// secondaryCategoryNames translates the secondary provider's category
// vocabulary into display names. Its vocabulary differs from the primary's.
var secondaryCategoryNames = map[string]string{
	"electronics":      "Elektronik",
	"jewelery":         "Perhiasan",
	"men's clothing":   "Pakaian Pria",
	"women's clothing": "Pakaian Wanita",
}

// SecondaryAPI is the client for the secondary upstream provider. Its
// convention: flat JSON arrays with no envelope and no total, pagination by a
// single limit parameter, one image per product, and no stock field.
type SecondaryAPI struct {
	baseURL    string
	client     *http.Client
	multiplier float64
	logger     zerolog.Logger
}

// secondaryProduct is the provider's native product shape.
type secondaryProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// NewSecondaryAPI creates a client for the secondary provider.
func NewSecondaryAPI(cfg Config, logger zerolog.Logger) (*SecondaryAPI, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("secondary provider base URL cannot be empty")
	}
	cfg = cfg.withDefaults()

	return &SecondaryAPI{
		baseURL:    cfg.BaseURL,
		client:     &http.Client{Timeout: cfg.RequestTimeout},
		multiplier: cfg.CurrencyMultiplier,
		logger:     logger.With().Str("component", "SecondaryAPI").Logger(),
	}, nil
}

// Name identifies this provider in chain logs.
func (s *SecondaryAPI) Name() string { return "secondary" }

// ListProducts fetches a page of products. The provider only understands a
// limit parameter, so skip is translated: limit+skip items are requested and
// the first skip items trimmed client-side. A category-qualified query is
// routed to the category endpoint, which paginates the same way.
func (s *SecondaryAPI) ListProducts(ctx context.Context, query catalog.ListQuery) (Page, error) {
	requested := query.Limit + query.Skip
	path := "/products"
	if query.Category != "" {
		path = "/products/category/" + url.PathEscape(secondarySlug(query.Category))
	}
	endpoint := fmt.Sprintf("%s%s?limit=%d", s.baseURL, path, requested)

	var raw []secondaryProduct
	if err := getJSON(ctx, s.client, endpoint, &raw); err != nil {
		return Page{}, err
	}

	total := len(raw)
	if query.Skip > 0 {
		if query.Skip >= len(raw) {
			raw = nil
		} else {
			raw = raw[query.Skip:]
		}
	}

	s.logger.Debug().Int("count", len(raw)).Msg("Fetched product listing.")
	return Page{Products: s.normalizeAll(raw), Total: total}, nil
}

// GetProduct fetches a single product by ID.
func (s *SecondaryAPI) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	endpoint := fmt.Sprintf("%s/products/%s", s.baseURL, url.PathEscape(id))

	var raw secondaryProduct
	if err := getJSON(ctx, s.client, endpoint, &raw); err != nil {
		return catalog.Product{}, err
	}
	// The provider answers missing IDs with an empty body rather than an
	// error status; treat that as a tier failure so the chain advances.
	if raw.ID == 0 && raw.Title == "" {
		return catalog.Product{}, fmt.Errorf("product %s not found at secondary provider", id)
	}
	return s.normalize(raw), nil
}

// ListCategories fetches the provider's categories and translates each
// through its display-name dictionary.
func (s *SecondaryAPI) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	endpoint := s.baseURL + "/products/categories"

	var names []string
	if err := getJSON(ctx, s.client, endpoint, &names); err != nil {
		return nil, err
	}

	categories := make([]catalog.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, catalog.Category{Slug: secondarySlug(name), Name: secondaryDisplayName(name)})
	}
	return categories, nil
}

// ListByCategory converts the display name into the provider's slug form,
// lowercase with spaces as hyphens, and fetches that category's products.
func (s *SecondaryAPI) ListByCategory(ctx context.Context, displayName string) (Page, error) {
	endpoint := fmt.Sprintf("%s/products/category/%s", s.baseURL, url.PathEscape(secondarySlug(displayName)))

	var raw []secondaryProduct
	if err := getJSON(ctx, s.client, endpoint, &raw); err != nil {
		return Page{}, err
	}
	return Page{Products: s.normalizeAll(raw), Total: len(raw)}, nil
}

func (s *SecondaryAPI) normalizeAll(raw []secondaryProduct) []catalog.Product {
	products := make([]catalog.Product, len(raw))
	for i, item := range raw {
		products[i] = s.normalize(item)
	}
	return products
}

func (s *SecondaryAPI) normalize(raw secondaryProduct) catalog.Product {
	return catalog.Product{
		ID:          stringID(raw.ID),
		Name:        raw.Title,
		Price:       raw.Price * s.multiplier,
		Description: raw.Description,
		Category:    secondaryDisplayName(raw.Category),
		// The provider reports no stock; a placeholder keeps the canonical
		// shape intact.
		Stock:     synthesizeStock(),
		Images:    nonEmptyImages(nil, raw.Image),
		CreatedAt: time.Now().UTC(),
	}
}

func secondaryDisplayName(name string) string {
	if display, ok := secondaryCategoryNames[name]; ok {
		return display
	}
	return name
}

func secondarySlug(displayName string) string {
	return strings.ReplaceAll(strings.ToLower(displayName), " ", "-")
}
