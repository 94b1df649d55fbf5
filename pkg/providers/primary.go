package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
	"github.com/rs/zerolog"
)

// primaryCategoryNames translates the primary provider's category slugs into
// display names. Slugs absent from the dictionary pass through unchanged.
var primaryCategoryNames = map[string]string{
	"smartphones":     "Ponsel",
	"laptops":         "Laptop",
	"fragrances":      "Parfum",
	"skincare":        "Kecantikan",
	"groceries":       "Bahan Makanan",
	"home-decoration": "Rumah Tangga",
	"mens-shirts":     "Pakaian Pria",
	"womens-dresses":  "Pakaian Wanita",
	"electronics":     "Elektronik",
	"jewellery":       "Perhiasan",
}

// primaryCategoryTokens is the reverse dictionary, mapping display names back
// to the provider's category tokens for by-category calls.
var primaryCategoryTokens = func() map[string]string {
	tokens := make(map[string]string, len(primaryCategoryNames))
	for slug, name := range primaryCategoryNames {
		tokens[name] = slug
	}
	return tokens
}()

// PrimaryAPI is the client for the primary upstream provider. Its convention:
// an enveloped product list with a total count, slug-form categories, and a
// full image gallery plus thumbnail per product.
type PrimaryAPI struct {
	baseURL    string
	client     *http.Client
	multiplier float64
	logger     zerolog.Logger
}

// primaryProduct is the provider's native product shape.
type primaryProduct struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Thumbnail   string   `json:"thumbnail"`
}

type primaryListResponse struct {
	Products []primaryProduct `json:"products"`
	Total    int              `json:"total"`
}

// NewPrimaryAPI creates a client for the primary provider.
func NewPrimaryAPI(cfg Config, logger zerolog.Logger) (*PrimaryAPI, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("primary provider base URL cannot be empty")
	}
	cfg = cfg.withDefaults()

	return &PrimaryAPI{
		baseURL:    cfg.BaseURL,
		client:     &http.Client{Timeout: cfg.RequestTimeout},
		multiplier: cfg.CurrencyMultiplier,
		logger:     logger.With().Str("component", "PrimaryAPI").Logger(),
	}, nil
}

// Name identifies this provider in chain logs.
func (p *PrimaryAPI) Name() string { return "primary" }

// ListProducts fetches a page of products. A category-qualified query is
// routed to the provider's category endpoint, which paginates the same way,
// so the returned page only ever holds that category's products.
func (p *PrimaryAPI) ListProducts(ctx context.Context, query catalog.ListQuery) (Page, error) {
	path := "/products"
	if query.Category != "" {
		path = "/products/category/" + url.PathEscape(primaryCategoryToken(query.Category))
	}
	endpoint := fmt.Sprintf("%s%s?limit=%d&skip=%d", p.baseURL, path, query.Limit, query.Skip)

	var resp primaryListResponse
	if err := getJSON(ctx, p.client, endpoint, &resp); err != nil {
		return Page{}, err
	}

	p.logger.Debug().Int("count", len(resp.Products)).Int("total", resp.Total).Msg("Fetched product listing.")
	return Page{Products: p.normalizeAll(resp.Products), Total: resp.Total}, nil
}

// GetProduct fetches a single product by ID.
func (p *PrimaryAPI) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	endpoint := fmt.Sprintf("%s/products/%s", p.baseURL, url.PathEscape(id))

	var raw primaryProduct
	if err := getJSON(ctx, p.client, endpoint, &raw); err != nil {
		return catalog.Product{}, err
	}
	return p.normalize(raw), nil
}

// ListCategories fetches the provider's category slugs and translates each
// through the display-name dictionary.
func (p *PrimaryAPI) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	endpoint := p.baseURL + "/products/categories"

	var slugs []string
	if err := getJSON(ctx, p.client, endpoint, &slugs); err != nil {
		return nil, err
	}

	categories := make([]catalog.Category, 0, len(slugs))
	for _, slug := range slugs {
		categories = append(categories, catalog.Category{Slug: slug, Name: primaryDisplayName(slug)})
	}
	return categories, nil
}

// ListByCategory translates the display name into the provider's category
// token via the reverse dictionary (identity if unmapped) and fetches that
// category's products.
func (p *PrimaryAPI) ListByCategory(ctx context.Context, displayName string) (Page, error) {
	endpoint := fmt.Sprintf("%s/products/category/%s", p.baseURL, url.PathEscape(primaryCategoryToken(displayName)))

	var resp primaryListResponse
	if err := getJSON(ctx, p.client, endpoint, &resp); err != nil {
		return Page{}, err
	}
	return Page{Products: p.normalizeAll(resp.Products), Total: resp.Total}, nil
}

func (p *PrimaryAPI) normalizeAll(raw []primaryProduct) []catalog.Product {
	products := make([]catalog.Product, len(raw))
	for i, item := range raw {
		products[i] = p.normalize(item)
	}
	return products
}

func (p *PrimaryAPI) normalize(raw primaryProduct) catalog.Product {
	stock := raw.Stock
	if stock <= 0 {
		stock = synthesizeStock()
	}
	return catalog.Product{
		ID:          stringID(raw.ID),
		Name:        raw.Title,
		Price:       raw.Price * p.multiplier,
		Description: raw.Description,
		Category:    primaryDisplayName(raw.Category),
		Stock:       stock,
		Images:      nonEmptyImages(raw.Images, raw.Thumbnail),
		CreatedAt:   time.Now().UTC(),
	}
}

func primaryCategoryToken(displayName string) string {
	if token, ok := primaryCategoryTokens[displayName]; ok {
		return token
	}
	return displayName
}

func primaryDisplayName(slug string) string {
	if name, ok := primaryCategoryNames[slug]; ok {
		return name
	}
	return slug
}
