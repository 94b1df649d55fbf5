package providers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
	"github.com/illmade-knight/go-storefront-cache/pkg/providers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrimaryServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "1", r.URL.Query().Get("skip"))
		_, _ = w.Write([]byte(`{
			"products": [
				{"id": 2, "title": "Ponsel Pintar", "price": 100, "description": "d", "category": "smartphones", "stock": 12, "images": ["a.jpg"], "thumbnail": "t.jpg"},
				{"id": 3, "title": "Tanpa Gambar", "price": 50, "description": "d", "category": "unlisted-slug", "stock": 0, "images": [], "thumbnail": ""}
			],
			"total": 40
		}`))
	})
	mux.HandleFunc("/products/2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 2, "title": "Ponsel Pintar", "price": 100, "description": "d", "category": "smartphones", "stock": 12, "images": ["a.jpg"], "thumbnail": "t.jpg"}`))
	})
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["smartphones", "laptops", "unlisted-slug"]`))
	})
	mux.HandleFunc("/products/category/smartphones", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"products": [{"id": 2, "title": "Ponsel Pintar", "price": 100, "category": "smartphones", "stock": 5, "images": ["a.jpg"]}], "total": 1}`))
	})
	mux.HandleFunc("/products/category/electronics", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "2", r.URL.Query().Get("skip"))
		_, _ = w.Write([]byte(`{"products": [{"id": 7, "title": "Kipas Angin", "price": 30, "category": "electronics", "stock": 9, "images": ["k.jpg"]}], "total": 11}`))
	})
	return httptest.NewServer(mux)
}

func TestPrimaryAPI_ListProducts(t *testing.T) {
	ctx := context.Background()
	server := newPrimaryServer(t)
	defer server.Close()

	api, err := providers.NewPrimaryAPI(providers.Config{BaseURL: server.URL, CurrencyMultiplier: 2}, zerolog.Nop())
	require.NoError(t, err)

	// Act
	page, err := api.ListProducts(ctx, catalog.ListQuery{Limit: 3, Skip: 1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 40, page.Total)
	require.Len(t, page.Products, 2)

	first := page.Products[0]
	assert.Equal(t, "2", first.ID, "numeric upstream IDs are stringified")
	assert.Equal(t, float64(200), first.Price, "price is converted via the multiplier")
	assert.Equal(t, "Ponsel", first.Category, "category slug is translated to its display name")
	assert.Equal(t, []string{"a.jpg"}, first.Images)
	assert.False(t, first.CreatedAt.IsZero())

	second := page.Products[1]
	assert.Equal(t, "unlisted-slug", second.Category, "unmapped slugs pass through unchanged")
	assert.NotEmpty(t, second.Images, "images are never empty")
	assert.Greater(t, second.Stock, 0, "missing stock is synthesized")
}

func TestPrimaryAPI_ListProducts_CategoryQualified(t *testing.T) {
	ctx := context.Background()
	server := newPrimaryServer(t)
	defer server.Close()

	api, err := providers.NewPrimaryAPI(providers.Config{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	// A category-qualified listing must be routed to the category endpoint,
	// with the display name translated back to the provider token, so the page
	// only holds that category's products.
	page, err := api.ListProducts(ctx, catalog.ListQuery{Limit: 5, Skip: 2, Category: "Elektronik"})

	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Elektronik", page.Products[0].Category)
}

func TestPrimaryAPI_GetProduct(t *testing.T) {
	ctx := context.Background()
	server := newPrimaryServer(t)
	defer server.Close()

	api, err := providers.NewPrimaryAPI(providers.Config{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	product, err := api.GetProduct(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Ponsel Pintar", product.Name)
	assert.Equal(t, float64(100), product.Price, "default multiplier is 1")
}

func TestPrimaryAPI_ListCategories(t *testing.T) {
	ctx := context.Background()
	server := newPrimaryServer(t)
	defer server.Close()

	api, err := providers.NewPrimaryAPI(providers.Config{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	categories, err := api.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Category{
		{Slug: "smartphones", Name: "Ponsel"},
		{Slug: "laptops", Name: "Laptop"},
		{Slug: "unlisted-slug", Name: "unlisted-slug"},
	}, categories)
}

func TestPrimaryAPI_ListByCategory(t *testing.T) {
	ctx := context.Background()
	server := newPrimaryServer(t)
	defer server.Close()

	api, err := providers.NewPrimaryAPI(providers.Config{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	// "Ponsel" must be translated back to the provider token "smartphones".
	page, err := api.ListByCategory(ctx, "Ponsel")
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Ponsel", page.Products[0].Category)
}

func TestPrimaryAPI_ErrorStatusIsTierFailure(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	api, err := providers.NewPrimaryAPI(providers.Config{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	_, err = api.ListProducts(ctx, catalog.ListQuery{Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
