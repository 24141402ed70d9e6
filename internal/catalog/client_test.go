package catalog_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/catalog/catalogtest"
	"storefront/internal/domain"
)

func fakeProduct(id int, price float64) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       gofakeit.ProductName(),
		Price:       price,
		Description: gofakeit.Sentence(8),
		Images:      []string{gofakeit.URL()},
		Category:    domain.Category{ID: 1, Name: "Clothes", Image: gofakeit.URL()},
	}
}

func newClient(t *testing.T, server *catalogtest.Server, source catalog.TokenSource) *catalog.Client {
	t.Helper()
	client, err := catalog.NewClient(catalog.Config{
		BaseURL:     server.URL(),
		TokenSource: source,
	})
	require.NoError(t, err)
	return client
}

func TestLogin(t *testing.T) {
	server := catalogtest.NewServer()
	defer server.Close()
	server.AddUser("maria@example.com", "changeme")

	client := newClient(t, server, nil)

	t.Run("valid credentials return a token", func(t *testing.T) {
		token, err := client.Login(context.Background(), "maria@example.com", "changeme")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("rejected credentials map to ErrInvalidCredentials", func(t *testing.T) {
		_, err := client.Login(context.Background(), "maria@example.com", "wrong")
		require.ErrorIs(t, err, catalog.ErrInvalidCredentials)
	})
}

func TestProducts(t *testing.T) {
	server := catalogtest.NewServer()
	defer server.Close()
	first := server.AddProduct(fakeProduct(0, 10))
	second := server.AddProduct(fakeProduct(0, 5.5))

	client := newClient(t, server, nil)

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, first.ID, products[0].ID)
	assert.Equal(t, second.ID, products[1].ID)
}

func TestProductNotFound(t *testing.T) {
	server := catalogtest.NewServer()
	defer server.Close()

	client := newClient(t, server, nil)

	_, err := client.Product(context.Background(), 999)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestProductCRUDRequiresToken(t *testing.T) {
	server := catalogtest.NewServer()
	defer server.Close()
	server.AddUser("admin@example.com", "admin123")
	server.SetCategories([]domain.Category{{ID: 1, Name: "Clothes"}})

	anonymous := newClient(t, server, nil)
	_, err := anonymous.CreateProduct(context.Background(), catalog.CreateProduct{
		Title: "T-Shirt", Price: 19.99, CategoryID: 1,
	})
	var apiErr *catalog.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)

	var token string
	authed := newClient(t, server, func() (string, bool) { return token, token != "" })
	token, err = authed.Login(context.Background(), "admin@example.com", "admin123")
	require.NoError(t, err)

	created, err := authed.CreateProduct(context.Background(), catalog.CreateProduct{
		Title: "T-Shirt", Price: 19.99, CategoryID: 1, Images: []string{"https://img.example/1.png"},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Clothes", created.Category.Name)

	newPrice := 24.99
	updated, err := authed.UpdateProduct(context.Background(), created.ID, catalog.UpdateProduct{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 24.99, updated.Price)
	assert.Equal(t, "T-Shirt", updated.Title)

	require.NoError(t, authed.DeleteProduct(context.Background(), created.ID))
	_, err = authed.Product(context.Background(), created.ID)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCategories(t *testing.T) {
	server := catalogtest.NewServer()
	defer server.Close()
	server.SetCategories([]domain.Category{
		{ID: 1, Name: "Clothes"},
		{ID: 2, Name: "Electronics"},
	})

	client := newClient(t, server, nil)

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Electronics", categories[1].Name)
}

func TestLiveProductIDs(t *testing.T) {
	server := catalogtest.NewServer()
	defer server.Close()
	kept := server.AddProduct(fakeProduct(0, 10))
	removed := server.AddProduct(fakeProduct(0, 20))
	server.RemoveProduct(removed.ID)

	client := newClient(t, server, nil)

	ids, err := client.LiveProductIDs(context.Background())
	require.NoError(t, err)
	assert.Contains(t, ids, kept.ID)
	assert.NotContains(t, ids, removed.ID)
}
