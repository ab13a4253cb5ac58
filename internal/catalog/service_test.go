package catalog

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAPI struct {
	products   []Product
	categories []string
	err        error
}

func (m *mockAPI) ListProducts(_ context.Context, limit int) ([]Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.products) {
		return m.products[:limit], nil
	}
	return m.products, nil
}

func (m *mockAPI) GetProduct(_ context.Context, id int) (*Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockAPI) ListCategories(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *mockAPI) ListProductsByCategory(_ context.Context, category string) ([]Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []Product
	for _, p := range m.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Helpers ---

func serviceFixture() *mockAPI {
	return &mockAPI{
		products: []Product{
			{ID: 1, Title: "Gold Ring", Description: "A classic band", Price: decimal.NewFromInt(168), Category: "jewelery"},
			{ID: 2, Title: "Silver Chain", Description: "Sterling silver", Price: decimal.NewFromInt(40), Category: "jewelery"},
			{ID: 3, Title: "Hard Drive", Description: "2TB external", Price: decimal.NewFromInt(64), Category: "electronics"},
		},
		categories: []string{"jewelery", "electronics"},
	}
}

var errUpstream = errors.New("upstream down")

// --- Tests ---

func TestService_ListProducts_DegradesToEmpty(t *testing.T) {
	svc := NewService(&mockAPI{err: errUpstream})
	assert.Empty(t, svc.ListProducts(context.Background(), 0))
}

func TestService_GetProduct(t *testing.T) {
	svc := NewService(serviceFixture())

	p := svc.GetProduct(context.Background(), 1)
	require.NotNil(t, p)
	assert.Equal(t, "Gold Ring", p.Title)
}

func TestService_GetProduct_NotFoundIsNil(t *testing.T) {
	svc := NewService(serviceFixture())
	assert.Nil(t, svc.GetProduct(context.Background(), 999))
}

func TestService_GetProduct_ErrorIsNil(t *testing.T) {
	svc := NewService(&mockAPI{err: errUpstream})
	assert.Nil(t, svc.GetProduct(context.Background(), 1))
}

func TestService_ListCategories_DegradesToEmpty(t *testing.T) {
	svc := NewService(&mockAPI{err: errUpstream})
	assert.Empty(t, svc.ListCategories(context.Background()))
}

func TestService_ListProductsByCategory(t *testing.T) {
	svc := NewService(serviceFixture())

	products := svc.ListProductsByCategory(context.Background(), "jewelery")
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, 2, products[1].ID)
}

func TestService_ListProductsPage(t *testing.T) {
	svc := NewService(serviceFixture())

	page := svc.ListProductsPage(context.Background(), 1, 2)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.TotalCount)
}

func TestService_SearchProducts_MatchesTitleDescriptionCategory(t *testing.T) {
	svc := NewService(serviceFixture())
	ctx := context.Background()

	byTitle := svc.SearchProducts(ctx, "gold")
	require.Len(t, byTitle, 1)
	assert.Equal(t, 1, byTitle[0].ID)

	byDescription := svc.SearchProducts(ctx, "2tb")
	require.Len(t, byDescription, 1)
	assert.Equal(t, 3, byDescription[0].ID)

	byCategory := svc.SearchProducts(ctx, "JEWELERY")
	assert.Len(t, byCategory, 2)
}

func TestService_SearchProducts_BlankQueryReturnsAll(t *testing.T) {
	svc := NewService(serviceFixture())

	assert.Len(t, svc.SearchProducts(context.Background(), ""), 3)
	assert.Len(t, svc.SearchProducts(context.Background(), "   "), 3)
}

func TestService_SearchProducts_NoMatches(t *testing.T) {
	svc := NewService(serviceFixture())
	assert.Empty(t, svc.SearchProducts(context.Background(), "zzz"))
}

func TestService_HomeSnapshot(t *testing.T) {
	svc := NewService(serviceFixture())

	products, categories := svc.HomeSnapshot(context.Background())
	assert.Len(t, products, 3)
	assert.Equal(t, []string{"jewelery", "electronics"}, categories)
}

func TestService_HomeSnapshot_DegradesToEmpty(t *testing.T) {
	svc := NewService(&mockAPI{err: errUpstream})

	products, categories := svc.HomeSnapshot(context.Background())
	assert.Empty(t, products)
	assert.Empty(t, categories)
}

func TestService_RelatedProducts(t *testing.T) {
	svc := NewService(serviceFixture())
	self := Product{ID: 1, Category: "jewelery"}

	related := svc.RelatedProducts(context.Background(), self, 4)
	require.Len(t, related, 1)
	assert.Equal(t, 2, related[0].ID)
}

func TestService_RelatedProducts_CappedAtMax(t *testing.T) {
	api := &mockAPI{}
	for i := 1; i <= 10; i++ {
		api.products = append(api.products, Product{ID: i, Category: "electronics"})
	}
	svc := NewService(api)

	related := svc.RelatedProducts(context.Background(), Product{ID: 1, Category: "electronics"}, 4)
	assert.Len(t, related, 4)
}
