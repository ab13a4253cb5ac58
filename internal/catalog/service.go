package catalog

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// API is the set of read operations the Service needs from the catalog.
type API interface {
	ListProducts(ctx context.Context, limit int) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListProductsByCategory(ctx context.Context, category string) ([]Product, error)
}

// Service is the catalog facade the pages call. Every upstream failure is
// logged and degraded to an empty (or nil) result, so callers render an empty
// catalog rather than an error page. Callers cannot distinguish "no data"
// from "catalog unreachable".
type Service struct {
	api API
}

// NewService creates a Service on top of the given catalog API.
func NewService(api API) *Service {
	return &Service{api: api}
}

// ListProducts returns the full or size-capped product collection, or an
// empty slice when the catalog is unreachable.
func (s *Service) ListProducts(ctx context.Context, limit int) []Product {
	products, err := s.api.ListProducts(ctx, limit)
	if err != nil {
		zctx.From(ctx).Warn("List products failed", zap.Error(err))
		return nil
	}
	return products
}

// GetProduct returns one product, or nil when the product does not exist or
// the catalog is unreachable.
func (s *Service) GetProduct(ctx context.Context, id int) *Product {
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			zctx.From(ctx).Warn("Get product failed", zap.Int("id", id), zap.Error(err))
		}
		return nil
	}
	return p
}

// ListCategories returns the category names known to the catalog, or an empty
// slice on failure.
func (s *Service) ListCategories(ctx context.Context) []string {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		zctx.From(ctx).Warn("List categories failed", zap.Error(err))
		return nil
	}
	return categories
}

// ListProductsByCategory returns products whose category matches exactly
// (case-sensitive, the catalog's own spelling), or an empty slice on failure.
func (s *Service) ListProductsByCategory(ctx context.Context, category string) []Product {
	products, err := s.api.ListProductsByCategory(ctx, category)
	if err != nil {
		zctx.From(ctx).Warn("List products by category failed",
			zap.String("category", category), zap.Error(err))
		return nil
	}
	return products
}

// ListProductsPage returns one page of the full product list. The upstream
// API has no pagination, so the page is a client-side slice.
func (s *Service) ListProductsPage(ctx context.Context, page, pageSize int) Page {
	return Paginate(s.ListProducts(ctx, 0), page, pageSize)
}

// SearchProducts returns products whose title, description, or category
// contains the query as a case-insensitive substring. A blank query returns
// the full set unfiltered.
func (s *Service) SearchProducts(ctx context.Context, query string) []Product {
	all := s.ListProducts(ctx, 0)

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	var out []Product
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Description), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			out = append(out, p)
		}
	}
	return out
}

// HomeSnapshot fetches the product list and the category list concurrently.
// Either half degrades to empty independently.
func (s *Service) HomeSnapshot(ctx context.Context) ([]Product, []string) {
	var (
		products   []Product
		categories []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products = s.ListProducts(ctx, 0)
		return nil
	})
	g.Go(func() error {
		categories = s.ListCategories(ctx)
		return nil
	})
	_ = g.Wait()
	return products, categories
}

// RelatedProducts returns up to max products sharing the given product's
// category, excluding the product itself.
func (s *Service) RelatedProducts(ctx context.Context, p Product, max int) []Product {
	var out []Product
	for _, candidate := range s.ListProducts(ctx, 0) {
		if candidate.Category != p.Category || candidate.ID == p.ID {
			continue
		}
		out = append(out, candidate)
		if len(out) == max {
			break
		}
	}
	return out
}
