package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/krmotors/internal/domain"
)

// ProductSource is the backend's catalog surface.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.ProductSummary, error)
	GetProduct(ctx context.Context, id string) (*domain.ProductSummary, error)
	SearchProducts(ctx context.Context, term string) ([]domain.ProductSummary, error)
}

// View is one render of the catalog page.
type View struct {
	Products []domain.ProductSummary `json:"products"`
	Total    int                     `json:"total"`
	MinPrice float64                 `json:"minPrice"`
	MaxPrice float64                 `json:"maxPrice"`
	Criteria domain.FilterCriteria   `json:"criteria"`
}

// sharedFetchTimeout bounds a collapsed fetch, which outlives the caller
// that started it.
const sharedFetchTimeout = 30 * time.Second

type Service struct {
	source ProductSource
	log    *slog.Logger
	sfg    singleflight.Group // collapses identical concurrent fetches
}

func NewService(source ProductSource, log *slog.Logger) *Service {
	return &Service{
		source: source,
		log:    log,
	}
}

// fetch runs fn once per key across concurrent callers. The shared call is
// detached from the first caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (s *Service) fetch(ctx context.Context, key string, fn func(context.Context) ([]domain.ProductSummary, error)) ([]domain.ProductSummary, bool, error) {
	ch := s.sfg.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return fn(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.([]domain.ProductSummary), res.Shared, nil
	}
}

// List fetches the catalog and applies the criteria. Total and the price
// bounds describe the unfiltered catalog.
func (s *Service) List(ctx context.Context, c domain.FilterCriteria) (*View, error) {
	all, shared, err := s.fetch(ctx, "products", s.source.ListProducts)
	if err != nil {
		s.log.WarnContext(ctx, "product fetch failed", "error", err)
		return nil, err
	}
	if shared {
		s.log.DebugContext(ctx, "product fetch shared")
	}

	lo, hi := PriceBounds(all)
	return &View{
		Products: Apply(all, c),
		Total:    len(all),
		MinPrice: lo,
		MaxPrice: hi,
		Criteria: c,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.ProductSummary, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "product id is required"}
	}
	return s.source.GetProduct(ctx, id)
}

// Search runs a server-side search. An empty term lists everything.
func (s *Service) Search(ctx context.Context, term string) ([]domain.ProductSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.source.ListProducts(ctx)
	}
	products, _, err := s.fetch(ctx, "search:"+term, func(ctx context.Context) ([]domain.ProductSummary, error) {
		return s.source.SearchProducts(ctx, term)
	})
	return products, err
}
