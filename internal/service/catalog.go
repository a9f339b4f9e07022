package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/access"
	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/repo"
	"github.com/Skotchmaster/resale_market/internal/transport"
	"github.com/Skotchmaster/resale_market/internal/util"
	"github.com/Skotchmaster/resale_market/pkg/logging"
)

// CatalogService owns products. Index, Cache and Events are optional.
type CatalogService struct {
	Repo   ProductRepo
	Index  ProductIndex
	Cache  ProductCache
	Events EventPublisher
}

type ProductPage struct {
	Products      []models.Product `json:"products"`
	TotalProducts int64            `json:"totalProducts"`
	CurrentPage   int              `json:"currentPage"`
	TotalPages    int64            `json:"totalPages"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, seller access.Actor, req transport.CreateProductRequest) (*models.Product, error) {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	case strings.TrimSpace(req.Description) == "":
		return nil, fmt.Errorf("%w: description required", ErrValidation)
	case strings.TrimSpace(req.Category) == "":
		return nil, fmt.Errorf("%w: category required", ErrValidation)
	case req.Price <= 0:
		return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
	case req.Stock == nil:
		return nil, fmt.Errorf("%w: stock required", ErrValidation)
	case *req.Stock < 0:
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}

	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       *req.Stock,
		Category:    req.Category,
		Image:       req.Image,
		SellerID:    seller.ID,
		Status:      models.ProductPending,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.sync(ctx, p)
	publish(ctx, s.Events, TopicProductEvents, p.ID.String(), productEvent("product_created", p))
	return p, nil
}

// UpdateProduct writes the non-nil fields of req and nothing else. Only the
// owning seller or an admin may update a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor access.Actor, id uuid.UUID, req transport.UpdateProductRequest) (*models.Product, error) {
	if req.Price != nil && *req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	if !access.CanManageProduct(actor, p) {
		return nil, fmt.Errorf("%w: not the owner of this product", ErrForbidden)
	}

	p, err = s.Repo.UpdateProduct(ctx, id, models.ProductChanges{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Image:       req.Image,
	})
	if err != nil {
		return nil, storeErr(err, "product")
	}

	s.sync(ctx, p)
	publish(ctx, s.Events, TopicProductEvents, p.ID.String(), productEvent("product_updated", p))
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return storeErr(err, "product")
	}
	if !access.CanManageProduct(actor, p) {
		return fmt.Errorf("%w: not the owner of this product", ErrForbidden)
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return storeErr(err, "product")
	}

	s.forget(ctx, id)
	publish(ctx, s.Events, TopicProductEvents, id.String(), productEvent("product_deleted", p))
	return nil
}

func (s *CatalogService) ApproveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.moderate(ctx, id, models.ProductApproved, "product_approved")
}

func (s *CatalogService) RejectProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.moderate(ctx, id, models.ProductRejected, "product_rejected")
}

// moderate moves a pending product to the target status. Products that have
// already been moderated are reported as ErrInvalidTransition.
func (s *CatalogService) moderate(ctx context.Context, id uuid.UUID, to models.ProductStatus, event string) (*models.Product, error) {
	p, err := s.Repo.SetProductStatus(ctx, id, models.ProductPending, to)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		current, getErr := s.Repo.GetProduct(ctx, id)
		if getErr != nil {
			return nil, storeErr(getErr, "product")
		}
		return nil, fmt.Errorf("%w: product is %s", ErrInvalidTransition, current.Status)
	}

	s.sync(ctx, p)
	publish(ctx, s.Events, TopicProductEvents, p.ID.String(), productEvent(event, p))
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.get_product")

	if s.Cache != nil {
		p, hit, err := s.Cache.Get(ctx, id)
		if err != nil {
			l.Warn("cache_get_failed", "product_id", id, "error", err)
		}
		if hit {
			return p, nil
		}
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, p); err != nil {
			l.Warn("cache_set_failed", "product_id", id, "error", err)
		}
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, f models.ProductFilter, page, limit int) (*ProductPage, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, fmt.Errorf("%w: minPrice greater than maxPrice", ErrValidation)
	}
	if page < 1 {
		page = 1
	}

	offset, limit := util.Calculate(page, limit)
	items, total, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:      items,
		TotalProducts: total,
		CurrentPage:   page,
		TotalPages:    util.TotalPages(total, limit),
	}, nil
}

func (s *CatalogService) ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	return s.Repo.ListProductsBySeller(ctx, sellerID)
}

// SearchProducts runs a full-text query over approved products, through the
// search index when one is configured and the store otherwise.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page, limit int) (*ProductPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: empty query", ErrValidation)
	}
	if page < 1 {
		page = 1
	}
	offset, limit := util.Calculate(page, limit)

	var (
		items []models.Product
		total int64
		err   error
	)
	if s.Index != nil {
		items, total, err = s.Index.Search(ctx, q, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	} else {
		items, total, err = s.Repo.SearchProducts(ctx, q, offset, limit)
		if err != nil {
			return nil, err
		}
	}

	return &ProductPage{
		Products:      items,
		TotalProducts: total,
		CurrentPage:   page,
		TotalPages:    util.TotalPages(total, limit),
	}, nil
}

// ProductChanged drops the cached copy of a product and re-indexes it after
// its stock changed outside the catalog.
func (s *CatalogService) ProductChanged(ctx context.Context, p *models.Product) {
	if p == nil {
		return
	}
	s.sync(ctx, p)
}

func (s *CatalogService) sync(ctx context.Context, p *models.Product) {
	l := logging.FromContext(ctx)
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, p.ID); err != nil {
			l.Warn("cache_invalidate_failed", "product_id", p.ID, "error", err)
		}
	}
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			l.Warn("index_product_failed", "product_id", p.ID, "error", err)
		}
	}
}

func (s *CatalogService) forget(ctx context.Context, id uuid.UUID) {
	l := logging.FromContext(ctx)
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, id); err != nil {
			l.Warn("cache_invalidate_failed", "product_id", id, "error", err)
		}
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Warn("unindex_product_failed", "product_id", id, "error", err)
		}
	}
}
