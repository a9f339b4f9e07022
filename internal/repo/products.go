package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/resale_market/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpdateProduct writes only the supplied columns and returns the fresh row,
// so concurrent status changes and stock increments are kept.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uuid.UUID, c models.ProductChanges) (*models.Product, error) {
	fields := c.Fields()
	if len(fields) == 0 {
		return r.GetProduct(ctx, id)
	}
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetProduct(ctx, id)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetProductStatus moves a product from one status to another. It reports
// ErrNotFound when no product with that id is in the from status.
func (r *GormRepo) SetProductStatus(ctx context.Context, id uuid.UUID, from, to models.ProductStatus) (*models.Product, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetProduct(ctx, id)
}

func productFilter(f models.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.SellerID != nil {
			db = db.Where("seller_id = ?", *f.SellerID)
		}
		if f.MinPrice != nil {
			db = db.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("price <= ?", *f.MaxPrice)
		}
		return db
	}
}

func (r *GormRepo) ListProducts(ctx context.Context, f models.ProductFilter, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(productFilter(f)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(productFilter(f)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) ProductIDsBySeller(ctx context.Context, sellerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("seller_id = ?", sellerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// SearchProducts is the fallback full-text search used when no search index
// is configured: a case-insensitive substring match over approved products.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) ([]models.Product, int64, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", models.ProductApproved).
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) ListProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
