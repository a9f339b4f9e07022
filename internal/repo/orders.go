package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/resale_market/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Product").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *GormRepo) listOrders(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Scopes(scope).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	return r.listOrders(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("buyer_id = ?", buyerID)
	})
}

func (r *GormRepo) ListOrdersByProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Order, error) {
	if len(productIDs) == 0 {
		return []models.Order{}, nil
	}
	return r.listOrders(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id IN ?", productIDs)
	})
}

func (r *GormRepo) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return r.listOrders(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

// CancelOrder marks the order canceled and puts one unit back into the
// product stock in the same transaction.
func (r *GormRepo) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Where("id = ?", id).First(&o).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&models.Order{}).
			Where("id = ?", id).
			Update("payment_status", models.PaymentCanceled).Error; err != nil {
			return err
		}
		return tx.Model(&models.Product{}).
			Where("id = ?", o.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, id)
}

// MarkPaid records a captured payment against the order created for the
// given gateway order id.
func (r *GormRepo) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (*models.Order, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("razorpay_order_id = ?", gatewayOrderID).
		Updates(map[string]any{
			"payment_status":      models.PaymentPaid,
			"razorpay_payment_id": paymentID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Product").Where("razorpay_order_id = ?", gatewayOrderID).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}
