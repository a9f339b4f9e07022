package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/gateway"
	"github.com/Skotchmaster/resale_market/internal/models"
)

type ProductRepo interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, c models.ProductChanges) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetProductStatus(ctx context.Context, id uuid.UUID, from, to models.ProductStatus) (*models.Product, error)
	ListProducts(ctx context.Context, f models.ProductFilter, offset, limit int) ([]models.Product, int64, error)
	ListProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
	ProductIDsBySeller(ctx context.Context, sellerID uuid.UUID) ([]uuid.UUID, error)
	SearchProducts(ctx context.Context, q string, offset, limit int) ([]models.Product, int64, error)
}

type OrderRepo interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	ListOrdersByProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (*models.Order, error)
}

type UserRepo interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	SetUserRole(ctx context.Context, email string, role models.Role) error
	SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error
	RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}

// Store is a complete storage backend.
type Store interface {
	ProductRepo
	OrderRepo
	UserRepo
}

type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error)
}

type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, bool, error)
	Set(ctx context.Context, p *models.Product) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
}
