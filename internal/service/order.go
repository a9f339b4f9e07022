package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/access"
	"github.com/Skotchmaster/resale_market/internal/margin"
	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/repo"
	"github.com/Skotchmaster/resale_market/internal/transport"
)

// OrderService owns the order lifecycle. Catalog is told about stock changes
// so cached and indexed products stay current; it may be nil.
type OrderService struct {
	Products ProductRepo
	Orders   OrderRepo
	Catalog  *CatalogService
	Events   EventPublisher
}

// availableProduct returns the product when it exists and has stock left.
func availableProduct(ctx context.Context, products ProductRepo, id uuid.UUID) (*models.Product, error) {
	p, err := products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: product is out of stock or unavailable", ErrOutOfStock)
		}
		return nil, err
	}
	if p.Stock <= 0 {
		return nil, fmt.Errorf("%w: product is out of stock or unavailable", ErrOutOfStock)
	}
	return p, nil
}

// CreateOrder records a pending order. The commission is rounded once here
// and never recomputed. Stock is left untouched.
func (s *OrderService) CreateOrder(ctx context.Context, buyer access.Actor, req transport.CreateOrderRequest) (*models.Order, error) {
	if req.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: productId required", ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}

	if _, err := availableProduct(ctx, s.Products, req.ProductID); err != nil {
		return nil, err
	}

	o := &models.Order{
		BuyerID:       buyer.ID,
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		AdminMargin:   margin.Round(margin.Calculate(req.Amount)),
		PaymentStatus: models.PaymentPending,
	}
	if err := s.Orders.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicOrderEvents, o.ID.String(), orderEvent("order_created", o))
	return o, nil
}

// ListOrders scopes the result by role: buyers see their own orders, sellers
// the orders placed on their products, admins everything.
func (s *OrderService) ListOrders(ctx context.Context, actor access.Actor) ([]models.Order, error) {
	switch actor.Role {
	case models.RoleBuyer:
		return s.Orders.ListOrdersByBuyer(ctx, actor.ID)
	case models.RoleSeller:
		ids, err := s.Products.ProductIDsBySeller(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return s.Orders.ListOrdersByProducts(ctx, ids)
	case models.RoleAdmin:
		return s.Orders.ListAllOrders(ctx)
	}
	return nil, fmt.Errorf("%w: Access Denied", ErrForbidden)
}

// CancelOrder cancels the caller's order and returns one unit to stock.
// The current payment status is not checked.
func (s *OrderService) CancelOrder(ctx context.Context, buyer access.Actor, id uuid.UUID) (*models.Order, error) {
	o, err := s.Orders.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	if o.BuyerID != buyer.ID {
		return nil, fmt.Errorf("%w: not the buyer of this order", ErrForbidden)
	}

	o, err = s.Orders.CancelOrder(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order")
	}

	if s.Catalog != nil {
		s.Catalog.ProductChanged(ctx, o.Product)
	}
	publish(ctx, s.Events, TopicOrderEvents, o.ID.String(), orderEvent("order_canceled", o))
	return o, nil
}
