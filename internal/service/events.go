package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/pkg/logging"
)

const (
	TopicProductEvents = "product_events"
	TopicOrderEvents   = "order_events"
)

const publishTimeout = 5 * time.Second

type ProductEvent struct {
	Type      string               `json:"type"`
	ProductID uuid.UUID            `json:"productID"`
	SellerID  uuid.UUID            `json:"sellerID"`
	Name      string               `json:"name,omitempty"`
	Status    models.ProductStatus `json:"status,omitempty"`
	At        time.Time            `json:"at"`
}

type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       uuid.UUID            `json:"orderID"`
	BuyerID       uuid.UUID            `json:"buyerID"`
	ProductID     uuid.UUID            `json:"productID"`
	Amount        float64              `json:"amount"`
	AdminMargin   float64              `json:"adminMargin"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	At            time.Time            `json:"at"`
}

func productEvent(typ string, p *models.Product) ProductEvent {
	return ProductEvent{
		Type:      typ,
		ProductID: p.ID,
		SellerID:  p.SellerID,
		Name:      p.Name,
		Status:    p.Status,
		At:        time.Now().UTC(),
	}
}

func orderEvent(typ string, o *models.Order) OrderEvent {
	return OrderEvent{
		Type:          typ,
		OrderID:       o.ID,
		BuyerID:       o.BuyerID,
		ProductID:     o.ProductID,
		Amount:        o.Amount,
		AdminMargin:   o.AdminMargin,
		PaymentStatus: o.PaymentStatus,
		At:            time.Now().UTC(),
	}
}

// publish is best effort: a failed delivery is logged and never returned.
func publish(ctx context.Context, pub EventPublisher, topic, key string, event any) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := pub.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "key", key, "error", err)
	}
}
