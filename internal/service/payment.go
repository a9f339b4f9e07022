package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/access"
	"github.com/Skotchmaster/resale_market/internal/gateway"
	"github.com/Skotchmaster/resale_market/internal/margin"
	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/transport"
	"github.com/Skotchmaster/resale_market/pkg/logging"
)

const DefaultCurrency = "INR"

// PaymentService mirrors local orders into the payment gateway and settles
// them once the gateway callback signature checks out.
type PaymentService struct {
	Products  ProductRepo
	Orders    OrderRepo
	Gateway   PaymentGateway
	KeySecret []byte
	Events    EventPublisher
}

type PaymentInitiation struct {
	GatewayOrder *gateway.Order `json:"order"`
	Order        *models.Order  `json:"localOrder"`
	AdminMargin  float64        `json:"adminMargin"`
	TotalAmount  float64        `json:"totalAmount"`
}

// CreatePaymentOrder asks the gateway for an order of amount plus commission
// and records the matching pending order. Nothing is stored when the gateway
// call fails.
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, buyer access.Actor, req transport.CreatePaymentRequest) (*PaymentInitiation, error) {
	l := logging.FromContext(ctx).With("svc", "payment.create_order")

	if req.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: productId required", ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}
	if _, err := availableProduct(ctx, s.Products, req.ProductID); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	}

	adminMargin := margin.Round(margin.Calculate(req.Amount))
	gwOrder, err := s.Gateway.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   margin.MinorUnits(req.Amount + adminMargin),
		Currency: currency,
		Receipt:  receipt,
		Notes:    map[string]string{"productId": req.ProductID.String(), "buyer": buyer.ID.String()},
	})
	if err != nil {
		l.Error("gateway_create_order_failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	o := &models.Order{
		BuyerID:         buyer.ID,
		ProductID:       req.ProductID,
		Amount:          req.Amount,
		AdminMargin:     adminMargin,
		PaymentStatus:   models.PaymentPending,
		RazorpayOrderID: gwOrder.ID,
	}
	if err := s.Orders.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicOrderEvents, o.ID.String(), orderEvent("order_created", o))
	return &PaymentInitiation{
		GatewayOrder: gwOrder,
		Order:        o,
		AdminMargin:  adminMargin,
		TotalAmount:  margin.Round(req.Amount + adminMargin),
	}, nil
}

// Signature is the hex HMAC-SHA256 of "orderID|paymentID" under secret.
func Signature(secret []byte, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPayment checks the gateway signature and marks the matching order
// paid. A bad signature leaves every order untouched.
func (s *PaymentService) VerifyPayment(ctx context.Context, req transport.VerifyPaymentRequest) (*models.Order, error) {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return nil, fmt.Errorf("%w: payment fields required", ErrValidation)
	}

	expected := Signature(s.KeySecret, req.RazorpayOrderID, req.RazorpayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.RazorpaySignature)) {
		return nil, fmt.Errorf("%w: Invalid payment signature", ErrInvalidSignature)
	}

	o, err := s.Orders.MarkPaid(ctx, req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		return nil, storeErr(err, "order")
	}

	publish(ctx, s.Events, TopicOrderEvents, o.ID.String(), orderEvent("order_paid", o))
	return o, nil
}
