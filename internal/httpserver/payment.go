package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resale_market/internal/service"
	"github.com/Skotchmaster/resale_market/internal/transport"
	"github.com/Skotchmaster/resale_market/pkg/logging"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_order")

	buyer, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req transport.CreatePaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "create_payment_order_failed", "invalid body", err)
	}

	res, err := h.Svc.CreatePaymentOrder(ctx, buyer, req)
	if err != nil {
		return fail(l, "create_payment_order_failed", err, "failed to create payment order")
	}

	l.Info("create_payment_order_success", "gateway_order_id", res.GatewayOrder.ID, "order_id", res.Order.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"order":       res.GatewayOrder,
		"localOrder":  res.Order,
		"adminMargin": res.AdminMargin,
		"totalAmount": res.TotalAmount,
	})
}

func (h *PaymentHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify_payment")

	var req transport.VerifyPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "verify_payment_failed", "payment fields required", err)
	}

	order, err := h.Svc.VerifyPayment(ctx, req)
	if err != nil {
		return fail(l, "verify_payment_failed", err, "failed to verify payment")
	}

	l.Info("verify_payment_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"order":   order,
	})
}
