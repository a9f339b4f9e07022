package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resale_market/internal/service"
	"github.com/Skotchmaster/resale_market/internal/transport"
	"github.com/Skotchmaster/resale_market/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	buyer, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "create_order_failed", "invalid body", err)
	}

	order, err := h.Svc.CreateOrder(ctx, buyer, req)
	if err != nil {
		return fail(l, "create_order_failed", err, "cannot create order")
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order created successfully",
		"order":   order,
	})
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListOrders(ctx, actor)
	if err != nil {
		return fail(l, "get_orders_failed", err, "cannot list orders")
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	buyer, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(l, "cancel_order_failed", "id is not a uuid", err)
	}

	order, err := h.Svc.CancelOrder(ctx, buyer, id)
	if err != nil {
		return fail(l, "cancel_order_failed", err, "cannot cancel order")
	}

	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order canceled successfully",
		"order":   order,
	})
}
