package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resale_market/internal/access"
	"github.com/Skotchmaster/resale_market/pkg/logging"
	middleware "github.com/Skotchmaster/resale_market/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	OrderHandler   *OrderHTTP
	PaymentHandler *PaymentHTTP
	AuthHandler    *AuthHTTP
	JWTSecret      []byte
	// Ready reports whether the backing stores answer. Nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewValidator()
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("not_ready", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	var refresher middleware.Refresher
	if d.AuthHandler != nil {
		refresher = d.AuthHandler.Svc
	}
	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, refresher)
	can := func(op access.Operation) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{authMW.RequireAuth, access.Require(op)}
	}

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/users/count", d.AuthHandler.CountUsers, can(access.UserCount)...)

	products := api.Group("/products")
	products.GET("/getProduct", d.CatalogHandler.GetProducts)
	products.GET("/getProduct/:id", d.CatalogHandler.GetProduct)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/getSellerProducts", d.CatalogHandler.GetSellerProducts, can(access.ProductListOwn)...)
	products.POST("/addProduct", d.CatalogHandler.CreateProduct, can(access.ProductCreate)...)
	products.PATCH("/approveProduct/:id", d.CatalogHandler.ApproveProduct, can(access.ProductApprove)...)
	products.PATCH("/rejectProduct/:id", d.CatalogHandler.RejectProduct, can(access.ProductReject)...)
	products.PUT("/updateProduct/:id", d.CatalogHandler.UpdateProduct, can(access.ProductUpdate)...)
	products.DELETE("/deleteProduct/:id", d.CatalogHandler.DeleteProduct, can(access.ProductDelete)...)

	orders := api.Group("/order")
	orders.POST("/createOrder", d.OrderHandler.CreateOrder, can(access.OrderCreate)...)
	orders.GET("/getOrder", d.OrderHandler.GetOrders, can(access.OrderList)...)
	orders.PATCH("/cancelOrder/:id", d.OrderHandler.CancelOrder, can(access.OrderCancel)...)

	payments := api.Group("/payments")
	payments.POST("/create-order", d.PaymentHandler.CreateOrder, can(access.PaymentCreate)...)
	payments.POST("/verify-payment", d.PaymentHandler.VerifyPayment, can(access.PaymentVerify)...)
}
