package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/service"
)

type productResp struct {
	Message string         `json:"message"`
	Product models.Product `json:"product"`
}

type orderResp struct {
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

func (s *testServer) addProduct(t *testing.T, token string, stock int) models.Product {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/products/addProduct", map[string]any{
		"name": "Lamp", "description": "desk lamp", "price": 1000, "stock": stock, "category": "home",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out productResp
	decode(t, rec, &out)
	return out.Product
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", nil, "").Code)
}

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t)
	sellerTok := s.signup(t, "seller@example.com", "seller")
	adminTok := s.signup(t, "admin@example.com", "admin")

	p := s.addProduct(t, sellerTok, 3)
	assert.Equal(t, models.ProductPending, p.Status)
	assert.Equal(t, 3, p.Stock)

	rec := s.do(t, http.MethodPatch, "/api/products/approveProduct/"+p.ID.String(), nil, adminTok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var approved productResp
	decode(t, rec, &approved)
	assert.Equal(t, "Product approved successfully", approved.Message)
	assert.Equal(t, models.ProductApproved, approved.Product.Status)

	rec = s.do(t, http.MethodPatch, "/api/products/rejectProduct/"+p.ID.String(), nil, adminTok)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/getProduct?status=approved", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page service.ProductPage
	decode(t, rec, &page)
	assert.EqualValues(t, 1, page.TotalProducts)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Products, 1)

	rec = s.do(t, http.MethodGet, "/api/products/getProduct/"+p.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Product
	decode(t, rec, &got)
	assert.Equal(t, p.ID, got.ID)

	rec = s.do(t, http.MethodPut, "/api/products/updateProduct/"+p.ID.String(), map[string]any{"price": 1500}, sellerTok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated productResp
	decode(t, rec, &updated)
	assert.Equal(t, 1500.0, updated.Product.Price)

	rec = s.do(t, http.MethodGet, "/api/products/getSellerProducts", nil, sellerTok)
	require.Equal(t, http.StatusOK, rec.Code)
	var own []models.Product
	decode(t, rec, &own)
	assert.Len(t, own, 1)

	rec = s.do(t, http.MethodGet, "/api/products/search?q=lamp", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	assert.EqualValues(t, 1, page.TotalProducts)

	rec = s.do(t, http.MethodDelete, "/api/products/deleteProduct/"+p.ID.String(), nil, sellerTok)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/getProduct/"+p.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductRoutes_AccessControl(t *testing.T) {
	s := newTestServer(t)
	sellerTok := s.signup(t, "seller@example.com", "seller")
	otherTok := s.signup(t, "other@example.com", "seller")
	buyerTok := s.signup(t, "buyer@example.com", "buyer")

	body := map[string]any{"name": "x", "description": "y", "price": 10, "stock": 1, "category": "z"}

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/products/addProduct", body, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/products/addProduct", body, buyerTok).Code)

	p := s.addProduct(t, sellerTok, 1)
	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodPatch, "/api/products/approveProduct/"+p.ID.String(), nil, sellerTok).Code)
	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodDelete, "/api/products/deleteProduct/"+p.ID.String(), nil, otherTok).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodGet, "/api/products/getProduct/not-a-uuid", nil, "").Code)
}

func TestGetProducts_BadQuery(t *testing.T) {
	s := newTestServer(t)

	for _, q := range []string{"minPrice=abc", "minPrice=NaN", "maxPrice=Inf", "maxPrice=-Infinity", "seller=nope", "status=sold", "minPrice=10&maxPrice=5"} {
		rec := s.do(t, http.MethodGet, "/api/products/getProduct?"+q, nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/products/search?q=", nil, "").Code)
}

func TestCreateProduct_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	tok := s.signup(t, "seller@example.com", "seller")

	rec := s.do(t, http.MethodPost, "/api/products/addProduct", map[string]any{"name": "no price"}, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t)
	sellerTok := s.signup(t, "seller@example.com", "seller")
	buyerTok := s.signup(t, "buyer@example.com", "buyer")
	otherTok := s.signup(t, "other@example.com", "buyer")
	adminTok := s.signup(t, "admin@example.com", "admin")

	p := s.addProduct(t, sellerTok, 3)

	rec := s.do(t, http.MethodPost, "/api/order/createOrder",
		map[string]any{"productId": p.ID, "amount": 1000}, buyerTok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created orderResp
	decode(t, rec, &created)
	assert.Equal(t, "Order created successfully", created.Message)
	assert.Equal(t, 100.0, created.Order.AdminMargin)
	assert.Equal(t, models.PaymentPending, created.Order.PaymentStatus)

	for _, tok := range []string{buyerTok, sellerTok, adminTok} {
		rec = s.do(t, http.MethodGet, "/api/order/getOrder", nil, tok)
		require.Equal(t, http.StatusOK, rec.Code)
		var list struct {
			Orders []models.Order `json:"orders"`
		}
		decode(t, rec, &list)
		assert.Len(t, list.Orders, 1)
	}

	cancelPath := "/api/order/cancelOrder/" + created.Order.ID.String()
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, cancelPath, nil, otherTok).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, cancelPath, nil, sellerTok).Code)

	rec = s.do(t, http.MethodPatch, cancelPath, nil, buyerTok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var canceled orderResp
	decode(t, rec, &canceled)
	assert.Equal(t, models.PaymentCanceled, canceled.Order.PaymentStatus)

	rec = s.do(t, http.MethodGet, "/api/products/getProduct/"+p.ID.String(), nil, "")
	var got models.Product
	decode(t, rec, &got)
	assert.Equal(t, 4, got.Stock)

	rec = s.do(t, http.MethodPatch, "/api/order/cancelOrder/"+uuid.NewString(), nil, buyerTok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder_OutOfStock(t *testing.T) {
	s := newTestServer(t)
	sellerTok := s.signup(t, "seller@example.com", "seller")
	buyerTok := s.signup(t, "buyer@example.com", "buyer")

	p := s.addProduct(t, sellerTok, 0)

	rec := s.do(t, http.MethodPost, "/api/order/createOrder",
		map[string]any{"productId": p.ID, "amount": 1000}, buyerTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentFlow(t *testing.T) {
	s := newTestServer(t)
	sellerTok := s.signup(t, "seller@example.com", "seller")
	buyerTok := s.signup(t, "buyer@example.com", "buyer")
	p := s.addProduct(t, sellerTok, 1)

	rec := s.do(t, http.MethodPost, "/api/payments/create-order",
		map[string]any{"productId": p.ID, "amount": 1000}, buyerTok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var init struct {
		Success bool `json:"success"`
		Order   struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		} `json:"order"`
		AdminMargin float64 `json:"adminMargin"`
		TotalAmount float64 `json:"totalAmount"`
	}
	decode(t, rec, &init)
	assert.True(t, init.Success)
	assert.EqualValues(t, 110000, init.Order.Amount)
	assert.Equal(t, "INR", init.Order.Currency)
	assert.Equal(t, 100.0, init.AdminMargin)
	assert.Equal(t, 1100.0, init.TotalAmount)

	bad := map[string]string{
		"razorpay_order_id":   init.Order.ID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "deadbeef",
	}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/payments/verify-payment", bad, buyerTok).Code)

	good := map[string]string{
		"razorpay_order_id":   init.Order.ID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  service.Signature(keySecret, init.Order.ID, "pay_1"),
	}
	rec = s.do(t, http.MethodPost, "/api/payments/verify-payment", good, buyerTok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var verified struct {
		Success bool         `json:"success"`
		Order   models.Order `json:"order"`
	}
	decode(t, rec, &verified)
	assert.True(t, verified.Success)
	assert.Equal(t, models.PaymentPaid, verified.Order.PaymentStatus)
	assert.Equal(t, "pay_1", verified.Order.RazorpayPaymentID)

	missing := map[string]string{"razorpay_order_id": init.Order.ID}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/payments/verify-payment", missing, buyerTok).Code)
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.signup(t, "admin@example.com", "admin")
	buyerTok := s.signup(t, "buyer@example.com", "buyer")

	rec := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "dup", "email": "buyer@example.com", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "boss", "email": "boss@example.com", "password": "secret123", "role": "admin",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/auth/users/count", nil, adminTok)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int64 `json:"count"`
	}
	decode(t, rec, &count)
	assert.EqualValues(t, 2, count.Count)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/auth/users/count", nil, buyerTok).Code)
}

func TestRefreshAndLogout(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "buyer@example.com", "buyer")

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var refresh string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refreshToken" {
			refresh = ck.Value
		}
	}
	require.NotEmpty(t, refresh)

	body := map[string]string{"refreshToken": refresh}
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/refresh", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/auth/logout", nil, "").Code)
}

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		service.ErrValidation:        http.StatusBadRequest,
		service.ErrOutOfStock:        http.StatusBadRequest,
		service.ErrInvalidSignature:  http.StatusBadRequest,
		service.ErrUnauthorized:      http.StatusUnauthorized,
		service.ErrForbidden:         http.StatusForbidden,
		service.ErrNotFound:          http.StatusNotFound,
		service.ErrConflict:          http.StatusConflict,
		service.ErrInvalidTransition: http.StatusConflict,
		service.ErrUpstream:          http.StatusBadGateway,
		errors.New("boom"):           http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusOf(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
}
