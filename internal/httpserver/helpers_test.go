package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/resale_market/internal/gateway"
	"github.com/Skotchmaster/resale_market/internal/repo"
	"github.com/Skotchmaster/resale_market/internal/service"
	"github.com/Skotchmaster/resale_market/internal/testutil"
)

var (
	jwtSecret     = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
	keySecret     = []byte("test-key-secret")
)

type stubGateway struct{}

func (stubGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	return &gateway.Order{
		ID:       "order_" + uuid.NewString()[:8],
		Entity:   "order",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

type testServer struct {
	e     *echo.Echo
	store *repo.GormRepo
	auth  *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := &repo.GormRepo{DB: testutil.NewDB(t)}
	catalog := &service.CatalogService{Repo: store}
	auth := &service.AuthService{Users: store, AccessSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	Register(e, &Deps{
		CatalogHandler: &CatalogHTTP{Svc: catalog},
		OrderHandler:   &OrderHTTP{Svc: &service.OrderService{Products: store, Orders: store, Catalog: catalog}},
		PaymentHandler: &PaymentHTTP{Svc: &service.PaymentService{
			Products: store, Orders: store, Gateway: stubGateway{}, KeySecret: keySecret,
		}},
		AuthHandler: &AuthHTTP{Svc: auth},
		JWTSecret:   jwtSecret,
	})
	return &testServer{e: e, store: store, auth: auth}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signup registers an account with the given role and returns its access token.
func (s *testServer) signup(t *testing.T, email, role string) string {
	t.Helper()

	regRole := role
	if role == "admin" {
		regRole = "buyer"
	}
	rec := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "user", "email": email, "password": "secret123", "role": regRole,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	if role == "admin" {
		require.NoError(t, s.auth.PromoteAdmin(context.Background(), email))
	}

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
