package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/resale_market/internal/access"
	"github.com/Skotchmaster/resale_market/internal/gateway"
	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/repo"
	"github.com/Skotchmaster/resale_market/internal/testutil"
)

func newStore(t *testing.T) *repo.GormRepo {
	t.Helper()
	return &repo.GormRepo{DB: testutil.NewDB(t)}
}

type published struct {
	topic string
	key   string
	event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{topic: topic, key: key, event: event})
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		switch ev := e.event.(type) {
		case ProductEvent:
			out = append(out, ev.Type)
		case OrderEvent:
			out = append(out, ev.Type)
		}
	}
	return out
}

type fakeGateway struct {
	err      error
	requests []gateway.OrderRequest
}

func (g *fakeGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.Order{
		ID:       "order_" + uuid.NewString()[:8],
		Entity:   "order",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func seller() access.Actor { return access.Actor{ID: uuid.New(), Role: models.RoleSeller} }
func buyer() access.Actor  { return access.Actor{ID: uuid.New(), Role: models.RoleBuyer} }
func admin() access.Actor  { return access.Actor{ID: uuid.New(), Role: models.RoleAdmin} }

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func seedProduct(t *testing.T, store *repo.GormRepo, owner uuid.UUID, stock int, price float64, status models.ProductStatus) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        "Camera",
		Description: "Mirrorless body",
		Price:       price,
		Stock:       stock,
		Category:    "electronics",
		SellerID:    owner,
		Status:      status,
	}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}
