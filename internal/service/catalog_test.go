package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/repo"
	"github.com/Skotchmaster/resale_market/internal/transport"
)

type fakeCache struct {
	items       map[uuid.UUID]*models.Product
	gets        int
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[uuid.UUID]*models.Product{}} }

func (c *fakeCache) Get(_ context.Context, id uuid.UUID) (*models.Product, bool, error) {
	c.gets++
	p, ok := c.items[id]
	return p, ok, nil
}

func (c *fakeCache) Set(_ context.Context, p *models.Product) error {
	cp := *p
	c.items[p.ID] = &cp
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, id uuid.UUID) error {
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func validCreate() transport.CreateProductRequest {
	return transport.CreateProductRequest{
		Name:        "Bike",
		Description: "City bike",
		Price:       1200,
		Stock:       intPtr(2),
		Category:    "sports",
	}
}

func TestCreateProduct_ForcesPending(t *testing.T) {
	store := newStore(t)
	pub := &fakePublisher{}
	svc := &CatalogService{Repo: store, Events: pub}
	s := seller()

	p, err := svc.CreateProduct(context.Background(), s, validCreate())
	require.NoError(t, err)
	assert.Equal(t, models.ProductPending, p.Status)
	assert.Equal(t, s.ID, p.SellerID)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, []string{"product_created"}, pub.types())
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := &CatalogService{Repo: newStore(t)}

	tests := []struct {
		name   string
		mutate func(*transport.CreateProductRequest)
	}{
		{name: "missing name", mutate: func(r *transport.CreateProductRequest) { r.Name = "" }},
		{name: "missing description", mutate: func(r *transport.CreateProductRequest) { r.Description = " " }},
		{name: "missing category", mutate: func(r *transport.CreateProductRequest) { r.Category = "" }},
		{name: "zero price", mutate: func(r *transport.CreateProductRequest) { r.Price = 0 }},
		{name: "negative price", mutate: func(r *transport.CreateProductRequest) { r.Price = -5 }},
		{name: "missing stock", mutate: func(r *transport.CreateProductRequest) { r.Stock = nil }},
		{name: "negative stock", mutate: func(r *transport.CreateProductRequest) { r.Stock = intPtr(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			_, err := svc.CreateProduct(context.Background(), seller(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateProduct_ZeroStockAllowed(t *testing.T) {
	svc := &CatalogService{Repo: newStore(t)}
	req := validCreate()
	req.Stock = intPtr(0)

	p, err := svc.CreateProduct(context.Background(), seller(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestUpdateProduct_PartialKeepsOtherFields(t *testing.T) {
	store := newStore(t)
	s := seller()
	p := seedProduct(t, store, s.ID, 5, 1000, models.ProductApproved)
	svc := &CatalogService{Repo: store}

	got, err := svc.UpdateProduct(context.Background(), s, p.ID, transport.UpdateProductRequest{
		Price: floatPtr(1500),
		Stock: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, got.Price)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Description, got.Description)

	stored, err := store.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)
	assert.Equal(t, 1500.0, stored.Price)
}

// racyRepo runs afterRead once, between the service's read and its write.
type racyRepo struct {
	*repo.GormRepo
	afterRead func()
}

func (r *racyRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := r.GormRepo.GetProduct(ctx, id)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return p, err
}

func TestUpdateProduct_KeepsConcurrentApprove(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	s := seller()
	p := seedProduct(t, store, s.ID, 3, 1000, models.ProductPending)
	svc := &CatalogService{Repo: &racyRepo{GormRepo: store, afterRead: func() {
		_, err := store.SetProductStatus(ctx, p.ID, models.ProductPending, models.ProductApproved)
		require.NoError(t, err)
	}}}

	got, err := svc.UpdateProduct(ctx, s, p.ID, transport.UpdateProductRequest{Name: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, models.ProductApproved, got.Status)

	stored, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductApproved, stored.Status)
}

func TestUpdateProduct_KeepsConcurrentCancelRestock(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	s := seller()
	p := seedProduct(t, store, s.ID, 3, 1000, models.ProductApproved)
	o := &models.Order{BuyerID: uuid.New(), ProductID: p.ID, Amount: 1000, PaymentStatus: models.PaymentPending}
	require.NoError(t, store.CreateOrder(ctx, o))
	svc := &CatalogService{Repo: &racyRepo{GormRepo: store, afterRead: func() {
		_, err := store.CancelOrder(ctx, o.ID)
		require.NoError(t, err)
	}}}

	got, err := svc.UpdateProduct(ctx, s, p.ID, transport.UpdateProductRequest{Name: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)

	stored, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Stock)
	assert.Equal(t, "Renamed", stored.Name)
}

func TestUpdateProduct_CategoryAndImage(t *testing.T) {
	store := newStore(t)
	s := seller()
	p := seedProduct(t, store, s.ID, 1, 100, models.ProductPending)
	svc := &CatalogService{Repo: store}

	got, err := svc.UpdateProduct(context.Background(), s, p.ID, transport.UpdateProductRequest{
		Category: strPtr("cameras"),
		Image:    strPtr("https://img.example/1.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cameras", got.Category)
	assert.Equal(t, "https://img.example/1.jpg", got.Image)
}

func TestUpdateProduct_Ownership(t *testing.T) {
	store := newStore(t)
	owner := seller()
	p := seedProduct(t, store, owner.ID, 1, 100, models.ProductApproved)
	svc := &CatalogService{Repo: store}
	ctx := context.Background()

	_, err := svc.UpdateProduct(ctx, seller(), p.ID, transport.UpdateProductRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.UpdateProduct(ctx, admin(), p.ID, transport.UpdateProductRequest{Name: strPtr("by admin")})
	require.NoError(t, err)
	assert.Equal(t, "by admin", got.Name)

	_, err = svc.UpdateProduct(ctx, owner, uuid.New(), transport.UpdateProductRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateProduct(ctx, owner, p.ID, transport.UpdateProductRequest{Price: floatPtr(0)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProduct(ctx, owner, p.ID, transport.UpdateProductRequest{Stock: intPtr(-3)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteProduct(t *testing.T) {
	store := newStore(t)
	owner := seller()
	pub := &fakePublisher{}
	cache := newFakeCache()
	svc := &CatalogService{Repo: store, Events: pub, Cache: cache}
	ctx := context.Background()

	p := seedProduct(t, store, owner.ID, 1, 100, models.ProductApproved)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, seller(), p.ID), ErrForbidden)
	require.NoError(t, svc.DeleteProduct(ctx, owner, p.ID))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, owner, p.ID), ErrNotFound)

	other := seedProduct(t, store, owner.ID, 1, 100, models.ProductApproved)
	require.NoError(t, svc.DeleteProduct(ctx, admin(), other.ID))

	assert.Equal(t, []string{"product_deleted", "product_deleted"}, pub.types())
	assert.Contains(t, cache.invalidated, p.ID)
}

func TestModeration_Transitions(t *testing.T) {
	store := newStore(t)
	pub := &fakePublisher{}
	svc := &CatalogService{Repo: store, Events: pub}
	ctx := context.Background()

	p := seedProduct(t, store, uuid.New(), 1, 100, models.ProductPending)
	got, err := svc.ApproveProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductApproved, got.Status)

	_, err = svc.RejectProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.ApproveProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	q := seedProduct(t, store, uuid.New(), 1, 100, models.ProductPending)
	got, err = svc.RejectProduct(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductRejected, got.Status)

	_, err = svc.ApproveProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"product_approved", "product_rejected"}, pub.types())
}

func TestListProducts_InclusivePriceBounds(t *testing.T) {
	store := newStore(t)
	svc := &CatalogService{Repo: store}
	for _, price := range []float64{99.99, 100, 150, 200, 200.01} {
		seedProduct(t, store, uuid.New(), 1, price, models.ProductApproved)
	}

	page, err := svc.ListProducts(context.Background(), models.ProductFilter{
		MinPrice: floatPtr(100),
		MaxPrice: floatPtr(200),
	}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalProducts)
	for _, p := range page.Products {
		assert.GreaterOrEqual(t, p.Price, 100.0)
		assert.LessOrEqual(t, p.Price, 200.0)
	}
}

func TestListProducts_PaginationEnvelope(t *testing.T) {
	store := newStore(t)
	svc := &CatalogService{Repo: store}
	for i := 0; i < 25; i++ {
		seedProduct(t, store, uuid.New(), 1, 10, models.ProductApproved)
	}

	page, err := svc.ListProducts(context.Background(), models.ProductFilter{}, 3, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 25, page.TotalProducts)
	assert.Equal(t, 3, page.CurrentPage)
	assert.EqualValues(t, 3, page.TotalPages)
	assert.Len(t, page.Products, 5)
}

func TestListProducts_Validation(t *testing.T) {
	svc := &CatalogService{Repo: newStore(t)}
	ctx := context.Background()

	_, err := svc.ListProducts(ctx, models.ProductFilter{Status: "sold"}, 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ListProducts(ctx, models.ProductFilter{MinPrice: floatPtr(10), MaxPrice: floatPtr(5)}, 1, 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetProduct_UsesCache(t *testing.T) {
	store := newStore(t)
	cache := newFakeCache()
	svc := &CatalogService{Repo: store, Cache: cache}
	ctx := context.Background()
	p := seedProduct(t, store, uuid.New(), 1, 10, models.ProductApproved)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Contains(t, cache.items, p.ID)

	require.NoError(t, store.DeleteProduct(ctx, p.ID))
	cached, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, cached.ID)

	_, err = svc.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSellerProducts_OnlyOwn(t *testing.T) {
	store := newStore(t)
	svc := &CatalogService{Repo: store}
	s := seller()
	seedProduct(t, store, s.ID, 1, 10, models.ProductPending)
	seedProduct(t, store, s.ID, 1, 10, models.ProductApproved)
	seedProduct(t, store, uuid.New(), 1, 10, models.ProductApproved)

	items, err := svc.ListSellerProducts(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, p := range items {
		assert.Equal(t, s.ID, p.SellerID)
	}
}

type fakeIndex struct {
	indexed []uuid.UUID
	deleted []uuid.UUID
	result  []models.Product
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) ([]models.Product, int64, error) {
	return f.result, int64(len(f.result)), nil
}

func TestSearchProducts_PrefersIndex(t *testing.T) {
	store := newStore(t)
	ix := &fakeIndex{result: []models.Product{{ID: uuid.New(), Name: "From index"}}}
	svc := &CatalogService{Repo: store, Index: ix}

	page, err := svc.SearchProducts(context.Background(), "anything", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "From index", page.Products[0].Name)
}

func TestSearchProducts_FallsBackToStore(t *testing.T) {
	store := newStore(t)
	svc := &CatalogService{Repo: store}
	p := seedProduct(t, store, uuid.New(), 1, 10, models.ProductApproved)

	page, err := svc.SearchProducts(context.Background(), "camera", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, p.ID, page.Products[0].ID)

	_, err = svc.SearchProducts(context.Background(), "  ", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIndexKeptInSync(t *testing.T) {
	store := newStore(t)
	ix := &fakeIndex{}
	svc := &CatalogService{Repo: store, Index: ix}
	ctx := context.Background()
	s := seller()

	p, err := svc.CreateProduct(ctx, s, validCreate())
	require.NoError(t, err)
	_, err = svc.ApproveProduct(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, s, p.ID))

	assert.Equal(t, []uuid.UUID{p.ID, p.ID}, ix.indexed)
	assert.Equal(t, []uuid.UUID{p.ID}, ix.deleted)
}
