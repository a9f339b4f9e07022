package mongorepo

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/repo"
)

func (r *Repo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := r.Products.InsertOne(ctx, toProductDoc(p))
	return err
}

func (r *Repo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var d productDoc
	if err := r.Products.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	return d.model(), nil
}

func (r *Repo) UpdateProduct(ctx context.Context, id uuid.UUID, c models.ProductChanges) (*models.Product, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range c.Fields() {
		set[k] = v
	}
	res, err := r.Products.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, repo.ErrNotFound
	}
	return r.GetProduct(ctx, id)
}

func (r *Repo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := r.Products.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *Repo) SetProductStatus(ctx context.Context, id uuid.UUID, from, to models.ProductStatus) (*models.Product, error) {
	var d productDoc
	err := r.Products.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return nil, notFound(err)
	}
	return d.model(), nil
}

func productFilter(f models.ProductFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.SellerID != nil {
		q["seller"] = f.SellerID.String()
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}
	return q
}

func searchFilter(q string) bson.M {
	rx := bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(q)), "$options": "i"}
	return bson.M{
		"status": string(models.ProductApproved),
		"$or": bson.A{
			bson.M{"name": rx},
			bson.M{"description": rx},
			bson.M{"category": rx},
		},
	}
}

func (r *Repo) findProducts(ctx context.Context, filter bson.M, offset, limit int) ([]models.Product, int64, error) {
	total, err := r.Products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.Products.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	items := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		items = append(items, *d.model())
	}
	return items, total, nil
}

func (r *Repo) ListProducts(ctx context.Context, f models.ProductFilter, offset, limit int) ([]models.Product, int64, error) {
	return r.findProducts(ctx, productFilter(f), offset, limit)
}

func (r *Repo) SearchProducts(ctx context.Context, q string, offset, limit int) ([]models.Product, int64, error) {
	return r.findProducts(ctx, searchFilter(q), offset, limit)
}

func (r *Repo) ProductIDsBySeller(ctx context.Context, sellerID uuid.UUID) ([]uuid.UUID, error) {
	cur, err := r.Products.Find(ctx, bson.M{"seller": sellerID.String()},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []uuid.UUID
	for cur.Next(ctx) {
		var d struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		ids = append(ids, parseID(d.ID))
	}
	return ids, cur.Err()
}

func (r *Repo) productsByID(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	out := make(map[string]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.Products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.model()
	}
	return out, nil
}

func incStock(ctx context.Context, coll *mongo.Collection, id string) error {
	_, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": 1}})
	return err
}

func (r *Repo) ListProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	cur, err := r.Products.Find(ctx, bson.M{"seller": sellerID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		items = append(items, *d.model())
	}
	return items, nil
}
