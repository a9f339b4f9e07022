package mongorepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/resale_market/internal/models"
)

func (r *Repo) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = models.PaymentPending
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	_, err := r.Orders.InsertOne(ctx, toOrderDoc(o))
	return err
}

func (r *Repo) withProducts(ctx context.Context, docs []orderDoc) ([]models.Order, error) {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ProductID)
	}
	products, err := r.productsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o := d.model()
		o.Product = products[d.ProductID]
		out = append(out, o)
	}
	return out, nil
}

func (r *Repo) findOrder(ctx context.Context, filter bson.M) (*models.Order, error) {
	var d orderDoc
	if err := r.Orders.FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	orders, err := r.withProducts(ctx, []orderDoc{d})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *Repo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findOrder(ctx, bson.M{"_id": id.String()})
}

func (r *Repo) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := r.Orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.withProducts(ctx, docs)
}

func (r *Repo) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	return r.findOrders(ctx, bson.M{"buyer": buyerID.String()})
}

func (r *Repo) ListOrdersByProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Order, error) {
	if len(productIDs) == 0 {
		return []models.Order{}, nil
	}
	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, id.String())
	}
	return r.findOrders(ctx, bson.M{"product": bson.M{"$in": ids}})
}

func (r *Repo) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return r.findOrders(ctx, bson.M{})
}

// CancelOrder sets the order canceled and increments the product stock with
// $inc. The two writes are not wrapped in a transaction since standalone
// servers do not support them.
func (r *Repo) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var d orderDoc
	err := r.Orders.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"payment_status": string(models.PaymentCanceled), "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return nil, notFound(err)
	}
	if err := incStock(ctx, r.Products, d.ProductID); err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, id)
}

func (r *Repo) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (*models.Order, error) {
	var d orderDoc
	err := r.Orders.FindOneAndUpdate(ctx,
		bson.M{"razorpay_order_id": gatewayOrderID},
		bson.M{"$set": bson.M{
			"payment_status":      string(models.PaymentPaid),
			"razorpay_payment_id": paymentID,
			"updated_at":          time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		return nil, notFound(err)
	}
	orders, err := r.withProducts(ctx, []orderDoc{d})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}
