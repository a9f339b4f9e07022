// Package mongorepo is the document-store backend of the market, selected
// with STORE_DRIVER=mongo. It satisfies the same storage contracts as the
// gorm repository.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/resale_market/internal/repo"
)

type Repo struct {
	Client        *mongo.Client
	Users         *mongo.Collection
	RefreshTokens *mongo.Collection
	Products      *mongo.Collection
	Orders        *mongo.Collection
}

func Connect(ctx context.Context, uri, database string) (*Repo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return New(client, client.Database(database)), nil
}

func New(client *mongo.Client, db *mongo.Database) *Repo {
	return &Repo{
		Client:        client,
		Users:         db.Collection("users"),
		RefreshTokens: db.Collection("refresh_tokens"),
		Products:      db.Collection("products"),
		Orders:        db.Collection("orders"),
	}
}

// EnsureIndexes creates the unique and lookup indexes the queries rely on.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	idx := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{r.Users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{r.RefreshTokens, []mongo.IndexModel{
			{Keys: bson.D{{Key: "jti", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "token_hash", Value: 1}}},
		}},
		{r.Products, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "seller", Value: 1}}},
		}},
		{r.Orders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "buyer", Value: 1}}},
			{Keys: bson.D{{Key: "product", Value: 1}}},
			{Keys: bson.D{{Key: "razorpay_order_id", Value: 1}}},
		}},
	}
	for _, i := range idx {
		if _, err := i.coll.Indexes().CreateMany(ctx, i.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", i.coll.Name(), err)
		}
	}
	return nil
}

func (r *Repo) Close(ctx context.Context) error {
	return r.Client.Disconnect(ctx)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repo.ErrNotFound
	}
	return err
}
