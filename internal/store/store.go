// Package store opens the storage backend selected by STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/resale_market/internal/repo"
	"github.com/Skotchmaster/resale_market/internal/repo/mongorepo"
	"github.com/Skotchmaster/resale_market/internal/service"
	"github.com/Skotchmaster/resale_market/pkg/config"
	pkgdb "github.com/Skotchmaster/resale_market/pkg/db"
)

type Handle struct {
	service.Store
	ping  func(ctx context.Context) error
	close func() error
}

func (h *Handle) Ping(ctx context.Context) error { return h.ping(ctx) }

func (h *Handle) Close() error { return h.close() }

// Open connects to the configured backend and prepares its schema: tables
// are migrated for postgres, indexes are created for mongo.
func Open(ctx context.Context, cfg config.Config) (*Handle, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		r, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := r.EnsureIndexes(ctx); err != nil {
			_ = r.Close(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &Handle{
			Store: r,
			ping:  func(ctx context.Context) error { return r.Client.Ping(ctx, nil) },
			close: func() error { return r.Close(context.Background()) },
		}, nil
	case config.StoreDriverPostgres:
		db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(db); err != nil {
			_ = pkgdb.Close(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &Handle{
			Store: &repo.GormRepo{DB: db},
			ping:  func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
			close: func() error { return pkgdb.Close(db) },
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
