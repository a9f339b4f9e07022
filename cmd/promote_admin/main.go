package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/resale_market/internal/service"
	"github.com/Skotchmaster/resale_market/internal/store"
	"github.com/Skotchmaster/resale_market/pkg/config"
)

func main() {
	email := flag.String("email", "", "email of the account to promote to admin")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: promote_admin -email user@example.com")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		config.MustNonEmpty(cfg.MongoURI, "MONGO_URI")
	default:
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store open: %v", err)
	}
	defer st.Close()

	auth := &service.AuthService{Users: st}
	if err := auth.PromoteAdmin(ctx, *email); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			log.Fatalf("no user found with email: %s", *email)
		}
		log.Fatalf("failed to promote user to admin: %v", err)
	}

	fmt.Printf("User %s promoted to admin.\n", *email)
}
