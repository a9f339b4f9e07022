package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/resale_market/internal/cache"
	"github.com/Skotchmaster/resale_market/internal/gateway"
	"github.com/Skotchmaster/resale_market/internal/httpserver"
	"github.com/Skotchmaster/resale_market/internal/search"
	"github.com/Skotchmaster/resale_market/internal/service"
	"github.com/Skotchmaster/resale_market/internal/store"
	"github.com/Skotchmaster/resale_market/pkg/config"
	"github.com/Skotchmaster/resale_market/pkg/logging"
	"github.com/Skotchmaster/resale_market/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/resale_market/pkg/middleware/logging"
	"github.com/Skotchmaster/resale_market/pkg/mykafka"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.Open(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("store open: %v", err)
	}

	var events service.EventPublisher = mykafka.Nop{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = producer
	}

	catalog := &service.CatalogService{Repo: st, Events: events}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		catalog.Index = &search.Index{ES: es, Name: cfg.ESIndex}
	}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = cache.New(cfg.RedisAddr, cfg.RedisPassword)
		catalog.Cache = cache.NewProductCache(rdb, cfg.CacheTTL)
	}

	orders := &service.OrderService{Products: st, Orders: st, Catalog: catalog, Events: events}
	payments := &service.PaymentService{
		Products:  st,
		Orders:    st,
		Gateway:   gateway.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		KeySecret: cfg.RazorpayKeySecret,
		Events:    events,
	}
	auth := &service.AuthService{
		Users:         st,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(csrf.Middleware(csrf.Config{
		SkipPaths: []string{"/api/auth/login", "/api/auth/register", "/health/live", "/health/ready"},
	}))

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orders},
		PaymentHandler: &httpserver.PaymentHTTP{Svc: payments},
		AuthHandler:    &httpserver.AuthHTTP{Svc: auth},
		JWTSecret:      cfg.JWTAccessSecret,
		Ready:          st.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := st.Close(); err != nil {
		logger.Warn("store_close_failed", "error", err)
	}

	logger.Info("stopped")
}
