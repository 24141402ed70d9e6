package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/notify"
	"storefront/internal/platform/config"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	"storefront/internal/session"
	"storefront/internal/store"
	filestore "storefront/internal/store/file"
	memorystore "storefront/internal/store/memory"
	pgstore "storefront/internal/store/postgres"
	redisstore "storefront/internal/store/redis"
)

// main wires the storefront core: durable store, catalog client, session
// and cart managers, and the cart validator. Business logic lives in the
// internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	m := metrics.New()

	// The client reads its bearer token from the session manager, which
	// itself logs in through the client; resolve the cycle with a late
	// binding.
	var sessions *session.Manager
	client, err := catalog.NewClient(catalog.Config{
		BaseURL:    cfg.APIURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     log,
		TokenSource: func() (string, bool) {
			if sessions == nil {
				return "", false
			}
			return sessions.TokenSource()()
		},
	})
	if err != nil {
		log.Error("failed to build catalog client", "error", err)
		os.Exit(1)
	}

	sessions, err = session.NewManager(ctx, session.Config{
		Store:   st,
		Auth:    client,
		Logger:  log,
		Metrics: m,
	})
	if err != nil {
		log.Error("failed to build session manager", "error", err)
		os.Exit(1)
	}

	carts, err := cart.NewManager(ctx, cart.Config{Store: st, Logger: log, Metrics: m})
	if err != nil {
		log.Error("failed to build cart manager", "error", err)
		os.Exit(1)
	}

	notifier := notify.New()
	cancelNotices := notifier.Subscribe(func(n notify.Notification) {
		log.Info("notice", "level", n.Level, "message", n.Message)
	})
	defer cancelNotices()

	validator, err := cart.NewValidator(cart.ValidatorConfig{
		Cart:     carts,
		Catalog:  client,
		Notifier: notifier,
		Logger:   log,
		Metrics:  m,
	})
	if err != nil {
		log.Error("failed to build cart validator", "error", err)
		os.Exit(1)
	}

	log.Info("storefront core ready",
		"api", cfg.APIURL,
		"store", cfg.StoreBackend,
		"authenticated", sessions.IsAuthenticated(),
		"cart_items", carts.ItemCount(),
		"cart_total", carts.Total().String(),
	)

	if err := validator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("validator stopped", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.App) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "file":
		s, err := filestore.Open(cfg.StorePath)
		return s, func() {}, err
	case "memory":
		return memorystore.New(), func() {}, nil
	case "redis":
		s, err := redisstore.New(ctx, cfg.RedisURL, "storefront")
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		s, err := pgstore.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, errors.New("unknown store backend " + cfg.StoreBackend)
	}
}
