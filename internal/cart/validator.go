package cart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/platform/metrics"
)

// LiveCatalog is the slice of the catalog client the validator needs.
type LiveCatalog interface {
	LiveProductIDs(ctx context.Context) (map[int]struct{}, error)
}

// Validator reconciles the cart against the live catalog: entries whose
// product no longer exists are removed in one batch. The batch is a
// single atomic mutation, so the publish it causes re-runs the check
// against an already-clean cart and converges immediately.
type Validator struct {
	cart     *Manager
	catalog  LiveCatalog
	notifier *notify.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type ValidatorConfig struct {
	Cart    *Manager
	Catalog LiveCatalog
	// Notifier may be nil; removals then happen silently.
	Notifier *notify.Notifier
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

func NewValidator(cfg ValidatorConfig) (*Validator, error) {
	if cfg.Cart == nil {
		return nil, fmt.Errorf("cart: validator Cart is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("cart: validator Catalog is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		cart:     cfg.Cart,
		catalog:  cfg.Catalog,
		notifier: cfg.Notifier,
		logger:   logger,
		metrics:  cfg.Metrics,
	}, nil
}

// Run subscribes to the cart stream and checks on every emission until
// ctx is done. Emissions arriving mid-check coalesce into one follow-up
// pass.
func (v *Validator) Run(ctx context.Context) error {
	trigger := make(chan struct{}, 1)
	cancel := v.cart.Changes().Subscribe(func([]domain.CartEntry) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			v.CheckOnce(ctx)
		}
	}
}

// CheckOnce performs one reconciliation pass. Catalog fetch failures are
// swallowed: a cart that cannot be verified is left as-is rather than
// corrupted.
func (v *Validator) CheckOnce(ctx context.Context) {
	items := v.cart.Items()
	if len(items) == 0 {
		return
	}

	live, err := v.catalog.LiveProductIDs(ctx)
	if err != nil {
		v.logger.Debug("cart validation skipped, catalog unreachable", "error", err)
		return
	}

	var stale []int
	for _, e := range items {
		if _, ok := live[e.Product.ID]; !ok {
			stale = append(stale, e.Product.ID)
		}
	}
	if len(stale) == 0 {
		return
	}

	removed, err := v.cart.RemoveMany(ctx, stale)
	if err != nil {
		v.logger.Warn("failed to remove unavailable products from cart", "error", err)
		return
	}
	if len(removed) == 0 {
		return
	}

	v.metrics.StaleRemoved(len(removed))
	titles := make([]string, len(removed))
	for i, e := range removed {
		titles[i] = e.Product.Title
	}
	v.logger.Info("removed unavailable products from cart", "titles", titles)
	v.notifier.Info(fmt.Sprintf("Removed from your cart (no longer available): %s",
		strings.Join(titles, ", ")))
}
