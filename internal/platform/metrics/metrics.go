package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the storefront core. All
// recording methods are nil-safe so wiring metrics stays optional.
type Metrics struct {
	CartMutations       *prometheus.CounterVec
	LoginAttempts       *prometheus.CounterVec
	StaleEntriesRemoved prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CartMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Total number of cart mutations by operation",
		}, []string{"op"}),
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_login_attempts_total",
			Help: "Total number of login attempts by result",
		}, []string{"result"}),
		StaleEntriesRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "storefront_cart_stale_entries_removed_total",
			Help: "Total number of cart entries removed because the product left the catalog",
		}),
	}
}

func (m *Metrics) CartMutated(op string) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) LoginSucceeded() {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues("success").Inc()
}

func (m *Metrics) LoginFailed() {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues("failure").Inc()
}

func (m *Metrics) StaleRemoved(count int) {
	if m == nil {
		return
	}
	m.StaleEntriesRemoved.Add(float64(count))
}
