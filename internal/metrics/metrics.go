// Package metrics holds the Prometheus collectors of the service. Every
// method is safe on a nil *Collector so callers can run without metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	ListQueries       prometheus.Counter
	FormatValidations *prometheus.CounterVec
	FavoritesToggled  prometheus.Counter
	BulkFavorited     prometheus.Counter
	SelectionChanges  *prometheus.CounterVec

	// Worker metrics
	Reloads        *prometheus.CounterVec
	RecordsLoaded  prometheus.Gauge
	SessionsPruned prometheus.Counter
}

// NewCollector creates a collector with its own registry under namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ListQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_queries_total",
			Help:      "Total number of email list pipeline runs",
		}),
		FormatValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "format_validations_total",
				Help:      "Format/validate runs by preset and outcome",
			},
			[]string{"preset", "valid"},
		),
		FavoritesToggled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorites_toggled_total",
			Help:      "Total number of single favorite toggles",
		}),
		BulkFavorited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_favorited_total",
			Help:      "Records newly marked favorite by bulk actions",
		}),
		SelectionChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "selection_changes_total",
				Help:      "Selection changes by kind",
			},
			[]string{"kind"},
		),
		Reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mailbox_reloads_total",
				Help:      "Mailbox reloads by outcome",
			},
			[]string{"status"},
		),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mailbox_records",
			Help:      "Number of records in the catalog",
		}),
		SessionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Idle sessions evicted from memory",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.ListQueries,
		c.FormatValidations,
		c.FavoritesToggled,
		c.BulkFavorited,
		c.SelectionChanges,
		c.Reloads,
		c.RecordsLoaded,
		c.SessionsPruned,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the exposition format for this collector's registry
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// TrackSessions exposes an active_sessions gauge read from live
func (c *Collector) TrackSessions(namespace string, live func() int) {
	if c == nil {
		return
	}
	c.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory",
		},
		func() float64 { return float64(live()) },
	))
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ListQuery counts a pipeline run
func (c *Collector) ListQuery() {
	if c == nil {
		return
	}
	c.ListQueries.Inc()
}

// FormatValidation counts a format/validate run
func (c *Collector) FormatValidation(preset string, valid bool) {
	if c == nil {
		return
	}
	c.FormatValidations.WithLabelValues(preset, strconv.FormatBool(valid)).Inc()
}

// FavoriteToggled counts a single favorite toggle
func (c *Collector) FavoriteToggled() {
	if c == nil {
		return
	}
	c.FavoritesToggled.Inc()
}

// Bulk counts records changed by a bulk favorite
func (c *Collector) Bulk(changed int) {
	if c == nil {
		return
	}
	c.BulkFavorited.Add(float64(changed))
}

// SelectionChanged counts a selection change of the given kind
func (c *Collector) SelectionChanged(kind string) {
	if c == nil {
		return
	}
	c.SelectionChanges.WithLabelValues(kind).Inc()
}

// Reload records a mailbox reload and, on success, the catalog size
func (c *Collector) Reload(records int, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.Reloads.WithLabelValues("error").Inc()
		return
	}
	c.Reloads.WithLabelValues("ok").Inc()
	c.RecordsLoaded.Set(float64(records))
}

// Evicted counts idle sessions dropped by the janitor
func (c *Collector) Evicted(n int) {
	if c == nil {
		return
	}
	c.SessionsPruned.Add(float64(n))
}
