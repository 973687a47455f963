// AngelaMos | 2026
// metrics.go

// Package metrics exposes domain counters and HTTP latency to Prometheus.
// Collector satisfies the recorder interfaces the domain packages declare.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "slideview"

type Collector struct {
	versions        *prometheus.CounterVec
	reconciled      *prometheus.CounterVec
	draftsSaved     *prometheus.CounterVec
	draftsCleaned   prometheus.Counter
	denials         *prometheus.CounterVec
	publicViews     *prometheus.CounterVec
	webhooks        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		versions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slide_versions_created_total",
			Help:      "Slide versions written, by reason.",
		}, []string{"reason"}),
		reconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slides_reconciled_total",
			Help:      "Slides touched by bulk replacement, by outcome.",
		}, []string{"outcome"}),
		draftsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_saved_total",
			Help:      "Draft upserts, by draft type.",
		}, []string{"type"}),
		draftsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_cleaned_total",
			Help:      "Stale drafts deleted.",
		}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_denials_total",
			Help:      "Operations refused by plan limits, by resource.",
		}, []string{"resource"}),
		publicViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "public_views_total",
			Help:      "Shared presentation views, by surface.",
		}, []string{"kind"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billing_webhooks_total",
			Help:      "Billing webhook events processed, by event.",
		}, []string{"event"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		c.versions,
		c.reconciled,
		c.draftsSaved,
		c.draftsCleaned,
		c.denials,
		c.publicViews,
		c.webhooks,
		c.requestDuration,
	)

	return c
}

func (c *Collector) VersionCreated(reason string) {
	c.versions.WithLabelValues(reason).Inc()
}

func (c *Collector) SlidesReconciled(created, updated, deleted int) {
	c.reconciled.WithLabelValues("created").Add(float64(created))
	c.reconciled.WithLabelValues("updated").Add(float64(updated))
	c.reconciled.WithLabelValues("deleted").Add(float64(deleted))
}

func (c *Collector) DraftSaved(kind string) {
	c.draftsSaved.WithLabelValues(kind).Inc()
}

func (c *Collector) DraftsCleaned(n int) {
	c.draftsCleaned.Add(float64(n))
}

func (c *Collector) EntitlementDenied(resource string) {
	c.denials.WithLabelValues(resource).Inc()
}

func (c *Collector) PublicView(kind string) {
	c.publicViews.WithLabelValues(kind).Inc()
}

func (c *Collector) WebhookProcessed(event string) {
	c.webhooks.WithLabelValues(event).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Middleware observes request latency labelled by the matched chi route
// pattern, so ids in the path do not explode cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}

		c.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
