package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors only.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "wikimart",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
		[]string{"app"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikimart",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"app", "method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wikimart",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"app", "method", "route"},
	)

	bidsPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wikimart",
			Name:      "bids_placed_total",
			Help:      "Bids accepted.",
		},
	)

	bidsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikimart",
			Name:      "bids_rejected_total",
			Help:      "Bids refused, by reason.",
		},
		[]string{"reason"},
	)

	auctionsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wikimart",
			Name:      "auctions_closed_total",
			Help:      "Auctions closed by their owners.",
		},
	)

	entriesSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikimart",
			Subsystem: "wiki",
			Name:      "entries_saved_total",
			Help:      "Wiki entries written, by operation (add|edit).",
		},
		[]string{"op"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight, httpRequests, httpDuration,
		bidsPlaced, bidsRejected, auctionsClosed, entriesSaved,
	)
}

// Middleware records request count and latency labelled by route pattern,
// so /listings/1 and /listings/2 share a series.
func Middleware(app string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		httpInFlight.WithLabelValues(app).Inc()
		defer httpInFlight.WithLabelValues(app).Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := c.Route().Path
		method := c.Method()
		httpRequests.WithLabelValues(app, method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(app, method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

func BidPlaced() { bidsPlaced.Inc() }
func BidRejected(reason string) { bidsRejected.WithLabelValues(reason).Inc() }
func AuctionClosed() { auctionsClosed.Inc() }
func EntrySaved(op string) { entriesSaved.WithLabelValues(op).Inc() }
