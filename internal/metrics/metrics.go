// Package metrics collects Prometheus counters for matches, the leaderboard
// and the product directory.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "playroom"

type Collector struct {
	moves           prometheus.Counter
	rounds          *prometheus.CounterVec
	matchesFinished *prometheus.CounterVec
	rejectedActions *prometheus.CounterVec
	leaderboardSize prometheus.Gauge
	productRequests *prometheus.CounterVec
	productLatency  *prometheus.HistogramVec
}

// NewCollector registers every metric on reg. Tests pass a fresh registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Accepted moves across all matches.",
		}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Decided rounds by outcome.",
		}, []string{"outcome"}),
		matchesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_finished_total",
			Help:      "Finished matches by final winner.",
		}, []string{"winner"}),
		rejectedActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_actions_total",
			Help:      "Game actions rejected by the state machine.",
		}, []string{"action"}),
		leaderboardSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leaderboard_entries",
			Help:      "Players currently on the leaderboard.",
		}),
		productRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_requests_total",
			Help:      "Product API requests by operation and terminal phase.",
		}, []string{"operation", "phase"}),
		productLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "product_request_duration_seconds",
			Help:      "Product API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		c.moves,
		c.rounds,
		c.matchesFinished,
		c.rejectedActions,
		c.leaderboardSize,
		c.productRequests,
		c.productLatency,
	)

	return c
}

func (c *Collector) RecordMove() {
	c.moves.Inc()
}

// RecordRound takes the round winner symbol, or "draw".
func (c *Collector) RecordRound(outcome string) {
	c.rounds.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordMatchFinished(winner string) {
	c.matchesFinished.WithLabelValues(winner).Inc()
}

func (c *Collector) RecordRejectedAction(action string) {
	c.rejectedActions.WithLabelValues(action).Inc()
}

func (c *Collector) SetLeaderboardSize(size int) {
	c.leaderboardSize.Set(float64(size))
}

func (c *Collector) RecordProductRequest(operation, phase string, duration time.Duration) {
	c.productRequests.WithLabelValues(operation, phase).Inc()
	c.productLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
