// Package metrics exposes Prometheus collectors for the crawler.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pagesFetchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_pages_fetched_total",
		Help: "Total number of search pages fetched from the upstream.",
	})

	repositoriesUpsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_repositories_upserted_total",
		Help: "Total number of repositories written to the store.",
	})

	retriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_retries_total",
		Help: "Total number of retried upstream operations, labeled by operation.",
	}, []string{"operation"})

	quotaWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crawler_quota_wait_seconds",
		Help:    "Histogram of waits caused by exhausted upstream quota.",
		Buckets: []float64{1, 5, 30, 60, 300, 900, 1800, 3600},
	})

	pacingWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crawler_pacing_wait_seconds",
		Help:    "Histogram of proactive and pacing waits taken by the rate governor.",
		Buckets: []float64{0.1, 0.5, 1, 5, 30, 300, 3600},
	})

	checkpointsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_checkpoints_saved_total",
		Help: "Total number of crawl checkpoints persisted.",
	})

	rateLimitRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_rate_limit_remaining",
		Help: "Remaining upstream quota reported by the last response.",
	})

	crawlsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_runs_total",
		Help: "Total number of crawl runs, labeled by outcome.",
	}, []string{"outcome"})
)

// Register adds the crawler collectors to reg. Collectors already present
// in reg are skipped.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		pagesFetchedTotal,
		repositoriesUpsertedTotal,
		retriesTotal,
		quotaWaitSeconds,
		pacingWaitSeconds,
		checkpointsSavedTotal,
		rateLimitRemaining,
		crawlsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

func IncPagesFetched() {
	pagesFetchedTotal.Inc()
}

func AddRepositoriesUpserted(n int) {
	repositoriesUpsertedTotal.Add(float64(n))
}

func IncRetries(operation string) {
	retriesTotal.WithLabelValues(operation).Inc()
}

func ObserveQuotaWait(d time.Duration) {
	quotaWaitSeconds.Observe(d.Seconds())
}

func ObservePacingWait(d time.Duration) {
	pacingWaitSeconds.Observe(d.Seconds())
}

func IncCheckpointsSaved() {
	checkpointsSavedTotal.Inc()
}

func SetRateLimitRemaining(remaining int) {
	rateLimitRemaining.Set(float64(remaining))
}

func IncCrawls(outcome string) {
	crawlsTotal.WithLabelValues(outcome).Inc()
}
