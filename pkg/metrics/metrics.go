// Package metrics provides Prometheus metrics for the news server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "livenews"

var (
	// RefreshTotal counts refresh runs by outcome.
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Total number of news refreshes",
		},
		[]string{"status"},
	)

	// RefreshDuration measures how long a refresh takes.
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of news refreshes in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	// CategoryArticles tracks the cached article count per category.
	CategoryArticles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_articles",
			Help:      "Number of cached articles per category",
		},
		[]string{"category"},
	)

	// FeedErrorsTotal counts feeds that could not be collected.
	FeedErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_errors_total",
			Help:      "Total number of failed feed collections",
		},
		[]string{"category"},
	)

	// PushDeliveredTotal counts news_update events handed to subscribers.
	PushDeliveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_delivered_total",
			Help:      "Total number of news_update events delivered to subscribers",
		},
	)

	// StreamSubscribers tracks open /events streams.
	StreamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Number of connected push stream clients",
		},
	)
)

// RecordRefresh records a refresh run.
func RecordRefresh(status string, duration float64) {
	RefreshTotal.WithLabelValues(status).Inc()
	RefreshDuration.Observe(duration)
}

// SetCategoryArticles replaces the per-category article gauges.
func SetCategoryArticles(counts map[string]int) {
	CategoryArticles.Reset()
	for category, n := range counts {
		CategoryArticles.WithLabelValues(category).Set(float64(n))
	}
}

// RecordFeedError records a failed feed collection.
func RecordFeedError(category string) {
	FeedErrorsTotal.WithLabelValues(category).Inc()
}

// RecordPush records delivered push events.
func RecordPush(delivered int) {
	PushDeliveredTotal.Add(float64(delivered))
}

// StreamOpened increments the subscriber gauge.
func StreamOpened() {
	StreamSubscribers.Inc()
}

// StreamClosed decrements the subscriber gauge.
func StreamClosed() {
	StreamSubscribers.Dec()
}
