package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scribe_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreated counts posts published.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scribe_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreated counts comments added to posts.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scribe_comments_created_total",
		Help: "Total number of comments created",
	})

	// FollowEvents counts follow state changes by action and outcome.
	FollowEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_follow_events_total",
		Help: "Follow and unfollow requests by outcome",
	}, []string{"action", "outcome"})

	// FollowConflictsRecovered counts duplicate follow inserts that were treated as success.
	FollowConflictsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scribe_follow_conflicts_recovered_total",
		Help: "Duplicate follow inserts recovered as idempotent success",
	})

	// CacheLookups counts entity cache lookups by cache and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_cache_lookups_total",
		Help: "Entity cache lookups by result",
	}, []string{"cache", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
