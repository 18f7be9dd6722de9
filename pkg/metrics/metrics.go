package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumematch", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumematch", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumematch", Name: "ingest_total", Help: "Ingestion requests by document kind and outcome."},
		[]string{"kind", "outcome"},
	)
	ExtractionStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumematch", Name: "extraction_status_total", Help: "Persisted records by structured-field extraction status."},
		[]string{"status"},
	)
	MatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumematch", Name: "match_total", Help: "Match requests by outcome."},
		[]string{"outcome"},
	)
	MatchPercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "resumematch", Name: "match_percentage", Help: "Distribution of computed match percentages.", Buckets: prometheus.LinearBuckets(0, 10, 11)},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(IngestTotal)
	reg.MustRegister(ExtractionStatus)
	reg.MustRegister(MatchTotal)
	reg.MustRegister(MatchPercentage)
}
