package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for IngestRequests.
const (
	OutcomeCreated          = "created"
	OutcomeDeduplicated     = "deduplicated"
	OutcomeRaceDeduplicated = "race_deduplicated"
	OutcomeInvalid          = "invalid"
	OutcomeSimulatedFailure = "simulated_failure"
	OutcomeStoreError       = "store_error"
)

var (
	IngestRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_ingest_requests_total",
		Help: "Total number of ingest requests, labelled by pipeline outcome.",
	}, []string{"outcome"})

	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tally_ingest_duration_ms",
		Help:    "Ingest pipeline latency in milliseconds, from canonicalization to commit.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	FingerprintCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_fingerprint_cache_lookups_total",
		Help: "Fast-path fingerprint cache lookups, labelled by result (hit, miss, error).",
	}, []string{"result"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_http_rate_limited_total",
		Help: "Total number of requests rejected by the per-IP rate limiter.",
	})
)
