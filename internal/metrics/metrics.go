package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeStorageError = "storage_error"
	OutcomeOCRError     = "ocr_error"
	OutcomeDBError      = "database_error"
)

// Dependency labels.
const (
	DependencyObjectStore   = "object_store"
	DependencyOCR           = "ocr"
	DependencyLLM           = "llm"
	DependencyDocumentStore = "document_store"
)

var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by route and status",
}, []string{"route", "status"})

var analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "receipt_analyses_total",
	Help: "Receipt pipeline runs labelled by outcome",
}, []string{"outcome"})

var softFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "receipt_llm_soft_failures_total",
	Help: "Chat-completion calls that degraded to a placeholder, by step",
}, []string{"step"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

func ObserveAnalysis(outcome string) {
	analysesTotal.WithLabelValues(outcome).Inc()
}

func ObserveSoftFailure(step string) {
	softFailuresTotal.WithLabelValues(step).Inc()
}

// ObserveDependency records the time elapsed since start for the named dependency.
func ObserveDependency(service string, start time.Time) {
	dependencyLatency.WithLabelValues(service).Observe(time.Since(start).Seconds())
}
