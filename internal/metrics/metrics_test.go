package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAnalysis(t *testing.T) {
	before := testutil.ToFloat64(analysesTotal.WithLabelValues(OutcomeDBError))
	ObserveAnalysis(OutcomeDBError)
	assert.Equal(t, before+1, testutil.ToFloat64(analysesTotal.WithLabelValues(OutcomeDBError)))
}

func TestObserveSoftFailure(t *testing.T) {
	before := testutil.ToFloat64(softFailuresTotal.WithLabelValues("classification"))
	ObserveSoftFailure("classification")
	assert.Equal(t, before+1, testutil.ToFloat64(softFailuresTotal.WithLabelValues("classification")))
}

func TestObserveDependency(t *testing.T) {
	ObserveDependency(DependencyOCR, time.Now().Add(-time.Second))
	assert.Equal(t, 1, testutil.CollectAndCount(dependencyLatency, "dependency_latency_seconds"))
}
