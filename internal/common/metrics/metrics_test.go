package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(RetrievalFallbacks.WithLabelValues("keyword"))
	RetrievalFallbacks.WithLabelValues("keyword").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RetrievalFallbacks.WithLabelValues("keyword")))

	before = testutil.ToFloat64(ValidationFailures.WithLabelValues("LOOKUP_RULE", "SCHEMA_ERROR"))
	ValidationFailures.WithLabelValues("LOOKUP_RULE", "SCHEMA_ERROR").Add(2)
	assert.Equal(t, before+2, testutil.ToFloat64(ValidationFailures.WithLabelValues("LOOKUP_RULE", "SCHEMA_ERROR")))
}
