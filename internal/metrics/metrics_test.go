package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordPipelineActivity(t *testing.T) {
	m := New("colonyfeed")

	m.ObserveFetch("PayoutClaimed", 20*time.Millisecond, 3)
	m.AddRecords("PayoutClaimed", 3)
	m.ObserveLookup(LookupFundingPot, nil)
	m.ObserveLookup(LookupFundingPot, errors.New("boom"))
	m.ObserveFeed(time.Second, 7, nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.logsFetched.WithLabelValues("PayoutClaimed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.recordsBuilt.WithLabelValues("PayoutClaimed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues(LookupFundingPot, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues(LookupFundingPot, "error")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.feedSize))

	m.ObserveFeed(time.Second, 0, errors.New("boom"))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.feedSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedBuilds.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("DomainAdded", time.Millisecond, 1)
	m.AddRecords("DomainAdded", 1)
	m.ObserveLookup(LookupBlockTime, nil)
	m.ObserveFeed(time.Millisecond, 1, nil)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("colonyfeed")
	m.AddRecords("DomainAdded", 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `colonyfeed_records_built_total{kind="DomainAdded"} 2`), string(body))
}
