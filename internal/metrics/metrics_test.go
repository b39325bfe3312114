package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsOnPrivateRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.LeadsInserted.WithLabelValues("reddit").Inc()
	m.Rejections.WithLabelValues("negative_keyword").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeadsInserted.WithLabelValues("reddit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rejections.WithLabelValues("negative_keyword")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// a second set on a fresh registry must not collide
	assert.NotPanics(t, func() { NewMetrics(prometheus.NewRegistry()) })
}
