// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestNoopMetrics(t *testing.T) {
	noop := defaultNoopMetrics()
	assert.Nil(t, noop.GetOrCreateHandler())

	assert.NotPanics(t, func() {
		noop.GetOrCreateCountMeter("c").Add(1)
		noop.GetOrCreateCountVecMeter("cv", []string{"l"}).AddWithLabel(1, map[string]string{"l": "x"})
		noop.GetOrCreateGaugeMeter("g").Set(1)
		noop.GetOrCreateGaugeVecMeter("gv", []string{"l"}).SetWithLabel(1, map[string]string{"l": "x"})
		noop.GetOrCreateHistogramMeter("h", BucketMillis).Observe(1)
	})
}

func TestLazyLoadBindsOnFirstUse(t *testing.T) {
	calls := 0
	lazy := LazyLoad(func() int {
		calls++
		return calls
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, lazy())
	assert.Equal(t, 1, lazy())
	assert.Equal(t, 1, calls)
}

func TestPromMetrics(t *testing.T) {
	prev := metrics
	defer func() { metrics = prev }()

	ops := LazyLoadCounterVec("test_ops_total", []string{"op", "result"})
	pending := LazyLoadGaugeVec("test_pending", []string{"queue"})

	InitializePrometheusMetrics()
	require.NotNil(t, HTTPHandler())

	ops().AddWithLabel(1, map[string]string{"op": "delegate", "result": "ok"})
	ops().AddWithLabel(2, map[string]string{"op": "delegate", "result": "ok"})
	ops().AddWithLabel(1, map[string]string{"op": "delegate", "result": "revert"})
	CounterVec("test_ops_total", []string{"op", "result"}).AddWithLabel(1, map[string]string{"op": "step", "result": "ok"})

	pending().SetWithLabel(5, map[string]string{"queue": "undelegate"})
	pending().AddWithLabel(-2, map[string]string{"queue": "undelegate"})

	Counter("test_count").Add(3)
	Gauge("test_gauge").Set(7)
	Histogram("test_duration_ms", BucketMillis).Observe(4)

	families := gather(t)

	opsFamily := families[namespace+"_test_ops_total"]
	require.NotNil(t, opsFamily)
	got := make(map[string]float64)
	for _, m := range opsFamily.GetMetric() {
		got[labelValue(m, "op")+"/"+labelValue(m, "result")] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"delegate/ok": 3, "delegate/revert": 1, "step/ok": 1}, got)

	pendingFamily := families[namespace+"_test_pending"]
	require.NotNil(t, pendingFamily)
	require.Len(t, pendingFamily.GetMetric(), 1)
	assert.Equal(t, float64(3), pendingFamily.GetMetric()[0].GetGauge().GetValue())

	assert.Equal(t, float64(3), families[namespace+"_test_count"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(7), families[namespace+"_test_gauge"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, uint64(1), families[namespace+"_test_duration_ms"].GetMetric()[0].GetHistogram().GetSampleCount())
}
