// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromMetrics(t *testing.T) {
	m := newPrometheusMetrics()

	// 2 ways of accessing it - useful to avoid lookups
	count1 := m.GetOrCreateCountMeter("count1")
	count1.Add(1)
	m.GetOrCreateCountMeter("count1").Add(2)

	countVec := m.GetOrCreateCountVecMeter("countVec1", []string{"action"})
	countVec.AddWithLabel(3, map[string]string{"action": "deposit"})
	countVec.AddWithLabel(1, map[string]string{"action": "claim"})

	m.GetOrCreateGaugeMeter("gauge1").Set(42)
	m.GetOrCreateGaugeVecMeter("gaugeVec1", []string{"kind"}).SetWithLabel(7, map[string]string{"kind": "a"})
	m.GetOrCreateHistogramVecMeter("hist1", []string{"kind"}, BucketHTTPReqs).
		ObserveWithLabels(12, map[string]string{"kind": "a"})

	families, err := m.registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] += metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				values[mf.GetName()] += float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	assert.Equal(t, float64(3), values["rewardpool_count1"])
	assert.Equal(t, float64(4), values["rewardpool_countVec1"])
	assert.Equal(t, float64(42), values["rewardpool_gauge1"])
	assert.Equal(t, float64(7), values["rewardpool_gaugeVec1"])
	assert.Equal(t, float64(1), values["rewardpool_hist1"])

	srv := httptest.NewServer(m.GetOrCreateHandler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rewardpool_count1 3")
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	f := LazyLoad(func() int {
		calls++
		return calls
	})
	assert.Equal(t, 1, f())
	assert.Equal(t, 1, f())
	assert.Equal(t, 1, calls)
}
