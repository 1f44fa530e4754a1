// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noopMetrics hands out a single meter that discards everything.
type noopMetrics struct{}

var _ interface {
	Metrics
	CountMeter
	CountVecMeter
	GaugeMeter
	GaugeVecMeter
	HistogramVecMeter
} = noopMetrics{}

func (n noopMetrics) GetOrCreateCountMeter(string) CountMeter                 { return n }
func (n noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return n }
func (n noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter                 { return n }
func (n noopMetrics) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter { return n }

func (n noopMetrics) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return n
}

func (noopMetrics) GetOrCreateHandler() http.Handler { return http.NotFoundHandler() }

func (noopMetrics) Add(int64)                                  {}
func (noopMetrics) Set(int64)                                  {}
func (noopMetrics) AddWithLabel(int64, map[string]string)      {}
func (noopMetrics) SetWithLabel(int64, map[string]string)      {}
func (noopMetrics) ObserveWithLabels(int64, map[string]string) {}
