/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/dealdocs/agent-contact-import/internal/system/constants"
)

// Item results.
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
	ResultSkipped   = "skipped"
)

// Retry reasons.
const (
	ReasonUnprocessed = "unprocessed"
	ReasonThrottled   = "throttled"
)

// ImportMetrics collects bulk write metrics on a private registry so a run can push
// exactly its own series. All methods are safe on a nil receiver.
type ImportMetrics struct {
	registry     *prometheus.Registry
	itemsWritten *prometheus.CounterVec
	batchRetries *prometheus.CounterVec
	batches      *prometheus.CounterVec
	backoff      prometheus.Histogram
}

func NewImportMetrics() *ImportMetrics {
	m := &ImportMetrics{
		registry: prometheus.NewRegistry(),
		itemsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentctl",
			Name:      "items_written_total",
			Help:      "Items handled by the bulk writer broken down by result.",
		}, []string{"result"}),
		batchRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentctl",
			Name:      "batch_retries_total",
			Help:      "Batch resubmissions broken down by reason.",
		}, []string{"reason"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentctl",
			Name:      "batches_total",
			Help:      "Batches by terminal state.",
		}, []string{"state"}),
		backoff: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agentctl",
			Name:      "backoff_seconds",
			Help:      "Delays waited before batch resubmissions.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		}),
	}
	m.registry.MustRegister(m.itemsWritten, m.batchRetries, m.batches, m.backoff)
	return m
}

// Registry exposes the underlying registry.
func (m *ImportMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *ImportMetrics) ObserveItems(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsWritten.WithLabelValues(result).Add(float64(n))
}

func (m *ImportMetrics) ObserveRetry(reason string, delay time.Duration) {
	if m == nil {
		return
	}
	m.batchRetries.WithLabelValues(reason).Inc()
	m.backoff.Observe(delay.Seconds())
}

func (m *ImportMetrics) ObserveBatch(state string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(state).Inc()
}

// Push sends the collected series to a Prometheus Pushgateway, grouped by run and table.
func (m *ImportMetrics) Push(url, runID, table string) error {
	if m == nil || url == "" {
		return nil
	}
	return push.New(url, constants.MetricsJobName).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		Grouping("table", table).
		Push()
}
