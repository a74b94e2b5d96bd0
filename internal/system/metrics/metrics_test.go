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
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMetrics_Counters(t *testing.T) {
	m := NewImportMetrics()

	m.ObserveItems(ResultSucceeded, 40)
	m.ObserveItems(ResultFailed, 3)
	m.ObserveItems(ResultSkipped, 0)
	m.ObserveRetry(ReasonThrottled, 100*time.Millisecond)
	m.ObserveRetry(ReasonUnprocessed, 200*time.Millisecond)
	m.ObserveBatch("accepted")
	m.ObserveBatch("accepted")

	assert.Equal(t, 40.0, testutil.ToFloat64(m.itemsWritten.WithLabelValues(ResultSucceeded)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.itemsWritten.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batchRetries.WithLabelValues(ReasonThrottled)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.batches.WithLabelValues("accepted")))

	count, err := testutil.GatherAndCount(m.Registry(), "agentctl_items_written_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "zero observations do not create a series")

	expected := `
# HELP agentctl_batch_retries_total Batch resubmissions broken down by reason.
# TYPE agentctl_batch_retries_total counter
agentctl_batch_retries_total{reason="throttled"} 1
agentctl_batch_retries_total{reason="unprocessed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"agentctl_batch_retries_total"))
}

func TestImportMetrics_NilReceiver(t *testing.T) {
	var m *ImportMetrics

	assert.NotPanics(t, func() {
		m.ObserveItems(ResultSucceeded, 1)
		m.ObserveRetry(ReasonThrottled, time.Second)
		m.ObserveBatch("accepted")
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.Push("http://localhost:9091", "run", "agents"))
}

func TestImportMetrics_PushGroupsByRunAndTable(t *testing.T) {
	var method, path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		body = buf.String()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewImportMetrics()
	m.ObserveItems(ResultSucceeded, 5)

	require.NoError(t, m.Push(server.URL, "run-1", "agents"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/agentctl_import/run_id/run-1/table/agents", path)
	assert.NotEmpty(t, body)
}

func TestImportMetrics_PushWithoutURLIsSkipped(t *testing.T) {
	assert.NoError(t, NewImportMetrics().Push("", "run-1", "agents"))
}

func TestImportMetrics_PushFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.Error(t, NewImportMetrics().Push(server.URL, "run-1", "agents"))
}
