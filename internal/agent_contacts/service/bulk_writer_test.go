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

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/store"
	"github.com/dealdocs/agent-contact-import/internal/system/metrics"
)

// scripted is the store's answer to one BatchPut call.
type scripted struct {
	unprocessed int
	err         error
}

// fakeStore answers BatchPut calls from a script and accepts everything once it runs out.
type fakeStore struct {
	mu     sync.Mutex
	script []scripted
	calls  [][]store.Item
}

func (f *fakeStore) BatchPut(_ context.Context, _ string, items []store.Item) ([]store.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]store.Item(nil), items...))
	if len(f.script) == 0 {
		return nil, nil
	}
	next := f.script[0]
	f.script = f.script[1:]
	if next.err != nil {
		return nil, next.err
	}
	return items[len(items)-next.unprocessed:], nil
}

func (f *fakeStore) callSizes() []int {
	sizes := make([]int, len(f.calls))
	for i, call := range f.calls {
		sizes[i] = len(call)
	}
	return sizes
}

var errThrottled = fmt.Errorf("%w: slow down", store.ErrCapacityExceeded)

func testItems(n int) []store.Item {
	items := make([]store.Item, n)
	for i := range items {
		items[i] = store.Item{"id": &types.AttributeValueMemberS{Value: fmt.Sprintf("id-%d", i)}}
	}
	return items
}

func testOptions() WriterOptions {
	return WriterOptions{
		BatchSize:             25,
		BaseDelay:             100 * time.Millisecond,
		MaxDelay:              time.Second,
		MaxThrottleRetries:    5,
		MaxUnprocessedRetries: 8,
	}
}

// newTestWriter records the delays instead of sleeping.
func newTestWriter(s store.AgentContactStoreInterface, opts WriterOptions) (*BulkWriter, *[]time.Duration) {
	w := NewBulkWriter(s, opts, metrics.NewImportMetrics())
	delays := &[]time.Duration{}
	w.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
	return w, delays
}

// ---------------------------------------------------------------------------
// Batching
// ---------------------------------------------------------------------------

func TestWrite_BatchesNeverExceedLimit(t *testing.T) {
	s := &fakeStore{}
	opts := testOptions()
	opts.BatchSize = 100
	w, delays := newTestWriter(s, opts)

	summary, err := w.Write(context.Background(), "agents", testItems(60))

	require.NoError(t, err)
	assert.Equal(t, []int{25, 25, 10}, s.callSizes())
	assert.Equal(t, model.WriteSummary{Total: 60, Succeeded: 60, Batches: 3}, summary)
	assert.Empty(t, *delays)
}

func TestWrite_ConfiguredBatchSize(t *testing.T) {
	s := &fakeStore{}
	opts := testOptions()
	opts.BatchSize = 10
	w, _ := newTestWriter(s, opts)

	summary, err := w.Write(context.Background(), "agents", testItems(35))

	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 10, 5}, s.callSizes())
	assert.Equal(t, 35, summary.Succeeded)
}

func TestWrite_NoItems(t *testing.T) {
	s := &fakeStore{}
	w, _ := newTestWriter(s, testOptions())

	summary, err := w.Write(context.Background(), "agents", nil)

	require.NoError(t, err)
	assert.Empty(t, s.calls)
	assert.Equal(t, model.WriteSummary{}, summary)
}

// ---------------------------------------------------------------------------
// Throttling
// ---------------------------------------------------------------------------

func TestWrite_ThrottledTwiceThenAccepted(t *testing.T) {
	s := &fakeStore{script: []scripted{{err: errThrottled}, {err: errThrottled}}}
	w, delays := newTestWriter(s, testOptions())

	summary, err := w.Write(context.Background(), "agents", testItems(25))

	require.NoError(t, err)
	assert.Equal(t, model.WriteSummary{Total: 25, Succeeded: 25, Batches: 1}, summary)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *delays)
	assert.Equal(t, []int{25, 25, 25}, s.callSizes())
	assert.Equal(t, s.calls[0], s.calls[2], "the whole batch is resubmitted")
}

func TestWrite_BackoffDoublesAndIsCapped(t *testing.T) {
	script := make([]scripted, 6)
	for i := range script {
		script[i] = scripted{err: errThrottled}
	}
	s := &fakeStore{script: script}
	opts := testOptions()
	opts.MaxThrottleRetries = 6
	w, delays := newTestWriter(s, opts)

	summary, err := w.Write(context.Background(), "agents", testItems(5))

	require.NoError(t, err)
	assert.Equal(t, 5, summary.Succeeded)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}, *delays)
	for i := 1; i < len(*delays); i++ {
		assert.GreaterOrEqual(t, (*delays)[i], (*delays)[i-1])
		assert.LessOrEqual(t, (*delays)[i], opts.MaxDelay)
	}
}

func TestWrite_ThrottleRetriesExhaustedFailsBatchButRunContinues(t *testing.T) {
	s := &fakeStore{script: []scripted{{err: errThrottled}, {err: errThrottled}, {err: errThrottled}}}
	opts := testOptions()
	opts.MaxThrottleRetries = 2
	w, delays := newTestWriter(s, opts)

	summary, err := w.Write(context.Background(), "agents", testItems(40))

	require.NoError(t, err)
	assert.Equal(t, model.WriteSummary{Total: 40, Succeeded: 15, Failed: 25, Batches: 2, FailedBatches: 1}, summary)
	assert.Len(t, *delays, 2)
	assert.Equal(t, []int{25, 25, 25, 15}, s.callSizes())
}

func TestWrite_StoreThrottlingErrorsAreRecognised(t *testing.T) {
	throttle := &types.ProvisionedThroughputExceededException{}
	s := &fakeStore{script: []scripted{{err: throttle}}}
	w, delays := newTestWriter(s, testOptions())

	summary, err := w.Write(context.Background(), "agents", testItems(3))

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Len(t, *delays, 1)
}

// ---------------------------------------------------------------------------
// Partial rejection
// ---------------------------------------------------------------------------

func TestWrite_ResubmitsOnlyUnprocessedItems(t *testing.T) {
	s := &fakeStore{script: []scripted{{unprocessed: 5}, {unprocessed: 2}}}
	w, delays := newTestWriter(s, testOptions())
	items := testItems(25)

	summary, err := w.Write(context.Background(), "agents", items)

	require.NoError(t, err)
	assert.Equal(t, model.WriteSummary{Total: 25, Succeeded: 25, Batches: 1}, summary)
	assert.Equal(t, []int{25, 5, 2}, s.callSizes())
	assert.Equal(t, items[20:], s.calls[1])
	assert.Equal(t, items[23:], s.calls[2])
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *delays)
}

func TestWrite_UnprocessedRetriesExhausted(t *testing.T) {
	s := &fakeStore{script: []scripted{{unprocessed: 3}, {unprocessed: 2}}}
	opts := testOptions()
	opts.MaxUnprocessedRetries = 1
	w, delays := newTestWriter(s, opts)

	summary, err := w.Write(context.Background(), "agents", testItems(25))

	require.NoError(t, err)
	assert.Equal(t, model.WriteSummary{Total: 25, Succeeded: 23, Failed: 2, Batches: 1, FailedBatches: 1}, summary)
	assert.Len(t, *delays, 1)
}

func TestWrite_PartialRejectionBackoffIsCapped(t *testing.T) {
	script := make([]scripted, 7)
	for i := range script {
		script[i] = scripted{unprocessed: 1}
	}
	s := &fakeStore{script: script}
	opts := testOptions()
	w, delays := newTestWriter(s, opts)

	summary, err := w.Write(context.Background(), "agents", testItems(25))

	require.NoError(t, err)
	assert.Equal(t, model.WriteSummary{Total: 25, Succeeded: 25, Batches: 1}, summary)
	require.Len(t, *delays, 7)
	for i, d := range *delays {
		assert.LessOrEqual(t, d, opts.MaxDelay, "delay %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, d, (*delays)[i-1], "delay %d", i)
		}
	}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond,
		time.Second, time.Second, time.Second,
	}, *delays)
}

func TestWrite_BothRetryKindsShareOneBackoffSequence(t *testing.T) {
	s := &fakeStore{script: []scripted{{unprocessed: 4}, {err: errThrottled}}}
	w, delays := newTestWriter(s, testOptions())

	summary, err := w.Write(context.Background(), "agents", testItems(10))

	require.NoError(t, err)
	assert.Equal(t, 10, summary.Succeeded)
	assert.Equal(t, []int{10, 4, 4}, s.callSizes())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *delays)
}

func TestWrite_BackoffRestartsForEachBatch(t *testing.T) {
	s := &fakeStore{script: []scripted{{err: errThrottled}, {}, {err: errThrottled}}}
	w, delays := newTestWriter(s, testOptions())

	_, err := w.Write(context.Background(), "agents", testItems(30))

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, *delays)
}

// ---------------------------------------------------------------------------
// Other failures
// ---------------------------------------------------------------------------

func TestWrite_OtherErrorsAreNotRetried(t *testing.T) {
	s := &fakeStore{script: []scripted{{err: errors.New("AccessDeniedException")}}}
	w, delays := newTestWriter(s, testOptions())
	var progress []model.WriteSummary
	w.WithProgress(func(batch, batches int, summary model.WriteSummary) {
		progress = append(progress, summary)
	})

	summary, err := w.Write(context.Background(), "agents", testItems(30))

	require.NoError(t, err)
	assert.Equal(t, model.WriteSummary{Total: 30, Succeeded: 5, Failed: 25, Batches: 2, FailedBatches: 1}, summary)
	assert.Empty(t, *delays)
	assert.Equal(t, []int{25, 5}, s.callSizes())
	require.Len(t, progress, 2)
	assert.Equal(t, 0, progress[0].Succeeded)
	assert.Equal(t, 25, progress[0].Failed)
	assert.Equal(t, 5, progress[1].Succeeded)
}

// ---------------------------------------------------------------------------
// Cancellation
// ---------------------------------------------------------------------------

func TestWrite_CancelBetweenBatchesSkipsTheRest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &fakeStore{}
	w, _ := newTestWriter(s, testOptions())
	w.WithProgress(func(batch, batches int, summary model.WriteSummary) {
		cancel()
	})

	summary, err := w.Write(ctx, "agents", testItems(60))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.WriteSummary{Total: 60, Succeeded: 25, Skipped: 35, Batches: 1}, summary)
	assert.Len(t, s.calls, 1)
}

func TestWrite_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &fakeStore{script: []scripted{{unprocessed: 10}}}
	w, _ := newTestWriter(s, testOptions())
	w.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	summary, err := w.Write(ctx, "agents", testItems(50))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.WriteSummary{Total: 50, Succeeded: 15, Skipped: 35, Batches: 1}, summary)
	assert.Equal(t, summary.Total, summary.Succeeded+summary.Failed+summary.Skipped)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

// ---------------------------------------------------------------------------
// Options and metrics
// ---------------------------------------------------------------------------

func TestWriterOptions_Normalized(t *testing.T) {
	opts := WriterOptions{BatchSize: 0, BaseDelay: 0, MaxDelay: 0, MaxThrottleRetries: -1}.normalized()
	assert.Equal(t, 25, opts.BatchSize)
	assert.Equal(t, 100*time.Millisecond, opts.BaseDelay)
	assert.Equal(t, opts.BaseDelay, opts.MaxDelay)
	assert.Equal(t, 0, opts.MaxThrottleRetries)
}

func TestWrite_RecordsMetrics(t *testing.T) {
	s := &fakeStore{script: []scripted{{err: errThrottled}, {unprocessed: 1}}}
	importMetrics := metrics.NewImportMetrics()
	w := NewBulkWriter(s, testOptions(), importMetrics)
	w.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := w.Write(context.Background(), "agents", testItems(4))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(importMetrics.Registry(), "agentctl_batch_retries_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per retry reason")
}
