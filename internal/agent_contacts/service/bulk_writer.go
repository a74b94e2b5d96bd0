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
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/store"
	"github.com/dealdocs/agent-contact-import/internal/system/config"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
	"github.com/dealdocs/agent-contact-import/internal/system/metrics"
)

// BatchState is the lifecycle position of one batch.
type BatchState string

const (
	BatchPending           BatchState = "pending"
	BatchSubmitted         BatchState = "submitted"
	BatchAccepted          BatchState = "accepted"
	BatchPartiallyRejected BatchState = "partially_rejected"
	BatchThrottled         BatchState = "throttled"
	BatchFailedPermanently BatchState = "failed_permanently"
)

// ErrRetriesExhausted is reported for a batch whose items were still pending after the
// configured number of resubmissions.
var ErrRetriesExhausted = errors.New("batch retries exhausted")

// WriterOptions tunes batching and backoff.
type WriterOptions struct {
	BatchSize             int
	BaseDelay             time.Duration
	MaxDelay              time.Duration
	MaxThrottleRetries    int
	MaxUnprocessedRetries int
}

func WriterOptionsFromConfig(cfg config.WriterConfig) WriterOptions {
	return WriterOptions{
		BatchSize:             cfg.BatchSize,
		BaseDelay:             cfg.BaseDelay,
		MaxDelay:              cfg.MaxDelay,
		MaxThrottleRetries:    cfg.MaxThrottleRetries,
		MaxUnprocessedRetries: cfg.MaxUnprocessedRetries,
	}
}

func (o WriterOptions) normalized() WriterOptions {
	if o.BatchSize <= 0 || o.BatchSize > constants.MaxBatchWriteItems {
		o.BatchSize = constants.MaxBatchWriteItems
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = constants.DefaultBaseDelay
	}
	if o.MaxDelay < o.BaseDelay {
		o.MaxDelay = o.BaseDelay
	}
	if o.MaxThrottleRetries < 0 {
		o.MaxThrottleRetries = 0
	}
	if o.MaxUnprocessedRetries < 0 {
		o.MaxUnprocessedRetries = 0
	}
	return o
}

// newBackOff returns a deterministic doubling sequence starting at BaseDelay and capped at
// MaxDelay. It never stops on its own; the retry limits bound it.
func (o WriterOptions) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.BaseDelay
	b.MaxInterval = o.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// ProgressFunc is called after every batch with the running totals.
type ProgressFunc func(batch, batches int, summary model.WriteSummary)

// BulkWriter writes items in fixed-size batches, resubmitting throttled batches and
// unprocessed items with exponential backoff.
type BulkWriter struct {
	store      store.AgentContactStoreInterface
	opts       WriterOptions
	metrics    *metrics.ImportMetrics
	progress   ProgressFunc
	sleep      func(ctx context.Context, d time.Duration) error
	newBackOff func() backoff.BackOff
}

func NewBulkWriter(s store.AgentContactStoreInterface, opts WriterOptions, importMetrics *metrics.ImportMetrics) *BulkWriter {

	opts = opts.normalized()
	return &BulkWriter{
		store:      s,
		opts:       opts,
		metrics:    importMetrics,
		sleep:      sleepContext,
		newBackOff: opts.newBackOff,
	}
}

// WithProgress registers a progress callback.
func (w *BulkWriter) WithProgress(fn ProgressFunc) *BulkWriter {
	w.progress = fn
	return w
}

// batchAttempt tracks the retry state of the batch being written.
type batchAttempt struct {
	number             int
	pending            []store.Item
	state              BatchState
	throttleRetries    int
	unprocessedRetries int
	backOff            backoff.BackOff
}

type batchResult struct {
	state     BatchState
	succeeded int
	failed    int
	skipped   int
	err       error
}

// Write sends all items to the table. A batch that fails permanently is counted and the
// run continues with the next batch. The returned error is only set when ctx ends the run;
// the summary then counts unwritten items as skipped.
func (w *BulkWriter) Write(ctx context.Context, table string, items []store.Item) (model.WriteSummary, error) {

	logger := log.GetLogger().With(log.String("table", table))
	summary := model.WriteSummary{Total: len(items)}
	batches := partition(items, w.opts.BatchSize)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			remaining := 0
			for _, rest := range batches[i:] {
				remaining += len(rest)
			}
			summary.Skipped += remaining
			w.metrics.ObserveItems(metrics.ResultSkipped, remaining)
			logger.Warn(fmt.Sprintf("Write cancelled before batch %d/%d", i+1, len(batches)),
				log.Int("skipped", remaining))
			return summary, err
		}

		result := w.writeBatch(ctx, table, i+1, batch)
		summary.Batches++
		summary.Succeeded += result.succeeded
		summary.Failed += result.failed
		summary.Skipped += result.skipped
		w.metrics.ObserveItems(metrics.ResultSucceeded, result.succeeded)
		w.metrics.ObserveItems(metrics.ResultFailed, result.failed)
		w.metrics.ObserveItems(metrics.ResultSkipped, result.skipped)
		w.metrics.ObserveBatch(string(result.state))

		if result.state == BatchFailedPermanently {
			summary.FailedBatches++
			logger.Error(fmt.Sprintf("Batch %d/%d failed permanently", i+1, len(batches)),
				log.Int("failed", result.failed), log.Error(result.err))
		}

		if w.progress != nil {
			w.progress(i+1, len(batches), summary)
		}
		logger.Info(fmt.Sprintf("Batch %d/%d done: %d written, %d failed so far",
			i+1, len(batches), summary.Succeeded, summary.Failed))

		if result.skipped > 0 {
			for _, rest := range batches[i+1:] {
				summary.Skipped += len(rest)
				w.metrics.ObserveItems(metrics.ResultSkipped, len(rest))
			}
			return summary, result.err
		}
	}
	return summary, nil
}

func (w *BulkWriter) writeBatch(ctx context.Context, table string, number int, items []store.Item) batchResult {

	logger := log.GetLogger().With(log.String("table", table), log.Int("batch", number))
	attempt := &batchAttempt{
		number:  number,
		pending: items,
		state:   BatchPending,
		backOff: w.newBackOff(),
	}
	var result batchResult

	for {
		attempt.state = BatchSubmitted
		unprocessed, err := w.store.BatchPut(ctx, table, attempt.pending)

		var reason string
		switch {
		case err == nil && len(unprocessed) == 0:
			result.succeeded += len(attempt.pending)
			result.state = BatchAccepted
			return result

		case err == nil:
			attempt.state = BatchPartiallyRejected
			if len(unprocessed) > len(attempt.pending) {
				unprocessed = unprocessed[:len(attempt.pending)]
			}
			result.succeeded += len(attempt.pending) - len(unprocessed)
			attempt.pending = unprocessed
			if attempt.unprocessedRetries >= w.opts.MaxUnprocessedRetries {
				return w.failBatch(result, attempt, fmt.Errorf("%w: %d items left unprocessed",
					ErrRetriesExhausted, len(attempt.pending)))
			}
			attempt.unprocessedRetries++
			reason = metrics.ReasonUnprocessed

		case ctx.Err() != nil:
			result.skipped += len(attempt.pending)
			result.state = attempt.state
			result.err = ctx.Err()
			return result

		case store.IsCapacityExceeded(err):
			attempt.state = BatchThrottled
			if attempt.throttleRetries >= w.opts.MaxThrottleRetries {
				return w.failBatch(result, attempt, fmt.Errorf("%w: %w", ErrRetriesExhausted, err))
			}
			attempt.throttleRetries++
			reason = metrics.ReasonThrottled

		default:
			return w.failBatch(result, attempt, err)
		}

		delay := attempt.backOff.NextBackOff()
		if delay == backoff.Stop {
			delay = w.opts.MaxDelay
		}
		w.metrics.ObserveRetry(reason, delay)
		logger.Debug(fmt.Sprintf("Resubmitting %d items after %s", len(attempt.pending), delay),
			log.String("reason", reason), log.String("state", string(attempt.state)))

		if err := w.sleep(ctx, delay); err != nil {
			result.skipped += len(attempt.pending)
			result.state = attempt.state
			result.err = err
			return result
		}
	}
}

func (w *BulkWriter) failBatch(result batchResult, attempt *batchAttempt, err error) batchResult {
	attempt.state = BatchFailedPermanently
	result.failed += len(attempt.pending)
	result.state = BatchFailedPermanently
	result.err = err
	return result
}

// partition splits items into consecutive chunks of at most size items.
func partition(items []store.Item, size int) [][]store.Item {
	var batches [][]store.Item
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
