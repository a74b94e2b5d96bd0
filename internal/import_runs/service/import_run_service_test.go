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
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdocs/agent-contact-import/internal/import_runs/model"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	"github.com/dealdocs/agent-contact-import/internal/system/errors"
)

type fakeLock struct {
	held       map[string]bool
	acquireErr error
	releaseErr error
	released   []string
}

func (f *fakeLock) Acquire(_ context.Context, key string) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}
	if f.held[key] {
		return false, nil
	}
	if f.held == nil {
		f.held = map[string]bool{}
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLock) Release(key string) error {
	f.released = append(f.released, key)
	delete(f.held, key)
	return f.releaseErr
}

func newTestService(l *fakeLock) *ImportRunService {
	return &ImportRunService{lock: l, now: time.Now}
}

// ---------------------------------------------------------------------------
// Table lock
// ---------------------------------------------------------------------------

func TestAcquireTableLock_PerTable(t *testing.T) {
	l := &fakeLock{}
	svc := newTestService(l)

	require.NoError(t, svc.AcquireTableLock(context.Background(), "agents"))
	require.NoError(t, svc.AcquireTableLock(context.Background(), "agents_staging"))
	assert.True(t, l.held[constants.ImportLockKeyPrefix+"agents"])
	assert.True(t, l.held[constants.ImportLockKeyPrefix+"agents_staging"])
}

func TestAcquireTableLock_HeldLockIsClientError(t *testing.T) {
	l := &fakeLock{held: map[string]bool{constants.ImportLockKeyPrefix + "agents": true}}
	svc := newTestService(l)

	err := svc.AcquireTableLock(context.Background(), "agents")

	var clientErr *errors.ClientError
	require.True(t, stderrors.As(err, &clientErr))
	assert.Equal(t, errors.IMPORT_IN_PROGRESS.Code, clientErr.Code)
	assert.Equal(t, constants.ExitCodeError, clientErr.ExitCode)
	assert.Contains(t, clientErr.Description, "agents")
}

func TestAcquireTableLock_LockFailureIsPassedThrough(t *testing.T) {
	cause := errors.NewServerError(errors.LOCK_ACQUIRE, stderrors.New("connection refused"))
	svc := newTestService(&fakeLock{acquireErr: cause})

	err := svc.AcquireTableLock(context.Background(), "agents")

	assert.Same(t, cause, err)
}

func TestReleaseTableLock(t *testing.T) {
	l := &fakeLock{}
	svc := newTestService(l)
	require.NoError(t, svc.AcquireTableLock(context.Background(), "agents"))

	svc.ReleaseTableLock("agents")

	assert.Equal(t, []string{constants.ImportLockKeyPrefix + "agents"}, l.released)
	require.NoError(t, svc.AcquireTableLock(context.Background(), "agents"), "released lock can be taken again")
}

func TestReleaseTableLock_FailureIsOnlyLogged(t *testing.T) {
	svc := newTestService(&fakeLock{releaseErr: stderrors.New("gone")})

	assert.NotPanics(t, func() { svc.ReleaseTableLock("agents") })
}

// ---------------------------------------------------------------------------
// Noop service
// ---------------------------------------------------------------------------

func TestNoopImportRunService(t *testing.T) {
	var svc ImportRunServiceInterface = NoopImportRunService{}

	require.NoError(t, svc.AcquireTableLock(context.Background(), "agents"))
	require.NoError(t, svc.AcquireTableLock(context.Background(), "agents"), "noop lock never blocks")
	svc.ReleaseTableLock("agents")
	require.NoError(t, svc.StartRun(model.ImportRun{RunID: "r1"}))
	require.NoError(t, svc.FinishRun("r1", model.RunOutcome{Status: constants.RunStatusCompleted}))

	run, err := svc.GetRun("r1")
	require.NoError(t, err)
	assert.Nil(t, run)
	runs, err := svc.ListRuns("agents", 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
