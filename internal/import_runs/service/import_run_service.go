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
	"fmt"
	"time"

	"github.com/dealdocs/agent-contact-import/internal/import_runs/model"
	"github.com/dealdocs/agent-contact-import/internal/import_runs/store"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	"github.com/dealdocs/agent-contact-import/internal/system/database/lock"
	"github.com/dealdocs/agent-contact-import/internal/system/errors"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
)

// ImportRunServiceInterface records imports in the ledger and keeps two imports from
// writing to the same table at once.
type ImportRunServiceInterface interface {
	AcquireTableLock(ctx context.Context, tableName string) error
	ReleaseTableLock(tableName string)
	StartRun(run model.ImportRun) error
	FinishRun(runID string, outcome model.RunOutcome) error
	GetRun(runID string) (*model.ImportRun, error)
	ListRuns(tableName string, limit int) ([]model.ImportRun, error)
}

// ImportRunService is the Postgres backed implementation of ImportRunServiceInterface.
type ImportRunService struct {
	lock lock.DistributedLock
	now  func() time.Time
}

// GetImportRunService creates a new instance of ImportRunService.
func GetImportRunService() ImportRunServiceInterface {

	return &ImportRunService{
		lock: lock.NewPostgresLock(),
		now:  time.Now,
	}
}

// AcquireTableLock takes the table's import lock or fails with IMPORT_IN_PROGRESS.
func (s *ImportRunService) AcquireTableLock(ctx context.Context, tableName string) error {

	acquired, err := s.lock.Acquire(ctx, lockKey(tableName))
	if err != nil {
		return err
	}
	if !acquired {
		return errors.NewClientError(errors.WithDescription(errors.IMPORT_IN_PROGRESS,
			fmt.Sprintf("Another import into table %s holds the lock.", tableName)), constants.ExitCodeError)
	}
	return nil
}

func (s *ImportRunService) ReleaseTableLock(tableName string) {

	if err := s.lock.Release(lockKey(tableName)); err != nil {
		log.GetLogger().Warn(fmt.Sprintf("Failed to release the import lock of table: %s", tableName),
			log.Error(err))
	}
}

// StartRun records a new run with status running.
func (s *ImportRunService) StartRun(run model.ImportRun) error {

	run.Status = constants.RunStatusRunning
	if run.StartedAt.IsZero() {
		run.StartedAt = s.now()
	}
	return store.AddImportRun(run)
}

// FinishRun stores the final counts of a run.
func (s *ImportRunService) FinishRun(runID string, outcome model.RunOutcome) error {

	return store.CompleteImportRun(runID, outcome, s.now())
}

func (s *ImportRunService) GetRun(runID string) (*model.ImportRun, error) {

	return store.GetImportRun(runID)
}

// ListRuns fetches the latest runs against a table, newest first.
func (s *ImportRunService) ListRuns(tableName string, limit int) ([]model.ImportRun, error) {

	if limit <= 0 {
		limit = 10
	}
	return store.ListImportRuns(tableName, limit)
}

func lockKey(tableName string) string {
	return constants.ImportLockKeyPrefix + tableName
}

// NoopImportRunService is used when no ledger database is configured. Imports are neither
// recorded nor serialized.
type NoopImportRunService struct{}

func (NoopImportRunService) AcquireTableLock(context.Context, string) error { return nil }

func (NoopImportRunService) ReleaseTableLock(string) {}

func (NoopImportRunService) StartRun(model.ImportRun) error { return nil }

func (NoopImportRunService) FinishRun(string, model.RunOutcome) error { return nil }

func (NoopImportRunService) GetRun(string) (*model.ImportRun, error) { return nil, nil }

func (NoopImportRunService) ListRuns(string, int) ([]model.ImportRun, error) { return nil, nil }
