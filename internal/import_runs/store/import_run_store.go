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

package store

import (
	"fmt"
	"time"

	"github.com/dealdocs/agent-contact-import/internal/import_runs/model"
	"github.com/dealdocs/agent-contact-import/internal/system/database/provider"
	"github.com/dealdocs/agent-contact-import/internal/system/database/scripts"
	"github.com/dealdocs/agent-contact-import/internal/system/errors"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
)

// AddImportRun records the start of an import.
func AddImportRun(run model.ImportRun) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for recording import run: %s", run.RunID)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
		return serverError
	}
	defer dbClient.Close()

	query := scripts.InsertImportRun[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.Execute(query, run.RunID, run.TableName, run.SourceFile, run.TotalItems, run.Status,
		run.StartedAt.UTC())
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while recording import run: %s", run.RunID)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.EXECUTE_QUERY.Code,
			Message:     errors.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
		return serverError
	}

	logger.Debug(fmt.Sprintf("Import run: %s recorded for table: %s", run.RunID, run.TableName))
	return nil
}

// CompleteImportRun stores the final counts and status of an import.
func CompleteImportRun(runID string, outcome model.RunOutcome, finishedAt time.Time) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for completing import run: %s", runID)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
		return serverError
	}
	defer dbClient.Close()

	query := scripts.CompleteImportRun[provider.NewDBProvider().GetDBType()]
	affected, err := dbClient.Execute(query, outcome.Succeeded, outcome.Failed, outcome.Skipped, outcome.Status,
		finishedAt.UTC(), runID)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while completing import run: %s", runID)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.EXECUTE_QUERY.Code,
			Message:     errors.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
		return serverError
	}
	if affected == 0 {
		logger.Warn(fmt.Sprintf("No import run found to complete for run id: %s", runID))
	}
	return nil
}

// GetImportRun fetches one run by id. It returns nil when the run is unknown.
func GetImportRun(runID string) (*model.ImportRun, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching import run: %s", runID)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
		return nil, serverError
	}
	defer dbClient.Close()

	query := scripts.GetImportRun[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, runID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching import run: %s", runID)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.EXECUTE_QUERY.Code,
			Message:     errors.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
		return nil, serverError
	}
	if len(results) == 0 {
		logger.Debug(fmt.Sprintf("No import run found for run_id: %s", runID))
		return nil, nil
	}

	run := mapImportRun(results[0])
	return &run, nil
}

// ListImportRuns returns the latest runs against a table, newest first.
func ListImportRuns(tableName string, limit int) ([]model.ImportRun, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for listing import runs of table: %s", tableName)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
		return nil, serverError
	}
	defer dbClient.Close()

	query := scripts.ListImportRunsForTable[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, tableName, limit)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in listing import runs of table: %s", tableName)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.EXECUTE_QUERY.Code,
			Message:     errors.EXECUTE_QUERY.Message,
			Description: errorMsg,
		}, err)
		return nil, serverError
	}

	runs := make([]model.ImportRun, 0, len(results))
	for _, row := range results {
		runs = append(runs, mapImportRun(row))
	}
	return runs, nil
}

func mapImportRun(row map[string]interface{}) model.ImportRun {
	run := model.ImportRun{
		RunID:          asString(row["run_id"]),
		TableName:      asString(row["table_name"]),
		SourceFile:     asString(row["source_file"]),
		TotalItems:     asInt(row["total_items"]),
		SucceededItems: asInt(row["succeeded_items"]),
		FailedItems:    asInt(row["failed_items"]),
		SkippedItems:   asInt(row["skipped_items"]),
		Status:         asString(row["status"]),
	}
	if startedAt, ok := row["started_at"].(time.Time); ok {
		run.StartedAt = startedAt
	}
	if finishedAt, ok := row["finished_at"].(time.Time); ok {
		run.FinishedAt = &finishedAt
	}
	return run
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func asInt(value interface{}) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
