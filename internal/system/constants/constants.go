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

package constants

import "time"

// MaxBatchWriteItems is the per-call item limit of the store's batch write API.
const MaxBatchWriteItems = 25

// Writer defaults.
const (
	DefaultBatchSize             = MaxBatchWriteItems
	DefaultBaseDelay             = 100 * time.Millisecond
	DefaultMaxDelay              = 5 * time.Second
	DefaultMaxThrottleRetries    = 5
	DefaultMaxUnprocessedRetries = 8
)

// Export file layout.
const (
	ExportSetSeparator = "; "
	DedupedFileName    = "agents_deduped.csv"
)

// Export columns, in file order.
const (
	ColumnID             = "id"
	ColumnName           = "name"
	ColumnAgencyName     = "agencyName"
	ColumnProfileURL     = "profileUrl"
	ColumnPhoneNumbers   = "phoneNumbers"
	ColumnEmailAddresses = "emailAddresses"
	ColumnSource         = "source"
	ColumnMetaData       = "metaData"
)

var ExportColumns = []string{
	ColumnID,
	ColumnName,
	ColumnAgencyName,
	ColumnProfileURL,
	ColumnPhoneNumbers,
	ColumnEmailAddresses,
	ColumnSource,
	ColumnMetaData,
}

// Import run statuses.
const (
	RunStatusRunning             = "running"
	RunStatusCompleted           = "completed"
	RunStatusCompletedWithErrors = "completed_with_errors"
	RunStatusCancelled           = "cancelled"
)

const (
	DefaultConfigFile   = "config/deployment.yaml"
	EnvFilesPattern     = "config/*.env"
	ImportLockKeyPrefix = "import:"
	MaxParallelParsers  = 4
	MetricsJobName      = "agentctl_import"
	RunIDContextKey     = contextKey("run_id")
)

type contextKey string

// Process exit codes.
const (
	ExitCodeError       = 1
	ExitCodeFailedItems = 2
)
