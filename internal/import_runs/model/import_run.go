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

package model

import "time"

// ImportRun is one row of the import ledger.
type ImportRun struct {
	RunID          string     `json:"runId"`
	TableName      string     `json:"tableName"`
	SourceFile     string     `json:"sourceFile"`
	TotalItems     int        `json:"totalItems"`
	SucceededItems int        `json:"succeededItems"`
	FailedItems    int        `json:"failedItems"`
	SkippedItems   int        `json:"skippedItems"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
}

// RunOutcome is what a finished import reports back to the ledger.
type RunOutcome struct {
	Succeeded int
	Failed    int
	Skipped   int
	Status    string
}
