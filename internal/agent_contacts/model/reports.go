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

// NormalizeReport counts what the normalizer did with one input.
type NormalizeReport struct {
	Rows    int `json:"rows"`
	Records int `json:"records"`
	Dropped int `json:"dropped"`
}

// RepairReport counts identifier repairs. It is informational only.
type RepairReport struct {
	Rows           int `json:"rows"`
	Missing        int `json:"missing"`
	Regenerated    int `json:"regenerated"`
	QuotesStripped int `json:"quotesStripped"`
}

// DedupReport counts how many input records collapsed into how many unique ones.
type DedupReport struct {
	Input  int `json:"input"`
	Unique int `json:"unique"`
	Merged int `json:"merged"`
}

// WriteSummary is the outcome of a bulk write run.
type WriteSummary struct {
	Total         int `json:"total"`
	Succeeded     int `json:"succeeded"`
	Failed        int `json:"failed"`
	Skipped       int `json:"skipped"`
	Batches       int `json:"batches"`
	FailedBatches int `json:"failedBatches"`
}
