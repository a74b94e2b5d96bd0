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

package scripts

var InsertImportRun = map[string]string{
	"postgres": `INSERT INTO import_runs (run_id, table_name, source_file, total_items, succeeded_items, 
       failed_items, skipped_items, status, started_at) VALUES ($1, $2, $3, $4, 0, 0, 0, $5, $6)`,
}

var CompleteImportRun = map[string]string{
	"postgres": `UPDATE import_runs SET succeeded_items = $1, failed_items = $2, skipped_items = $3, status = $4, 
       finished_at = $5 WHERE run_id = $6`,
}

var GetImportRun = map[string]string{
	"postgres": `SELECT run_id, table_name, source_file, total_items, succeeded_items, failed_items, skipped_items, 
       status, started_at, finished_at FROM import_runs WHERE run_id = $1`,
}

var ListImportRunsForTable = map[string]string{
	"postgres": `SELECT run_id, table_name, source_file, total_items, succeeded_items, failed_items, skipped_items, 
       status, started_at, finished_at FROM import_runs WHERE table_name = $1 ORDER BY started_at DESC LIMIT $2`,
}
