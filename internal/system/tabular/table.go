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

package tabular

import (
	"strings"
)

// Row is one data row keyed by header cell.
type Row map[string]string

// Get returns the trimmed value of the first key that holds a non-blank value.
func (r Row) Get(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(r[key]); v != "" {
			return v
		}
	}
	return ""
}

// ParseWarning represents a non-fatal issue encountered during parsing.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Table is a parsed tabular file: the header in file order and one Row per data line.
type Table struct {
	Header   []string       `json:"header"`
	Rows     []Row          `json:"rows"`
	Warnings []ParseWarning `json:"warnings"`
}

// HasColumn reports whether the header contains the column.
func (t *Table) HasColumn(column string) bool {
	for _, h := range t.Header {
		if h == column {
			return true
		}
	}
	return false
}

// buildRows turns raw records into rows, padding short records and truncating long ones.
// firstRow is the 1-indexed line number of records[0].
func buildRows(header []string, records [][]string, firstRow int, warn bool) ([]Row, []ParseWarning) {
	var warnings []ParseWarning
	rows := make([]Row, 0, len(records))
	headerCount := len(header)

	for i, record := range records {
		rowNum := firstRow + i
		if len(record) != headerCount {
			if len(record) < headerCount {
				if warn {
					warnings = append(warnings, ParseWarning{
						Row:     rowNum,
						Message: "row has fewer columns than the header; padding with empty values",
					})
				}
				padded := make([]string, headerCount)
				copy(padded, record)
				record = padded
			} else {
				if warn {
					warnings = append(warnings, ParseWarning{
						Row:     rowNum,
						Message: "row has more columns than the header; truncating extra columns",
					})
				}
				record = record[:headerCount]
			}
		}

		if isBlank(record) {
			continue
		}

		row := make(Row, headerCount)
		for j, h := range header {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}
	return rows, warnings
}

func cleanHeader(header []string) []string {
	cleaned := make([]string, len(header))
	for i, h := range header {
		cleaned[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return cleaned
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
