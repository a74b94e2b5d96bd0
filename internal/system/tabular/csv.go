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
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("empty file: no header row found")

// ParseCSV parses delimited text into a Table. Mismatched column counts are padded or
// truncated and reported as warnings; rows the reader cannot parse are skipped with a warning.
func ParseCSV(data []byte) (*Table, error) {
	decoded, _, err := DetectAndDecode(data)
	if err != nil {
		return nil, errors.Wrap(err, "encoding detection failed")
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, errors.Wrap(err, "failed to read header row")
	}
	header = cleanHeader(header)

	table := &Table{Header: header}
	rowNum := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			table.Warnings = append(table.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}

		rows, warnings := buildRows(header, [][]string{record}, rowNum, true)
		table.Rows = append(table.Rows, rows...)
		table.Warnings = append(table.Warnings, warnings...)
	}

	return table, nil
}
