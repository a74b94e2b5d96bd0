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

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first worksheet of a workbook. The first non-empty row is the header.
// Spreadsheet rows drop trailing empty cells, so short rows are padded without warnings.
func ParseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheets[0])
	}

	headerIdx := -1
	for i, record := range records {
		if !isBlank(record) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrNoHeader
	}

	header := cleanHeader(records[headerIdx])
	rows, _ := buildRows(header, records[headerIdx+1:], headerIdx+2, false)
	return &Table{Header: header, Rows: rows}, nil
}
