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
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFile writes the header and rows as CSV, creating parent directories as needed.
// Columns missing from a row are written empty.
func WriteFile(path string, header []string, rows []Row) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, column := range header {
			record[i] = row[column]
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}

	w.Flush()
	return errors.Wrap(w.Error(), "failed to flush rows")
}
