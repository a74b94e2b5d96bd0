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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrUnsupportedFile is returned for content that is neither text nor a workbook.
var ErrUnsupportedFile = errors.New("unsupported file type")

var textExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

// ReadFile reads a CSV or XLSX file. The format is decided from the content, not the name.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes file content. ext is only consulted when sniffing is inconclusive.
func Parse(data []byte, ext string) (*Table, error) {
	detected := mimetype.Detect(data)
	if detected.Is(xlsxMIME) {
		return ParseXLSX(data)
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return ParseCSV(data)
		}
	}
	if detected.Is("application/octet-stream") && textExtensions[strings.ToLower(ext)] {
		return ParseCSV(data)
	}
	return nil, errors.Wrapf(ErrUnsupportedFile, "detected %s", detected.String())
}

// IsSupported reports whether a file name looks like a tabular input.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return textExtensions[ext] || ext == ".xlsx"
}

// ListFiles returns the supported files directly inside dir, sorted by name.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !IsSupported(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
