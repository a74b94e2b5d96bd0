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
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectAndDecode strips any byte order mark, converts the input to UTF-8 and
// returns the name of the detected encoding. Input that is neither marked nor
// valid UTF-8 is treated as ISO-8859-1, which is what spreadsheet exports fall back to.
func DetectAndDecode(data []byte) ([]byte, string, error) {
	switch {
	case len(data) == 0:
		return data, "utf-8", nil
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "utf-8-bom", nil
	case bytes.HasPrefix(data, bomUTF16LE):
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		return decoded, "utf-16le", err
	case bytes.HasPrefix(data, bomUTF16BE):
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		return decoded, "utf-16be", err
	case utf8.Valid(data):
		return data, "utf-8", nil
	default:
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		return decoded, "latin-1", err
	}
}
