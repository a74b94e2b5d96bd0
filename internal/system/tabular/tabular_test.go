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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
)

// ---------------------------------------------------------------------------
// CSV
// ---------------------------------------------------------------------------

func TestParseCSV_PadsAndTruncatesRows(t *testing.T) {
	table, err := ParseCSV([]byte("name,email\nJane\nBob,bob@x.test,extra\n,\nAnn,ann@x.test\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, table.Header)
	assert.Equal(t, []Row{
		{"name": "Jane", "email": ""},
		{"name": "Bob", "email": "bob@x.test"},
		{"name": "Ann", "email": "ann@x.test"},
	}, table.Rows)
	require.Len(t, table.Warnings, 2)
	assert.Equal(t, 2, table.Warnings[0].Row)
	assert.Contains(t, table.Warnings[0].Message, "fewer columns")
	assert.Equal(t, 3, table.Warnings[1].Row)
	assert.Contains(t, table.Warnings[1].Message, "more columns")
}

func TestParseCSV_QuotedFields(t *testing.T) {
	table, err := ParseCSV([]byte("name,phones\n\"Doe, Jane\",\"555-1; 555-2\"\n"))

	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Doe, Jane", table.Rows[0]["name"])
	assert.Equal(t, "555-1; 555-2", table.Rows[0]["phones"])
}

func TestParseCSV_TrimsHeaderCells(t *testing.T) {
	table, err := ParseCSV([]byte(" name , email\nJane,j@x.test\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, table.Header)
	assert.True(t, table.HasColumn("email"))
	assert.False(t, table.HasColumn("phone"))
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(nil)

	assert.ErrorIs(t, err, ErrNoHeader)
}

// ---------------------------------------------------------------------------
// Encodings
// ---------------------------------------------------------------------------

func TestDetectAndDecode(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("name\nJosé\n"))
	require.NoError(t, err)

	tests := []struct {
		name         string
		input        []byte
		wantText     string
		wantEncoding string
	}{
		{"plain utf-8", []byte("name\nJosé\n"), "name\nJosé\n", "utf-8"},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "name\n"...), "name\n", "utf-8-bom"},
		{"utf-16 little endian", utf16, "name\nJosé\n", "utf-16le"},
		{"latin-1 fallback", []byte("name\nJos\xe9\n"), "name\nJosé\n", "latin-1"},
		{"empty", []byte{}, "", "utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, encoding, err := DetectAndDecode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, string(decoded))
			assert.Equal(t, tt.wantEncoding, encoding)
		})
	}
}

func TestParseCSV_DecodesBeforeParsing(t *testing.T) {
	table, err := ParseCSV([]byte("name,agency\nJos\xe9,Caf\xe9 Realty\n"))

	require.NoError(t, err)
	assert.Equal(t, "José", table.Rows[0]["name"])
	assert.Equal(t, "Café Realty", table.Rows[0]["agency"])
}

// ---------------------------------------------------------------------------
// XLSX
// ---------------------------------------------------------------------------

func TestParseXLSX_FirstNonEmptyRowIsHeader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"name", "email", "phone"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Jane", "jane@x.test"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"Bob", "bob@x.test", "555-1234"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := ParseXLSX(buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email", "phone"}, table.Header)
	assert.Equal(t, []Row{
		{"name": "Jane", "email": "jane@x.test", "phone": ""},
		{"name": "Bob", "email": "bob@x.test", "phone": "555-1234"},
	}, table.Rows)
	assert.Empty(t, table.Warnings)
}

func TestParseXLSX_EmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ParseXLSX(buf.Bytes())

	assert.ErrorIs(t, err, ErrNoHeader)
}

// ---------------------------------------------------------------------------
// Reader
// ---------------------------------------------------------------------------

func TestParse_SniffsContent(t *testing.T) {
	table, err := Parse([]byte("name,email\nJane,j@x.test\n"), ".dat")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	_, err = Parse(png, ".csv")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.XLSX", "c.txt", "d.json", ".e.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	files, err := ListFiles(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.XLSX"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.txt"),
	}, files)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("agents.csv"))
	assert.True(t, IsSupported("agents.Xlsx"))
	assert.True(t, IsSupported("agents.txt"))
	assert.False(t, IsSupported("agents.xls"))
	assert.False(t, IsSupported("agents"))
}

// ---------------------------------------------------------------------------
// Writer
// ---------------------------------------------------------------------------

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	rows := []Row{
		{"name": "Doe, Jane", "email": `"quoted"`},
		{"name": "Bob"},
	}

	require.NoError(t, WriteFile(path, []string{"name", "email"}, rows))

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, table.Header)
	assert.Equal(t, []Row{
		{"name": "Doe, Jane", "email": `"quoted"`},
		{"name": "Bob", "email": ""},
	}, table.Rows)
}

func TestRowGet(t *testing.T) {
	row := Row{"a": "  ", "b": " value ", "c": "other"}

	assert.Equal(t, "value", row.Get("missing", "a", "b", "c"))
	assert.Equal(t, "", row.Get("missing"))
}
