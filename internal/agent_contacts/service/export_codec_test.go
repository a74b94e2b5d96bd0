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

package service

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	"github.com/dealdocs/agent-contact-import/internal/system/tabular"
)

func TestContactToRow(t *testing.T) {
	c := newContact("id-1", "Jane", "Acme", []string{"555-1", "555-2"}, []string{"j@a.test"}, `{"k":"v"}`)

	row, err := ContactToRow(c)

	require.NoError(t, err)
	assert.Equal(t, tabular.Row{
		"id":             "id-1",
		"name":           "Jane",
		"agencyName":     "Acme",
		"profileUrl":     "https://agents.test/id-1",
		"phoneNumbers":   "555-1; 555-2",
		"emailAddresses": "j@a.test",
		"source":         "zillow",
		"metaData":       `{"k":"v"}`,
	}, row)
}

func TestRowToContact_SplitsSetsAndDropsBlanks(t *testing.T) {
	row := tabular.Row{
		"id":             " id-9 ",
		"name":           "Jane",
		"phoneNumbers":   "555-1;  ; 555-2;555-1",
		"emailAddresses": "a@x.test; b@x.test",
		"source":         "homes.com",
		"metaData":       `[{"a":1},{"b":2}]`,
	}

	c := RowToContact(row, fixedNow)

	assert.Equal(t, "id-9", c.ID)
	assert.Equal(t, []string{"555-1", "555-2"}, c.PhoneNumbers)
	assert.Equal(t, []string{"a@x.test", "b@x.test"}, c.EmailAddresses)
	assert.Equal(t, model.SourceHomes, c.Source)
	assert.Len(t, c.MetaData, 2)
	assert.Equal(t, fixedNow, c.UpdatedAt)
}

func TestMarshalMetaData(t *testing.T) {
	tests := []struct {
		name string
		in   []json.RawMessage
		want string
	}{
		{"none", nil, ""},
		{"single row is kept as is", []json.RawMessage{json.RawMessage(`{"a":1}`)}, `{"a":1}`},
		{"several rows become an array", []json.RawMessage{json.RawMessage(`{"a":1}`), json.RawMessage(`{"b":2}`)},
			`[{"a":1},{"b":2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalMetaData(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshalMetaData(t *testing.T) {
	assert.Nil(t, UnmarshalMetaData("  "))
	assert.Equal(t, []json.RawMessage{json.RawMessage(`{"a":1}`)}, UnmarshalMetaData(`{"a":1}`))
	assert.Len(t, UnmarshalMetaData(`[{"a":1},{"b":2}]`), 2)
	assert.Equal(t, []json.RawMessage{json.RawMessage(`"not json"`)}, UnmarshalMetaData("not json"))
}

func TestWriteExport_ReadExport_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "agents.csv")
	in := []*model.AgentContact{
		newContact("1", "Jane, Jr.", "Acme \"Best\"", []string{"555-1"}, []string{"j@a.test", "k@a.test"}, `{"row":"1"}`),
		newContact("2", "Bob", "", nil, []string{"b@a.test"}, ""),
	}
	in[0].MetaData = append(in[0].MetaData, json.RawMessage(`{"row":"2"}`))

	require.NoError(t, WriteExport(path, in))
	table, err := tabular.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, constants.ExportColumns, table.Header)

	out, err := ReadExport(path, fixedNow)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Name, out[i].Name)
		assert.Equal(t, in[i].AgencyName, out[i].AgencyName)
		assert.Equal(t, in[i].ProfileURL, out[i].ProfileURL)
		assert.Equal(t, in[i].PhoneNumbers, out[i].PhoneNumbers)
		assert.Equal(t, in[i].EmailAddresses, out[i].EmailAddresses)
		assert.Equal(t, in[i].Source, out[i].Source)
		assert.Equal(t, in[i].MetaData, out[i].MetaData)
	}
}
