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
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	"github.com/dealdocs/agent-contact-import/internal/system/tabular"
)

// WriteExport writes records to path in the export layout.
func WriteExport(path string, contacts []*model.AgentContact) error {
	rows := make([]tabular.Row, 0, len(contacts))
	for _, contact := range contacts {
		row, err := ContactToRow(contact)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return tabular.WriteFile(path, constants.ExportColumns, rows)
}

// ReadExport reads records back from an export file.
func ReadExport(path string, now time.Time) ([]*model.AgentContact, error) {
	table, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}
	contacts := make([]*model.AgentContact, 0, len(table.Rows))
	for _, row := range table.Rows {
		contacts = append(contacts, RowToContact(row, now))
	}
	return contacts, nil
}

// ContactToRow renders a record in the export layout.
func ContactToRow(contact *model.AgentContact) (tabular.Row, error) {
	metaData, err := MarshalMetaData(contact.MetaData)
	if err != nil {
		return nil, err
	}
	return tabular.Row{
		constants.ColumnID:             contact.ID,
		constants.ColumnName:           contact.Name,
		constants.ColumnAgencyName:     contact.AgencyName,
		constants.ColumnProfileURL:     contact.ProfileURL,
		constants.ColumnPhoneNumbers:   strings.Join(contact.PhoneNumbers, constants.ExportSetSeparator),
		constants.ColumnEmailAddresses: strings.Join(contact.EmailAddresses, constants.ExportSetSeparator),
		constants.ColumnSource:         string(contact.Source),
		constants.ColumnMetaData:       metaData,
	}, nil
}

// RowToContact reads a record back from an export row. Timestamps are set to now since
// the export layout does not carry them.
func RowToContact(row tabular.Row, now time.Time) *model.AgentContact {
	contact := &model.AgentContact{
		ID:         strings.TrimSpace(row[constants.ColumnID]),
		Name:       strings.TrimSpace(row[constants.ColumnName]),
		AgencyName: strings.TrimSpace(row[constants.ColumnAgencyName]),
		ProfileURL: strings.TrimSpace(row[constants.ColumnProfileURL]),
		Source:     model.Source(strings.TrimSpace(row[constants.ColumnSource])),
		MetaData:   UnmarshalMetaData(row[constants.ColumnMetaData]),
		ImportDate: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	contact.AddPhoneNumbers(strings.Split(row[constants.ColumnPhoneNumbers], ";")...)
	contact.AddEmailAddresses(strings.Split(row[constants.ColumnEmailAddresses], ";")...)
	return contact
}

// MarshalMetaData encodes the contributing source rows. A single row is written as its own
// JSON document, several rows as a JSON array in contribution order.
func MarshalMetaData(metaData []json.RawMessage) (string, error) {
	switch len(metaData) {
	case 0:
		return "", nil
	case 1:
		return string(metaData[0]), nil
	default:
		encoded, err := json.Marshal(metaData)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// UnmarshalMetaData is the inverse of MarshalMetaData. Text that is not JSON is kept as a
// JSON string so nothing from a hand-edited file is lost.
func UnmarshalMetaData(value string) []json.RawMessage {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	raw := []byte(value)
	if bytes.HasPrefix(raw, []byte("[")) {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err == nil {
			return list
		}
	}
	if json.Valid(raw) {
		return []json.RawMessage{json.RawMessage(raw)}
	}

	quoted, _ := json.Marshal(value)
	return []json.RawMessage{quoted}
}
