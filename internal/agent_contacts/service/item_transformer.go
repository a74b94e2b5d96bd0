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
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/store"
	"github.com/dealdocs/agent-contact-import/internal/system/errors"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
)

// ContactToItem converts a record into the store's item format. Empty sets and an empty
// metaData document are omitted from the item.
func ContactToItem(contact *model.AgentContact) (store.Item, error) {

	logger := log.GetLogger()
	if contact == nil || strings.TrimSpace(contact.ID) == "" || strings.TrimSpace(contact.Name) == "" {
		return nil, errors.NewClientErrorWithoutCode(errors.WithDescription(errors.INVALID_RECORD,
			"A record needs both an id and a name."))
	}

	metaData, err := MarshalMetaData(contact.MetaData)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to encode metaData for record: %s", contact.ID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.MARSHAL_JSON, err)
	}

	record := model.AgentContactItem{
		ID:             contact.ID,
		Name:           contact.Name,
		AgencyName:     contact.AgencyName,
		ProfileURL:     contact.ProfileURL,
		PhoneNumbers:   nilIfEmpty(contact.PhoneNumbers),
		EmailAddresses: nilIfEmpty(contact.EmailAddresses),
		Source:         string(contact.Source),
		MetaData:       metaData,
		ImportDate:     formatTimestamp(contact.ImportDate),
		CreatedAt:      formatTimestamp(contact.CreatedAt),
		UpdatedAt:      formatTimestamp(contact.UpdatedAt),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to convert record %s to a store item", contact.ID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.MARSHAL_ITEM, err)
	}
	return item, nil
}

// ItemToContact reads a stored item back. It is the inverse of ContactToItem.
func ItemToContact(item store.Item) (*model.AgentContact, error) {

	var record model.AgentContactItem
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, errors.NewServerError(errors.MARSHAL_ITEM, err)
	}
	return &model.AgentContact{
		ID:             record.ID,
		Name:           record.Name,
		AgencyName:     record.AgencyName,
		ProfileURL:     record.ProfileURL,
		PhoneNumbers:   record.PhoneNumbers,
		EmailAddresses: record.EmailAddresses,
		Source:         model.Source(record.Source),
		MetaData:       UnmarshalMetaData(record.MetaData),
		ImportDate:     parseTimestamp(record.ImportDate),
		CreatedAt:      parseTimestamp(record.CreatedAt),
		UpdatedAt:      parseTimestamp(record.UpdatedAt),
	}, nil
}

// nilIfEmpty drops empty sets, which attributevalue would otherwise write as an empty list.
func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
