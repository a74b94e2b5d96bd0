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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
)

// Deduplicator collapses records that describe the same agent.
type Deduplicator struct {
	newID func() string
	now   func() time.Time
}

func NewDeduplicator() *Deduplicator {

	return &Deduplicator{
		newID: func() string { return uuid.New().String() },
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Deduplicate merges records sharing a DedupKey. The first record seen for a key is the
// representative: its name, agency, profile URL and source are kept, later records only
// add phone numbers, email addresses and metadata. Every output record gets a new id.
// Output order is the order in which keys were first seen. Input records are not modified.
func (d *Deduplicator) Deduplicate(contacts []*model.AgentContact) ([]*model.AgentContact, model.DedupReport) {

	logger := log.GetLogger()
	report := model.DedupReport{Input: len(contacts)}
	representatives := make(map[model.DedupKey]*model.AgentContact, len(contacts))
	order := make([]*model.AgentContact, 0, len(contacts))

	for _, contact := range contacts {
		key := contact.Key()
		existing, ok := representatives[key]
		if !ok {
			representative := cloneContact(contact)
			representatives[key] = representative
			order = append(order, representative)
			continue
		}

		existing.AddPhoneNumbers(contact.PhoneNumbers...)
		existing.AddEmailAddresses(contact.EmailAddresses...)
		existing.MetaData = append(existing.MetaData, contact.MetaData...)
		existing.UpdatedAt = d.now()
		report.Merged++
		logger.Debug(fmt.Sprintf("Merged duplicate agent record into %s", key))
	}

	for _, representative := range order {
		representative.ID = d.newID()
	}
	report.Unique = len(order)
	return order, report
}

func cloneContact(contact *model.AgentContact) *model.AgentContact {
	clone := *contact
	clone.PhoneNumbers = append([]string(nil), contact.PhoneNumbers...)
	clone.EmailAddresses = append([]string(nil), contact.EmailAddresses...)
	clone.MetaData = append([]json.RawMessage(nil), contact.MetaData...)
	return &clone
}
