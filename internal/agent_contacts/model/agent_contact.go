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

package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Source names the vendor or file category a record came from.
type Source string

const (
	SourceRealtor Source = "realtor.com"
	SourceZillow  Source = "zillow"
	SourceHomes   Source = "homes.com"
)

// AgentContact is the canonical representation of one agent contact.
type AgentContact struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	AgencyName     string            `json:"agencyName"`
	ProfileURL     string            `json:"profileUrl"`
	PhoneNumbers   []string          `json:"phoneNumbers"`
	EmailAddresses []string          `json:"emailAddresses"`
	Source         Source            `json:"source"`
	MetaData       []json.RawMessage `json:"metaData"`
	ImportDate     time.Time         `json:"importDate"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// AddPhoneNumbers adds the non-blank values that are not already present.
func (a *AgentContact) AddPhoneNumbers(values ...string) {
	a.PhoneNumbers = combineUniqueStrings(a.PhoneNumbers, values)
}

// AddEmailAddresses adds the non-blank values that are not already present.
func (a *AgentContact) AddEmailAddresses(values ...string) {
	a.EmailAddresses = combineUniqueStrings(a.EmailAddresses, values)
}

// Key returns the identity used to detect duplicates.
func (a *AgentContact) Key() DedupKey {
	return NewDedupKey(a.Name, a.AgencyName)
}

// IsContactable reports whether the record has a name and at least one email address.
func (a *AgentContact) IsContactable() bool {
	return strings.TrimSpace(a.Name) != "" && len(a.EmailAddresses) > 0
}

// DedupKey is the case and whitespace insensitive identity of an agent.
type DedupKey struct {
	Name       string
	AgencyName string
}

func NewDedupKey(name, agencyName string) DedupKey {
	return DedupKey{
		Name:       strings.ToLower(strings.TrimSpace(name)),
		AgencyName: strings.ToLower(strings.TrimSpace(agencyName)),
	}
}

func (k DedupKey) String() string {
	return k.Name + "|" + k.AgencyName
}

// combineUniqueStrings returns the trimmed, non-blank union of both lists in first-seen order,
// or nil when nothing is left.
func combineUniqueStrings(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	combined := make([]string, 0, len(existing)+len(incoming))
	for _, val := range existing {
		val = strings.TrimSpace(val)
		if val != "" && !seen[val] {
			seen[val] = true
			combined = append(combined, val)
		}
	}
	for _, val := range incoming {
		val = strings.TrimSpace(val)
		if val != "" && !seen[val] {
			seen[val] = true
			combined = append(combined, val)
		}
	}
	if len(combined) == 0 {
		return nil
	}
	return combined
}
