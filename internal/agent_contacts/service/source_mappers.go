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
	"regexp"
	"strings"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/system/tabular"
)

// SourceMapper maps one raw row of a vendor file onto the canonical record fields.
// Mappers are pure; ids, timestamps and metadata are filled in by the normalizer.
type SourceMapper func(row tabular.Row) model.AgentContact

var (
	phonePattern  = regexp.MustCompile(`(?:\+?1[\s.-]?)?(?:\(\d{3}\)\s?|\d{3}[\s.-]?)?\d{3}[\s.-]?\d{4}`)
	listSeparator = regexp.MustCompile(`[,;]`)
)

// Column spellings probed by the fallback mapper, in priority order.
var (
	fallbackNameColumns = []string{"name", "Name", "Full Name", "full_name", "fullName", "agent_name",
		"Agent Name", "agent_full_name"}
	fallbackAgencyColumns = []string{"agencyName", "agency_name", "Agency Name", "Agency", "agency", "Brokerage",
		"brokerage", "brokerage_name", "Company", "company", "Office Name"}
	fallbackProfileColumns = []string{"profileUrl", "profile_url", "Profile URL", "Profile Link", "url", "URL"}
	fallbackEmailColumns   = []string{"emailAddresses", "email", "Email", "Email Address", "email_address",
		"agent_email", "Email 1", "Email 2"}
	fallbackPhoneColumns = []string{"phoneNumbers", "phone", "Phone", "Phone Number", "phone_number",
		"Phone Numbers", "agent_phone", "agent_mobile", "Office", "Mobile"}
)

func defaultSourceMappers() map[model.Source]SourceMapper {
	return map[model.Source]SourceMapper{
		model.SourceRealtor: mapRealtorRow,
		model.SourceZillow:  mapZillowRow,
		model.SourceHomes:   mapHomesRow,
	}
}

// realtor.com exports carry no brokerage for some agents; the site itself is used instead.
func mapRealtorRow(row tabular.Row) model.AgentContact {
	agency := row.Get("Brokerage", "brokerage")
	if agency == "" {
		agency = string(model.SourceRealtor)
	}
	contact := model.AgentContact{
		Name:       row.Get("name", "Name"),
		AgencyName: agency,
		ProfileURL: row.Get("Profile URL", "profile_url"),
	}
	contact.AddEmailAddresses(normalizeEmails(splitList(row.Get("Email", "email")))...)
	contact.AddPhoneNumbers(splitList(row.Get("Office"))...)
	contact.AddPhoneNumbers(splitList(row.Get("Mobile"))...)
	return contact
}

func mapZillowRow(row tabular.Row) model.AgentContact {
	contact := model.AgentContact{
		Name:       row.Get("agent_full_name"),
		AgencyName: row.Get("brokerage_name"),
		ProfileURL: row.Get("profile_url"),
	}
	contact.AddEmailAddresses(normalizeEmails(splitList(row.Get("agent_email")))...)
	contact.AddPhoneNumbers(extractPhones(row.Get("agent_phone"))...)
	contact.AddPhoneNumbers(extractPhones(row.Get("agent_mobile"))...)
	return contact
}

func mapHomesRow(row tabular.Row) model.AgentContact {
	contact := model.AgentContact{
		Name:       row.Get("Full Name"),
		AgencyName: row.Get("Company"),
		ProfileURL: row.Get("Profile Link"),
	}
	contact.AddEmailAddresses(normalizeEmails(splitList(row.Get("Email 1")))...)
	contact.AddEmailAddresses(normalizeEmails(splitList(row.Get("Email 2")))...)
	contact.AddPhoneNumbers(extractPhones(row.Get("Phone Numbers"))...)
	return contact
}

// mapFallbackRow handles sources without a dedicated mapper by probing common column spellings.
// Single valued fields take the first populated column; emails and phones collect every one.
func mapFallbackRow(row tabular.Row) model.AgentContact {
	contact := model.AgentContact{
		Name:       row.Get(fallbackNameColumns...),
		AgencyName: row.Get(fallbackAgencyColumns...),
		ProfileURL: row.Get(fallbackProfileColumns...),
	}
	for _, column := range fallbackEmailColumns {
		contact.AddEmailAddresses(normalizeEmails(splitList(row.Get(column)))...)
	}
	for _, column := range fallbackPhoneColumns {
		contact.AddPhoneNumbers(extractPhones(row.Get(column))...)
	}
	return contact
}

// splitList splits a combined cell on commas and semicolons, dropping blanks.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var values []string
	for _, part := range listSeparator.Split(value, -1) {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

// extractPhones pulls digit-grouped phone numbers out of free text, falling back to a
// plain list split when nothing looks like a phone number.
func extractPhones(value string) []string {
	if matches := phonePattern.FindAllString(value, -1); len(matches) > 0 {
		return matches
	}
	return splitList(value)
}

func normalizeEmails(values []string) []string {
	emails := make([]string, 0, len(values))
	for _, v := range values {
		emails = append(emails, strings.ToLower(strings.TrimSpace(v)))
	}
	return emails
}
