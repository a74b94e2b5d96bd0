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
	"strings"

	"github.com/google/uuid"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	"github.com/dealdocs/agent-contact-import/internal/system/tabular"
)

// IDRepairer makes sure every row of an exported file carries a usable identifier.
type IDRepairer struct {
	newID func() string
}

func NewIDRepairer() *IDRepairer {

	return &IDRepairer{
		newID: func() string { return uuid.New().String() },
	}
}

// Repair fixes ids in place. Blank ids are regenerated and double quotes, which corrupt
// re-serialized CSV, are stripped. An id column is added in front when the header lacks one.
// Ids that are already clean are left untouched, so repairing twice changes nothing.
func (r *IDRepairer) Repair(table *tabular.Table) model.RepairReport {

	if !table.HasColumn(constants.ColumnID) {
		table.Header = append([]string{constants.ColumnID}, table.Header...)
	}

	report := model.RepairReport{Rows: len(table.Rows)}
	for _, row := range table.Rows {
		id := row[constants.ColumnID]
		if strings.TrimSpace(id) == "" {
			report.Missing++
			report.Regenerated++
			row[constants.ColumnID] = r.newID()
			continue
		}

		if strings.Contains(id, `"`) {
			report.QuotesStripped++
			id = strings.ReplaceAll(id, `"`, "")
			if strings.TrimSpace(id) == "" {
				report.Regenerated++
				id = r.newID()
			}
			row[constants.ColumnID] = id
		}
	}
	return report
}
