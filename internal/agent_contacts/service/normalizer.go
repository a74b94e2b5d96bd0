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
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
	"github.com/dealdocs/agent-contact-import/internal/system/tabular"
)

// Normalizer converts vendor rows into canonical agent contacts.
type Normalizer struct {
	mappers map[model.Source]SourceMapper
	newID   func() string
	now     func() time.Time
}

// NewNormalizer creates a normalizer with the built-in source mappers.
func NewNormalizer() *Normalizer {

	return &Normalizer{
		mappers: defaultSourceMappers(),
		newID:   func() string { return uuid.New().String() },
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Register adds or replaces the mapper for a source.
func (n *Normalizer) Register(source model.Source, mapper SourceMapper) {
	n.mappers[source] = mapper
}

// Sources lists the sources with a dedicated mapper, sorted.
func (n *Normalizer) Sources() []model.Source {
	sources := make([]model.Source, 0, len(n.mappers))
	for source := range n.mappers {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// IsKnownSource reports whether a dedicated mapper exists for the source.
func (n *Normalizer) IsKnownSource(source model.Source) bool {
	_, ok := n.mappers[source]
	return ok
}

// InferSource picks the source for a vendor file from its name. The longest known source tag
// contained in the file name wins; otherwise the file name without extension is used and rows
// go through the fallback mapper.
func (n *Normalizer) InferSource(path string) model.Source {
	base := strings.ToLower(filepath.Base(path))
	var best model.Source
	for source := range n.mappers {
		if strings.Contains(base, strings.ToLower(string(source))) && len(source) > len(best) {
			best = source
		}
	}
	if best != "" {
		return best
	}
	return model.Source(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// NormalizeRow maps a single row. The second result is false when the row is dropped
// because it has no name or no email address.
func (n *Normalizer) NormalizeRow(row tabular.Row, source model.Source) (*model.AgentContact, bool) {

	mapper, ok := n.mappers[source]
	if !ok {
		mapper = mapFallbackRow
	}

	contact := mapper(row)
	if !contact.IsContactable() {
		return nil, false
	}

	now := n.now()
	contact.ID = n.newID()
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Source = source
	contact.ImportDate = now
	contact.CreatedAt = now
	contact.UpdatedAt = now
	if raw, err := json.Marshal(row); err == nil {
		contact.MetaData = []json.RawMessage{raw}
	}
	return &contact, true
}

// Normalize maps every row of one input. Rows without a name or email address are skipped
// and only counted.
func (n *Normalizer) Normalize(rows []tabular.Row, source model.Source) ([]*model.AgentContact, model.NormalizeReport) {

	report := model.NormalizeReport{Rows: len(rows)}
	contacts := make([]*model.AgentContact, 0, len(rows))
	for _, row := range rows {
		contact, ok := n.NormalizeRow(row, source)
		if !ok {
			report.Dropped++
			continue
		}
		contacts = append(contacts, contact)
	}
	report.Records = len(contacts)

	if report.Dropped > 0 {
		log.GetLogger().Info(fmt.Sprintf("Skipped %d of %d rows without a name or email address",
			report.Dropped, report.Rows), log.String("source", string(source)))
	}
	return contacts, report
}
