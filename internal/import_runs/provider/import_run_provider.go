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

package provider

import (
	"github.com/dealdocs/agent-contact-import/internal/import_runs/service"
	"github.com/dealdocs/agent-contact-import/internal/system/config"
)

// ImportRunProviderInterface defines the interface for the import run provider.
type ImportRunProviderInterface interface {
	GetImportRunService() service.ImportRunServiceInterface
}

// ImportRunProvider is the default implementation of the ImportRunProviderInterface.
type ImportRunProvider struct{}

// NewImportRunProvider creates a new instance of ImportRunProvider.
func NewImportRunProvider() ImportRunProviderInterface {
	return &ImportRunProvider{}
}

// GetImportRunService returns the ledger service, or a no-op one when no datasource is configured.
func (p *ImportRunProvider) GetImportRunService() service.ImportRunServiceInterface {
	if !config.GetRuntime().Config.DataSource.Enabled() {
		return service.NoopImportRunService{}
	}
	return service.GetImportRunService()
}
