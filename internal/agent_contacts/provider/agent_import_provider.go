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
	"context"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/service"
	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/store"
	runProvider "github.com/dealdocs/agent-contact-import/internal/import_runs/provider"
	"github.com/dealdocs/agent-contact-import/internal/system/config"
	"github.com/dealdocs/agent-contact-import/internal/system/metrics"
)

// AgentImportProviderInterface defines the interface for the agent import provider.
type AgentImportProviderInterface interface {
	GetAgentImportService(region string) service.AgentImportServiceInterface
}

// AgentImportProvider is the default implementation of the AgentImportProviderInterface.
type AgentImportProvider struct{}

// NewAgentImportProvider creates a new instance of AgentImportProvider.
func NewAgentImportProvider() AgentImportProviderInterface {
	return &AgentImportProvider{}
}

// GetAgentImportService builds the service from the runtime configuration. A non-empty region
// overrides the configured one.
func (p *AgentImportProvider) GetAgentImportService(region string) service.AgentImportServiceInterface {

	runtimeConfig := config.GetRuntime().Config
	storeConfig := runtimeConfig.Store
	if region != "" {
		storeConfig.Region = region
	}

	storeFactory := func(ctx context.Context) (store.AgentContactStoreInterface, error) {
		client, err := store.NewDynamoDBClient(ctx, storeConfig)
		if err != nil {
			return nil, err
		}
		return store.NewDynamoDBStore(client), nil
	}

	return service.NewAgentImportService(
		storeFactory,
		service.WriterOptionsFromConfig(runtimeConfig.Writer),
		runProvider.NewImportRunProvider().GetImportRunService(),
		metrics.NewImportMetrics(),
		runtimeConfig.Metrics.PushgatewayURL,
	)
}
