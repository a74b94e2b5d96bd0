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

package config

import "sync"

// AgentctlRuntime holds the runtime configuration for the current invocation.
type AgentctlRuntime struct {
	ConfigPath string `yaml:"config_path"`
	Config     Config `yaml:"config"`
}

var (
	runtimeConfig *AgentctlRuntime
	once          sync.Once
)

// InitializeRuntime initializes the AgentctlRuntime configuration.
func InitializeRuntime(configPath string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &AgentctlRuntime{
			ConfigPath: configPath,
			Config:     *config,
		}
	})

	return nil
}

// GetRuntime returns the AgentctlRuntime configuration.
func GetRuntime() *AgentctlRuntime {

	if runtimeConfig == nil {
		panic("AgentctlRuntime is not initialized")
	}
	return runtimeConfig
}

// OverrideRuntime replaces the runtime configuration. Used by tests.
func OverrideRuntime(conf Config) {
	runtimeConfig = &AgentctlRuntime{
		Config: conf,
	}
}
