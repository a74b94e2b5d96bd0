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

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// LoadEnvFiles loads every .env file matching the pattern into the process environment.
// Variables that are already set win. Returns the number of files loaded.
func LoadEnvFiles(pattern string) (int, error) {
	envFiles, err := filepath.Glob(pattern)
	if err != nil || len(envFiles) == 0 {
		return 0, err
	}
	return len(envFiles), godotenv.Load(envFiles...)
}

// LoadConfig builds the configuration from the defaults, the YAML file at filePath
// (skipped when empty) and finally the environment.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		file, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}

		expanded := os.ExpandEnv(string(file))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its validation tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
