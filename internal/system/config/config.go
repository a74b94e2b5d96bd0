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
	"time"

	"github.com/dealdocs/agent-contact-import/internal/system/constants"
)

type LogConfig struct {
	LogLevel string `yaml:"log_level" env:"AGENTCTL_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// StoreConfig locates the key-value store. Credentials come from the AWS default chain
// unless a static key pair is set, which is mostly useful against a local endpoint.
type StoreConfig struct {
	Region          string `yaml:"region" env:"AWS_REGION"`
	Endpoint        string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id" env:"AGENTCTL_STORE_ACCESS_KEY_ID" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `yaml:"secret_access_key" env:"AGENTCTL_STORE_SECRET_ACCESS_KEY" validate:"required_with=AccessKeyID"`
}

type WriterConfig struct {
	BatchSize             int           `yaml:"batch_size" env:"AGENTCTL_BATCH_SIZE" validate:"min=1,max=25"`
	BaseDelay             time.Duration `yaml:"base_delay" env:"AGENTCTL_BASE_DELAY" validate:"gt=0"`
	MaxDelay              time.Duration `yaml:"max_delay" env:"AGENTCTL_MAX_DELAY" validate:"gtefield=BaseDelay"`
	MaxThrottleRetries    int           `yaml:"max_throttle_retries" env:"AGENTCTL_MAX_THROTTLE_RETRIES" validate:"min=0"`
	MaxUnprocessedRetries int           `yaml:"max_unprocessed_retries" env:"AGENTCTL_MAX_UNPROCESSED_RETRIES" validate:"min=0"`
}

// DataSourceConfig points at the optional Postgres import ledger.
type DataSourceConfig struct {
	Hostname string `yaml:"hostname" env:"AGENTCTL_DB_HOST"`
	Port     int    `yaml:"port" env:"AGENTCTL_DB_PORT" validate:"omitempty,min=1,max=65535"`
	Name     string `yaml:"name" env:"AGENTCTL_DB_NAME" validate:"required_with=Hostname"`
	Username string `yaml:"username" env:"AGENTCTL_DB_USER" validate:"required_with=Hostname"`
	Password string `yaml:"password" env:"AGENTCTL_DB_PASSWORD"`
	SSLMode  string `yaml:"sslmode" env:"AGENTCTL_DB_SSLMODE"`
}

// Enabled reports whether a ledger database is configured.
func (d DataSourceConfig) Enabled() bool {
	return d.Hostname != ""
}

type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url" env:"PUSHGATEWAY_URL" validate:"omitempty,url"`
}

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Store      StoreConfig      `yaml:"store"`
	Writer     WriterConfig     `yaml:"writer"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// Default returns the configuration used when no file overrides a value.
func Default() Config {
	return Config{
		Log: LogConfig{
			LogLevel: "info",
		},
		Writer: WriterConfig{
			BatchSize:             constants.DefaultBatchSize,
			BaseDelay:             constants.DefaultBaseDelay,
			MaxDelay:              constants.DefaultMaxDelay,
			MaxThrottleRetries:    constants.DefaultMaxThrottleRetries,
			MaxUnprocessedRetries: constants.DefaultMaxUnprocessedRetries,
		},
		DataSource: DataSourceConfig{
			Port:    5432,
			SSLMode: "disable",
		},
	}
}
