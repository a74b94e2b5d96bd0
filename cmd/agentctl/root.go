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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dealdocs/agent-contact-import/internal/system/config"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	errors2 "github.com/dealdocs/agent-contact-import/internal/system/errors"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
)

type rootOptions struct {
	configPath   string
	logLevel     string
	failOnErrors bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "agentctl",
		Short:         "Normalize, deduplicate and import third-party agent contacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initRuntime(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"YAML configuration file (default "+constants.DefaultConfigFile+" when present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&opts.failOnErrors, "fail-on-errors", false,
		"Exit with status 2 when any record failed to import")

	cmd.AddCommand(newFixIDsCmd())
	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newDedupeCmd())
	cmd.AddCommand(newImportCmd(&opts))
	cmd.AddCommand(newRunsCmd())
	cmd.AddCommand(newInitLedgerCmd())
	return cmd
}

// initRuntime loads .env files, the configuration and the logger.
func initRuntime(opts rootOptions) error {

	if _, err := config.LoadEnvFiles(constants.EnvFilesPattern); err != nil {
		return errors2.NewServerError(errors2.WithDescription(errors2.CONFIG_LOAD,
			"Failed to load .env files."), err)
	}

	configPath := opts.configPath
	if configPath == "" {
		if _, err := os.Stat(constants.DefaultConfigFile); err == nil {
			configPath = constants.DefaultConfigFile
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return errors2.NewServerError(errors2.WithDescription(errors2.CONFIG_LOAD,
			fmt.Sprintf("Failed to load configuration from %q.", configPath)), err)
	}
	if opts.logLevel != "" {
		cfg.Log.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_CONFIG, err.Error()),
			constants.ExitCodeError)
	}

	if err := log.Init(cfg.Log.LogLevel); err != nil {
		return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_CONFIG, err.Error()),
			constants.ExitCodeError)
	}
	if err := config.InitializeRuntime(configPath, cfg); err != nil {
		return errors2.NewServerError(errors2.CONFIG_LOAD, err)
	}

	log.GetLogger().Debug("Runtime initialized", log.String("config", configPath))
	return nil
}
