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
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	runProvider "github.com/dealdocs/agent-contact-import/internal/import_runs/provider"
	"github.com/dealdocs/agent-contact-import/internal/system/config"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	"github.com/dealdocs/agent-contact-import/internal/system/database/provider"
	errors2 "github.com/dealdocs/agent-contact-import/internal/system/errors"
)

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs <table_name>",
		Short: "List recent imports into a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLedger(); err != nil {
				return err
			}
			runs, err := runProvider.NewImportRunProvider().GetImportRunService().ListRuns(args[0], limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tSTATUS\tTOTAL\tSUCCEEDED\tFAILED\tSKIPPED\tSTARTED\tFILE")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n", run.RunID, run.Status, run.TotalItems,
					run.SucceededItems, run.FailedItems, run.SkippedItems,
					run.StartedAt.Format(time.RFC3339), run.SourceFile)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	return cmd
}

func newInitLedgerCmd() *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "init-ledger",
		Short: "Create the import ledger schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLedger(); err != nil {
				return err
			}
			dbClient, err := provider.NewDBProvider().GetDBClient()
			if err != nil {
				return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
			}
			defer dbClient.Close()

			if err := dbClient.InitDatabase(schema); err != nil {
				return errors2.NewServerError(errors2.EXECUTE_QUERY, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ledger schema ready")
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "dbscripts/postgres.sql", "Schema script to run")
	return cmd
}

func requireLedger() error {
	if !config.GetRuntime().Config.DataSource.Enabled() {
		return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_CONFIG,
			"No datasource is configured for the import ledger."), constants.ExitCodeError)
	}
	return nil
}
