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

	"github.com/spf13/cobra"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/provider"
)

func newFixIDsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-ids <input_path> <output_path>",
		Short: "Give every row of an exported file a clean id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := provider.NewAgentImportProvider().GetAgentImportService("")
			report, err := svc.RepairIDs(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows: %d ids missing, %d regenerated, %d had quotes stripped\n",
				report.Rows, report.Missing, report.Regenerated, report.QuotesStripped)
			return nil
		},
	}
}

func newNormalizeCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "normalize <input_path> <output_path>",
		Short: "Map a vendor export to canonical agent contacts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := provider.NewAgentImportProvider().GetAgentImportService("")
			report, err := svc.NormalizeFile(cmd.Context(), args[0], args[1], model.Source(source))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows: %d records written, %d skipped without name or email\n",
				report.Rows, report.Records, report.Dropped)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "",
		"Source tag, e.g. realtor.com, zillow, homes.com (default: inferred from the file name)")
	return cmd
}

func newDedupeCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "dedupe <input_folder> <output_folder>",
		Short: "Normalize every file in a folder and merge duplicate agents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := provider.NewAgentImportProvider().GetAgentImportService("")
			report, err := svc.DedupeFolder(cmd.Context(), args[0], args[1], model.Source(source))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records: %d unique agents, %d merged\n",
				report.Input, report.Unique, report.Merged)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source tag applied to every file (default: inferred per file)")
	return cmd
}
