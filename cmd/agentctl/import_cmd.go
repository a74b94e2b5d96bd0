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
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <input_path> <table_name> [<region>]",
		Short: "Write an exported file into a table",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			region := ""
			if len(args) == 3 {
				region = args[2]
			}
			out := cmd.OutOrStdout()

			svc := provider.NewAgentImportProvider().GetAgentImportService(region)
			summary, err := svc.ImportFile(cmd.Context(), args[0], args[1],
				func(batch, batches int, summary model.WriteSummary) {
					fmt.Fprintf(out, "batch %d/%d: %d succeeded, %d failed\n",
						batch, batches, summary.Succeeded, summary.Failed)
				})
			if summary.Total > 0 || err == nil {
				fmt.Fprintf(out, "total %d: %d succeeded, %d failed, %d skipped (%d of %d batches failed)\n",
					summary.Total, summary.Succeeded, summary.Failed, summary.Skipped,
					summary.FailedBatches, summary.Batches)
			}
			if err != nil {
				return err
			}
			if root.failOnErrors && summary.Failed > 0 {
				return withCode(constants.ExitCodeFailedItems,
					fmt.Errorf("%d of %d records failed to import", summary.Failed, summary.Total))
			}
			return nil
		},
	}
}
