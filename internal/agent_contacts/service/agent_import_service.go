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
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/model"
	"github.com/dealdocs/agent-contact-import/internal/agent_contacts/store"
	runModel "github.com/dealdocs/agent-contact-import/internal/import_runs/model"
	runService "github.com/dealdocs/agent-contact-import/internal/import_runs/service"
	"github.com/dealdocs/agent-contact-import/internal/system/constants"
	runContext "github.com/dealdocs/agent-contact-import/internal/system/context"
	errors2 "github.com/dealdocs/agent-contact-import/internal/system/errors"
	"github.com/dealdocs/agent-contact-import/internal/system/log"
	"github.com/dealdocs/agent-contact-import/internal/system/metrics"
	"github.com/dealdocs/agent-contact-import/internal/system/tabular"
)

// AgentImportServiceInterface exposes the pipeline tools.
type AgentImportServiceInterface interface {
	RepairIDs(ctx context.Context, inputPath, outputPath string) (model.RepairReport, error)
	NormalizeFile(ctx context.Context, inputPath, outputPath string, source model.Source) (model.NormalizeReport, error)
	DedupeFolder(ctx context.Context, inputFolder, outputFolder string, source model.Source) (model.DedupReport, error)
	ImportFile(ctx context.Context, inputPath, tableName string, progress ProgressFunc) (model.WriteSummary, error)
}

// StoreFactory opens the store lazily so only imports need store credentials.
type StoreFactory func(ctx context.Context) (store.AgentContactStoreInterface, error)

// AgentImportService is the default implementation of the AgentImportServiceInterface.
type AgentImportService struct {
	normalizer     *Normalizer
	repairer       *IDRepairer
	deduplicator   *Deduplicator
	storeFactory   StoreFactory
	writerOptions  WriterOptions
	runs           runService.ImportRunServiceInterface
	metrics        *metrics.ImportMetrics
	pushgatewayURL string
	now            func() time.Time
}

// NewAgentImportService wires the pipeline stages. runs may be nil when no ledger is used.
func NewAgentImportService(storeFactory StoreFactory, writerOptions WriterOptions,
	runs runService.ImportRunServiceInterface, importMetrics *metrics.ImportMetrics,
	pushgatewayURL string) *AgentImportService {

	if runs == nil {
		runs = runService.NoopImportRunService{}
	}
	return &AgentImportService{
		normalizer:     NewNormalizer(),
		repairer:       NewIDRepairer(),
		deduplicator:   NewDeduplicator(),
		storeFactory:   storeFactory,
		writerOptions:  writerOptions,
		runs:           runs,
		metrics:        importMetrics,
		pushgatewayURL: pushgatewayURL,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Normalizer exposes the source registry, e.g. to validate a source tag.
func (s *AgentImportService) Normalizer() *Normalizer {
	return s.normalizer
}

// RepairIDs rewrites a tabular file so that every row has a clean id.
func (s *AgentImportService) RepairIDs(ctx context.Context, inputPath, outputPath string) (model.RepairReport, error) {

	ctx, logger := withRun(ctx)
	table, err := readInput(inputPath)
	if err != nil {
		return model.RepairReport{}, err
	}

	report := s.repairer.Repair(table)
	if err := writeOutput(outputPath, table.Header, table.Rows); err != nil {
		return report, err
	}

	logger.Info(fmt.Sprintf("Repaired ids in %s: %d rows, %d regenerated, %d with quotes stripped",
		inputPath, report.Rows, report.Regenerated, report.QuotesStripped))
	audit(ctx, log.ActionRepairIDs, outputPath, log.TargetTypeFile, report)
	return report, nil
}

// NormalizeFile maps one vendor file to export records. An empty source is inferred from
// the file name.
func (s *AgentImportService) NormalizeFile(ctx context.Context, inputPath, outputPath string,
	source model.Source) (model.NormalizeReport, error) {

	ctx, logger := withRun(ctx)
	if source == "" {
		source = s.normalizer.InferSource(inputPath)
	}
	if !s.normalizer.IsKnownSource(source) {
		logger.Warn(fmt.Sprintf("No dedicated mapping for source %q, using best-effort column matching", source))
	}

	table, err := readInput(inputPath)
	if err != nil {
		return model.NormalizeReport{}, err
	}
	logParseWarnings(inputPath, table)

	contacts, report := s.normalizer.Normalize(table.Rows, source)
	if err := writeExport(outputPath, contacts); err != nil {
		return report, err
	}

	logger.Info(fmt.Sprintf("Normalized %s as %s: %d of %d rows kept",
		inputPath, source, report.Records, report.Rows))
	audit(ctx, log.ActionNormalizeAgents, outputPath, log.TargetTypeFile, report)
	return report, nil
}

// DedupeFolder normalizes every supported file in a folder, merges duplicates across all of
// them and writes one export file. Files are parsed concurrently but merged in name order.
func (s *AgentImportService) DedupeFolder(ctx context.Context, inputFolder, outputFolder string,
	source model.Source) (model.DedupReport, error) {

	ctx, logger := withRun(ctx)
	files, err := tabular.ListFiles(inputFolder)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to list input folder: %s", inputFolder)
		logger.Debug(errorMsg, log.Error(err))
		return model.DedupReport{}, errors2.NewServerError(errors2.WithDescription(errors2.READ_INPUT_FOLDER,
			errorMsg), err)
	}
	if len(files) == 0 {
		return model.DedupReport{}, errors2.NewClientError(errors2.WithDescription(errors2.NO_INPUT_FILES,
			fmt.Sprintf("No CSV or XLSX files in %s.", inputFolder)), constants.ExitCodeError)
	}

	perFile := make([][]*model.AgentContact, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(constants.MaxParallelParsers)
	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			fileSource := source
			if fileSource == "" {
				fileSource = s.normalizer.InferSource(file)
			}

			table, err := readInput(file)
			if err != nil {
				var clientErr *errors2.ClientError
				if stderrors.As(err, &clientErr) {
					logger.Warn(fmt.Sprintf("Skipping %s: %s", file, clientErr.Message))
					return nil
				}
				return err
			}
			logParseWarnings(file, table)

			contacts, report := s.normalizer.Normalize(table.Rows, fileSource)
			logger.Info(fmt.Sprintf("Read %s as %s: %d of %d rows kept",
				filepath.Base(file), fileSource, report.Records, report.Rows))
			perFile[i] = contacts
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return model.DedupReport{}, err
	}

	var all []*model.AgentContact
	for _, contacts := range perFile {
		all = append(all, contacts...)
	}
	deduped, report := s.deduplicator.Deduplicate(all)

	outputPath := filepath.Join(outputFolder, constants.DedupedFileName)
	if err := writeExport(outputPath, deduped); err != nil {
		return report, err
	}

	logger.Info(fmt.Sprintf("Deduplicated %d records from %d files into %d unique agents",
		report.Input, len(files), report.Unique))
	audit(ctx, log.ActionDedupeAgents, outputPath, log.TargetTypeFolder, report)
	return report, nil
}

// ImportFile writes an export file into a table. Batch failures are counted in the summary and
// do not fail the call; errors are returned for unusable input, a busy table or cancellation.
// progress, when set, is called after every batch.
func (s *AgentImportService) ImportFile(ctx context.Context, inputPath, tableName string,
	progress ProgressFunc) (model.WriteSummary, error) {

	runID := runContext.GetOrGenerateRunID(ctx)
	ctx = runContext.WithRunID(ctx, runID)
	logger := log.GetLogger().With(log.String("run_id", runID), log.String("table", tableName))

	table, err := readInput(inputPath)
	if err != nil {
		return model.WriteSummary{}, err
	}
	logParseWarnings(inputPath, table)

	repair := s.repairer.Repair(table)
	if repair.Regenerated > 0 || repair.QuotesStripped > 0 {
		logger.Info(fmt.Sprintf("Repaired %d ids before import", repair.Regenerated+repair.QuotesStripped))
	}

	items := make([]store.Item, 0, len(table.Rows))
	invalid := 0
	now := s.now()
	for _, row := range table.Rows {
		item, err := ContactToItem(RowToContact(row, now))
		if err != nil {
			var clientErr *errors2.ClientError
			if stderrors.As(err, &clientErr) {
				invalid++
				continue
			}
			return model.WriteSummary{}, err
		}
		items = append(items, item)
	}
	if invalid > 0 {
		logger.Info(fmt.Sprintf("Skipped %d rows without a name", invalid))
	}

	if err := s.runs.AcquireTableLock(ctx, tableName); err != nil {
		var clientErr *errors2.ClientError
		if stderrors.As(err, &clientErr) {
			return model.WriteSummary{}, err
		}
		logger.Warn("Import lock unavailable, continuing without it", log.Error(err))
	}
	defer s.runs.ReleaseTableLock(tableName)

	itemStore, err := s.storeFactory(ctx)
	if err != nil {
		errorMsg := "Failed to initialize the store client."
		logger.Debug(errorMsg, log.Error(err))
		return model.WriteSummary{}, errors2.NewServerErrorWithRunID(errors2.WithDescription(
			errors2.STORE_CLIENT_INIT, errorMsg), err, runID)
	}

	if err := s.runs.StartRun(runModel.ImportRun{
		RunID:      runID,
		TableName:  tableName,
		SourceFile: inputPath,
		TotalItems: len(items),
		StartedAt:  now,
	}); err != nil {
		logger.Warn("Failed to record the import run", log.Error(err))
	}

	writer := NewBulkWriter(itemStore, s.writerOptions, s.metrics).WithProgress(progress)
	summary, writeErr := writer.Write(ctx, tableName, items)

	if err := s.runs.FinishRun(runID, runModel.RunOutcome{
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Skipped:   summary.Skipped,
		Status:    runStatus(summary, writeErr),
	}); err != nil {
		logger.Warn("Failed to complete the import run record", log.Error(err))
	}
	if err := s.metrics.Push(s.pushgatewayURL, runID, tableName); err != nil {
		logger.Warn(errors2.METRICS_PUSH.Message, log.Error(err))
	}

	logger.Info(fmt.Sprintf("Import finished: %d succeeded, %d failed, %d skipped of %d",
		summary.Succeeded, summary.Failed, summary.Skipped, summary.Total))
	audit(ctx, log.ActionImportAgents, tableName, log.TargetTypeTable, summary)
	return summary, writeErr
}

func runStatus(summary model.WriteSummary, err error) string {
	switch {
	case err != nil:
		return constants.RunStatusCancelled
	case summary.Failed > 0:
		return constants.RunStatusCompletedWithErrors
	default:
		return constants.RunStatusCompleted
	}
}

func readInput(path string) (*tabular.Table, error) {

	logger := log.GetLogger()
	table, err := tabular.ReadFile(path)
	switch {
	case err == nil:
		return table, nil
	case stderrors.Is(err, tabular.ErrUnsupportedFile):
		return nil, errors2.NewClientError(errors2.WithDescription(errors2.UNSUPPORTED_FILE,
			fmt.Sprintf("%s is neither CSV nor XLSX.", path)), constants.ExitCodeError)
	case stderrors.Is(err, tabular.ErrNoHeader):
		return nil, errors2.NewClientError(errors2.WithDescription(errors2.EMPTY_INPUT,
			fmt.Sprintf("%s has no header row.", path)), constants.ExitCodeError)
	default:
		errorMsg := fmt.Sprintf("Failed to read input file: %s", path)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.WithDescription(errors2.READ_INPUT_FILE, errorMsg), err)
	}
}

func writeOutput(path string, header []string, rows []tabular.Row) error {

	if err := tabular.WriteFile(path, header, rows); err != nil {
		errorMsg := fmt.Sprintf("Failed to write output file: %s", path)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.WithDescription(errors2.WRITE_OUTPUT_FILE, errorMsg), err)
	}
	return nil
}

func writeExport(path string, contacts []*model.AgentContact) error {

	if err := WriteExport(path, contacts); err != nil {
		errorMsg := fmt.Sprintf("Failed to write export file: %s", path)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.WithDescription(errors2.WRITE_OUTPUT_FILE, errorMsg), err)
	}
	return nil
}

// withRun makes sure ctx carries a run id and returns a logger tagged with it.
func withRun(ctx context.Context) (context.Context, *log.Logger) {
	runID := runContext.GetOrGenerateRunID(ctx)
	return runContext.WithRunID(ctx, runID), log.GetLogger().With(log.String("run_id", runID))
}

func logParseWarnings(path string, table *tabular.Table) {
	if len(table.Warnings) == 0 {
		return
	}
	logger := log.GetLogger()
	for _, warning := range table.Warnings {
		logger.Debug(fmt.Sprintf("%s row %d: %s", filepath.Base(path), warning.Row, warning.Message))
	}
	logger.Warn(fmt.Sprintf("%s: %d rows needed fixing while parsing", filepath.Base(path), len(table.Warnings)))
}

func audit(ctx context.Context, action, target, targetType string, data interface{}) {
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   "agentctl",
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      target,
		TargetType:    targetType,
		ActionID:      action,
		RunID:         runContext.GetRunID(ctx),
		Data:          data,
	})
}
