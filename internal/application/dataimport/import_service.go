// Package dataimport loads ledger records from CSV files and external
// accounting systems.
package dataimport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fintech/wcm/internal/domain/company"
	"github.com/fintech/wcm/internal/domain/ledger"
	"github.com/fintech/wcm/internal/infrastructure/csvimport"
	"github.com/fintech/wcm/internal/infrastructure/scheduler"
	"github.com/fintech/wcm/internal/infrastructure/storage"
	"github.com/fintech/wcm/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repositories bundles the write-side stores an import run can touch
type Repositories struct {
	Transactions ledger.TransactionRepository
	Invoices     ledger.InvoiceRepository
	Receivables  ledger.ReceivableRepository
	Payables     ledger.PayableRepository
	Inventory    ledger.InventoryRepository
}

// ImportService runs CSV imports and manages scheduled import jobs
type ImportService struct {
	companyRepo company.Repository
	repos       Repositories
	registry    *scheduler.Registry
	archiver    storage.Archiver
	logger      *zap.Logger

	engineMetrics *telemetry.EngineMetrics
}

// NewImportService creates a new ImportService. archiver may be a
// storage.NopArchiver when no bucket is configured.
func NewImportService(
	companyRepo company.Repository,
	repos Repositories,
	registry *scheduler.Registry,
	archiver storage.Archiver,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		companyRepo: companyRepo,
		repos:       repos,
		registry:    registry,
		archiver:    archiver,
		logger:      logger,
	}
}

// SetEngineMetrics enables business metrics recording (optional)
func (s *ImportService) SetEngineMetrics(em *telemetry.EngineMetrics) {
	s.engineMetrics = em
}

// importKind describes one importable record type: its labels, the columns
// every row must carry, and the builder that materializes and saves a row.
type importKind struct {
	importType string
	noun       string
	required   []string
	build      func(ctx context.Context, s *ImportService, comp *company.Company, row *csvimport.Row) error
}

// ImportTransactions imports cash transactions from a CSV stream
func (s *ImportService) ImportTransactions(ctx context.Context, companyID uuid.UUID, fileName string, file io.Reader) (*ImportReport, error) {
	return s.runImport(ctx, companyID, fileName, file, transactionKind)
}

// ImportInvoices imports invoices from a CSV stream
func (s *ImportService) ImportInvoices(ctx context.Context, companyID uuid.UUID, fileName string, file io.Reader) (*ImportReport, error) {
	return s.runImport(ctx, companyID, fileName, file, invoiceKind)
}

// ImportReceivables imports accounts receivable from a CSV stream
func (s *ImportService) ImportReceivables(ctx context.Context, companyID uuid.UUID, fileName string, file io.Reader) (*ImportReport, error) {
	return s.runImport(ctx, companyID, fileName, file, receivableKind)
}

// ImportPayables imports accounts payable from a CSV stream
func (s *ImportService) ImportPayables(ctx context.Context, companyID uuid.UUID, fileName string, file io.Reader) (*ImportReport, error) {
	return s.runImport(ctx, companyID, fileName, file, payableKind)
}

// ImportInventory imports inventory items from a CSV stream
func (s *ImportService) ImportInventory(ctx context.Context, companyID uuid.UUID, fileName string, file io.Reader) (*ImportReport, error) {
	return s.runImport(ctx, companyID, fileName, file, inventoryKind)
}

// runImport is the single row loop every CSV import goes through. The
// per-kind schema supplies validation and materialization; everything else
// (company check, file checks, error collection, status, archival) is shared.
func (s *ImportService) runImport(ctx context.Context, companyID uuid.UUID, fileName string, file io.Reader, kind importKind) (*ImportReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "import", strings.ToLower(kind.importType))
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, companyID.String(),
		telemetry.SpanAttrFileName, fileName,
	)

	comp, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	report := newReport(kind.importType, "CSV", fileName)

	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		return report.fail("File is not a CSV file"), nil
	}

	// Buffer the stream so it can be parsed and archived from the same
	// bytes. Upload size is already bounded by the HTTP layer.
	content, err := io.ReadAll(file)
	if err != nil {
		return report.fail("Failed to read CSV file: " + err.Error()), nil
	}
	if len(content) == 0 {
		return report.fail("File is empty"), nil
	}

	parser, err := csvimport.NewParser(bytes.NewReader(content))
	if err != nil {
		return report.fail("Failed to read CSV file: " + err.Error()), nil
	}

	for {
		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.TotalRecords++
			report.recordRowFailure(report.TotalRecords, err)
			continue
		}
		if row.IsEmpty() {
			continue
		}

		report.TotalRecords++
		if err := s.importRow(ctx, comp, row, kind); err != nil {
			report.recordRowFailure(report.TotalRecords, err)
			continue
		}
		report.SuccessfulRecords++
	}

	report.finalize(kind.noun)
	s.archive(ctx, report, companyID, kind.importType, fileName, content)

	if s.engineMetrics != nil {
		s.engineMetrics.RecordImportRun(ctx, companyID, kind.importType, string(report.Status),
			int64(report.SuccessfulRecords), int64(report.FailedRecords))
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRowCount, report.TotalRecords,
		telemetry.SpanAttrFailedRows, report.FailedRecords,
	)
	s.logger.Info("import finished",
		zap.String("company_id", companyID.String()),
		zap.String("import_type", kind.importType),
		zap.String("status", string(report.Status)),
		zap.Int("total", report.TotalRecords),
		zap.Int("failed", report.FailedRecords),
	)
	return report, nil
}

// importRow validates required columns and delegates to the kind's builder
func (s *ImportService) importRow(ctx context.Context, comp *company.Company, row *csvimport.Row, kind importKind) error {
	for _, col := range kind.required {
		if row.Get(col) == "" {
			return fmt.Errorf("missing required column: %s", col)
		}
	}
	return kind.build(ctx, s, comp, row)
}

// archive stores a copy of the imported file. Archival is advisory: failure
// becomes a report warning, never an import error.
func (s *ImportService) archive(ctx context.Context, report *ImportReport, companyID uuid.UUID, importType, fileName string, content []byte) {
	if s.archiver == nil {
		return
	}
	key := fmt.Sprintf("imports/%s/%s/%d_%s", companyID, strings.ToLower(importType), time.Now().UnixMilli(), fileName)
	if err := s.archiver.Archive(ctx, key, bytes.NewReader(content), "text/csv"); err != nil {
		s.logger.Warn("failed to archive import file",
			zap.String("key", key),
			zap.Error(err),
		)
		report.AddWarning("Failed to archive import file: " + err.Error())
	}
}

// ImportFromQuickBooks is a connector placeholder. It validates the company
// and reports FAILED until the QuickBooks API integration lands.
func (s *ImportService) ImportFromQuickBooks(ctx context.Context, companyID uuid.UUID, accessToken, refreshToken, realmID string) (*ImportReport, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	report := newReport("QUICKBOOKS_DATA", "QUICKBOOKS_API", "")
	report.Status = StatusFailed
	report.AddError("QuickBooks API integration is not implemented yet.")
	report.Summary = "QuickBooks API integration is not implemented yet."
	return report, nil
}

// ImportFromXero is a connector placeholder. It validates the company and
// reports FAILED until the Xero API integration lands.
func (s *ImportService) ImportFromXero(ctx context.Context, companyID uuid.UUID, accessToken, tenantID string) (*ImportReport, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	report := newReport("XERO_DATA", "XERO_API", "")
	report.Status = StatusFailed
	report.AddError("Xero API integration is not implemented yet.")
	report.Summary = "Xero API integration is not implemented yet."
	return report, nil
}

// ScheduleImportJob registers a recurring import job and returns its ID.
// Returns shared.ErrNotFound for an unknown company and ErrInvalidInput for
// a schedule expression the registry cannot parse.
func (s *ImportService) ScheduleImportJob(ctx context.Context, companyID uuid.UUID, sourceType, scheduleExpr string) (string, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return "", err
	}

	sched, err := scheduler.ParseSchedule(scheduleExpr)
	if err != nil {
		return "", err
	}

	jobID := fmt.Sprintf("import_%s_%s_%d", companyID, sourceType, time.Now().UnixMilli())
	task := func(taskCtx context.Context) {
		// Placeholder firing: connector-backed scheduled imports hook in here
		// once the QuickBooks/Xero integrations are implemented.
		s.logger.Info("executing scheduled import job",
			zap.String("job_id", jobID),
			zap.String("company_id", companyID.String()),
			zap.String("source_type", sourceType),
		)
	}

	if err := s.registry.Register(jobID, sched, task); err != nil {
		return "", err
	}
	return jobID, nil
}

// CancelScheduledImportJob stops future firings of a scheduled import.
// Returns shared.ErrNotFound when no job has the given ID. Cancellation is
// best-effort: a firing already in progress runs to completion.
func (s *ImportService) CancelScheduledImportJob(ctx context.Context, jobID string) error {
	return s.registry.Cancel(jobID)
}
