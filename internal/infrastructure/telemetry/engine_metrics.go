// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineMetrics provides business metrics for the analytics engine.
// It tracks snapshot builds, alert generation, and import activity.
type EngineMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	snapshotBuiltTotal  *Counter
	alertGeneratedTotal *Counter
	importRunTotal      *Counter
	importRowTotal      *Counter

	// Histogram metrics
	snapshotBuildDuration *Histogram

	// Gauge metrics (point-in-time values)
	activeAlertCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	alertProvider AlertMetricsProvider
}

// AlertMetricsProvider provides alert data for periodic metrics collection.
// This interface allows the telemetry layer to query alert state without
// depending on the alert domain directly.
type AlertMetricsProvider interface {
	// GetUnreadAlertCount returns the number of unread, undismissed alerts for a company
	GetUnreadAlertCount(ctx context.Context, companyID uuid.UUID) (int64, error)
}

// EngineMetricsConfig holds configuration for engine metrics.
type EngineMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	AlertProvider   AlertMetricsProvider
}

// NewEngineMetrics creates a new EngineMetrics instance.
func NewEngineMetrics(cfg EngineMetricsConfig) (*EngineMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	em := &EngineMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		alertProvider: cfg.AlertProvider,
	}

	var err error

	em.snapshotBuiltTotal, err = NewCounter(
		cfg.Meter,
		"wcm_snapshot_built_total",
		"Total number of working capital snapshots built",
		"{snapshots}",
	)
	if err != nil {
		return nil, err
	}

	em.alertGeneratedTotal, err = NewCounter(
		cfg.Meter,
		"wcm_alert_generated_total",
		"Total number of alerts generated by the rules engine",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	em.importRunTotal, err = NewCounter(
		cfg.Meter,
		"wcm_import_run_total",
		"Total number of import runs",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	em.importRowTotal, err = NewCounter(
		cfg.Meter,
		"wcm_import_row_total",
		"Total number of rows processed across all imports",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	em.snapshotBuildDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "wcm_snapshot_build_duration_seconds",
		Description: "Duration of snapshot builds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	em.activeAlertCount, err = NewGauge(
		cfg.Meter,
		"wcm_active_alert_count",
		"Number of unread, undismissed alerts",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	return em, nil
}

// RecordSnapshotBuilt records a completed snapshot build and its duration.
func (em *EngineMetrics) RecordSnapshotBuilt(ctx context.Context, companyID uuid.UUID, elapsed time.Duration) {
	em.snapshotBuiltTotal.Inc(ctx,
		AttrCompanyID.String(companyID.String()),
	)
	em.snapshotBuildDuration.RecordDuration(ctx, elapsed,
		AttrCompanyID.String(companyID.String()),
	)
}

// RecordAlertGenerated records a generated alert with its type and severity.
func (em *EngineMetrics) RecordAlertGenerated(ctx context.Context, companyID uuid.UUID, alertType, severity string) {
	em.alertGeneratedTotal.Inc(ctx,
		AttrCompanyID.String(companyID.String()),
		AttrAlertType.String(alertType),
		AttrAlertSeverity.String(severity),
	)
}

// RecordImportRun records a finished import run and its row counts.
func (em *EngineMetrics) RecordImportRun(ctx context.Context, companyID uuid.UUID, sourceType, status string, succeeded, failed int64) {
	em.importRunTotal.Inc(ctx,
		AttrCompanyID.String(companyID.String()),
		AttrSourceType.String(sourceType),
		AttrImportStatus.String(status),
	)
	if succeeded > 0 {
		em.importRowTotal.Add(ctx, succeeded,
			AttrCompanyID.String(companyID.String()),
			AttrSourceType.String(sourceType),
			AttrImportStatus.String("success"),
		)
	}
	if failed > 0 {
		em.importRowTotal.Add(ctx, failed,
			AttrCompanyID.String(companyID.String()),
			AttrSourceType.String(sourceType),
			AttrImportStatus.String("failed"),
		)
	}
}

// RecordActiveAlertCount records the current active alert count for a company.
// This is a gauge metric that should be updated periodically.
func (em *EngineMetrics) RecordActiveAlertCount(ctx context.Context, companyID uuid.UUID, count int64) {
	em.activeAlertCount.Record(ctx, count,
		AttrCompanyID.String(companyID.String()),
	)
}

// CompanyProvider provides company IDs for periodic metrics collection.
type CompanyProvider interface {
	GetActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects alert gauges every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (em *EngineMetrics) StartPeriodicCollection(ctx context.Context, companyProvider CompanyProvider, interval time.Duration) {
	em.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go em.runPeriodicCollection(ctx, companyProvider, interval)
	})
}

func (em *EngineMetrics) runPeriodicCollection(ctx context.Context, companyProvider CompanyProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	em.collectAlertMetrics(ctx, companyProvider)

	for {
		select {
		case <-em.stopChan:
			em.logger.Info("Stopping periodic engine metrics collection")
			return
		case <-ctx.Done():
			em.logger.Info("Context cancelled, stopping periodic engine metrics collection")
			return
		case <-ticker.C:
			em.collectAlertMetrics(ctx, companyProvider)
		}
	}
}

func (em *EngineMetrics) collectAlertMetrics(ctx context.Context, companyProvider CompanyProvider) {
	if em.alertProvider == nil {
		em.logger.Debug("No alert provider configured, skipping alert metrics collection")
		return
	}

	companyIDs, err := companyProvider.GetActiveCompanyIDs(ctx)
	if err != nil {
		em.logger.Error("Failed to get company IDs for metrics collection", zap.Error(err))
		return
	}

	for _, companyID := range companyIDs {
		count, err := em.alertProvider.GetUnreadAlertCount(ctx, companyID)
		if err != nil {
			em.logger.Warn("Failed to get unread alert count for company",
				zap.String("company_id", companyID.String()),
				zap.Error(err),
			)
			continue
		}
		em.RecordActiveAlertCount(ctx, companyID, count)
	}
}

// Stop stops the periodic collection.
func (em *EngineMetrics) Stop() {
	em.stopOnce.Do(func() {
		close(em.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewEngineMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
