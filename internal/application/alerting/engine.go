// Package alerting evaluates working capital alert rules and manages the
// resulting alerts.
package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/fintech/wcm/internal/application/workingcapital"
	"github.com/fintech/wcm/internal/domain/alert"
	"github.com/fintech/wcm/internal/domain/ledger"
	"github.com/fintech/wcm/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// projectionDays is the forward window for the cash gap projection
const projectionDays = 30

// AlertSink receives alerts produced by the rules engine. The default sink
// persists every alert; a deduplicating sink can be swapped in without
// touching rule evaluation.
type AlertSink interface {
	Store(ctx context.Context, a *alert.Alert) error
}

// RepositorySink persists alerts straight to the alert repository
type RepositorySink struct {
	repo alert.Repository
}

// NewRepositorySink creates a sink backed by the alert repository
func NewRepositorySink(repo alert.Repository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

// Store implements AlertSink
func (s *RepositorySink) Store(ctx context.Context, a *alert.Alert) error {
	return s.repo.Save(ctx, a)
}

// AlertRulesEngine evaluates the declarative rule table against a company's
// current metrics and emits alerts through the sink. Every run inserts fresh
// rows for every matching rule; there is no deduplication.
type AlertRulesEngine struct {
	builder    *workingcapital.MetricsSnapshotBuilder
	aggregator ledger.Aggregator
	sink       AlertSink
	logger     *zap.Logger

	engineMetrics *telemetry.EngineMetrics
}

// NewAlertRulesEngine creates a new AlertRulesEngine
func NewAlertRulesEngine(
	builder *workingcapital.MetricsSnapshotBuilder,
	aggregator ledger.Aggregator,
	sink AlertSink,
	logger *zap.Logger,
) *AlertRulesEngine {
	return &AlertRulesEngine{
		builder:    builder,
		aggregator: aggregator,
		sink:       sink,
		logger:     logger,
	}
}

// SetEngineMetrics enables business metrics recording (optional)
func (e *AlertRulesEngine) SetEngineMetrics(em *telemetry.EngineMetrics) {
	e.engineMetrics = em
}

// GenerateAlerts runs all rule families for a company and returns the total
// number of alerts generated. Returns shared.ErrNotFound for an unknown
// company.
func (e *AlertRulesEngine) GenerateAlerts(ctx context.Context, companyID uuid.UUID) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "alerts", "generate")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCompanyID, companyID.String())

	total := 0
	for _, f := range []family{familyCashGap, familyLiquidity, familyWorkingCapitalRatio, familyCashConversion} {
		count, err := e.generateFamily(ctx, companyID, f)
		if err != nil {
			telemetry.RecordError(span, err)
			return total, err
		}
		total += count
	}

	e.logger.Info("alert generation complete",
		zap.String("company_id", companyID.String()),
		zap.Int("alerts_generated", total),
	)
	telemetry.SetAttribute(span, "alert_count", total)
	return total, nil
}

// GenerateCashGapAlerts evaluates only the cash gap rules
func (e *AlertRulesEngine) GenerateCashGapAlerts(ctx context.Context, companyID uuid.UUID) (int, error) {
	return e.generateFamily(ctx, companyID, familyCashGap)
}

// GenerateLiquidityAlerts evaluates only the liquidity rules
func (e *AlertRulesEngine) GenerateLiquidityAlerts(ctx context.Context, companyID uuid.UUID) (int, error) {
	return e.generateFamily(ctx, companyID, familyLiquidity)
}

// GenerateWorkingCapitalRatioAlerts evaluates only the working capital ratio rules
func (e *AlertRulesEngine) GenerateWorkingCapitalRatioAlerts(ctx context.Context, companyID uuid.UUID) (int, error) {
	return e.generateFamily(ctx, companyID, familyWorkingCapitalRatio)
}

// GenerateCCCAlerts evaluates only the cash conversion cycle rules
func (e *AlertRulesEngine) GenerateCCCAlerts(ctx context.Context, companyID uuid.UUID) (int, error) {
	return e.generateFamily(ctx, companyID, familyCashConversion)
}

func (e *AlertRulesEngine) generateFamily(ctx context.Context, companyID uuid.UUID, f family) (int, error) {
	facts, err := e.gatherFacts(ctx, companyID, f)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, r := range rulesForFamily(f) {
		value, present := r.extract(facts)
		if !present || !r.match(value) {
			continue
		}

		a, err := alert.New(companyID, r.alertType, r.severity, r.title, fmt.Sprintf(r.message, value.String()))
		if err != nil {
			return count, err
		}
		a.WithTrigger(r.metric, r.threshold.String(), value.String())

		if err := e.sink.Store(ctx, a); err != nil {
			return count, err
		}
		count++

		if e.engineMetrics != nil {
			e.engineMetrics.RecordAlertGenerated(ctx, companyID, r.alertType.String(), r.severity.String())
		}
		e.logger.Debug("alert rule fired",
			zap.String("company_id", companyID.String()),
			zap.String("metric", r.metric),
			zap.String("value", value.String()),
			zap.String("severity", r.severity.String()),
		)
	}
	return count, nil
}

// gatherFacts builds the snapshot every family needs and, for the cash gap
// family, the 30 day cash projection. Unlike the dashboard projection the
// outflow side here includes payables already overdue: an unpaid overdue
// bill is still cash that has to leave.
func (e *AlertRulesEngine) gatherFacts(ctx context.Context, companyID uuid.UUID, f family) (*ruleFacts, error) {
	now := time.Now()
	snapshot, err := e.builder.BuildSnapshot(ctx, companyID, now)
	if err != nil {
		return nil, err
	}
	facts := &ruleFacts{snapshot: snapshot}

	if f != familyCashGap {
		return facts, nil
	}

	horizon := now.AddDate(0, 0, projectionDays)

	receivables, err := e.aggregator.FindReceivablesOverdueBefore(ctx, companyID, horizon, ledger.ReceivableStatusPaid)
	if err != nil {
		return nil, err
	}
	expectedInflow := decimal.Zero
	for i := range receivables {
		if receivables[i].Status.IsExpectedInflow() {
			expectedInflow = expectedInflow.Add(receivables[i].AmountBase)
		}
	}

	payables, err := e.aggregator.FindPayablesDueBetween(ctx, companyID, now, horizon, ledger.UnpaidPayableStatuses())
	if err != nil {
		return nil, err
	}
	upcomingOutflow := decimal.Zero
	for i := range payables {
		upcomingOutflow = upcomingOutflow.Add(payables[i].AmountBase)
	}

	facts.projectedCash = snapshot.CashAndEquivalents.Add(expectedInflow).Sub(upcomingOutflow)
	facts.hasProjection = true
	return facts, nil
}
