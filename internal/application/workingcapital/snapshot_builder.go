// Package workingcapital builds working capital metric snapshots from the
// company ledger.
package workingcapital

import (
	"context"
	"time"

	"github.com/fintech/wcm/internal/domain/alert"
	"github.com/fintech/wcm/internal/domain/company"
	"github.com/fintech/wcm/internal/domain/ledger"
	"github.com/fintech/wcm/internal/domain/metrics"
	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// flowProxyDays is the trailing window used to derive daily flow rates for
// DSO, DPO and DIO. Open invoices stand in for the period's credit sales and
// cost of goods sold.
const flowProxyDays = 90

// projectionDays is the forward window for the dashboard cash projection.
const projectionDays = 30

// MetricsSnapshotBuilder assembles point-in-time working capital snapshots
// from ledger aggregates.
type MetricsSnapshotBuilder struct {
	companyRepo company.Repository
	aggregator  ledger.Aggregator
	alertRepo   alert.Repository

	engineMetrics *telemetry.EngineMetrics
}

// NewMetricsSnapshotBuilder creates a new MetricsSnapshotBuilder
func NewMetricsSnapshotBuilder(
	companyRepo company.Repository,
	aggregator ledger.Aggregator,
	alertRepo alert.Repository,
) *MetricsSnapshotBuilder {
	return &MetricsSnapshotBuilder{
		companyRepo: companyRepo,
		aggregator:  aggregator,
		alertRepo:   alertRepo,
	}
}

// SetEngineMetrics enables business metrics recording (optional)
func (b *MetricsSnapshotBuilder) SetEngineMetrics(em *telemetry.EngineMetrics) {
	b.engineMetrics = em
}

// BuildSnapshot computes the working capital snapshot for a company.
// Returns shared.ErrNotFound when the company does not exist.
//
// asOfDate stamps the snapshot but does not filter the aggregates: the
// ledger queries always read current balances. Historical series therefore
// show today's ledger at every point, which matches the upstream accounting
// feed this engine replaces.
func (b *MetricsSnapshotBuilder) BuildSnapshot(ctx context.Context, companyID uuid.UUID, asOfDate time.Time) (*metrics.WorkingCapitalSnapshot, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "metrics", "build_snapshot")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, companyID.String(),
		telemetry.SpanAttrAsOfDate, asOfDate.Format("2006-01-02"),
	)
	start := time.Now()

	comp, err := b.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	cash, err := b.aggregator.SumCash(ctx, companyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	receivables, err := b.aggregator.SumReceivables(ctx, companyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	payables, err := b.aggregator.SumPayables(ctx, companyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	inventory, err := b.aggregator.SumInventoryValue(ctx, companyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	shortTermDebt, err := b.aggregator.SumShortTermLiabilities(ctx, companyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	totalAssets := cash.Add(receivables).Add(inventory)
	totalLiabilities := payables.Add(shortTermDebt)

	snapshot := &metrics.WorkingCapitalSnapshot{
		CompanyID:   comp.ID,
		CompanyName: comp.Name,
		AsOfDate:    asOfDate,

		CashAndEquivalents: cash,
		AccountsReceivable: receivables,
		Inventory:          inventory,
		TotalCurrentAssets: totalAssets,

		AccountsPayable:         payables,
		ShortTermDebt:           shortTermDebt,
		TotalCurrentLiabilities: totalLiabilities,

		NetWorkingCapital: metrics.NetWorkingCapital(totalAssets, totalLiabilities),
	}

	if ratio, ok := metrics.CurrentRatio(totalAssets, totalLiabilities); ok {
		snapshot.CurrentRatio = &ratio
	}
	if ratio, ok := metrics.QuickRatio(totalAssets, inventory, totalLiabilities); ok {
		snapshot.QuickRatio = &ratio
	}
	if ratio, ok := metrics.CashRatio(cash, totalLiabilities); ok {
		snapshot.CashRatio = &ratio
	}

	if err := b.fillDayMetrics(ctx, companyID, snapshot); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if b.engineMetrics != nil {
		b.engineMetrics.RecordSnapshotBuilt(ctx, companyID, time.Since(start))
	}
	return snapshot, nil
}

// fillDayMetrics computes DSO, DPO, DIO and CCC. Open invoices over the
// trailing window stand in for credit sales and COGS; a missing flow proxy
// leaves the metric at zero rather than absent.
func (b *MetricsSnapshotBuilder) fillDayMetrics(ctx context.Context, companyID uuid.UUID, snapshot *metrics.WorkingCapitalSnapshot) error {
	creditSales, err := b.aggregator.SumOpenSalesInvoices(ctx, companyID)
	if err != nil {
		return err
	}
	costOfGoods, err := b.aggregator.SumOpenPurchaseInvoices(ctx, companyID)
	if err != nil {
		return err
	}

	if dso, ok := metrics.DaysSalesOutstanding(snapshot.AccountsReceivable, creditSales, flowProxyDays); ok {
		snapshot.DaysSalesOutstanding = dso
	}
	if dpo, ok := metrics.DaysPayableOutstanding(snapshot.AccountsPayable, costOfGoods, flowProxyDays); ok {
		snapshot.DaysPayableOutstanding = dpo
	}
	if dio, ok := metrics.DaysInventoryOutstanding(snapshot.Inventory, costOfGoods, flowProxyDays); ok {
		snapshot.DaysInventoryOutstanding = dio
	}
	snapshot.CashConversionCycle = metrics.CashConversionCycle(
		snapshot.DaysSalesOutstanding,
		snapshot.DaysInventoryOutstanding,
		snapshot.DaysPayableOutstanding,
	)
	return nil
}

// HistoricalMetrics builds one snapshot per interval step between start and
// end inclusive, keyed by date (yyyy-MM-dd). DAILY steps every day, WEEKLY
// every 7 days from start, MONTHLY on the first of each month in range.
// Returns shared.ErrInvalidInput when start is after end.
func (b *MetricsSnapshotBuilder) HistoricalMetrics(ctx context.Context, companyID uuid.UUID, start, end time.Time, interval metrics.Interval) (map[string]*metrics.WorkingCapitalSnapshot, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "metrics", "historical")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, companyID.String(),
		telemetry.SpanAttrInterval, string(interval),
	)

	if start.After(end) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Start date must not be after end date")
	}

	dates, err := seriesDates(start, end, interval)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	series := make(map[string]*metrics.WorkingCapitalSnapshot, len(dates))
	for _, date := range dates {
		snapshot, err := b.BuildSnapshot(ctx, companyID, date)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		series[date.Format("2006-01-02")] = snapshot
	}
	return series, nil
}

// seriesDates expands an interval into the snapshot dates it covers
func seriesDates(start, end time.Time, interval metrics.Interval) ([]time.Time, error) {
	var dates []time.Time
	switch interval {
	case metrics.IntervalDaily:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
	case metrics.IntervalWeekly:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
			dates = append(dates, d)
		}
	case metrics.IntervalMonthly:
		first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
		for d := first; !d.After(end); d = d.AddDate(0, 1, 0) {
			if d.Before(start) {
				continue
			}
			dates = append(dates, d)
		}
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid interval: "+string(interval))
	}
	return dates, nil
}

// DashboardSummary bundles the current snapshot with a short-horizon cash
// projection, alert counts and advisory recommendations.
type DashboardSummary struct {
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name"`
	AsOfDate    time.Time `json:"as_of_date"`

	Snapshot *metrics.WorkingCapitalSnapshot `json:"snapshot"`

	ExpectedReceivables   decimal.Decimal `json:"expected_receivables"`
	UpcomingPayables      decimal.Decimal `json:"upcoming_payables"`
	ProjectedCashPosition decimal.Decimal `json:"projected_cash_position"`

	UnreadAlertCount   int64 `json:"unread_alert_count"`
	CriticalAlertCount int   `json:"critical_alert_count"`
	HighAlertCount     int   `json:"high_alert_count"`

	RecentAlerts    []alert.Alert `json:"recent_alerts"`
	Recommendations []string      `json:"recommendations"`
}

// maxRecentAlerts bounds the alert list on the dashboard
const maxRecentAlerts = 5

// BuildDashboardSummary computes the dashboard view for a company.
// Returns shared.ErrNotFound when the company does not exist.
func (b *MetricsSnapshotBuilder) BuildDashboardSummary(ctx context.Context, companyID uuid.UUID) (*DashboardSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "metrics", "dashboard")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCompanyID, companyID.String())

	now := time.Now()
	snapshot, err := b.BuildSnapshot(ctx, companyID, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	horizon := now.AddDate(0, 0, projectionDays)

	// Inflows: receivables still expected to arrive. The overdue query over-
	// fetches, so filter to the statuses that still represent expected cash.
	receivables, err := b.aggregator.FindReceivablesOverdueBefore(ctx, companyID, horizon, ledger.ReceivableStatusPaid)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	expectedInflow := decimal.Zero
	for i := range receivables {
		if receivables[i].Status.IsExpectedInflow() {
			expectedInflow = expectedInflow.Add(receivables[i].AmountBase)
		}
	}

	// Outflows: payables coming due inside the horizon. Already-overdue
	// payables are excluded here; the alert engine covers those separately.
	payables, err := b.aggregator.FindPayablesDueBetween(ctx, companyID, now, horizon, ledger.UpcomingPayableStatuses())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	upcomingOutflow := decimal.Zero
	for i := range payables {
		upcomingOutflow = upcomingOutflow.Add(payables[i].AmountBase)
	}

	summary := &DashboardSummary{
		CompanyID:   snapshot.CompanyID,
		CompanyName: snapshot.CompanyName,
		AsOfDate:    now,
		Snapshot:    snapshot,

		ExpectedReceivables:   expectedInflow,
		UpcomingPayables:      upcomingOutflow,
		ProjectedCashPosition: snapshot.CashAndEquivalents.Add(expectedInflow).Sub(upcomingOutflow),
	}

	if err := b.fillAlertSummary(ctx, companyID, summary); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	summary.Recommendations = buildRecommendations(summary)
	return summary, nil
}

func (b *MetricsSnapshotBuilder) fillAlertSummary(ctx context.Context, companyID uuid.UUID, summary *DashboardSummary) error {
	unread, err := b.alertRepo.CountUnreadByCompanyID(ctx, companyID)
	if err != nil {
		return err
	}
	summary.UnreadAlertCount = unread

	active, err := b.alertRepo.FindActiveByCompanyID(ctx, companyID)
	if err != nil {
		return err
	}
	for i := range active {
		switch active[i].Severity {
		case alert.SeverityCritical:
			summary.CriticalAlertCount++
		case alert.SeverityHigh:
			summary.HighAlertCount++
		}
	}

	if len(active) > maxRecentAlerts {
		active = active[:maxRecentAlerts]
	}
	summary.RecentAlerts = active
	return nil
}

// Recommendation thresholds. These mirror the advisory bands used by the
// alert rules but produce guidance text instead of persisted alerts.
var (
	comfortableCurrentRatio = decimal.NewFromFloat(1.5)
	comfortableDSO          = decimal.NewFromInt(45)
	comfortableCCC          = decimal.NewFromInt(90)
)

func buildRecommendations(summary *DashboardSummary) []string {
	var recs []string
	snapshot := summary.Snapshot

	if summary.ProjectedCashPosition.IsNegative() {
		recs = append(recs, "Projected cash position over the next 30 days is negative. Consider accelerating receivable collections or arranging short-term financing.")
	}
	if snapshot.CurrentRatio != nil && snapshot.CurrentRatio.LessThan(comfortableCurrentRatio) {
		recs = append(recs, "Current ratio is below 1.5. Review short-term obligations and consider building a liquidity buffer.")
	}
	if snapshot.NetWorkingCapital.IsNegative() {
		recs = append(recs, "Net working capital is negative. Current liabilities exceed current assets.")
	}
	if snapshot.DaysSalesOutstanding.GreaterThan(comfortableDSO) {
		recs = append(recs, "Days sales outstanding exceeds 45 days. Tighten credit terms or follow up on overdue invoices.")
	}
	if snapshot.CashConversionCycle.GreaterThan(comfortableCCC) {
		recs = append(recs, "Cash conversion cycle exceeds 90 days. Capital is tied up in operations for an extended period.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Working capital indicators are within healthy ranges.")
	}
	return recs
}
