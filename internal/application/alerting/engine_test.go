package alerting

import (
	"context"
	"testing"
	"time"

	"github.com/fintech/wcm/internal/application/workingcapital"
	"github.com/fintech/wcm/internal/domain/alert"
	"github.com/fintech/wcm/internal/domain/company"
	"github.com/fintech/wcm/internal/domain/ledger"
	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock implementations

type mockCompanyRepository struct {
	mock.Mock
}

func (m *mockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Company), args.Error(1)
}

func (m *mockCompanyRepository) FindAll(ctx context.Context) ([]company.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]company.Company), args.Error(1)
}

func (m *mockCompanyRepository) FindActive(ctx context.Context) ([]company.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]company.Company), args.Error(1)
}

func (m *mockCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) SumCash(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockAggregator) SumReceivables(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockAggregator) SumPayables(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockAggregator) SumInventoryValue(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockAggregator) SumShortTermLiabilities(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockAggregator) SumOpenSalesInvoices(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockAggregator) SumOpenPurchaseInvoices(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockAggregator) FindPayablesDueBetween(ctx context.Context, companyID uuid.UUID, start, end time.Time, statuses []ledger.PayableStatus) ([]ledger.AccountsPayable, error) {
	args := m.Called(ctx, companyID, start, end, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.AccountsPayable), args.Error(1)
}

func (m *mockAggregator) FindReceivablesOverdueBefore(ctx context.Context, companyID uuid.UUID, before time.Time, excluded ledger.ReceivableStatus) ([]ledger.AccountsReceivable, error) {
	args := m.Called(ctx, companyID, before, excluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.AccountsReceivable), args.Error(1)
}

type mockAlertRepository struct {
	mock.Mock
}

func (m *mockAlertRepository) Save(ctx context.Context, a *alert.Alert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alert.Alert), args.Error(1)
}

func (m *mockAlertRepository) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alert.Alert), args.Error(1)
}

func (m *mockAlertRepository) FindActiveByCompanyID(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alert.Alert), args.Error(1)
}

func (m *mockAlertRepository) FindUnreadByCompanyID(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alert.Alert), args.Error(1)
}

func (m *mockAlertRepository) FindByCompanyIDAndType(ctx context.Context, companyID uuid.UUID, alertType alert.Type) ([]alert.Alert, error) {
	args := m.Called(ctx, companyID, alertType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alert.Alert), args.Error(1)
}

func (m *mockAlertRepository) FindByCompanyIDAndSeverity(ctx context.Context, companyID uuid.UUID, severity alert.Severity) ([]alert.Alert, error) {
	args := m.Called(ctx, companyID, severity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alert.Alert), args.Error(1)
}

func (m *mockAlertRepository) CountUnreadByCompanyID(ctx context.Context, companyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

// captureSink collects generated alerts in memory
type captureSink struct {
	alerts []*alert.Alert
}

func (s *captureSink) Store(_ context.Context, a *alert.Alert) error {
	s.alerts = append(s.alerts, a)
	return nil
}

func (s *captureSink) bySeverity(severity alert.Severity) []*alert.Alert {
	var out []*alert.Alert
	for _, a := range s.alerts {
		if a.Severity == severity {
			out = append(out, a)
		}
	}
	return out
}

// Helpers

func mustDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testCompany(id uuid.UUID) *company.Company {
	c, _ := company.NewCompany("Acme Manufacturing", company.CompanyTypeSME, "USD")
	c.ID = id
	return c
}

func stubAggregates(agg *mockAggregator, companyID uuid.UUID, cash, receivables, payables, inventory, shortTermDebt, sales, purchases string) {
	agg.On("SumCash", mock.Anything, companyID).Return(mustDecimal(cash), nil)
	agg.On("SumReceivables", mock.Anything, companyID).Return(mustDecimal(receivables), nil)
	agg.On("SumPayables", mock.Anything, companyID).Return(mustDecimal(payables), nil)
	agg.On("SumInventoryValue", mock.Anything, companyID).Return(mustDecimal(inventory), nil)
	agg.On("SumShortTermLiabilities", mock.Anything, companyID).Return(mustDecimal(shortTermDebt), nil)
	agg.On("SumOpenSalesInvoices", mock.Anything, companyID).Return(mustDecimal(sales), nil)
	agg.On("SumOpenPurchaseInvoices", mock.Anything, companyID).Return(mustDecimal(purchases), nil)
}

func stubEmptyProjection(agg *mockAggregator, companyID uuid.UUID) {
	agg.On("FindReceivablesOverdueBefore", mock.Anything, companyID, mock.Anything, ledger.ReceivableStatusPaid).
		Return([]ledger.AccountsReceivable{}, nil)
	agg.On("FindPayablesDueBetween", mock.Anything, companyID, mock.Anything, mock.Anything, ledger.UnpaidPayableStatuses()).
		Return([]ledger.AccountsPayable{}, nil)
}

func newTestEngine(companyRepo *mockCompanyRepository, agg *mockAggregator, sink AlertSink) *AlertRulesEngine {
	builder := workingcapital.NewMetricsSnapshotBuilder(companyRepo, agg, new(mockAlertRepository))
	return NewAlertRulesEngine(builder, agg, sink, zap.NewNop())
}

// Tests

func TestGenerateAlerts_HealthyCompany(t *testing.T) {
	companyID := uuid.New()
	companyRepo := new(mockCompanyRepository)
	agg := new(mockAggregator)
	sink := &captureSink{}

	companyRepo.On("FindByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
	// CR 2.25, quick 1.25, cash ratio 0.5, DSO 15, DPO 30, DIO 50, CCC 35
	stubAggregates(agg, companyID, "50000", "75000", "60000", "100000", "40000", "450000", "180000")
	stubEmptyProjection(agg, companyID)

	engine := newTestEngine(companyRepo, agg, sink)
	count, err := engine.GenerateAlerts(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, 0, count)
	assert.Empty(t, sink.alerts)
}

func TestGenerateAlerts_DistressedCompany(t *testing.T) {
	companyID := uuid.New()
	companyRepo := new(mockCompanyRepository)
	agg := new(mockAggregator)
	sink := &captureSink{}

	companyRepo.On("FindByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
	// assets 105000 vs liabilities 120000: CR 0.88, quick 0.21, cash ratio
	// 0.04, NWC -15000. No open invoices, so the day metrics stay at zero.
	stubAggregates(agg, companyID, "5000", "20000", "90000", "80000", "30000", "0", "0")

	agg.On("FindReceivablesOverdueBefore", mock.Anything, companyID, mock.Anything, ledger.ReceivableStatusPaid).
		Return([]ledger.AccountsReceivable{}, nil)
	pay, err := ledger.NewAccountsPayable(companyID, "Vendor A", mustDecimal("20000"), "USD", time.Now().AddDate(0, 0, 10), ledger.PayableStatusApproved)
	require.NoError(t, err)
	agg.On("FindPayablesDueBetween", mock.Anything, companyID, mock.Anything, mock.Anything, ledger.UnpaidPayableStatuses()).
		Return([]ledger.AccountsPayable{*pay}, nil)

	engine := newTestEngine(companyRepo, agg, sink)
	count, err := engine.GenerateAlerts(context.Background(), companyID)
	require.NoError(t, err)

	// cash gap: projected -15000 and reserves below floor
	// liquidity: critical current ratio, quick ratio, cash ratio
	// working capital: negative NWC, ratio ex-inventory below 1
	assert.Equal(t, 7, count)
	require.Len(t, sink.alerts, 7)

	assert.Len(t, sink.bySeverity(alert.SeverityCritical), 3)
	assert.Len(t, sink.bySeverity(alert.SeverityHigh), 2)
	assert.Len(t, sink.bySeverity(alert.SeverityMedium), 2)

	for _, a := range sink.alerts {
		assert.Equal(t, companyID, a.CompanyID)
		assert.NotEmpty(t, a.TriggerMetric)
		assert.NotEmpty(t, a.TriggerValue)
		assert.False(t, a.Read)
		assert.True(t, a.IsActive())
	}
}

func TestGenerateLiquidityAlerts_ThinBuffer(t *testing.T) {
	companyID := uuid.New()
	companyRepo := new(mockCompanyRepository)
	agg := new(mockAggregator)
	sink := &captureSink{}

	companyRepo.On("FindByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
	// CR 1.2 sits in the [1.0, 1.5) advisory band; no inventory so the quick
	// ratio matches, and cash covers the 0.2 cash ratio floor
	stubAggregates(agg, companyID, "30000", "90000", "70000", "0", "30000", "0", "0")

	engine := newTestEngine(companyRepo, agg, sink)
	count, err := engine.GenerateLiquidityAlerts(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	require.Len(t, sink.alerts, 1)
	assert.Equal(t, alert.TypeLiquidityIssue, sink.alerts[0].Type)
	assert.Equal(t, alert.SeverityMedium, sink.alerts[0].Severity)
	assert.Equal(t, "current_ratio", sink.alerts[0].TriggerMetric)
	assert.Equal(t, "1.2", sink.alerts[0].TriggerValue)
}

func TestGenerateLiquidityAlerts_QuickRatioBreach(t *testing.T) {
	companyID := uuid.New()
	companyRepo := new(mockCompanyRepository)
	agg := new(mockAggregator)
	sink := &captureSink{}

	companyRepo.On("FindByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
	// CR 1.55 and cash ratio 0.25 are both healthy, but stripping the 100000
	// of inventory leaves a quick ratio of 0.55
	stubAggregates(agg, companyID, "25000", "30000", "70000", "100000", "30000", "0", "0")

	engine := newTestEngine(companyRepo, agg, sink)
	count, err := engine.GenerateLiquidityAlerts(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	require.Len(t, sink.alerts, 1)
	// a quick ratio breach is filed as a liquidity issue
	assert.Equal(t, alert.TypeLiquidityIssue, sink.alerts[0].Type)
	assert.Equal(t, alert.SeverityHigh, sink.alerts[0].Severity)
	assert.Equal(t, "quick_ratio", sink.alerts[0].TriggerMetric)
	assert.Equal(t, "0.55", sink.alerts[0].TriggerValue)
}

func TestGenerateAlerts_NoDeduplication(t *testing.T) {
	companyID := uuid.New()
	companyRepo := new(mockCompanyRepository)
	agg := new(mockAggregator)
	sink := &captureSink{}

	companyRepo.On("FindByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
	stubAggregates(agg, companyID, "30000", "90000", "70000", "0", "30000", "0", "0")

	engine := newTestEngine(companyRepo, agg, sink)

	// each run inserts fresh rows for the same conditions
	for i := 0; i < 3; i++ {
		count, err := engine.GenerateLiquidityAlerts(context.Background(), companyID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}
	assert.Len(t, sink.alerts, 3)
}

func TestGenerateAlerts_CompanyNotFound(t *testing.T) {
	companyID := uuid.New()
	companyRepo := new(mockCompanyRepository)
	companyRepo.On("FindByID", mock.Anything, companyID).Return(nil, shared.ErrNotFound)

	engine := newTestEngine(companyRepo, new(mockAggregator), &captureSink{})
	_, err := engine.GenerateAlerts(context.Background(), companyID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGenerateCCCAlerts_SlowCycle(t *testing.T) {
	companyID := uuid.New()
	companyRepo := new(mockCompanyRepository)
	agg := new(mockAggregator)
	sink := &captureSink{}

	companyRepo.On("FindByID", mock.Anything, companyID).Return(testCompany(companyID), nil)
	// daily sales 1000, daily purchases 1000: DSO 90, DPO 20, DIO 80, CCC 150
	stubAggregates(agg, companyID, "100000", "90000", "20000", "80000", "0", "90000", "90000")

	engine := newTestEngine(companyRepo, agg, sink)
	count, err := engine.GenerateCCCAlerts(context.Background(), companyID)
	require.NoError(t, err)

	// long cycle, slow collections, early supplier payment, slow inventory
	assert.Equal(t, 4, count)

	metricsSeen := make(map[string]bool)
	for _, a := range sink.alerts {
		assert.Equal(t, alert.TypeCCCIssue, a.Type)
		metricsSeen[a.TriggerMetric] = true
	}
	assert.True(t, metricsSeen["cash_conversion_cycle"])
	assert.True(t, metricsSeen["days_sales_outstanding"])
	assert.True(t, metricsSeen["days_payable_outstanding"])
	assert.True(t, metricsSeen["days_inventory_outstanding"])
}

func TestRulesForFamily(t *testing.T) {
	assert.Len(t, rulesForFamily(familyCashGap), 2)
	assert.Len(t, rulesForFamily(familyLiquidity), 4)
	assert.Len(t, rulesForFamily(familyWorkingCapitalRatio), 2)
	assert.Len(t, rulesForFamily(familyCashConversion), 4)
}

func TestMatchers(t *testing.T) {
	one := decimal.NewFromInt(1)
	onePointFive := decimal.NewFromFloat(1.5)

	inBand := between(one, onePointFive)
	assert.True(t, inBand(one), "lower bound is inclusive")
	assert.True(t, inBand(decimal.NewFromFloat(1.49)))
	assert.False(t, inBand(onePointFive), "upper bound is exclusive")
	assert.False(t, inBand(decimal.NewFromFloat(0.99)))

	early := positiveBelow(decimal.NewFromInt(30))
	assert.True(t, early(decimal.NewFromInt(15)))
	assert.False(t, early(decimal.Zero), "zero means no data, not early payment")
	assert.False(t, early(decimal.NewFromInt(30)))
	assert.False(t, early(decimal.NewFromInt(-5)))
}
