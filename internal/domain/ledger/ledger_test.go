package ledger

import (
	"testing"
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/fintech/wcm/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInvalidInput(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestParseTransactionType(t *testing.T) {
	for _, s := range []string{"INCOME", "EXPENSE", "TRANSFER", "PAYMENT_RECEIVED", "PAYMENT_SENT", "REFUND", "OTHER"} {
		got, err := ParseTransactionType(s)
		require.NoError(t, err, s)
		assert.Equal(t, TransactionType(s), got)
	}

	_, err := ParseTransactionType("income")
	assertInvalidInput(t, err)
	_, err = ParseTransactionType("")
	assertInvalidInput(t, err)
}

func TestTransaction_IsInflow(t *testing.T) {
	inflows := []TransactionType{TransactionTypeIncome, TransactionTypePaymentReceived, TransactionTypeRefund}
	outflows := []TransactionType{TransactionTypeExpense, TransactionTypeTransfer, TransactionTypePaymentSent, TransactionTypeOther}

	for _, tt := range inflows {
		tx := &Transaction{Type: tt}
		assert.True(t, tx.IsInflow(), "%s", tt)
	}
	for _, tt := range outflows {
		tx := &Transaction{Type: tt}
		assert.False(t, tx.IsInflow(), "%s", tt)
	}
}

func TestNewTransaction(t *testing.T) {
	companyID := uuid.New()
	amount := decimal.NewFromInt(1500)
	tx, err := NewTransaction(companyID, time.Now(), TransactionTypeIncome, "Invoice payment", amount, valueobject.USD)
	require.NoError(t, err)

	assert.Equal(t, companyID, tx.CompanyID)
	assert.True(t, tx.AmountBase.Equal(amount))
	assert.True(t, tx.ExchangeRate.Equal(decimal.NewFromInt(1)))

	_, err = NewTransaction(companyID, time.Now(), TransactionType("BOGUS"), "x", amount, valueobject.USD)
	assertInvalidInput(t, err)
}

func TestParseInvoiceType(t *testing.T) {
	got, err := ParseInvoiceType("SALES")
	require.NoError(t, err)
	assert.Equal(t, InvoiceTypeSales, got)

	got, err = ParseInvoiceType("PURCHASE")
	require.NoError(t, err)
	assert.Equal(t, InvoiceTypePurchase, got)

	_, err = ParseInvoiceType("")
	assertInvalidInput(t, err)
	_, err = ParseInvoiceType("CREDIT")
	assertInvalidInput(t, err)
}

func TestParseInvoiceStatus(t *testing.T) {
	// empty and unrecognized values both default to SENT
	assert.Equal(t, InvoiceStatusSent, ParseInvoiceStatus(""))
	assert.Equal(t, InvoiceStatusSent, ParseInvoiceStatus("ARCHIVED"))
	assert.Equal(t, InvoiceStatusSent, ParseInvoiceStatus("BOGUS"))

	assert.Equal(t, InvoiceStatusOverdue, ParseInvoiceStatus("OVERDUE"))
	assert.Equal(t, InvoiceStatusPaid, ParseInvoiceStatus("PAID"))
}

func TestParseInventoryStatus(t *testing.T) {
	// empty and unrecognized values both default to IN_STOCK
	assert.Equal(t, InventoryStatusInStock, ParseInventoryStatus(""))
	assert.Equal(t, InventoryStatusInStock, ParseInventoryStatus("BOGUS"))

	assert.Equal(t, InventoryStatusLowStock, ParseInventoryStatus("LOW_STOCK"))
	assert.Equal(t, InventoryStatusDiscontinued, ParseInventoryStatus("DISCONTINUED"))
}

func TestOpenInvoiceStatuses(t *testing.T) {
	open := OpenInvoiceStatuses()
	assert.ElementsMatch(t, []InvoiceStatus{InvoiceStatusSent, InvoiceStatusOverdue, InvoiceStatusPartiallyPaid}, open)
}

func TestInvoice_IsOpen(t *testing.T) {
	tests := []struct {
		status InvoiceStatus
		open   bool
	}{
		{InvoiceStatusDraft, false},
		{InvoiceStatusSent, true},
		{InvoiceStatusOverdue, true},
		{InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusPaid, false},
		{InvoiceStatusCancelled, false},
		{InvoiceStatusDisputed, false},
	}

	for _, tt := range tests {
		inv := &Invoice{Status: tt.status}
		assert.Equal(t, tt.open, inv.IsOpen(), "%s", tt.status)
	}
}

func TestParseReceivableStatus(t *testing.T) {
	got, err := ParseReceivableStatus("DISPUTED")
	require.NoError(t, err)
	assert.Equal(t, ReceivableStatusDisputed, got)

	_, err = ParseReceivableStatus("")
	assertInvalidInput(t, err)
	_, err = ParseReceivableStatus("SETTLED")
	assertInvalidInput(t, err)
}

func TestReceivableStatus_CountsAsOutstanding(t *testing.T) {
	tests := []struct {
		status      ReceivableStatus
		outstanding bool
	}{
		{ReceivableStatusOpen, true},
		{ReceivableStatusOverdue, true},
		{ReceivableStatusPartiallyPaid, true},
		{ReceivableStatusDisputed, true},
		{ReceivableStatusPaid, false},
		{ReceivableStatusWrittenOff, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.outstanding, tt.status.CountsAsOutstanding(), "%s", tt.status)
	}
}

func TestReceivableStatus_IsExpectedInflow(t *testing.T) {
	assert.True(t, ReceivableStatusOpen.IsExpectedInflow())
	assert.True(t, ReceivableStatusPartiallyPaid.IsExpectedInflow())

	// disputed is outstanding but not an expected inflow
	assert.False(t, ReceivableStatusDisputed.IsExpectedInflow())
	assert.False(t, ReceivableStatusOverdue.IsExpectedInflow())
	assert.False(t, ReceivableStatusPaid.IsExpectedInflow())
}

func TestAccountsReceivable_IsOverdueAsOf(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	r := &AccountsReceivable{Status: ReceivableStatusOpen, DueDate: now.AddDate(0, 0, -5)}
	assert.True(t, r.IsOverdueAsOf(now))

	r.DueDate = now.AddDate(0, 0, 5)
	assert.False(t, r.IsOverdueAsOf(now))

	// a paid receivable is never overdue
	r.Status = ReceivableStatusPaid
	r.DueDate = now.AddDate(0, 0, -30)
	assert.False(t, r.IsOverdueAsOf(now))
}

func TestParsePayableStatus(t *testing.T) {
	got, err := ParsePayableStatus("APPROVED")
	require.NoError(t, err)
	assert.Equal(t, PayableStatusApproved, got)

	_, err = ParsePayableStatus("")
	assertInvalidInput(t, err)
	_, err = ParsePayableStatus("SCHEDULED")
	assertInvalidInput(t, err)
}

func TestPayableStatus_CountsAsOutstanding(t *testing.T) {
	outstanding := []PayableStatus{PayableStatusPending, PayableStatusApproved, PayableStatusPartiallyPaid, PayableStatusOverdue}
	settled := []PayableStatus{PayableStatusPaid, PayableStatusDisputed}

	for _, s := range outstanding {
		assert.True(t, s.CountsAsOutstanding(), "%s", s)
	}
	for _, s := range settled {
		assert.False(t, s.CountsAsOutstanding(), "%s", s)
	}
}

func TestUnpaidPayableStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]PayableStatus{PayableStatusPending, PayableStatusApproved, PayableStatusPartiallyPaid, PayableStatusOverdue},
		UnpaidPayableStatuses())
}

func TestUpcomingPayableStatuses(t *testing.T) {
	upcoming := UpcomingPayableStatuses()
	assert.NotContains(t, upcoming, PayableStatusOverdue)
	assert.ElementsMatch(t,
		[]PayableStatus{PayableStatusPending, PayableStatusApproved, PayableStatusPartiallyPaid},
		upcoming)
}
