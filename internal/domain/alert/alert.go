package alert

import (
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/google/uuid"
)

// Type categorizes what condition raised the alert
type Type string

const (
	TypeCashGap             Type = "CASH_GAP"
	TypeLiquidityIssue      Type = "LIQUIDITY_ISSUE"
	TypeOverdueReceivable   Type = "OVERDUE_RECEIVABLE"
	TypeOverduePayable      Type = "OVERDUE_PAYABLE"
	TypeLowInventory        Type = "LOW_INVENTORY"
	TypeCashFlowForecast    Type = "CASH_FLOW_FORECAST"
	TypeWorkingCapitalRatio Type = "WORKING_CAPITAL_RATIO"
	TypeQuickRatio          Type = "QUICK_RATIO"
	TypeCCCIssue            Type = "CCC_ISSUE"
)

// IsValid checks if the alert type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeCashGap, TypeLiquidityIssue, TypeOverdueReceivable, TypeOverduePayable,
		TypeLowInventory, TypeCashFlowForecast, TypeWorkingCapitalRatio,
		TypeQuickRatio, TypeCCCIssue:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Severity ranks how urgent an alert is
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// Alert is a persisted notification that a working-capital rule fired.
// Read and Dismissed are one-way flags: once set they are never cleared,
// though re-marking refreshes the timestamp.
type Alert struct {
	shared.CompanyEntity
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	Type             Type       `json:"type"`
	Severity         Severity   `json:"severity"`
	Read             bool       `json:"read"`
	Dismissed        bool       `json:"dismissed"`
	TriggerMetric    string     `json:"trigger_metric,omitempty"`
	TriggerThreshold string     `json:"trigger_threshold,omitempty"`
	TriggerValue     string     `json:"trigger_value,omitempty"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	DismissedAt      *time.Time `json:"dismissed_at,omitempty"`
}

// New creates an unread, undismissed alert for the given company
func New(companyID uuid.UUID, alertType Type, severity Severity, title, message string) (*Alert, error) {
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid alert type: "+string(alertType))
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid alert severity: "+string(severity))
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Alert title cannot be empty")
	}
	return &Alert{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Title:         title,
		Message:       message,
		Type:          alertType,
		Severity:      severity,
	}, nil
}

// WithTrigger records the metric, threshold and observed value that fired
// the alert. Returns the alert for chaining during construction.
func (a *Alert) WithTrigger(metric, threshold, value string) *Alert {
	a.TriggerMetric = metric
	a.TriggerThreshold = threshold
	a.TriggerValue = value
	return a
}

// MarkRead sets the read flag. Re-marking refreshes ReadAt.
func (a *Alert) MarkRead() {
	now := time.Now()
	a.Read = true
	a.ReadAt = &now
	a.UpdatedAt = now
}

// Dismiss sets the dismissed flag. Re-dismissing refreshes DismissedAt.
func (a *Alert) Dismiss() {
	now := time.Now()
	a.Dismissed = true
	a.DismissedAt = &now
	a.UpdatedAt = now
}

// IsActive returns true if the alert has not been dismissed
func (a *Alert) IsActive() bool {
	return !a.Dismissed
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "alerts"
}
