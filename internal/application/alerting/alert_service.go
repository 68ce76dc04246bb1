package alerting

import (
	"context"

	"github.com/fintech/wcm/internal/domain/alert"
	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertService handles alert lifecycle and query operations
type AlertService struct {
	alertRepo alert.Repository
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo alert.Repository) *AlertService {
	return &AlertService{alertRepo: alertRepo}
}

// MarkRead marks an alert as read. The flag is one-way; re-marking an
// already read alert refreshes its ReadAt timestamp.
// Returns shared.ErrNotFound for an unknown alert.
func (s *AlertService) MarkRead(ctx context.Context, alertID uuid.UUID) (*alert.Alert, error) {
	a, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	a.MarkRead()
	if err := s.alertRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Dismiss dismisses an alert. The flag is one-way; re-dismissing refreshes
// the DismissedAt timestamp.
// Returns shared.ErrNotFound for an unknown alert.
func (s *AlertService) Dismiss(ctx context.Context, alertID uuid.UUID) (*alert.Alert, error) {
	a, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	a.Dismiss()
	if err := s.alertRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns all alerts for a company, newest first
func (s *AlertService) List(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	return s.alertRepo.FindByCompanyID(ctx, companyID)
}

// ListActive returns undismissed alerts for a company
func (s *AlertService) ListActive(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	return s.alertRepo.FindActiveByCompanyID(ctx, companyID)
}

// ListUnread returns unread alerts for a company
func (s *AlertService) ListUnread(ctx context.Context, companyID uuid.UUID) ([]alert.Alert, error) {
	return s.alertRepo.FindUnreadByCompanyID(ctx, companyID)
}

// ListByType returns alerts of one type for a company.
// Returns shared.ErrInvalidInput for an unknown type.
func (s *AlertService) ListByType(ctx context.Context, companyID uuid.UUID, alertType alert.Type) ([]alert.Alert, error) {
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid alert type: "+alertType.String())
	}
	return s.alertRepo.FindByCompanyIDAndType(ctx, companyID, alertType)
}

// ListBySeverity returns alerts of one severity for a company.
// Returns shared.ErrInvalidInput for an unknown severity.
func (s *AlertService) ListBySeverity(ctx context.Context, companyID uuid.UUID, severity alert.Severity) ([]alert.Alert, error) {
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid alert severity: "+severity.String())
	}
	return s.alertRepo.FindByCompanyIDAndSeverity(ctx, companyID, severity)
}

// CountUnread returns the number of unread alerts for a company
func (s *AlertService) CountUnread(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return s.alertRepo.CountUnreadByCompanyID(ctx, companyID)
}
