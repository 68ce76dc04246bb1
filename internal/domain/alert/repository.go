package alert

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for alerts
type Repository interface {
	Save(ctx context.Context, a *Alert) error
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]Alert, error)
	FindActiveByCompanyID(ctx context.Context, companyID uuid.UUID) ([]Alert, error)
	FindUnreadByCompanyID(ctx context.Context, companyID uuid.UUID) ([]Alert, error)
	FindByCompanyIDAndType(ctx context.Context, companyID uuid.UUID, alertType Type) ([]Alert, error)
	FindByCompanyIDAndSeverity(ctx context.Context, companyID uuid.UUID, severity Severity) ([]Alert, error)
	CountUnreadByCompanyID(ctx context.Context, companyID uuid.UUID) (int64, error)
}
