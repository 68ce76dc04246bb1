package company

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for companies
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context) ([]Company, error)
	FindActive(ctx context.Context) ([]Company, error)
	Save(ctx context.Context, c *Company) error
}
