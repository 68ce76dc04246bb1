package alerting

import (
	"context"
	"testing"

	"github.com/fintech/wcm/internal/domain/alert"
	"github.com/fintech/wcm/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAlertService_MarkRead(t *testing.T) {
	repo := new(mockAlertRepository)
	companyID := uuid.New()

	a, err := alert.New(companyID, alert.TypeCashGap, alert.SeverityMedium, "Low cash reserves", "msg")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, a.ID).Return(a, nil)
	repo.On("Save", mock.Anything, a).Return(nil)

	svc := NewAlertService(repo)
	got, err := svc.MarkRead(context.Background(), a.ID)
	require.NoError(t, err)

	assert.True(t, got.Read)
	assert.NotNil(t, got.ReadAt)
	repo.AssertCalled(t, "Save", mock.Anything, a)
}

func TestAlertService_MarkRead_NotFound(t *testing.T) {
	repo := new(mockAlertRepository)
	alertID := uuid.New()
	repo.On("FindByID", mock.Anything, alertID).Return(nil, shared.ErrNotFound)

	svc := NewAlertService(repo)
	_, err := svc.MarkRead(context.Background(), alertID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAlertService_Dismiss(t *testing.T) {
	repo := new(mockAlertRepository)
	companyID := uuid.New()

	a, err := alert.New(companyID, alert.TypeQuickRatio, alert.SeverityHigh, "Quick ratio below 1.0", "msg")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, a.ID).Return(a, nil)
	repo.On("Save", mock.Anything, a).Return(nil)

	svc := NewAlertService(repo)
	got, err := svc.Dismiss(context.Background(), a.ID)
	require.NoError(t, err)

	assert.True(t, got.Dismissed)
	assert.NotNil(t, got.DismissedAt)
	assert.False(t, got.IsActive())
}

func TestAlertService_ListByType(t *testing.T) {
	repo := new(mockAlertRepository)
	companyID := uuid.New()

	a, err := alert.New(companyID, alert.TypeCashGap, alert.SeverityHigh, "Projected cash gap", "msg")
	require.NoError(t, err)
	repo.On("FindByCompanyIDAndType", mock.Anything, companyID, alert.TypeCashGap).Return([]alert.Alert{*a}, nil)

	svc := NewAlertService(repo)
	got, err := svc.ListByType(context.Background(), companyID, alert.TypeCashGap)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAlertService_ListByType_Invalid(t *testing.T) {
	svc := NewAlertService(new(mockAlertRepository))
	_, err := svc.ListByType(context.Background(), uuid.New(), alert.Type("BOGUS"))
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestAlertService_ListBySeverity_Invalid(t *testing.T) {
	svc := NewAlertService(new(mockAlertRepository))
	_, err := svc.ListBySeverity(context.Background(), uuid.New(), alert.Severity("URGENT"))
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestAlertService_CountUnread(t *testing.T) {
	repo := new(mockAlertRepository)
	companyID := uuid.New()
	repo.On("CountUnreadByCompanyID", mock.Anything, companyID).Return(int64(4), nil)

	svc := NewAlertService(repo)
	count, err := svc.CountUnread(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
