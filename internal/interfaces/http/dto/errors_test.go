package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	expected := map[string]int{
		ErrCodeUnknown:             http.StatusInternalServerError,
		ErrCodeInternal:            http.StatusInternalServerError,
		ErrCodeValidation:          http.StatusBadRequest,
		ErrCodeValidationRequired:  http.StatusBadRequest,
		ErrCodeNotFound:            http.StatusNotFound,
		ErrCodeAlreadyExists:       http.StatusConflict,
		ErrCodeConflict:            http.StatusConflict,
		ErrCodeInvalidState:        http.StatusUnprocessableEntity,
		ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
		ErrCodeBadRequest:          http.StatusBadRequest,
		ErrCodeInvalidInput:        http.StatusBadRequest,
		ErrCodePayloadTooLarge:     http.StatusRequestEntityTooLarge,
		ErrCodeUpstreamUnavailable: http.StatusServiceUnavailable,
	}

	for code, status := range expected {
		assert.Equal(t, status, GetHTTPStatus(code), code)
	}

	// unmapped codes fall back to 500
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_NEW"))
}

func TestNormalizeErrorCode(t *testing.T) {
	// domain codes translate to the API convention
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeAlreadyExists, NormalizeErrorCode("ALREADY_EXISTS"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_INPUT"))
	assert.Equal(t, ErrCodeInvalidState, NormalizeErrorCode("INVALID_STATE"))
	assert.Equal(t, ErrCodeUpstreamUnavailable, NormalizeErrorCode("UPSTREAM_UNAVAILABLE"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("VALIDATION_ERROR"))

	// codes already in API form, or unknown, pass through
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "CUSTOM_ERROR", NormalizeErrorCode("CUSTOM_ERROR"))
}

func TestErrorCodes_AllMappedAndPrefixed(t *testing.T) {
	allCodes := []string{
		ErrCodeUnknown, ErrCodeInternal,
		ErrCodeValidation, ErrCodeValidationRequired, ErrCodeValidationFormat, ErrCodeValidationRange,
		ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeConflict,
		ErrCodeInvalidState, ErrCodeBusinessRule,
		ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON, ErrCodePayloadTooLarge,
		ErrCodeUpstreamUnavailable,
	}

	for _, code := range allCodes {
		status, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "%s missing from ErrorCodeHTTPStatus", code)
		assert.Greater(t, status, 0)
		assert.Contains(t, code, "ERR_")
	}
}

func TestNewErrorResponse_NormalizesDomainCode(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse("NOT_FOUND", "Company not found")
	after := time.Now()

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Company not found", resp.Error.Message)
	assert.False(t, resp.Error.Timestamp.Before(before))
	assert.False(t, resp.Error.Timestamp.After(after))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeConflict, "Import already running", "req-123")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConflict, resp.Error.Code)
	assert.Equal(t, "Import already running", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Validation failed", "req-789", []ValidationDetail{
		{Field: "source_type", Message: "Unknown import source"},
		{Field: "schedule", Message: "Must be @every <duration> or HH:MM"},
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "source_type", resp.Error.Details[0].Field)
	assert.Equal(t, "Unknown import source", resp.Error.Details[0].Message)
}

func TestNewErrorResponseWithHelp(t *testing.T) {
	resp := NewErrorResponseWithHelp(ErrCodeInvalidInput, "Unsupported file type", "req-001",
		"https://docs.example.com/errors/imports")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidInput, resp.Error.Code)
	assert.Equal(t, "https://docs.example.com/errors/imports", resp.Error.Help)
}

func TestErrorResponse_JSONRoundTrip(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Company not found", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"current_ratio": "1.55"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"CASH_GAP", "OVERDUE_RECEIVABLES"}, 100, 1, 10)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
	assert.Equal(t, 10, resp.Meta.TotalPages)
}

func TestNewSuccessResponseWithMeta_Pagination(t *testing.T) {
	tests := []struct {
		total         int64
		page          int
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 1, 10, 10, 10},
		{101, 1, 10, 11, 10},
		{0, 1, 10, 0, 10},
		{9, 1, 10, 1, 10},
		{10, 1, 10, 1, 10},
		{11, 1, 10, 2, 10},
		// zero or negative page size falls back to the default of 20
		{100, 1, 0, 5, 20},
		{100, 1, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, tt.page, tt.pageSize)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}
