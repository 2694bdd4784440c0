package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError_RetryableCodes(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{
			name:            "employee fetch retries three times",
			err:             NewEmployeeFetchFailedError(errors.New("connection refused")),
			expectedCode:    "EMPLOYEE_FETCH_FAILED",
			expectedRetries: 3,
		},
		{
			name:            "workload query retries three times",
			err:             NewWorkloadQueryFailedError(errors.New("deadlock")),
			expectedCode:    "WORKLOAD_QUERY_FAILED",
			expectedRetries: 3,
		},
		{
			name:            "invalid request type is terminal",
			err:             NewInvalidRequestTypeError("mobile_game"),
			expectedCode:    "INVALID_REQUEST_TYPE",
			expectedRetries: 0,
		},
		{
			name:            "invalid input is terminal",
			err:             NewInvalidJobInputError("requestType is required"),
			expectedCode:    "INVALID_JOB_INPUT",
			expectedRetries: 0,
		},
		{
			name:            "missing request is terminal",
			err:             NewRequestNotFoundError("req-1"),
			expectedCode:    "REQUEST_NOT_FOUND",
			expectedRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectedRetries, bpmnErr.Retries)
			assert.Equal(t, tt.err.Retryable, bpmnErr.Retryable)
			assert.Equal(t, string(tt.err.Code), bpmnErr.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_UnmappedCodePassesThrough(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewBusinessRuleError("rule", "details"))
	assert.Equal(t, "BUSINESS_RULE_VIOLATION", bpmnErr.Code)
	assert.Zero(t, bpmnErr.Retries)
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewInvalidRequestTypeError("unknown"))
	vars := bpmnErr.ToErrorVariables()

	assert.Equal(t, "INVALID_REQUEST_TYPE", vars["errorCode"])
	assert.Equal(t, "Invalid request type", vars["errorMessage"])
	assert.Equal(t, "requestType: unknown", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
	assert.Contains(t, vars, "timestamp")
}

func TestAsStandardError_Wrapped(t *testing.T) {
	stdErr := NewDatabaseInsertFailedError(errors.New("unique violation"))
	wrapped := fmt.Errorf("create request: %w", stdErr)

	got, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Same(t, stdErr, got)

	_, ok = AsStandardError(errors.New("plain"))
	assert.False(t, ok)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidRequestType))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidJobInput))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeEmployeeFetchFailed))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeWorkloadQueryFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseInsertFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeWorkflowTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeRequestNotFound))
}
