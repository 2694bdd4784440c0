// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidJobInput    ErrorCode = "INVALID_JOB_INPUT"
	ErrCodeInvalidRequestType ErrorCode = "INVALID_REQUEST_TYPE"

	ErrCodeEmployeeFetchFailed ErrorCode = "EMPLOYEE_FETCH_FAILED"
	ErrCodeWorkloadQueryFailed ErrorCode = "WORKLOAD_QUERY_FAILED"
	ErrCodeWorkflowTimeout     ErrorCode = "WORKFLOW_GENERATION_TIMEOUT"

	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDatabaseQueryFailed  ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeRequestNotFound      ErrorCode = "REQUEST_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newStandardError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJobInputError creates a non-retryable error for malformed job variables.
func NewInvalidJobInputError(details string) *StandardError {
	return newStandardError(ErrCodeInvalidJobInput, "Job variables failed validation", details, false)
}

// NewInvalidRequestTypeError creates a non-retryable error for request types outside the catalog.
func NewInvalidRequestTypeError(requestType string) *StandardError {
	return newStandardError(ErrCodeInvalidRequestType, "Invalid request type",
		fmt.Sprintf("requestType: %s", requestType), false)
}

// NewEmployeeFetchFailedError creates a retryable error for active-employee lookup failures.
func NewEmployeeFetchFailedError(err error) *StandardError {
	return newStandardError(ErrCodeEmployeeFetchFailed, "Active employee lookup failed", err.Error(), true)
}

// NewWorkloadQueryFailedError creates a retryable error for pending-task count failures.
func NewWorkloadQueryFailedError(err error) *StandardError {
	return newStandardError(ErrCodeWorkloadQueryFailed, "Pending task count lookup failed", err.Error(), true)
}

// NewWorkflowTimeoutError creates a retryable error for generation that exceeded the job deadline.
func NewWorkflowTimeoutError(operation string) *StandardError {
	return newStandardError(ErrCodeWorkflowTimeout, "Workflow generation timeout",
		fmt.Sprintf("operation: %s", operation), true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newStandardError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

// NewDatabaseQueryFailedError creates a retryable database read error.
func NewDatabaseQueryFailedError(err error) *StandardError {
	return newStandardError(ErrCodeDatabaseQueryFailed, "Database query failed", err.Error(), true)
}

// NewRequestNotFoundError creates a non-retryable error for unknown request records.
func NewRequestNotFoundError(requestID string) *StandardError {
	return newStandardError(ErrCodeRequestNotFound, "Request record not found",
		fmt.Sprintf("requestId: %s", requestID), false)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newStandardError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newStandardError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newStandardError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newStandardError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewBusinessRuleError(message, details string) *StandardError {
	return newStandardError("BUSINESS_RULE_VIOLATION", message, details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newStandardError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by BPMN boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidJobInput:        "INVALID_JOB_INPUT",
	ErrCodeInvalidRequestType:     "INVALID_REQUEST_TYPE",
	ErrCodeEmployeeFetchFailed:    "EMPLOYEE_FETCH_FAILED",
	ErrCodeWorkloadQueryFailed:    "WORKLOAD_QUERY_FAILED",
	ErrCodeWorkflowTimeout:        "WORKFLOW_GENERATION_TIMEOUT",
	ErrCodeDatabaseInsertFailed:   "DATABASE_INSERT_FAILED",
	ErrCodeDatabaseQueryFailed:    "DATABASE_QUERY_FAILED",
	ErrCodeRequestNotFound:        "REQUEST_NOT_FOUND",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEmployeeFetchFailed,
		ErrCodeWorkloadQueryFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeDatabaseQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3
	case ErrCodeWorkflowTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err looking for a StandardError.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "EMPLOYEE") || strings.Contains(codeStr, "WORKLOAD") || strings.Contains(codeStr, "WORKFLOW"):
		return "MATCHING"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "REQUEST"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
