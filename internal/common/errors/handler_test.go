package errors

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-workers/internal/common/camunda/camundatest"
	"project-workers/internal/common/logger"
)

func TestErrorHandler_RetryableErrorFailsJob(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(1, "suggest-employees", `{}`, 3)
	h := NewErrorHandler(logger.NewTestLogger(t))

	h.HandleJobError(context.Background(), client, job, NewWorkloadQueryFailedError(errors.New("deadlock")))

	require.Len(t, client.Failed(), 1)
	assert.Empty(t, client.Thrown())

	failed := client.Failed()[0]
	assert.Equal(t, int64(1), failed.JobKey)
	assert.Equal(t, int32(2), failed.Retries, "never more than the broker's remaining retries minus one")
	assert.Equal(t, "Pending task count lookup failed", failed.ErrorMessage)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(failed.Variables), &vars))
	assert.Equal(t, "WORKLOAD_QUERY_FAILED", vars["errorCode"])
}

func TestErrorHandler_LastRetryThrows(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(2, "suggest-employees", `{}`, 1)

	NewErrorHandler(logger.NewTestLogger(t)).HandleJobError(context.Background(), client, job,
		NewEmployeeFetchFailedError(errors.New("connection refused")))

	assert.Empty(t, client.Failed(), "no retries left means no fail command")
	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "EMPLOYEE_FETCH_FAILED", client.Thrown()[0].ErrorCode)
}

func TestRemainingRetries(t *testing.T) {
	tests := []struct {
		name        string
		codeRetries int
		jobRetries  int32
		want        int
	}{
		{"code limit below job retries", 2, 5, 2},
		{"job retries cap the code limit", 3, 3, 2},
		{"last attempt", 3, 1, 0},
		{"broker reports none", 3, 0, 0},
		{"non-retryable code", 0, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remainingRetries(tt.codeRetries, tt.jobRetries))
		})
	}
}

func TestErrorHandler_NonRetryableErrorThrows(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(3, "generate-workflow", `{}`, 3)

	NewErrorHandler(logger.NewTestLogger(t)).HandleJobError(context.Background(), client, job,
		NewInvalidRequestTypeError("mobile_game"))

	assert.Empty(t, client.Failed())
	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INVALID_REQUEST_TYPE", client.Thrown()[0].ErrorCode)
}

func TestErrorHandler_UnknownErrorThrowsInternal(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(4, "generate-workflow", `{}`, 3)

	NewErrorHandler(logger.NewTestLogger(t)).HandleJobError(context.Background(), client, job, errors.New("boom"))

	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INTERNAL_ERROR", client.Thrown()[0].ErrorCode)
}

func TestErrorHandler_ExpiredContextStillReports(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(5, "generate-workflow", `{}`, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewErrorHandler(logger.NewTestLogger(t)).HandleJobError(ctx, client, job, NewInvalidJobInputError("bad"))

	assert.Len(t, client.Thrown(), 1)
}
