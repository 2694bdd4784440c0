// internal/workers/matching/suggest-employees/handler.go
package suggestemployees

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"project-workers/internal/common/camunda"
	apperrors "project-workers/internal/common/errors"
	"project-workers/internal/common/logger"
	"project-workers/internal/common/metrics"
	"project-workers/internal/common/validation"
	"project-workers/internal/matching"
	"project-workers/internal/models"
)

const TaskType = "suggest-employees"

var inputSchema = validation.MustCompile(InputSchema())

// Suggester ranks employees for one task; satisfied by *matching.Ranker.
type Suggester interface {
	Suggest(ctx context.Context, task models.TaskDescriptor) ([]models.MatchResult, error)
}

type Handler struct {
	config    *Config
	suggester Suggester
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, suggester Suggester, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		suggester: suggester,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	tracker := metrics.TrackJob(TaskType)

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	input, err := parseInput(job)
	if err != nil {
		return h.failJob(ctx, client, job, tracker, err)
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		return h.failJob(ctx, client, job, tracker, err)
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err})
		tracker.Failed("COMPLETE_FAILED")
		return err
	}
	tracker.Completed()
	return nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, tracker *metrics.JobTracker, err error) error {
	code := string(apperrors.ErrCodeInternal)
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	tracker.Failed(code)
	h.errors.HandleJobError(ctx, client, job, err)
	return err
}

func parseInput(job entities.Job) (*Input, error) {
	result, err := inputSchema.Validate(job.Variables)
	if err != nil {
		return nil, apperrors.NewInvalidJobInputError(err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidJobInputError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewInvalidJobInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute ranks employees for the task. Errors are StandardErrors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Task.RequiredSkills == nil {
		input.Task.RequiredSkills = []string{}
	}

	suggestions, err := h.suggester.Suggest(ctx, input.Task)
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	if suggestions == nil {
		suggestions = []models.MatchResult{}
	}

	if len(suggestions) == 0 {
		metrics.SuggestionsEmpty.Inc()
	}
	for _, s := range suggestions {
		metrics.SuggestionScore.Observe(float64(s.Score))
	}

	h.logger.Info("employees suggested", map[string]interface{}{
		"task":        input.Task.Name,
		"suggestions": len(suggestions),
	})

	return &Output{SuggestedEmployees: suggestions}, nil
}

func classifyError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewWorkflowTimeoutError(TaskType)
	case errors.Is(err, matching.ErrEmployeeFetch):
		return apperrors.NewEmployeeFetchFailedError(err)
	case errors.Is(err, matching.ErrWorkloadQuery):
		return apperrors.NewWorkloadQueryFailedError(err)
	default:
		return err
	}
}
