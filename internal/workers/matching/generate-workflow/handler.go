// internal/workers/matching/generate-workflow/handler.go
package generateworkflow

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
	"project-workers/internal/workflow"
)

const TaskType = "generate-workflow"

var inputSchema = validation.MustCompile(InputSchema())

// PlanGenerator is satisfied by *workflow.Generator.
type PlanGenerator interface {
	Generate(ctx context.Context, requestType, description, requirements string) (*models.WorkflowPlan, error)
}

type Handler struct {
	config    *Config
	generator PlanGenerator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, generator PlanGenerator, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		generator: generator,
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

// Execute generates the workflow plan. Errors are StandardErrors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	plan, err := h.generator.Generate(ctx, input.RequestType, input.Description, input.Requirements)
	if err != nil {
		return nil, classifyError(ctx, input.RequestType, err)
	}

	metrics.WorkflowPlansGenerated.WithLabelValues(string(plan.RequestType)).Inc()
	for _, entry := range plan.TaskBreakdown {
		if len(entry.SuggestedEmployees) == 0 {
			metrics.SuggestionsEmpty.Inc()
		}
		for _, s := range entry.SuggestedEmployees {
			metrics.SuggestionScore.Observe(float64(s.Score))
		}
	}

	h.logger.Info("workflow plan generated", map[string]interface{}{
		"requestType":       plan.RequestType,
		"estimatedDuration": plan.EstimatedDuration,
		"tasks":             len(plan.TaskBreakdown),
	})

	return &Output{WorkflowPlan: *plan}, nil
}

func classifyError(ctx context.Context, requestType string, err error) error {
	switch {
	case errors.Is(err, workflow.ErrInvalidRequestType):
		return apperrors.NewInvalidRequestTypeError(requestType)
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
