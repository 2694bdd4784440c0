package createrequestrecord

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"project-workers/internal/common/camunda"
	apperrors "project-workers/internal/common/errors"
	"project-workers/internal/common/logger"
	"project-workers/internal/common/metrics"
	"project-workers/internal/common/validation"
	"project-workers/internal/models"
)

const TaskType = "create-request-record"

var inputSchema = validation.MustCompile(InputSchema())

// RequestWriter is satisfied by *postgres.Store.
type RequestWriter interface {
	CreateRequest(ctx context.Context, rec *models.RequestRecord) error
}

type Handler struct {
	config *Config
	store  RequestWriter
	errors *apperrors.ErrorHandler
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, store RequestWriter, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
		now:    time.Now,
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

// Execute stores the request with status pending. Errors are StandardErrors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	requestType := models.RequestType(input.RequestType)
	if !requestType.IsValid() {
		return nil, apperrors.NewInvalidRequestTypeError(input.RequestType)
	}

	priority := input.Priority
	if priority == "" {
		priority = h.config.DefaultPriority
	}

	plan := input.WorkflowPlan
	if plan.RequestType == "" {
		plan.RequestType = requestType
	}
	if plan.TaskBreakdown == nil {
		plan.TaskBreakdown = []models.TaskBreakdownEntry{}
	}

	rec := &models.RequestRecord{
		ID:                uuid.New().String(),
		ClientID:          input.ClientID,
		RequestType:       requestType,
		Description:       input.Description,
		Requirements:      input.Requirements,
		Priority:          priority,
		Status:            models.RequestStatusPending,
		WorkflowPlan:      plan,
		EstimatedDuration: plan.EstimatedDuration,
		CreatedAt:         h.now().UTC().Format(time.RFC3339),
	}

	if err := h.store.CreateRequest(ctx, rec); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	h.logger.Info("request record created", map[string]interface{}{
		"requestId":   rec.ID,
		"clientId":    rec.ClientID,
		"requestType": rec.RequestType,
		"priority":    rec.Priority,
	})

	return &Output{
		RequestID:     rec.ID,
		RequestStatus: rec.Status,
		CreatedAt:     rec.CreatedAt,
	}, nil
}
