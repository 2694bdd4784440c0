package notifysuggestedemployees

import (
	"context"
	"encoding/json"
	"errors"
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
	"project-workers/internal/store/postgres"
)

const TaskType = "notify-suggested-employees"

var inputSchema = validation.MustCompile(InputSchema())

// Store is satisfied by *postgres.Store.
type Store interface {
	GetRequest(ctx context.Context, id string) (*models.RequestRecord, error)
	EmployeeContacts(ctx context.Context, employeeIDs []string) (map[string]postgres.Contact, error)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

type SMSSender interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config *Config
	store  Store
	email  EmailSender
	sms    SMSSender
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

// NewHandler accepts nil senders for channels that are not configured.
func NewHandler(config *Config, store Store, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
		email:  email,
		sms:    sms,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
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

// assignment groups the tasks an employee is the top suggestion for.
type assignment struct {
	employeeID string
	tasks      []models.TaskBreakdownEntry
}

// Execute notifies the top suggestion of each task in the stored plan. Errors are StandardErrors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	rec, err := h.store.GetRequest(ctx, input.RequestID)
	if errors.Is(err, postgres.ErrRequestNotFound) {
		return nil, apperrors.NewRequestNotFoundError(input.RequestID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}

	output := &Output{
		NotificationID:    uuid.New().String(),
		NotifiedEmployees: []string{},
		SentAt:            time.Now().UTC().Format(time.RFC3339),
	}

	assignments := topAssignments(rec.WorkflowPlan)
	if len(assignments) == 0 {
		output.Status = StatusSkipped
		return output, nil
	}

	emailOn := h.config.EmailEnabled && h.email != nil
	smsOn := h.config.SMSEnabled && h.sms != nil && meetsPriority(rec.Priority, h.config.SMSPriorityThreshold)
	if !emailOn && !smsOn {
		output.Status = StatusDisabled
		return output, nil
	}

	ids := make([]string, len(assignments))
	for i, a := range assignments {
		ids[i] = a.employeeID
	}
	contacts, err := h.store.EmployeeContacts(ctx, ids)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}

	var lastErr *apperrors.StandardError
	for _, a := range assignments {
		contact, ok := contacts[a.employeeID]
		if !ok {
			h.logger.Warn("no active contact for suggested employee", map[string]interface{}{
				"employeeId": a.employeeID,
				"requestId":  rec.ID,
			})
			continue
		}

		reached := false
		if emailOn && contact.Email != "" {
			if _, err := h.email.Send(ctx, contact.Email, emailSubject(rec), emailBody(rec, contact, a.tasks)); err != nil {
				lastErr = h.sendFailed("email", a.employeeID, err)
			} else {
				reached = true
			}
		}
		if smsOn && contact.Phone != "" {
			if _, err := h.sms.Send(ctx, contact.Phone, smsBody(rec, a.tasks)); err != nil {
				lastErr = h.sendFailed("sms", a.employeeID, err)
			} else {
				reached = true
			}
		}
		if reached {
			output.NotifiedEmployees = append(output.NotifiedEmployees, a.employeeID)
		}
	}

	switch {
	case len(output.NotifiedEmployees) == 0 && lastErr != nil:
		return nil, lastErr
	case len(output.NotifiedEmployees) == 0:
		output.Status = StatusSkipped
	case lastErr != nil:
		output.Status = StatusPartial
	default:
		output.Status = StatusSent
	}

	h.logger.Info("suggested employees notified", map[string]interface{}{
		"requestId":      rec.ID,
		"notificationId": output.NotificationID,
		"notified":       len(output.NotifiedEmployees),
		"status":         output.Status,
	})

	return output, nil
}

func (h *Handler) sendFailed(channel, employeeID string, err error) *apperrors.StandardError {
	h.logger.Error("notification send failed", map[string]interface{}{
		"channel":    channel,
		"employeeId": employeeID,
		"error":      err.Error(),
	})
	return apperrors.NewNotificationSendFailedError(channel, err)
}

// topAssignments returns the first suggestion of every task grouped by employee,
// in order of first appearance.
func topAssignments(plan models.WorkflowPlan) []assignment {
	var out []assignment
	index := make(map[string]int)
	for _, entry := range plan.TaskBreakdown {
		if len(entry.SuggestedEmployees) == 0 {
			continue
		}
		id := entry.SuggestedEmployees[0].EmployeeID
		if id == "" {
			continue
		}
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, assignment{employeeID: id})
		}
		out[i].tasks = append(out[i].tasks, entry)
	}
	return out
}

var priorityRank = map[string]int{
	models.RequestPriorityLow:    0,
	models.RequestPriorityMedium: 1,
	models.RequestPriorityHigh:   2,
}

// meetsPriority reports whether priority is at or above threshold. Unknown values never qualify.
func meetsPriority(priority, threshold string) bool {
	p, ok := priorityRank[strings.ToLower(priority)]
	if !ok {
		return false
	}
	t, ok := priorityRank[strings.ToLower(threshold)]
	if !ok {
		return false
	}
	return p >= t
}

func emailSubject(rec *models.RequestRecord) string {
	return fmt.Sprintf("New %s assignment suggestion", rec.RequestType)
}

func emailBody(rec *models.RequestRecord, contact postgres.Contact, tasks []models.TaskBreakdownEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", contact.Name)
	fmt.Fprintf(&b, "You are the top suggested match for the following tasks on request %s (%s, priority %s):\n\n",
		rec.ID, rec.RequestType, rec.Priority)
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s (%dh)", t.Name, t.EstimatedHours)
		if len(t.SuggestedEmployees) > 0 && t.SuggestedEmployees[0].Reason != "" {
			fmt.Fprintf(&b, ": %s", t.SuggestedEmployees[0].Reason)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func smsBody(rec *models.RequestRecord, tasks []models.TaskBreakdownEntry) string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name
	}
	return fmt.Sprintf("Priority %s request %s: you are suggested for %s", rec.Priority, rec.ID, strings.Join(names, ", "))
}
