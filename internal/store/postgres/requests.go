// internal/store/postgres/requests.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"project-workers/internal/models"
)

var ErrRequestNotFound = errors.New("request not found")

const (
	insertRequestQuery = `
		INSERT INTO client_requests (
			id, client_id, request_type, description, requirements,
			priority, status, workflow_plan, estimated_duration, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

	insertAuditQuery = `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	getRequestQuery = `
		SELECT id, client_id, request_type, description, requirements,
		       priority, status, workflow_plan, estimated_duration, created_at
		FROM client_requests
		WHERE id = $1`
)

// CreateRequest inserts the request and then writes a best-effort audit row.
func (s *Store) CreateRequest(ctx context.Context, rec *models.RequestRecord) error {
	planJSON, err := json.Marshal(rec.WorkflowPlan)
	if err != nil {
		return fmt.Errorf("marshal workflow plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertRequestQuery,
		rec.ID,
		rec.ClientID,
		string(rec.RequestType),
		rec.Description,
		rec.Requirements,
		rec.Priority,
		rec.Status,
		planJSON,
		rec.EstimatedDuration,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client request: %w", err)
	}

	details, err := json.Marshal(map[string]interface{}{
		"clientId":          rec.ClientID,
		"requestType":       rec.RequestType,
		"priority":          rec.Priority,
		"estimatedDuration": rec.EstimatedDuration,
		"tasks":             len(rec.WorkflowPlan.TaskBreakdown),
	})
	if err != nil {
		details = []byte("{}")
	}

	if _, err := s.db.ExecContext(ctx, insertAuditQuery,
		"client_request_created", "client_request", rec.ID, details, rec.CreatedAt,
	); err != nil {
		s.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":     err.Error(),
			"requestId": rec.ID,
		})
	}

	return nil
}

// GetRequest loads a request by ID, returning ErrRequestNotFound when absent.
func (s *Store) GetRequest(ctx context.Context, id string) (*models.RequestRecord, error) {
	var (
		rec         models.RequestRecord
		requestType string
		planJSON    []byte
		createdAt   time.Time
		description sql.NullString
		reqs        sql.NullString
	)

	err := s.db.QueryRowContext(ctx, getRequestQuery, id).Scan(
		&rec.ID,
		&rec.ClientID,
		&requestType,
		&description,
		&reqs,
		&rec.Priority,
		&rec.Status,
		&planJSON,
		&rec.EstimatedDuration,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query client request %s: %w", id, err)
	}

	rec.RequestType = models.RequestType(requestType)
	rec.Description = description.String
	rec.Requirements = reqs.String
	rec.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	if len(planJSON) > 0 {
		if err := json.Unmarshal(planJSON, &rec.WorkflowPlan); err != nil {
			return nil, fmt.Errorf("decode workflow plan for %s: %w", id, err)
		}
	}

	return &rec, nil
}
