// internal/models/request.go
package models

const (
	RequestStatusPending = "pending"

	RequestPriorityLow    = "low"
	RequestPriorityMedium = "medium"
	RequestPriorityHigh   = "high"
)

// RequestRecord is a client request together with its generated workflow plan.
type RequestRecord struct {
	ID                string       `json:"id"`
	ClientID          string       `json:"clientId"`
	RequestType       RequestType  `json:"requestType"`
	Description       string       `json:"description"`
	Requirements      string       `json:"requirements"`
	Priority          string       `json:"priority"`
	Status            string       `json:"status"`
	WorkflowPlan      WorkflowPlan `json:"workflowPlan"`
	EstimatedDuration int          `json:"estimatedDuration"`
	CreatedAt         string       `json:"createdAt"`
}
