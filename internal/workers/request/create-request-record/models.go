package createrequestrecord

import (
	"project-workers/internal/models"
	"project-workers/pkg/registry"
)

type Input struct {
	ClientID     string              `json:"clientId"`
	RequestType  string              `json:"requestType"`
	Description  string              `json:"description,omitempty"`
	Requirements string              `json:"requirements,omitempty"`
	Priority     string              `json:"priority,omitempty"`
	WorkflowPlan models.WorkflowPlan `json:"workflowPlan"`
}

type Output struct {
	RequestID     string `json:"requestId"`
	RequestStatus string `json:"requestStatus"`
	CreatedAt     string `json:"createdAt"`
}

func InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"clientId", "requestType", "workflowPlan"},
		"properties": map[string]interface{}{
			"clientId":     map[string]interface{}{"type": "string", "minLength": 1},
			"requestType":  map[string]interface{}{"type": "string"},
			"description":  map[string]interface{}{"type": "string"},
			"requirements": map[string]interface{}{"type": "string"},
			"priority": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{models.RequestPriorityLow, models.RequestPriorityMedium, models.RequestPriorityHigh},
			},
			"workflowPlan": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"taskBreakdown"},
				"properties": map[string]interface{}{
					"estimatedDuration": map[string]interface{}{"type": "integer", "minimum": 0},
					"taskBreakdown":     map[string]interface{}{"type": "array"},
				},
			},
		},
	}
}

func OutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"requestId", "requestStatus", "createdAt"},
		"properties": map[string]interface{}{
			"requestId":     map[string]interface{}{"type": "string", "format": "uuid"},
			"requestStatus": map[string]interface{}{"type": "string"},
			"createdAt":     map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}
}

func Activity() registry.Activity {
	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "Create Request Record",
		Description:          "Persists a client request together with its generated workflow plan",
		Category:             "request",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          InputSchema(),
		OutputSchema:         OutputSchema(),
		ErrorCodes:           []string{"INVALID_JOB_INPUT", "INVALID_REQUEST_TYPE", "DATABASE_INSERT_FAILED"},
		Timeout:              "10s",
		Retries:              3,
		Tags:                 []string{"request", "database"},
	}
}
