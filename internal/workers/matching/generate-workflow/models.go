// internal/workers/matching/generate-workflow/models.go
package generateworkflow

import (
	"project-workers/internal/models"
	"project-workers/pkg/registry"
)

type Input struct {
	RequestType  string `json:"requestType"`
	Description  string `json:"description,omitempty"`
	Requirements string `json:"requirements,omitempty"`
}

type Output struct {
	WorkflowPlan models.WorkflowPlan `json:"workflowPlan"`
}

// InputSchema leaves requestType open so unknown types surface as INVALID_REQUEST_TYPE.
func InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"requestType"},
		"properties": map[string]interface{}{
			"requestType":  map[string]interface{}{"type": "string"},
			"description":  map[string]interface{}{"type": "string"},
			"requirements": map[string]interface{}{"type": "string"},
		},
	}
}

func OutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"workflowPlan"},
		"properties": map[string]interface{}{
			"workflowPlan": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"requestType", "estimatedDuration", "taskBreakdown"},
			},
		},
	}
}

func Activity() registry.Activity {
	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "Generate Workflow",
		Description:          "Expands a request type into its task breakdown with suggested employees per task",
		Category:             "matching",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          InputSchema(),
		OutputSchema:         OutputSchema(),
		ErrorCodes: []string{
			"INVALID_JOB_INPUT", "INVALID_REQUEST_TYPE", "EMPLOYEE_FETCH_FAILED",
			"WORKLOAD_QUERY_FAILED", "WORKFLOW_GENERATION_TIMEOUT",
		},
		Timeout: "30s",
		Retries: 3,
		Tags:    []string{"matching", "workflow"},
	}
}
