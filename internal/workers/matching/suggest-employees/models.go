// internal/workers/matching/suggest-employees/models.go
package suggestemployees

import (
	"project-workers/internal/models"
	"project-workers/pkg/registry"
)

type Input struct {
	Task models.TaskDescriptor `json:"task"`
}

type Output struct {
	SuggestedEmployees []models.MatchResult `json:"suggestedEmployees"`
}

func InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"task"},
		"properties": map[string]interface{}{
			"task": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"name"},
				"properties": map[string]interface{}{
					"name":           map[string]interface{}{"type": "string", "minLength": 1},
					"team":           map[string]interface{}{"type": "string"},
					"estimatedHours": map[string]interface{}{"type": "integer", "minimum": 0},
					"requiredSkills": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	}
}

func OutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"suggestedEmployees"},
		"properties": map[string]interface{}{
			"suggestedEmployees": map[string]interface{}{
				"type":     "array",
				"maxItems": 3,
			},
		},
	}
}

// Activity describes this worker for the activity registry.
func Activity() registry.Activity {
	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "Suggest Employees",
		Description:          "Ranks active employees against one task and returns the top three",
		Category:             "matching",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          InputSchema(),
		OutputSchema:         OutputSchema(),
		ErrorCodes:           []string{"INVALID_JOB_INPUT", "EMPLOYEE_FETCH_FAILED", "WORKLOAD_QUERY_FAILED", "WORKFLOW_GENERATION_TIMEOUT"},
		Timeout:              "15s",
		Retries:              3,
		Tags:                 []string{"matching", "employees"},
	}
}
