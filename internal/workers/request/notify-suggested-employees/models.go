package notifysuggestedemployees

import "project-workers/pkg/registry"

const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"
)

type Input struct {
	RequestID string `json:"requestId"`
}

type Output struct {
	NotificationID    string   `json:"notificationId"`
	NotifiedEmployees []string `json:"notifiedEmployees"`
	Status            string   `json:"status"`
	SentAt            string   `json:"sentAt"`
}

func InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"requestId"},
		"properties": map[string]interface{}{
			"requestId": map[string]interface{}{"type": "string", "minLength": 1},
		},
	}
}

func OutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"notificationId", "notifiedEmployees", "status", "sentAt"},
		"properties": map[string]interface{}{
			"notificationId": map[string]interface{}{"type": "string"},
			"notifiedEmployees": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"status": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{StatusSent, StatusPartial, StatusDisabled, StatusSkipped},
			},
			"sentAt": map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}
}

func Activity() registry.Activity {
	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "Notify Suggested Employees",
		Description:          "Emails the top suggested employee of every task, with SMS for high-priority requests",
		Category:             "request",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		InputSchema:          InputSchema(),
		OutputSchema:         OutputSchema(),
		ErrorCodes: []string{
			"INVALID_JOB_INPUT", "REQUEST_NOT_FOUND", "DATABASE_QUERY_FAILED", "NOTIFICATION_SEND_FAILED",
		},
		Timeout: "30s",
		Retries: 3,
		Tags:    []string{"request", "notification", "email", "sms"},
	}
}
