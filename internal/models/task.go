// internal/models/task.go
package models

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// PendingStatuses are the task statuses that count towards an employee's workload.
var PendingStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusToDo,
	TaskStatusInProgress,
}

// TaskDescriptor describes a unit of work an employee can be matched against.
type TaskDescriptor struct {
	Name           string   `json:"name"`
	Team           string   `json:"team,omitempty"`
	EstimatedHours int      `json:"estimatedHours"`
	RequiredSkills []string `json:"requiredSkills"`
}

// MatchResult is the outcome of scoring one employee against one task.
type MatchResult struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Department   string `json:"department,omitempty"`
	Score        int    `json:"score"`
	Reason       string `json:"reason"`
}
