// internal/models/workflow.go
package models

// RequestType identifies a client request template. The set is closed.
type RequestType string

const (
	RequestTypeWebDev    RequestType = "web_dev"
	RequestTypeAppDev    RequestType = "app_dev"
	RequestTypePrototype RequestType = "prototype"
	RequestTypeResearch  RequestType = "research"
)

// RequestTypes lists every supported request type in catalog order.
var RequestTypes = []RequestType{
	RequestTypeWebDev,
	RequestTypeAppDev,
	RequestTypePrototype,
	RequestTypeResearch,
}

// IsValid reports whether r is one of the supported request types.
func (r RequestType) IsValid() bool {
	switch r {
	case RequestTypeWebDev, RequestTypeAppDev, RequestTypePrototype, RequestTypeResearch:
		return true
	}
	return false
}

type TaskBreakdownEntry struct {
	TaskDescriptor
	SuggestedEmployees []MatchResult `json:"suggestedEmployees"`
}

type WorkflowPlan struct {
	RequestType       RequestType          `json:"requestType"`
	EstimatedDuration int                  `json:"estimatedDuration"`
	TaskBreakdown     []TaskBreakdownEntry `json:"taskBreakdown"`
}
