// internal/models/employee.go
package models

// Availability is the self-reported availability state of an employee.
type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityBusy      Availability = "Busy"
	AvailabilityOnLeave   Availability = "On Leave"
)

// Employee is the read-only view of an employee record used for matching.
type Employee struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Skills       []string     `json:"skills"`
	Availability Availability `json:"availability"`
	Department   string       `json:"department,omitempty"`
	Active       bool         `json:"active"`
}
