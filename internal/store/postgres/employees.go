// internal/store/postgres/employees.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"project-workers/internal/common/logger"
	"project-workers/internal/models"
)

const (
	activeEmployeesQuery = `
		SELECT id, name, email, phone, skills, availability, department
		FROM employees
		WHERE is_active = true
		ORDER BY created_at, id`

	// tasks carries two legacy assignment columns; either may hold the employee.
	pendingTaskCountQuery = `
		SELECT COUNT(*)
		FROM tasks
		WHERE (assigned_to = $1 OR assignee = $1)
		  AND status = ANY($2)`

	employeeContactsQuery = `
		SELECT id, name, email, phone
		FROM employees
		WHERE id = ANY($1) AND is_active = true`
)

// Store reads employees and tasks and persists client requests.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "postgres-store"}),
	}
}

// ActiveEmployees returns active employees in creation order.
func (s *Store) ActiveEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, activeEmployeesQuery)
	if err != nil {
		return nil, fmt.Errorf("query active employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var (
			e                                      models.Employee
			email, phone, availability, department sql.NullString
			skills                                 []byte
		)
		if err := rows.Scan(&e.ID, &e.Name, &email, &phone, &skills, &availability, &department); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		e.Email = email.String
		e.Phone = phone.String
		e.Availability = models.Availability(availability.String)
		e.Department = department.String
		e.Skills = s.decodeSkills(e.ID, skills)
		e.Active = true
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}

	return employees, nil
}

// decodeSkills treats malformed skill data as no skills.
func (s *Store) decodeSkills(employeeID string, raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var skills []string
	if err := json.Unmarshal(raw, &skills); err != nil {
		s.logger.Warn("ignoring malformed skills", map[string]interface{}{
			"employeeId": employeeID,
			"error":      err.Error(),
		})
		return []string{}
	}
	if skills == nil {
		skills = []string{}
	}
	return skills
}

// PendingTaskCount counts tasks in a pending status assigned to the employee.
func (s *Store) PendingTaskCount(ctx context.Context, employeeID string) (int, error) {
	statuses := make([]string, len(models.PendingStatuses))
	for i, st := range models.PendingStatuses {
		statuses[i] = string(st)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, pendingTaskCountQuery, employeeID, pq.Array(statuses)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending tasks for %s: %w", employeeID, err)
	}
	return count, nil
}

// Contact is the reachable address of an employee.
type Contact struct {
	EmployeeID string
	Name       string
	Email      string
	Phone      string
}

// EmployeeContacts returns contacts for the given active employees, keyed by ID.
// Unknown or inactive IDs are absent from the result.
func (s *Store) EmployeeContacts(ctx context.Context, employeeIDs []string) (map[string]Contact, error) {
	contacts := make(map[string]Contact, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return contacts, nil
	}

	rows, err := s.db.QueryContext(ctx, employeeContactsQuery, pq.Array(employeeIDs))
	if err != nil {
		return nil, fmt.Errorf("query employee contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c            Contact
			email, phone sql.NullString
		)
		if err := rows.Scan(&c.EmployeeID, &c.Name, &email, &phone); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.Email = strings.TrimSpace(email.String)
		c.Phone = strings.TrimSpace(phone.String)
		contacts[c.EmployeeID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}
