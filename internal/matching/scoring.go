// internal/matching/scoring.go
package matching

import (
	"fmt"
	"math"
	"strings"

	"project-workers/internal/models"
)

const (
	skillWeight      = 50.0
	departmentWeight = 10
	maxScore         = 100
)

// Score computes the match between one employee and one task. pendingTasks is
// the number of unfinished tasks currently assigned to the employee.
func Score(employee models.Employee, task models.TaskDescriptor, pendingTasks int) models.MatchResult {
	var (
		score   float64
		reasons []string
	)

	if len(task.RequiredSkills) > 0 {
		matched := matchingSkills(employee.Skills, task.RequiredSkills)
		score += float64(len(matched)) / float64(len(task.RequiredSkills)) * skillWeight
		if len(matched) > 0 {
			reasons = append(reasons, fmt.Sprintf("Has %d/%d required skills: %s",
				len(matched), len(task.RequiredSkills), strings.Join(matched, ", ")))
		}
	}

	points, reason := workloadScore(pendingTasks)
	score += float64(points)
	reasons = append(reasons, reason)

	if points, reason, ok := availabilityScore(employee.Availability); ok {
		score += float64(points)
		reasons = append(reasons, reason)
	}

	if task.Team != "" && employee.Department != "" && containsFold(task.Team, employee.Department) {
		score += departmentWeight
		reasons = append(reasons, fmt.Sprintf("From %s department", employee.Department))
	}

	final := int(math.Round(score))
	if final > maxScore {
		final = maxScore
	}

	return models.MatchResult{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Department:   employee.Department,
		Score:        final,
		Reason:       strings.Join(reasons, ", "),
	}
}

// matchingSkills returns the required skills, in task order, that at least one
// employee skill covers.
func matchingSkills(employeeSkills, required []string) []string {
	var matched []string
	for _, req := range required {
		for _, skill := range employeeSkills {
			if containsFold(req, skill) {
				matched = append(matched, req)
				break
			}
		}
	}
	return matched
}

func workloadScore(pending int) (int, string) {
	switch {
	case pending <= 0:
		return 20, "No pending tasks"
	case pending == 1:
		return 15, "1 pending task"
	case pending == 2:
		return 15, "2 pending tasks"
	case pending <= 5:
		return 10, fmt.Sprintf("%d pending tasks", pending)
	default:
		return 5, fmt.Sprintf("%d pending tasks (heavy workload)", pending)
	}
}

// availabilityScore reports ok=false for unknown states so the stage is skipped.
func availabilityScore(a models.Availability) (int, string, bool) {
	switch a {
	case models.AvailabilityAvailable:
		return 20, "Currently available", true
	case models.AvailabilityBusy:
		return 8, "Busy but can be assigned", true
	case models.AvailabilityOnLeave:
		return 0, "On leave", true
	}
	return 0, "", false
}

// containsFold is a case-insensitive substring test in both directions.
// Blank values never match.
func containsFold(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
