package generateworkflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-workers/internal/common/camunda/camundatest"
	apperrors "project-workers/internal/common/errors"
	"project-workers/internal/common/logger"
	"project-workers/internal/matching"
	"project-workers/internal/models"
	"project-workers/internal/store/cache"
	"project-workers/internal/store/postgres"
	"project-workers/internal/workflow"
)

// ==========================
// Test Helpers
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

// createStoreBackedHandler wires the full chain: generator, ranker, Redis roster
// cache and the PostgreSQL store.
func createStoreBackedHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := logger.NewTestLogger(t)
	store := postgres.New(db, log)
	roster := cache.NewRosterCache(store, rdb, time.Minute, log)
	ranker := matching.NewRanker(&matching.RankerConfig{MaxConcurrency: 2}, roster, store, log)

	return NewHandler(createTestConfig(), workflow.NewGenerator(ranker, log), log), mock, mr
}

type memoryEmployees []models.Employee

func (m memoryEmployees) ActiveEmployees(context.Context) ([]models.Employee, error) {
	return m, nil
}

type memoryWorkload map[string]int

func (m memoryWorkload) PendingTaskCount(_ context.Context, id string) (int, error) {
	return m[id], nil
}

func createMemoryHandler(t *testing.T, employees []models.Employee, workload map[string]int) *Handler {
	log := logger.NewTestLogger(t)
	ranker := matching.NewRanker(nil, memoryEmployees(employees), memoryWorkload(workload), log)
	return NewHandler(createTestConfig(), workflow.NewGenerator(ranker, log), log)
}

func expectResearchTeam(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM employees\s+WHERE is_active = true`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "skills", "availability", "department"}).
			AddRow("e1", "Alice", nil, nil, []byte(`["Research","Data Analysis"]`), "Available", "Research").
			AddRow("e2", "Bob", nil, nil, []byte(`["Technical Documentation"]`), "Busy", "Research"))
}

func expectPending(mock sqlmock.Sqlmock, employeeID string, count int) {
	mock.ExpectQuery(`FROM tasks`).
		WithArgs(employeeID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_ResearchPlan(t *testing.T) {
	handler, mock, mr := createStoreBackedHandler(t)

	expectResearchTeam(mock)
	expectPending(mock, "e1", 2)
	expectPending(mock, "e2", 0)

	output, err := handler.Execute(context.Background(), &Input{RequestType: "research", Description: "Market study"})
	require.NoError(t, err)

	plan := output.WorkflowPlan
	assert.Equal(t, models.RequestTypeResearch, plan.RequestType)
	assert.Equal(t, 80, plan.EstimatedDuration)
	require.Len(t, plan.TaskBreakdown, 1)

	entry := plan.TaskBreakdown[0]
	assert.Equal(t, "Research & Analysis", entry.Name)
	assert.Equal(t, "Research", entry.Team)
	assert.Equal(t, 80, entry.EstimatedHours)
	assert.Equal(t, []string{"Research", "Analysis", "Documentation"}, entry.RequiredSkills)

	require.Len(t, entry.SuggestedEmployees, 2)
	// Alice: 2/3 skills (33.3) + 2 pending (15) + available (20) + department (10) = 78
	assert.Equal(t, "e1", entry.SuggestedEmployees[0].EmployeeID)
	assert.Equal(t, 78, entry.SuggestedEmployees[0].Score)
	assert.Equal(t, "Has 2/3 required skills: Research, Analysis, 2 pending tasks, Currently available, From Research department",
		entry.SuggestedEmployees[0].Reason)
	// Bob: 1/3 skills (16.7) + no pending (20) + busy (8) + department (10) = 55
	assert.Equal(t, "e2", entry.SuggestedEmployees[1].EmployeeID)
	assert.Equal(t, 55, entry.SuggestedEmployees[1].Score)

	assert.True(t, mr.Exists(cache.RosterKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_RosterCachedWorkloadFresh(t *testing.T) {
	handler, mock, _ := createStoreBackedHandler(t)

	expectResearchTeam(mock)
	expectPending(mock, "e1", 0)
	expectPending(mock, "e2", 0)

	first, err := handler.Execute(context.Background(), &Input{RequestType: "research"})
	require.NoError(t, err)
	assert.Equal(t, "e1", first.WorkflowPlan.TaskBreakdown[0].SuggestedEmployees[0].EmployeeID)

	// Roster comes from Redis now; only the workload queries hit the database.
	expectPending(mock, "e1", 6)
	expectPending(mock, "e2", 0)

	second, err := handler.Execute(context.Background(), &Input{RequestType: "research"})
	require.NoError(t, err)

	suggestions := second.WorkflowPlan.TaskBreakdown[0].SuggestedEmployees
	// Alice drops to 33+5+20+10 = 68, Bob stays at 55; Alice still leads
	assert.Equal(t, 68, suggestions[0].Score)
	assert.Contains(t, suggestions[0].Reason, "6 pending tasks (heavy workload)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_WebDevOrderAndLimit(t *testing.T) {
	employees := []models.Employee{
		{ID: "e1", Name: "Alice", Skills: []string{"React", "JavaScript"}, Availability: models.AvailabilityAvailable, Department: "Development", Active: true},
		{ID: "e2", Name: "Bob", Skills: []string{"Figma", "UI Design"}, Availability: models.AvailabilityAvailable, Department: "Design", Active: true},
		{ID: "e3", Name: "Carol", Skills: []string{"Testing"}, Availability: models.AvailabilityBusy, Department: "QA", Active: true},
		{ID: "e4", Name: "Dan", Skills: []string{"AWS", "Docker"}, Availability: models.AvailabilityAvailable, Department: "DevOps", Active: true},
		{ID: "e5", Name: "Eve", Skills: []string{"Node.js"}, Availability: models.AvailabilityOnLeave, Department: "Development", Active: false},
	}
	handler := createMemoryHandler(t, employees, map[string]int{"e3": 4})

	output, err := handler.Execute(context.Background(), &Input{RequestType: "web_dev"})
	require.NoError(t, err)

	plan := output.WorkflowPlan
	assert.Equal(t, 160, plan.EstimatedDuration)

	names := make([]string, len(plan.TaskBreakdown))
	for i, entry := range plan.TaskBreakdown {
		names[i] = entry.Name
		assert.LessOrEqual(t, len(entry.SuggestedEmployees), 3)
		for j := 1; j < len(entry.SuggestedEmployees); j++ {
			assert.GreaterOrEqual(t, entry.SuggestedEmployees[j-1].Score, entry.SuggestedEmployees[j].Score)
		}
		for _, s := range entry.SuggestedEmployees {
			assert.NotEqual(t, "e5", s.EmployeeID, "inactive employees are never suggested")
		}
	}
	assert.Equal(t, []string{
		"Requirements Analysis", "UI/UX Design", "Frontend Development",
		"Backend Development", "Testing & QA", "Deployment",
	}, names)

	assert.Equal(t, "e2", plan.TaskBreakdown[1].SuggestedEmployees[0].EmployeeID)
	assert.Equal(t, "e1", plan.TaskBreakdown[2].SuggestedEmployees[0].EmployeeID)
	assert.Equal(t, "e4", plan.TaskBreakdown[5].SuggestedEmployees[0].EmployeeID)
}

func TestHandler_Execute_InvalidRequestType(t *testing.T) {
	handler, mock, _ := createStoreBackedHandler(t)

	_, err := handler.Execute(context.Background(), &Input{RequestType: "mobile_game"})
	require.Error(t, err)

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidRequestType, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet(), "no lookups for unknown request types")
}

// ==========================
// Handle
// ==========================

func TestHandler_Handle_CompletesWithPlan(t *testing.T) {
	handler := createMemoryHandler(t, []models.Employee{
		{ID: "e1", Name: "Alice", Skills: []string{"Research"}, Availability: models.AvailabilityAvailable, Department: "Research", Active: true},
	}, nil)
	client := camundatest.NewJobClient()

	err := handler.Handle(context.Background(), client,
		camundatest.NewJob(1, TaskType, `{"requestType":"research","description":"d","requirements":"r","clientId":"c-1"}`, 3))
	require.NoError(t, err)

	require.Len(t, client.Completed(), 1)
	var output Output
	require.NoError(t, json.Unmarshal([]byte(client.Completed()[0].Variables), &output))
	assert.Equal(t, models.RequestTypeResearch, output.WorkflowPlan.RequestType)
	require.Len(t, output.WorkflowPlan.TaskBreakdown, 1)
	assert.Equal(t, "e1", output.WorkflowPlan.TaskBreakdown[0].SuggestedEmployees[0].EmployeeID)
}

func TestHandler_Handle_InvalidRequestTypeThrows(t *testing.T) {
	handler := createMemoryHandler(t, nil, nil)
	client := camundatest.NewJobClient()

	err := handler.Handle(context.Background(), client, camundatest.NewJob(2, TaskType, `{"requestType":"mobile_game"}`, 3))
	require.Error(t, err)

	assert.Empty(t, client.Completed())
	assert.Empty(t, client.Failed())
	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INVALID_REQUEST_TYPE", client.Thrown()[0].ErrorCode)
}

func TestHandler_Handle_MissingRequestTypeThrows(t *testing.T) {
	handler := createMemoryHandler(t, nil, nil)
	client := camundatest.NewJobClient()

	err := handler.Handle(context.Background(), client, camundatest.NewJob(3, TaskType, `{"description":"x"}`, 3))
	require.Error(t, err)

	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INVALID_JOB_INPUT", client.Thrown()[0].ErrorCode)
}

func TestHandler_Handle_WorkloadErrorFails(t *testing.T) {
	handler, mock, _ := createStoreBackedHandler(t)

	expectResearchTeam(mock)
	mock.ExpectQuery(`FROM tasks`).WithArgs("e1", sqlmock.AnyArg()).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectQuery(`FROM tasks`).WithArgs("e2", sqlmock.AnyArg()).WillReturnError(errors.New("deadlock detected"))
	client := camundatest.NewJobClient()

	err := handler.Handle(context.Background(), client, camundatest.NewJob(4, TaskType, `{"requestType":"research"}`, 3))
	require.Error(t, err)

	assert.Empty(t, client.Completed())
	require.Len(t, client.Failed(), 1)
	assert.Equal(t, int32(2), client.Failed()[0].Retries)
}
