//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-workers/internal/common/camunda"
	"project-workers/internal/common/camunda/camundatest"
	"project-workers/internal/common/config"
	"project-workers/internal/common/database"
	"project-workers/internal/common/logger"
	"project-workers/internal/matching"
	"project-workers/internal/store/cache"
	"project-workers/internal/store/postgres"
	"project-workers/internal/workflow"

	generateworkflow "project-workers/internal/workers/matching/generate-workflow"
	suggestemployees "project-workers/internal/workers/matching/suggest-employees"
	createrequestrecord "project-workers/internal/workers/request/create-request-record"
	notifysuggestedemployees "project-workers/internal/workers/request/notify-suggested-employees"
)

var cfg *config.Config

func TestMain(m *testing.M) {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if host := os.Getenv("E2E_POSTGRES_HOST"); host != "" {
		cfg.Database.Postgres.Host = host
	}
	if addr := os.Getenv("E2E_REDIS_ADDRESS"); addr != "" {
		cfg.Database.Redis.Address = addr
	}

	os.Exit(m.Run())
}

type environment struct {
	db      *sql.DB
	store   *postgres.Store
	handler struct {
		suggest  *suggestemployees.Handler
		generate *generateworkflow.Handler
		create   *createrequestrecord.Handler
		notify   *notifysuggestedemployees.Handler
	}
}

func setup(t *testing.T) *environment {
	t.Helper()
	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")
	t.Cleanup(func() { pg.Close() })

	rdb := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")
	t.Cleanup(func() { rdb.Close() })

	createTables(t, pg.DB)
	seedEmployees(t, pg.DB)

	log := logger.NewTestLogger(t)
	store := postgres.New(pg.DB, log)

	require.NoError(t, rdb.Client.Del(ctx, cache.RosterKey).Err())
	roster := cache.NewRosterCache(store, rdb.Client, time.Minute, log)

	ranker := matching.NewRanker(&matching.RankerConfig{MaxConcurrency: 4}, roster, store, log)

	env := &environment{db: pg.DB, store: store}
	env.handler.suggest = suggestemployees.NewHandler(nil, ranker, log)
	env.handler.generate = generateworkflow.NewHandler(nil, workflow.NewGenerator(ranker, log), log)
	env.handler.create = createrequestrecord.NewHandler(nil, store, log)
	env.handler.notify = notifysuggestedemployees.NewHandler(&notifysuggestedemployees.Config{
		Timeout: 10 * time.Second,
	}, store, nil, nil, log)
	return env
}

// ==========================
// Database Tables Setup + Test Data
// ==========================

func createTables(t *testing.T, db *sql.DB) {
	t.Helper()
	queries := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255),
			phone VARCHAR(50),
			skills JSONB,
			availability VARCHAR(50),
			department VARCHAR(100),
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id SERIAL PRIMARY KEY,
			title VARCHAR(255),
			assigned_to VARCHAR(255),
			assignee VARCHAR(255),
			status VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS client_requests (
			id VARCHAR(255) PRIMARY KEY,
			client_id VARCHAR(255) NOT NULL,
			request_type VARCHAR(50) NOT NULL,
			description TEXT,
			requirements TEXT,
			priority VARCHAR(50),
			status VARCHAR(50),
			workflow_plan JSONB,
			estimated_duration INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id SERIAL PRIMARY KEY,
			event_type VARCHAR(100),
			resource_type VARCHAR(100),
			resource_id VARCHAR(255),
			details JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, q := range queries {
		_, err := db.Exec(q)
		require.NoError(t, err)
	}
}

func seedEmployees(t *testing.T, db *sql.DB) {
	t.Helper()
	statements := []string{
		`DELETE FROM tasks WHERE title LIKE 'e2e-%'`,
		`DELETE FROM employees WHERE id LIKE 'e2e-%'`,
		`INSERT INTO employees (id, name, email, skills, availability, department, is_active, created_at) VALUES
			('e2e-alice', 'Alice', 'alice@example.com', '["React","JavaScript","CSS"]', 'Available', 'Development', true, NOW() - INTERVAL '3 days'),
			('e2e-bob', 'Bob', 'bob@example.com', '["Figma","UI Design"]', 'Busy', 'Design', true, NOW() - INTERVAL '2 days'),
			('e2e-carol', 'Carol', 'carol@example.com', '"not a list"', 'Available', 'QA', true, NOW() - INTERVAL '1 day'),
			('e2e-dave', 'Dave', 'dave@example.com', '["React"]', 'Available', 'Development', false, NOW())`,
		`INSERT INTO tasks (title, assigned_to, status) VALUES
			('e2e-1', 'e2e-bob', 'To Do'),
			('e2e-2', 'e2e-bob', 'In Progress'),
			('e2e-3', 'e2e-bob', 'Completed')`,
		`INSERT INTO tasks (title, assignee, status) VALUES ('e2e-4', 'e2e-bob', 'Pending')`,
	}
	for _, s := range statements {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
}

// ==========================
// Flows
// ==========================

func run(t *testing.T, h camunda.JobHandler, taskType string, vars interface{}) string {
	t.Helper()
	raw, err := json.Marshal(vars)
	require.NoError(t, err)

	client := camundatest.NewJobClient()
	var job entities.Job = camundatest.NewJob(time.Now().UnixNano(), taskType, string(raw), 3)
	require.NoError(t, h.Handle(context.Background(), client, job))
	require.Len(t, client.Completed(), 1)
	return client.Completed()[0].Variables
}

func TestSuggestEmployees(t *testing.T) {
	env := setup(t)

	out := run(t, env.handler.suggest, suggestemployees.TaskType, map[string]interface{}{
		"task": map[string]interface{}{
			"name":           "Frontend Development",
			"team":           "Development",
			"requiredSkills": []string{"React", "JavaScript", "CSS"},
		},
	})

	var output suggestemployees.Output
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.NotEmpty(t, output.SuggestedEmployees)
	assert.Equal(t, "e2e-alice", output.SuggestedEmployees[0].EmployeeID)
	assert.Equal(t, 100, output.SuggestedEmployees[0].Score)

	for _, s := range output.SuggestedEmployees {
		assert.NotEqual(t, "e2e-dave", s.EmployeeID, "inactive employees are never suggested")
	}
}

func TestClientRequestFlow(t *testing.T) {
	env := setup(t)

	planVars := run(t, env.handler.generate, generateworkflow.TaskType, map[string]interface{}{
		"clientId":     "e2e-client",
		"requestType":  "web_dev",
		"description":  "Marketing site",
		"requirements": "Responsive, CMS backed",
	})

	var generated generateworkflow.Output
	require.NoError(t, json.Unmarshal([]byte(planVars), &generated))
	assert.Equal(t, 160, generated.WorkflowPlan.EstimatedDuration)
	require.Len(t, generated.WorkflowPlan.TaskBreakdown, 6)

	createVars := run(t, env.handler.create, createrequestrecord.TaskType, map[string]interface{}{
		"clientId":     "e2e-client",
		"requestType":  "web_dev",
		"description":  "Marketing site",
		"requirements": "Responsive, CMS backed",
		"priority":     "high",
		"workflowPlan": generated.WorkflowPlan,
	})

	var created createrequestrecord.Output
	require.NoError(t, json.Unmarshal([]byte(createVars), &created))
	assert.Equal(t, "pending", created.RequestStatus)

	rec, err := env.store.GetRequest(context.Background(), created.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "e2e-client", rec.ClientID)
	assert.Equal(t, "high", rec.Priority)
	assert.Equal(t, 160, rec.EstimatedDuration)
	assert.Equal(t, generated.WorkflowPlan.TaskBreakdown[2].SuggestedEmployees[0].EmployeeID,
		rec.WorkflowPlan.TaskBreakdown[2].SuggestedEmployees[0].EmployeeID)

	var audits int
	require.NoError(t, env.db.QueryRow(
		`SELECT COUNT(*) FROM audit_log WHERE resource_id = $1 AND event_type = 'client_request_created'`,
		created.RequestID).Scan(&audits))
	assert.Equal(t, 1, audits)

	notifyVars := run(t, env.handler.notify, notifysuggestedemployees.TaskType, map[string]interface{}{
		"requestId": created.RequestID,
	})

	var notified notifysuggestedemployees.Output
	require.NoError(t, json.Unmarshal([]byte(notifyVars), &notified))
	assert.Equal(t, notifysuggestedemployees.StatusDisabled, notified.Status)
}
