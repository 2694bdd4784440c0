package workflow

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-workers/internal/common/logger"
	"project-workers/internal/models"
)

type fakeSuggester struct {
	mu      sync.Mutex
	calls   []string
	failFor string
	jitter  bool
}

func (f *fakeSuggester) Suggest(ctx context.Context, task models.TaskDescriptor) ([]models.MatchResult, error) {
	if f.jitter {
		select {
		case <-time.After(time.Duration(rand.Intn(10)) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, task.Name)
	f.mu.Unlock()

	if task.Name == f.failFor {
		return nil, errors.New("employee store unavailable")
	}
	return []models.MatchResult{
		{EmployeeID: "emp-" + task.Name, Score: 90, Reason: "for " + task.Name},
	}, nil
}

func createTestGenerator(t *testing.T, s Suggester) *Generator {
	return NewGenerator(s, logger.NewTestLogger(t))
}

func TestGenerator_Generate_Research(t *testing.T) {
	s := &fakeSuggester{}
	plan, err := createTestGenerator(t, s).Generate(context.Background(), "research", "market study", "none")

	require.NoError(t, err)
	assert.Equal(t, models.RequestTypeResearch, plan.RequestType)
	assert.Equal(t, 80, plan.EstimatedDuration)
	require.Len(t, plan.TaskBreakdown, 1)

	entry := plan.TaskBreakdown[0]
	assert.Equal(t, "Research & Analysis", entry.Name)
	assert.Equal(t, 80, entry.EstimatedHours)
	assert.Equal(t, "Research", entry.Team)
	require.Len(t, entry.SuggestedEmployees, 1)
	assert.Equal(t, "emp-Research & Analysis", entry.SuggestedEmployees[0].EmployeeID)
}

func TestGenerator_Generate_PreservesTemplateOrder(t *testing.T) {
	tmpl, _ := TemplateFor(models.RequestTypeWebDev)

	for i := 0; i < 10; i++ {
		s := &fakeSuggester{jitter: true}
		plan, err := createTestGenerator(t, s).Generate(context.Background(), "web_dev", "", "")
		require.NoError(t, err)
		require.Len(t, plan.TaskBreakdown, len(tmpl.Tasks))

		for j, entry := range plan.TaskBreakdown {
			assert.Equal(t, tmpl.Tasks[j].Name, entry.Name)
			assert.Equal(t, "emp-"+tmpl.Tasks[j].Name, entry.SuggestedEmployees[0].EmployeeID)
		}
		assert.Len(t, s.calls, len(tmpl.Tasks))
	}
}

func TestGenerator_Generate_InvalidRequestType(t *testing.T) {
	s := &fakeSuggester{}
	plan, err := createTestGenerator(t, s).Generate(context.Background(), "bogus_type", "", "")

	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrInvalidRequestType)
	assert.Contains(t, err.Error(), "bogus_type")
	assert.Empty(t, s.calls)
}

func TestGenerator_Generate_SuggestionFailureAbortsPlan(t *testing.T) {
	s := &fakeSuggester{failFor: "Testing & QA"}
	plan, err := createTestGenerator(t, s).Generate(context.Background(), "web_dev", "", "")

	assert.Nil(t, plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Testing & QA")
	assert.Contains(t, err.Error(), "employee store unavailable")
}

type emptySuggester struct{}

func (emptySuggester) Suggest(context.Context, models.TaskDescriptor) ([]models.MatchResult, error) {
	return nil, nil
}

func TestGenerator_Generate_NoCandidates(t *testing.T) {
	plan, err := createTestGenerator(t, emptySuggester{}).Generate(context.Background(), "prototype", "", "")

	require.NoError(t, err)
	require.Len(t, plan.TaskBreakdown, 3)
	for _, entry := range plan.TaskBreakdown {
		assert.NotNil(t, entry.SuggestedEmployees)
		assert.Empty(t, entry.SuggestedEmployees)
	}
}
