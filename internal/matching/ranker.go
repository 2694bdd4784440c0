// internal/matching/ranker.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"project-workers/internal/common/logger"
	"project-workers/internal/models"
)

// MaxSuggestions is the number of candidates returned per task.
const MaxSuggestions = 3

var (
	ErrEmployeeFetch = errors.New("active employee lookup failed")
	ErrWorkloadQuery = errors.New("pending task count lookup failed")
)

// EmployeeSource lists the employees eligible for matching.
type EmployeeSource interface {
	ActiveEmployees(ctx context.Context) ([]models.Employee, error)
}

// WorkloadCounter counts the unfinished tasks assigned to an employee.
type WorkloadCounter interface {
	PendingTaskCount(ctx context.Context, employeeID string) (int, error)
}

type RankerConfig struct {
	// MaxConcurrency bounds the in-flight workload lookups. Zero or less means unbounded.
	MaxConcurrency int
}

type Ranker struct {
	config    *RankerConfig
	employees EmployeeSource
	workload  WorkloadCounter
	logger    logger.Logger
}

func NewRanker(config *RankerConfig, employees EmployeeSource, workload WorkloadCounter, log logger.Logger) *Ranker {
	if config == nil {
		config = &RankerConfig{}
	}
	return &Ranker{
		config:    config,
		employees: employees,
		workload:  workload,
		logger:    log.WithFields(map[string]interface{}{"component": "ranker"}),
	}
}

// Suggest scores every active employee against task and returns at most
// MaxSuggestions results, best first. Equal scores keep the employee source order.
func (r *Ranker) Suggest(ctx context.Context, task models.TaskDescriptor) ([]models.MatchResult, error) {
	all, err := r.employees.ActiveEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmployeeFetch, err)
	}

	employees := make([]models.Employee, 0, len(all))
	for _, e := range all {
		if e.Active {
			employees = append(employees, e)
		}
	}

	results := make([]models.MatchResult, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	if r.config.MaxConcurrency > 0 {
		g.SetLimit(r.config.MaxConcurrency)
	}
	for i, e := range employees {
		g.Go(func() error {
			pending, err := r.workload.PendingTaskCount(gctx, e.ID)
			if err != nil {
				return fmt.Errorf("%w: employee %s: %v", ErrWorkloadQuery, e.ID, err)
			}
			results[i] = Score(e, task, pending)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > MaxSuggestions {
		results = results[:MaxSuggestions]
	}

	r.logger.Debug("suggestions ranked", map[string]interface{}{
		"task":       task.Name,
		"candidates": len(employees),
		"returned":   len(results),
	})

	return results, nil
}
