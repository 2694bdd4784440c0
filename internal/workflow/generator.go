// internal/workflow/generator.go
package workflow

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"project-workers/internal/common/logger"
	"project-workers/internal/models"
)

var ErrInvalidRequestType = errors.New("invalid request type")

// Suggester ranks candidate employees for a single task.
type Suggester interface {
	Suggest(ctx context.Context, task models.TaskDescriptor) ([]models.MatchResult, error)
}

type Generator struct {
	suggester Suggester
	logger    logger.Logger
}

func NewGenerator(suggester Suggester, log logger.Logger) *Generator {
	return &Generator{
		suggester: suggester,
		logger:    log.WithFields(map[string]interface{}{"component": "workflow-generator"}),
	}
}

// Generate expands the template for requestType and attaches suggested
// employees to every task. description and requirements are accepted for
// model-based generation later and do not influence the plan today.
func (g *Generator) Generate(ctx context.Context, requestType, description, requirements string) (*models.WorkflowPlan, error) {
	rt := models.RequestType(requestType)
	tmpl, ok := TemplateFor(rt)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequestType, requestType)
	}

	entries := make([]models.TaskBreakdownEntry, len(tmpl.Tasks))
	grp, gctx := errgroup.WithContext(ctx)
	for i, task := range tmpl.Tasks {
		grp.Go(func() error {
			suggestions, err := g.suggester.Suggest(gctx, task)
			if err != nil {
				return fmt.Errorf("suggest employees for %q: %w", task.Name, err)
			}
			if suggestions == nil {
				suggestions = []models.MatchResult{}
			}
			entries[i] = models.TaskBreakdownEntry{
				TaskDescriptor:     task,
				SuggestedEmployees: suggestions,
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	g.logger.Debug("workflow generated", map[string]interface{}{
		"requestType":       requestType,
		"tasks":             len(entries),
		"estimatedDuration": tmpl.EstimatedDuration,
	})

	return &models.WorkflowPlan{
		RequestType:       rt,
		EstimatedDuration: tmpl.EstimatedDuration,
		TaskBreakdown:     entries,
	}, nil
}
