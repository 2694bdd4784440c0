// internal/common/camunda/worker.go
package camunda

import (
	"context"

	"project-workers/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler processes one activated job. The handler completes or fails the
// job itself; the returned error is only used for instrumentation.
type JobHandler interface {
	Handle(ctx context.Context, client worker.JobClient, job entities.Job) error
}

// SpanStarter opens a span per job; satisfied by observability.Observability.
type SpanStarter interface {
	StartSpan(ctx context.Context, taskType string, jobKey int64) (context.Context, func(error))
}

// Worker is one opened job worker for a single task type.
type Worker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// StartWorker opens a job worker for taskType, or returns nil when the worker is disabled.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler JobHandler,
	spans SpanStarter,
	logger *zap.Logger,
) *Worker {
	if !wcfg.Enabled {
		logger.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(wrapHandler(taskType, handler, spans, logger)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)

	return &Worker{worker: jobWorker, logger: logger, taskType: taskType}
}

func wrapHandler(taskType string, handler JobHandler, spans SpanStarter, logger *zap.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		ctx := context.Background()
		end := func(error) {}
		if spans != nil {
			ctx, end = spans.StartSpan(ctx, taskType, job.Key)
		}

		err := handler.Handle(ctx, client, job)
		end(err)
		if err != nil {
			logger.Debug("job handler returned error",
				zap.String("taskType", taskType),
				zap.Int64("jobKey", job.Key),
				zap.Error(err),
			)
		}
	}
}

// Stop closes the worker and waits for in-flight jobs up to the context deadline.
func (w *Worker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))

	done := make(chan struct{})
	go func() {
		w.worker.Close()
		w.worker.AwaitClose()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker stop timed out", zap.String("taskType", w.taskType))
	}
}
