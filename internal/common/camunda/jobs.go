// internal/common/camunda/jobs.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// CompleteJob completes job with output serialized as the job's variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	if ctx.Err() != nil {
		// the job deadline already passed; completing still has to reach the broker
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}
