// internal/common/camunda/camundatest/jobclient.go

// Package camundatest provides an in-memory Zeebe job client for handler tests.
package camundatest

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// JobClient records the commands a handler sends for a job.
type JobClient struct {
	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
	gateway   *gateway
}

func NewJobClient() *JobClient {
	c := &JobClient{}
	c.gateway = &gateway{client: c}
	return c
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}

func (c *JobClient) Completed() []*pb.CompleteJobRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), c.completed...)
}

func (c *JobClient) Failed() []*pb.FailJobRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), c.failed...)
}

func (c *JobClient) Thrown() []*pb.ThrowErrorRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), c.thrown...)
}

// gateway implements only the job commands; any other RPC panics on the nil embedded client.
type gateway struct {
	pb.GatewayClient
	client *JobClient
}

func (g *gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.client.mu.Lock()
	defer g.client.mu.Unlock()
	g.client.completed = append(g.client.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.client.mu.Lock()
	defer g.client.mu.Unlock()
	g.client.failed = append(g.client.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.client.mu.Lock()
	defer g.client.mu.Unlock()
	g.client.thrown = append(g.client.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

// NewJob builds an activated job carrying variables.
func NewJob(key int64, taskType, variables string, retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               taskType,
		Variables:          variables,
		Retries:            retries,
		ProcessInstanceKey: key * 10,
	}}
}
