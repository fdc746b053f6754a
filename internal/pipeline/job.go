package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"codedigest/internal/config"
	"codedigest/internal/filemap"
)

// Job is the completion handle of an asynchronous ingestion run. It replaces
// fire-and-forget completion events: the orchestrator holds the Job and fans
// out to listeners itself. A run is abandoned by cancelling its context; no
// partial state is observable before Wait returns.
type Job struct {
	ID string

	doneOnce sync.Once
	doneCh   chan struct{}

	mu  sync.Mutex
	res *Result
	err error
}

// Start launches the pipeline in the background and returns immediately.
func Start(ctx context.Context, fm *filemap.FileMap, cfg config.Config) *Job {
	j := &Job{
		ID:     uuid.NewString(),
		doneCh: make(chan struct{}),
	}
	go func() {
		res, err := Run(ctx, fm, cfg)
		j.mu.Lock()
		j.res, j.err = res, err
		j.mu.Unlock()
		j.doneOnce.Do(func() { close(j.doneCh) })
	}()
	return j
}

// Done returns a channel closed when the run finishes or is abandoned.
func (j *Job) Done() <-chan struct{} { return j.doneCh }

// Result returns the finished run's outcome without blocking. Only
// meaningful once Done is closed.
func (j *Job) Result() (*Result, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.res, j.err
}

// Wait blocks until the run completes or ctx is cancelled, then returns the
// run's result.
func (j *Job) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-j.doneCh:
		j.mu.Lock()
		defer j.mu.Unlock()
		return j.res, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
