package worker

import "context"

// Job is one unit of work handed to a worker
type Job[T any] struct {
	Index int // Position of the input, used to restore order
	Input T
}

// Result is the outcome of a job
type Result[R any] struct {
	Index    int
	Value    R
	Err      error
	WorkerID int
}

// ProcessFunc processes a single input
type ProcessFunc[T, R any] func(ctx context.Context, input T) (R, error)

// Worker runs jobs from a channel until it closes or the context ends
type Worker[T, R any] struct {
	id      int
	process ProcessFunc[T, R]
}

// NewWorker creates a new worker
func NewWorker[T, R any](id int, process ProcessFunc[T, R]) *Worker[T, R] {
	return &Worker[T, R]{
		id:      id,
		process: process,
	}
}

// Run processes jobs and sends one result per job
func (w *Worker[T, R]) Run(ctx context.Context, jobs <-chan Job[T], results chan<- Result[R]) {
	for job := range jobs {
		if ctx.Err() != nil {
			results <- Result[R]{Index: job.Index, Err: ctx.Err(), WorkerID: w.id}
			continue
		}
		value, err := w.process(ctx, job.Input)
		results <- Result[R]{Index: job.Index, Value: value, Err: err, WorkerID: w.id}
	}
}
