package worker

import (
	"context"
	"log"
	"sync"
)

// Manager manages workers and distributes inputs to them
type Manager[T, R any] struct {
	name        string
	workerCount int
	process     ProcessFunc[T, R]
}

// NewManager creates a new manager. name prefixes its log lines.
func NewManager[T, R any](name string, workerCount int, process ProcessFunc[T, R]) *Manager[T, R] {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Manager[T, R]{
		name:        name,
		workerCount: workerCount,
		process:     process,
	}
}

// Process distributes inputs to workers and returns one result per input, in input order
func (m *Manager[T, R]) Process(ctx context.Context, inputs []T) []Result[R] {
	if len(inputs) == 0 {
		return nil
	}

	// Create job channel
	jobChan := make(chan Job[T], len(inputs))
	for i, input := range inputs {
		jobChan <- Job[T]{Index: i, Input: input}
	}
	close(jobChan)

	// Results channel is buffered for every job so workers never block
	resultsChan := make(chan Result[R], len(inputs))

	workers := m.workerCount
	if workers > len(inputs) {
		workers = len(inputs)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			NewWorker(workerID, m.process).Run(ctx, jobChan, resultsChan)
		}(i)
	}

	// Close results channel when all workers finish
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Aggregate results (single goroutine reads from channel)
	results := make([]Result[R], len(inputs))
	var successCount, errorCount int
	for res := range resultsChan {
		results[res.Index] = res
		if res.Err == nil {
			successCount++
		} else {
			errorCount++
		}
	}

	log.Printf("%s: Completed: %d successful, %d errors (total: %d)", m.name, successCount, errorCount, len(inputs))
	return results
}
