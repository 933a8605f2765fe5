// Package workpool runs a bounded set of independent tasks concurrently and
// collects their results in input order. It is the concurrency primitive
// behind the candidate generator: per-subject domain
// construction is independent, yields disjoint outputs, and a worker
// failure is never fatal to the run; the failing item is re-executed
// synchronously on the caller's goroutine and the outcome recorded either
// way.
package workpool

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Result pairs a task's index with its outcome. Err is set when both the
// concurrent attempt and the synchronous retry failed.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Task is one unit of independent work submitted to the pool.
type Task[T any] func(ctx context.Context) (T, error)

// Run executes tasks with up to `workers` goroutines in flight at once and
// returns one Result per task, in the same order as the input slice.
// workers <= 0 is treated as 1. A task that returns an error is retried
// once, synchronously, on the calling goroutine: a single failed task never
// fails the whole batch.
func Run[T any](ctx context.Context, logger *zap.Logger, workers int, tasks []Task[T]) []Result[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	type job struct {
		index int
		task  Task[T]
	}
	jobs := make(chan job, len(tasks))
	for i, t := range tasks {
		jobs <- job{index: i, task: t}
	}
	close(jobs)

	var retries []job
	var retriesMu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				value, err := runTask(ctx, j.task)
				if err != nil {
					logger.Warn("candidate generator worker failed, scheduling synchronous retry",
						zap.Int("subject_index", j.index), zap.Error(err))
					retriesMu.Lock()
					retries = append(retries, j)
					retriesMu.Unlock()
					continue
				}
				results[j.index] = Result[T]{Index: j.index, Value: value}
			}
		}()
	}
	wg.Wait()

	for _, j := range retries {
		value, err := runTask(ctx, j.task)
		results[j.index] = Result[T]{Index: j.index, Value: value, Err: err}
		if err != nil {
			logger.Error("candidate generator task failed on synchronous retry",
				zap.Int("subject_index", j.index), zap.Error(err))
		}
	}

	return results
}

// runTask recovers from a panicking task so one bad subject can never take
// down the whole generation pass.
func runTask[T any](ctx context.Context, t Task[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{recovered: r}
		}
	}()
	return t(ctx)
}

type panicError struct {
	recovered interface{}
}

func (p *panicError) Error() string {
	return "candidate generator task panicked"
}
