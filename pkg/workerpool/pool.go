// Package workerpool provides a generic WorkerPoolExecutor
// that can run arbitrary functions concurrently over a slice of inputs.
package workerpool

import (
	"context"
	"runtime"
	"sync"
)

type PoolOptions struct {
	NumWorkers int
}

type PoolOptionFunc func(*PoolOptions)

func defaultOpts() PoolOptions {
	return PoolOptions{
		NumWorkers: runtime.NumCPU(),
	}
}

// WithWorkers allows customization of the number of concurrent workers.
// Values below 1 fall back to a single worker.
func WithWorkers(num int) PoolOptionFunc {
	return func(opts *PoolOptions) {
		opts.NumWorkers = num
	}
}

// WorkerPoolExecutor manages a pool of goroutines to execute tasks.
// T is the input type, R is the output type.
type WorkerPoolExecutor[T any, R any] struct {
	PoolOptions
}

// New creates a new WorkerPoolExecutor with optional configuration.
func New[T any, R any](opts ...PoolOptionFunc) *WorkerPoolExecutor[T, R] {
	o := defaultOpts()
	for _, fn := range opts {
		fn(&o)
	}
	if o.NumWorkers < 1 {
		o.NumWorkers = 1
	}
	return &WorkerPoolExecutor[T, R]{PoolOptions: o}
}

// Run dispatches each input through fn concurrently, using up to NumWorkers
// goroutines, and blocks until every dispatched call has returned.
//
// Output i is written exactly once, by the goroutine that ran input i, and is
// only handed back after all goroutines have exited. The first error returned
// by fn cancels the remaining work and is returned as is; a cancelled ctx
// yields ctx.Err().
func (w *WorkerPoolExecutor[T, R]) Run(ctx context.Context, inputs []T, fn func(ctx context.Context, t T) (R, error)) ([]R, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type task struct {
		idx   int
		input T
	}

	tasks := make(chan task)
	outputs := make([]R, len(inputs))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	numWorkers := w.NumWorkers
	if numWorkers > len(inputs) {
		numWorkers = len(inputs)
	}

	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return

				case t, ok := <-tasks:
					if !ok {
						return
					}

					out, err := fn(ctx, t.input)
					if err != nil {
						errOnce.Do(func() {
							firstErr = err
							cancel()
						})
						return
					}
					// disjoint slot, no lock
					outputs[t.idx] = out
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for i, input := range inputs {
			select {
			case <-ctx.Done():
				return
			case tasks <- task{idx: i, input: input}:
			}
		}
	}()

	// barrier: nothing in outputs is read before every worker has exited
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// ctx here is the derived one; only the parent can have cancelled it now
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}
