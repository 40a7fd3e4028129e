package fanout

import (
	"context"
	"fmt"
	"sync"
)

// Result is the outcome for one input item.
type Result[R any] struct {
	Value R
	Err   error
}

// Window describes a window about to run. Start is the index of its first
// item in the input slice.
type Window struct {
	Index int
	Start int
	Size  int
}

// Options tunes Map. A zero Options runs windows of DefaultWindow.
type Options struct {
	Window int
	// OnWindow, when set, is called before each window starts.
	OnWindow func(Window)
}

// DefaultWindow is the window size used when none is configured.
const DefaultWindow = 5

// PanicError reports a panic recovered from a mapped function.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Map applies fn to every item and returns results in input order. When ctx
// is done before a window starts, that window and every later one are not
// run; their results carry ctx.Err(). Calls already running are left to
// finish.
func Map[T, R any](ctx context.Context, items []T, opts Options, fn func(context.Context, T) (R, error)) []Result[R] {
	size := opts.Window
	if size <= 0 {
		size = DefaultWindow
	}
	results := make([]Result[R], len(items))

	for index, start := 0, 0; start < len(items); index, start = index+1, start+size {
		end := min(start+size, len(items))

		if err := ctx.Err(); err != nil {
			for i := start; i < len(items); i++ {
				results[i].Err = err
			}
			break
		}
		if opts.OnWindow != nil {
			opts.OnWindow(Window{Index: index, Start: start, Size: end - start})
		}

		// Failures stay per item, so the window is a plain barrier.
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Go(func() {
				results[i] = call(ctx, items[i], fn)
			})
		}
		wg.Wait()
	}

	return results
}

func call[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (result Result[R]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = Result[R]{Err: &PanicError{Value: recovered}}
		}
	}()
	value, err := fn(ctx, item)
	return Result[R]{Value: value, Err: err}
}
