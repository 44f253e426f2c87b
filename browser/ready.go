package browser

import (
	"context"
	"fmt"
	"time"
)

const (
	StateLoading  = "loading"
	StateComplete = "complete"
)

// ReadinessError reports why WaitReady gave up. Readiness is best effort,
// so callers usually log it and carry on.
type ReadinessError struct {
	State   string
	Timeout bool
	Err     error
}

func (e *ReadinessError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("document still %q after timeout", e.State)
	}
	return fmt.Sprintf("read document.readyState: %v", e.Err)
}

func (e *ReadinessError) Unwrap() error { return e.Err }

// ReadyOptions tunes WaitReady. Zero Poll and Timeout fall back to
// 100ms and 30s; a nil Sleep waits on the context.
type ReadyOptions struct {
	Target  string
	Poll    time.Duration
	Timeout time.Duration
	Sleep   func(ctx context.Context, d time.Duration) error
}

// WaitReady polls document.readyState until the document stops loading,
// the target state is reached, or the timeout fires. It returns the last
// state read.
func WaitReady(ctx context.Context, page Page, opts ReadyOptions) (string, error) {
	if opts.Poll <= 0 {
		opts.Poll = 100 * time.Millisecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}

	state, err := readyState(ctx, page)
	if err != nil {
		return "", &ReadinessError{Err: err}
	}

	deadline := time.Now().Add(opts.Timeout)
	for state == StateLoading {
		if time.Now().After(deadline) {
			return state, &ReadinessError{State: state, Timeout: true}
		}
		if err := opts.Sleep(ctx, opts.Poll); err != nil {
			return state, &ReadinessError{State: state, Err: err}
		}
		if state, err = readyState(ctx, page); err != nil {
			return "", &ReadinessError{Err: err}
		}
		if opts.Target != "" && state == opts.Target {
			break
		}
	}
	return state, nil
}

func readyState(ctx context.Context, page Page) (string, error) {
	var state string
	err := page.Evaluate(ctx, "document.readyState", &state)
	return state, err
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
