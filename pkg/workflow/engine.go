// Package workflow implements the async workflow engine (§4.6): issuing a
// mutating call, extracting a task reference from its response, and
// polling the backend to a terminal state while emitting progress events.
//
// The polling loop is built on siderolabs/go-retry the same way the
// cluster provisioner drives its readiness checks: a retry.Constant bound
// by the caller's timeout, with each non-terminal observation reported via
// retry.ExpectedError so the retryer keeps going, and a plain error used
// to stop immediately on a terminal failure.
package workflow

import (
	"context"
	"time"

	"github.com/siderolabs/go-retry/retry"

	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

// Status is the non-terminal/terminal state of an async task.
type Status string

const (
	Queued     Status = "Queued"
	InProgress Status = "InProgress"
	Completed  Status = "Completed"
	Failed     Status = "Failed"
)

// IsTerminal reports whether status is Completed or Failed. Any status
// this client doesn't recognize is treated as InProgress per §4.6's
// forward-compatibility rule, so callers should route unknown strings
// through Normalize before comparing.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

// Normalize maps an unrecognized status string to InProgress, leaving
// known statuses untouched.
func Normalize(raw string) Status {
	switch Status(raw) {
	case Queued, InProgress, Completed, Failed:
		return Status(raw)
	default:
		return InProgress
	}
}

// TaskState is one observation of a task's server-side state.
type TaskState struct {
	Status     Status
	Progress   *int // 0..100; Run clamps it before emitting an event
	ResourceID string
	Error      string
}

// EventType discriminates Progress events.
type EventType int

const (
	EventStarted EventType = iota
	EventPolling
	EventCompleted
	EventFailed
)

// Event is emitted to the caller-supplied sink as the workflow advances.
type Event struct {
	Type       EventType
	TaskID     string
	Status     Status
	Progress   *int
	Elapsed    time.Duration
	ResourceID string
	Error      string
}

// Sink receives Events in the order they occur within one workflow. It
// must be safe to call from the polling goroutine.
type Sink func(Event)

// Call produces an initial response from which a task id may be
// extracted. A TaskIDExtractor returns ("", false) when the response carries
// no task reference and should be treated as the final result.
type Call[T any] func(ctx context.Context) (T, error)

// TaskIDExtractor pulls a task identifier out of a Call's response.
type TaskIDExtractor[T any] func(T) (taskID string, ok bool)

// TaskFetcher retrieves the current state of taskID from the backend.
type TaskFetcher func(ctx context.Context, taskID string) (TaskState, error)

// ResourceFetcher retrieves the final resource once a task has completed
// with a non-empty resource id.
type ResourceFetcher[T any] func(ctx context.Context, resourceID string) (T, error)

// Run executes the run_and_wait contract from §4.6.
func Run[T any](
	ctx context.Context,
	call Call[T],
	extract TaskIDExtractor[T],
	fetchTask TaskFetcher,
	fetchResource ResourceFetcher[T],
	timeout, interval time.Duration,
	sink Sink,
) (T, error) {
	var zero T

	initial, err := call(ctx)
	if err != nil {
		return zero, err
	}

	taskID, hasTask := extract(initial)
	if !hasTask {
		return initial, nil
	}

	emit(sink, Event{Type: EventStarted, TaskID: taskID})

	start := time.Now()

	var (
		lastState TaskState
		pollErr   error
	)

	retrier := retry.Constant(timeout, retry.WithUnits(interval))

	err = retrier.Retry(func() error {
		if ctx.Err() != nil {
			pollErr = rctlerr.Cancelled{TaskID: taskID}

			return pollErr
		}

		state, fetchErr := fetchTask(ctx, taskID)
		if fetchErr != nil {
			// Transient polling failure: keep retrying within budget.
			return retry.ExpectedError(fetchErr)
		}

		lastState = state

		emit(sink, Event{
			Type:     EventPolling,
			TaskID:   taskID,
			Status:   state.Status,
			Progress: clampProgress(state.Progress),
			Elapsed:  time.Since(start),
		})

		if !state.Status.IsTerminal() {
			return retry.ExpectedError(errNotTerminal)
		}

		if state.Status == Failed {
			pollErr = rctlerr.TaskFailed{TaskID: taskID, Message: state.Error}

			return pollErr
		}

		return nil
	})

	switch {
	case err == nil:
		return finish(ctx, sink, taskID, lastState, fetchResource)

	case pollErr != nil:
		var cancelled rctlerr.Cancelled
		if asCancelled(pollErr, &cancelled) {
			return zero, cancelled
		}

		emit(sink, Event{Type: EventFailed, TaskID: taskID, Error: lastState.Error})

		return zero, pollErr

	default:
		// Retry budget exhausted while the task was still non-terminal.
		return zero, rctlerr.TaskTimedOut{TaskID: taskID, LastStatus: string(lastState.Status)}
	}
}

func finish[T any](
	ctx context.Context,
	sink Sink,
	taskID string,
	state TaskState,
	fetchResource ResourceFetcher[T],
) (T, error) {
	var zero T

	emit(sink, Event{Type: EventCompleted, TaskID: taskID, ResourceID: state.ResourceID})

	if state.ResourceID == "" {
		return zero, nil
	}

	return fetchResource(ctx, state.ResourceID)
}

func emit(sink Sink, event Event) {
	if sink != nil {
		sink(event)
	}
}

func clampProgress(p *int) *int {
	if p == nil {
		return nil
	}

	v := *p

	switch {
	case v < 0:
		v = 0
	case v > 100:
		v = 100
	}

	return &v
}

func asCancelled(err error, target *rctlerr.Cancelled) bool {
	cancelled, ok := err.(rctlerr.Cancelled)
	if ok {
		*target = cancelled
	}

	return ok
}

// errNotTerminal is a sentinel used only to drive the retryer; it never
// escapes Run.
var errNotTerminal = notTerminalError{}

type notTerminalError struct{}

func (notTerminalError) Error() string { return "task not yet in a terminal state" }
