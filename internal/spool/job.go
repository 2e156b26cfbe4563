package spool

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"correioszpl/internal/failures"
	"correioszpl/internal/logging"
)

// State is a job lifecycle state.
type State string

const (
	StatePending   State = "pending"
	StateSent      State = "sent"
	StateError     State = "error"
	StateCompleted State = "completed"
	StateDeleted   State = "deleted"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateError || s == StateCompleted || s == StateDeleted
}

// EventType names a job notification.
type EventType string

const (
	EventSent      EventType = "sent"
	EventError     EventType = "error"
	EventUpdated   EventType = "updated"
	EventCompleted EventType = "completed"
	EventDeleted   EventType = "deleted"
)

// Event is published on Job.Events for every transition and queue update.
type Event struct {
	Type   EventType
	JobID  int
	Status Status
	Err    error
}

// Status is one row of the printer queue.
type Status struct {
	// Active is set while the job is printing; Position is meaningless then.
	Active    bool
	Position  int
	Owner     string
	ID        int
	Files     string
	TotalSize string
}

// Rank renders the queue position the way lpq does.
func (s Status) Rank() string {
	if s.Active {
		return "active"
	}
	return strconv.Itoa(s.Position)
}

var requestIDPattern = regexp.MustCompile(`^request id is .*-(\d+)`)

const (
	eventBuffer = 16
	// Slots kept free for the two state changes a job can still make.
	reservedSlots = 2
)

// Job is one spool submission.
type Job struct {
	mu        sync.Mutex
	id        int
	state     State
	status    Status
	hasStatus bool
	err       error

	events    chan Event
	submitted chan struct{}
	done      chan struct{}

	runner       Runner
	cancelBinary string
	logger       *slog.Logger
}

func newJob(runner Runner, cancelBinary string, logger *slog.Logger) *Job {
	return &Job{
		state:        StatePending,
		events:       make(chan Event, eventBuffer),
		submitted:    make(chan struct{}),
		done:         make(chan struct{}),
		runner:       runner,
		cancelBinary: cancelBinary,
		logger:       logger,
	}
}

// ID returns the spool identifier, or 0 before the job is sent.
func (j *Job) ID() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.id
}

// State returns the current state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Status returns the last queue row seen for the job.
func (j *Job) Status() (Status, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, j.hasStatus
}

// Err returns the submission failure, if any.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Events delivers notifications in order. Updated events are dropped when
// the consumer falls behind; state changes never are. The channel is closed
// after the terminal event.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Submitted blocks until the submission process has exited and returns the
// job identifier or the failure.
func (j *Job) Submitted(ctx context.Context) (int, error) {
	select {
	case <-j.submitted:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.id, j.err
}

// Wait blocks until the job reaches a terminal state.
func (j *Job) Wait(ctx context.Context) (State, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		return j.State(), ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state, j.err
}

// Cancel removes the job from the spool. Success moves it to deleted.
func (j *Job) Cancel(ctx context.Context) error {
	j.mu.Lock()
	state, id := j.state, j.id
	j.mu.Unlock()
	if state != StateSent {
		return fmt.Errorf("cancel job in state %s: %w", state, failures.ErrValidation)
	}
	if id == 0 {
		return fmt.Errorf("cancel job: spool did not report an identifier: %w", failures.ErrValidation)
	}

	if err := cancelJob(ctx, j.runner, j.cancelBinary, id); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.transitionLocked(StateDeleted) {
		j.emitLocked(Event{Type: EventDeleted, JobID: j.id})
		j.logger.Info("print job deleted", logging.Int("job_id", j.id))
	}
	return nil
}

// finishSubmit records the submission outcome.
func (j *Job) finishSubmit(command string, res Result, runErr error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	defer close(j.submitted)

	if runErr == nil && res.ExitCode == 0 {
		if m := requestIDPattern.FindStringSubmatch(res.Stdout); m != nil {
			// The pattern only matches digits; overflow is the only failure.
			j.id, _ = strconv.Atoi(m[1])
		}
		j.transitionLocked(StateSent)
		j.emitLocked(Event{Type: EventSent, JobID: j.id})
		j.logger.Info("print job sent", logging.Int("job_id", j.id))
		return
	}

	if runErr != nil {
		j.err = failures.Wrap(failures.ErrProcess, "spool", "submit job", command, runErr)
	} else {
		j.err = &failures.ProcessError{
			Command:  command,
			ExitCode: res.ExitCode,
			Stderr:   trimNewline(res.Stderr),
		}
	}
	j.transitionLocked(StateError)
	j.emitLocked(Event{Type: EventError, Err: j.err})
	j.logger.Warn("print job failed", logging.Error(j.err))
}

// update applies a queue row to a sent job.
func (j *Job) update(status Status) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateSent {
		return
	}
	j.status = status
	j.hasStatus = true
	j.emitLocked(Event{Type: EventUpdated, JobID: j.id, Status: status})
}

// unqueue handles a job missing from the queue. It completes the job only
// when the last row seen was active and reports whether it did.
func (j *Job) unqueue() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateSent || !j.hasStatus || !j.status.Active {
		return false
	}
	j.transitionLocked(StateCompleted)
	j.emitLocked(Event{Type: EventCompleted, JobID: j.id, Status: j.status})
	j.logger.Info("print job completed", logging.Int("job_id", j.id))
	return true
}

var transitions = map[State][]State{
	StatePending: {StateSent, StateError},
	StateSent:    {StateCompleted, StateDeleted},
}

func (j *Job) transitionLocked(to State) bool {
	for _, allowed := range transitions[j.state] {
		if allowed == to {
			j.state = to
			if to.Terminal() {
				close(j.done)
			}
			return true
		}
	}
	return false
}

func (j *Job) emitLocked(evt Event) {
	if evt.Type == EventUpdated {
		if len(j.events) >= cap(j.events)-reservedSlots {
			return
		}
		j.events <- evt
		return
	}
	// The reserved slots keep this send from blocking.
	j.events <- evt
	if j.state.Terminal() {
		close(j.events)
	}
}

func trimNewline(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
}
