package journal

import "time"

// Status is the lifecycle state persisted for a dispatch.
type Status string

const (
	// StatusSent means the document reached the printer socket or the spool
	// accepted the job.
	StatusSent Status = "sent"
	// StatusCompleted means the spool finished printing the job.
	StatusCompleted Status = "completed"
	// StatusDeleted means the job was cancelled.
	StatusDeleted Status = "deleted"
	// StatusFailed means the attempt failed and may be retried as is.
	StatusFailed Status = "failed"
	// StatusInvalid means the request needs correcting before a retry.
	StatusInvalid Status = "invalid"
)

// Terminal reports whether the dispatch can still change.
func (s Status) Terminal() bool {
	return s != StatusSent
}

// Dispatch is one label sent to a printer.
type Dispatch struct {
	ID           string
	TrackNumber  string
	ServiceName  string
	Transport    string
	Destination  string
	Status       Status
	JobID        int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Event is one job transition recorded against a dispatch.
type Event struct {
	ID         int64
	DispatchID string
	Event      string
	Detail     string
	CreatedAt  time.Time
}
