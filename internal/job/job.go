package job

import "time"

// Status is the lifecycle state of a job record
type Status string

const (
	StatusQueued    Status = "QUEUED"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Valid reports whether s is a known job status
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a final state that absorbs all further updates
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// CanTransitionTo reports whether the forward-only transition s -> next is allowed.
// QUEUED may move to RUNNING or FAILED, RUNNING may move to SUCCEEDED or FAILED.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusQueued:
		return next == StatusRunning || next == StatusFailed
	case StatusRunning:
		return next == StatusSucceeded || next == StatusFailed
	}
	return false
}

// Job is the persistent record of one unit of submitted work
type Job struct {
	JobID        string    `db:"job_id"`
	WorkOrderID  string    `db:"work_order_id"`
	Status       Status    `db:"status"`
	ErrorMessage string    `db:"error_message"`
	ResultStore  string    `db:"result_store"`
	ResultKey    string    `db:"result_key"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// HasResult reports whether a result location has been recorded
func (j *Job) HasResult() bool {
	return j.ResultStore != "" && j.ResultKey != ""
}
