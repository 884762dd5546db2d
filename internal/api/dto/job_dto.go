package dto

import (
	"strings"
	"time"
)

// StartJobRequest is the submission payload. The work-order reference is
// accepted under two field spellings; JSON decoding matches field names
// case-insensitively, so workOrderId, workorderid and WorkOrderID all land
// in WorkOrderID, and workorder_id variants land in WorkOrderIDSnake.
type StartJobRequest struct {
	WorkOrderID      string `json:"workOrderId"`
	WorkOrderIDSnake string `json:"workorder_id"`
}

// CorrelationKey returns the work-order reference from whichever accepted
// alias carried it, or the empty string when none did
func (r *StartJobRequest) CorrelationKey() string {
	if v := strings.TrimSpace(r.WorkOrderID); v != "" {
		return v
	}
	return strings.TrimSpace(r.WorkOrderIDSnake)
}

// StartJobResponse acknowledges an accepted submission
type StartJobResponse struct {
	OK     bool   `json:"ok"`
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// JobStatusResponse reports the current state of a job
type JobStatusResponse struct {
	OK           bool   `json:"ok"`
	JobID        string `json:"jobId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ResultErrorResponse is returned from the results endpoint when the job is
// not ready (409) or finished in failure (200 with ok=false)
type ResultErrorResponse struct {
	OK     bool   `json:"ok"`
	JobID  string `json:"jobId"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// ErrorResponse is the generic error envelope
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// DLQEntry describes one dead-lettered message
type DLQEntry struct {
	JobID        string    `json:"jobId"`
	Reason       string    `json:"reason"`
	Queue        string    `json:"queue"`
	DeathCount   int64     `json:"deathCount"`
	FirstDeathAt time.Time `json:"firstDeathAt,omitzero"`
}

// DLQListResponse lists dead-lettered messages left on the queue
type DLQListResponse struct {
	OK      bool       `json:"ok"`
	Entries []DLQEntry `json:"entries"`
}

// DLQReplayRequest bounds how many messages one replay call re-enqueues
type DLQReplayRequest struct {
	Limit int `json:"limit"`
}

// DLQReplayResponse reports how many messages were re-enqueued
type DLQReplayResponse struct {
	OK       bool `json:"ok"`
	Replayed int  `json:"replayed"`
}
