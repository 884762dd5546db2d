package handler

import (
	"context"
	"log/slog"

	"github.com/workproof/jobsvc/internal/artifact"
	"github.com/workproof/jobsvc/internal/dlq"
	"github.com/workproof/jobsvc/internal/job"
	"github.com/workproof/jobsvc/internal/queue"
)

// JobStore is the job-record surface the API needs
type JobStore interface {
	CreateJob(ctx context.Context, j *job.Job) error
	GetJob(ctx context.Context, jobID string) (*job.Job, error)
}

// DeadLetterService inspects and replays dead-lettered job messages
type DeadLetterService interface {
	List(ctx context.Context, limit int) ([]dlq.Entry, error)
	Replay(ctx context.Context, limit int) (int, error)
}

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger     *slog.Logger
	Store      JobStore
	Publisher  queue.Publisher
	Artifacts  artifact.Store
	DeadLetter DeadLetterService
	Service    string
	Checks     map[string]HealthChecker
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger     *slog.Logger
	store      JobStore
	publisher  queue.Publisher
	artifacts  artifact.Store
	deadLetter DeadLetterService
	service    string
	checks     map[string]HealthChecker
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:     deps.Logger,
		store:      deps.Store,
		publisher:  deps.Publisher,
		artifacts:  deps.Artifacts,
		deadLetter: deps.DeadLetter,
		service:    deps.Service,
		checks:     deps.Checks,
	}
}
