// Package store persists job records in PostgreSQL. All status updates are
// guarded by the expected prior status so concurrent writers and redelivered
// messages cannot move a record backwards.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/workproof/jobsvc/internal/job"
	"github.com/workproof/jobsvc/shared/postgresql"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		job_id        TEXT PRIMARY KEY,
		work_order_id TEXT NOT NULL,
		status        TEXT NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		result_store  TEXT NOT NULL DEFAULT '',
		result_key    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_work_order_id ON jobs (work_order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status)`,
}

// Store handles all database operations on job records
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store instance
func NewStore(pg *postgresql.Client, logger *slog.Logger) *Store {
	return &Store{
		db:     pg.GetDB(),
		logger: logger,
	}
}

// Migrate creates the jobs table and indexes if they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	s.logger.Info("Database schema is up to date")
	return nil
}

// CreateJob inserts a new job record
func (s *Store) CreateJob(ctx context.Context, j *job.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, work_order_id, status, error_message,
			result_store, result_key, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		j.JobID,
		j.WorkOrderID,
		j.Status,
		j.ErrorMessage,
		j.ResultStore,
		j.ResultKey,
		j.CreatedAt,
		j.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetJob retrieves a job record by id
func (s *Store) GetJob(ctx context.Context, jobID string) (*job.Job, error) {
	query := `
		SELECT
			job_id, work_order_id, status, error_message,
			result_store, result_key, created_at, updated_at
		FROM jobs
		WHERE job_id = $1
	`

	var j job.Job
	if err := s.db.GetContext(ctx, &j, query, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &j, nil
}

// ClaimRunning moves a QUEUED job to RUNNING. It returns the record and
// whether this call performed the transition; claimed is false when another
// consumer got there first or the record is already terminal, in which case
// the returned record carries the current status.
func (s *Store) ClaimRunning(ctx context.Context, jobID string) (*job.Job, bool, error) {
	query := `
		UPDATE jobs
		SET status = $1,
		    updated_at = NOW()
		WHERE job_id = $2
		  AND status = $3
		RETURNING
			job_id, work_order_id, status, error_message,
			result_store, result_key, created_at, updated_at
	`

	var j job.Job
	err := s.db.QueryRowContext(ctx, query, job.StatusRunning, jobID, job.StatusQueued).Scan(
		&j.JobID,
		&j.WorkOrderID,
		&j.Status,
		&j.ErrorMessage,
		&j.ResultStore,
		&j.ResultKey,
		&j.CreatedAt,
		&j.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Not QUEUED anymore; report the record as-is
			current, getErr := s.GetJob(ctx, jobID)
			if getErr != nil {
				return nil, false, getErr
			}

			s.logger.Warn("Job not claimable",
				slog.String("job_id", jobID),
				slog.String("status", string(current.Status)),
			)
			return current, false, nil
		}
		return nil, false, fmt.Errorf("failed to claim job: %w", err)
	}

	s.logger.Info("Job claimed",
		slog.String("job_id", jobID),
	)

	return &j, true, nil
}

// MarkSucceeded records the result location and moves a RUNNING job to SUCCEEDED
func (s *Store) MarkSucceeded(ctx context.Context, jobID, resultStore, resultKey string) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    result_store = $2,
		    result_key = $3,
		    error_message = '',
		    updated_at = NOW()
		WHERE job_id = $4
		  AND status = $5
	`

	result, err := s.db.ExecContext(ctx, query, job.StatusSucceeded, resultStore, resultKey, jobID, job.StatusRunning)
	if err != nil {
		return fmt.Errorf("failed to mark job succeeded: %w", err)
	}

	if err := s.ensureTransitioned(ctx, result, jobID, job.StatusSucceeded); err != nil {
		return err
	}

	s.logger.Info("Job succeeded",
		slog.String("job_id", jobID),
		slog.String("result_store", resultStore),
		slog.String("result_key", resultKey),
	)

	return nil
}

// MarkFailed records the failure message and moves a QUEUED or RUNNING job to FAILED
func (s *Store) MarkFailed(ctx context.Context, jobID, message string) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    error_message = $2,
		    updated_at = NOW()
		WHERE job_id = $3
		  AND status IN ($4, $5)
	`

	result, err := s.db.ExecContext(ctx, query, job.StatusFailed, message, jobID, job.StatusQueued, job.StatusRunning)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}

	if err := s.ensureTransitioned(ctx, result, jobID, job.StatusFailed); err != nil {
		return err
	}

	s.logger.Info("Job failed",
		slog.String("job_id", jobID),
		slog.String("error_message", message),
	)

	return nil
}

// ensureTransitioned turns a zero-row guarded update into a typed error
// carrying the record's current status
func (s *Store) ensureTransitioned(ctx context.Context, result sql.Result, jobID string, target job.Status) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows > 0 {
		return nil
	}

	current, err := s.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	return fmt.Errorf("%w: job %s is %s, cannot move to %s",
		job.ErrInvalidTransition, jobID, current.Status, target)
}
