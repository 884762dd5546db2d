package worker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/workproof/jobsvc/internal/artifact"
	"github.com/workproof/jobsvc/internal/job"
)

// processJob drives one delivery: claim the record, run the processor, record
// the outcome. A nil return acknowledges the delivery; a non-nil return leads
// to a NACK with the requeue decision taken from the error type.
func (w *Worker) processJob(ctx context.Context, msg *jobMessage) error {
	w.logger.Info("Processing job",
		slog.String("job_id", msg.jobID),
		slog.String("worker_id", w.workerID),
	)

	j, claimed, err := w.store.ClaimRunning(ctx, msg.jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			// No record to work on. Park the delivery for inspection.
			w.logger.Error("Job record not found for delivery",
				slog.String("job_id", msg.jobID),
			)
			return err
		}
		return job.NewDependencyError("claim job", err)
	}

	if !claimed {
		if j.Status.Terminal() {
			// Terminal statuses are final. Acknowledge the redelivery
			// without reprocessing.
			w.logger.Warn("Job already terminal, acknowledging redelivery",
				slog.String("job_id", msg.jobID),
				slog.String("status", string(j.Status)),
			)
			return nil
		}

		// RUNNING means a previous attempt died before finishing or another
		// consumer holds the same job. Reprocessing is safe: the result write
		// is keyed by job id and the terminal transition is guarded.
		w.logger.Warn("Job already RUNNING, reprocessing delivery",
			slog.String("job_id", msg.jobID),
		)
	}

	input, err := w.loadInputDocument(ctx, j.JobID)
	if err != nil {
		return err
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	result, err := w.processor.Process(jobCtx, j, input)
	if err != nil {
		if job.IsDependencyError(err) {
			w.logger.Error("Job hit a dependency failure, delivery will be retried",
				slog.String("job_id", j.JobID),
				slog.String("error", err.Error()),
			)
			return err
		}

		return w.recordFailure(ctx, j, err)
	}

	loc, err := w.artifacts.Put(ctx, artifact.ResultKey(j.JobID), result)
	if err != nil {
		return job.NewDependencyError("store result document", err)
	}

	if err := w.store.MarkSucceeded(ctx, j.JobID, loc.Store, loc.Key); err != nil {
		if errors.Is(err, job.ErrInvalidTransition) {
			w.logger.Warn("Job reached a terminal status concurrently",
				slog.String("job_id", j.JobID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		return job.NewDependencyError("mark job succeeded", err)
	}

	w.logger.Info("Job completed successfully",
		slog.String("job_id", j.JobID),
		slog.String("work_order_id", j.WorkOrderID),
	)

	return nil
}

// loadInputDocument fetches the submitted document for a job. A missing
// document is not an error: bare submissions are processed as empty work
// orders.
func (w *Worker) loadInputDocument(ctx context.Context, jobID string) ([]byte, error) {
	loc := artifact.Location{
		Store: w.artifacts.Name(),
		Key:   artifact.InputKey(jobID),
	}

	input, err := w.artifacts.Get(ctx, loc)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			w.logger.Warn("No input document stored for job",
				slog.String("job_id", jobID),
			)
			return nil, nil
		}
		return nil, job.NewDependencyError("read input document", err)
	}

	return input, nil
}

// recordFailure marks a business failure on the job record and acknowledges
// the delivery. Failures to write the mark are dependency errors so the
// delivery is retried.
func (w *Worker) recordFailure(ctx context.Context, j *job.Job, cause error) error {
	w.logger.Error("Job failed",
		slog.String("job_id", j.JobID),
		slog.String("work_order_id", j.WorkOrderID),
		slog.String("error", cause.Error()),
	)

	if err := w.store.MarkFailed(ctx, j.JobID, cause.Error()); err != nil {
		if errors.Is(err, job.ErrInvalidTransition) {
			w.logger.Warn("Job reached a terminal status concurrently",
				slog.String("job_id", j.JobID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		return job.NewDependencyError("mark job failed", err)
	}

	return nil
}
