// Package worker consumes job messages from RabbitMQ and drives each job to a
// terminal status: claim the record, run the processor, store the result.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workproof/jobsvc/internal/artifact"
	"github.com/workproof/jobsvc/internal/job"
	"github.com/workproof/jobsvc/shared/rabbitmq"
)

// JobStore is the record-store surface the worker needs
type JobStore interface {
	ClaimRunning(ctx context.Context, jobID string) (*job.Job, bool, error)
	MarkSucceeded(ctx context.Context, jobID, resultStore, resultKey string) error
	MarkFailed(ctx context.Context, jobID, message string) error
}

// Processor runs the actual work for one claimed job. A returned
// DependencyError marks the delivery retryable; any other error is a business
// failure recorded on the job.
type Processor interface {
	Process(ctx context.Context, j *job.Job, input []byte) (json.RawMessage, error)
}

// jobMessage pairs a parsed job id with its broker delivery tag
type jobMessage struct {
	jobID       string
	deliveryTag uint64
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Store         JobStore
	Artifacts     artifact.Store
	Processor     Processor
	Concurrency   int
	PrefetchCount int
	JobTimeout    time.Duration
}

// Worker represents the background job worker
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	store         JobStore
	artifacts     artifact.Store
	processor     Processor
	concurrency   int
	prefetchCount int
	jobTimeout    time.Duration
	workerID      string
	jobsChan      chan *jobMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "worker"
	}

	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		store:         cfg.Store,
		artifacts:     cfg.Artifacts,
		processor:     cfg.Processor,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		jobTimeout:    cfg.JobTimeout,
		workerID:      fmt.Sprintf("%s-%s", hostname, uuid.New().String()[:8]),
		jobsChan:      make(chan *jobMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and processing jobs. It blocks until ctx is canceled
// or the broker delivery channel closes.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
