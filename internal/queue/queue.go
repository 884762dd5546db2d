package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/workproof/jobsvc/shared/rabbitmq"
)

// Message is the payload placed on the work queue for each accepted job.
// It carries only the job id; workers load everything else from the record store.
type Message struct {
	JobID string `json:"jobId"`
}

// Publisher enqueues job messages for asynchronous processing
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// AMQPPublisher publishes job messages through the shared RabbitMQ client
type AMQPPublisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewAMQPPublisher creates a publisher bound to the configured work exchange
func NewAMQPPublisher(client *rabbitmq.Client, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		client: client,
		logger: logger,
	}
}

// Publish marshals msg and publishes it with retry
func (p *AMQPPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal job message: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", msg.JobID, err)
	}

	p.logger.Debug("Job message enqueued",
		slog.String("job_id", msg.JobID),
	)

	return nil
}
