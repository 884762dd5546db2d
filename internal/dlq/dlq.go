// Package dlq inspects and replays job messages that exhausted their broker
// delivery limit and were parked on the dead-letter queue.
package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/workproof/jobsvc/internal/queue"
	"github.com/workproof/jobsvc/shared/rabbitmq"
)

// Entry describes one message parked on the dead-letter queue
type Entry struct {
	JobID        string
	Reason       string
	Queue        string
	DeathCount   int64
	FirstDeathAt time.Time
}

// Service reads the dead-letter queue through the shared RabbitMQ client
type Service struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewService creates a dead-letter service
func NewService(client *rabbitmq.Client, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// List peeks up to limit entries and leaves them parked on the queue
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	channel, queueName, err := s.deadLetterQueue()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var lastTag uint64

	for len(entries) < limit {
		msg, ok, err := channel.Get(queueName, false)
		if err != nil {
			s.requeuePeeked(channel, lastTag)
			return nil, fmt.Errorf("failed to read dead-letter queue: %w", err)
		}
		if !ok {
			break
		}

		entries = append(entries, entryFromDelivery(msg))
		lastTag = msg.DeliveryTag
	}

	s.requeuePeeked(channel, lastTag)

	s.logger.Debug("Dead-letter queue inspected",
		slog.Int("entries", len(entries)),
	)

	return entries, nil
}

// Replay re-enqueues up to limit messages onto the work exchange and removes
// them from the dead-letter queue. Replayed messages start with a fresh
// delivery budget.
func (s *Service) Replay(ctx context.Context, limit int) (int, error) {
	channel, queueName, err := s.deadLetterQueue()
	if err != nil {
		return 0, err
	}

	replayed := 0
	for replayed < limit {
		msg, ok, err := channel.Get(queueName, false)
		if err != nil {
			return replayed, fmt.Errorf("failed to read dead-letter queue: %w", err)
		}
		if !ok {
			break
		}

		if err := s.client.Publish(ctx, msg.Body, msg.ContentType); err != nil {
			// Leave the message parked for the next attempt
			if nackErr := channel.Nack(msg.DeliveryTag, false, true); nackErr != nil {
				s.logger.Error("Failed to repark dead-lettered message",
					slog.Any("error", nackErr),
				)
			}
			return replayed, fmt.Errorf("failed to republish dead-lettered message: %w", err)
		}

		if err := channel.Ack(msg.DeliveryTag, false); err != nil {
			return replayed, fmt.Errorf("failed to ack replayed message: %w", err)
		}

		replayed++
	}

	if replayed > 0 {
		s.logger.Info("Dead-lettered messages replayed",
			slog.Int("count", replayed),
		)
	}

	return replayed, nil
}

func (s *Service) deadLetterQueue() (*amqp.Channel, string, error) {
	channel := s.client.GetChannel()
	if channel == nil {
		return nil, "", fmt.Errorf("rabbitmq channel is nil")
	}

	queueName := s.client.DeadLetterQueueName()
	if queueName == "" {
		return nil, "", fmt.Errorf("dead-letter queue is not configured")
	}

	return channel, queueName, nil
}

// requeuePeeked returns every message read so far to the queue in one nack
func (s *Service) requeuePeeked(channel *amqp.Channel, lastTag uint64) {
	if lastTag == 0 {
		return
	}

	if err := channel.Nack(lastTag, true, true); err != nil {
		s.logger.Error("Failed to requeue peeked dead-letter messages",
			slog.Any("error", err),
		)
	}
}

// entryFromDelivery builds an Entry from the message body and the x-death
// header the broker attaches when it dead-letters a message
func entryFromDelivery(msg amqp.Delivery) Entry {
	entry := Entry{}

	var m queue.Message
	if err := json.Unmarshal(msg.Body, &m); err == nil {
		entry.JobID = m.JobID
	}

	entry.Reason, entry.Queue, entry.DeathCount, entry.FirstDeathAt = parseDeath(msg.Headers)
	return entry
}

// parseDeath extracts the most recent death record from an x-death header
func parseDeath(headers amqp.Table) (reason, queueName string, count int64, at time.Time) {
	deaths, ok := headers["x-death"].([]interface{})
	if !ok || len(deaths) == 0 {
		return
	}

	latest, ok := deaths[0].(amqp.Table)
	if !ok {
		return
	}

	if v, ok := latest["reason"].(string); ok {
		reason = v
	}
	if v, ok := latest["queue"].(string); ok {
		queueName = v
	}
	switch v := latest["count"].(type) {
	case int64:
		count = v
	case int32:
		count = int64(v)
	case int:
		count = int64(v)
	}
	if v, ok := latest["time"].(time.Time); ok {
		at = v
	}

	return
}
