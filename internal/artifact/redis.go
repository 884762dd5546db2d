package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps artifacts as Redis string values under a namespace prefix.
// The namespace doubles as the store name carried in every Location.
type RedisStore struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// RedisConfig holds artifact store settings
type RedisConfig struct {
	// Namespace prefixes every key and names the store in locations
	Namespace string
	// TTL expires artifacts after the given duration; zero keeps them forever
	TTL time.Duration
}

// NewRedisStore creates a Redis-backed artifact store
func NewRedisStore(rdb *redis.Client, cfg RedisConfig, logger *slog.Logger) *RedisStore {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "artifacts"
	}

	return &RedisStore{
		rdb:       rdb,
		namespace: namespace,
		ttl:       cfg.TTL,
		logger:    logger,
	}
}

// Name returns the store name recorded in locations
func (s *RedisStore) Name() string {
	return s.namespace
}

func (s *RedisStore) redisKey(key string) string {
	return s.namespace + ":" + key
}

// Put writes body under key and returns its location
func (s *RedisStore) Put(ctx context.Context, key string, body []byte) (Location, error) {
	if key == "" {
		return Location{}, fmt.Errorf("%w: empty key", ErrInvalidLocation)
	}

	if err := s.rdb.Set(ctx, s.redisKey(key), body, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to store artifact",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return Location{}, fmt.Errorf("failed to store artifact %s: %w", key, err)
	}

	s.logger.Debug("Artifact stored",
		slog.String("key", key),
		slog.Int("size", len(body)),
	)

	return Location{Store: s.namespace, Key: key}, nil
}

// Get reads the document at loc
func (s *RedisStore) Get(ctx context.Context, loc Location) ([]byte, error) {
	if loc.Store == "" || loc.Key == "" {
		return nil, fmt.Errorf("%w: store=%q key=%q", ErrInvalidLocation, loc.Store, loc.Key)
	}

	if loc.Store != s.namespace {
		return nil, fmt.Errorf("%w: unknown store %q", ErrInvalidLocation, loc.Store)
	}

	body, err := s.rdb.Get(ctx, s.redisKey(loc.Key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, loc.Key)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", loc.Key, err)
	}

	return body, nil
}
