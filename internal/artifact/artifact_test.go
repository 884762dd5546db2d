package artifact

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_Empty(t *testing.T) {
	assert.True(t, Location{}.Empty())
	assert.False(t, Location{Store: "artifacts"}.Empty())
	assert.False(t, Location{Key: "results/a.json"}.Empty())
	assert.False(t, Location{Store: "artifacts", Key: "results/a.json"}.Empty())
}

func TestRedisStore_Name(t *testing.T) {
	logger := slog.Default()

	s := NewRedisStore(nil, RedisConfig{Namespace: "proofing"}, logger)
	assert.Equal(t, "proofing", s.Name())

	// Empty namespace falls back to the default store name
	s = NewRedisStore(nil, RedisConfig{}, logger)
	assert.Equal(t, "artifacts", s.Name())
}

func TestRedisStore_PutRejectsEmptyKey(t *testing.T) {
	s := NewRedisStore(nil, RedisConfig{Namespace: "artifacts"}, slog.Default())

	_, err := s.Put(context.Background(), "", []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestRedisStore_GetRejectsBadLocations(t *testing.T) {
	s := NewRedisStore(nil, RedisConfig{Namespace: "artifacts"}, slog.Default())

	tests := []struct {
		name string
		loc  Location
	}{
		{
			name: "empty location",
			loc:  Location{},
		},
		{
			name: "missing key",
			loc:  Location{Store: "artifacts"},
		},
		{
			name: "missing store",
			loc:  Location{Key: "results/a.json"},
		},
		{
			name: "foreign store",
			loc:  Location{Store: "s3-output", Key: "results/a.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Get(context.Background(), tt.loc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLocation)
		})
	}
}
