package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workproof/jobsvc/internal/artifact"
	"github.com/workproof/jobsvc/internal/job"
)

type fakeJobStore struct {
	jobs     map[string]*job.Job
	claimErr error
	markErr  error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[string]*job.Job{}}
}

func (s *fakeJobStore) ClaimRunning(ctx context.Context, jobID string) (*job.Job, bool, error) {
	if s.claimErr != nil {
		return nil, false, s.claimErr
	}
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, false, job.ErrJobNotFound
	}
	if j.Status != job.StatusQueued {
		cp := *j
		return &cp, false, nil
	}
	j.Status = job.StatusRunning
	cp := *j
	return &cp, true, nil
}

func (s *fakeJobStore) MarkSucceeded(ctx context.Context, jobID, resultStore, resultKey string) error {
	if s.markErr != nil {
		return s.markErr
	}
	j, ok := s.jobs[jobID]
	if !ok {
		return job.ErrJobNotFound
	}
	if j.Status != job.StatusRunning {
		return fmt.Errorf("%w: job %s is %s, cannot move to %s", job.ErrInvalidTransition, jobID, j.Status, job.StatusSucceeded)
	}
	j.Status = job.StatusSucceeded
	j.ResultStore = resultStore
	j.ResultKey = resultKey
	j.ErrorMessage = ""
	return nil
}

func (s *fakeJobStore) MarkFailed(ctx context.Context, jobID, message string) error {
	if s.markErr != nil {
		return s.markErr
	}
	j, ok := s.jobs[jobID]
	if !ok {
		return job.ErrJobNotFound
	}
	if j.Status.Terminal() {
		return fmt.Errorf("%w: job %s is %s, cannot move to %s", job.ErrInvalidTransition, jobID, j.Status, job.StatusFailed)
	}
	j.Status = job.StatusFailed
	j.ErrorMessage = message
	return nil
}

type fakeArtifactStore struct {
	docs   map[string][]byte
	putErr error
	getErr error
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{docs: map[string][]byte{}}
}

func (a *fakeArtifactStore) Name() string {
	return "artifacts"
}

func (a *fakeArtifactStore) Put(ctx context.Context, key string, body []byte) (artifact.Location, error) {
	if a.putErr != nil {
		return artifact.Location{}, a.putErr
	}
	a.docs[key] = append([]byte(nil), body...)
	return artifact.Location{Store: a.Name(), Key: key}, nil
}

func (a *fakeArtifactStore) Get(ctx context.Context, loc artifact.Location) ([]byte, error) {
	if a.getErr != nil {
		return nil, a.getErr
	}
	body, ok := a.docs[loc.Key]
	if !ok {
		return nil, artifact.ErrNotFound
	}
	return body, nil
}

type fakeProcessor struct {
	result   json.RawMessage
	err      error
	calls    int
	gotInput []byte
	gotJob   *job.Job
}

func (p *fakeProcessor) Process(ctx context.Context, j *job.Job, input []byte) (json.RawMessage, error) {
	p.calls++
	p.gotJob = j
	p.gotInput = input
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type workerFixture struct {
	store     *fakeJobStore
	artifacts *fakeArtifactStore
	processor *fakeProcessor
	worker    *Worker
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()

	f := &workerFixture{
		store:     newFakeJobStore(),
		artifacts: newFakeArtifactStore(),
		processor: &fakeProcessor{result: json.RawMessage(`{"summary":"ok"}`)},
	}

	f.worker = NewWorker(&Config{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:         f.store,
		Artifacts:     f.artifacts,
		Processor:     f.processor,
		Concurrency:   1,
		PrefetchCount: 1,
		JobTimeout:    5 * time.Second,
	})

	return f
}

func (f *workerFixture) seedJob(status job.Status) string {
	jobID := uuid.New().String()
	f.store.jobs[jobID] = &job.Job{
		JobID:       jobID,
		WorkOrderID: "WO-1",
		Status:      status,
	}
	return jobID
}

func TestProcessJob_Success(t *testing.T) {
	f := newWorkerFixture(t)
	jobID := f.seedJob(job.StatusQueued)

	input := []byte(`{"workOrderId":"WO-1","sectionContents":[{"recordId":"r1","content":"text"}]}`)
	f.artifacts.docs[artifact.InputKey(jobID)] = input

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: jobID, deliveryTag: 1})
	require.NoError(t, err)

	stored := f.store.jobs[jobID]
	assert.Equal(t, job.StatusSucceeded, stored.Status)
	assert.Equal(t, "artifacts", stored.ResultStore)
	assert.Equal(t, artifact.ResultKey(jobID), stored.ResultKey)
	assert.Empty(t, stored.ErrorMessage)

	assert.Equal(t, []byte(`{"summary":"ok"}`), f.artifacts.docs[artifact.ResultKey(jobID)])

	require.Equal(t, 1, f.processor.calls)
	assert.Equal(t, input, f.processor.gotInput)
	assert.Equal(t, job.StatusRunning, f.processor.gotJob.Status)
}

func TestProcessJob_TerminalRedeliveryIsAcknowledged(t *testing.T) {
	for _, status := range []job.Status{job.StatusSucceeded, job.StatusFailed} {
		t.Run(string(status), func(t *testing.T) {
			f := newWorkerFixture(t)
			jobID := f.seedJob(status)

			err := f.worker.processJob(context.Background(), &jobMessage{jobID: jobID, deliveryTag: 1})

			require.NoError(t, err)
			assert.Zero(t, f.processor.calls)
			assert.Equal(t, status, f.store.jobs[jobID].Status)
		})
	}
}

func TestProcessJob_RunningRedeliveryIsReprocessed(t *testing.T) {
	f := newWorkerFixture(t)
	jobID := f.seedJob(job.StatusRunning)

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: jobID, deliveryTag: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, f.processor.calls)
	assert.Equal(t, job.StatusSucceeded, f.store.jobs[jobID].Status)
}

func TestProcessJob_BusinessFailureMarksFailedAndAcks(t *testing.T) {
	f := newWorkerFixture(t)
	jobID := f.seedJob(job.StatusQueued)
	f.processor.err = errors.New("invalid input document: unexpected end of JSON input")

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: jobID, deliveryTag: 1})

	require.NoError(t, err)

	stored := f.store.jobs[jobID]
	assert.Equal(t, job.StatusFailed, stored.Status)
	assert.Equal(t, "invalid input document: unexpected end of JSON input", stored.ErrorMessage)
	assert.NotContains(t, f.artifacts.docs, artifact.ResultKey(jobID))
}

func TestProcessJob_DependencyFailureIsRetried(t *testing.T) {
	f := newWorkerFixture(t)
	jobID := f.seedJob(job.StatusQueued)
	f.processor.err = job.NewDependencyError("openai chat completion", errors.New("connection refused"))

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: jobID, deliveryTag: 1})

	require.Error(t, err)
	assert.True(t, f.worker.shouldRequeue(err))

	// The record stays RUNNING until a redelivery finishes the job
	assert.Equal(t, job.StatusRunning, f.store.jobs[jobID].Status)
}

func TestProcessJob_UnknownJobIsParked(t *testing.T) {
	f := newWorkerFixture(t)

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: uuid.New().String(), deliveryTag: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, job.ErrJobNotFound)
	assert.False(t, f.worker.shouldRequeue(err))
}

func TestProcessJob_ClaimDependencyFailure(t *testing.T) {
	f := newWorkerFixture(t)
	f.store.claimErr = errors.New("connection reset")

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: uuid.New().String(), deliveryTag: 1})

	require.Error(t, err)
	assert.True(t, f.worker.shouldRequeue(err))
}

func TestProcessJob_MissingInputProcessedAsEmpty(t *testing.T) {
	f := newWorkerFixture(t)
	jobID := f.seedJob(job.StatusQueued)

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: jobID, deliveryTag: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, f.processor.calls)
	assert.Nil(t, f.processor.gotInput)
	assert.Equal(t, job.StatusSucceeded, f.store.jobs[jobID].Status)
}

func TestProcessJob_ResultWriteFailureIsRetried(t *testing.T) {
	f := newWorkerFixture(t)
	jobID := f.seedJob(job.StatusQueued)
	f.artifacts.putErr = errors.New("redis unavailable")

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: jobID, deliveryTag: 1})

	require.Error(t, err)
	assert.True(t, f.worker.shouldRequeue(err))
	assert.Equal(t, job.StatusRunning, f.store.jobs[jobID].Status)
}

func TestProcessJob_ConcurrentTerminalTransitionIsAcknowledged(t *testing.T) {
	f := newWorkerFixture(t)
	jobID := f.seedJob(job.StatusQueued)
	f.store.markErr = fmt.Errorf("%w: job %s is SUCCEEDED, cannot move to SUCCEEDED", job.ErrInvalidTransition, jobID)

	err := f.worker.processJob(context.Background(), &jobMessage{jobID: jobID, deliveryTag: 1})

	require.NoError(t, err)
}

func TestShouldRequeue(t *testing.T) {
	f := newWorkerFixture(t)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "dependency error",
			err:  job.NewDependencyError("claim job", errors.New("timeout")),
			want: true,
		},
		{
			name: "wrapped dependency error",
			err:  fmt.Errorf("processing: %w", job.NewDependencyError("put", errors.New("down"))),
			want: true,
		},
		{
			name: "business error",
			err:  errors.New("invalid input document"),
			want: false,
		},
		{
			name: "missing record",
			err:  job.ErrJobNotFound,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.worker.shouldRequeue(tt.err))
		})
	}
}
