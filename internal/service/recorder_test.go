package service

import (
	"context"
	"testing"
	"time"

	"screener/config"
	"screener/internal/logger"
	"screener/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRecorder(t *testing.T, repo *fakeResponseRepo, queueSize, workers int) *AsyncRecorder {
	t.Helper()
	return NewAsyncRecorder(repo, config.RecorderConfig{
		QueueSize:    queueSize,
		Workers:      workers,
		WriteTimeout: time.Second,
	}, logger.NewTestLogger(t))
}

func TestAsyncRecorder_WritesRecords(t *testing.T) {
	repo := &fakeResponseRepo{}
	rec := createTestRecorder(t, repo, 8, 2)

	for i := 0; i < 5; i++ {
		assert.True(t, rec.Record(&model.Response{Answers: []model.Answer{{QuestionID: "question_a", Value: i}}}))
	}

	require.NoError(t, rec.Close(context.Background()))
	assert.Equal(t, 5, repo.count())
}

func TestAsyncRecorder_FailureIsSwallowed(t *testing.T) {
	repo := &fakeResponseRepo{err: errStoreDown}
	rec := createTestRecorder(t, repo, 4, 1)

	assert.True(t, rec.Record(&model.Response{ID: "r1"}))
	require.NoError(t, rec.Close(context.Background()))
	assert.Equal(t, 0, repo.count())
}

func TestAsyncRecorder_DropsWhenFull(t *testing.T) {
	repo := &fakeResponseRepo{block: make(chan struct{})}
	rec := createTestRecorder(t, repo, 1, 1)

	assert.True(t, rec.Record(&model.Response{ID: "r1"}))
	// wait for the worker to pick up r1 and block on it
	assert.Eventually(t, func() bool { return len(rec.queue) == 0 }, time.Second, 5*time.Millisecond)

	assert.True(t, rec.Record(&model.Response{ID: "r2"}))
	assert.False(t, rec.Record(&model.Response{ID: "r3"}))

	close(repo.block)
	require.NoError(t, rec.Close(context.Background()))
	assert.Equal(t, 2, repo.count())
}

func TestAsyncRecorder_RecoversFromPanic(t *testing.T) {
	repo := &fakeResponseRepo{panicOn: "bad"}
	rec := createTestRecorder(t, repo, 4, 1)

	rec.Record(&model.Response{ID: "bad"})
	rec.Record(&model.Response{ID: "good"})

	require.NoError(t, rec.Close(context.Background()))
	assert.Equal(t, 1, repo.count())
}

func TestAsyncRecorder_Close(t *testing.T) {
	repo := &fakeResponseRepo{}
	rec := createTestRecorder(t, repo, 4, 1)

	require.NoError(t, rec.Close(context.Background()))
	assert.ErrorIs(t, rec.Close(context.Background()), ErrRecorderClosed)
	assert.False(t, rec.Record(&model.Response{ID: "late"}))
}

func TestAsyncRecorder_CloseTimesOut(t *testing.T) {
	repo := &fakeResponseRepo{block: make(chan struct{})}
	rec := NewAsyncRecorder(repo, config.RecorderConfig{QueueSize: 4, Workers: 1}, logger.NewNoOpLogger())
	defer close(repo.block)

	rec.Record(&model.Response{ID: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := rec.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
