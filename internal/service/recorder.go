package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"screener/config"
	"screener/internal/logger"
	"screener/internal/metrics"
	"screener/internal/model"
	"screener/internal/repository"
)

// ErrRecorderClosed is returned by Close when called twice
var ErrRecorderClosed = errors.New("recorder already closed")

// Recorder persists audit records without blocking the caller
type Recorder interface {
	Record(response *model.Response) bool
}

// AsyncRecorder writes responses through a bounded queue drained by a fixed
// set of workers. Record never blocks; when the queue is full the record is
// dropped and logged.
type AsyncRecorder struct {
	repo         repository.ResponseRepo
	log          logger.Logger
	queue        chan *model.Response
	writeTimeout time.Duration

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewAsyncRecorder starts cfg.Workers workers
func NewAsyncRecorder(repo repository.ResponseRepo, cfg config.RecorderConfig, log logger.Logger) *AsyncRecorder {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	size := cfg.QueueSize
	if size < 1 {
		size = 1
	}

	r := &AsyncRecorder{
		repo:         repo,
		log:          log.WithFields(map[string]interface{}{"component": "recorder"}),
		queue:        make(chan *model.Response, size),
		writeTimeout: cfg.WriteTimeout,
	}

	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	return r
}

// Record enqueues a response and reports whether it was accepted
func (r *AsyncRecorder) Record(response *model.Response) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		metrics.ResponsesRecorded.WithLabelValues("dropped").Inc()
		r.log.Warn("Recorder closed, dropping response", map[string]interface{}{"response_id": response.ID})
		return false
	}

	select {
	case r.queue <- response:
		metrics.RecorderQueueDepth.Set(float64(len(r.queue)))
		return true
	default:
		metrics.ResponsesRecorded.WithLabelValues("dropped").Inc()
		r.log.Warn("Recorder queue full, dropping response", map[string]interface{}{
			"response_id": response.ID,
			"queue_size":  cap(r.queue),
		})
		return false
	}
}

// Close stops accepting records and waits for queued ones to be written or
// for ctx to expire
func (r *AsyncRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRecorderClosed
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("recorder drain interrupted with %d pending: %w", len(r.queue), ctx.Err())
	}
}

func (r *AsyncRecorder) worker(id int) {
	defer r.wg.Done()
	for response := range r.queue {
		metrics.RecorderQueueDepth.Set(float64(len(r.queue)))
		r.write(id, response)
	}
}

func (r *AsyncRecorder) write(worker int, response *model.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.ResponsesRecorded.WithLabelValues("failed").Inc()
			r.log.Error("Recovered from panic while recording response", map[string]interface{}{
				"worker":      worker,
				"response_id": response.ID,
				"panic":       fmt.Sprint(rec),
			})
		}
	}()

	ctx := context.Background()
	if r.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.writeTimeout)
		defer cancel()
	}

	if err := r.repo.Create(ctx, response); err != nil {
		metrics.ResponsesRecorded.WithLabelValues("failed").Inc()
		r.log.WithError(err).Error("Failed to record response", map[string]interface{}{
			"worker":      worker,
			"response_id": response.ID,
		})
		return
	}

	metrics.ResponsesRecorded.WithLabelValues("ok").Inc()
	r.log.Debug("Response recorded", map[string]interface{}{"response_id": response.ID})
}
