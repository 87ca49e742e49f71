// Package processor analyzes many sessions in parallel. Each worker owns a
// pipeline built from a shared factory.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/pipeline"
)

const defaultConcurrency = 4

var (
	// ErrSessionPanic wraps a panic recovered while analyzing a session.
	ErrSessionPanic = errors.New("session analysis panicked")
	// ErrNotProcessed marks a session no worker reached.
	ErrNotProcessed = errors.New("session not processed")
)

// Factory builds a pipeline for one worker.
type Factory func() *pipeline.Pipeline

// WorkerRecorder receives batch metrics.
type WorkerRecorder interface {
	RecordBatchSize(size int)
	SetActiveWorkers(count int)
	RecordSessionFailure(ctx context.Context)
}

// ProcessResult is the outcome of one session in a batch.
type ProcessResult struct {
	Index     int                    `json:"index"`
	SessionID string                 `json:"session_id"`
	Result    *domain.PipelineResult `json:"result,omitempty"`
	Error     error                  `json:"-"`
	ErrorText string                 `json:"error,omitempty"`
}

// BatchProcessor fans sessions out to a worker pool.
type BatchProcessor struct {
	factory     Factory
	concurrency int
	limiter     *RateLimiter
	recorder    WorkerRecorder
	logger      logger.Logger

	mu     sync.Mutex
	active int
}

// Option configures a BatchProcessor.
type Option func(*BatchProcessor)

// WithRateLimiter paces session starts.
func WithRateLimiter(l *RateLimiter) Option {
	return func(b *BatchProcessor) { b.limiter = l }
}

// WithRecorder records batch metrics.
func WithRecorder(r WorkerRecorder) Option {
	return func(b *BatchProcessor) { b.recorder = r }
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(factory Factory, concurrency int, log logger.Logger, opts ...Option) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}
	b := &BatchProcessor{factory: factory, concurrency: concurrency, logger: log}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Concurrency returns the worker count.
func (b *BatchProcessor) Concurrency() int {
	return b.concurrency
}

// Process analyzes every session and returns one result per input, in input
// order. A failing session records its error; the batch continues.
func (b *BatchProcessor) Process(ctx context.Context, sessions []domain.Transcript) []ProcessResult {
	results := make([]ProcessResult, len(sessions))
	if len(sessions) == 0 {
		return results
	}

	workers := min(b.concurrency, len(sessions))
	b.logger.Info("Starting batch processing",
		logger.Int("batch_size", len(sessions)),
		logger.Int("concurrency", workers),
	)
	if b.recorder != nil {
		b.recorder.RecordBatchSize(len(sessions))
	}

	startTime := time.Now()

	jobs := make(chan int, len(sessions))
	for i := range sessions {
		jobs <- i
	}
	close(jobs)

	done := make([]bool, len(sessions))
	var wg sync.WaitGroup
	for id := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.worker(ctx, id, sessions, jobs, results, done)
		}()
	}
	wg.Wait()

	errorCount := 0
	for i := range results {
		if !done[i] {
			results[i] = ProcessResult{Index: i, SessionID: sessions[i].SessionID}
			results[i].setError(notProcessed(ctx))
		}
		if results[i].Error != nil {
			errorCount++
			if b.recorder != nil {
				b.recorder.RecordSessionFailure(ctx)
			}
		}
	}

	duration := time.Since(startTime)
	b.logger.Info("Batch processing complete",
		logger.Int("total", len(sessions)),
		logger.Int("success", len(sessions)-errorCount),
		logger.Int("errors", errorCount),
		logger.Int64("duration_ms", duration.Milliseconds()),
	)

	return results
}

// worker processes sessions from jobs with its own pipeline. Each index is
// written by exactly one worker.
func (b *BatchProcessor) worker(
	ctx context.Context,
	id int,
	sessions []domain.Transcript,
	jobs <-chan int,
	results []ProcessResult,
	done []bool,
) {
	b.setActive(1)
	defer b.setActive(-1)

	p := b.factory()
	b.logger.Debug("Worker started", logger.Int("worker_id", id))

	for i := range jobs {
		if ctx.Err() != nil {
			b.logger.Warn("Worker stopping due to context cancellation", logger.Int("worker_id", id))
			return
		}
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				results[i] = ProcessResult{Index: i, SessionID: sessions[i].SessionID}
				results[i].setError(fmt.Errorf("%w: rate limiter: %w", ErrNotProcessed, err))
				done[i] = true
				continue
			}
		}
		results[i] = b.processSession(ctx, p, i, sessions[i])
		done[i] = true
	}

	b.logger.Debug("Worker finished", logger.Int("worker_id", id))
}

func (b *BatchProcessor) processSession(
	ctx context.Context,
	p *pipeline.Pipeline,
	index int,
	transcript domain.Transcript,
) (result ProcessResult) {
	result = ProcessResult{Index: index, SessionID: transcript.SessionID}
	defer func() {
		if r := recover(); r != nil {
			result.Result = nil
			result.setError(fmt.Errorf("%w: %v", ErrSessionPanic, r))
			b.logger.Error("Session analysis failed",
				logger.Int("index", index),
				logger.String("session_id", transcript.SessionID),
				logger.Any("panic", r),
			)
		}
	}()

	result.Result = p.Process(ctx, transcript)
	result.SessionID = result.Result.SessionID
	return result
}

func notProcessed(ctx context.Context) error {
	if cause := context.Cause(ctx); cause != nil {
		return fmt.Errorf("%w: %w", ErrNotProcessed, cause)
	}
	return ErrNotProcessed
}

func (r *ProcessResult) setError(err error) {
	r.Error = err
	r.ErrorText = err.Error()
}

func (b *BatchProcessor) setActive(delta int) {
	b.mu.Lock()
	b.active += delta
	active := b.active
	b.mu.Unlock()

	if b.recorder != nil {
		b.recorder.SetActiveWorkers(active)
	}
}
