package processor_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/pipeline"
	"github.com/hyunhan-cho/LT-GDG/internal/processor"
)

var tables = pipeline.NewTables(nil, logger.NewNop())

func session(id, text string) domain.Transcript {
	return domain.Transcript{
		SessionID:  id,
		Utterances: []domain.Utterance{{Speaker: domain.SpeakerCustomer, Text: text}},
	}
}

type countingFactory struct {
	mu    sync.Mutex
	built int
}

func (f *countingFactory) build() *pipeline.Pipeline {
	f.mu.Lock()
	f.built++
	f.mu.Unlock()
	return pipeline.New(tables)
}

type recorder struct {
	mu        sync.Mutex
	batches   []int
	maxActive int
	failures  int
}

func (r *recorder) RecordBatchSize(size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, size)
}

func (r *recorder) SetActiveWorkers(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxActive = max(r.maxActive, count)
}

func (r *recorder) RecordSessionFailure(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func TestBatchProcessor_ProcessKeepsOrder(t *testing.T) {
	factory := &countingFactory{}
	rec := &recorder{}
	b := processor.NewBatchProcessor(factory.build, 3, nil, processor.WithRecorder(rec))

	sessions := make([]domain.Transcript, 10)
	for i := range sessions {
		text := "환불 절차가 어떻게 되나요?"
		if i%2 == 1 {
			text = "시발놈아!"
		}
		sessions[i] = session(fmt.Sprintf("s-%d", i), text)
	}

	results := b.Process(context.Background(), sessions)

	require.Len(t, results, len(sessions))
	for i, r := range results {
		require.NoError(t, r.Error)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, sessions[i].SessionID, r.SessionID)
		require.NotNil(t, r.Result)
		wantType := domain.LabelTypeNormal
		if i%2 == 1 {
			wantType = domain.LabelTypeSpecial
		}
		assert.Equal(t, wantType, r.Result.TurnResults[0].CustomerResult.ClassificationResult.LabelType)
	}

	assert.Equal(t, 3, factory.built)
	assert.Equal(t, []int{10}, rec.batches)
	assert.LessOrEqual(t, rec.maxActive, 3)
	assert.Zero(t, rec.failures)
}

func TestBatchProcessor_Empty(t *testing.T) {
	b := processor.NewBatchProcessor((&countingFactory{}).build, 2, nil)
	assert.Empty(t, b.Process(context.Background(), nil))
}

func TestBatchProcessor_DefaultConcurrency(t *testing.T) {
	b := processor.NewBatchProcessor((&countingFactory{}).build, 0, nil)
	assert.Equal(t, 4, b.Concurrency())
}

func TestBatchProcessor_FewerSessionsThanWorkers(t *testing.T) {
	factory := &countingFactory{}
	b := processor.NewBatchProcessor(factory.build, 8, nil)

	results := b.Process(context.Background(), []domain.Transcript{session("only", "문의드립니다")})

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Error)
	assert.Equal(t, 1, factory.built)
}

func TestBatchProcessor_CancelledContext(t *testing.T) {
	rec := &recorder{}
	b := processor.NewBatchProcessor((&countingFactory{}).build, 2, nil, processor.WithRecorder(rec))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := b.Process(ctx, []domain.Transcript{session("a", "문의"), session("b", "문의")})

	require.Len(t, results, 2)
	for _, r := range results {
		require.Error(t, r.Error)
		assert.ErrorIs(t, r.Error, context.Canceled)
		assert.NotEmpty(t, r.ErrorText)
		assert.Nil(t, r.Result)
	}
	assert.Equal(t, 2, rec.failures)
}

func TestRateLimiter(t *testing.T) {
	l := processor.NewRateLimiter(1, 1, nil)

	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx))

	l.SetLimit(1000)
	assert.NoError(t, l.Wait(context.Background()))
}

func TestBatchProcessor_RateLimited(t *testing.T) {
	limiter := processor.NewRateLimiter(1000, 1, nil)
	b := processor.NewBatchProcessor((&countingFactory{}).build, 2, nil, processor.WithRateLimiter(limiter))

	results := b.Process(context.Background(), []domain.Transcript{
		session("a", "문의"), session("b", "문의"), session("c", "문의"),
	})

	for _, r := range results {
		assert.NoError(t, r.Error)
	}
}

func TestBatchProcessor_RateLimiterDeadlineRecordsError(t *testing.T) {
	rec := &recorder{}
	// one token, then one session every 100s: the second wait cannot fit the deadline
	limiter := processor.NewRateLimiter(0.01, 1, nil)
	b := processor.NewBatchProcessor((&countingFactory{}).build, 1, nil,
		processor.WithRateLimiter(limiter),
		processor.WithRecorder(rec),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	results := b.Process(ctx, []domain.Transcript{session("a", "문의"), session("b", "문의"), session("c", "문의")})

	require.Len(t, results, 3)
	require.NoError(t, results[0].Error)
	require.NotNil(t, results[0].Result)
	for _, r := range results[1:] {
		require.Error(t, r.Error)
		assert.ErrorIs(t, r.Error, processor.ErrNotProcessed)
		assert.Contains(t, r.ErrorText, "rate limiter")
		assert.NotContains(t, r.ErrorText, "%!")
		assert.Nil(t, r.Result)
	}
	require.NoError(t, ctx.Err())
	assert.Equal(t, 2, rec.failures)
}
