// Package testhelpers provides shared test doubles for callguard packages.
package testhelpers

import (
	"context"
	"errors"
	"sync"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/intent"
)

// ErrMockFailure is returned by mocks configured to fail.
var ErrMockFailure = errors.New("mock failure")

// MockClassifier is a scripted learned classifier.
type MockClassifier struct {
	mu          sync.Mutex
	prediction  *intent.Prediction
	err         error
	panicValue  any
	unavailable bool
	calls       int
}

// NewMockClassifier returns a classifier that always answers p.
func NewMockClassifier(p *intent.Prediction) *MockClassifier {
	return &MockClassifier{prediction: p}
}

// NewFailingClassifier returns a classifier whose every call fails with err.
func NewFailingClassifier(err error) *MockClassifier {
	if err == nil {
		err = ErrMockFailure
	}
	return &MockClassifier{err: err}
}

// NewPanickingClassifier returns a classifier whose every call panics.
func NewPanickingClassifier(v any) *MockClassifier {
	return &MockClassifier{panicValue: v}
}

// SetUnavailable marks the classifier unavailable.
func (m *MockClassifier) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

// Predict implements intent.LearnedClassifier.
func (m *MockClassifier) Predict(_ context.Context, _ string) (*intent.Prediction, error) {
	m.mu.Lock()
	m.calls++
	p, err, pv := m.prediction, m.err, m.panicValue
	m.mu.Unlock()

	if pv != nil {
		panic(pv)
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Available implements intent.LearnedClassifier.
func (m *MockClassifier) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.unavailable
}

// Calls returns the number of Predict calls.
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockEmotion is a scripted emotion classifier.
type MockEmotion struct {
	Label      string
	Confidence float64
	Err        error
}

// Classify returns the scripted label.
func (m *MockEmotion) Classify(_ context.Context, _ string) (string, float64, error) {
	if m.Err != nil {
		return "", 0, m.Err
	}
	return m.Label, m.Confidence, nil
}

// RecordingNotifier records every event it is asked to deliver.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []domain.FilteringEvent
	Err    error
}

// Name implements filtering.Notifier.
func (r *RecordingNotifier) Name() string { return "recording" }

// Notify records ev and returns the configured error.
func (r *RecordingNotifier) Notify(_ context.Context, ev domain.FilteringEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.Err
}

// Events returns a copy of the recorded events.
func (r *RecordingNotifier) Events() []domain.FilteringEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.FilteringEvent, len(r.events))
	copy(out, r.events)
	return out
}

// BlockingNotifier blocks every Notify call until Release is closed,
// ignoring the call context. Set HonorContext to return ctx.Err() instead
// when the context ends first.
type BlockingNotifier struct {
	Release      chan struct{}
	HonorContext bool

	mu    sync.Mutex
	calls int
	errs  []error
}

// NewBlockingNotifier returns a notifier blocked until Release is closed.
func NewBlockingNotifier(honorContext bool) *BlockingNotifier {
	return &BlockingNotifier{Release: make(chan struct{}), HonorContext: honorContext}
}

// Name implements filtering.Notifier.
func (b *BlockingNotifier) Name() string { return "blocking" }

// Notify implements filtering.Notifier.
func (b *BlockingNotifier) Notify(ctx context.Context, _ domain.FilteringEvent) error {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()

	var err error
	if b.HonorContext {
		select {
		case <-b.Release:
		case <-ctx.Done():
			err = ctx.Err()
		}
	} else {
		<-b.Release
	}

	b.mu.Lock()
	b.errs = append(b.errs, err)
	b.mu.Unlock()
	return err
}

// Calls returns the number of Notify calls started.
func (b *BlockingNotifier) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Errors returns the result of every finished Notify call.
func (b *BlockingNotifier) Errors() []error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]error, len(b.errs))
	copy(out, b.errs)
	return out
}
