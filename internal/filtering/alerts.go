package filtering

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

const (
	defaultHistorySize   = 500
	defaultQueueSize     = 256
	defaultNotifyTimeout = 5 * time.Second
	defaultDrainTimeout  = 10 * time.Second
	queueNotifierName    = "queue"
)

// ErrDrainTimeout is returned by Close when queued events are still being
// delivered after the drain timeout.
var ErrDrainTimeout = errors.New("alert queue not drained before timeout")

// Notifier delivers filtering events to an external channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, event domain.FilteringEvent) error
}

// AlertRecorder receives alert outcomes for metrics.
type AlertRecorder interface {
	RecordAlert(ctx context.Context, severity string)
	RecordNotifierFailure(ctx context.Context, notifier string)
}

// AlertSystem keeps a bounded history of events and fans them out to
// notifiers. Delivery runs on a background goroutine fed by a bounded queue,
// so Send never waits on a notifier. It is safe for concurrent use by several
// pipelines.
type AlertSystem struct {
	mu        sync.Mutex
	history   []domain.FilteringEvent
	next      int
	full      bool
	minLevel  string
	notifiers []Notifier
	recorder  AlertRecorder
	log       logger.Logger

	queueSize     int
	notifyTimeout time.Duration
	drainTimeout  time.Duration
	queue         chan domain.FilteringEvent
	closed        bool
	done          chan struct{}
	closeOnce     sync.Once
}

// AlertOption configures an AlertSystem.
type AlertOption func(*AlertSystem)

// WithNotifiers adds notifiers.
func WithNotifiers(n ...Notifier) AlertOption {
	return func(a *AlertSystem) { a.notifiers = append(a.notifiers, n...) }
}

// WithMinLevel sets the lowest alert level dispatched to notifiers. Lower
// events are still kept in the history.
func WithMinLevel(level string) AlertOption {
	return func(a *AlertSystem) { a.minLevel = level }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r AlertRecorder) AlertOption {
	return func(a *AlertSystem) { a.recorder = r }
}

// WithQueueSize sets how many events may wait for delivery. Events arriving
// while the queue is full are dropped and counted as notifier failures.
func WithQueueSize(n int) AlertOption {
	return func(a *AlertSystem) {
		if n > 0 {
			a.queueSize = n
		}
	}
}

// WithNotifyTimeout bounds each notifier call.
func WithNotifyTimeout(d time.Duration) AlertOption {
	return func(a *AlertSystem) {
		if d > 0 {
			a.notifyTimeout = d
		}
	}
}

// WithDrainTimeout bounds how long Close waits for queued events.
func WithDrainTimeout(d time.Duration) AlertOption {
	return func(a *AlertSystem) {
		if d > 0 {
			a.drainTimeout = d
		}
	}
}

// NewAlertSystem creates an alert system keeping the last size events. When
// notifiers are configured it starts the delivery goroutine; call Close to
// stop it.
func NewAlertSystem(size int, log logger.Logger, opts ...AlertOption) *AlertSystem {
	if size <= 0 {
		size = defaultHistorySize
	}
	if log == nil {
		log = logger.NewNop()
	}
	a := &AlertSystem{
		history:       make([]domain.FilteringEvent, size),
		minLevel:      domain.SeverityLow,
		log:           log,
		queueSize:     defaultQueueSize,
		notifyTimeout: defaultNotifyTimeout,
		drainTimeout:  defaultDrainTimeout,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	if len(a.notifiers) == 0 {
		close(a.done)
		return a
	}
	a.queue = make(chan domain.FilteringEvent, a.queueSize)
	go a.dispatch()
	return a
}

// Send records the event and queues it for delivery. It never blocks on a
// notifier: notifier failures and dropped events are logged and counted,
// never returned.
func (a *AlertSystem) Send(ctx context.Context, event domain.FilteringEvent) {
	a.mu.Lock()
	a.history[a.next] = event
	a.next = (a.next + 1) % len(a.history)
	if a.next == 0 {
		a.full = true
	}
	a.mu.Unlock()

	if a.recorder != nil {
		a.recorder.RecordAlert(ctx, event.AlertLevel)
	}
	a.logEvent(event)

	if a.queue == nil || domain.SeverityRank(event.AlertLevel) < domain.SeverityRank(a.minLevel) {
		return
	}
	a.enqueue(ctx, event)
}

func (a *AlertSystem) enqueue(ctx context.Context, event domain.FilteringEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		a.log.Warn("Alert system closed, event not delivered", logger.String("event_id", event.ID))
		return
	}
	select {
	case a.queue <- event:
	default:
		a.log.Warn("Alert queue full, event dropped",
			logger.String("event_id", event.ID),
			logger.Int("queue_size", a.queueSize),
		)
		if a.recorder != nil {
			a.recorder.RecordNotifierFailure(ctx, queueNotifierName)
		}
	}
}

// dispatch delivers queued events until the queue is closed.
func (a *AlertSystem) dispatch() {
	defer close(a.done)
	for event := range a.queue {
		for _, n := range a.notifiers {
			a.deliver(n, event)
		}
	}
}

func (a *AlertSystem) deliver(n Notifier, event domain.FilteringEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), a.notifyTimeout)
	defer cancel()

	if err := n.Notify(ctx, event); err != nil {
		a.log.Warn("Alert notifier failed",
			logger.String("notifier", n.Name()),
			logger.String("event_id", event.ID),
			logger.Error(err),
		)
		if a.recorder != nil {
			a.recorder.RecordNotifierFailure(ctx, n.Name())
		}
	}
}

// Close stops accepting events and waits for queued ones to be delivered,
// at most the drain timeout.
func (a *AlertSystem) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		if a.queue != nil {
			close(a.queue)
		}
		a.mu.Unlock()
	})

	timer := time.NewTimer(a.drainTimeout)
	defer timer.Stop()
	select {
	case <-a.done:
		return nil
	case <-timer.C:
		a.log.Warn("Alert queue not drained", logger.Duration("timeout", a.drainTimeout))
		return ErrDrainTimeout
	}
}

// Recent returns up to n events, oldest first. n <= 0 returns all.
func (a *AlertSystem) Recent(n int) []domain.FilteringEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	var ordered []domain.FilteringEvent
	if a.full {
		ordered = append(ordered, a.history[a.next:]...)
	}
	ordered = append(ordered, a.history[:a.next]...)

	if n > 0 && len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

// Len returns the number of events held.
func (a *AlertSystem) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.full {
		return len(a.history)
	}
	return a.next
}

func (a *AlertSystem) logEvent(event domain.FilteringEvent) {
	fields := []logger.Field{
		logger.String("session_id", event.SessionID),
		logger.Int("turn_index", event.TurnIndex),
		logger.String("label", string(event.Label)),
		logger.String("action", event.Action),
		logger.String("alert_level", event.AlertLevel),
		logger.Strings("flags", event.Flags),
	}
	switch event.AlertLevel {
	case domain.SeverityCritical, domain.SeverityHigh:
		a.log.Warn("Risk label alert", fields...)
	default:
		a.log.Info("Risk label alert", fields...)
	}
}
