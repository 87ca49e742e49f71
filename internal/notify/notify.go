// Package notify delivers filtering events to external channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

// ErrEmptyAddress is returned when a sink address is not configured.
var ErrEmptyAddress = errors.New("notifier address is required")

const maxQuotedText = 80

// FormatMessage renders an event as a one-line human readable alert.
func FormatMessage(ev domain.FilteringEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s in session %s turn %d: action %s (confidence %.2f)",
		ev.AlertLevel, ev.Label, ev.SessionID, ev.TurnIndex, ev.Action, ev.Confidence)
	if ev.RepeatCount > 1 {
		fmt.Fprintf(&b, ", seen %d times", ev.RepeatCount)
	}
	if len(ev.Flags) > 0 {
		fmt.Fprintf(&b, " flags=%s", strings.Join(ev.Flags, ","))
	}
	if ev.Text != "" {
		fmt.Fprintf(&b, " %q", truncate(ev.Text, maxQuotedText))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// LogNotifier writes events to the service log.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a notifier writing to log.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogNotifier{log: log}
}

// Name implements filtering.Notifier.
func (n *LogNotifier) Name() string { return "log" }

// Notify implements filtering.Notifier.
func (n *LogNotifier) Notify(_ context.Context, ev domain.FilteringEvent) error {
	n.log.Info(FormatMessage(ev),
		logger.String("event_id", ev.ID),
		logger.String("session_id", ev.SessionID),
	)
	return nil
}
