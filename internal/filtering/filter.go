// Package filtering maps risk labels to call-handling actions and raises
// filtering events for customer turns that carry one.
package filtering

import (
	"time"

	"github.com/google/uuid"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

// Actions.
const (
	ActionTerminateCall = "TERMINATE_CALL"
	ActionWarn          = "WARN"
	ActionSupportAgent  = "SUPPORT_AGENT"
	ActionMonitor       = "MONITOR"
)

// Event flags.
const (
	FlagRecording         = "recording"
	FlagLegalReview       = "legal_review"
	FlagTerminateOnRepeat = "terminate_on_repeat"
	FlagProvideGuidance   = "provide_guidance"
	FlagProvideStrategy   = "provide_strategy"
	FlagRepeated          = "repeated"
)

// EventConfig is the handling rule for one label.
type EventConfig struct {
	Action     string   `json:"action"`
	AlertLevel string   `json:"alert_level"`
	Flags      []string `json:"flags,omitempty"`
}

// HasFlag reports whether the config carries flag.
func (c EventConfig) HasFlag(flag string) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

var severities = map[domain.Label]string{
	domain.LabelViolenceThreat:     domain.SeverityCritical,
	domain.LabelSexualHarassment:   domain.SeverityCritical,
	domain.LabelProfanity:          domain.SeverityHigh,
	domain.LabelHateSpeech:         domain.SeverityHigh,
	domain.LabelUnreasonableDemand: domain.SeverityMedium,
	domain.LabelRepetition:         domain.SeverityMedium,
}

var eventConfigs = map[domain.Label]EventConfig{
	domain.LabelViolenceThreat: {
		Action: ActionTerminateCall, AlertLevel: domain.SeverityCritical,
		Flags: []string{FlagRecording, FlagLegalReview},
	},
	domain.LabelSexualHarassment: {
		Action: ActionTerminateCall, AlertLevel: domain.SeverityCritical,
		Flags: []string{FlagRecording, FlagLegalReview},
	},
	domain.LabelProfanity: {
		Action: ActionWarn, AlertLevel: domain.SeverityHigh,
		Flags: []string{FlagTerminateOnRepeat},
	},
	domain.LabelHateSpeech: {
		Action: ActionWarn, AlertLevel: domain.SeverityHigh,
		Flags: []string{FlagTerminateOnRepeat},
	},
	domain.LabelUnreasonableDemand: {
		Action: ActionSupportAgent, AlertLevel: domain.SeverityMedium,
		Flags: []string{FlagProvideGuidance},
	},
	domain.LabelRepetition: {
		Action: ActionSupportAgent, AlertLevel: domain.SeverityMedium,
		Flags: []string{FlagProvideStrategy},
	},
}

// Severity returns the severity of label; unknown labels are MEDIUM.
func Severity(label domain.Label) string {
	if s, ok := severities[label]; ok {
		return s
	}
	return domain.SeverityMedium
}

// ConfigFor returns the handling rule for label; unknown labels are monitored.
func ConfigFor(label domain.Label) EventConfig {
	if c, ok := eventConfigs[label]; ok {
		return c
	}
	return EventConfig{Action: ActionMonitor, AlertLevel: domain.SeverityMedium}
}

// Filter builds filtering events. It holds no session state; the caller
// passes how often the label has been seen in the session.
type Filter struct {
	now   func() time.Time
	newID func() string
}

// NewFilter creates a filter.
func NewFilter() *Filter {
	return &Filter{now: time.Now, newID: uuid.NewString}
}

// Evaluate returns an event when the turn's customer label is a risk label.
// seen is the number of turns in the session carrying that label, this one
// included. A repeated label with terminate_on_repeat escalates to
// TERMINATE_CALL.
func (f *Filter) Evaluate(turn domain.TurnAnalysisResult, seen int) (domain.FilteringEvent, bool) {
	cls := turn.CustomerResult.ClassificationResult
	if !cls.IsSpecial() {
		return domain.FilteringEvent{}, false
	}

	cfg := ConfigFor(cls.Label)
	flags := append([]string(nil), cfg.Flags...)
	action := cfg.Action
	if seen > 1 && cfg.HasFlag(FlagTerminateOnRepeat) {
		action = ActionTerminateCall
		flags = append(flags, FlagRepeated)
	}

	return domain.FilteringEvent{
		ID:          f.newID(),
		SessionID:   turn.SessionID,
		TurnIndex:   turn.TurnIndex,
		Label:       cls.Label,
		Severity:    Severity(cls.Label),
		Action:      action,
		AlertLevel:  cfg.AlertLevel,
		Flags:       flags,
		Text:        turn.CustomerResult.Text,
		Confidence:  cls.Confidence,
		RepeatCount: max(seen, 1),
		Timestamp:   f.now(),
	}, true
}
