// Package turns groups diarized utterances into customer/agent turns.
package turns

import (
	"errors"
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

// ErrNoSegments is returned when a transcript has no usable utterances.
var ErrNoSegments = errors.New("transcript has no usable segments")

// Leading agent speech policies.
const (
	LeadingAgentDrop   = "drop"
	LeadingAgentAttach = "attach"
)

// Unknown speaker policies.
const (
	UnknownSpeakerDrop     = "drop"
	UnknownSpeakerCustomer = "customer"
	UnknownSpeakerAgent    = "agent"
)

// Policy controls the two edge cases the splitter must decide on.
type Policy struct {
	// LeadingAgent is "drop" (discard agent speech before the first customer
	// utterance) or "attach" (open turn 0 with empty customer text).
	LeadingAgent string
	// UnknownSpeaker is "drop", "customer" or "agent".
	UnknownSpeaker string
}

// DefaultPolicy drops both leading agent speech and unknown speakers.
func DefaultPolicy() Policy {
	return Policy{LeadingAgent: LeadingAgentDrop, UnknownSpeaker: UnknownSpeakerDrop}
}

// SplitStats counts utterances removed while splitting.
type SplitStats struct {
	DroppedEmpty          int `json:"dropped_empty"`
	DroppedLeadingAgent   int `json:"dropped_leading_agent"`
	DroppedUnknownSpeaker int `json:"dropped_unknown_speaker"`
}

// Splitter turns an ordered utterance list into turns.
type Splitter struct {
	policy Policy
	log    logger.Logger
}

// NewSplitter creates a splitter. Invalid policy fields fall back to "drop".
func NewSplitter(policy Policy, log logger.Logger) *Splitter {
	if log == nil {
		log = logger.NewNop()
	}
	if policy.LeadingAgent != LeadingAgentAttach {
		policy.LeadingAgent = LeadingAgentDrop
	}
	switch policy.UnknownSpeaker {
	case UnknownSpeakerCustomer, UnknownSpeakerAgent:
	default:
		policy.UnknownSpeaker = UnknownSpeakerDrop
	}
	return &Splitter{policy: policy, log: log}
}

// Policy returns the effective policy.
func (s *Splitter) Policy() Policy {
	return s.policy
}

// Split groups utterances into turns. A turn opens on every customer
// utterance; agent utterances up to the next customer utterance are joined
// with a single space.
func (s *Splitter) Split(utterances []domain.Utterance) ([]domain.Turn, SplitStats, error) {
	var (
		stats   SplitStats
		turns   []domain.Turn
		current *domain.Turn
	)

	closeTurn := func() {
		if current != nil {
			turns = append(turns, *current)
			current = nil
		}
	}

	for _, u := range utterances {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			stats.DroppedEmpty++
			continue
		}

		speaker, ok := s.speaker(u.Speaker)
		if !ok {
			stats.DroppedUnknownSpeaker++
			s.log.Debug("Dropping utterance with unknown speaker",
				logger.String("speaker", u.Speaker),
			)
			continue
		}

		start := u.Start
		switch speaker {
		case domain.SpeakerCustomer:
			closeTurn()
			current = &domain.Turn{
				Index:        len(turns),
				CustomerText: text,
				Timestamp:    &start,
			}
		case domain.SpeakerAgent:
			if current == nil {
				if s.policy.LeadingAgent == LeadingAgentDrop {
					stats.DroppedLeadingAgent++
					continue
				}
				current = &domain.Turn{Index: len(turns), Timestamp: &start}
			}
			if current.AgentText == nil {
				agent := text
				current.AgentText = &agent
			} else {
				joined := *current.AgentText + " " + text
				current.AgentText = &joined
			}
		}
	}
	closeTurn()

	if len(turns) == 0 {
		return nil, stats, ErrNoSegments
	}
	return turns, stats, nil
}

func (s *Splitter) speaker(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case domain.SpeakerCustomer:
		return domain.SpeakerCustomer, true
	case domain.SpeakerAgent:
		return domain.SpeakerAgent, true
	}
	switch s.policy.UnknownSpeaker {
	case UnknownSpeakerCustomer:
		return domain.SpeakerCustomer, true
	case UnknownSpeakerAgent:
		return domain.SpeakerAgent, true
	default:
		return "", false
	}
}
