package turns

import (
	"regexp"
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

// speakerTag matches "고객:", "상담사:", "customer:" and "agent:" (ASCII or
// full-width colon).
var speakerTag = regexp.MustCompile(`(?i)(고객|상담사|상담원|customer|agent)\s*[:：]`)

var sentenceEnd = regexp.MustCompile(`[.!?。！？]\s*`)

// ParseTagged converts a speaker-tagged plain-text transcript into
// utterances. Text without any tag is split on sentence punctuation and
// attributed to the customer.
func ParseTagged(text string) []domain.Utterance {
	locs := speakerTag.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return splitSentences(text)
	}

	utterances := make([]domain.Utterance, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(text[loc[1]:end])
		if body == "" {
			continue
		}
		utterances = append(utterances, domain.Utterance{
			Speaker: tagSpeaker(text[loc[2]:loc[3]]),
			Text:    body,
		})
	}
	return utterances
}

func tagSpeaker(tag string) string {
	switch strings.ToLower(tag) {
	case "고객", domain.SpeakerCustomer:
		return domain.SpeakerCustomer
	default:
		return domain.SpeakerAgent
	}
}

func splitSentences(text string) []domain.Utterance {
	var utterances []domain.Utterance
	for _, s := range sentenceEnd.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			utterances = append(utterances, domain.Utterance{Speaker: domain.SpeakerCustomer, Text: s})
		}
	}
	return utterances
}
