package domain

import "time"

// Speaker tags.
const (
	SpeakerCustomer = "customer"
	SpeakerAgent    = "agent"
)

// Utterance is one diarized speech-to-text segment.
type Utterance struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Turn is a customer utterance plus the agent speech that follows it.
type Turn struct {
	Index        int      `json:"turn_index"`
	CustomerText string   `json:"customer_text"`
	AgentText    *string  `json:"agent_text"`           // nil when the agent did not speak
	Timestamp    *float64 `json:"timestamp,omitempty"` // start of the opening utterance
}

// HasAgent reports whether the turn carries agent text.
func (t Turn) HasAgent() bool {
	return t.AgentText != nil
}

// Agent returns the agent text or "".
func (t Turn) Agent() string {
	if t.AgentText == nil {
		return ""
	}
	return *t.AgentText
}

// Transcript is one session's input.
type Transcript struct {
	SessionID  string      `json:"session_id"`
	Utterances []Utterance `json:"utterances"`
}

// ProfanityResult is the profanity detector's verdict for one text.
type ProfanityResult struct {
	IsProfanity bool              `json:"is_profanity"`
	Category    ProfanityCategory `json:"category,omitempty"`
	Confidence  float64           `json:"confidence"`
	Method      string            `json:"method,omitempty"` // "rule" or "model"
	Levels      []string          `json:"levels,omitempty"` // matching severity levels
}

// ClassificationResult is the label decided for one customer turn.
type ClassificationResult struct {
	Label         Label             `json:"label"`
	LabelType     LabelType         `json:"label_type"`
	Confidence    float64           `json:"confidence"`
	Text          string            `json:"text"`
	Probabilities map[Label]float64 `json:"probabilities,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// IsSpecial reports whether the result carries a risk label.
func (c ClassificationResult) IsSpecial() bool {
	return c.LabelType == LabelTypeSpecial
}

// CustomerAnalysisResult is the customer half of a turn analysis.
type CustomerAnalysisResult struct {
	SessionID            string               `json:"session_id"`
	TurnIndex            int                  `json:"turn_index"`
	Text                 string               `json:"text"`
	Timestamp            time.Time            `json:"timestamp"`
	ProfanityResult      ProfanityResult      `json:"profanity_result"`
	ClassificationResult ClassificationResult `json:"classification_result"`
	FeatureScores        FeatureScores        `json:"feature_scores"`
	ExtractedFeatures    ExtractedFeatures    `json:"extracted_features"`
}

// AgentAnalysisResult is the agent half of a turn analysis.
type AgentAnalysisResult struct {
	SessionID                  string            `json:"session_id"`
	TurnIndex                  int               `json:"turn_index"`
	Text                       string            `json:"text"`
	Timestamp                  time.Time         `json:"timestamp"`
	CorrespondingCustomerLabel Label             `json:"corresponding_customer_label"`
	EmotionLabel               string            `json:"emotion_label"`
	ManualComplianceScore      float64           `json:"manual_compliance_score"`
	ComplianceDetails          map[string]any    `json:"compliance_details"`
	FeatureScores              FeatureScores     `json:"feature_scores"`
	ExtractedFeatures          ExtractedFeatures `json:"extracted_features"`
}

// TurnScores are the aggregated per-turn scores.
type TurnScores struct {
	CustomerProblemScore      float64 `json:"customer_problem_score"`
	AgentResponseQualityScore float64 `json:"agent_response_quality_score"`
	TurnRiskScore             float64 `json:"turn_risk_score"`
}

// TurnAnalysisResult is the full analysis of one turn.
type TurnAnalysisResult struct {
	SessionID      string                 `json:"session_id"`
	TurnIndex      int                    `json:"turn_index"`
	CustomerResult CustomerAnalysisResult `json:"customer_result"`
	AgentResult    *AgentAnalysisResult   `json:"agent_result,omitempty"`
	TurnScores     TurnScores             `json:"turn_scores"`
}

// PipelineResult is the output for one session.
type PipelineResult struct {
	SessionID          string               `json:"session_id"`
	TurnResults        []TurnAnalysisResult `json:"turn_results"`
	TotalTurns         int                  `json:"total_turns"`
	FailedTurns        int                  `json:"failed_turns"`
	MaxTurnRiskScore   float64              `json:"max_turn_risk_score"`
	SpecialLabelCounts map[Label]int        `json:"special_label_counts"`
	Alerts             []FilteringEvent     `json:"alerts,omitempty"`
	Timestamp          time.Time            `json:"timestamp"`
}

// Severity levels for filtering events.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// SeverityRank orders severities; unknown values rank as MEDIUM.
func SeverityRank(s string) int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 1
	}
}

// FilteringEvent is raised when a customer turn carries a risk label.
type FilteringEvent struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	TurnIndex   int       `json:"turn_index"`
	Label       Label     `json:"label"`
	Severity    string    `json:"severity"`
	Action      string    `json:"action"`
	AlertLevel  string    `json:"alert_level"`
	Flags       []string  `json:"flags,omitempty"`
	Text        string    `json:"text"`
	Confidence  float64   `json:"confidence"`
	RepeatCount int       `json:"repeat_count"`
	Timestamp   time.Time `json:"timestamp"`
}
