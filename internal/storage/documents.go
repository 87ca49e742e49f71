// Package storage persists session results to Elasticsearch and SQL.
package storage

import (
	"fmt"
	"time"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

// TurnDocument is the flattened, query-friendly form of one analyzed turn.
type TurnDocument struct {
	SessionID                 string                   `db:"session_id"                   json:"session_id"`
	TurnIndex                 int                      `db:"turn_index"                   json:"turn_index"`
	CustomerText              string                   `db:"customer_text"                json:"customer_text"`
	CustomerLabel             string                   `db:"customer_label"               json:"customer_label"`
	LabelType                 string                   `db:"label_type"                   json:"label_type"`
	Confidence                float64                  `db:"confidence"                   json:"confidence"`
	IsProfanity               bool                     `db:"is_profanity"                 json:"is_profanity"`
	ProfanityCategory         string                   `db:"profanity_category"           json:"profanity_category,omitempty"`
	AgentText                 *string                  `db:"agent_text"                   json:"agent_text,omitempty"`
	EmotionLabel              *string                  `db:"emotion_label"                json:"emotion_label,omitempty"`
	ManualComplianceScore     *float64                 `db:"manual_compliance_score"      json:"manual_compliance_score,omitempty"`
	CustomerProblemScore      float64                  `db:"customer_problem_score"       json:"customer_problem_score"`
	AgentResponseQualityScore float64                  `db:"agent_response_quality_score" json:"agent_response_quality_score"`
	TurnRiskScore             float64                  `db:"turn_risk_score"              json:"turn_risk_score"`
	CustomerFeatures          domain.FeatureScores     `db:"-"                            json:"customer_features,omitempty"`
	AgentFeatures             domain.FeatureScores     `db:"-"                            json:"agent_features,omitempty"`
	Probabilities             map[domain.Label]float64 `db:"-"                            json:"probabilities,omitempty"`
	AnalyzedAt                time.Time                `db:"analyzed_at"                  json:"analyzed_at"`
}

// ID is the document id: session and turn index.
func (d TurnDocument) ID() string {
	return fmt.Sprintf("%s:%d", d.SessionID, d.TurnIndex)
}

// NewTurnDocument flattens one turn result.
func NewTurnDocument(tr domain.TurnAnalysisResult, analyzedAt time.Time) TurnDocument {
	cr := tr.CustomerResult
	doc := TurnDocument{
		SessionID:                 tr.SessionID,
		TurnIndex:                 tr.TurnIndex,
		CustomerText:              cr.Text,
		CustomerLabel:             string(cr.ClassificationResult.Label),
		LabelType:                 string(cr.ClassificationResult.LabelType),
		Confidence:                cr.ClassificationResult.Confidence,
		IsProfanity:               cr.ProfanityResult.IsProfanity,
		ProfanityCategory:         string(cr.ProfanityResult.Category),
		CustomerProblemScore:      tr.TurnScores.CustomerProblemScore,
		AgentResponseQualityScore: tr.TurnScores.AgentResponseQualityScore,
		TurnRiskScore:             tr.TurnScores.TurnRiskScore,
		CustomerFeatures:          cr.FeatureScores,
		Probabilities:             cr.ClassificationResult.Probabilities,
		AnalyzedAt:                analyzedAt.UTC(),
	}
	if ar := tr.AgentResult; ar != nil {
		text, emotion, score := ar.Text, ar.EmotionLabel, ar.ManualComplianceScore
		doc.AgentText = &text
		doc.EmotionLabel = &emotion
		doc.ManualComplianceScore = &score
		doc.AgentFeatures = ar.FeatureScores
	}
	return doc
}

// SessionRecord is the stored summary of one session.
type SessionRecord struct {
	SessionID          string    `db:"session_id"           json:"session_id"`
	TotalTurns         int       `db:"total_turns"          json:"total_turns"`
	FailedTurns        int       `db:"failed_turns"         json:"failed_turns"`
	MaxTurnRiskScore   float64   `db:"max_turn_risk_score"  json:"max_turn_risk_score"`
	SpecialLabelCounts string    `db:"special_label_counts" json:"special_label_counts"` // JSON object
	AlertCount         int       `db:"alert_count"          json:"alert_count"`
	AnalyzedAt         time.Time `db:"analyzed_at"          json:"analyzed_at"`
}
