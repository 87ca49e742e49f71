package domain

import "strings"

// FeatureKey names one entry of a feature-score map.
type FeatureKey string

// Customer feature keys.
const (
	FeatureProfanity              FeatureKey = "profanity_score"
	FeatureThreat                 FeatureKey = "threat_score"
	FeatureSexualHarassment       FeatureKey = "sexual_harassment_score"
	FeatureHateSpeech             FeatureKey = "hate_speech_score"
	FeatureUnreasonableDemand     FeatureKey = "unreasonable_demand_score"
	FeatureRepetitionKeyword      FeatureKey = "repetition_keyword_score"
	FeatureNormalLabelConfidence  FeatureKey = "normal_label_confidence"
	FeatureSpecialLabelConfidence FeatureKey = "special_label_confidence"
)

// Agent feature keys.
const (
	FeatureManualCompliance     FeatureKey = "manual_compliance_score"
	FeatureInformationAccuracy  FeatureKey = "information_accuracy_score"
	FeatureCommunicationClarity FeatureKey = "communication_clarity_score"
	FeatureEmpathy              FeatureKey = "empathy_score"
	FeatureProblemSolving       FeatureKey = "problem_solving_score"
)

// CustomerRiskFeatures are the signals combined into the customer problem score.
var CustomerRiskFeatures = []FeatureKey{
	FeatureProfanity,
	FeatureThreat,
	FeatureSexualHarassment,
	FeatureHateSpeech,
	FeatureUnreasonableDemand,
	FeatureRepetitionKeyword,
}

const factorSuffix = "_factor_score"

// FactorFeature returns the per-label factor key, e.g. "profanity_factor_score".
func FactorFeature(l Label) FeatureKey {
	return FeatureKey(strings.ToLower(string(l)) + factorSuffix)
}

// IsFactor reports whether k is a per-label factor key.
func (k FeatureKey) IsFactor() bool {
	return strings.HasSuffix(string(k), factorSuffix)
}

// FeatureScores maps feature keys to scores in [0,1].
type FeatureScores map[FeatureKey]float64

// Get returns the score for k, zero when absent.
func (f FeatureScores) Get(k FeatureKey) float64 {
	return f[k]
}

// Max returns the largest score among keys.
func (f FeatureScores) Max(keys ...FeatureKey) float64 {
	var m float64
	for _, k := range keys {
		if v := f[k]; v > m {
			m = v
		}
	}
	return m
}

// ExtractedFeatures holds matched evidence keyed by feature name.
type ExtractedFeatures map[string]any
