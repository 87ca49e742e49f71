// Package features turns analyzed customer and agent turns into named
// feature scores with matched evidence.
package features

import (
	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/profanity"
	"github.com/hyunhan-cho/LT-GDG/internal/rules"
)

// Evidence keys in ExtractedFeatures.
const (
	EvidenceProfanityKeywords  = "profanity_keywords"
	EvidenceProfanityCategory  = "profanity_category"
	EvidenceThreatPatterns     = "threat_patterns"
	EvidenceSexualKeywords     = "sexual_keywords"
	EvidenceHateKeywords       = "hate_keywords"
	EvidenceDemandKeywords     = "unreasonable_keywords"
	EvidenceRepetitionKeywords = "repetition_keywords"
	EvidenceEmpathyKeywords    = "empathy_keywords"
	EvidenceSolutionKeywords   = "solution_keywords"
)

// Rescoring constants: base, per-hit step, ceiling.
const (
	threatBase, threatStep         = 0.7, 0.15
	sexualBase, sexualStep         = 0.6, 0.2
	hateBase, hateStep             = 0.6, 0.15
	strongBase, strongStep         = 0.7, 0.1
	weakBase, weakStep             = 0.4, 0.2
	singleWeakScore                = 0.3
	repetitionBase, repetitionStep = 0.4, 0.2
	repetitionCeiling              = 0.8
	ceiling                        = 1.0
)

// CustomerExtractor rescans a customer turn against each risk lexicon so
// that evidence is traceable to the turn's own text.
type CustomerExtractor struct {
	lex   *profanity.Lexicons
	rules *rules.Engine
}

// NewCustomerExtractor creates an extractor over the shared lexicons.
func NewCustomerExtractor(lex *profanity.Lexicons, engine *rules.Engine) *CustomerExtractor {
	return &CustomerExtractor{lex: lex, rules: engine}
}

// Extract returns the feature scores and evidence for one customer turn.
func (e *CustomerExtractor) Extract(
	text string,
	prof domain.ProfanityResult,
	cls domain.ClassificationResult,
) (domain.FeatureScores, domain.ExtractedFeatures) {
	scores := domain.FeatureScores{}
	evidence := domain.ExtractedFeatures{}

	scores[domain.FeatureProfanity] = 0
	if prof.IsProfanity {
		scores[domain.FeatureProfanity] = prof.Confidence
		evidence[EvidenceProfanityKeywords] = nonNil(e.lex.Profanity.Find(text))
		evidence[EvidenceProfanityCategory] = prof.Category
	}

	scores[domain.FeatureThreat] = scoreHits(e.lex.Threat.Find(text), threatBase, threatStep, ceiling, evidence, EvidenceThreatPatterns)
	scores[domain.FeatureSexualHarassment] = scoreHits(e.lex.Sexual.Find(text), sexualBase, sexualStep, ceiling, evidence, EvidenceSexualKeywords)
	scores[domain.FeatureHateSpeech] = scoreHits(e.lex.FindHate(text), hateBase, hateStep, ceiling, evidence, EvidenceHateKeywords)
	scores[domain.FeatureUnreasonableDemand] = e.demand(text, evidence)
	scores[domain.FeatureRepetitionKeyword] = scoreHits(e.rules.Repetition().Find(text), repetitionBase, repetitionStep, repetitionCeiling, evidence, EvidenceRepetitionKeywords)

	if cls.IsSpecial() {
		scores[domain.FeatureNormalLabelConfidence] = 0
		scores[domain.FeatureSpecialLabelConfidence] = cls.Confidence
	} else {
		scores[domain.FeatureNormalLabelConfidence] = cls.Confidence
		scores[domain.FeatureSpecialLabelConfidence] = 0
	}
	for label, p := range cls.Probabilities {
		scores[domain.FactorFeature(label)] = p
	}

	return scores, evidence
}

// demand scores strong hits first; weak hits alone need two to score above
// the single-hit floor.
func (e *CustomerExtractor) demand(text string, evidence domain.ExtractedFeatures) float64 {
	strong := e.rules.StrongDemand().Find(text)
	weak := e.rules.WeakDemand().Find(text)
	if len(strong)+len(weak) == 0 {
		return 0
	}

	found := make([]string, 0, len(strong)+len(weak))
	found = append(found, strong...)
	found = append(found, weak...)
	evidence[EvidenceDemandKeywords] = found

	switch {
	case len(strong) > 0:
		return rules.Score(strongBase, strongStep, ceiling, len(strong))
	case len(weak) >= 2:
		return rules.Score(weakBase, weakStep, ceiling, len(weak))
	default:
		return singleWeakScore
	}
}

func scoreHits(found []string, base, step, top float64, evidence domain.ExtractedFeatures, key string) float64 {
	if len(found) == 0 {
		return 0
	}
	evidence[key] = found
	return rules.Score(base, step, top, len(found))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
