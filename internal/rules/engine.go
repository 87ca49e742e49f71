package rules

import (
	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/matcher"
)

// Confidence constants: base, per-hit step and ceiling per rule.
const (
	repetitionBase    = 0.4
	repetitionStep    = 0.2
	repetitionCeiling = 0.8

	strongDemandBase = 0.7
	strongDemandStep = 0.1

	weakDemandBase    = 0.5
	weakDemandStep    = 0.15
	weakDemandMinHits = 2

	irrelevanceBase = 0.3
	irrelevanceStep = 0.25

	threatBase = 0.7
	threatStep = 0.15

	normalBase    = 0.6
	normalStep    = 0.15
	normalCeiling = 0.9

	closingBase = 0.7
	closingStep = 0.1

	inquiryBase    = 0.5
	inquiryStep    = 0.1
	inquiryCeiling = 0.8

	fullConfidence = 1.0
)

// Engine evaluates the keyword rules. It is immutable after construction.
type Engine struct {
	repetition   keywordRule
	strongDemand keywordRule
	weakDemand   keywordRule
	irrelevance  keywordRule
	threat       keywordRule
	normal       []keywordRule
}

// NewEngine compiles the rule tables. threats is the violence lexicon shared
// with the profanity detector; nil disables the threat rule.
func NewEngine(threats *matcher.KeywordSet) *Engine {
	if threats == nil {
		threats = matcher.New()
	}
	return &Engine{
		repetition: keywordRule{
			name: RuleRepetition, label: domain.LabelRepetition, set: matcher.New(repetitionIndicators...),
			base: repetitionBase, step: repetitionStep, ceiling: repetitionCeiling,
		},
		strongDemand: keywordRule{
			name: RuleStrongDemand, label: domain.LabelUnreasonableDemand, set: matcher.New(strongDemandIndicators...),
			base: strongDemandBase, step: strongDemandStep, ceiling: fullConfidence,
		},
		weakDemand: keywordRule{
			name: RuleWeakDemand, label: domain.LabelUnreasonableDemand, set: matcher.New(weakDemandIndicators...),
			base: weakDemandBase, step: weakDemandStep, ceiling: fullConfidence, minHits: weakDemandMinHits,
		},
		irrelevance: keywordRule{
			name: RuleIrrelevance, label: domain.LabelUnreasonableDemand, set: matcher.New(irrelevanceIndicators...),
			base: irrelevanceBase, step: irrelevanceStep, ceiling: fullConfidence,
		},
		threat: keywordRule{
			name: RuleThreat, label: domain.LabelViolenceThreat, set: threats,
			base: threatBase, step: threatStep, ceiling: fullConfidence,
		},
		normal: []keywordRule{
			normalRule(domain.LabelRequest, requestKeywords, normalBase, normalStep, normalCeiling),
			normalRule(domain.LabelComplaint, complaintKeywords, normalBase, normalStep, normalCeiling),
			normalRule(domain.LabelClarification, clarificationKeywords, normalBase, normalStep, normalCeiling),
			normalRule(domain.LabelConfirmation, confirmationKeywords, normalBase, normalStep, normalCeiling),
			normalRule(domain.LabelClosing, closingKeywords, closingBase, closingStep, normalCeiling),
			normalRule(domain.LabelInquiry, inquiryKeywords, inquiryBase, inquiryStep, inquiryCeiling),
		},
	}
}

func normalRule(label domain.Label, keywords []string, base, step, ceiling float64) keywordRule {
	return keywordRule{
		name: string(label), label: label, set: matcher.New(keywords...),
		base: base, step: step, ceiling: ceiling,
	}
}

// DetectSpecial returns the risk-label factors found in text, in rule order:
// repetition, unreasonable demand, irrelevance, threat. Irrelevance is
// reported under UNREASONABLE_DEMAND. Weak demands are only evaluated when
// no strong demand matched.
func (e *Engine) DetectSpecial(text string) []Factor {
	var factors []Factor

	if f, ok := e.repetition.eval(text); ok {
		factors = append(factors, f)
	}
	if f, ok := e.strongDemand.eval(text); ok {
		factors = append(factors, f)
	} else if f, ok := e.weakDemand.eval(text); ok {
		factors = append(factors, f)
	}
	if f, ok := e.irrelevance.eval(text); ok {
		factors = append(factors, f)
	}
	if f, ok := e.threat.eval(text); ok {
		factors = append(factors, f)
	}

	return factors
}

// DetectNormal returns the intent-label factors found in text.
func (e *Engine) DetectNormal(text string) []Factor {
	var factors []Factor
	for _, r := range e.normal {
		if f, ok := r.eval(text); ok {
			factors = append(factors, f)
		}
	}
	return factors
}

// BestNormal returns the highest-confidence intent label, the earliest rule
// winning ties, or INQUIRY when nothing matched.
func (e *Engine) BestNormal(text string) domain.Label {
	best := Factor{Label: domain.LabelInquiry}
	for _, f := range e.DetectNormal(text) {
		if f.Confidence > best.Confidence {
			best = f
		}
	}
	return best.Label
}

// Repetition returns the repetition indicator lexicon.
func (e *Engine) Repetition() *matcher.KeywordSet { return e.repetition.set }

// StrongDemand returns the strong unreasonable-demand lexicon.
func (e *Engine) StrongDemand() *matcher.KeywordSet { return e.strongDemand.set }

// WeakDemand returns the weak unreasonable-demand lexicon.
func (e *Engine) WeakDemand() *matcher.KeywordSet { return e.weakDemand.set }
