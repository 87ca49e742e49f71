// Package rules holds the keyword detectors for intent and risk labels.
package rules

import (
	"math"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/matcher"
)

// Rule names reported in Factor.Rule.
const (
	RuleRepetition   = "repetition"
	RuleStrongDemand = "unreasonable_demand_strong"
	RuleWeakDemand   = "unreasonable_demand_weak"
	RuleIrrelevance  = "irrelevance"
	RuleThreat       = "threat"
)

// Factor is one keyword-rule hit.
type Factor struct {
	Label      domain.Label
	Confidence float64
	Rule       string
	Keywords   []string
}

// keywordRule scores min(base + step*hits, ceiling) once hits reaches minHits.
type keywordRule struct {
	name    string
	label   domain.Label
	set     *matcher.KeywordSet
	base    float64
	step    float64
	ceiling float64
	minHits int
}

func (r keywordRule) eval(text string) (Factor, bool) {
	found := r.set.Find(text)
	minHits := max(r.minHits, 1)
	if len(found) < minHits {
		return Factor{}, false
	}
	return Factor{
		Label:      r.label,
		Confidence: r.score(len(found)),
		Rule:       r.name,
		Keywords:   found,
	}, true
}

func (r keywordRule) score(hits int) float64 {
	return math.Min(r.base+r.step*float64(hits), r.ceiling)
}

// Score returns min(base + step*hits, ceiling); exported for extractors that
// rescore hits with their own constants.
func Score(base, step, ceiling float64, hits int) float64 {
	return keywordRule{base: base, step: step, ceiling: ceiling}.score(hits)
}
