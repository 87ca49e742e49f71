// Package domain holds the data model shared by every callguard stage.
package domain

// Label is a customer-turn classification label.
type Label string

// Normal (intent) labels.
const (
	LabelInquiry       Label = "INQUIRY"
	LabelComplaint     Label = "COMPLAINT"
	LabelRequest       Label = "REQUEST"
	LabelClarification Label = "CLARIFICATION"
	LabelConfirmation  Label = "CONFIRMATION"
	LabelClosing       Label = "CLOSING"
)

// Special (risk) labels.
const (
	LabelViolenceThreat     Label = "VIOLENCE_THREAT"
	LabelSexualHarassment   Label = "SEXUAL_HARASSMENT"
	LabelProfanity          Label = "PROFANITY"
	LabelHateSpeech         Label = "HATE_SPEECH"
	LabelUnreasonableDemand Label = "UNREASONABLE_DEMAND"
	LabelRepetition         Label = "REPETITION"
)

// NormalLabels lists the intent labels in a stable order.
var NormalLabels = []Label{
	LabelInquiry, LabelComplaint, LabelRequest,
	LabelClarification, LabelConfirmation, LabelClosing,
}

// SpecialLabels lists the risk labels in a stable order.
var SpecialLabels = []Label{
	LabelViolenceThreat, LabelSexualHarassment, LabelProfanity,
	LabelHateSpeech, LabelUnreasonableDemand, LabelRepetition,
}

// IsSpecial reports whether l is a risk label.
func (l Label) IsSpecial() bool {
	for _, s := range SpecialLabels {
		if l == s {
			return true
		}
	}
	return false
}

// IsNormal reports whether l is an intent label.
func (l Label) IsNormal() bool {
	for _, n := range NormalLabels {
		if l == n {
			return true
		}
	}
	return false
}

// LabelType distinguishes intent results from risk results.
type LabelType string

// Label types.
const (
	LabelTypeNormal  LabelType = "NORMAL"
	LabelTypeSpecial LabelType = "SPECIAL"
)

// ProfanityCategory is the category reported by the profanity detector.
type ProfanityCategory string

// Profanity categories.
const (
	CategoryProfanity        ProfanityCategory = "PROFANITY"
	CategoryViolenceThreat   ProfanityCategory = "VIOLENCE_THREAT"
	CategorySexualHarassment ProfanityCategory = "SEXUAL_HARASSMENT"
	CategoryHateSpeech       ProfanityCategory = "HATE_SPEECH"
	CategoryInsult           ProfanityCategory = "INSULT"
)

// categoryPriority ranks categories for output selection, highest first.
var categoryPriority = []ProfanityCategory{
	CategorySexualHarassment,
	CategoryViolenceThreat,
	CategoryHateSpeech,
	CategoryProfanity,
	CategoryInsult,
}

// Rank returns the selection rank of c; lower wins. Unknown categories rank last.
func (c ProfanityCategory) Rank() int {
	for i, p := range categoryPriority {
		if c == p {
			return i
		}
	}
	return len(categoryPriority)
}

// Label maps a profanity category onto the special label it raises.
// INSULT has no label of its own and folds into PROFANITY.
func (c ProfanityCategory) Label() Label {
	switch c {
	case CategoryViolenceThreat:
		return LabelViolenceThreat
	case CategorySexualHarassment:
		return LabelSexualHarassment
	case CategoryHateSpeech:
		return LabelHateSpeech
	case CategoryProfanity, CategoryInsult:
		return LabelProfanity
	default:
		return LabelProfanity
	}
}

// Detection methods.
const (
	MethodRule  = "rule"
	MethodModel = "model"
)

// Emotion labels produced by the emotion collaborator.
const (
	EmotionNeutral    = "NEUTRAL"
	EmotionPositive   = "POSITIVE"
	EmotionNegative   = "NEGATIVE"
	EmotionAngry      = "ANGRY"
	EmotionFrustrated = "FRUSTRATED"
	EmotionSatisfied  = "SATISFIED"
	EmotionConfused   = "CONFUSED"
)
