package features

import (
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/compliance"
	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/matcher"
)

var (
	accuracyKeywords = []string{"안내", "확인", "정보", "처리", "절차"}
	empathyKeywords  = []string{"죄송", "불편", "이해", "공감", "안타깝"}
	solutionKeywords = []string{"해결", "방안", "제시", "처리", "조치", "대안"}
)

const (
	accuracyBase, accuracyStep = 0.7, 0.1
	accuracyDefault            = 0.5

	clarityShortWords = 3
	clarityLongWords  = 50
	clarityShort      = 0.4
	clarityLong       = 0.6
	clarityGood       = 0.8

	densityNone = 0.3
	densityOne  = 0.6
	densityMany = 1.0
)

// AgentInput is one agent turn to score.
type AgentInput struct {
	Text          string
	CustomerLabel domain.Label
	Emotion       string
	IsStart       bool
	IsEnd         bool
}

// AgentExtractor scores an agent turn: manual compliance plus independent
// quality heuristics.
type AgentExtractor struct {
	checker  *compliance.Checker
	accuracy *matcher.KeywordSet
	empathy  *matcher.KeywordSet
	solution *matcher.KeywordSet
}

// NewAgentExtractor creates an extractor around a compliance checker.
func NewAgentExtractor(checker *compliance.Checker) *AgentExtractor {
	if checker == nil {
		checker = compliance.NewChecker(nil)
	}
	return &AgentExtractor{
		checker:  checker,
		accuracy: matcher.New(accuracyKeywords...),
		empathy:  matcher.New(empathyKeywords...),
		solution: matcher.New(solutionKeywords...),
	}
}

// Extract returns feature scores, the compliance result and evidence.
func (e *AgentExtractor) Extract(in AgentInput) (domain.FeatureScores, compliance.Result, domain.ExtractedFeatures) {
	result := e.checker.Check(compliance.Input{
		AgentText:     in.Text,
		Emotion:       in.Emotion,
		CustomerLabel: in.CustomerLabel,
		IsStart:       in.IsStart,
		IsEnd:         in.IsEnd,
	})

	scores := domain.FeatureScores{
		domain.FeatureManualCompliance:     result.Score,
		domain.FeatureInformationAccuracy:  e.informationAccuracy(in.Text),
		domain.FeatureCommunicationClarity: CommunicationClarity(in.Text),
	}
	evidence := domain.ExtractedFeatures{}

	empathy := e.empathy.Find(in.Text)
	scores[domain.FeatureEmpathy] = density(len(empathy))
	if len(empathy) > 0 {
		evidence[EvidenceEmpathyKeywords] = empathy
	}

	solution := e.solution.Find(in.Text)
	scores[domain.FeatureProblemSolving] = density(len(solution))
	if len(solution) > 0 {
		evidence[EvidenceSolutionKeywords] = solution
	}

	return scores, result, evidence
}

func (e *AgentExtractor) informationAccuracy(text string) float64 {
	n := e.accuracy.Count(text)
	if n == 0 {
		return accuracyDefault
	}
	return min(accuracyBase+accuracyStep*float64(n), ceiling)
}

// CommunicationClarity bands the turn by word count.
func CommunicationClarity(text string) float64 {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	switch {
	case words < clarityShortWords:
		return clarityShort
	case words > clarityLongWords:
		return clarityLong
	default:
		return clarityGood
	}
}

func density(hits int) float64 {
	switch {
	case hits == 0:
		return densityNone
	case hits == 1:
		return densityOne
	default:
		return densityMany
	}
}
