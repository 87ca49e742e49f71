package pipeline

import "github.com/hyunhan-cho/LT-GDG/internal/domain"

const agentPenaltyWeight = 0.3

// qualityWeights sum to 1.
var qualityWeights = []struct {
	key    domain.FeatureKey
	weight float64
}{
	{domain.FeatureManualCompliance, 0.3},
	{domain.FeatureInformationAccuracy, 0.25},
	{domain.FeatureCommunicationClarity, 0.2},
	{domain.FeatureEmpathy, 0.15},
	{domain.FeatureProblemSolving, 0.1},
}

// CustomerProblemScore is the worst customer risk signal.
func CustomerProblemScore(customer domain.FeatureScores) float64 {
	return customer.Max(domain.CustomerRiskFeatures...)
}

// AgentQualityScore is the weighted average of the agent quality features.
func AgentQualityScore(agent domain.FeatureScores) float64 {
	var q float64
	for _, w := range qualityWeights {
		q += agent.Get(w.key) * w.weight
	}
	return q
}

// ScoreTurn aggregates one turn. agent is nil when the agent did not speak;
// the risk score is then the customer problem score unchanged.
func ScoreTurn(customer, agent domain.FeatureScores) domain.TurnScores {
	problem := CustomerProblemScore(customer)
	if agent == nil {
		return domain.TurnScores{CustomerProblemScore: problem, TurnRiskScore: problem}
	}

	quality := AgentQualityScore(agent)
	return domain.TurnScores{
		CustomerProblemScore:      problem,
		AgentResponseQualityScore: quality,
		TurnRiskScore:             min(problem+(1-quality)*agentPenaltyWeight, 1),
	}
}
