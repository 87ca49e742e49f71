package intent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/intent"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/profanity"
	"github.com/hyunhan-cho/LT-GDG/internal/rules"
	"github.com/hyunhan-cho/LT-GDG/internal/testhelpers"
)

func newPredictor(model intent.LearnedClassifier) *intent.Predictor {
	engine := rules.NewEngine(profanity.NewLexicons().Threat)
	return intent.NewPredictor(engine, model, logger.NewNop())
}

var noProfanity = domain.ProfanityResult{}

func profane(category domain.ProfanityCategory, confidence float64) domain.ProfanityResult {
	return domain.ProfanityResult{IsProfanity: true, Category: category, Confidence: confidence, Method: domain.MethodRule}
}

func TestPredict_NormalFallback(t *testing.T) {
	got := newPredictor(nil).Predict(context.Background(), "환불 절차가 어떻게 되나요?", noProfanity)

	assert.Equal(t, domain.LabelTypeNormal, got.LabelType)
	assert.Equal(t, domain.LabelInquiry, got.Label)
	assert.InDelta(t, 0.3, got.Confidence, 1e-9)
	assert.Equal(t, map[domain.Label]float64{domain.LabelInquiry: 1}, got.Probabilities)
	assert.Equal(t, "환불 절차가 어떻게 되나요?", got.Text)
}

func TestPredict_ProfanityFactor(t *testing.T) {
	got := newPredictor(nil).Predict(context.Background(), "시발놈아!", profane(domain.CategoryProfanity, 0.8))

	assert.Equal(t, domain.LabelTypeSpecial, got.LabelType)
	assert.Equal(t, domain.LabelProfanity, got.Label)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	assert.InDelta(t, 1.0, got.Probabilities[domain.LabelProfanity], 1e-9)
}

func TestPredict_InsultFoldsIntoProfanity(t *testing.T) {
	got := newPredictor(nil).Predict(context.Background(), "머저리", profane(domain.CategoryInsult, 0.5))

	assert.Equal(t, domain.LabelProfanity, got.Label)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestPredict_StrongDemand(t *testing.T) {
	got := newPredictor(nil).Predict(context.Background(), "지금 당장 환불해줘! FBI를 불러줘!", noProfanity)

	assert.Equal(t, domain.LabelTypeSpecial, got.LabelType)
	assert.Equal(t, domain.LabelUnreasonableDemand, got.Label)
	assert.GreaterOrEqual(t, got.Confidence, 0.7)
}

func TestPredict_FactorAggregation(t *testing.T) {
	got := newPredictor(nil).Predict(context.Background(), "경찰 부를 거야", profane(domain.CategoryProfanity, 0.8))

	// Equal confidences keep the first-seen factor as primary.
	assert.Equal(t, domain.LabelProfanity, got.Label)
	assert.InDelta(t, 0.88, got.Confidence, 1e-9)
	assert.InDelta(t, 0.5, got.Probabilities[domain.LabelProfanity], 1e-9)
	assert.InDelta(t, 0.5, got.Probabilities[domain.LabelUnreasonableDemand], 1e-9)
}

func TestPredict_ModelSpecialVote(t *testing.T) {
	t.Run("new label", func(t *testing.T) {
		model := testhelpers.NewMockClassifier(&intent.Prediction{
			Label: domain.LabelSexualHarassment, LabelType: domain.LabelTypeSpecial, Confidence: 0.95,
		})
		got := newPredictor(model).Predict(context.Background(), "경찰 부를 거야", noProfanity)

		assert.Equal(t, domain.LabelSexualHarassment, got.Label)
		assert.InDelta(t, 1.0, got.Confidence, 1e-9)
		assert.Len(t, got.Probabilities, 2)
	})

	t.Run("existing label keeps max", func(t *testing.T) {
		model := testhelpers.NewMockClassifier(&intent.Prediction{
			Label: domain.LabelUnreasonableDemand, LabelType: domain.LabelTypeSpecial, Confidence: 0.5,
		})
		got := newPredictor(model).Predict(context.Background(), "경찰 부를 거야", noProfanity)

		assert.Equal(t, domain.LabelUnreasonableDemand, got.Label)
		assert.InDelta(t, 0.8, got.Confidence, 1e-9)
		assert.Len(t, got.Probabilities, 1)
	})

	t.Run("unknown label ignored", func(t *testing.T) {
		model := testhelpers.NewMockClassifier(&intent.Prediction{
			Label: "SARCASM", LabelType: domain.LabelTypeSpecial, Confidence: 0.99,
		})
		got := newPredictor(model).Predict(context.Background(), "네", noProfanity)

		assert.Equal(t, domain.LabelTypeNormal, got.LabelType)
	})
}

func TestPredict_ModelNormalVote(t *testing.T) {
	model := testhelpers.NewMockClassifier(&intent.Prediction{
		Label:         domain.LabelClosing,
		LabelType:     domain.LabelTypeNormal,
		Confidence:    0.95,
		Probabilities: map[domain.Label]float64{domain.LabelClosing: 0.9, domain.LabelInquiry: 0.1},
	})
	got := newPredictor(model).Predict(context.Background(), "네", noProfanity)

	assert.Equal(t, domain.LabelClosing, got.Label)
	assert.InDelta(t, 0.3, got.Confidence, 1e-9, "intent confidence stays fixed")
	assert.InDelta(t, 0.9, got.Probabilities[domain.LabelClosing], 1e-9)
	assert.Equal(t, 1, model.Calls(), "model is consulted once per turn")
}

func TestPredict_ModelFailureDegrades(t *testing.T) {
	tests := []struct {
		name  string
		model *testhelpers.MockClassifier
	}{
		{"error", testhelpers.NewFailingClassifier(nil)},
		{"panic", testhelpers.NewPanickingClassifier("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPredictor(tt.model)
			for range 3 {
				got := p.Predict(context.Background(), "환불 절차가 어떻게 되나요?", noProfanity)
				assert.Equal(t, domain.LabelInquiry, got.Label)
				assert.Equal(t, domain.LabelTypeNormal, got.LabelType)
			}
			assert.Equal(t, 3, tt.model.Calls())
		})
	}
}

func TestPredict_UnavailableModelSkipped(t *testing.T) {
	model := testhelpers.NewMockClassifier(&intent.Prediction{
		Label: domain.LabelViolenceThreat, LabelType: domain.LabelTypeSpecial, Confidence: 1,
	})
	model.SetUnavailable(true)

	got := newPredictor(model).Predict(context.Background(), "네", noProfanity)

	assert.Equal(t, domain.LabelTypeNormal, got.LabelType)
	assert.Equal(t, 0, model.Calls())
}

func TestPredict_ConfidenceMonotonic(t *testing.T) {
	p := newPredictor(nil)
	ctx := context.Background()

	texts := []string{
		"경찰 부를 거야",
		"아까도 말했는데 경찰 부를 거야",
		"아까도 말했는데 경찰 부를 거야 찾아가겠다",
	}

	prev := 0.0
	for _, text := range texts {
		got := p.Predict(ctx, text, noProfanity)
		require.Equal(t, domain.LabelTypeSpecial, got.LabelType)
		assert.GreaterOrEqual(t, got.Confidence, prev, text)
		prev = got.Confidence
	}

	withProfanity := p.Predict(ctx, texts[2], profane(domain.CategoryProfanity, 0.8))
	assert.GreaterOrEqual(t, withProfanity.Confidence, prev)
}

func TestPredict_Deterministic(t *testing.T) {
	p := newPredictor(nil)
	ctx := context.Background()
	text := "아까도 말했는데 공짜로 보상해 주세요"

	first := p.Predict(ctx, text, noProfanity)
	for range 5 {
		got := p.Predict(ctx, text, noProfanity)
		assert.Equal(t, first.Label, got.Label)
		assert.Equal(t, first.LabelType, got.LabelType)
		assert.Equal(t, first.Confidence, got.Confidence) //nolint:testifylint // bit-identical by contract
	}
}

func TestNull(t *testing.T) {
	var n intent.Null
	p, err := n.Predict(context.Background(), "text")

	assert.Nil(t, p)
	assert.NoError(t, err)
	assert.False(t, n.Available())
}
