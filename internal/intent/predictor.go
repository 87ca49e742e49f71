package intent

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/rules"
)

// Aggregation constants.
const (
	// NormalConfidence is reported for every intent label. An intent label
	// means no risk factor fired; it is not measured evidence.
	NormalConfidence   = 0.3
	factorBonus        = 0.1
	maxConfidence      = 1.0
	defaultModelBudget = 2 * time.Second
)

// Factor sources.
const (
	SourceProfanity = "profanity"
	SourceRule      = "rule"
	SourceModel     = "model"
)

// Factor is one piece of evidence for a risk label.
type Factor struct {
	Label      domain.Label `json:"label"`
	Confidence float64      `json:"confidence"`
	Source     string       `json:"source"`
}

// Predictor decides turn labels. It is safe for concurrent use when its
// learned classifier is.
type Predictor struct {
	rules   *rules.Engine
	model   LearnedClassifier
	budget  time.Duration
	logger  logger.Logger
	warned  sync.Once
	metrics ModelObserver
}

// ModelObserver receives learned classifier call outcomes.
type ModelObserver interface {
	RecordModelCall(ctx context.Context, duration time.Duration, err error)
}

// PredictorOption configures a Predictor.
type PredictorOption func(*Predictor)

// WithModelBudget bounds each learned classifier call.
func WithModelBudget(d time.Duration) PredictorOption {
	return func(p *Predictor) {
		if d > 0 {
			p.budget = d
		}
	}
}

// WithModelObserver records learned classifier calls.
func WithModelObserver(o ModelObserver) PredictorOption {
	return func(p *Predictor) { p.metrics = o }
}

// NewPredictor creates a predictor. A nil model is replaced by Null.
func NewPredictor(engine *rules.Engine, model LearnedClassifier, log logger.Logger, opts ...PredictorOption) *Predictor {
	if model == nil {
		model = Null{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	p := &Predictor{
		rules:  engine,
		model:  model,
		budget: defaultModelBudget,
		logger: log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict labels one customer turn. Learned classifier failures degrade to
// rule-only classification and are never returned.
func (p *Predictor) Predict(ctx context.Context, text string, prof domain.ProfanityResult) domain.ClassificationResult {
	model := p.callModel(ctx, text)

	factors := p.Factors(text, prof, model)
	if len(factors) > 0 {
		return aggregate(text, factors)
	}

	if model != nil && model.LabelType == domain.LabelTypeNormal && model.Label.IsNormal() {
		probs := model.Probabilities
		if len(probs) == 0 {
			probs = map[domain.Label]float64{model.Label: 1}
		}
		return domain.ClassificationResult{
			Label:         model.Label,
			LabelType:     domain.LabelTypeNormal,
			Confidence:    NormalConfidence,
			Text:          text,
			Probabilities: probs,
			Timestamp:     time.Now(),
		}
	}

	label := p.rules.BestNormal(text)
	return domain.ClassificationResult{
		Label:         label,
		LabelType:     domain.LabelTypeNormal,
		Confidence:    NormalConfidence,
		Text:          text,
		Probabilities: map[domain.Label]float64{label: 1},
		Timestamp:     time.Now(),
	}
}

// Factors collects the risk factors for text, merging factors that share a
// label by keeping the higher confidence. First-seen order is preserved.
func (p *Predictor) Factors(text string, prof domain.ProfanityResult, model *Prediction) []Factor {
	var set factorSet

	if prof.IsProfanity {
		set.add(Factor{Label: prof.Category.Label(), Confidence: prof.Confidence, Source: SourceProfanity})
	}
	for _, f := range p.rules.DetectSpecial(text) {
		set.add(Factor{Label: f.Label, Confidence: f.Confidence, Source: SourceRule})
	}
	if model != nil && model.LabelType == domain.LabelTypeSpecial && model.Label.IsSpecial() {
		set.add(Factor{Label: model.Label, Confidence: clamp(model.Confidence), Source: SourceModel})
	}

	return set.factors
}

func (p *Predictor) callModel(ctx context.Context, text string) (pred *Prediction) {
	if !p.model.Available() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("learned classifier panic: %v", r)
			pred = nil
		}
		if p.metrics != nil {
			p.metrics.RecordModelCall(ctx, time.Since(start), err)
		}
		if err != nil {
			p.degrade(err)
		}
	}()

	pred, err = p.model.Predict(ctx, text)
	if err != nil {
		return nil
	}
	return pred
}

// degrade logs the first learned classifier failure at Warn, later ones at Debug.
func (p *Predictor) degrade(err error) {
	first := false
	p.warned.Do(func() { first = true })
	if first {
		p.logger.Warn("Learned classifier failed, continuing with rules only", logger.Error(err))
		return
	}
	p.logger.Debug("Learned classifier failed", logger.Error(err))
}

func aggregate(text string, factors []Factor) domain.ClassificationResult {
	primary := factors[0]
	var total float64
	for _, f := range factors {
		total += f.Confidence
		if f.Confidence > primary.Confidence {
			primary = f
		}
	}

	n := float64(len(factors))
	mean := total / n
	confidence := math.Min(math.Max(primary.Confidence, mean)*(1+factorBonus*(n-1)), maxConfidence)

	probs := make(map[domain.Label]float64, len(factors))
	if total > 0 {
		for _, f := range factors {
			probs[f.Label] = f.Confidence / total
		}
	}

	return domain.ClassificationResult{
		Label:         primary.Label,
		LabelType:     domain.LabelTypeSpecial,
		Confidence:    confidence,
		Text:          text,
		Probabilities: probs,
		Timestamp:     time.Now(),
	}
}

type factorSet struct {
	factors []Factor
}

func (s *factorSet) add(f Factor) {
	for i := range s.factors {
		if s.factors[i].Label == f.Label {
			if f.Confidence > s.factors[i].Confidence {
				s.factors[i] = f
			}
			return
		}
	}
	s.factors = append(s.factors, f)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(v, maxConfidence))
}
