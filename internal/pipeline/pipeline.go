// Package pipeline analyzes call sessions turn by turn: profanity, label
// decision, customer and agent features, turn scores and filtering events.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/features"
	"github.com/hyunhan-cho/LT-GDG/internal/filtering"
	"github.com/hyunhan-cho/LT-GDG/internal/intent"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/telemetry"
	"github.com/hyunhan-cho/LT-GDG/internal/turns"
)

const defaultSinkTimeout = 10 * time.Second

// ErrTurnPanic wraps a panic recovered while analyzing one turn.
var ErrTurnPanic = errors.New("turn analysis panicked")

// EmotionClassifier labels the emotion of a text.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) (string, float64, error)
}

// ResultSink receives finished session results.
type ResultSink interface {
	Name() string
	Save(ctx context.Context, result *domain.PipelineResult) error
}

// Pipeline analyzes one session at a time. Instances are not shared between
// goroutines; build one per worker over the same Tables.
type Pipeline struct {
	tables    *Tables
	splitter  *turns.Splitter
	predictor *intent.Predictor
	customer  *features.CustomerExtractor
	agent     *features.AgentExtractor
	filter    *filtering.Filter
	alerts    *filtering.AlertSystem
	emotion   EmotionClassifier
	telemetry *telemetry.Provider
	sinks     []ResultSink
	log       logger.Logger

	sinkTimeout time.Duration

	model       intent.LearnedClassifier
	modelBudget time.Duration
	policy      turns.Policy
	emotionWarn sync.Once
	now         func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithLearnedClassifier sets the optional learned sentence classifier.
func WithLearnedClassifier(model intent.LearnedClassifier) Option {
	return func(p *Pipeline) { p.model = model }
}

// WithModelBudget bounds each learned classifier call.
func WithModelBudget(d time.Duration) Option {
	return func(p *Pipeline) { p.modelBudget = d }
}

// WithEmotion sets the emotion classifier used for manual keyword lookup.
func WithEmotion(e EmotionClassifier) Option {
	return func(p *Pipeline) { p.emotion = e }
}

// WithTurnPolicy sets the turn splitting policy.
func WithTurnPolicy(policy turns.Policy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// WithAlerts dispatches filtering events through a.
func WithAlerts(a *filtering.AlertSystem) Option {
	return func(p *Pipeline) { p.alerts = a }
}

// WithTelemetry records metrics and spans.
func WithTelemetry(t *telemetry.Provider) Option {
	return func(p *Pipeline) { p.telemetry = t }
}

// WithSinks stores every finished session in sinks.
func WithSinks(sinks ...ResultSink) Option {
	return func(p *Pipeline) { p.sinks = append(p.sinks, sinks...) }
}

// WithSinkTimeout bounds each result sink call.
func WithSinkTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.sinkTimeout = d
		}
	}
}

// New creates a pipeline over shared tables. Nil tables are built with
// defaults.
func New(tables *Tables, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:         logger.NewNop(),
		policy:      turns.DefaultPolicy(),
		filter:      filtering.NewFilter(),
		now:         time.Now,
		sinkTimeout: defaultSinkTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if tables == nil {
		tables = NewTables(nil, p.log)
	}
	p.tables = tables

	predictorOpts := []intent.PredictorOption{intent.WithModelBudget(p.modelBudget)}
	if p.telemetry != nil {
		predictorOpts = append(predictorOpts, intent.WithModelObserver(p.telemetry))
	}

	p.splitter = turns.NewSplitter(p.policy, p.log)
	p.predictor = intent.NewPredictor(tables.Rules, p.model, p.log, predictorOpts...)
	p.customer = features.NewCustomerExtractor(tables.Lexicons, tables.Rules)
	p.agent = features.NewAgentExtractor(tables.Checker)
	return p
}

// Tables returns the shared tables.
func (p *Pipeline) Tables() *Tables {
	return p.tables
}

// Process analyzes one session. It never fails: turns that cannot be
// analyzed are counted in FailedTurns and the rest of the session continues.
func (p *Pipeline) Process(ctx context.Context, transcript domain.Transcript) *domain.PipelineResult {
	start := time.Now()

	sessionID := transcript.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, span := p.startSpan(ctx, "pipeline.process", attribute.String("session_id", sessionID))
	defer span.End()

	result := &domain.PipelineResult{
		SessionID:          sessionID,
		TurnResults:        []domain.TurnAnalysisResult{},
		SpecialLabelCounts: map[domain.Label]int{},
		Timestamp:          p.now(),
	}

	sessionTurns, stats, err := p.splitter.Split(transcript.Utterances)
	if err != nil {
		p.log.Warn("Session has no analyzable turns",
			logger.String("session_id", sessionID),
			logger.Int("utterances", len(transcript.Utterances)),
			logger.Error(err),
		)
		p.finish(ctx, result, start)
		return result
	}

	p.log.Info("Session analysis started",
		logger.String("session_id", sessionID),
		logger.Int("turns", len(sessionTurns)),
		logger.Any("split_stats", stats),
	)

	result.TotalTurns = len(sessionTurns)
	startIndex := firstAgentTurn(sessionTurns)
	last := len(sessionTurns) - 1

	for i, turn := range sessionTurns {
		tr, turnErr := p.processTurn(ctx, sessionID, turn, i == startIndex, i == last)
		if turnErr != nil {
			result.FailedTurns++
			p.log.Error("Turn analysis failed",
				logger.String("session_id", sessionID),
				logger.Int("turn_index", turn.Index),
				logger.Error(turnErr),
			)
			if p.telemetry != nil {
				p.telemetry.RecordTurnFailure(ctx)
			}
			continue
		}
		p.collect(ctx, result, tr)
	}

	p.finish(ctx, result, start)
	return result
}

// collect folds one analyzed turn into the session summary.
func (p *Pipeline) collect(ctx context.Context, result *domain.PipelineResult, tr domain.TurnAnalysisResult) {
	result.TurnResults = append(result.TurnResults, tr)
	result.MaxTurnRiskScore = max(result.MaxTurnRiskScore, tr.TurnScores.TurnRiskScore)

	cls := tr.CustomerResult.ClassificationResult
	if p.telemetry != nil {
		p.telemetry.RecordTurn(ctx, cls.LabelType, cls.Label, tr.TurnScores.TurnRiskScore)
	}
	if !cls.IsSpecial() {
		return
	}

	result.SpecialLabelCounts[cls.Label]++
	ev, ok := p.filter.Evaluate(tr, result.SpecialLabelCounts[cls.Label])
	if !ok {
		return
	}
	result.Alerts = append(result.Alerts, ev)
	if p.alerts != nil {
		p.alerts.Send(ctx, ev)
	}
}

func (p *Pipeline) finish(ctx context.Context, result *domain.PipelineResult, start time.Time) {
	for _, sink := range p.sinks {
		if err := p.save(ctx, sink, result); err != nil {
			p.log.Warn("Failed to store session result",
				logger.String("session_id", result.SessionID),
				logger.String("sink", sink.Name()),
				logger.Error(err),
			)
			if p.telemetry != nil {
				p.telemetry.RecordStorageFailure(ctx, sink.Name())
			}
		}
	}

	duration := time.Since(start)
	if p.telemetry != nil {
		p.telemetry.RecordSession(ctx, result.FailedTurns, duration)
	}

	p.log.Info("Session analysis finished",
		logger.String("session_id", result.SessionID),
		logger.Int("turns", result.TotalTurns),
		logger.Int("failed_turns", result.FailedTurns),
		logger.Float64("max_turn_risk_score", result.MaxTurnRiskScore),
		logger.Int("alerts", len(result.Alerts)),
		logger.Duration("duration", duration),
	)
}

func (p *Pipeline) save(ctx context.Context, sink ResultSink, result *domain.PipelineResult) error {
	ctx, cancel := context.WithTimeout(ctx, p.sinkTimeout)
	defer cancel()
	return sink.Save(ctx, result)
}

func (p *Pipeline) processTurn(
	ctx context.Context,
	sessionID string,
	turn domain.Turn,
	isStart, isEnd bool,
) (tr domain.TurnAnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTurnPanic, r)
		}
	}()

	ctx, span := p.startSpan(ctx, "pipeline.turn", attribute.Int("turn_index", turn.Index))
	defer span.End()

	customer := p.analyzeCustomer(ctx, sessionID, turn)
	tr = domain.TurnAnalysisResult{
		SessionID:      sessionID,
		TurnIndex:      turn.Index,
		CustomerResult: customer,
	}

	var agentScores domain.FeatureScores
	if turn.HasAgent() {
		agent := p.analyzeAgent(ctx, sessionID, turn, customer.ClassificationResult.Label, isStart, isEnd)
		tr.AgentResult = &agent
		agentScores = agent.FeatureScores
	}

	tr.TurnScores = ScoreTurn(customer.FeatureScores, agentScores)
	return tr, nil
}

func (p *Pipeline) analyzeCustomer(ctx context.Context, sessionID string, turn domain.Turn) domain.CustomerAnalysisResult {
	text := turn.CustomerText
	prof := p.tables.Detector.Detect(text)
	cls := p.predictor.Predict(ctx, text, prof)
	scores, evidence := p.customer.Extract(text, prof, cls)

	return domain.CustomerAnalysisResult{
		SessionID:            sessionID,
		TurnIndex:            turn.Index,
		Text:                 text,
		Timestamp:            p.now(),
		ProfanityResult:      prof,
		ClassificationResult: cls,
		FeatureScores:        scores,
		ExtractedFeatures:    evidence,
	}
}

func (p *Pipeline) analyzeAgent(
	ctx context.Context,
	sessionID string,
	turn domain.Turn,
	customerLabel domain.Label,
	isStart, isEnd bool,
) domain.AgentAnalysisResult {
	emotion := p.classifyEmotion(ctx, turn.CustomerText)
	text := turn.Agent()

	scores, compliance, evidence := p.agent.Extract(features.AgentInput{
		Text:          text,
		CustomerLabel: customerLabel,
		Emotion:       emotion,
		IsStart:       isStart,
		IsEnd:         isEnd,
	})

	return domain.AgentAnalysisResult{
		SessionID:                  sessionID,
		TurnIndex:                  turn.Index,
		Text:                       text,
		Timestamp:                  p.now(),
		CorrespondingCustomerLabel: customerLabel,
		EmotionLabel:               emotion,
		ManualComplianceScore:      compliance.Score,
		ComplianceDetails:          compliance.Details(),
		FeatureScores:              scores,
		ExtractedFeatures:          evidence,
	}
}

// classifyEmotion labels the customer's emotion, NEUTRAL when no classifier
// is configured or the call fails.
func (p *Pipeline) classifyEmotion(ctx context.Context, text string) string {
	if p.emotion == nil || strings.TrimSpace(text) == "" {
		return domain.EmotionNeutral
	}

	label, _, err := p.emotion.Classify(ctx, text)
	if err != nil {
		first := false
		p.emotionWarn.Do(func() { first = true })
		if first {
			p.log.Warn("Emotion classifier failed, using NEUTRAL", logger.Error(err))
		} else {
			p.log.Debug("Emotion classifier failed", logger.Error(err))
		}
		return domain.EmotionNeutral
	}

	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return domain.EmotionNeutral
	}
	return label
}

//nolint:spancheck // Caller is responsible for ending the span
func (p *Pipeline) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if p.telemetry == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return p.telemetry.StartSpan(ctx, name, attrs...)
}

// firstAgentTurn returns the index of the first turn with agent text, or -1.
func firstAgentTurn(sessionTurns []domain.Turn) int {
	for i, t := range sessionTurns {
		if t.HasAgent() {
			return i
		}
	}
	return -1
}
