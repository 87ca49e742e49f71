package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/hyunhan-cho/LT-GDG/internal/compliance"
	"github.com/hyunhan-cho/LT-GDG/internal/config"
	"github.com/hyunhan-cho/LT-GDG/internal/intent"
	"github.com/hyunhan-cho/LT-GDG/internal/llmclient"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/mlclient"
	"github.com/hyunhan-cho/LT-GDG/internal/pipeline"
	"github.com/hyunhan-cho/LT-GDG/internal/profanity"
	"github.com/hyunhan-cho/LT-GDG/internal/turns"
)

// SetupTables builds the shared read-only tables: the compliance keyword
// table (optionally overridden from YAML) and the profanity levels.
func SetupTables(cfg *config.Config, log logger.Logger) (*pipeline.Tables, error) {
	var table *compliance.Table
	if path := cfg.Compliance.KeywordsPath; path != "" {
		t, err := compliance.LoadTable(path)
		if err != nil {
			return nil, fmt.Errorf("load compliance keywords: %w", err)
		}
		table = t
		log.Info("Compliance keyword table loaded",
			logger.String("path", path),
			logger.Int("entries", t.Len()),
		)
	}

	var opts []profanity.Option
	if len(cfg.Profanity.DisabledLevels) > 0 {
		opts = append(opts, profanity.WithDisabledLevels(cfg.Profanity.DisabledLevels...))
		log.Info("Profanity levels disabled", logger.Strings("levels", cfg.Profanity.DisabledLevels))
	}
	return pipeline.NewTables(table, log, opts...), nil
}

// SetupLearnedClassifier returns the configured learned classifier, or nil
// for the none provider.
func SetupLearnedClassifier(cfg *config.Config, log logger.Logger) intent.LearnedClassifier {
	switch cfg.Classifier.Provider {
	case config.ProviderHTTP:
		client := mlclient.NewClient(cfg.Classifier.URL)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Classifier.Timeout)
		defer cancel()
		if err := client.Health(ctx); err != nil {
			log.Warn("Classifier sidecar unhealthy, rule-only until it recovers",
				logger.String("url", cfg.Classifier.URL),
				logger.Error(err),
			)
		}
		log.Info("Learned classifier enabled",
			logger.String("provider", config.ProviderHTTP),
			logger.String("url", cfg.Classifier.URL),
		)
		return client
	case config.ProviderAnthropic:
		log.Info("Learned classifier enabled",
			logger.String("provider", config.ProviderAnthropic),
			logger.String("model", cfg.Classifier.AnthropicModel),
		)
		return llmclient.NewClient(llmclient.Config{
			APIKey: cfg.Classifier.AnthropicAPIKey,
			Model:  cfg.Classifier.AnthropicModel,
		})
	default:
		return nil
	}
}

// SetupEmotion returns the emotion classifier, or nil when disabled.
func SetupEmotion(cfg *config.Config, log logger.Logger) pipeline.EmotionClassifier {
	if !cfg.Emotion.Enabled {
		return nil
	}
	log.Info("Emotion classifier enabled", logger.String("url", cfg.Emotion.URL))
	return &timedEmotion{
		inner:   mlclient.NewEmotionClient(cfg.Emotion.URL),
		timeout: cfg.Emotion.Timeout,
	}
}

// timedEmotion bounds each emotion call.
type timedEmotion struct {
	inner   pipeline.EmotionClassifier
	timeout time.Duration
}

func (e *timedEmotion) Classify(ctx context.Context, text string) (string, float64, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.inner.Classify(ctx, text)
}

// TurnPolicy maps configuration to the splitter policy.
func TurnPolicy(cfg *config.Config) turns.Policy {
	return turns.Policy{
		LeadingAgent:   cfg.Turns.LeadingAgentPolicy,
		UnknownSpeaker: cfg.Turns.UnknownSpeakerPolicy,
	}
}
