// Package llmclient implements a learned sentence classifier on top of the
// Anthropic Messages API.
package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/intent"
)

const defaultMaxTokens = 256

// ErrEmptyResponse is returned when the model reply carries no text block.
var ErrEmptyResponse = errors.New("llm returned no text content")

const systemPrompt = `You label single customer utterances from Korean call-center transcripts.
Reply with one JSON object and nothing else:
{"label": "<LABEL>", "label_type": "NORMAL|SPECIAL", "confidence": <0..1>}

SPECIAL labels: VIOLENCE_THREAT, SEXUAL_HARASSMENT, PROFANITY, HATE_SPEECH, UNREASONABLE_DEMAND, REPETITION.
NORMAL labels: INQUIRY, COMPLAINT, REQUEST, CLARIFICATION, CONFIRMATION, CLOSING.
Use a SPECIAL label only when the utterance itself is abusive, threatening or unreasonable.`

// Config configures the client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

// Client classifies text with a Claude model. It implements
// intent.LearnedClassifier.
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	enabled   bool
}

// reply is the JSON object the model is instructed to emit.
type reply struct {
	Label      string  `json:"label"`
	LabelType  string  `json:"label_type"`
	Confidence float64 `json:"confidence"`
}

// NewClient creates a client. Without an API key the client reports itself
// unavailable and is never called.
func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		enabled:   cfg.APIKey != "" && cfg.Model != "",
	}
}

// Available implements intent.LearnedClassifier.
func (c *Client) Available() bool {
	return c.enabled
}

// Predict implements intent.LearnedClassifier.
func (c *Client) Predict(ctx context.Context, text string) (*intent.Prediction, error) {
	if !c.enabled {
		return nil, intent.ErrUnavailable
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return parseReply(block.Text)
		}
	}
	return nil, ErrEmptyResponse
}

// parseReply extracts the first JSON object from the model output.
func parseReply(raw string) (*intent.Prediction, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no json object in reply %q", raw)
	}

	var r reply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &r); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	label := domain.Label(strings.ToUpper(strings.TrimSpace(r.Label)))
	var labelType domain.LabelType
	switch {
	case label.IsSpecial():
		labelType = domain.LabelTypeSpecial
	case label.IsNormal():
		labelType = domain.LabelTypeNormal
	default:
		return nil, fmt.Errorf("unknown label %q", r.Label)
	}

	conf := min(max(r.Confidence, 0), 1)
	return &intent.Prediction{
		Label:         label,
		LabelType:     labelType,
		Confidence:    conf,
		Probabilities: map[domain.Label]float64{label: conf},
	}, nil
}
