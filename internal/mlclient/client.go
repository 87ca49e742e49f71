// Package mlclient provides HTTP clients for the sentence classifier and
// emotion model sidecars.
package mlclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/intent"
	"github.com/hyunhan-cho/LT-GDG/internal/mltransport"
)

// ErrUnavailable indicates the model sidecar is unreachable.
var ErrUnavailable = errors.New("ml service unavailable")

// Client is an HTTP client for the sentence classifier sidecar. It
// implements intent.LearnedClassifier.
type Client struct {
	baseURL   string
	available atomic.Bool
}

// ClassifyResponse is the response body from /classify.
type ClassifyResponse struct {
	Label            string             `json:"label"`
	LabelType        string             `json:"label_type"`
	Confidence       float64            `json:"confidence"`
	Probabilities    map[string]float64 `json:"probabilities"`
	ModelVersion     string             `json:"model_version,omitempty"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

// NewClient creates a new classifier client. It is considered available
// until a health check says otherwise.
func NewClient(baseURL string) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	c.available.Store(true)
	return c
}

// Classify sends a classification request to the sidecar.
func (c *Client) Classify(ctx context.Context, text string) (*ClassifyResponse, error) {
	req := &mltransport.ClassifyRequest{Text: text}
	var result ClassifyResponse
	if _, _, err := mltransport.DoClassify(ctx, c.baseURL, req, &result); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return &result, nil
}

// Predict implements intent.LearnedClassifier.
func (c *Client) Predict(ctx context.Context, text string) (*intent.Prediction, error) {
	resp, err := c.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	return resp.toPrediction(), nil
}

// Available implements intent.LearnedClassifier.
func (c *Client) Available() bool {
	return c.available.Load()
}

// Health checks the sidecar and records the outcome for Available.
func (c *Client) Health(ctx context.Context) error {
	reachable, _, _, err := mltransport.DoHealth(ctx, c.baseURL)
	c.available.Store(err == nil)
	if err != nil {
		if !reachable {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}
	return nil
}

func (r *ClassifyResponse) toPrediction() *intent.Prediction {
	label := domain.Label(strings.ToUpper(strings.TrimSpace(r.Label)))
	labelType := domain.LabelType(strings.ToUpper(strings.TrimSpace(r.LabelType)))
	if labelType == "" {
		switch {
		case label.IsSpecial():
			labelType = domain.LabelTypeSpecial
		case label.IsNormal():
			labelType = domain.LabelTypeNormal
		}
	}

	var probs map[domain.Label]float64
	if len(r.Probabilities) > 0 {
		probs = make(map[domain.Label]float64, len(r.Probabilities))
		for k, v := range r.Probabilities {
			probs[domain.Label(strings.ToUpper(k))] = v
		}
	}

	return &intent.Prediction{
		Label:         label,
		LabelType:     labelType,
		Confidence:    r.Confidence,
		Probabilities: probs,
	}
}
