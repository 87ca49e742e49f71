package mlclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/mltransport"
)

// EmotionClient is an HTTP client for the emotion model sidecar.
type EmotionClient struct {
	baseURL string
}

// EmotionResponse is the response body from /emotion.
type EmotionResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

var knownEmotions = map[string]bool{
	domain.EmotionNeutral:    true,
	domain.EmotionPositive:   true,
	domain.EmotionNegative:   true,
	domain.EmotionAngry:      true,
	domain.EmotionFrustrated: true,
	domain.EmotionSatisfied:  true,
	domain.EmotionConfused:   true,
}

// NewEmotionClient creates a new emotion client.
func NewEmotionClient(baseURL string) *EmotionClient {
	return &EmotionClient{baseURL: strings.TrimRight(baseURL, "/")}
}

// Classify returns the emotion label of text. Labels outside the known set
// are reported as NEUTRAL.
func (c *EmotionClient) Classify(ctx context.Context, text string) (string, float64, error) {
	var resp EmotionResponse
	req := &mltransport.ClassifyRequest{Text: text}
	if _, _, err := mltransport.DoPost(ctx, c.baseURL+mltransport.PathEmotion, req, &resp); err != nil {
		return "", 0, fmt.Errorf("emotion: %w", err)
	}

	label := strings.ToUpper(strings.TrimSpace(resp.Label))
	if !knownEmotions[label] {
		return domain.EmotionNeutral, resp.Confidence, nil
	}
	return label, resp.Confidence, nil
}

// Health checks the emotion sidecar.
func (c *EmotionClient) Health(ctx context.Context) error {
	reachable, _, _, err := mltransport.DoHealth(ctx, c.baseURL)
	if err != nil && !reachable {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
