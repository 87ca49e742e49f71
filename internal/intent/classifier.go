// Package intent decides the label of a customer turn from independent
// factors: profanity, keyword rules and an optional learned classifier.
package intent

import (
	"context"
	"errors"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

// ErrUnavailable is returned by a learned classifier that cannot serve.
var ErrUnavailable = errors.New("learned classifier unavailable")

// Prediction is a learned classifier's vote for one text.
type Prediction struct {
	Label         domain.Label             `json:"label"`
	LabelType     domain.LabelType         `json:"label_type"`
	Confidence    float64                  `json:"confidence"`
	Probabilities map[domain.Label]float64 `json:"probabilities,omitempty"`
}

// LearnedClassifier is an optional sentence classifier. A nil Prediction with
// a nil error means "no opinion".
type LearnedClassifier interface {
	Predict(ctx context.Context, text string) (*Prediction, error)
	Available() bool
}

// Null is the learned classifier used when none is configured.
type Null struct{}

// Predict always abstains.
func (Null) Predict(context.Context, string) (*Prediction, error) { return nil, nil }

// Available reports false.
func (Null) Available() bool { return false }
