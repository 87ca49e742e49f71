//nolint:testpackage // Testing response mapping requires same package access
package mlclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

func newSidecar(t *testing.T, classifyBody, emotionBody string, healthStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/classify", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(classifyBody))
	})
	mux.HandleFunc("/emotion", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(emotionBody))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(healthStatus)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Predict(t *testing.T) {
	srv := newSidecar(t,
		`{"label":"complaint","label_type":"NORMAL","confidence":0.82,"probabilities":{"complaint":0.82,"inquiry":0.18}}`,
		`{}`, http.StatusOK)

	c := NewClient(srv.URL + "/")
	got, err := c.Predict(context.Background(), "왜 이래요")
	require.NoError(t, err)

	assert.Equal(t, domain.LabelComplaint, got.Label)
	assert.Equal(t, domain.LabelTypeNormal, got.LabelType)
	assert.InDelta(t, 0.82, got.Confidence, 1e-9)
	assert.InDelta(t, 0.18, got.Probabilities[domain.LabelInquiry], 1e-9)
}

func TestClassifyResponse_InfersLabelType(t *testing.T) {
	tests := []struct {
		label string
		want  domain.LabelType
	}{
		{"PROFANITY", domain.LabelTypeSpecial},
		{"closing", domain.LabelTypeNormal},
		{"SOMETHING_ELSE", ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r := &ClassifyResponse{Label: tt.label, Confidence: 0.5}
			assert.Equal(t, tt.want, r.toPrediction().LabelType)
		})
	}
}

func TestClient_HealthTogglesAvailability(t *testing.T) {
	healthy := newSidecar(t, `{}`, `{}`, http.StatusOK)
	c := NewClient(healthy.URL)
	require.True(t, c.Available())
	require.NoError(t, c.Health(context.Background()))
	assert.True(t, c.Available())

	broken := newSidecar(t, `{}`, `{}`, http.StatusServiceUnavailable)
	c = NewClient(broken.URL)
	err := c.Health(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.False(t, c.Available())
}

func TestClient_PredictError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Predict(context.Background(), "text")
	assert.Error(t, err)
}

func TestEmotionClient_Classify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"known", `{"label":"angry","confidence":0.9}`, domain.EmotionAngry},
		{"unknown maps to neutral", `{"label":"bored","confidence":0.4}`, domain.EmotionNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSidecar(t, `{}`, tt.body, http.StatusOK)
			label, _, err := NewEmotionClient(srv.URL).Classify(context.Background(), "왜 이래요")
			require.NoError(t, err)
			assert.Equal(t, tt.want, label)
		})
	}
}
