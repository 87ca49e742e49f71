package llmclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/intent"
	"github.com/hyunhan-cho/LT-GDG/internal/llmclient"
)

func newMessagesServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		body := map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-test",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": text}},
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Predict(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantLabel domain.Label
		wantType  domain.LabelType
		wantConf  float64
	}{
		{
			name:      "special",
			reply:     `{"label":"violence_threat","label_type":"SPECIAL","confidence":0.92}`,
			wantLabel: domain.LabelViolenceThreat,
			wantType:  domain.LabelTypeSpecial,
			wantConf:  0.92,
		},
		{
			name:      "normal wrapped in prose",
			reply:     "결과: {\"label\":\"INQUIRY\",\"confidence\":0.7}",
			wantLabel: domain.LabelInquiry,
			wantType:  domain.LabelTypeNormal,
			wantConf:  0.7,
		},
		{
			name:      "confidence clamped",
			reply:     `{"label":"PROFANITY","confidence":1.4}`,
			wantLabel: domain.LabelProfanity,
			wantType:  domain.LabelTypeSpecial,
			wantConf:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMessagesServer(t, tt.reply)
			c := llmclient.NewClient(llmclient.Config{APIKey: "test", Model: "claude-test", BaseURL: srv.URL})
			require.True(t, c.Available())

			got, err := c.Predict(context.Background(), "죽여버린다")
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantType, got.LabelType)
			assert.InDelta(t, tt.wantConf, got.Confidence, 1e-9)
		})
	}
}

func TestClient_PredictRejectsUnknownLabel(t *testing.T) {
	srv := newMessagesServer(t, `{"label":"SPAM","confidence":0.5}`)
	c := llmclient.NewClient(llmclient.Config{APIKey: "test", Model: "claude-test", BaseURL: srv.URL})

	_, err := c.Predict(context.Background(), "text")
	assert.Error(t, err)
}

func TestClient_PredictRejectsNonJSON(t *testing.T) {
	srv := newMessagesServer(t, "I cannot classify this.")
	c := llmclient.NewClient(llmclient.Config{APIKey: "test", Model: "claude-test", BaseURL: srv.URL})

	_, err := c.Predict(context.Background(), "text")
	assert.Error(t, err)
}

func TestClient_UnavailableWithoutKey(t *testing.T) {
	c := llmclient.NewClient(llmclient.Config{Model: "claude-test"})
	assert.False(t, c.Available())

	_, err := c.Predict(context.Background(), "text")
	assert.ErrorIs(t, err, intent.ErrUnavailable)
}
