package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

const defaultESURL = "http://localhost:9200"

// ErrBulkItems is returned when Elasticsearch rejects some bulk items.
var ErrBulkItems = errors.New("bulk request had item errors")

// turnMapping keeps text fields searchable and labels aggregatable.
const turnMapping = `{
  "mappings": {
    "properties": {
      "session_id":                   {"type": "keyword"},
      "turn_index":                   {"type": "integer"},
      "customer_text":                {"type": "text"},
      "customer_label":               {"type": "keyword"},
      "label_type":                   {"type": "keyword"},
      "confidence":                   {"type": "float"},
      "is_profanity":                 {"type": "boolean"},
      "profanity_category":           {"type": "keyword"},
      "agent_text":                   {"type": "text"},
      "emotion_label":                {"type": "keyword"},
      "manual_compliance_score":      {"type": "float"},
      "customer_problem_score":       {"type": "float"},
      "agent_response_quality_score": {"type": "float"},
      "turn_risk_score":              {"type": "float"},
      "customer_features":            {"type": "object", "dynamic": true},
      "agent_features":               {"type": "object", "dynamic": true},
      "probabilities":                {"type": "object", "dynamic": true},
      "analyzed_at":                  {"type": "date"}
    }
  }
}`

// ElasticsearchConfig holds connection settings.
type ElasticsearchConfig struct {
	URL        string
	Username   string
	Password   string //nolint:gosec // credential from config
	MaxRetries int
	Transport  http.RoundTripper
}

// NewElasticsearchClient creates a client and verifies the connection.
func NewElasticsearchClient(ctx context.Context, cfg ElasticsearchConfig) (*es.Client, error) {
	clientConfig := es.Config{
		Addresses:  []string{normalizeURL(cfg.URL)},
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
		Transport:  cfg.Transport,
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}

	return client, nil
}

func normalizeURL(url string) string {
	if url == "" {
		return defaultESURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

// ElasticsearchSink indexes one document per analyzed turn.
type ElasticsearchSink struct {
	client *es.Client
	index  string
	log    logger.Logger
	now    func() time.Time
}

// NewElasticsearchSink creates a sink writing to index.
func NewElasticsearchSink(client *es.Client, index string, log logger.Logger) *ElasticsearchSink {
	if log == nil {
		log = logger.NewNop()
	}
	return &ElasticsearchSink{client: client, index: index, log: log, now: time.Now}
}

// Name implements pipeline.ResultSink.
func (s *ElasticsearchSink) Name() string { return "elasticsearch" }

// EnsureIndex creates the turn index when it does not exist.
func (s *ElasticsearchSink) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error checking index %s: %s", s.index, res.String())
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(turnMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index %s: %s", s.index, res.String())
	}

	s.log.Info("Created turn index", logger.String("index", s.index))
	return nil
}

// Save implements pipeline.ResultSink.
func (s *ElasticsearchSink) Save(ctx context.Context, result *domain.PipelineResult) error {
	if result == nil || len(result.TurnResults) == 0 {
		return nil
	}

	analyzedAt := result.Timestamp
	if analyzedAt.IsZero() {
		analyzedAt = s.now()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, tr := range result.TurnResults {
		doc := NewTurnDocument(tr, analyzedAt)
		meta := map[string]any{
			"index": map[string]any{
				"_index": s.index,
				"_id":    doc.ID(),
			},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
	}

	res, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk indexing error: %s", res.String())
	}

	var body struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	if err = json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("error decoding bulk response: %w", err)
	}
	if body.Errors {
		failed := 0
		for _, item := range body.Items {
			for _, r := range item {
				if r.Status >= http.StatusBadRequest {
					failed++
				}
			}
		}
		return fmt.Errorf("%w: %d of %d turns", ErrBulkItems, failed, len(result.TurnResults))
	}

	s.log.Debug("Indexed session turns",
		logger.String("session_id", result.SessionID),
		logger.Int("turns", len(result.TurnResults)),
	)
	return nil
}
