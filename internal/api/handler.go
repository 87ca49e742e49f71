// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/hyunhan-cho/LT-GDG/internal/compliance"
	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/filtering"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/pipeline"
	"github.com/hyunhan-cho/LT-GDG/internal/processor"
	"github.com/hyunhan-cho/LT-GDG/internal/storage"
	"github.com/hyunhan-cho/LT-GDG/internal/turns"
)

const (
	defaultListLimit     = 50
	maxListLimit         = 500
	defaultRiskThreshold = 0.7
)

// HistoryStore reads stored session results.
type HistoryStore interface {
	Recent(ctx context.Context, limit int) ([]storage.SessionRecord, error)
	Turns(ctx context.Context, sessionID string) ([]storage.TurnDocument, error)
	HighRisk(ctx context.Context, threshold float64, limit int) ([]storage.TurnDocument, error)
}

// Handler handles HTTP requests for the analysis API.
type Handler struct {
	pipelines sync.Pool
	tables    *pipeline.Tables
	batch     *processor.BatchProcessor
	alerts    *filtering.AlertSystem
	history   HistoryStore
	log       logger.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithAlerts exposes the alert history on GET /api/v1/alerts.
func WithAlerts(a *filtering.AlertSystem) HandlerOption {
	return func(h *Handler) { h.alerts = a }
}

// WithHistory exposes stored sessions on /api/v1/sessions.
func WithHistory(s HistoryStore) HandlerOption {
	return func(h *Handler) { h.history = s }
}

// NewHandler creates a handler. Pipelines built by factory are pooled; one
// pipeline serves one request at a time.
func NewHandler(
	factory processor.Factory,
	batch *processor.BatchProcessor,
	log logger.Logger,
	opts ...HandlerOption,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Handler{batch: batch, log: log}
	h.pipelines.New = func() any { return factory() }
	for _, opt := range opts {
		opt(h)
	}

	p := h.acquire()
	h.tables = p.Tables()
	h.release(p)
	return h
}

func (h *Handler) acquire() *pipeline.Pipeline {
	p, _ := h.pipelines.Get().(*pipeline.Pipeline)
	return p
}

func (h *Handler) release(p *pipeline.Pipeline) {
	h.pipelines.Put(p)
}

// AnalyzeRequest is one session to analyze. Either Utterances or a tagged
// plain-text Text ("고객: ... 상담사: ...") must be given.
type AnalyzeRequest struct {
	SessionID  string             `json:"session_id"`
	Utterances []domain.Utterance `json:"utterances"`
	Text       string             `json:"text"`
}

func (r AnalyzeRequest) transcript() domain.Transcript {
	utterances := r.Utterances
	if len(utterances) == 0 {
		utterances = turns.ParseTagged(r.Text)
	}
	return domain.Transcript{SessionID: r.SessionID, Utterances: utterances}
}

func (r AnalyzeRequest) empty() bool {
	return len(r.Utterances) == 0 && strings.TrimSpace(r.Text) == ""
}

// BatchAnalyzeRequest is a batch of sessions.
type BatchAnalyzeRequest struct {
	Sessions []AnalyzeRequest `json:"sessions" binding:"required,min=1,max=100"`
}

// BatchAnalyzeResponse is the batch outcome, in request order.
type BatchAnalyzeResponse struct {
	Results []processor.ProcessResult `json:"results"`
	Total   int                       `json:"total"`
	Success int                       `json:"success"`
	Failed  int                       `json:"failed"`
}

// ComplianceCheckRequest scores one agent utterance.
type ComplianceCheckRequest struct {
	AgentText     string `json:"agent_text"     binding:"required"`
	Emotion       string `json:"emotion"`
	CustomerLabel string `json:"customer_label"`
	IsStart       bool   `json:"is_start"`
	IsEnd         bool   `json:"is_end"`
}

// ComplianceCheckResponse carries the score and the flattened details.
type ComplianceCheckResponse struct {
	Result  compliance.Result `json:"result"`
	Details map[string]any    `json:"details"`
}

// ProfanityCheckRequest is a text to screen.
type ProfanityCheckRequest struct {
	Text string `json:"text" binding:"required"`
}

// ProfanityCheckResponse is the detector verdict plus hate terms found.
type ProfanityCheckResponse struct {
	Result    domain.ProfanityResult `json:"result"`
	HateTerms []string               `json:"hate_terms,omitempty"`
}

// Analyze handles POST /api/v1/analyze
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "utterances or text is required"})
		return
	}

	p := h.acquire()
	defer h.release(p)

	result := p.Process(c.Request.Context(), req.transcript())
	c.JSON(http.StatusOK, result)
}

// AnalyzeBatch handles POST /api/v1/analyze/batch
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	var req BatchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid batch analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessions := make([]domain.Transcript, 0, len(req.Sessions))
	for i, s := range req.Sessions {
		if s.empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session " + strconv.Itoa(i) + ": utterances or text is required"})
			return
		}
		sessions = append(sessions, s.transcript())
	}

	h.log.Info("Batch analyzing sessions", logger.Int("batch_size", len(sessions)))

	results := h.batch.Process(c.Request.Context(), sessions)
	resp := BatchAnalyzeResponse{Results: results, Total: len(results)}
	for _, r := range results {
		if r.Error != nil {
			resp.Failed++
		} else {
			resp.Success++
		}
	}
	c.JSON(http.StatusOK, resp)
}

// CheckCompliance handles POST /api/v1/compliance/check
func (h *Handler) CheckCompliance(c *gin.Context) {
	var req ComplianceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label := domain.Label(strings.ToUpper(strings.TrimSpace(req.CustomerLabel)))
	if label == "" {
		label = domain.LabelInquiry
	}
	res := h.tables.Checker.Check(compliance.Input{
		AgentText:     req.AgentText,
		Emotion:       strings.ToUpper(strings.TrimSpace(req.Emotion)),
		CustomerLabel: label,
		IsStart:       req.IsStart,
		IsEnd:         req.IsEnd,
	})
	c.JSON(http.StatusOK, ComplianceCheckResponse{Result: res, Details: res.Details()})
}

// CheckProfanity handles POST /api/v1/profanity/check
func (h *Handler) CheckProfanity(c *gin.Context) {
	var req ProfanityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ProfanityCheckResponse{
		Result:    h.tables.Detector.Detect(req.Text),
		HateTerms: h.tables.Lexicons.FindHate(req.Text),
	})
}

// ListAlerts handles GET /api/v1/alerts
func (h *Handler) ListAlerts(c *gin.Context) {
	limit := queryInt(c, "limit", 0)
	alerts := []domain.FilteringEvent{}
	if h.alerts != nil {
		alerts = append(alerts, h.alerts.Recent(limit)...)
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}

// ListSessions handles GET /api/v1/sessions
func (h *Handler) ListSessions(c *gin.Context) {
	if !h.historyEnabled(c) {
		return
	}
	limit := min(queryInt(c, "limit", defaultListLimit), maxListLimit)
	sessions, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("Failed to list sessions", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// GetSessionTurns handles GET /api/v1/sessions/:id/turns
func (h *Handler) GetSessionTurns(c *gin.Context) {
	if !h.historyEnabled(c) {
		return
	}
	sessionID := c.Param("id")
	docs, err := h.history.Turns(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Error("Failed to load session turns", logger.String("session_id", sessionID), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session turns"})
		return
	}
	if len(docs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "turns": docs, "total": len(docs)})
}

// ListHighRiskTurns handles GET /api/v1/sessions/high-risk
func (h *Handler) ListHighRiskTurns(c *gin.Context) {
	if !h.historyEnabled(c) {
		return
	}
	threshold := defaultRiskThreshold
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number in [0, 1]"})
			return
		}
		threshold = v
	}
	limit := min(queryInt(c, "limit", defaultListLimit), maxListLimit)

	docs, err := h.history.HighRisk(c.Request.Context(), threshold, limit)
	if err != nil {
		h.log.Error("Failed to list high risk turns", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list high risk turns"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"turns": docs, "total": len(docs), "threshold": threshold})
}

func (h *Handler) historyEnabled(c *gin.Context) bool {
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "session history storage is not configured"})
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}
