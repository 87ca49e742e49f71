package telemetry_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/telemetry"
)

// providerOnce ensures we only create one Provider per test run to avoid
// duplicate Prometheus metric registration errors from promauto's global registry
var (
	testProvider *telemetry.Provider
	providerOnce sync.Once
)

func getTestProvider(t *testing.T) *telemetry.Provider {
	t.Helper()
	providerOnce.Do(func() {
		testProvider = telemetry.NewProvider()
	})
	return testProvider
}

func TestNewProvider(t *testing.T) {
	provider := getTestProvider(t)
	if provider.Tracer == nil {
		t.Error("expected non-nil tracer")
	}
	if provider.Metrics == nil {
		t.Error("expected non-nil metrics")
	}
}

func TestRecordSession(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	before := testutil.ToFloat64(provider.Metrics.SessionsProcessed.WithLabelValues("partial"))
	provider.RecordSession(ctx, 2, 15*time.Millisecond)
	provider.RecordSession(ctx, 0, 5*time.Millisecond)
	after := testutil.ToFloat64(provider.Metrics.SessionsProcessed.WithLabelValues("partial"))

	if after-before != 1 {
		t.Errorf("expected one partial session, got %v", after-before)
	}
}

func TestRecordTurn_CountsSpecialLabels(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	counter := provider.Metrics.SpecialLabels.WithLabelValues(string(domain.LabelProfanity))
	normal := provider.Metrics.SpecialLabels.WithLabelValues(string(domain.LabelInquiry))
	before := testutil.ToFloat64(counter)
	normalBefore := testutil.ToFloat64(normal)
	provider.RecordTurn(ctx, domain.LabelTypeSpecial, domain.LabelProfanity, 0.9)
	provider.RecordTurn(ctx, domain.LabelTypeNormal, domain.LabelInquiry, 0.1)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("expected 1 special label increment, got %v", got)
	}
	if got := testutil.ToFloat64(normal) - normalBefore; got != 0 {
		t.Errorf("expected normal labels not counted as special, got %v", got)
	}
}

func TestRecordModelCall(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	errCounter := provider.Metrics.ModelCalls.WithLabelValues("error")
	before := testutil.ToFloat64(errCounter)
	provider.RecordModelCall(ctx, 20*time.Millisecond, errors.New("timeout"))
	provider.RecordModelCall(ctx, 10*time.Millisecond, nil)

	if got := testutil.ToFloat64(errCounter) - before; got != 1 {
		t.Errorf("expected 1 failed model call, got %v", got)
	}
}

func TestRecordAlertsAndFailures(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	// Should not panic
	provider.RecordAlert(ctx, "CRITICAL")
	provider.RecordNotifierFailure(ctx, "slack")
	provider.RecordStorageFailure(ctx, "elasticsearch")
	provider.RecordTurnFailure(ctx)
	provider.RecordSessionFailure(ctx)
	provider.RecordBatchSize(10)
	provider.SetActiveWorkers(4)
}

func TestStartSpan(t *testing.T) {
	provider := getTestProvider(t)

	ctx, span := provider.StartSpan(context.Background(), "test-span")
	defer span.End()

	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
}

func TestHandler(t *testing.T) {
	provider := getTestProvider(t)
	provider.RecordAlert(context.Background(), "HIGH")

	rec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "callguard_alerts_raised_total") {
		t.Error("expected callguard metrics in exposition")
	}
}
