// Package mltransport provides the shared HTTP transport for model sidecars.
package mltransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout  = 5 * time.Second
	maxResponseSize = 1 << 20
)

// Sidecar paths.
const (
	PathClassify = "/classify"
	PathEmotion  = "/emotion"
	PathHealth   = "/health"
)

var httpClient = &http.Client{Timeout: defaultTimeout}

// ClassifyRequest is the request body for POST /classify and POST /emotion.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// healthResponse is the JSON shape returned by GET /health (model_version optional).
type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// DoClassify sends POST /classify to baseURL, decoding the response into respPtr.
// It returns the call latency and response size even on error.
func DoClassify(ctx context.Context, baseURL string, req *ClassifyRequest, respPtr any) (latencyMs int64, responseSizeBytes int, err error) {
	return DoPost(ctx, baseURL+PathClassify, req, respPtr)
}

// DoPost sends body as JSON to url and decodes a 200 response into respPtr.
func DoPost(ctx context.Context, url string, body, respPtr any) (latencyMs int64, responseSizeBytes int, err error) {
	start := time.Now()
	defer func() { latencyMs = time.Since(start).Milliseconds() }()

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return 0, 0, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, 0, fmt.Errorf("read response: %w", err)
	}
	responseSizeBytes = len(data)

	if resp.StatusCode != http.StatusOK {
		return 0, responseSizeBytes, fmt.Errorf("ml service returned %d", resp.StatusCode)
	}

	if decodeErr := json.Unmarshal(data, respPtr); decodeErr != nil {
		return 0, responseSizeBytes, fmt.Errorf("decode response: %w", decodeErr)
	}

	return 0, responseSizeBytes, nil
}

// DoHealth calls GET /health at baseURL and returns reachable, latencyMs, model_version, and any error.
func DoHealth(ctx context.Context, baseURL string) (reachable bool, latencyMs int64, modelVersion string, err error) {
	start := time.Now()

	httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+PathHealth, http.NoBody)
	if reqErr != nil {
		return false, 0, "", fmt.Errorf("create request: %w", reqErr)
	}

	resp, doErr := httpClient.Do(httpReq)
	latencyMs = time.Since(start).Milliseconds()
	if doErr != nil {
		return false, latencyMs, "", fmt.Errorf("service unreachable: %w", doErr)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, latencyMs, "", fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}

	reachable = true
	var healthResp healthResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&healthResp); decodeErr == nil {
		modelVersion = healthResp.ModelVersion
	}
	return reachable, latencyMs, modelVersion, nil
}
