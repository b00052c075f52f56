// Package verify wraps the external image-verification engine. The engine is
// a black box: it scores a set of kiosk captures against the owner's
// reference images and returns a decision. Any transport problem surfaces as
// a typed transient error so callers can degrade instead of failing the
// physical return.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/logger"
)

// MethodScores carries the engine's per-method sub-scores.
type MethodScores struct {
	TraditionalBest  float64 `json:"traditional_best"`
	TraditionalAvg   float64 `json:"traditional_avg"`
	SiftBest         float64 `json:"sift_best"`
	DeepLearningBest float64 `json:"deep_learning_best"`
}

// OCRResult reports whether serial numbers matched across image sets.
type OCRResult struct {
	Match   bool                   `json:"match"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Result is the engine's verdict for one verification attempt.
type Result struct {
	Verified      bool         `json:"verified"`
	Decision      string       `json:"decision"`
	Message       string       `json:"message"`
	Confidence    float64      `json:"confidence"`
	AttemptNumber int          `json:"attempt_number"`
	MethodScores  MethodScores `json:"method_scores"`
	OCR           OCRResult    `json:"ocr"`
}

// Engine is the verification engine consumed by the coordinator.
type Engine interface {
	Verify(ctx context.Context, originalImages, kioskImages []string, attemptNumber int) (*Result, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds an engine client. The timeout bounds the whole call; a
// timeout is treated identically to an engine error by callers.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Verify submits both image sets and the attempt counter to the engine.
func (c *Client) Verify(ctx context.Context, originalImages, kioskImages []string, attemptNumber int) (*Result, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)
	for _, img := range originalImages {
		if err := writer.WriteField("original_images", img); err != nil {
			return nil, domain.Transient("verification request encoding failed", err)
		}
	}
	for _, img := range kioskImages {
		if err := writer.WriteField("kiosk_images", img); err != nil {
			return nil, domain.Transient("verification request encoding failed", err)
		}
	}
	if err := writer.WriteField("attempt_number", strconv.Itoa(attemptNumber)); err != nil {
		return nil, domain.Transient("verification request encoding failed", err)
	}
	if err := writer.Close(); err != nil {
		return nil, domain.Transient("verification request encoding failed", err)
	}

	url := c.baseURL + "/api/v1/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return nil, domain.Transient("verification request build failed", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	logger.ExternalServiceCall("verification-engine", "verify",
		"original_count", len(originalImages), "kiosk_count", len(kioskImages), "attempt", attemptNumber)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.ExternalServiceResult("verification-engine", "verify", err)
		return nil, domain.Transient("verification engine unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("engine returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("verification-engine", "verify", err)
		return nil, domain.Transient("verification engine error", err)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.ExternalServiceResult("verification-engine", "verify", err)
		return nil, domain.Transient("verification response decoding failed", err)
	}

	logger.ExternalServiceResult("verification-engine", "verify", nil,
		"decision", result.Decision, "confidence", result.Confidence)
	return &result, nil
}
