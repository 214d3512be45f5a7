package shield

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const classifierRetries = 2

// HTTPClassifier talks to a safety service over HTTP. The service runs
// a shield over the supplied messages and reports either no violation
// or a violation with a level and user message.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClassifier creates a classifier for the given base endpoint,
// e.g. "http://localhost:8321".
func NewHTTPClassifier(endpoint string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

type runShieldRequest struct {
	ShieldID string            `json:"shield_id"`
	Messages []classifyMessage `json:"messages"`
}

type classifyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runShieldResponse struct {
	Violation *struct {
		ViolationLevel string `json:"violation_level"`
		UserMessage    string `json:"user_message"`
	} `json:"violation"`
}

// Classify implements Classifier. Server errors are retried a bounded
// number of times; a 4xx or exhausted retries surface as an error,
// which the caller treats as a violation.
func (c *HTTPClassifier) Classify(ctx context.Context, shieldID, content string) (Result, error) {
	body, err := json.Marshal(runShieldRequest{
		ShieldID: shieldID,
		Messages: []classifyMessage{{Role: "user", Content: content}},
	})
	if err != nil {
		return Result{}, fmt.Errorf("shield: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= classifierRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.endpoint+"/v1/safety/run-shield", bytes.NewReader(body))
		if err != nil {
			return Result{}, fmt.Errorf("shield: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("safety service error: HTTP %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return Result{}, fmt.Errorf("shield: safety service rejected request: HTTP %d", resp.StatusCode)
		}

		var parsed runShieldResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return Result{}, fmt.Errorf("shield: parse response: %w", err)
		}

		if parsed.Violation == nil {
			return Result{Passed: true}, nil
		}
		return Result{
			Passed:         false,
			ViolationLevel: parsed.Violation.ViolationLevel,
			Message:        parsed.Violation.UserMessage,
		}, nil
	}

	return Result{}, fmt.Errorf("shield: safety service unreachable after %d attempts: %w",
		classifierRetries+1, lastErr)
}
