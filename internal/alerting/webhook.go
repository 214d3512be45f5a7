package alerting

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/evalsec/agentgate/internal/model"
)

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 3
)

var httpClient = &http.Client{Timeout: requestTimeout}

// WebhookConfig defines one alert delivery destination.
type WebhookConfig struct {
	URL        string            `yaml:"url"        json:"url"`
	Format     string            `yaml:"format"     json:"format"`     // "generic", "slack", "pagerduty"
	Severities []string          `yaml:"severities" json:"severities"` // e.g. ["critical", "warn"]
	Headers    map[string]string `yaml:"headers"    json:"headers"`
}

// Dispatcher fans out triggered alerts to matching webhook
// destinations.
type Dispatcher struct {
	configs []WebhookConfig
}

// NewDispatcher creates a Dispatcher from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewDispatcher(configs []WebhookConfig) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{configs: configs}
}

// Dispatch sends the alert to every webhook whose severity list
// matches. Fires goroutines — does not block the caller.
func (d *Dispatcher) Dispatch(evaluationID string, alert Alert) {
	for _, cfg := range d.configs {
		if matchesSeverity(cfg.Severities, alert.Severity) {
			go Send(cfg, evaluationID, alert)
		}
	}
}

func matchesSeverity(severities []string, sev model.Severity) bool {
	if len(severities) == 0 {
		return true
	}
	for _, s := range severities {
		if s == string(sev) {
			return true
		}
	}
	return false
}

// Send posts an alert to a webhook endpoint with retry on 5xx.
func Send(cfg WebhookConfig, evaluationID string, alert Alert) error {
	body, err := FormatPayload(cfg.Format, evaluationID, alert)
	if err != nil {
		return fmt.Errorf("alerting: format payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, cfg.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("alerting: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range cfg.Headers {
			req.Header.Set(k, v)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("alerting: webhook rejected: HTTP %d", resp.StatusCode)
		}
		// 5xx — retry
		lastErr = fmt.Errorf("webhook server error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("alerting: webhook failed after %d attempts: %w", maxRetries, lastErr)
}
