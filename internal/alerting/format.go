package alerting

import (
	"encoding/json"
	"fmt"

	"github.com/evalsec/agentgate/internal/model"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format, evaluationID string, alert Alert) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(evaluationID, alert)
	case "pagerduty":
		return formatPagerDuty(evaluationID, alert)
	default:
		return formatGeneric(evaluationID, alert)
	}
}

func formatGeneric(evaluationID string, alert Alert) ([]byte, error) {
	return json.Marshal(map[string]any{
		"evaluation_id": evaluationID,
		"rule":          alert.Rule,
		"severity":      alert.Severity,
		"message":       alert.Message,
	})
}

func formatSlack(evaluationID string, alert Alert) ([]byte, error) {
	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("agentgate: %s", alert.Rule),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Severity:* %s", alert.Severity)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Evaluation:* %s", evaluationID)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Message:* %s", alert.Message)},
				},
			},
		},
	}
	return json.Marshal(payload)
}

func formatPagerDuty(evaluationID string, alert Alert) ([]byte, error) {
	severity := "info"
	switch alert.Severity {
	case model.SeverityCritical:
		severity = "critical"
	case model.SeverityWarn:
		severity = "warning"
	}

	payload := map[string]any{
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("agentgate %s: %s", alert.Rule, alert.Message),
			"severity": severity,
			"source":   "agentgate",
			"custom_details": map[string]any{
				"rule":          alert.Rule,
				"evaluation_id": evaluationID,
			},
		},
	}
	return json.Marshal(payload)
}
