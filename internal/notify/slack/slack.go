// Package slack sends high-acuity triage notifications to Slack via
// incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linnemanlabs/acuity/internal/triage"
)

const httpTimeout = 10 * time.Second

// Notifier sends triage records to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Send posts a triage record to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Send(ctx context.Context, r *triage.Record) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(r)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(r *triage.Record) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(r),
			{"type": "divider"},
			fieldsBlock(r),
			{"type": "divider"},
			detailBlock(r),
			{"type": "divider"},
			contextBlock(r),
		},
	}
}

func headerBlock(r *triage.Record) map[string]any {
	text := fmt.Sprintf("%s High-acuity triage: %s", levelEmoji(r.Level), r.LevelName)

	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": text,
		},
	}
}

func fieldsBlock(r *triage.Record) map[string]any {
	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Patient:* %s", r.PatientName),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Level:* %d (%s)", int(r.Level), r.LevelName),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Colour:* %s", r.AlertColor),
		},
	}

	if r.GlasgowTotal != nil {
		fields = append(fields, map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Glasgow:* %d", *r.GlasgowTotal),
		})
	}
	if r.FallbackNotice != "" {
		fields = append(fields, map[string]any{
			"type": "mrkdwn",
			"text": "*Source:* local heuristic (fallback)",
		})
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func detailBlock(r *triage.Record) map[string]any {
	var parts []string
	if r.Symptoms != "" {
		parts = append(parts, fmt.Sprintf("*Symptoms*\n%s", r.Symptoms))
	}
	if r.PresumptiveDiagnosis != "" {
		parts = append(parts, fmt.Sprintf("*Presumptive diagnosis*\n%s", r.PresumptiveDiagnosis))
	}
	if r.ImmediateRecommendation != "" {
		parts = append(parts, fmt.Sprintf("*Recommendation*\n%s", r.ImmediateRecommendation))
	}
	text := strings.Join(parts, "\n\n")
	if text == "" {
		text = "_No detail available._"
	}

	return map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": text,
		},
	}
}

func contextBlock(r *triage.Record) map[string]any {
	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("acuity • triage %s • %s", r.ID, r.Date.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func levelEmoji(l triage.Level) string {
	switch {
	case l >= triage.LevelResuscitation:
		return "\U0001f534" // red circle
	case l >= triage.LevelEmergency:
		return "\U0001f7e0" // orange circle
	default:
		return "\U0001f7e1" // yellow circle
	}
}
