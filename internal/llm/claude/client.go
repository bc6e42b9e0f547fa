// Package claude adapts the Anthropic messages API to the triage.Classifier
// contract: one prompt-in, structured-JSON-out exchange per classification.
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linnemanlabs/acuity/internal/triage"
)

const responseTokens = 500

// Client implements triage.Classifier against the Claude API.
type Client struct {
	client anthropic.Client
	model  string
}

// New creates a new Claude classifier with the given API key and model name.
func New(apiKey, model string) *Client {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Classify sends one classification prompt and parses the structured reply.
// The call is made exactly once; retries are the orchestrator's concern.
func (c *Client) Classify(ctx context.Context, symptoms string, vitals *triage.VitalSigns, glasgow *triage.GlasgowScore) (*triage.RemoteClassification, error) {
	prompt := buildPrompt(symptoms, vitals, glasgow)

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: responseTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", triage.ErrRemoteTimedOut, err)
		}
		return nil, fmt.Errorf("%w: %v", triage.ErrRemoteUnreachable, err)
	}

	var raw strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			raw.WriteString(block.Text)
		}
	}

	return parseClassification(raw.String())
}

// buildPrompt embeds symptoms, vitals, and Glasgow score into the
// classification prompt, with the output schema instruction. A Glasgow total
// of 8 or below carries an absolute-priority instruction.
func buildPrompt(symptoms string, vitals *triage.VitalSigns, glasgow *triage.GlasgowScore) string {
	var b strings.Builder

	b.WriteString("Eres un asistente de triaje médico. Clasifica el caso y devuelve un JSON con la siguiente estructura.\n\n")
	b.WriteString("Síntomas descritos: ")
	b.WriteString(symptoms)
	b.WriteString(".")

	if !vitals.Empty() {
		vs, _ := json.Marshal(vitals)
		b.WriteString(" Signos vitales: ")
		b.Write(vs)
		b.WriteString(".")
	}

	if glasgow != nil {
		fmt.Fprintf(&b,
			" Escala de Glasgow: puntaje total %d (E=%d, V=%d, M=%d)."+
				" IMPORTANTE: Si el puntaje de Glasgow es ≤ 8, DEBES asignar prioridad absoluta y clasificar como"+
				" \"Resucitación (Inmediato)\" o \"Emergencia\" sin excepción.",
			glasgow.Total, glasgow.Eye, glasgow.Verbal, glasgow.Motor,
		)
		if glasgow.Total <= 8 {
			b.WriteString(" PRIORIDAD ABSOLUTA: El paciente tiene Glasgow ≤ 8 (trauma grave). Clasifica como Resucitación (Inmediato) o Emergencia.")
		}
	}

	b.WriteString(`

Responde ÚNICAMENTE con un JSON válido con exactamente estas claves (en español):
- "nivel": número del 1 al 5, donde 1 = No urgente, 2 = Prioritario, 3 = Urgencia, 4 = Emergencia, 5 = Resucitación (Inmediato).
- "diagnostico_presuntivo": una breve hipótesis médica sobre qué condición podría estar causando los síntomas.
- "justificacion": 1 o 2 frases explicando por qué se eligió ese nivel y ese diagnóstico.
- "recomendacion_inmediata": qué debe hacer el paciente ahora mismo (una o dos frases concretas).`)

	return b.String()
}

// payload mirrors the expected reply. Nivel may arrive as a number or a
// numeric string, so it is parsed separately.
type payload struct {
	Nivel                  json.RawMessage `json:"nivel"`
	DiagnosticoPresuntivo  string          `json:"diagnostico_presuntivo"`
	Justificacion          string          `json:"justificacion"`
	RecomendacionInmediata string          `json:"recomendacion_inmediata"`
}

// parseClassification extracts the structured result from the model's text.
// Partial output is tolerated: an out-of-range level is clamped, missing
// text fields default from the recommendation catalog. Only a reply with no
// parseable JSON object at all is a hard error.
func parseClassification(raw string) (*triage.RemoteClassification, error) {
	body := extractJSON(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object in reply", triage.ErrRemoteMalformed)
	}

	var p payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", triage.ErrRemoteMalformed, err)
	}

	level := parseLevel(p.Nivel)
	content := triage.ContentFor(level)

	rc := &triage.RemoteClassification{
		Level:                   level,
		PresumptiveDiagnosis:    strings.TrimSpace(p.DiagnosticoPresuntivo),
		Justification:           strings.TrimSpace(p.Justificacion),
		ImmediateRecommendation: strings.TrimSpace(p.RecomendacionInmediata),
	}
	if rc.PresumptiveDiagnosis == "" {
		rc.PresumptiveDiagnosis = content.Diagnosis
	}
	if rc.Justification == "" {
		rc.Justification = content.Justification
	}
	if rc.ImmediateRecommendation == "" {
		rc.ImmediateRecommendation = content.Recommendation
	}
	return rc, nil
}

// parseLevel reads a numeric or numeric-string level, defaulting to 3 when
// absent or unreadable, clamped to the valid scale.
func parseLevel(raw json.RawMessage) triage.Level {
	if len(raw) == 0 {
		return triage.LevelUrgent
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return triage.Level(int(n)).Clamp()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return triage.Level(v).Clamp()
		}
	}

	return triage.LevelUrgent
}

// extractJSON returns the outermost {...} object in the text, tolerating
// markdown fences and surrounding prose.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
