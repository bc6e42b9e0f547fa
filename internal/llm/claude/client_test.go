package claude

import (
	"errors"
	"strings"
	"testing"

	"github.com/linnemanlabs/acuity/internal/triage"
)

func TestBuildPrompt_SymptomsOnly(t *testing.T) {
	t.Parallel()

	p := buildPrompt("dolor de cabeza intenso", nil, nil)

	if !strings.Contains(p, "dolor de cabeza intenso") {
		t.Error("prompt missing symptoms text")
	}
	if strings.Contains(p, "Signos vitales") {
		t.Error("prompt mentions vitals without any measurement")
	}
	if strings.Contains(p, "Glasgow") {
		t.Error("prompt mentions Glasgow without a score")
	}
	for _, key := range []string{`"nivel"`, `"diagnostico_presuntivo"`, `"justificacion"`, `"recomendacion_inmediata"`} {
		if !strings.Contains(p, key) {
			t.Errorf("prompt missing output key %s", key)
		}
	}
}

func TestBuildPrompt_Vitals(t *testing.T) {
	t.Parallel()

	spo2 := 91.0
	temp := 39.5
	p := buildPrompt("fiebre", &triage.VitalSigns{OxygenSaturation: &spo2, Temperature: &temp}, nil)

	if !strings.Contains(p, "Signos vitales") {
		t.Error("prompt missing vitals section")
	}
	if !strings.Contains(p, "saturacionOxigeno") || !strings.Contains(p, "91") {
		t.Error("prompt missing oxygen saturation value")
	}
	if !strings.Contains(p, "temperatura") || !strings.Contains(p, "39.5") {
		t.Error("prompt missing temperature value")
	}
	if strings.Contains(p, "frecuenciaCardiaca") {
		t.Error("prompt includes an unmeasured vital")
	}
}

func TestBuildPrompt_GlasgowPriorityInstruction(t *testing.T) {
	t.Parallel()

	low := buildPrompt("caída", nil, &triage.GlasgowScore{Eye: 1, Verbal: 2, Motor: 3, Total: 6})
	if !strings.Contains(low, "puntaje total 6") {
		t.Error("prompt missing Glasgow total")
	}
	if !strings.Contains(low, "PRIORIDAD ABSOLUTA") {
		t.Error("prompt missing absolute-priority instruction for Glasgow <= 8")
	}

	high := buildPrompt("caída", nil, &triage.GlasgowScore{Eye: 4, Verbal: 5, Motor: 6, Total: 15})
	if !strings.Contains(high, "puntaje total 15") {
		t.Error("prompt missing Glasgow total")
	}
	if strings.Contains(high, "PRIORIDAD ABSOLUTA") {
		t.Error("absolute-priority instruction present for a normal Glasgow")
	}
}

func TestParseClassification_WellFormed(t *testing.T) {
	t.Parallel()

	rc, err := parseClassification(`{
		"nivel": 4,
		"diagnostico_presuntivo": "neumonía",
		"justificacion": "saturación baja con fiebre",
		"recomendacion_inmediata": "Acuda a urgencias de inmediato"
	}`)
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if rc.Level != triage.LevelEmergency {
		t.Errorf("Level = %d, want %d", rc.Level, triage.LevelEmergency)
	}
	if rc.PresumptiveDiagnosis != "neumonía" {
		t.Errorf("PresumptiveDiagnosis = %q", rc.PresumptiveDiagnosis)
	}
	if rc.Justification != "saturación baja con fiebre" {
		t.Errorf("Justification = %q", rc.Justification)
	}
	if rc.ImmediateRecommendation != "Acuda a urgencias de inmediato" {
		t.Errorf("ImmediateRecommendation = %q", rc.ImmediateRecommendation)
	}
}

func TestParseClassification_FencedAndProse(t *testing.T) {
	t.Parallel()

	raw := "Claro, aquí está la clasificación:\n```json\n" +
		`{"nivel": "2", "diagnostico_presuntivo": "cefalea tensional", "justificacion": "sin signos de alarma", "recomendacion_inmediata": "Analgesia y reposo"}` +
		"\n```\nEspero que sea útil."
	rc, err := parseClassification(raw)
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if rc.Level != triage.LevelPriority {
		t.Errorf("Level = %d, want %d (numeric string)", rc.Level, triage.LevelPriority)
	}
	if rc.PresumptiveDiagnosis != "cefalea tensional" {
		t.Errorf("PresumptiveDiagnosis = %q", rc.PresumptiveDiagnosis)
	}
}

func TestParseClassification_PartialDefaulted(t *testing.T) {
	t.Parallel()

	rc, err := parseClassification(`{"nivel": 5}`)
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	want := triage.ContentFor(triage.LevelResuscitation)
	if rc.PresumptiveDiagnosis != want.Diagnosis {
		t.Errorf("PresumptiveDiagnosis = %q, want catalog default", rc.PresumptiveDiagnosis)
	}
	if rc.Justification != want.Justification {
		t.Errorf("Justification = %q, want catalog default", rc.Justification)
	}
	if rc.ImmediateRecommendation != want.Recommendation {
		t.Errorf("ImmediateRecommendation = %q, want catalog default", rc.ImmediateRecommendation)
	}
}

func TestParseClassification_LevelClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want triage.Level
	}{
		{`{"nivel": 0}`, triage.LevelNonUrgent},
		{`{"nivel": -2}`, triage.LevelNonUrgent},
		{`{"nivel": 9}`, triage.LevelResuscitation},
		{`{"nivel": 3.0}`, triage.LevelUrgent},
		{`{"nivel": "7"}`, triage.LevelResuscitation},
		{`{"nivel": "abc"}`, triage.LevelUrgent},
		{`{"nivel": null}`, triage.LevelUrgent},
		{`{}`, triage.LevelUrgent},
	}
	for _, tt := range tests {
		rc, err := parseClassification(tt.raw)
		if err != nil {
			t.Fatalf("parseClassification(%s): %v", tt.raw, err)
		}
		if rc.Level != tt.want {
			t.Errorf("parseClassification(%s).Level = %d, want %d", tt.raw, rc.Level, tt.want)
		}
	}
}

func TestParseClassification_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"lo siento, no puedo clasificar este caso",
		"nivel: 4",
		`{"nivel": 4`,
		`{"nivel": four}`,
	} {
		_, err := parseClassification(raw)
		if !errors.Is(err, triage.ErrRemoteMalformed) {
			t.Errorf("parseClassification(%q) err = %v, want ErrRemoteMalformed", raw, err)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"surrounding prose", `prefix {"a":1} suffix`, `{"a":1}`},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"no object", "plain text", ""},
		{"only open brace", "{oops", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tt.raw); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
