package triage

import "testing"

func f(v float64) *float64 { return &v }

func TestEstimateLevel_DefaultLevel(t *testing.T) {
	t.Parallel()

	got := EstimateLevel("me encuentro raro desde ayer", nil)
	if got != LevelPriority {
		t.Errorf("level = %d, want %d", got, LevelPriority)
	}
}

func TestEstimateLevel_VitalsRaises(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		vitals VitalSigns
		want   Level
	}{
		{"low oxygen saturation", VitalSigns{OxygenSaturation: f(91)}, LevelEmergency},
		{"tachycardia", VitalSigns{HeartRate: f(130)}, LevelEmergency},
		{"bradycardia", VitalSigns{HeartRate: f(45)}, LevelEmergency},
		{"high fever", VitalSigns{Temperature: f(39.2)}, LevelUrgent},
		{"tachypnea", VitalSigns{RespiratoryRate: f(28)}, LevelUrgent},
		{"normal vitals", VitalSigns{Temperature: f(36.8), HeartRate: f(70)}, LevelPriority},
		{"boundary saturation 92", VitalSigns{OxygenSaturation: f(92)}, LevelPriority},
		{"boundary heart rate 120", VitalSigns{HeartRate: f(120)}, LevelPriority},
		{"boundary temperature 39", VitalSigns{Temperature: f(39)}, LevelUrgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EstimateLevel("me encuentro raro desde ayer", &tt.vitals)
			if got != tt.want {
				t.Errorf("level = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateLevel_TextTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		symptoms string
		want     Level
	}{
		{"chest pain", "dolor pecho desde hace una hora", LevelResuscitation},
		{"chest pain variant", "dolor de pec, no puedo respirar", LevelResuscitation},
		{"cannot breathe", "no respiro bien", LevelResuscitation},
		{"unconscious", "paciente inconsciente tras caída fuerte", LevelResuscitation},
		{"seizure", "convulsión presenciada por la familia", LevelResuscitation},
		{"high fever text", "fiebre alta que no baja", LevelEmergency},
		{"breathing difficulty", "dificultad para respirar al caminar", LevelEmergency},
		{"visible blood", "expectoración con sangre", LevelEmergency},
		{"fever", "fiebre desde anoche", LevelUrgent},
		{"cough", "tos seca persistente", LevelUrgent},
		{"dizziness", "mareo al levantarse", LevelUrgent},
		{"mild discomfort", "molestia leve en la garganta", LevelPriority},
		{"near-empty text", "mal", LevelNonUrgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EstimateLevel(tt.symptoms, nil)
			if got != tt.want {
				t.Errorf("EstimateLevel(%q) = %d, want %d", tt.symptoms, got, tt.want)
			}
		})
	}
}

// Vitals raise to 4, moderate text can only raise, not lower: the result
// stays at 4.
func TestEstimateLevel_VitalsDominateModerateText(t *testing.T) {
	t.Parallel()

	got := EstimateLevel("tos", &VitalSigns{OxygenSaturation: f(88)})
	if got != LevelEmergency {
		t.Errorf("level = %d, want %d", got, LevelEmergency)
	}
}

// A mild tag caps the level at 2, lowering a vitals-derived 3 but never
// going below 2.
func TestEstimateLevel_MildCapLowersVitalsLevel(t *testing.T) {
	t.Parallel()

	got := EstimateLevel("molestia leve", &VitalSigns{Temperature: f(39.5)})
	if got != LevelPriority {
		t.Errorf("level = %d, want %d", got, LevelPriority)
	}
}

// The mild branch only fires when no higher tier matched first: severe text
// with the word "leve" present still classifies on the severe tier.
func TestEstimateLevel_FirstMatchWins(t *testing.T) {
	t.Parallel()

	got := EstimateLevel("dolor fuerte aunque antes era leve", nil)
	if got != LevelEmergency {
		t.Errorf("level = %d, want %d", got, LevelEmergency)
	}
}

func TestEstimateLevel_MildTextWithNormalVitals(t *testing.T) {
	t.Parallel()

	got := EstimateLevel("molestia leve en la garganta", &VitalSigns{Temperature: f(36.8)})
	if got > LevelPriority {
		t.Errorf("level = %d, want <= %d", got, LevelPriority)
	}
}

func TestEstimateLevel_AlwaysInRange(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "x", "dolor pecho hemorragia inconsciente", "fiebre alta con sangre",
		"molestia leve", "tos y mareo", "síntomas inespecíficos desde hace días",
	}
	vitals := []*VitalSigns{
		nil,
		{},
		{OxygenSaturation: f(70), HeartRate: f(180), Temperature: f(41), RespiratoryRate: f(40)},
		{HeartRate: f(30)},
		{Temperature: f(36.5)},
	}

	for _, s := range inputs {
		for _, v := range vitals {
			got := EstimateLevel(s, v)
			if !got.Valid() {
				t.Errorf("EstimateLevel(%q, %+v) = %d, out of range", s, v, got)
			}
		}
	}
}

func TestEstimateLevel_Deterministic(t *testing.T) {
	t.Parallel()

	v := &VitalSigns{OxygenSaturation: f(88), Temperature: f(39.5)}
	first := EstimateLevel("tos con fiebre", v)
	for range 10 {
		if got := EstimateLevel("tos con fiebre", v); got != first {
			t.Fatalf("level = %d, want stable %d", got, first)
		}
	}
}
