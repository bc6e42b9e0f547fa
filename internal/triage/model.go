package triage

import "time"

// Level is a clinical severity level on the 5-point triage scale.
// 1 is the least urgent, 5 the most urgent (resuscitation/immediate).
type Level int

const (
	LevelNonUrgent     Level = 1
	LevelPriority      Level = 2
	LevelUrgent        Level = 3
	LevelEmergency     Level = 4
	LevelResuscitation Level = 5
)

// Clamp forces the level into the valid [1,5] range.
func (l Level) Clamp() Level {
	if l < LevelNonUrgent {
		return LevelNonUrgent
	}
	if l > LevelResuscitation {
		return LevelResuscitation
	}
	return l
}

// Valid reports whether the level is inside the 5-point scale.
func (l Level) Valid() bool {
	return l >= LevelNonUrgent && l <= LevelResuscitation
}

// VitalSigns are the optional measurements taken at intake. Nil fields mean
// "not measured", never "normal". JSON keys match the intake wire contract.
type VitalSigns struct {
	BloodPressure    *string  `json:"tensionArterial,omitempty"`
	HeartRate        *float64 `json:"frecuenciaCardiaca,omitempty"`
	Temperature      *float64 `json:"temperatura,omitempty"`
	OxygenSaturation *float64 `json:"saturacionOxigeno,omitempty"`
	RespiratoryRate  *float64 `json:"frecuenciaRespiratoria,omitempty"`
}

// Empty reports whether no vital sign was measured.
func (v *VitalSigns) Empty() bool {
	if v == nil {
		return true
	}
	return v.BloodPressure == nil && v.HeartRate == nil && v.Temperature == nil &&
		v.OxygenSaturation == nil && v.RespiratoryRate == nil
}

// GlasgowScore is the three-part consciousness assessment. Total is trusted
// as supplied by the caller and is not recomputed from the sub-scores.
type GlasgowScore struct {
	Eye    int `json:"E"`
	Verbal int `json:"V"`
	Motor  int `json:"M"`
	Total  int `json:"puntaje_glasgow"`
}

// Input is the pre-validated material the Engine classifies. The HTTP layer
// owns validation; the engine assumes Symptoms is non-empty.
type Input struct {
	Symptoms string
	Vitals   *VitalSigns
	Glasgow  *GlasgowScore
}

// Outcome is the terminal path a classification took through the Engine.
type Outcome string

const (
	// OutcomeRemote means the remote classifier answered in time.
	OutcomeRemote Outcome = "remote"

	// OutcomeFallback means the remote classifier was configured but failed
	// or timed out, and the local heuristic substituted.
	OutcomeFallback Outcome = "fallback"

	// OutcomeLocal means no remote classifier is configured.
	OutcomeLocal Outcome = "local"
)

// Classification is the decorated result of one triage evaluation.
// It is constructed once by the Engine and immutable afterwards.
type Classification struct {
	Level                   Level    `json:"nivel_gravedad"`
	Name                    string   `json:"nivel"`
	TechnicalExplanation    string   `json:"explicacion_tecnica"`
	Steps                   []string `json:"pasos_a_seguir"`
	PresumptiveDiagnosis    string   `json:"diagnostico_presuntivo,omitempty"`
	Justification           string   `json:"justificacion,omitempty"`
	ImmediateRecommendation string   `json:"recomendacion_inmediata"`

	// Fallback is true only when a configured remote classifier failed.
	// A deliberately unconfigured remote is not a fallback.
	Fallback bool    `json:"fallback,omitempty"`
	Outcome  Outcome `json:"-"`
}

// Record is one stored triage encounter: the classification plus the echo of
// the ancillary clinical intake fields. JSON keys preserve the wire contract
// consumed by the existing intake clients.
type Record struct {
	ID          string `json:"id"`
	PatientID   string `json:"paciente_id"`
	PatientName string `json:"nombre_paciente,omitempty"`
	DNI         string `json:"dni,omitempty"`

	Symptoms       string     `json:"sintomas_texto"`
	Level          Level      `json:"nivel_gravedad"`
	LevelName      string     `json:"nivel"`
	Recommendation string     `json:"recomendacion"`
	Vitals         VitalSigns `json:"signos_vitales"`
	Date           time.Time  `json:"fecha"`

	TechnicalExplanation    string   `json:"explicacion_tecnica,omitempty"`
	Steps                   []string `json:"pasos_a_seguir,omitempty"`
	PresumptiveDiagnosis    string   `json:"diagnostico_presuntivo,omitempty"`
	Justification           string   `json:"justificacion,omitempty"`
	ImmediateRecommendation string   `json:"recomendacion_inmediata,omitempty"`
	FallbackNotice          string   `json:"mensaje_fallback,omitempty"`
	AlertColor              string   `json:"color_alerta"`

	Glasgow       *GlasgowScore `json:"glasgow,omitempty"`
	CareStartedAt string        `json:"hora_inicio_atencion,omitempty"`
	BloodLoss     string        `json:"blood_loss,omitempty"`
	AirwayStatus  string        `json:"airway_status,omitempty"`
	RespirationRate *int        `json:"respiration_rate,omitempty"`
	Pulse           *int        `json:"pulse,omitempty"`
	BPSystolic      *int        `json:"bp_systolic,omitempty"`
	BPDiastolic     *int        `json:"bp_diastolic,omitempty"`
	GlasgowTotal    *int        `json:"glasgow_score,omitempty"`
}

// alertColors maps severity levels to dashboard alert colours.
var alertColors = [5]string{"green", "yellow", "orange", "red", "darkred"}

// AlertColorFor returns the dashboard colour for a severity level.
func AlertColorFor(l Level) string {
	return alertColors[l.Clamp()-1]
}
