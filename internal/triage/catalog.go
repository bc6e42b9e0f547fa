package triage

// recommendations is the canned disposition per severity level.
var recommendations = [5]string{
	"Valoración en atención primaria o consulta programada. Mantener hidratación y reposo si procede.",
	"Valoración en urgencias de baja prioridad o en centro de salud en las próximas horas.",
	"Valoración en urgencias en un plazo corto. Vigilar evolución de los síntomas.",
	"Valoración urgente. Acudir a urgencias o llamar a emergencias según disponibilidad.",
	"Atención inmediata. Llamar a emergencias (112) o acudir al servicio de urgencias sin demora.",
}

// explanations is the canned technical explanation per severity level.
var explanations = [5]string{
	"Criterios clínicos y signos vitales dentro de rango. Sin datos de alarma.",
	"Situación estable con posible deterioro. Requiere valoración en plazo corto.",
	"Datos que sugieren afectación moderada. Valoración en urgencias en tiempo razonable.",
	"Datos de alarma o inestabilidad. Prioridad alta para valoración urgente.",
	"Riesgo vital o secuela grave. Atención inmediata y reanimación si precisan.",
}

// diagnoses is the canned presumptive diagnosis per severity level, used
// when no remote classifier supplied one.
var diagnoses = [5]string{
	"Posible cuadro leve o crónico; sin datos de alarma.",
	"Posible deterioro leve o condición que requiere seguimiento.",
	"Posible cuadro infeccioso o inflamatorio moderado; valoración recomendada.",
	"Posible reacción alérgica aguda, descompensación o cuadro grave; requiere valoración urgente.",
	"Posible trauma grave, reanimación o emergencia vital; atención inmediata.",
}

// followUpSteps are the canned next steps per severity level, appended
// after the disposition recommendation.
var followUpSteps = [5][]string{
	{"Registrar en lista de espera.", "Indicar medidas generales si aplica.", "Informar signos de alarma."},
	{"Valoración en urgencias de baja prioridad o centro de salud.", "Vigilar evolución.", "Repetir triaje si empeoran."},
	{"Derivar a urgencias en plazo corto.", "Monitorizar signos vitales.", "No retrasar si aparecen nuevos síntomas."},
	{"Acelerar valoración en urgencias.", "Disponer monitorización y vía.", "Considerar aviso a reanimación."},
	{"Activar protocolo de reanimación.", "Atención en box de reanimación.", "No demorar medidas de soporte vital."},
}

// RecommendationFor returns the canned disposition text for a level.
// Total over the 5-point scale.
func RecommendationFor(l Level) string {
	return recommendations[l.Clamp()-1]
}

// Content is the canned decoration for a severity level, used both for
// the local path and to default missing fields of a remote result.
type Content struct {
	Explanation    string
	Steps          []string
	Diagnosis      string
	Justification  string
	Recommendation string
}

// ContentFor builds the full canned decoration for a level. Steps lead with
// the disposition recommendation followed by the per-level follow-ups.
func ContentFor(l Level) Content {
	l = l.Clamp()
	rec := RecommendationFor(l)
	steps := make([]string, 0, len(followUpSteps[l-1])+1)
	steps = append(steps, rec)
	steps = append(steps, followUpSteps[l-1]...)
	return Content{
		Explanation:    explanations[l-1],
		Steps:          steps,
		Diagnosis:      diagnoses[l-1],
		Justification:  explanations[l-1],
		Recommendation: rec,
	}
}
