package triage

import (
	"regexp"
	"strings"
)

// Symptom text patterns, most severe tier first. Matching is case
// insensitive and first-match-wins across tiers.
var (
	lifeThreatRe = regexp.MustCompile(`(?i)dolor (de )?(pecho|torácico|pec\b)|no (puedo )?respir|desmayo|convulsión|hemorragia|accidente|caída fuerte|inconsciente`)
	severeRe     = regexp.MustCompile(`(?i)fiebre alta|dificultad para respirar|vómito persistente|dolor fuerte|sangre`)
	moderateRe   = regexp.MustCompile(`(?i)fiebre|dolor|mareo|tos`)
	mildRe       = regexp.MustCompile(`(?i)molestia|leve|pequeño`)
)

// shortTextLen is the threshold below which trimmed symptom text is treated
// as near-empty input.
const shortTextLen = 5

// EstimateLevel assigns a severity level from free-text symptoms and
// optional vital signs. It is deterministic and has no external state.
//
// The evaluation starts at level 2, raises from vitals, then evaluates the
// text tiers in priority order. A tier match can raise the vitals-derived
// level but never lower it, except the mild tier which caps the result at 2.
func EstimateLevel(symptoms string, vitals *VitalSigns) Level {
	level := LevelPriority

	if vitals != nil {
		switch {
		case vitals.OxygenSaturation != nil && *vitals.OxygenSaturation < 92,
			vitals.HeartRate != nil && *vitals.HeartRate > 120,
			vitals.HeartRate != nil && *vitals.HeartRate < 50:
			level = LevelEmergency
		case vitals.Temperature != nil && *vitals.Temperature >= 39,
			vitals.RespiratoryRate != nil && *vitals.RespiratoryRate > 24:
			level = LevelUrgent
		}
	}

	switch {
	case lifeThreatRe.MatchString(symptoms):
		level = max(level, LevelResuscitation)
	case severeRe.MatchString(symptoms):
		level = max(level, LevelEmergency)
	case moderateRe.MatchString(symptoms):
		level = max(level, LevelUrgent)
	case mildRe.MatchString(symptoms):
		level = min(level, LevelPriority)
	case len(strings.TrimSpace(symptoms)) < shortTextLen:
		level = LevelNonUrgent
	}

	return level.Clamp()
}
