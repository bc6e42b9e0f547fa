package triage

import (
	"errors"
	"fmt"
)

// levelNames is the fixed 5-entry clinical scale, index 0 = level 1.
var levelNames = [5]string{
	"No urgente",
	"Prioritario",
	"Urgencia",
	"Emergencia",
	"Resucitación (Inmediato)",
}

// ErrUnknownLevelName marks a level name outside the fixed clinical scale.
// This is a configuration bug, not an environmental condition; callers
// should fail loudly rather than substitute a default.
var ErrUnknownLevelName = errors.New("unknown triage level name")

// NameFor returns the clinical name for a severity level. The level is
// clamped first, so the mapping is total.
func NameFor(l Level) string {
	return levelNames[l.Clamp()-1]
}

// LevelFor returns the severity level for a clinical name. Unknown names are
// an error; the mapping over the defined scale is a bijection with NameFor.
func LevelFor(name string) (Level, error) {
	for i, n := range levelNames {
		if n == name {
			return Level(i + 1), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevelName, name)
}
