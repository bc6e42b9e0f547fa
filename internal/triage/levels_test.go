package triage

import (
	"errors"
	"testing"
)

func TestNameFor_AllLevels(t *testing.T) {
	t.Parallel()

	want := map[Level]string{
		LevelNonUrgent:     "No urgente",
		LevelPriority:      "Prioritario",
		LevelUrgent:        "Urgencia",
		LevelEmergency:     "Emergencia",
		LevelResuscitation: "Resucitación (Inmediato)",
	}
	for level, name := range want {
		if got := NameFor(level); got != name {
			t.Errorf("NameFor(%d) = %q, want %q", level, got, name)
		}
	}
}

// NameFor and LevelFor are mutual inverses over the defined scale.
func TestLevelNameBijection(t *testing.T) {
	t.Parallel()

	for l := LevelNonUrgent; l <= LevelResuscitation; l++ {
		name := NameFor(l)
		back, err := LevelFor(name)
		if err != nil {
			t.Fatalf("LevelFor(%q): %v", name, err)
		}
		if back != l {
			t.Errorf("LevelFor(NameFor(%d)) = %d, want %d", l, back, l)
		}
	}
}

// An unrecognized name is a configuration bug and must fail loudly, not
// silently clamp to a default level.
func TestLevelFor_UnknownName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "Crítico", "no urgente", "Urgencia "} {
		_, err := LevelFor(name)
		if err == nil {
			t.Errorf("LevelFor(%q) = nil error, want ErrUnknownLevelName", name)
			continue
		}
		if !errors.Is(err, ErrUnknownLevelName) {
			t.Errorf("LevelFor(%q) error = %v, want ErrUnknownLevelName", name, err)
		}
	}
}

func TestLevelClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Level
		want Level
	}{
		{-3, LevelNonUrgent},
		{0, LevelNonUrgent},
		{1, LevelNonUrgent},
		{3, LevelUrgent},
		{5, LevelResuscitation},
		{9, LevelResuscitation},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp(); got != tt.want {
			t.Errorf("Level(%d).Clamp() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAlertColorFor(t *testing.T) {
	t.Parallel()

	want := map[Level]string{
		LevelNonUrgent:     "green",
		LevelPriority:      "yellow",
		LevelUrgent:        "orange",
		LevelEmergency:     "red",
		LevelResuscitation: "darkred",
	}
	for level, color := range want {
		if got := AlertColorFor(level); got != color {
			t.Errorf("AlertColorFor(%d) = %q, want %q", level, got, color)
		}
	}
}
