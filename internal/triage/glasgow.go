package triage

// Glasgow thresholds for the priority override. A total of 8 or below marks
// severe impairment; 5 or below forces the highest level.
const (
	glasgowSevereTotal   = 8
	glasgowCriticalTotal = 5
)

// OverrideFloor returns the minimum severity level mandated by the Glasgow
// score, and whether an override applies at all. The supplied total is
// trusted verbatim; sub-scores are not recomputed.
func OverrideFloor(g *GlasgowScore) (Level, bool) {
	if g == nil || g.Total > glasgowSevereTotal {
		return 0, false
	}
	if g.Total <= glasgowCriticalTotal {
		return LevelResuscitation, true
	}
	return LevelEmergency, true
}

// ApplyOverride raises the level to the Glasgow-mandated floor. It can only
// raise, never lower; without a score (or with total > 8) it is a no-op.
// The engine calls it both before consulting the remote classifier and
// after receiving a remote result.
func ApplyOverride(level Level, g *GlasgowScore) Level {
	floor, ok := OverrideFloor(g)
	if !ok {
		return level
	}
	return max(level, floor)
}
