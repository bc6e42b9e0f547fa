package triage

import (
	"context"
	"errors"
)

// Remote classifier failure taxonomy. All three are absorbed by the Engine's
// fallback path and never propagate past it.
var (
	// ErrRemoteUnreachable means the remote capability could not be reached
	// at the transport level.
	ErrRemoteUnreachable = errors.New("remote classifier unreachable")

	// ErrRemoteMalformed means the remote capability answered with no
	// parseable payload at all.
	ErrRemoteMalformed = errors.New("remote classifier returned malformed response")

	// ErrRemoteTimedOut means the remote call exceeded the caller-supplied
	// deadline.
	ErrRemoteTimedOut = errors.New("remote classifier timed out")
)

// RemoteClassification is a parsed remote result. The adapter clamps the
// level to [1,5] and defaults missing text fields from the catalog, so every
// field is usable as-is.
type RemoteClassification struct {
	Level                   Level
	PresumptiveDiagnosis    string
	Justification           string
	ImmediateRecommendation string
}

// Classifier is the remote classification capability: one prompt-in,
// structured-result-out exchange per call, no internal retries. Retries are
// the Engine's responsibility via the fallback path.
type Classifier interface {
	Classify(ctx context.Context, symptoms string, vitals *VitalSigns, glasgow *GlasgowScore) (*RemoteClassification, error)
}
