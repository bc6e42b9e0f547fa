package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

// DefaultRemoteTimeout bounds how long a classification waits on the remote
// classifier before the local heuristic substitutes.
const DefaultRemoteTimeout = 15 * time.Second

// FallbackNotice is the user-facing string attached to degraded results.
const FallbackNotice = "Clasificación automática no disponible, diríjase a recepción"

// fallbackExplanation replaces the technical explanation on degraded results.
const fallbackExplanation = "Clasificación automática no disponible; valoración en recepción."

// EngineHooks are optional callbacks for observability. Nil funcs are skipped.
type EngineHooks struct {
	OnRemoteCall func(duration float64, err error)
	OnClassify   func(outcome Outcome, level Level, duration float64)
}

// Engine orchestrates one classification: it decides whether to consult the
// remote classifier, races it against a timeout, and merges remote output
// with the local heuristic and the Glasgow override. It is stateless across
// calls and owns construction of every Classification.
type Engine struct {
	classifier Classifier // nil means no remote capability configured
	timeout    time.Duration
	logger     log.Logger
	hooks      EngineHooks
}

// NewEngine creates a classification engine. A nil classifier means the
// remote capability is deliberately unconfigured and every classification
// takes the local path without being flagged as a fallback.
func NewEngine(classifier Classifier, timeout time.Duration, logger log.Logger, hooks EngineHooks) *Engine {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		classifier: classifier,
		timeout:    timeout,
		logger:     logger,
		hooks:      hooks,
	}
}

type remoteOutcome struct {
	rc  *RemoteClassification
	err error
}

// Classify runs one triage evaluation. It never returns an error: every
// remote failure mode degrades to the deterministic local heuristic, so the
// caller always receives a fully decorated Classification.
func (e *Engine) Classify(ctx context.Context, in *Input) *Classification {
	start := time.Now()

	if e.classifier == nil {
		c := e.localClassification(in, false)
		c.Outcome = OutcomeLocal
		e.observe(c, start)
		return c
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Race the remote call against the deadline. The channel is buffered so
	// an abandoned call can still deliver and be garbage collected; its
	// result is simply never read.
	ch := make(chan remoteOutcome, 1)
	callStart := time.Now()
	go func() {
		rc, err := e.classifier.Classify(cctx, in.Symptoms, in.Vitals, in.Glasgow)
		ch <- remoteOutcome{rc: rc, err: err}
	}()

	var out remoteOutcome
	select {
	case out = <-ch:
		if out.err == nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
			// Deadline fired strictly first; the late result is discarded.
			out = remoteOutcome{err: ErrRemoteTimedOut}
		}
	case <-cctx.Done():
		out = remoteOutcome{err: ErrRemoteTimedOut}
	}
	if e.hooks.OnRemoteCall != nil {
		e.hooks.OnRemoteCall(time.Since(callStart).Seconds(), out.err)
	}

	if out.err != nil {
		e.logger.Warn(ctx, "remote classification failed, using local heuristic", "error", out.err)
		c := e.localClassification(in, true)
		c.Outcome = OutcomeFallback
		e.observe(c, start)
		return c
	}

	c := e.mergeRemote(in, out.rc)
	c.Outcome = OutcomeRemote
	e.observe(c, start)
	return c
}

// localClassification is the deterministic path: heuristic estimate, Glasgow
// override, catalog decoration. fallback marks a failed remote, not a
// deliberately unconfigured one.
func (e *Engine) localClassification(in *Input, fallback bool) *Classification {
	level := EstimateLevel(in.Symptoms, in.Vitals)
	level = ApplyOverride(level, in.Glasgow)

	content := ContentFor(level)
	c := &Classification{
		Level:                   level,
		Name:                    NameFor(level),
		TechnicalExplanation:    content.Explanation,
		Steps:                   content.Steps,
		PresumptiveDiagnosis:    content.Diagnosis,
		Justification:           content.Justification,
		ImmediateRecommendation: content.Recommendation,
		Fallback:                fallback,
	}
	if fallback {
		c.TechnicalExplanation = fallbackExplanation
	}
	return c
}

// mergeRemote applies the post-remote override check: a Glasgow floor above
// the remote level discards the remote level and substitutes the forced
// level's canned decoration, keeping the remote diagnosis and justification
// as supplementary context.
func (e *Engine) mergeRemote(in *Input, rc *RemoteClassification) *Classification {
	level := rc.Level.Clamp()

	if floor, ok := OverrideFloor(in.Glasgow); ok && level < floor {
		content := ContentFor(floor)
		c := &Classification{
			Level:                   floor,
			Name:                    NameFor(floor),
			TechnicalExplanation:    fmt.Sprintf("Glasgow %d: trauma grave. %s", in.Glasgow.Total, content.Explanation),
			Steps:                   content.Steps,
			PresumptiveDiagnosis:    rc.PresumptiveDiagnosis,
			Justification:           rc.Justification,
			ImmediateRecommendation: content.Recommendation,
		}
		if c.PresumptiveDiagnosis == "" {
			c.PresumptiveDiagnosis = content.Diagnosis
		}
		if c.Justification == "" {
			c.Justification = content.Justification
		}
		return c
	}

	content := ContentFor(level)
	c := &Classification{
		Level:                   level,
		Name:                    NameFor(level),
		TechnicalExplanation:    rc.Justification,
		Steps:                   []string{rc.ImmediateRecommendation},
		PresumptiveDiagnosis:    rc.PresumptiveDiagnosis,
		Justification:           rc.Justification,
		ImmediateRecommendation: rc.ImmediateRecommendation,
	}
	if c.TechnicalExplanation == "" {
		c.TechnicalExplanation = content.Explanation
	}
	if len(c.Steps) == 1 && c.Steps[0] == "" {
		c.Steps = content.Steps
	}
	return c
}

func (e *Engine) observe(c *Classification, start time.Time) {
	if !c.Level.Valid() {
		// A level outside 1..5 surviving every clamp is a logic defect.
		panic(fmt.Sprintf("triage: classification level %d out of range", c.Level))
	}
	if e.hooks.OnClassify != nil {
		e.hooks.OnClassify(c.Outcome, c.Level, time.Since(start).Seconds())
	}
}
