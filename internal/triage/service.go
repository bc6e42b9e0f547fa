package triage

import (
	"context"
	"sort"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
)

// Notifier receives completed high-acuity records, fire-and-forget.
type Notifier interface {
	Send(ctx context.Context, r *Record) error
}

// notifyMinLevel is the lowest severity that triggers a notification.
const notifyMinLevel = LevelEmergency

// Submission is the typed, pre-validated intake the HTTP layer hands to the
// Service. Ancillary clinical fields pass through untouched to the Record.
type Submission struct {
	PatientID     string
	PatientName   string
	DNI           string
	Symptoms      string
	Vitals        *VitalSigns
	Glasgow       *GlasgowScore
	CareStartedAt string
	BloodLoss     string
	AirwayStatus  string
	RespirationRate *int
	Pulse           *int
	BPSystolic      *int
	BPDiastolic     *int
	GlasgowTotal    *int
}

// Service is the business boundary for triage operations: it runs the
// Engine, builds the stored Record, and persists it best-effort.
type Service struct {
	store    Store
	engine   *Engine
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier // may be nil
}

// NewService creates a new triage service.
func NewService(store Store, engine *Engine, logger log.Logger, metrics *Metrics, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:    store,
		engine:   engine,
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
	}
}

// Classify evaluates one encounter and returns the stored record. It never
// fails: the Engine absorbs remote errors and the store write is
// fire-and-forget, logged but never surfaced.
func (s *Service) Classify(ctx context.Context, sub *Submission) *Record {
	c := s.engine.Classify(ctx, &Input{
		Symptoms: sub.Symptoms,
		Vitals:   sub.Vitals,
		Glasgow:  sub.Glasgow,
	})

	r := s.buildRecord(sub, c)

	L := s.logger.With("triage_id", r.ID, "patient_id", r.PatientID)
	L.Info(ctx, "triage classified",
		"level", int(r.Level),
		"level_name", r.LevelName,
		"outcome", string(c.Outcome),
		"fallback", c.Fallback,
	)

	if err := s.store.Put(ctx, r); err != nil {
		// Persistence is a side channel; the classification stands.
		L.Error(ctx, err, "failed to persist triage record")
	}
	if s.metrics != nil {
		s.metrics.ObserveRecord(r)
	}

	if s.notifier != nil && r.Level >= notifyMinLevel {
		go func(r *Record) {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := s.notifier.Send(nctx, r); err != nil {
				s.logger.Error(nctx, err, "failed to send triage notification", "triage_id", r.ID)
			}
		}(r)
	}

	return r
}

// Get retrieves a triage record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Record, bool, error) {
	return s.store.Get(ctx, id)
}

// ListByPatient returns the records for one patient, newest last.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Record, error) {
	return s.store.ListByPatient(ctx, patientID)
}

// Waiting returns all records ordered most severe first, for the intake
// dashboard.
func (s *Service) Waiting(ctx context.Context) ([]*Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Level > records[j].Level
	})
	return records, nil
}

func (s *Service) buildRecord(sub *Submission, c *Classification) *Record {
	name := sub.PatientName
	if name == "" {
		name = sub.PatientID
	}

	var vitals VitalSigns
	if sub.Vitals != nil {
		vitals = *sub.Vitals
	}

	glasgowTotal := sub.GlasgowTotal
	if glasgowTotal == nil && sub.Glasgow != nil {
		t := sub.Glasgow.Total
		glasgowTotal = &t
	}

	r := &Record{
		ID:          ulid.Make().String(),
		PatientID:   sub.PatientID,
		PatientName: name,
		DNI:         sub.DNI,

		Symptoms:       sub.Symptoms,
		Level:          c.Level,
		LevelName:      c.Name,
		Recommendation: c.ImmediateRecommendation,
		Vitals:         vitals,
		Date:           time.Now().UTC(),

		TechnicalExplanation:    c.TechnicalExplanation,
		Steps:                   c.Steps,
		PresumptiveDiagnosis:    c.PresumptiveDiagnosis,
		Justification:           c.Justification,
		ImmediateRecommendation: c.ImmediateRecommendation,
		AlertColor:              AlertColorFor(c.Level),

		Glasgow:         sub.Glasgow,
		CareStartedAt:   sub.CareStartedAt,
		BloodLoss:       sub.BloodLoss,
		AirwayStatus:    sub.AirwayStatus,
		RespirationRate: sub.RespirationRate,
		Pulse:           sub.Pulse,
		BPSystolic:      sub.BPSystolic,
		BPDiastolic:     sub.BPDiastolic,
		GlasgowTotal:    glasgowTotal,
	}
	if c.Fallback {
		r.FallbackNotice = FallbackNotice
	}
	if r.Recommendation == "" {
		r.Recommendation = RecommendationFor(c.Level)
	}
	return r
}
