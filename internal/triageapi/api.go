// Package triageapi exposes the triage service over HTTP.
package triageapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/acuity/internal/triage"
)

// TriageService defines the business operations triageapi needs.
type TriageService interface {
	Classify(ctx context.Context, sub *triage.Submission) *triage.Record
	Get(ctx context.Context, id string) (*triage.Record, bool, error)
	Waiting(ctx context.Context) ([]*triage.Record, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger          log.Logger
	svc             TriageService
	minSymptomsLen  int
}

// New creates a new API handler. minSymptomsLen is the minimum accepted
// length of the symptoms text.
func New(logger log.Logger, svc TriageService, minSymptomsLen int) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("triage service is required"))
	}
	if minSymptomsLen < 1 {
		minSymptomsLen = 1
	}
	return &API{
		logger:         logger,
		svc:            svc,
		minSymptomsLen: minSymptomsLen,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/triage", a.handleClassify)
		r.Get("/triage/{id}", a.handleGetTriage)
		r.Get("/dashboard/patients", a.handleWaiting)
	})
}

func (a *API) handleGetTriage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("acuity.triage.id", id))

	record, ok, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get triage record", "id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	span.SetAttributes(attribute.Int("acuity.triage.level", int(record.Level)))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(record)
}

// handleWaiting lists all triage records ordered most severe first.
func (a *API) handleWaiting(w http.ResponseWriter, r *http.Request) {
	records, err := a.svc.Waiting(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list waiting patients")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*triage.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}
