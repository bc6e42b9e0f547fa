package triageapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/acuity/internal/triage"
)

// intakeRequest is the inbound wire format. Keys preserve the contract the
// existing intake clients (web form and the paramedic app) already send.
type intakeRequest struct {
	PatientID     string               `json:"paciente_id"`
	Symptoms      string               `json:"sintomas_texto"`
	Vitals        *triage.VitalSigns   `json:"signos_vitales,omitempty"`
	PatientName   string               `json:"nombre_paciente,omitempty"`
	DNI           string               `json:"dni,omitempty"`
	Glasgow       *triage.GlasgowScore `json:"glasgow,omitempty"`
	CareStartedAt string               `json:"hora_inicio_atencion,omitempty"`
	BloodLoss     string               `json:"blood_loss,omitempty"`
	AirwayStatus  string               `json:"airway_status,omitempty"`
	RespirationRate *int               `json:"respiration_rate,omitempty"`
	Pulse           *int               `json:"pulse,omitempty"`
	BPSystolic      *int               `json:"bp_systolic,omitempty"`
	BPDiastolic     *int               `json:"bp_diastolic,omitempty"`
	GlasgowTotal    *int               `json:"glasgow_score,omitempty"`
}

type intakeResponse struct {
	Success bool           `json:"success"`
	Record  *triage.Record `json:"registro"`
}

func (a *API) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	req.PatientID = strings.TrimSpace(req.PatientID)
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	req.PatientName = strings.TrimSpace(req.PatientName)
	req.DNI = strings.TrimSpace(req.DNI)

	// Required: patient identifier, symptoms text of minimum length, and at
	// least one of name or DNI so the record is attributable at reception.
	if req.PatientID == "" || len(req.Symptoms) < a.minSymptomsLen ||
		(req.PatientName == "" && req.DNI == "") {
		http.Error(w, `{"error":"incomplete triage data"}`, http.StatusBadRequest)
		return
	}

	// Accept a Glasgow breakdown only when every part is present; the
	// engine trusts the supplied total and never recomputes it.
	glasgow := req.Glasgow
	if glasgow != nil && (glasgow.Eye == 0 || glasgow.Verbal == 0 || glasgow.Motor == 0 || glasgow.Total == 0) {
		glasgow = nil
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("acuity.patient.id", req.PatientID))

	record := a.svc.Classify(r.Context(), &triage.Submission{
		PatientID:       req.PatientID,
		PatientName:     req.PatientName,
		DNI:             req.DNI,
		Symptoms:        req.Symptoms,
		Vitals:          req.Vitals,
		Glasgow:         glasgow,
		CareStartedAt:   strings.TrimSpace(req.CareStartedAt),
		BloodLoss:       strings.TrimSpace(req.BloodLoss),
		AirwayStatus:    strings.TrimSpace(req.AirwayStatus),
		RespirationRate: req.RespirationRate,
		Pulse:           req.Pulse,
		BPSystolic:      req.BPSystolic,
		BPDiastolic:     req.BPDiastolic,
		GlasgowTotal:    req.GlasgowTotal,
	})

	span.SetAttributes(attribute.Int("acuity.triage.level", int(record.Level)))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(intakeResponse{Success: true, Record: record})
}
