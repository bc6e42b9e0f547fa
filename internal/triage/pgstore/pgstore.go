// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/acuity/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/acuity/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists triage records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const recordColumns = `id, patient_id, patient_name, dni, symptoms, level, level_name,
	recommendation, vitals, technical_explanation, steps, presumptive_diagnosis,
	justification, immediate_recommendation, fallback_notice, alert_color, glasgow,
	care_started_at, blood_loss, airway_status, respiration_rate, pulse,
	bp_systolic, bp_diastolic, glasgow_total, created_at`

// Put inserts or updates a triage record.
func (s *Store) Put(ctx context.Context, r *triage.Record) error {
	ctx, span := tracer.Start(ctx, "pgstore.Put", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	vitalsJSON, err := json.Marshal(r.Vitals)
	if err != nil {
		return fmt.Errorf("marshal vitals: %w", err)
	}
	stepsJSON, err := json.Marshal(r.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	var glasgowJSON []byte
	if r.Glasgow != nil {
		glasgowJSON, err = json.Marshal(r.Glasgow)
		if err != nil {
			return fmt.Errorf("marshal glasgow: %w", err)
		}
	}

	query := `INSERT INTO triage_records (` + recordColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
	ON CONFLICT (id) DO UPDATE SET
		patient_id               = EXCLUDED.patient_id,
		patient_name             = EXCLUDED.patient_name,
		dni                      = EXCLUDED.dni,
		symptoms                 = EXCLUDED.symptoms,
		level                    = EXCLUDED.level,
		level_name               = EXCLUDED.level_name,
		recommendation           = EXCLUDED.recommendation,
		vitals                   = EXCLUDED.vitals,
		technical_explanation    = EXCLUDED.technical_explanation,
		steps                    = EXCLUDED.steps,
		presumptive_diagnosis    = EXCLUDED.presumptive_diagnosis,
		justification            = EXCLUDED.justification,
		immediate_recommendation = EXCLUDED.immediate_recommendation,
		fallback_notice          = EXCLUDED.fallback_notice,
		alert_color              = EXCLUDED.alert_color,
		glasgow                  = EXCLUDED.glasgow,
		care_started_at          = EXCLUDED.care_started_at,
		blood_loss               = EXCLUDED.blood_loss,
		airway_status            = EXCLUDED.airway_status,
		respiration_rate         = EXCLUDED.respiration_rate,
		pulse                    = EXCLUDED.pulse,
		bp_systolic              = EXCLUDED.bp_systolic,
		bp_diastolic             = EXCLUDED.bp_diastolic,
		glasgow_total            = EXCLUDED.glasgow_total`

	_, err = s.pool.Exec(ctx, query,
		r.ID, r.PatientID, r.PatientName, r.DNI, r.Symptoms, int(r.Level), r.LevelName,
		r.Recommendation, vitalsJSON, r.TechnicalExplanation, stepsJSON, r.PresumptiveDiagnosis,
		r.Justification, r.ImmediateRecommendation, r.FallbackNotice, r.AlertColor, glasgowJSON,
		r.CareStartedAt, r.BloodLoss, r.AirwayStatus, r.RespirationRate, r.Pulse,
		r.BPSystolic, r.BPDiastolic, r.GlasgowTotal, r.Date,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// Get retrieves a triage record by ID.
func (s *Store) Get(ctx context.Context, id string) (*triage.Record, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + recordColumns + ` FROM triage_records WHERE id = $1`
	r, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	return r, true, nil
}

// ListByPatient retrieves the records for one patient, oldest first.
func (s *Store) ListByPatient(ctx context.Context, patientID string) ([]*triage.Record, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListByPatient", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + recordColumns + ` FROM triage_records WHERE patient_id = $1 ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query, patientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// List retrieves all records, oldest first.
func (s *Store) List(ctx context.Context) ([]*triage.Record, error) {
	ctx, span := tracer.Start(ctx, "pgstore.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + recordColumns + ` FROM triage_records ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]*triage.Record, error) {
	var out []*triage.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRecord(row pgx.Row) (*triage.Record, error) {
	var (
		r           triage.Record
		level       int
		vitalsJSON  []byte
		stepsJSON   []byte
		glasgowJSON []byte
	)
	err := row.Scan(
		&r.ID, &r.PatientID, &r.PatientName, &r.DNI, &r.Symptoms, &level, &r.LevelName,
		&r.Recommendation, &vitalsJSON, &r.TechnicalExplanation, &stepsJSON, &r.PresumptiveDiagnosis,
		&r.Justification, &r.ImmediateRecommendation, &r.FallbackNotice, &r.AlertColor, &glasgowJSON,
		&r.CareStartedAt, &r.BloodLoss, &r.AirwayStatus, &r.RespirationRate, &r.Pulse,
		&r.BPSystolic, &r.BPDiastolic, &r.GlasgowTotal, &r.Date,
	)
	if err != nil {
		return nil, err
	}
	r.Level = triage.Level(level)

	if len(vitalsJSON) > 0 {
		if err := json.Unmarshal(vitalsJSON, &r.Vitals); err != nil {
			return nil, fmt.Errorf("unmarshal vitals: %w", err)
		}
	}
	if len(stepsJSON) > 0 {
		if err := json.Unmarshal(stepsJSON, &r.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal steps: %w", err)
		}
	}
	if len(glasgowJSON) > 0 {
		var g triage.GlasgowScore
		if err := json.Unmarshal(glasgowJSON, &g); err != nil {
			return nil, fmt.Errorf("unmarshal glasgow: %w", err)
		}
		r.Glasgow = &g
	}
	return &r, nil
}
