package pgstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/acuity/internal/triage"
	"github.com/linnemanlabs/acuity/internal/triage/pgstore"
)

func openStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv("ACUITY_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ACUITY_TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)
	s, err := pgstore.New(ctx, pool)
	if err != nil {
		t.Fatalf("pgstore.New: %v", err)
	}
	return s
}

func sampleRecord(id string) *triage.Record {
	spo2 := 88.0
	hr := 130.0
	pulse := 128
	return &triage.Record{
		ID:          id,
		PatientID:   "P-" + id,
		PatientName: "Ana Torres",
		DNI:         "12345678",

		Symptoms:       "dificultad para respirar",
		Level:          triage.LevelEmergency,
		LevelName:      triage.NameFor(triage.LevelEmergency),
		Recommendation: triage.RecommendationFor(triage.LevelEmergency),
		Vitals: triage.VitalSigns{
			OxygenSaturation: &spo2,
			HeartRate:        &hr,
		},
		Date: time.Now().Truncate(time.Microsecond).UTC(),

		TechnicalExplanation:    "hipoxemia con taquicardia",
		Steps:                   []string{"Oxígeno suplementario", "Monitorización continua"},
		PresumptiveDiagnosis:    "insuficiencia respiratoria",
		Justification:           "saturación 88% con FC 130",
		ImmediateRecommendation: triage.RecommendationFor(triage.LevelEmergency),
		AlertColor:              triage.AlertColorFor(triage.LevelEmergency),

		Glasgow:      &triage.GlasgowScore{Eye: 3, Verbal: 4, Motor: 5, Total: 12},
		BloodLoss:    "none",
		AirwayStatus: "patent",
		Pulse:        &pulse,
	}
}

func TestPutAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	r := sampleRecord("test-put-get-001")
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get returned ok=false, want true")
	}

	assertEqual(t, "ID", r.ID, got.ID)
	assertEqual(t, "PatientID", r.PatientID, got.PatientID)
	assertEqual(t, "PatientName", r.PatientName, got.PatientName)
	assertEqual(t, "DNI", r.DNI, got.DNI)
	assertEqual(t, "Symptoms", r.Symptoms, got.Symptoms)
	assertEqual(t, "Level", int(r.Level), int(got.Level))
	assertEqual(t, "LevelName", r.LevelName, got.LevelName)
	assertEqual(t, "Recommendation", r.Recommendation, got.Recommendation)
	assertEqual(t, "TechnicalExplanation", r.TechnicalExplanation, got.TechnicalExplanation)
	assertEqual(t, "PresumptiveDiagnosis", r.PresumptiveDiagnosis, got.PresumptiveDiagnosis)
	assertEqual(t, "Justification", r.Justification, got.Justification)
	assertEqual(t, "FallbackNotice", r.FallbackNotice, got.FallbackNotice)
	assertEqual(t, "AlertColor", r.AlertColor, got.AlertColor)
	assertEqual(t, "BloodLoss", r.BloodLoss, got.BloodLoss)
	assertEqual(t, "AirwayStatus", r.AirwayStatus, got.AirwayStatus)

	if got.Vitals.OxygenSaturation == nil || *got.Vitals.OxygenSaturation != 88.0 {
		t.Errorf("Vitals.OxygenSaturation mismatch: %v", got.Vitals.OxygenSaturation)
	}
	if got.Vitals.Temperature != nil {
		t.Errorf("Vitals.Temperature = %v, want nil for unmeasured", got.Vitals.Temperature)
	}
	if len(got.Steps) != 2 || got.Steps[0] != r.Steps[0] {
		t.Errorf("Steps mismatch: got %v", got.Steps)
	}
	if got.Glasgow == nil || got.Glasgow.Total != 12 || got.Glasgow.Motor != 5 {
		t.Errorf("Glasgow mismatch: got %+v", got.Glasgow)
	}
	if got.Pulse == nil || *got.Pulse != 128 {
		t.Errorf("Pulse mismatch: %v", got.Pulse)
	}
	if got.RespirationRate != nil {
		t.Errorf("RespirationRate = %v, want nil", got.RespirationRate)
	}
	if !got.Date.Equal(r.Date) {
		t.Errorf("Date: got %v, want %v", got.Date, r.Date)
	}
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "nonexistent-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get returned ok=true for nonexistent ID")
	}
}

func TestUpsert(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	r := sampleRecord("test-upsert-001")
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put initial: %v", err)
	}

	r.Level = triage.LevelResuscitation
	r.LevelName = triage.NameFor(triage.LevelResuscitation)
	r.AlertColor = triage.AlertColorFor(triage.LevelResuscitation)
	r.FallbackNotice = triage.FallbackNotice

	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put update: %v", err)
	}

	got, ok, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get after upsert: %v", err)
	}
	if !ok {
		t.Fatal("Get returned ok=false after upsert")
	}
	assertEqual(t, "Level", int(triage.LevelResuscitation), int(got.Level))
	assertEqual(t, "AlertColor", "darkred", got.AlertColor)
	assertEqual(t, "FallbackNotice", triage.FallbackNotice, got.FallbackNotice)
}

func TestListByPatient(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	patientID := fmt.Sprintf("P-list-%d", time.Now().UnixNano())
	base := time.Now().Truncate(time.Microsecond).UTC()
	for i := 0; i < 3; i++ {
		r := sampleRecord(fmt.Sprintf("test-list-%s-%d", patientID, i))
		r.PatientID = patientID
		r.Date = base.Add(time.Duration(i) * time.Minute)
		if err := s.Put(ctx, r); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	got, err := s.ListByPatient(ctx, patientID)
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListByPatient returned %d records, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Errorf("records not oldest first: %v after %v", got[i].Date, got[i-1].Date)
		}
	}
}

func TestMinimalRecord(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	r := &triage.Record{
		ID:         "test-minimal-001",
		PatientID:  "P-min",
		Symptoms:   "molestia leve",
		Level:      triage.LevelPriority,
		LevelName:  triage.NameFor(triage.LevelPriority),
		AlertColor: triage.AlertColorFor(triage.LevelPriority),
		Date:       time.Now().Truncate(time.Microsecond).UTC(),
	}
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get returned ok=false")
	}
	if got.Glasgow != nil {
		t.Errorf("Glasgow = %+v, want nil", got.Glasgow)
	}
	if !got.Vitals.Empty() {
		t.Errorf("Vitals = %+v, want empty", got.Vitals)
	}
	if got.Pulse != nil || got.GlasgowTotal != nil {
		t.Error("optional ints populated on minimal record")
	}
}

func assertEqual[T comparable](t *testing.T, field string, want, got T) {
	t.Helper()
	if want != got {
		t.Errorf("%s: got %v, want %v", field, got, want)
	}
}
