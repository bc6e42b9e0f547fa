package triage

import "context"

// Store is the persistence interface for triage records. Writes are
// best-effort from the Service's point of view: a store failure never
// blocks or alters a classification outcome.
type Store interface {
	Put(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, bool, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Record, error)
	List(ctx context.Context) ([]*Record, error)
}
