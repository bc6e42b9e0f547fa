// Package memstore provides an in-memory implementation of triage.Store.
package memstore

import (
	"context"
	"sync"

	"github.com/linnemanlabs/acuity/internal/triage"
)

// Store holds triage records in memory. Suitable for dev/testing.
type Store struct {
	mu      sync.RWMutex
	records map[string]*triage.Record // record ID -> record
	order   []string                  // insertion order of record IDs
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		records: make(map[string]*triage.Record),
	}
}

// Put stores a copy of the triage record.
func (s *Store) Put(_ context.Context, r *triage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	cp := *r
	s.records[r.ID] = &cp
	return nil
}

// Get retrieves a triage record by its ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*triage.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, false, nil
	}
	cp := *r
	return &cp, true, nil
}

// ListByPatient returns copies of the records for one patient in insertion
// order.
func (s *Store) ListByPatient(_ context.Context, patientID string) ([]*triage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*triage.Record
	for _, id := range s.order {
		if r := s.records[id]; r.PatientID == patientID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// List returns copies of all records in insertion order.
func (s *Store) List(_ context.Context) ([]*triage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*triage.Record, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.records[id]
		out = append(out, &cp)
	}
	return out, nil
}
