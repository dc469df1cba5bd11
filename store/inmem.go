package store

import (
	"context"
	"sort"
	"sync"
)

// InMemStore keeps records in process memory. It honors the same
// version ordering as the DynamoDB store, which makes it a faithful
// stand-in for tests and single-node deployments.
type InMemStore struct {
	mu      sync.RWMutex
	records map[RecType]map[string]Record
}

func NewInMemStore() *InMemStore {
	return &InMemStore{
		records: make(map[RecType]map[string]Record),
	}
}

func (s *InMemStore) Put(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.records[rec.Type]
	if !ok {
		byID = make(map[string]Record)
		s.records[rec.Type] = byID
	}
	if existing, ok := byID[rec.ID]; ok && existing.Version > rec.Version {
		return ErrStaleRecordVersion(rec.Type, rec.ID, rec.Version)
	}

	rec.Payload = append([]byte(nil), rec.Payload...)
	byID[rec.ID] = rec
	return nil
}

func (s *InMemStore) Get(ctx context.Context, recType RecType, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recType][id]
	if !ok {
		return Record{}, ErrRecordNotFound(recType, id)
	}
	return rec, nil
}

func (s *InMemStore) Query(ctx context.Context, recType RecType, filter Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Record, 0)
	for _, rec := range s.records[recType] {
		if filter.matches(rec) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}
