// Package store implements consent persistence in memory, Redis and Postgres.
package store

import (
	"context"
	"sync"

	"wellbuddie/internal/consent/models"
	id "wellbuddie/pkg/domain"
	"wellbuddie/pkg/platform/sentinel"
)

// InMemoryStore keeps one record per subject.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.SubjectID]models.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.SubjectID]models.Record)}
}

func (s *InMemoryStore) Get(_ context.Context, subjectID id.SubjectID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) Save(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.SubjectID] = *record
	return nil
}
