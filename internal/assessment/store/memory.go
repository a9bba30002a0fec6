// Package store implements assessment history in memory, Redis and Postgres.
package store

import (
	"context"
	"sync"

	"wellbuddie/internal/assessment/models"
	id "wellbuddie/pkg/domain"
)

// Sealer encrypts answers at rest. Satisfied by *privacy.Sealer.
type Sealer interface {
	Seal(plaintext, aad []byte) ([]byte, error)
	Open(sealed, aad []byte) ([]byte, error)
}

// InMemoryStore keeps history per subject in append order.
type InMemoryStore struct {
	mu      sync.RWMutex
	history map[id.SubjectID][]models.AssessmentResult
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{history: make(map[id.SubjectID][]models.AssessmentResult)}
}

func (s *InMemoryStore) Append(_ context.Context, result *models.AssessmentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[result.SubjectID] = append(s.history[result.SubjectID], clone(*result))
	return nil
}

func (s *InMemoryStore) List(_ context.Context, subjectID id.SubjectID) ([]*models.AssessmentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.history[subjectID]
	out := make([]*models.AssessmentResult, 0, len(stored))
	for _, r := range stored {
		c := clone(r)
		out = append(out, &c)
	}
	return out, nil
}

func clone(r models.AssessmentResult) models.AssessmentResult {
	r.Responses = append([]int(nil), r.Responses...)
	r.Guidance = append([]string(nil), r.Guidance...)
	return r
}
