// Package store persists anonymized analytics records.
package store

import (
	"context"
	"sync"
	"time"

	"wellbuddie/internal/privacy"
)

// InMemoryStore keeps anonymized records in process. Used when no database
// is configured and in tests.
type InMemoryStore struct {
	mu          sync.RWMutex
	assessments map[string]privacy.AnonymizedAssessment
	chats       map[string]privacy.AnonymizedChat
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		assessments: make(map[string]privacy.AnonymizedAssessment),
		chats:       make(map[string]privacy.AnonymizedChat),
	}
}

func (s *InMemoryStore) SaveAssessment(_ context.Context, rec privacy.AnonymizedAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Scores = append([]int(nil), rec.Scores...)
	s.assessments[rec.ID] = rec
	return nil
}

func (s *InMemoryStore) SaveChat(_ context.Context, rec privacy.AnonymizedChat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Badges = append([]string{}, rec.Badges...)
	s.chats[rec.ID] = rec
	return nil
}

// Purge removes every record created strictly before cutoff.
func (s *InMemoryStore) Purge(_ context.Context, cutoff time.Time) (privacy.PurgeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res privacy.PurgeResult
	for k, rec := range s.assessments {
		if rec.CreatedAt.Before(cutoff) {
			delete(s.assessments, k)
			res.Assessments++
		}
	}
	for k, rec := range s.chats {
		if rec.CreatedAt.Before(cutoff) {
			delete(s.chats, k)
			res.Chats++
		}
	}
	return res, nil
}

func (s *InMemoryStore) Summary(_ context.Context) (privacy.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := privacy.NewSummary()
	for _, rec := range s.assessments {
		sum.Add(rec.Instrument, rec.RiskLevel, 1)
	}
	sum.ChatSessions = len(s.chats)
	return sum, nil
}
