package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wellbuddie/internal/assessment/models"
	id "wellbuddie/pkg/domain"
)

// KeyPrefix matches the storage key the browser app used for history.
const KeyPrefix = "wellbuddie-assessments:"

// RedisStore keeps history as a Redis list of JSON results, one list per
// subject. The subject is implied by the key and not stored in the entry.
// With a Sealer each entry is sealed and bound to the subject.
type RedisStore struct {
	client *redis.Client
	sealer Sealer
}

func NewRedisStore(client *redis.Client, sealer Sealer) *RedisStore {
	return &RedisStore{client: client, sealer: sealer}
}

func historyKey(subjectID id.SubjectID) string { return KeyPrefix + subjectID.String() }

func (s *RedisStore) Append(ctx context.Context, result *models.AssessmentResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	if s.sealer != nil {
		if raw, err = s.sealer.Seal(raw, result.SubjectID[:]); err != nil {
			return fmt.Errorf("seal assessment: %w", err)
		}
	}
	if err := s.client.RPush(ctx, historyKey(result.SubjectID), raw).Err(); err != nil {
		return fmt.Errorf("append assessment: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, subjectID id.SubjectID) ([]*models.AssessmentResult, error) {
	entries, err := s.client.LRange(ctx, historyKey(subjectID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	out := make([]*models.AssessmentResult, 0, len(entries))
	for _, e := range entries {
		raw := []byte(e)
		if s.sealer != nil {
			if raw, err = s.sealer.Open(raw, subjectID[:]); err != nil {
				return nil, fmt.Errorf("open assessment: %w", err)
			}
		}
		r := &models.AssessmentResult{}
		if err := json.Unmarshal(raw, r); err != nil {
			return nil, fmt.Errorf("decode assessment: %w", err)
		}
		r.SubjectID = subjectID
		out = append(out, r)
	}
	return out, nil
}
