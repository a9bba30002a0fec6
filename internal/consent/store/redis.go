package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wellbuddie/internal/consent/models"
	id "wellbuddie/pkg/domain"
	"wellbuddie/pkg/platform/sentinel"
)

// KeyPrefix matches the storage key the browser app used for the record.
const KeyPrefix = "wellbuddie-privacy-consent:"

// RedisStore keeps each record as a JSON string under KeyPrefix+subject.
// Records have no TTL; consent persists until replaced.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(subjectID id.SubjectID) string { return KeyPrefix + subjectID.String() }

func (s *RedisStore) Get(ctx context.Context, subjectID id.SubjectID) (*models.Record, error) {
	raw, err := s.client.Get(ctx, key(subjectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get consent: %w", err)
	}
	var r models.Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode consent: %w", err)
	}
	r.SubjectID = subjectID
	return &r, nil
}

func (s *RedisStore) Save(ctx context.Context, record *models.Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode consent: %w", err)
	}
	if err := s.client.Set(ctx, key(record.SubjectID), raw, 0).Err(); err != nil {
		return fmt.Errorf("set consent: %w", err)
	}
	return nil
}
