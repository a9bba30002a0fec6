package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"wellbuddie/internal/assessment/models"
	id "wellbuddie/pkg/domain"
)

// PostgresStore writes history to assessment_results. Responses are sealed
// when a Sealer is configured; the sealed flag records which rows are.
type PostgresStore struct {
	db     *sql.DB
	sealer Sealer
}

func NewPostgresStore(db *sql.DB, sealer Sealer) *PostgresStore {
	return &PostgresStore{db: db, sealer: sealer}
}

func (s *PostgresStore) Append(ctx context.Context, result *models.AssessmentResult) error {
	responses, err := json.Marshal(result.Responses)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	sealed := false
	if s.sealer != nil {
		if responses, err = s.sealer.Seal(responses, result.ID[:]); err != nil {
			return fmt.Errorf("seal responses: %w", err)
		}
		sealed = true
	}

	query := `
		INSERT INTO assessment_results (
			id, subject_id, instrument, responses, sealed, total_score,
			max_score, bucket, description, guidance, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(result.ID),
		uuid.UUID(result.SubjectID),
		string(result.Instrument),
		responses,
		sealed,
		result.TotalScore,
		result.MaxScore,
		string(result.Bucket),
		result.Description,
		pq.Array(result.Guidance),
		result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, subjectID id.SubjectID) ([]*models.AssessmentResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instrument, responses, sealed, total_score, max_score,
		       bucket, description, guidance, completed_at
		FROM assessment_results
		WHERE subject_id = $1
		ORDER BY completed_at, id
	`, uuid.UUID(subjectID))
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	out := []*models.AssessmentResult{}
	for rows.Next() {
		var (
			resultID   uuid.UUID
			instrument string
			bucket     string
			responses  []byte
			sealed     bool
			guidance   []string
		)
		r := &models.AssessmentResult{SubjectID: subjectID}
		if err := rows.Scan(
			&resultID,
			&instrument,
			&responses,
			&sealed,
			&r.TotalScore,
			&r.MaxScore,
			&bucket,
			&r.Description,
			pq.Array(&guidance),
			&r.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		r.ID = id.ResultID(resultID)
		r.Instrument = models.InstrumentID(instrument)
		r.Bucket = models.Bucket(bucket)
		r.Guidance = guidance
		r.CompletedAt = r.CompletedAt.UTC()

		if sealed {
			if s.sealer == nil {
				return nil, fmt.Errorf("assessment %s is sealed but no key is configured", resultID)
			}
			if responses, err = s.sealer.Open(responses, resultID[:]); err != nil {
				return nil, fmt.Errorf("open responses: %w", err)
			}
		}
		if err := json.Unmarshal(responses, &r.Responses); err != nil {
			return nil, fmt.Errorf("decode responses: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return out, nil
}
