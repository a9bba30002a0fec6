package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"wellbuddie/internal/assessment/models"
	"wellbuddie/internal/privacy"
)

// PostgresStore writes to anonymized_assessments and anonymized_chat_sessions.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveAssessment(ctx context.Context, rec privacy.AnonymizedAssessment) error {
	query := `
		INSERT INTO anonymized_assessments (
			id, instrument, scores, total_score, risk_level,
			completed_on, age_range, general_region, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		string(rec.Instrument),
		pq.Array(rec.Scores),
		rec.TotalScore,
		string(rec.RiskLevel),
		rec.CompletedOn,
		nullString(string(rec.AgeRange)),
		nullString(rec.Region),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert anonymized assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveChat(ctx context.Context, rec privacy.AnonymizedChat) error {
	query := `
		INSERT INTO anonymized_chat_sessions (
			id, message_count, duration_seconds, badges, xp_gained, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	badges := rec.Badges
	if badges == nil {
		badges = []string{}
	}
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.MessageCount,
		rec.DurationSeconds,
		pq.Array(badges),
		rec.XPGained,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert anonymized chat: %w", err)
	}
	return nil
}

// Purge deletes records created strictly before cutoff.
func (s *PostgresStore) Purge(ctx context.Context, cutoff time.Time) (privacy.PurgeResult, error) {
	var res privacy.PurgeResult
	n, err := s.deleteBefore(ctx, "anonymized_assessments", cutoff)
	if err != nil {
		return res, err
	}
	res.Assessments = n
	n, err = s.deleteBefore(ctx, "anonymized_chat_sessions", cutoff)
	if err != nil {
		return res, err
	}
	res.Chats = n
	return res, nil
}

func (s *PostgresStore) deleteBefore(ctx context.Context, table string, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", table, err)
	}
	return n, nil
}

func (s *PostgresStore) Summary(ctx context.Context) (privacy.Summary, error) {
	sum := privacy.NewSummary()
	rows, err := s.db.QueryContext(ctx, `
		SELECT instrument, risk_level, COUNT(*)
		FROM anonymized_assessments
		GROUP BY instrument, risk_level
	`)
	if err != nil {
		return sum, fmt.Errorf("summarize assessments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var instrument, level string
		var n int
		if err := rows.Scan(&instrument, &level, &n); err != nil {
			return sum, fmt.Errorf("scan summary row: %w", err)
		}
		sum.Add(models.InstrumentID(instrument), privacy.RiskLevel(level), n)
	}
	if err := rows.Err(); err != nil {
		return sum, fmt.Errorf("summarize assessments: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM anonymized_chat_sessions`).Scan(&sum.ChatSessions); err != nil {
		return sum, fmt.Errorf("count chat sessions: %w", err)
	}
	return sum, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
