package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wellbuddie/internal/consent/models"
	"wellbuddie/internal/consent/service"
	id "wellbuddie/pkg/domain"
	"wellbuddie/pkg/platform/sentinel"
	txcontext "wellbuddie/pkg/platform/tx"
)

// PostgresStore persists records in consent_records. Inside a transaction
// started by PostgresTx, Get locks the row with FOR UPDATE.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) conn(ctx context.Context) (queryer, bool) {
	if tx, ok := txcontext.From(ctx); ok {
		return tx, true
	}
	return s.db, false
}

func (s *PostgresStore) Get(ctx context.Context, subjectID id.SubjectID) (*models.Record, error) {
	q, inTx := s.conn(ctx)
	query := `
		SELECT data_collection, anonymized_analytics, communication_preferences,
		       third_party_sharing, consent_date, last_updated
		FROM consent_records
		WHERE subject_id = $1
	`
	if inTx {
		query += " FOR UPDATE"
	}
	r := models.Record{SubjectID: subjectID}
	err := q.QueryRowContext(ctx, query, uuid.UUID(subjectID)).Scan(
		&r.DataCollection,
		&r.AnonymizedAnalytics,
		&r.CommunicationPreferences,
		&r.ThirdPartySharing,
		&r.ConsentDate,
		&r.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select consent: %w", err)
	}
	r.ConsentDate = r.ConsentDate.UTC()
	r.LastUpdated = r.LastUpdated.UTC()
	return &r, nil
}

// Save upserts the record. consent_date is written on insert only.
func (s *PostgresStore) Save(ctx context.Context, record *models.Record) error {
	q, _ := s.conn(ctx)
	query := `
		INSERT INTO consent_records (
			subject_id, data_collection, anonymized_analytics,
			communication_preferences, third_party_sharing, consent_date, last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (subject_id) DO UPDATE SET
			data_collection = EXCLUDED.data_collection,
			anonymized_analytics = EXCLUDED.anonymized_analytics,
			communication_preferences = EXCLUDED.communication_preferences,
			third_party_sharing = EXCLUDED.third_party_sharing,
			last_updated = EXCLUDED.last_updated
	`
	_, err := q.ExecContext(ctx, query,
		uuid.UUID(record.SubjectID),
		record.DataCollection,
		record.AnonymizedAnalytics,
		record.CommunicationPreferences,
		record.ThirdPartySharing,
		record.ConsentDate,
		record.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert consent: %w", err)
	}
	return nil
}

// PostgresTx runs consent changes in a database transaction. The audit store
// joins the same transaction through the context.
type PostgresTx struct {
	db    *sql.DB
	store *PostgresStore
}

func NewPostgresTx(db *sql.DB, store *PostgresStore) *PostgresTx {
	return &PostgresTx{db: db, store: store}
}

func (t *PostgresTx) RunInTx(ctx context.Context, _ id.SubjectID, fn func(ctx context.Context, store service.Store) error) error {
	return txcontext.Run(ctx, t.db, func(ctx context.Context) error {
		return fn(ctx, t.store)
	})
}
