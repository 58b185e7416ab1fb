package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type fetchLogRepository struct {
	db *DB
}

func NewFetchLogRepository(db *DB) *fetchLogRepository {
	return &fetchLogRepository{db: db}
}

func (r *fetchLogRepository) LogFetch(ctx context.Context, daysBack, emailsScanned, reportsImported int, status string) error {
	query := `
		INSERT INTO email_fetch_log (days_back, emails_scanned, reports_imported, status)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, daysBack, emailsScanned, reportsImported, status); err != nil {
		return fmt.Errorf("failed to log email fetch: %w", err)
	}
	return nil
}

func (r *fetchLogRepository) LastSuccessfulFetch(ctx context.Context) (*time.Time, error) {
	query := `
		SELECT fetched_at FROM email_fetch_log
		WHERE status = 'success'
		ORDER BY fetched_at DESC
		LIMIT 1
	`

	var fetchedAt time.Time
	if err := r.db.GetContext(ctx, &fetchedAt, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load last fetch: %w", err)
	}
	return &fetchedAt, nil
}
