package repository

import (
	"context"
	"time"
)

// FetchLogRepository records email fetch runs for staleness decisions.
type FetchLogRepository interface {
	LogFetch(ctx context.Context, daysBack, emailsScanned, reportsImported int, status string) error
	// LastSuccessfulFetch returns nil when no run has ever succeeded.
	LastSuccessfulFetch(ctx context.Context) (*time.Time, error)
}
