package service

import (
	"context"
	"time"

	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/repository"
)

// AdminService backs the data-status and clear-table admin endpoints.
type AdminService struct {
	ingest   repository.IngestRepository
	fetchLog repository.FetchLogRepository
}

func NewAdminService(ingest repository.IngestRepository, fetchLog repository.FetchLogRepository) *AdminService {
	return &AdminService{ingest: ingest, fetchLog: fetchLog}
}

// DataStatus reports row counts per ingest table and the last successful
// email fetch, if any.
func (s *AdminService) DataStatus(ctx context.Context) (*domain.DataStatus, error) {
	counts, err := s.ingest.TableCounts(ctx)
	if err != nil {
		return nil, err
	}

	status := &domain.DataStatus{Tables: counts}
	lastFetch, err := s.fetchLog.LastSuccessfulFetch(ctx)
	if err != nil {
		return nil, err
	}
	if lastFetch != nil {
		status.LastFetch = lastFetch.UTC().Format(time.RFC3339)
	}
	return status, nil
}

// ClearTable empties one whitelisted ingest table.
func (s *AdminService) ClearTable(ctx context.Context, table string) error {
	return s.ingest.ClearTable(ctx, table)
}
