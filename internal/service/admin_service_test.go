package service

import (
	"context"
	"testing"
	"time"

	"github.com/refurbops/opsdash/internal/domain"
)

func TestDataStatus(t *testing.T) {
	t.Parallel()

	counts := []domain.TableCount{
		{Table: "daily_sales", Rows: 100},
		{Table: "order_pnl", Rows: 50},
	}
	fetched := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)

	svc := NewAdminService(&fakeIngestRepo{counts: counts}, &fakeFetchLogRepo{last: &fetched})
	status, err := svc.DataStatus(context.Background())
	if err != nil {
		t.Fatalf("DataStatus: %v", err)
	}
	if len(status.Tables) != 2 || status.Tables[0].Rows != 100 {
		t.Errorf("tables = %+v", status.Tables)
	}
	if status.LastFetch != "2026-01-15T06:00:00Z" {
		t.Errorf("lastFetch = %q", status.LastFetch)
	}
}

func TestDataStatusNeverFetched(t *testing.T) {
	t.Parallel()

	svc := NewAdminService(&fakeIngestRepo{}, &fakeFetchLogRepo{})
	status, err := svc.DataStatus(context.Background())
	if err != nil {
		t.Fatalf("DataStatus: %v", err)
	}
	if status.LastFetch != "" {
		t.Errorf("lastFetch = %q, want empty", status.LastFetch)
	}
}

func TestClearTable(t *testing.T) {
	t.Parallel()

	ingest := &fakeIngestRepo{}
	svc := NewAdminService(ingest, &fakeFetchLogRepo{})
	if err := svc.ClearTable(context.Background(), "daily_sales"); err != nil {
		t.Fatalf("ClearTable: %v", err)
	}
	if len(ingest.cleared) != 1 || ingest.cleared[0] != "daily_sales" {
		t.Errorf("cleared = %v", ingest.cleared)
	}
}
