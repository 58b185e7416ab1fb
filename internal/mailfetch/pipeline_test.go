package mailfetch

import (
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/refurbops/opsdash/internal/cache"
	"github.com/refurbops/opsdash/internal/config"
	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/ingest"
)

type stubClock struct{ t time.Time }

func (c stubClock) Now() time.Time { return c.t }

type stubMailbox struct {
	emails      int
	attachments []Attachment
	since       time.Time
	calls       int
}

func (m *stubMailbox) FetchAttachments(_ context.Context, since time.Time) (int, []Attachment, error) {
	m.calls++
	m.since = since
	return m.emails, m.attachments, nil
}

type stubFetchLog struct {
	last     *time.Time
	daysBack []int
	statuses []string
}

func (s *stubFetchLog) LogFetch(_ context.Context, daysBack, _, _ int, status string) error {
	s.daysBack = append(s.daysBack, daysBack)
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *stubFetchLog) LastSuccessfulFetch(_ context.Context) (*time.Time, error) {
	return s.last, nil
}

type stubIngestRepo struct{ dailySales int }

func (s *stubIngestRepo) UpsertDailySales(_ context.Context, rows []domain.DailySale) (domain.UpsertResult, error) {
	s.dailySales += len(rows)
	return domain.UpsertResult{Inserted: len(rows)}, nil
}

func (s *stubIngestRepo) UpsertOrderPnl(_ context.Context, rows []domain.OrderPnl) (domain.UpsertResult, error) {
	return domain.UpsertResult{Inserted: len(rows)}, nil
}

func (s *stubIngestRepo) ReplaceInventory(_ context.Context, rows []domain.InventoryItem) (domain.UpsertResult, error) {
	return domain.UpsertResult{Inserted: len(rows)}, nil
}

func (s *stubIngestRepo) UpsertChannelSales(_ context.Context, rows []domain.ChannelSale) (domain.UpsertResult, error) {
	return domain.UpsertResult{Inserted: len(rows)}, nil
}

func (s *stubIngestRepo) ClearTable(_ context.Context, _ string) error { return nil }

func (s *stubIngestRepo) TableCounts(_ context.Context) ([]domain.TableCount, error) {
	return nil, nil
}

type stubRefresher struct{}

func (stubRefresher) Refresh(_ context.Context) (int, error) { return 0, nil }

func mailConfig() *config.MailConfig {
	return &config.MailConfig{
		User: "ops@example.com", Password: "secret",
		MinStaleHrs: 12, MaxDaysBack: 14, BaseDaysBack: 3,
	}
}

func dailySalesWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]interface{}{
		"A1": "Ship Date", "B1": "SKU", "C1": "Qty Sold", "D1": "SubTotal",
		"A2": "2026-01-10", "B2": "PA-BLU-64-CA", "C2": 2, "D2": "400.00",
	}
	for cell, val := range cells {
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			t.Fatalf("set cell: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestRunIfStaleSkipsFreshFetch(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * time.Hour)
	mailbox := &stubMailbox{}
	pipeline := NewPipeline(mailbox, nil, &stubFetchLog{last: &recent}, mailConfig(), stubClock{t: now})

	result, err := pipeline.RunIfStale(context.Background(), "test")
	if err != nil {
		t.Fatalf("RunIfStale: %v", err)
	}
	if !result.Skipped || result.SkipReason == "" {
		t.Errorf("result = %+v, want skipped", result)
	}
	if mailbox.calls != 0 {
		t.Errorf("mailbox queried despite fresh fetch")
	}
}

func TestRunIfStaleWidensLookback(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-72 * time.Hour)
	mailbox := &stubMailbox{emails: 3}
	fetchLog := &stubFetchLog{last: &stale}
	pipeline := NewPipeline(mailbox, nil, fetchLog, mailConfig(), stubClock{t: now})

	result, err := pipeline.RunIfStale(context.Background(), "test")
	if err != nil {
		t.Fatalf("RunIfStale: %v", err)
	}
	// 72h stale: ceil(72/24)+1 = 4 days back.
	if result.DaysBack != 4 {
		t.Errorf("daysBack = %d, want 4", result.DaysBack)
	}
	if want := now.AddDate(0, 0, -4); !mailbox.since.Equal(want) {
		t.Errorf("since = %v, want %v", mailbox.since, want)
	}
	if len(fetchLog.statuses) != 1 || fetchLog.statuses[0] != "success" {
		t.Errorf("fetch log = %v", fetchLog.statuses)
	}
}

func TestRunIfStaleCapsLookback(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	mailbox := &stubMailbox{}
	// No fetch on record at all.
	pipeline := NewPipeline(mailbox, nil, &stubFetchLog{}, mailConfig(), stubClock{t: now})

	result, err := pipeline.RunIfStale(context.Background(), "test")
	if err != nil {
		t.Fatalf("RunIfStale: %v", err)
	}
	if result.DaysBack != 14 {
		t.Errorf("daysBack = %d, want capped at 14", result.DaysBack)
	}
}

func TestRunImportsRecognizedAttachments(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	repo := &stubIngestRepo{}
	importer := ingest.NewImporter(repo, stubRefresher{}, cache.Noop{}, nil, stubClock{t: now})
	mailbox := &stubMailbox{emails: 2, attachments: []Attachment{
		{Filename: "Product_Quantity_Sold.xlsx", Data: dailySalesWorkbook(t)},
		{Filename: "random-notes.xlsx"},
	}}
	pipeline := NewPipeline(mailbox, importer, &stubFetchLog{}, mailConfig(), stubClock{t: now})

	result, err := pipeline.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.EmailsScanned != 2 || result.ReportsImported != 1 {
		t.Errorf("result = %+v", result)
	}
	if repo.dailySales != 1 {
		t.Errorf("rows stored = %d, want 1", repo.dailySales)
	}
	// The unrecognized workbook is skipped silently, not an error.
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v", result.Errors)
	}
	if len(result.Reports) != 1 {
		t.Errorf("reports = %d, want 1", len(result.Reports))
	}
}

func TestRunRequiresCredentials(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(&stubMailbox{}, nil, &stubFetchLog{}, &config.MailConfig{}, stubClock{t: time.Now()})
	if _, err := pipeline.Run(context.Background(), 3); err == nil {
		t.Fatal("Run succeeded without credentials")
	}
}

func TestIsSpreadsheet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename    string
		contentType string
		want        bool
	}{
		{"report.xlsx", "", true},
		{"REPORT.XLS", "", true},
		{"report.bin", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
		{"report.bin", "application/vnd.ms-excel", true},
		{"report.pdf", "application/pdf", false},
	}
	for _, tt := range tests {
		if got := isSpreadsheet(tt.filename, tt.contentType); got != tt.want {
			t.Errorf("isSpreadsheet(%q, %q) = %v, want %v", tt.filename, tt.contentType, got, tt.want)
		}
	}
}
