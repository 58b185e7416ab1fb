package service

import (
	"context"
	"time"

	"github.com/refurbops/opsdash/internal/domain"
)

// fixedClock pins "now" for deterministic windows.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func clockAt(date string) fixedClock {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		panic(err)
	}
	return fixedClock{t: t}
}

func windowKey(start, end string) string { return start + ".." + end }

type fakeSalesRepo struct {
	sums    map[string]map[string]domain.QtyRevenue
	history []domain.DatedQty
	names   map[string]string
	err     error
}

func (f *fakeSalesRepo) SumBySKU(_ context.Context, start, end string) (map[string]domain.QtyRevenue, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sums[windowKey(start, end)], nil
}

func (f *fakeSalesRepo) SumForSKU(_ context.Context, sku, start, end string) (domain.QtyRevenue, error) {
	if f.err != nil {
		return domain.QtyRevenue{}, f.err
	}
	return f.sums[windowKey(start, end)][sku], nil
}

func (f *fakeSalesRepo) DailyHistory(_ context.Context, _ string, _ int) ([]domain.DatedQty, error) {
	return f.history, f.err
}

func (f *fakeSalesRepo) NamesBySKU(_ context.Context) (map[string]string, error) {
	return f.names, f.err
}

type fakeInventoryRepo struct {
	items []domain.InventoryItem
	err   error
}

func (f *fakeInventoryRepo) All(_ context.Context) ([]domain.InventoryItem, error) {
	return f.items, f.err
}

func (f *fakeInventoryRepo) BySKU(_ context.Context, sku string) (*domain.InventoryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.items {
		if f.items[i].SKU == sku {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

type fakeNamesRepo struct {
	names   map[string]string
	rebuilt []domain.ProductName
	err     error
}

func (f *fakeNamesRepo) DisplayNames(_ context.Context) (map[string]string, error) {
	return f.names, f.err
}

func (f *fakeNamesRepo) DisplayName(_ context.Context, sku string) (string, error) {
	return f.names[sku], f.err
}

func (f *fakeNamesRepo) Rebuild(_ context.Context, rows []domain.ProductName) error {
	f.rebuilt = rows
	return f.err
}

type fakePnlRepo struct {
	totals   map[string]domain.PnlTotals
	channels []domain.ChannelPnl
	daily    []domain.DailyRevenuePoint
	days     []domain.PnlDay
	monthly  []domain.MonthlyPnl
	orders   []domain.RecentOrder
	err      error
}

func (f *fakePnlRepo) Totals(_ context.Context, start, end string) (domain.PnlTotals, error) {
	if f.err != nil {
		return domain.PnlTotals{}, f.err
	}
	return f.totals[windowKey(start, end)], nil
}

func (f *fakePnlRepo) ChannelBreakdown(_ context.Context, _, _ string) ([]domain.ChannelPnl, error) {
	return f.channels, f.err
}

func (f *fakePnlRepo) DailyRevenue(_ context.Context, _ int) ([]domain.DailyRevenuePoint, error) {
	return f.daily, f.err
}

func (f *fakePnlRepo) DailyBreakdown(_ context.Context, _, _ string) ([]domain.PnlDay, error) {
	return f.days, f.err
}

func (f *fakePnlRepo) MonthlyTrend(_ context.Context, _ int) ([]domain.MonthlyPnl, error) {
	return f.monthly, f.err
}

func (f *fakePnlRepo) RecentOrdersBySKU(_ context.Context, _ string, _ int) ([]domain.RecentOrder, error) {
	return f.orders, f.err
}

type fakeSearchRepo struct {
	rows     []domain.SearchRow
	lastTerm string
	err      error
}

func (f *fakeSearchRepo) Search(_ context.Context, term, _, _, _, _ string, _ int) ([]domain.SearchRow, error) {
	f.lastTerm = term
	return f.rows, f.err
}

type fakeIngestRepo struct {
	counts  []domain.TableCount
	cleared []string
	err     error
}

func (f *fakeIngestRepo) UpsertDailySales(_ context.Context, rows []domain.DailySale) (domain.UpsertResult, error) {
	return domain.UpsertResult{Inserted: len(rows)}, f.err
}

func (f *fakeIngestRepo) UpsertOrderPnl(_ context.Context, rows []domain.OrderPnl) (domain.UpsertResult, error) {
	return domain.UpsertResult{Inserted: len(rows)}, f.err
}

func (f *fakeIngestRepo) ReplaceInventory(_ context.Context, rows []domain.InventoryItem) (domain.UpsertResult, error) {
	return domain.UpsertResult{Inserted: len(rows)}, f.err
}

func (f *fakeIngestRepo) UpsertChannelSales(_ context.Context, rows []domain.ChannelSale) (domain.UpsertResult, error) {
	return domain.UpsertResult{Inserted: len(rows)}, f.err
}

func (f *fakeIngestRepo) ClearTable(_ context.Context, table string) error {
	f.cleared = append(f.cleared, table)
	return f.err
}

func (f *fakeIngestRepo) TableCounts(_ context.Context) ([]domain.TableCount, error) {
	return f.counts, f.err
}

type fakeFetchLogRepo struct {
	last   *time.Time
	logged int
	err    error
}

func (f *fakeFetchLogRepo) LogFetch(_ context.Context, _, _, _ int, _ string) error {
	f.logged++
	return f.err
}

func (f *fakeFetchLogRepo) LastSuccessfulFetch(_ context.Context) (*time.Time, error) {
	return f.last, f.err
}

// memStore is an in-memory cache.Store.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}
