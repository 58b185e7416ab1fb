package repository

import (
	"context"

	"github.com/refurbops/opsdash/internal/domain"
)

// IngestRepository writes parsed report rows. Upserts are idempotent on the
// table's natural key and report how many keys were new versus existing.
type IngestRepository interface {
	UpsertDailySales(ctx context.Context, rows []domain.DailySale) (domain.UpsertResult, error)
	UpsertOrderPnl(ctx context.Context, rows []domain.OrderPnl) (domain.UpsertResult, error)
	// ReplaceInventory swaps the whole snapshot for the new one.
	ReplaceInventory(ctx context.Context, rows []domain.InventoryItem) (domain.UpsertResult, error)
	UpsertChannelSales(ctx context.Context, rows []domain.ChannelSale) (domain.UpsertResult, error)

	// ClearTable empties one of the whitelisted ingest tables.
	ClearTable(ctx context.Context, table string) error
	TableCounts(ctx context.Context) ([]domain.TableCount, error)
}
