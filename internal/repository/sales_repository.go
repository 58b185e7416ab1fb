package repository

import (
	"context"

	"github.com/refurbops/opsdash/internal/domain"
)

// SalesRepository reads the daily_sales table. All windows are inclusive
// YYYY-MM-DD date strings.
type SalesRepository interface {
	// SumBySKU aggregates quantity and subtotal revenue per SKU over a window.
	SumBySKU(ctx context.Context, start, end string) (map[string]domain.QtyRevenue, error)
	// SumForSKU aggregates one SKU over a window.
	SumForSKU(ctx context.Context, sku, start, end string) (domain.QtyRevenue, error)
	// DailyHistory returns one SKU's per-day sales for the trailing N days.
	DailyHistory(ctx context.Context, sku string, days int) ([]domain.DatedQty, error)
	// NamesBySKU returns the best product name the sales reports carry per SKU.
	NamesBySKU(ctx context.Context) (map[string]string, error)
}
