package repository

import (
	"context"

	"github.com/refurbops/opsdash/internal/domain"
)

// PnlRepository reads the order_pnl table.
type PnlRepository interface {
	Totals(ctx context.Context, start, end string) (domain.PnlTotals, error)
	// ChannelBreakdown aggregates per reporting channel, highest revenue first.
	ChannelBreakdown(ctx context.Context, start, end string) ([]domain.ChannelPnl, error)
	// DailyRevenue returns one row per calendar day for the trailing N days,
	// including zero-revenue days.
	DailyRevenue(ctx context.Context, days int) ([]domain.DailyRevenuePoint, error)
	// DailyBreakdown returns one row per calendar day of the window, newest
	// first, including empty days.
	DailyBreakdown(ctx context.Context, start, end string) ([]domain.PnlDay, error)
	// MonthlyTrend aggregates per calendar month over the trailing N months.
	MonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyPnl, error)
	// RecentOrdersBySKU finds the latest orders whose order id contains the
	// SKU. Order ids embed line SKUs upstream, so this is the only join.
	RecentOrdersBySKU(ctx context.Context, sku string, limit int) ([]domain.RecentOrder, error)
}
