package postgres

import (
	"context"
	"fmt"

	"github.com/refurbops/opsdash/internal/domain"
)

type pnlRepository struct {
	db *DB
}

func NewPnlRepository(db *DB) *pnlRepository {
	return &pnlRepository{db: db}
}

func (r *pnlRepository) Totals(ctx context.Context, start, end string) (domain.PnlTotals, error) {
	query := `
		SELECT COALESCE(SUM(grand_total), 0)::float8 AS revenue,
		       COALESCE(SUM(accrual_profit), 0)::float8 AS profit,
		       COALESCE(SUM(total_fees), 0)::float8 AS fees,
		       COALESCE(SUM(items_cost), 0)::float8 AS cost,
		       COUNT(DISTINCT order_id) AS orders,
		       COALESCE(SUM(qty), 0) AS units
		FROM order_pnl
		WHERE ship_date >= $1::date AND ship_date <= $2::date
	`

	var totals domain.PnlTotals
	if err := r.db.GetContext(ctx, &totals, query, start, end); err != nil {
		return domain.PnlTotals{}, fmt.Errorf("failed to load pnl totals: %w", err)
	}
	return totals, nil
}

func (r *pnlRepository) ChannelBreakdown(ctx context.Context, start, end string) ([]domain.ChannelPnl, error) {
	query := `
		SELECT channel,
		       COALESCE(SUM(grand_total), 0)::float8 AS revenue,
		       COALESCE(SUM(accrual_profit), 0)::float8 AS profit,
		       COALESCE(SUM(total_fees), 0)::float8 AS fees,
		       COALESCE(SUM(items_cost), 0)::float8 AS cost,
		       COUNT(DISTINCT order_id) AS orders,
		       COALESCE(SUM(qty), 0) AS units
		FROM order_pnl
		WHERE ship_date >= $1::date AND ship_date <= $2::date
		GROUP BY channel
		ORDER BY COALESCE(SUM(grand_total), 0) DESC
	`

	var channels []domain.ChannelPnl
	if err := r.db.SelectContext(ctx, &channels, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to load channel breakdown: %w", err)
	}
	return channels, nil
}

func (r *pnlRepository) DailyRevenue(ctx context.Context, days int) ([]domain.DailyRevenuePoint, error) {
	// generate_series keeps zero-revenue days in the chart.
	query := `
		SELECT to_char(d::date, 'YYYY-MM-DD') AS date,
		       COALESCE(SUM(o.grand_total), 0)::float8 AS revenue
		FROM generate_series(current_date - ($1::int - 1), current_date, '1 day') AS d
		LEFT JOIN order_pnl o ON o.ship_date = d::date
		GROUP BY d::date
		ORDER BY d::date ASC
	`

	var points []domain.DailyRevenuePoint
	if err := r.db.SelectContext(ctx, &points, query, days); err != nil {
		return nil, fmt.Errorf("failed to load daily revenue: %w", err)
	}
	return points, nil
}

func (r *pnlRepository) DailyBreakdown(ctx context.Context, start, end string) ([]domain.PnlDay, error) {
	query := `
		SELECT to_char(d::date, 'YYYY-MM-DD') AS date,
		       COALESCE(SUM(o.grand_total), 0)::float8 AS revenue,
		       COALESCE(SUM(o.accrual_profit), 0)::float8 AS profit,
		       COALESCE(SUM(o.total_fees), 0)::float8 AS fees,
		       COUNT(DISTINCT o.order_id) AS orders,
		       COALESCE(SUM(o.qty), 0) AS units
		FROM generate_series($1::date, $2::date, '1 day') AS d
		LEFT JOIN order_pnl o ON o.ship_date = d::date
		GROUP BY d::date
		ORDER BY d::date DESC
	`

	var days []domain.PnlDay
	if err := r.db.SelectContext(ctx, &days, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to load daily pnl breakdown: %w", err)
	}
	return days, nil
}

func (r *pnlRepository) MonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyPnl, error) {
	query := `
		SELECT to_char(ship_date, 'YYYY-MM') AS month,
		       COALESCE(SUM(grand_total), 0)::float8 AS revenue,
		       COALESCE(SUM(accrual_profit), 0)::float8 AS profit
		FROM order_pnl
		WHERE ship_date >= current_date - make_interval(months => $1)
		GROUP BY to_char(ship_date, 'YYYY-MM')
		ORDER BY to_char(ship_date, 'YYYY-MM') ASC
	`

	var trend []domain.MonthlyPnl
	if err := r.db.SelectContext(ctx, &trend, query, months); err != nil {
		return nil, fmt.Errorf("failed to load monthly trend: %w", err)
	}
	return trend, nil
}

func (r *pnlRepository) RecentOrdersBySKU(ctx context.Context, sku string, limit int) ([]domain.RecentOrder, error) {
	// Order ids embed their line SKUs upstream; a substring match is the
	// only link between orders and SKUs.
	query := `
		SELECT order_id,
		       to_char(ship_date, 'YYYY-MM-DD') AS ship_date,
		       channel,
		       grand_total::float8 AS revenue,
		       accrual_profit::float8 AS profit,
		       qty
		FROM order_pnl
		WHERE order_id LIKE '%' || $1 || '%'
		ORDER BY ship_date DESC
		LIMIT $2
	`

	var orders []domain.RecentOrder
	if err := r.db.SelectContext(ctx, &orders, query, sku, limit); err != nil {
		return nil, fmt.Errorf("failed to load recent orders for sku %s: %w", sku, err)
	}
	return orders, nil
}
