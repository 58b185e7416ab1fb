package postgres

import (
	"context"
	"fmt"

	"github.com/refurbops/opsdash/internal/domain"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

type skuSumRow struct {
	SKU     string  `db:"sku"`
	Qty     int     `db:"qty"`
	Revenue float64 `db:"revenue"`
	Name    string  `db:"name"`
}

func (r *salesRepository) SumBySKU(ctx context.Context, start, end string) (map[string]domain.QtyRevenue, error) {
	query := `
		SELECT sku,
		       COALESCE(SUM(qty_sold), 0) AS qty,
		       COALESCE(SUM(subtotal), 0)::float8 AS revenue,
		       COALESCE(MAX(product_name), '') AS name
		FROM daily_sales
		WHERE ship_date >= $1::date AND ship_date <= $2::date
		GROUP BY sku
	`

	var rows []skuSumRow
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to sum sales by sku: %w", err)
	}

	sums := make(map[string]domain.QtyRevenue, len(rows))
	for _, row := range rows {
		sums[row.SKU] = domain.QtyRevenue{Qty: row.Qty, Revenue: row.Revenue, Name: row.Name}
	}
	return sums, nil
}

func (r *salesRepository) SumForSKU(ctx context.Context, sku, start, end string) (domain.QtyRevenue, error) {
	query := `
		SELECT COALESCE(SUM(qty_sold), 0) AS qty,
		       COALESCE(SUM(subtotal), 0)::float8 AS revenue
		FROM daily_sales
		WHERE sku = $1 AND ship_date >= $2::date AND ship_date <= $3::date
	`

	var sum domain.QtyRevenue
	if err := r.db.GetContext(ctx, &sum, query, sku, start, end); err != nil {
		return domain.QtyRevenue{}, fmt.Errorf("failed to sum sales for sku %s: %w", sku, err)
	}
	return sum, nil
}

func (r *salesRepository) DailyHistory(ctx context.Context, sku string, days int) ([]domain.DatedQty, error) {
	query := `
		SELECT to_char(ship_date, 'YYYY-MM-DD') AS date,
		       qty_sold AS qty,
		       subtotal::float8 AS revenue
		FROM daily_sales
		WHERE sku = $1 AND ship_date >= current_date - $2::int
		ORDER BY ship_date ASC
	`

	var history []domain.DatedQty
	if err := r.db.SelectContext(ctx, &history, query, sku, days); err != nil {
		return nil, fmt.Errorf("failed to load daily history for sku %s: %w", sku, err)
	}
	return history, nil
}

func (r *salesRepository) NamesBySKU(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT sku, MAX(product_name) AS name
		FROM daily_sales
		WHERE product_name <> ''
		GROUP BY sku
	`

	var rows []struct {
		SKU  string `db:"sku"`
		Name string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load sales product names: %w", err)
	}

	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.SKU] = row.Name
	}
	return names, nil
}
