package postgres

import (
	"context"
	"fmt"

	"github.com/refurbops/opsdash/internal/domain"
)

type searchRepository struct {
	db *DB
}

func NewSearchRepository(db *DB) *searchRepository {
	return &searchRepository{db: db}
}

func (r *searchRepository) Search(ctx context.Context, term, monthStart, today, lastMonthStart, lastMonthEnd string, limit int) ([]domain.SearchRow, error) {
	query := `
		WITH all_skus AS (
			SELECT DISTINCT sku FROM (
				SELECT sku FROM inventory_current
				UNION
				SELECT sku FROM daily_sales
			) s
		),
		inv AS (
			SELECT sku, product_name, category, available, cost
			FROM inventory_current
		),
		mtd_sales AS (
			SELECT sku,
			       COALESCE(SUM(qty_sold), 0) AS sold_mtd,
			       COALESCE(SUM(subtotal), 0)::float8 AS rev_mtd
			FROM daily_sales
			WHERE ship_date >= $2::date AND ship_date <= $3::date
			GROUP BY sku
		),
		lm_sales AS (
			SELECT sku, COALESCE(SUM(qty_sold), 0) AS sold_lm
			FROM daily_sales
			WHERE ship_date >= $4::date AND ship_date <= $5::date
			GROUP BY sku
		),
		names AS (
			SELECT sku, display_name FROM product_names
		)
		SELECT a.sku,
		       COALESCE(n.display_name, i.product_name, a.sku) AS display_name,
		       COALESCE(i.category, '') AS category,
		       COALESCE(i.available, 0) AS available,
		       COALESCE(i.cost, 0)::float8 AS cost,
		       COALESCE(m.sold_mtd, 0) AS sold_mtd,
		       COALESCE(m.rev_mtd, 0) AS rev_mtd,
		       COALESCE(l.sold_lm, 0) AS sold_lm,
		       (i.sku IS NOT NULL) AS in_inventory
		FROM all_skus a
		LEFT JOIN inv i ON i.sku = a.sku
		LEFT JOIN mtd_sales m ON m.sku = a.sku
		LEFT JOIN lm_sales l ON l.sku = a.sku
		LEFT JOIN names n ON n.sku = a.sku
		WHERE a.sku ILIKE $1
		   OR COALESCE(n.display_name, i.product_name, '') ILIKE $1
		ORDER BY COALESCE(m.sold_mtd, 0) DESC, COALESCE(i.available, 0) DESC
		LIMIT $6
	`

	var rows []domain.SearchRow
	pattern := "%" + term + "%"
	if err := r.db.SelectContext(ctx, &rows, query, pattern, monthStart, today, lastMonthStart, lastMonthEnd, limit); err != nil {
		return nil, fmt.Errorf("failed to run global search: %w", err)
	}
	return rows, nil
}
