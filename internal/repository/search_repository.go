package repository

import (
	"context"

	"github.com/refurbops/opsdash/internal/domain"
)

// SearchRepository runs the global SKU search across inventory and sales.
type SearchRepository interface {
	// Search matches the term against SKUs and display names over the union
	// of inventory and sales SKUs, ordered by MTD quantity then stock.
	Search(ctx context.Context, term, monthStart, today, lastMonthStart, lastMonthEnd string, limit int) ([]domain.SearchRow, error)
}
