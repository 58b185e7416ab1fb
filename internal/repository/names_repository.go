package repository

import (
	"context"

	"github.com/refurbops/opsdash/internal/domain"
)

// NamesRepository manages the product_names cache table.
type NamesRepository interface {
	DisplayNames(ctx context.Context) (map[string]string, error)
	DisplayName(ctx context.Context, sku string) (string, error)
	// Rebuild replaces the whole table with the given rows.
	Rebuild(ctx context.Context, rows []domain.ProductName) error
}
