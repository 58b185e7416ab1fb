package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/refurbops/opsdash/internal/domain"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *inventoryRepository {
	return &inventoryRepository{db: db}
}

const inventoryColumns = `
	sku, product_name, warehouse, physical, reserved, available,
	cost, value, list_price, site_price, last_received,
	prefix, category, grade, bucket, product_family,
	to_char(snapshot_date, 'YYYY-MM-DD') AS snapshot_date
`

func (r *inventoryRepository) All(ctx context.Context) ([]domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_current ORDER BY sku`

	var items []domain.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to load inventory snapshot: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) BySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_current WHERE sku = $1`

	var item domain.InventoryItem
	if err := r.db.GetContext(ctx, &item, query, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load inventory for sku %s: %w", sku, err)
	}
	return &item, nil
}
