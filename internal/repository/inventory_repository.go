package repository

import (
	"context"

	"github.com/refurbops/opsdash/internal/domain"
)

// InventoryRepository reads the inventory_current snapshot.
type InventoryRepository interface {
	All(ctx context.Context) ([]domain.InventoryItem, error)
	// BySKU returns nil when the SKU is not in the snapshot.
	BySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)
}
