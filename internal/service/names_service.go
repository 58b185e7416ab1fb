package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/repository"
	"github.com/refurbops/opsdash/internal/sku"
)

// NamesService rebuilds the product name cache. Inventory names win over
// sales-report names, which win over names derived from the SKU itself.
type NamesService struct {
	inventory repository.InventoryRepository
	sales     repository.SalesRepository
	names     repository.NamesRepository
}

func NewNamesService(inventory repository.InventoryRepository, sales repository.SalesRepository, names repository.NamesRepository) *NamesService {
	return &NamesService{inventory: inventory, sales: sales, names: names}
}

// Refresh rebuilds product_names from scratch and returns the row count.
func (s *NamesService) Refresh(ctx context.Context) (int, error) {
	var (
		inventory  []domain.InventoryItem
		salesNames map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { inventory, err = s.inventory.All(gctx); return })
	g.Go(func() (err error) { salesNames, err = s.sales.NamesBySKU(gctx); return })
	if err := g.Wait(); err != nil {
		return 0, err
	}

	byCode := make(map[string]domain.ProductName, len(inventory)+len(salesNames))
	for _, inv := range inventory {
		if inv.ProductName == "" {
			continue
		}
		byCode[inv.SKU] = domain.ProductName{
			SKU:         inv.SKU,
			DisplayName: inv.ProductName,
			NameSource:  domain.NameSourceInventory,
		}
	}
	for code, name := range salesNames {
		if _, ok := byCode[code]; ok {
			continue
		}
		byCode[code] = domain.ProductName{
			SKU:         code,
			DisplayName: name,
			NameSource:  domain.NameSourceSales,
		}
	}
	for _, inv := range inventory {
		if _, ok := byCode[inv.SKU]; ok {
			continue
		}
		byCode[inv.SKU] = domain.ProductName{
			SKU:         inv.SKU,
			DisplayName: sku.BuildName(inv.SKU),
			NameSource:  domain.NameSourceParsed,
		}
	}

	rows := make([]domain.ProductName, 0, len(byCode))
	for _, row := range byCode {
		rows = append(rows, row)
	}
	if err := s.names.Rebuild(ctx, rows); err != nil {
		return 0, err
	}

	log.Info().Int("names", len(rows)).Msg("product name cache rebuilt")
	return len(rows), nil
}
