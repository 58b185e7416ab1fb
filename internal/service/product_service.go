package service

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/metrics"
	"github.com/refurbops/opsdash/internal/repository"
	"github.com/refurbops/opsdash/internal/sku"
)

const (
	historyDays       = 30
	recentOrdersLimit = 10
)

// ProductService assembles the single-SKU drilldown.
type ProductService struct {
	inventory repository.InventoryRepository
	sales     repository.SalesRepository
	pnl       repository.PnlRepository
	names     repository.NamesRepository
	clock     Clock
}

func NewProductService(inventory repository.InventoryRepository, sales repository.SalesRepository, pnl repository.PnlRepository, names repository.NamesRepository, clock Clock) *ProductService {
	return &ProductService{inventory: inventory, sales: sales, pnl: pnl, names: names, clock: clock}
}

// Detail returns everything known about one SKU. SKUs with no inventory row
// still resolve from sales history alone.
func (s *ProductService) Detail(ctx context.Context, code string) (*domain.ProductDetail, error) {
	w := ComputeWindows(s.clock.Now())

	var (
		inv          *domain.InventoryItem
		mtd, lm      domain.QtyRevenue
		name         string
		history      []domain.DatedQty
		recentOrders []domain.RecentOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { inv, err = s.inventory.BySKU(gctx, code); return })
	g.Go(func() (err error) { mtd, err = s.sales.SumForSKU(gctx, code, w.MonthStart, w.Today); return })
	g.Go(func() (err error) { lm, err = s.sales.SumForSKU(gctx, code, w.LastMonthStart, w.LastMonthEnd); return })
	g.Go(func() (err error) { name, err = s.names.DisplayName(gctx, code); return })
	g.Go(func() (err error) { history, err = s.sales.DailyHistory(gctx, code, historyDays); return })
	g.Go(func() (err error) { recentOrders, err = s.pnl.RecentOrdersBySKU(gctx, code, recentOrdersLimit); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	parsed := sku.Parse(code)
	detail := &domain.ProductDetail{
		SKU:          code,
		Category:     parsed.Category,
		Grade:        parsed.Grade,
		Bucket:       parsed.Bucket,
		SoldMTD:      mtd.Qty,
		RevMTD:       mtd.Revenue,
		SoldLM:       lm.Qty,
		RevLM:        lm.Revenue,
		DailyHistory: history,
		RecentOrders: recentOrders,
		InInventory:  inv != nil,
	}

	if inv != nil {
		available := inv.Available
		if available < 0 {
			available = 0
		}
		detail.Available = available
		detail.Physical = inv.Physical
		detail.Reserved = inv.Reserved
		detail.Cost = inv.Cost.InexactFloat64()
		detail.ListPrice = inv.ListPrice.InexactFloat64()
		detail.SitePrice = inv.SitePrice.InexactFloat64()
		detail.Value = inv.Value.InexactFloat64()
		detail.Warehouse = inv.Warehouse
		detail.LastReceived = inv.LastReceived
		if inv.Category != "" {
			detail.Category = inv.Category
		}
		if inv.Grade != "" {
			detail.Grade = inv.Grade
		}
		if inv.Bucket != "" {
			detail.Bucket = inv.Bucket
		}
	}

	detail.DisplayName = name
	if detail.DisplayName == "" && inv != nil {
		detail.DisplayName = inv.ProductName
	}
	if detail.DisplayName == "" {
		detail.DisplayName = code
	}

	velocity := metrics.Velocity(mtd.Qty, w.DayOfMonth)
	detail.Velocity = metrics.Round2(velocity)
	detail.DaysLeft = math.Round(metrics.DaysLeft(detail.Available, velocity))
	if mtd.Qty > 0 {
		detail.AvgPrice = metrics.Round2(mtd.Revenue / float64(mtd.Qty))
	}

	return detail, nil
}
