package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/metrics"
	"github.com/refurbops/opsdash/internal/repository"
	"github.com/refurbops/opsdash/internal/sku"
)

// StockService builds the three inventory-driven views: the reorder queue,
// the reprice queue and the inventory health tree.
type StockService struct {
	inventory repository.InventoryRepository
	sales     repository.SalesRepository
	names     repository.NamesRepository
	clock     Clock
}

func NewStockService(inventory repository.InventoryRepository, sales repository.SalesRepository, names repository.NamesRepository, clock Clock) *StockService {
	return &StockService{inventory: inventory, sales: sales, names: names, clock: clock}
}

func displayName(names map[string]string, code, fallback string) string {
	if name := names[code]; name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return code
}

func pctDelta(current, prior int) int {
	if prior <= 0 {
		return 0
	}
	return int(math.Round(float64(current-prior) / float64(prior) * 100))
}

// Reorder builds the reorder queue grouped by product family. Only sellable
// SKUs with sales this month and at most 14 days of cover make the queue.
func (s *StockService) Reorder(ctx context.Context, targetMargin float64) (*domain.ReorderData, error) {
	w := ComputeWindows(s.clock.Now())

	var (
		inventory                            []domain.InventoryItem
		mtdMap, lmMap, twMap, lwMap, smlyMap map[string]domain.QtyRevenue
		nameMap                              map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { inventory, err = s.inventory.All(gctx); return })
	g.Go(func() (err error) { mtdMap, err = s.sales.SumBySKU(gctx, w.MonthStart, w.Today); return })
	g.Go(func() (err error) { lmMap, err = s.sales.SumBySKU(gctx, w.LastMonthStart, w.LastMonthEnd); return })
	g.Go(func() (err error) { twMap, err = s.sales.SumBySKU(gctx, w.WeekAgo, w.Today); return })
	g.Go(func() (err error) { lwMap, err = s.sales.SumBySKU(gctx, w.TwoWeeksAgo, w.WeekAgo); return })
	g.Go(func() (err error) { smlyMap, err = s.sales.SumBySKU(gctx, w.SMLYStart, w.SMLYEndCapped); return })
	g.Go(func() (err error) { nameMap, err = s.names.DisplayNames(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	famIndex := make(map[string]int)
	var families []domain.ReorderFamily

	for _, inv := range inventory {
		if inv.Bucket == domain.BucketFailed || inv.Bucket == domain.BucketIntake {
			continue
		}

		parsed := sku.Parse(inv.SKU)
		mtd := mtdMap[inv.SKU]
		velocity := metrics.Velocity(mtd.Qty, w.DayOfMonth)
		if velocity <= 0 {
			continue
		}

		available := inv.Available
		if available < 0 {
			available = 0
		}
		daysLeft := metrics.DaysLeft(available, velocity)
		if daysLeft > 14 {
			continue
		}

		avgPrice := 0.0
		if mtd.Qty > 0 {
			avgPrice = mtd.Revenue / float64(mtd.Qty)
		}
		soldLw := twMap[inv.SKU].Qty
		smly := smlyMap[inv.SKU].Qty

		skuRow := domain.ReorderSKU{
			SKU:         inv.SKU,
			Product:     displayName(nameMap, inv.SKU, inv.ProductName),
			Grade:       parsed.Grade,
			Urgency:     metrics.Urgency(daysLeft),
			OnHand:      available,
			RawOnHand:   inv.Available,
			DaysLeft:    metrics.Round1(daysLeft),
			Velocity:    metrics.Round2(velocity),
			SoldLW:      soldLw,
			SoldLWDelta: pctDelta(soldLw, lwMap[inv.SKU].Qty),
			SoldMTD:     mtd.Qty,
			LastMonth:   lmMap[inv.SKU].Qty,
			SMLY:        smly,
			SMLYDelta:   pctDelta(mtd.Qty, smly),
			AvgCost:     inv.Cost.InexactFloat64(),
			MaxBuy:      metrics.Round2(metrics.MaxBuy(avgPrice, targetMargin)),
			ReorderQty:  metrics.ReorderQty(velocity, available),
			Category:    parsed.Category,
		}

		idx, ok := famIndex[parsed.ProductFamily]
		if !ok {
			idx = len(families)
			famIndex[parsed.ProductFamily] = idx
			families = append(families, domain.ReorderFamily{
				ProductFamily: parsed.ProductFamily,
				Product:       skuRow.Product,
				Urgency:       skuRow.Urgency,
				DaysLeft:      metrics.DaysLeftSentinel,
			})
		}

		f := &families[idx]
		f.SKUs = append(f.SKUs, skuRow)
		f.OnHand += skuRow.OnHand
		f.Velocity += skuRow.Velocity
		f.SoldLW += skuRow.SoldLW
		f.SoldMTD += skuRow.SoldMTD
		f.LastMonth += skuRow.LastMonth
		f.SMLY += skuRow.SMLY
		f.ReorderQty += skuRow.ReorderQty
		if skuRow.DaysLeft < f.DaysLeft {
			f.DaysLeft = skuRow.DaysLeft
			f.Urgency = skuRow.Urgency
		}
	}

	for i := range families {
		f := &families[i]

		best := f.SKUs[0]
		for _, row := range f.SKUs {
			if row.SoldMTD > best.SoldMTD {
				best = row
			}
		}
		f.Product = best.Product

		if f.OnHand > 0 {
			totalCost := 0.0
			for _, row := range f.SKUs {
				totalCost += row.AvgCost * float64(row.OnHand)
			}
			f.AvgCost = metrics.Round2(totalCost / float64(f.OnHand))
		} else {
			for _, row := range f.SKUs {
				if row.AvgCost > 0 {
					f.AvgCost = row.AvgCost
					break
				}
			}
		}

		totalRev := 0.0
		totalSold := 0
		for _, row := range f.SKUs {
			totalRev += mtdMap[row.SKU].Revenue
			totalSold += row.SoldMTD
		}
		if totalSold > 0 {
			f.MaxBuy = metrics.Round2(metrics.MaxBuy(totalRev/float64(totalSold), targetMargin))
		}
	}

	sort.Slice(families, func(i, j int) bool {
		if families[i].DaysLeft != families[j].DaysLeft {
			return families[i].DaysLeft < families[j].DaysLeft
		}
		return families[i].ProductFamily < families[j].ProductFamily
	})

	stats := domain.ReorderStats{}
	estCost := 0.0
	for _, f := range families {
		switch f.Urgency {
		case domain.UrgencyCritical:
			stats.Critical++
		case domain.UrgencyUrgent:
			stats.Urgent++
		case domain.UrgencyLow:
			stats.Low++
		}
		stats.TotalReorderQty += f.ReorderQty
		estCost += float64(f.ReorderQty) * f.AvgCost
	}
	stats.EstPurchaseCost = math.Round(estCost)

	return &domain.ReorderData{Stats: stats, Families: families}, nil
}

// Reprice builds the stale-price queue: in-stock sellable SKUs that stopped
// selling or fell far behind last month's pace.
func (s *StockService) Reprice(ctx context.Context) (*domain.RepriceData, error) {
	w := ComputeWindows(s.clock.Now())

	var (
		inventory     []domain.InventoryItem
		mtdMap, lmMap map[string]domain.QtyRevenue
		nameMap       map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { inventory, err = s.inventory.All(gctx); return })
	g.Go(func() (err error) { mtdMap, err = s.sales.SumBySKU(gctx, w.MonthStart, w.Today); return })
	g.Go(func() (err error) { lmMap, err = s.sales.SumBySKU(gctx, w.LastMonthStart, w.LastMonthEnd); return })
	g.Go(func() (err error) { nameMap, err = s.names.DisplayNames(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []domain.RepriceItem
	stats := domain.RepriceStats{}
	deadCapital, slowCapital := 0.0, 0.0

	for _, inv := range inventory {
		if inv.Bucket == domain.BucketFailed || inv.Bucket == domain.BucketIntake {
			continue
		}
		parsed := sku.Parse(inv.SKU)
		if parsed.Grade == "XF" || parsed.Grade == "XC" {
			continue
		}
		if inv.Available <= 0 {
			continue
		}

		mtd := mtdMap[inv.SKU]
		lm := lmMap[inv.SKU]
		cost := inv.Cost.InexactFloat64()

		capital := 0.0
		if cost > 0 {
			capital = float64(inv.Available) * cost
		}

		pace := metrics.RepricePace(mtd.Qty, lm.Qty, w.DayOfMonth)
		status, flagged := metrics.RepriceStatus(mtd.Qty, lm.Qty, pace)
		if !flagged {
			continue
		}
		switch status {
		case domain.RepriceDead:
			stats.DeadSkus++
			deadCapital += capital
		case domain.RepriceSlow:
			stats.SlowMovers++
			slowCapital += capital
		}

		var avgPrice *float64
		switch {
		case mtd.Qty > 0:
			v := mtd.Revenue / float64(mtd.Qty)
			avgPrice = &v
		case lm.Qty > 0:
			v := lm.Revenue / float64(lm.Qty)
			avgPrice = &v
		default:
			sitePrice := inv.SitePrice.InexactFloat64()
			listPrice := inv.ListPrice.InexactFloat64()
			if sitePrice > 0 {
				avgPrice = &sitePrice
			} else if listPrice > 0 {
				avgPrice = &listPrice
			}
		}

		currentMargin := 0.0
		if avgPrice != nil && *avgPrice > 0 {
			currentMargin = metrics.Round2(metrics.CurrentMargin(*avgPrice, cost))
		}
		if avgPrice != nil {
			rounded := metrics.Round2(*avgPrice)
			avgPrice = &rounded
		}

		category := parsed.Category
		if category == "" {
			category = inv.Category
		}
		if category == "" {
			category = domain.CategoryOther
		}

		items = append(items, domain.RepriceItem{
			SKU:            inv.SKU,
			Product:        displayName(nameMap, inv.SKU, inv.ProductName),
			Category:       category,
			Status:         status,
			Qty:            inv.Available,
			AvgPrice:       avgPrice,
			Cost:           cost,
			Pace:           math.Round(pace),
			SoldMTD:        mtd.Qty,
			SoldLM:         lm.Qty,
			Capital:        math.Round(capital),
			BreakEven:      metrics.Round2(metrics.BreakEven(cost)),
			WholesaleFloor: metrics.Round2(metrics.WholesaleFloor(cost)),
			CurrentMargin:  currentMargin,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Capital != items[j].Capital {
			return items[i].Capital > items[j].Capital
		}
		return items[i].SKU < items[j].SKU
	})

	stats.DeadCapital = math.Round(deadCapital)
	stats.SlowCapital = math.Round(slowCapital)
	stats.TotalAtRisk = math.Round(deadCapital + slowCapital)

	return &domain.RepriceData{Stats: stats, Items: items}, nil
}

// Inventory builds the stock-health tree. activeOnly hides SKUs with no
// sales at all in the current or prior month.
func (s *StockService) Inventory(ctx context.Context, activeOnly bool, category, search string) (*domain.InventoryData, error) {
	w := ComputeWindows(s.clock.Now())

	var (
		inventory     []domain.InventoryItem
		mtdMap, lmMap map[string]domain.QtyRevenue
		nameMap       map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { inventory, err = s.inventory.All(gctx); return })
	g.Go(func() (err error) { mtdMap, err = s.sales.SumBySKU(gctx, w.MonthStart, w.Today); return })
	g.Go(func() (err error) { lmMap, err = s.sales.SumBySKU(gctx, w.LastMonthStart, w.LastMonthEnd); return })
	g.Go(func() (err error) { nameMap, err = s.names.DisplayNames(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	searchLower := strings.ToLower(strings.TrimSpace(search))
	famIndex := make(map[string]int)
	var families []domain.InventoryFamily
	stats := domain.HealthStats{}

	for _, inv := range inventory {
		if inv.Bucket == domain.BucketFailed {
			continue
		}
		parsed := sku.Parse(inv.SKU)
		if parsed.Grade == "XF" || parsed.Grade == "XC" {
			continue
		}
		if category != "" && category != "All" && parsed.Category != category {
			continue
		}
		name := displayName(nameMap, inv.SKU, inv.ProductName)
		if searchLower != "" &&
			!strings.Contains(strings.ToLower(name), searchLower) &&
			!strings.Contains(strings.ToLower(inv.SKU), searchLower) {
			continue
		}

		mtd := mtdMap[inv.SKU]
		velocity := metrics.Velocity(mtd.Qty, w.DayOfMonth)
		daysLeft := metrics.DaysLeft(inv.Available, velocity)
		// Negative or zero stock means no runway, distinct from the
		// zero-velocity sentinel.
		if inv.Available <= 0 {
			daysLeft = 0
		}

		lmQty := lmMap[inv.SKU].Qty
		if activeOnly && velocity == 0 && mtd.Qty == 0 && lmQty == 0 {
			continue
		}

		health := metrics.Health(velocity, mtd.Qty, daysLeft)
		switch health {
		case domain.HealthDead:
			stats.Dead++
		case domain.HealthCritical:
			stats.Critical++
		case domain.HealthLow:
			stats.Low++
		case domain.HealthOverstocked:
			stats.Overstocked++
		default:
			stats.Healthy++
		}

		available := inv.Available
		if available < 0 {
			available = 0
		}
		capital := float64(inv.Available) * inv.Cost.InexactFloat64()
		if capital < 0 {
			capital = 0
		}

		skuRow := domain.InventorySKU{
			SKU:          inv.SKU,
			Product:      name,
			Grade:        parsed.Grade,
			Health:       health,
			Available:    available,
			RawAvailable: inv.Available,
			Capital:      math.Round(capital),
			Velocity:     metrics.Round2(velocity),
			DaysLeft:     math.Round(daysLeft),
			SoldMTD:      mtd.Qty,
			RevMTD:       math.Round(mtd.Revenue),
			Cost:         inv.Cost.InexactFloat64(),
			Category:     parsed.Category,
		}

		idx, ok := famIndex[parsed.ProductFamily]
		if !ok {
			idx = len(families)
			famIndex[parsed.ProductFamily] = idx
			families = append(families, domain.InventoryFamily{
				ProductFamily: parsed.ProductFamily,
				Product:       name,
				Health:        domain.HealthHealthy,
				DaysLeft:      metrics.DaysLeftSentinel,
				Category:      parsed.Category,
			})
		}

		f := &families[idx]
		f.SKUs = append(f.SKUs, skuRow)
		f.Available += skuRow.Available
		f.Capital += skuRow.Capital
		f.Velocity += skuRow.Velocity
		f.SoldMTD += skuRow.SoldMTD
		f.RevMTD += skuRow.RevMTD
		if skuRow.DaysLeft < f.DaysLeft {
			f.DaysLeft = skuRow.DaysLeft
		}
		f.Health = metrics.WorseHealth(skuRow.Health, f.Health)
	}

	for i := range families {
		f := &families[i]
		best := f.SKUs[0]
		for _, row := range f.SKUs {
			if row.SoldMTD > best.SoldMTD {
				best = row
			}
		}
		f.Product = best.Product
	}

	sort.Slice(families, func(i, j int) bool {
		if families[i].DaysLeft != families[j].DaysLeft {
			return families[i].DaysLeft < families[j].DaysLeft
		}
		return families[i].ProductFamily < families[j].ProductFamily
	})

	return &domain.InventoryData{Stats: stats, Families: families}, nil
}
