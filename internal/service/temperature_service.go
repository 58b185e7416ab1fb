package service

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/metrics"
	"github.com/refurbops/opsdash/internal/repository"
	"github.com/refurbops/opsdash/internal/sku"
)

// TemperatureService classifies every recently-sold SKU by sales momentum.
type TemperatureService struct {
	sales repository.SalesRepository
	names repository.NamesRepository
	clock Clock
}

func NewTemperatureService(sales repository.SalesRepository, names repository.NamesRepository, clock Clock) *TemperatureService {
	return &TemperatureService{sales: sales, names: names, clock: clock}
}

// Temperature builds the momentum view. Category filters on the parsed SKU
// category; search matches SKU or display name, case-insensitively.
func (s *TemperatureService) Temperature(ctx context.Context, category, search string) (*domain.TemperatureData, error) {
	w := ComputeWindows(s.clock.Now())

	var (
		mtdMap, lmMap, twMap, lwMap map[string]domain.QtyRevenue
		nameMap                     map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { mtdMap, err = s.sales.SumBySKU(gctx, w.MonthStart, w.Today); return })
	g.Go(func() (err error) { lmMap, err = s.sales.SumBySKU(gctx, w.LastMonthStart, w.LastMonthEnd); return })
	g.Go(func() (err error) { twMap, err = s.sales.SumBySKU(gctx, w.WeekAgo, w.Today); return })
	g.Go(func() (err error) { lwMap, err = s.sales.SumBySKU(gctx, w.TwoWeeksAgo, w.WeekAgo); return })
	g.Go(func() (err error) { nameMap, err = s.names.DisplayNames(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	allSkus := make(map[string]struct{}, len(mtdMap)+len(lmMap))
	for code := range mtdMap {
		allSkus[code] = struct{}{}
	}
	for code := range lmMap {
		allSkus[code] = struct{}{}
	}

	searchLower := strings.ToLower(strings.TrimSpace(search))
	items := make([]domain.TemperatureItem, 0, len(allSkus))

	for code := range allSkus {
		mtd := mtdMap[code]
		lm := lmMap[code]
		if mtd.Qty == 0 && lm.Qty == 0 {
			continue
		}

		parsed := sku.Parse(code)
		if category != "" && category != "All" && parsed.Category != category {
			continue
		}

		displayName := nameMap[code]
		if displayName == "" {
			displayName = mtd.Name
		}
		if displayName == "" {
			displayName = code
		}
		if searchLower != "" &&
			!strings.Contains(strings.ToLower(displayName), searchLower) &&
			!strings.Contains(strings.ToLower(code), searchLower) {
			continue
		}

		items = append(items, domain.TemperatureItem{
			SKU:        code,
			Product:    displayName,
			Category:   parsed.Category,
			Trend:      metrics.Trend(mtd.Qty, w.DayOfMonth, lm.Qty, w.DaysInLastMonth),
			ThisWeek:   twMap[code].Qty,
			LastWeek:   lwMap[code].Qty,
			SoldMTD:    mtd.Qty,
			MTDRevenue: mtd.Revenue,
			SoldLM:     lm.Qty,
			LMRevenue:  lm.Revenue,
			MTDvsLM:    metrics.Round1(metrics.MTDvsLM(mtd.Qty, w.DayOfMonth, lm.Qty, w.DaysInLastMonth)),
		})
	}

	stats := domain.TemperatureStats{TotalSkus: len(items)}
	for _, item := range items {
		switch item.Trend {
		case domain.TrendHot:
			stats.Hot++
		case domain.TrendRising:
			stats.Rising++
		case domain.TrendFalling:
			stats.Falling++
		case domain.TrendDead:
			stats.Dead++
		}
	}

	sort.Slice(items, func(i, j int) bool {
		ri, rj := metrics.TrendRank(items[i].Trend), metrics.TrendRank(items[j].Trend)
		if ri != rj {
			return ri < rj
		}
		if items[i].SoldMTD != items[j].SoldMTD {
			return items[i].SoldMTD > items[j].SoldMTD
		}
		return items[i].SKU < items[j].SKU
	})

	return &domain.TemperatureData{Stats: stats, Items: items}, nil
}
