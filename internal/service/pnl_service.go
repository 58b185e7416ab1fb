package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/refurbops/opsdash/internal/cache"
	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/metrics"
	"github.com/refurbops/opsdash/internal/repository"
)

const trendMonths = 14

// PnlService builds the daily pulse and channel P&L views from the order
// P&L table. Both responses are memoized in the view cache until the next
// import invalidates them.
type PnlService struct {
	pnl      repository.PnlRepository
	store    cache.Store
	cacheTTL time.Duration
	clock    Clock
}

func NewPnlService(pnl repository.PnlRepository, store cache.Store, cacheTTL time.Duration, clock Clock) *PnlService {
	return &PnlService{pnl: pnl, store: store, cacheTTL: cacheTTL, clock: clock}
}

func (s *PnlService) DailyPulse(ctx context.Context) (*domain.PulseData, error) {
	if cached := s.fromCache(ctx, cache.PulseKey); cached != nil {
		var data domain.PulseData
		if err := json.Unmarshal(cached, &data); err == nil {
			return &data, nil
		}
	}

	w := ComputeWindows(s.clock.Now())

	var (
		mtd, priorMTD, smlyMTD, ytd, priorYTD domain.PnlTotals
		daily                                 []domain.DailyRevenuePoint
		monthly                               []domain.MonthlyPnl
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { mtd, err = s.pnl.Totals(gctx, w.MonthStart, w.Today); return })
	g.Go(func() (err error) { priorMTD, err = s.pnl.Totals(gctx, w.LastMonthStart, w.PriorMonthSameDay); return })
	g.Go(func() (err error) { smlyMTD, err = s.pnl.Totals(gctx, w.SMLYStart, w.SMLYSameDay); return })
	g.Go(func() (err error) { ytd, err = s.pnl.Totals(gctx, w.YTDStart, w.Today); return })
	g.Go(func() (err error) { priorYTD, err = s.pnl.Totals(gctx, w.PriorYTDStart, w.PriorYTDEnd); return })
	g.Go(func() (err error) { daily, err = s.pnl.DailyRevenue(gctx, 14); return })
	g.Go(func() (err error) { monthly, err = s.pnl.MonthlyTrend(gctx, trendMonths); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	margin := 0.0
	if mtd.Revenue > 0 {
		margin = (mtd.Profit / mtd.Revenue) * 100
	}

	data := &domain.PulseData{
		Kpis: domain.PulseKpis{
			Revenue: mtd.Revenue,
			Profit:  mtd.Profit,
			Margin:  metrics.Round1(margin),
			Orders:  mtd.Orders,
			Units:   mtd.Units,
			Fees:    mtd.Fees,
		},
		DailyRevenue:   daily,
		MonthlyRevenue: monthlyPoints(monthly),
		Comparisons: []domain.MetricComparison{
			comparison("Revenue", mtd.Revenue, priorMTD.Revenue, smlyMTD.Revenue, ytd.Revenue, priorYTD.Revenue),
			comparison("Profit", mtd.Profit, priorMTD.Profit, smlyMTD.Profit, ytd.Profit, priorYTD.Profit),
			comparison("Orders", float64(mtd.Orders), float64(priorMTD.Orders), float64(smlyMTD.Orders), float64(ytd.Orders), float64(priorYTD.Orders)),
		},
	}

	s.toCache(ctx, cache.PulseKey, data)
	return data, nil
}

func (s *PnlService) Pnl(ctx context.Context) (*domain.PnlData, error) {
	if cached := s.fromCache(ctx, cache.PnlKey); cached != nil {
		var data domain.PnlData
		if err := json.Unmarshal(cached, &data); err == nil {
			return &data, nil
		}
	}

	w := ComputeWindows(s.clock.Now())

	var (
		totals   domain.PnlTotals
		channels []domain.ChannelPnl
		monthly  []domain.MonthlyPnl
		days     []domain.PnlDay
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { totals, err = s.pnl.Totals(gctx, w.MonthStart, w.Today); return })
	g.Go(func() (err error) { channels, err = s.pnl.ChannelBreakdown(gctx, w.MonthStart, w.Today); return })
	g.Go(func() (err error) { monthly, err = s.pnl.MonthlyTrend(gctx, trendMonths); return })
	g.Go(func() (err error) { days, err = s.pnl.DailyBreakdown(gctx, w.MonthStart, w.Today); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range channels {
		c := &channels[i]
		if totals.Revenue > 0 {
			c.PctOfTotal = (c.Revenue / totals.Revenue) * 100
		}
		if c.Revenue > 0 {
			c.Margin = (c.Profit / c.Revenue) * 100
			c.FeeRate = (c.Fees / c.Revenue) * 100
		}
		if c.Orders > 0 {
			c.AOV = c.Revenue / float64(c.Orders)
			c.ProfitPerOrder = c.Profit / float64(c.Orders)
		}
	}

	for i := range days {
		if days[i].Revenue > 0 {
			days[i].Margin = (days[i].Profit / days[i].Revenue) * 100
		}
	}

	kpis := domain.PnlKpis{
		Revenue:   totals.Revenue,
		Profit:    totals.Profit,
		TotalFees: totals.Fees,
		Orders:    totals.Orders,
	}
	if totals.Revenue > 0 {
		kpis.Margin = metrics.Round1((totals.Profit / totals.Revenue) * 100)
		kpis.FeeRate = metrics.Round1((totals.Fees / totals.Revenue) * 100)
	}

	data := &domain.PnlData{
		Kpis:           kpis,
		ChannelPnl:     channels,
		RevenueTrend:   monthlyPoints(monthly),
		DailyBreakdown: days,
	}

	s.toCache(ctx, cache.PnlKey, data)
	return data, nil
}

func (s *PnlService) fromCache(ctx context.Context, key string) []byte {
	val, err := s.store.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil
	}
	return val
}

func (s *PnlService) toCache(ctx context.Context, key string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, key, payload, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func monthlyPoints(rows []domain.MonthlyPnl) []domain.MonthlyPoint {
	points := make([]domain.MonthlyPoint, 0, len(rows))
	for _, row := range rows {
		margin := 0.0
		if row.Revenue > 0 {
			margin = (row.Profit / row.Revenue) * 100
		}
		points = append(points, domain.MonthlyPoint{Month: row.Month, Revenue: row.Revenue, Margin: margin})
	}
	return points
}

func comparison(metric string, mtd, priorMTD, smlyMTD, ytd, priorYTD float64) domain.MetricComparison {
	return domain.MetricComparison{
		Metric:          metric,
		MTD:             mtd,
		PriorMonthMTD:   priorMTD,
		PriorMonthDelta: metrics.PctChange(mtd, priorMTD),
		SMLYMTD:         smlyMTD,
		SMLYDelta:       metrics.PctChange(mtd, smlyMTD),
		YTD:             ytd,
		PriorYTD:        priorYTD,
		YTDDelta:        metrics.PctChange(ytd, priorYTD),
	}
}
