package service

import (
	"context"
	"math"
	"strings"

	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/metrics"
	"github.com/refurbops/opsdash/internal/repository"
	"github.com/refurbops/opsdash/internal/sku"
)

const searchLimit = 25

// SearchService runs the global SKU search and tags every hit with the
// dashboard screens it would show up on.
type SearchService struct {
	search repository.SearchRepository
	clock  Clock
}

func NewSearchService(search repository.SearchRepository, clock Clock) *SearchService {
	return &SearchService{search: search, clock: clock}
}

// Search matches the term against SKUs and display names. Terms shorter
// than two characters return no hits rather than scanning everything.
func (s *SearchService) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return []domain.SearchResult{}, nil
	}

	w := ComputeWindows(s.clock.Now())
	rows, err := s.search.Search(ctx, term, w.MonthStart, w.Today, w.LastMonthStart, w.LastMonthEnd, searchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		parsed := sku.Parse(row.SKU)
		category := row.Category
		if category == "" {
			category = parsed.Category
		}

		velocity := metrics.Velocity(row.SoldMTD, w.DayOfMonth)
		daysLeft := metrics.DaysLeft(row.Available, velocity)
		health := metrics.Health(velocity, row.SoldMTD, daysLeft)
		temperature := metrics.Trend(row.SoldMTD, w.DayOfMonth, row.SoldLM, w.DaysInLastMonth)

		var screens []string
		if velocity > 0 && daysLeft <= 14 && row.InInventory {
			screens = append(screens, "Reorder")
		}
		if row.SoldMTD > 0 || row.SoldLM > 0 {
			screens = append(screens, "Temperature")
		}
		if row.InInventory && row.Available > 0 {
			pace := metrics.RepricePace(row.SoldMTD, row.SoldLM, w.DayOfMonth)
			if row.SoldMTD == 0 || (row.SoldLM > 0 && pace < 30) {
				screens = append(screens, "Reprice")
			}
		}
		if row.InInventory {
			screens = append(screens, "Inventory")
		}

		results = append(results, domain.SearchResult{
			SKU:         row.SKU,
			DisplayName: row.DisplayName,
			Category:    category,
			Grade:       parsed.Grade,
			Available:   row.Available,
			SoldMTD:     row.SoldMTD,
			SoldLM:      row.SoldLM,
			Velocity:    metrics.Round2(velocity),
			DaysLeft:    math.Round(daysLeft),
			Health:      health,
			Temperature: temperature,
			Cost:        row.Cost,
			RevMTD:      row.RevMTD,
			Screens:     screens,
			InInventory: row.InInventory,
		})
	}
	return results, nil
}
