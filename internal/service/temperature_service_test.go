package service

import (
	"context"
	"testing"

	"github.com/refurbops/opsdash/internal/domain"
)

func temperatureFixtures() (*fakeSalesRepo, *fakeNamesRepo) {
	sales := &fakeSalesRepo{sums: map[string]map[string]domain.QtyRevenue{
		windowKey("2026-01-01", "2026-01-15"): {
			"PA-HOT-64-CA": {Qty: 20, Revenue: 4000},
			"PA-RIS-64-CA": {Qty: 8, Revenue: 1600, Name: "Rising Phone"},
			"PA-FAL-64-CA": {Qty: 5, Revenue: 500},
			"PA-STA-64-CA": {Qty: 3, Revenue: 300},
		},
		windowKey("2025-12-01", "2025-12-31"): {
			"PA-HOT-64-CA": {Qty: 10, Revenue: 2000},
			"PA-RIS-64-CA": {Qty: 5, Revenue: 1000},
			"PA-FAL-64-CA": {Qty: 31, Revenue: 3100},
			"PA-DED-64-CA": {Qty: 5, Revenue: 500},
		},
		windowKey("2026-01-08", "2026-01-15"): {
			"PA-HOT-64-CA": {Qty: 6},
		},
		windowKey("2026-01-01", "2026-01-08"): {
			"PA-HOT-64-CA": {Qty: 4},
		},
	}}
	names := &fakeNamesRepo{names: map[string]string{"PA-HOT-64-CA": "Hot Phone"}}
	return sales, names
}

func TestTemperature(t *testing.T) {
	t.Parallel()

	sales, names := temperatureFixtures()
	svc := NewTemperatureService(sales, names, clockAt("2026-01-15"))

	data, err := svc.Temperature(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Temperature: %v", err)
	}

	wantStats := domain.TemperatureStats{Hot: 1, Rising: 1, Falling: 1, Dead: 1, TotalSkus: 5}
	if data.Stats != wantStats {
		t.Errorf("stats = %+v, want %+v", data.Stats, wantStats)
	}

	wantOrder := []struct {
		sku   string
		trend string
	}{
		{"PA-HOT-64-CA", domain.TrendHot},
		{"PA-RIS-64-CA", domain.TrendRising},
		{"PA-FAL-64-CA", domain.TrendFalling},
		{"PA-DED-64-CA", domain.TrendDead},
		{"PA-STA-64-CA", domain.TrendStable},
	}
	if len(data.Items) != len(wantOrder) {
		t.Fatalf("items = %d, want %d", len(data.Items), len(wantOrder))
	}
	for i, want := range wantOrder {
		got := data.Items[i]
		if got.SKU != want.sku || got.Trend != want.trend {
			t.Errorf("items[%d] = %q %q, want %q %q", i, got.SKU, got.Trend, want.sku, want.trend)
		}
	}

	hot := data.Items[0]
	if hot.Product != "Hot Phone" {
		t.Errorf("product = %q, want cached display name", hot.Product)
	}
	if hot.ThisWeek != 6 || hot.LastWeek != 4 {
		t.Errorf("weeks = %d/%d, want 6/4", hot.ThisWeek, hot.LastWeek)
	}
	if hot.MTDvsLM != 313.3 {
		t.Errorf("mtdVsLm = %v, want 313.3", hot.MTDvsLM)
	}

	// Name falls back to the sales-report name, then the SKU itself.
	if data.Items[1].Product != "Rising Phone" {
		t.Errorf("rising product = %q", data.Items[1].Product)
	}
	if data.Items[4].Product != "PA-STA-64-CA" {
		t.Errorf("stable product = %q, want sku fallback", data.Items[4].Product)
	}

	dead := data.Items[3]
	if dead.MTDvsLM != -100 {
		t.Errorf("dead mtdVsLm = %v, want -100", dead.MTDvsLM)
	}
}

func TestTemperatureFilters(t *testing.T) {
	t.Parallel()

	sales, names := temperatureFixtures()
	svc := NewTemperatureService(sales, names, clockAt("2026-01-15"))

	data, err := svc.Temperature(context.Background(), domain.CategoryTablet, "")
	if err != nil {
		t.Fatalf("Temperature: %v", err)
	}
	if len(data.Items) != 0 {
		t.Errorf("tablet filter kept %d phone items", len(data.Items))
	}

	data, err = svc.Temperature(context.Background(), "All", "hot phone")
	if err != nil {
		t.Fatalf("Temperature: %v", err)
	}
	if len(data.Items) != 1 || data.Items[0].SKU != "PA-HOT-64-CA" {
		t.Fatalf("search kept %d items", len(data.Items))
	}
}
