package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/refurbops/opsdash/internal/domain"
)

func reorderFixtures() (*fakeInventoryRepo, *fakeSalesRepo, *fakeNamesRepo) {
	inv := &fakeInventoryRepo{items: []domain.InventoryItem{
		{SKU: "PA-BLU-64-CA", Bucket: domain.BucketSellable, Available: 4, Cost: decimal.NewFromInt(100)},
		{SKU: "PA-BLU-64-CAB", Bucket: domain.BucketSellable, Available: 10, Cost: decimal.NewFromInt(80)},
		{SKU: "TA-GRY-256-SD", Bucket: domain.BucketSellable, Available: 50, Cost: decimal.NewFromInt(10)},
		{SKU: "LA-FOO-256-INTAKE", Bucket: domain.BucketIntake, Available: 3, Cost: decimal.NewFromInt(200)},
		{SKU: "PKA-RED-64-CA", Bucket: domain.BucketSellable, Available: 100, Cost: decimal.NewFromInt(30)},
	}}
	sales := &fakeSalesRepo{sums: map[string]map[string]domain.QtyRevenue{
		windowKey("2026-01-01", "2026-01-15"): {
			"PA-BLU-64-CA":  {Qty: 30, Revenue: 6000},
			"PA-BLU-64-CAB": {Qty: 15, Revenue: 2400},
			"PKA-RED-64-CA": {Qty: 15, Revenue: 1500},
		},
		windowKey("2025-12-01", "2025-12-31"): {
			"PA-BLU-64-CA": {Qty: 40, Revenue: 8000},
		},
		windowKey("2026-01-08", "2026-01-15"): {
			"PA-BLU-64-CA": {Qty: 10},
		},
		windowKey("2026-01-01", "2026-01-08"): {
			"PA-BLU-64-CA": {Qty: 5},
		},
		windowKey("2025-01-01", "2025-01-15"): {
			"PA-BLU-64-CA": {Qty: 20},
		},
	}}
	names := &fakeNamesRepo{names: map[string]string{"PA-BLU-64-CA": "iPhone Blue 64GB"}}
	return inv, sales, names
}

func TestReorder(t *testing.T) {
	t.Parallel()

	inv, sales, names := reorderFixtures()
	svc := NewStockService(inv, sales, names, clockAt("2026-01-15"))

	data, err := svc.Reorder(context.Background(), 20)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	// TA has no sales, LA is intake stock, PKA has 100 days of cover.
	if len(data.Families) != 1 {
		t.Fatalf("families = %d, want 1", len(data.Families))
	}

	fam := data.Families[0]
	if fam.ProductFamily != "PA-BLU-64" {
		t.Errorf("productFamily = %q, want PA-BLU-64", fam.ProductFamily)
	}
	if fam.Product != "iPhone Blue 64GB" {
		t.Errorf("product = %q, want best seller's name", fam.Product)
	}
	if fam.Urgency != domain.UrgencyCritical {
		t.Errorf("urgency = %q, want CRITICAL", fam.Urgency)
	}
	if fam.DaysLeft != 2 {
		t.Errorf("daysLeft = %v, want 2", fam.DaysLeft)
	}
	if fam.OnHand != 14 || fam.SoldMTD != 45 || fam.LastMonth != 40 || fam.SMLY != 20 {
		t.Errorf("rollup = onHand %d soldMtd %d lastMonth %d smly %d", fam.OnHand, fam.SoldMTD, fam.LastMonth, fam.SMLY)
	}
	if fam.ReorderQty != 76 {
		t.Errorf("reorderQty = %d, want 76", fam.ReorderQty)
	}
	if fam.AvgCost != 85.71 {
		t.Errorf("avgCost = %v, want stock-weighted 85.71", fam.AvgCost)
	}
	if fam.MaxBuy != 149.33 {
		t.Errorf("maxBuy = %v, want 149.33", fam.MaxBuy)
	}

	if len(fam.SKUs) != 2 {
		t.Fatalf("family skus = %d, want 2", len(fam.SKUs))
	}
	first := fam.SKUs[0]
	if first.SKU != "PA-BLU-64-CA" || first.Urgency != domain.UrgencyCritical {
		t.Errorf("first sku = %q urgency %q", first.SKU, first.Urgency)
	}
	if first.Velocity != 2 || first.DaysLeft != 2 {
		t.Errorf("velocity/daysLeft = %v/%v, want 2/2", first.Velocity, first.DaysLeft)
	}
	if first.MaxBuy != 160 {
		t.Errorf("maxBuy = %v, want 160 at 20%% target margin", first.MaxBuy)
	}
	if first.ReorderQty != 56 {
		t.Errorf("reorderQty = %d, want 56", first.ReorderQty)
	}
	if first.SoldLWDelta != 100 {
		t.Errorf("soldLwDelta = %d, want 100", first.SoldLWDelta)
	}
	if first.SMLYDelta != 50 {
		t.Errorf("smlyDelta = %d, want 50", first.SMLYDelta)
	}

	second := fam.SKUs[1]
	if second.Urgency != domain.UrgencyLow || second.DaysLeft != 10 {
		t.Errorf("second sku urgency/daysLeft = %q/%v", second.Urgency, second.DaysLeft)
	}
	if second.SoldLWDelta != 0 || second.SMLYDelta != 0 {
		t.Errorf("deltas without priors = %d/%d, want 0/0", second.SoldLWDelta, second.SMLYDelta)
	}
	// No display name and no inventory name falls back to the SKU.
	if second.Product != "PA-BLU-64-CAB" {
		t.Errorf("second product = %q, want sku fallback", second.Product)
	}

	want := domain.ReorderStats{Critical: 1, TotalReorderQty: 76, EstPurchaseCost: 6514}
	if data.Stats != want {
		t.Errorf("stats = %+v, want %+v", data.Stats, want)
	}
}

func TestReprice(t *testing.T) {
	t.Parallel()

	inv := &fakeInventoryRepo{items: []domain.InventoryItem{
		{SKU: "PA-BLU-64-CA", Bucket: domain.BucketSellable, Available: 5, Cost: decimal.NewFromInt(100)},
		{SKU: "PA-BLU-64-CAB", Bucket: domain.BucketSellable, Available: 4, Cost: decimal.NewFromInt(50)},
		{SKU: "TA-GRY-256-SD", Bucket: domain.BucketSellable, Available: 10, Cost: decimal.NewFromInt(10)},
		{SKU: "LA-FOO-256-XF", Bucket: domain.BucketSellable, Available: 5, Cost: decimal.NewFromInt(40)},
		{SKU: "AA-CASE", Bucket: domain.BucketSellable, Available: 0, Cost: decimal.NewFromInt(5)},
		{SKU: "PKA-GRN-64-CA", Bucket: domain.BucketSellable, Available: 2, SitePrice: decimal.NewFromFloat(99.99)},
	}}
	sales := &fakeSalesRepo{sums: map[string]map[string]domain.QtyRevenue{
		windowKey("2026-01-01", "2026-01-15"): {
			"PA-BLU-64-CAB": {Qty: 2, Revenue: 300},
			"TA-GRY-256-SD": {Qty: 10, Revenue: 1200},
		},
		windowKey("2025-12-01", "2025-12-31"): {
			"PA-BLU-64-CA":  {Qty: 10, Revenue: 2000},
			"PA-BLU-64-CAB": {Qty: 30, Revenue: 4500},
			"TA-GRY-256-SD": {Qty: 10, Revenue: 1200},
		},
	}}
	svc := NewStockService(inv, sales, &fakeNamesRepo{}, clockAt("2026-01-15"))

	data, err := svc.Reprice(context.Background())
	if err != nil {
		t.Fatalf("Reprice: %v", err)
	}

	// TA paces fine, XF stock and zero availability never qualify.
	if len(data.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(data.Items))
	}

	dead := data.Items[0]
	if dead.SKU != "PA-BLU-64-CA" || dead.Status != domain.RepriceDead {
		t.Errorf("top item = %q %q, want dead PA-BLU-64-CA", dead.SKU, dead.Status)
	}
	if dead.Capital != 500 || dead.Pace != 0 {
		t.Errorf("capital/pace = %v/%v, want 500/0", dead.Capital, dead.Pace)
	}
	if dead.AvgPrice == nil || *dead.AvgPrice != 200 {
		t.Errorf("avgPrice = %v, want last-month average 200", dead.AvgPrice)
	}
	if dead.BreakEven != 117.65 || dead.WholesaleFloor != 105 {
		t.Errorf("breakEven/floor = %v/%v", dead.BreakEven, dead.WholesaleFloor)
	}
	if dead.CurrentMargin != 35 {
		t.Errorf("currentMargin = %v, want 35", dead.CurrentMargin)
	}

	slow := data.Items[1]
	if slow.SKU != "PA-BLU-64-CAB" || slow.Status != domain.RepriceSlow {
		t.Errorf("second item = %q %q, want slow PA-BLU-64-CAB", slow.SKU, slow.Status)
	}
	if slow.Pace != 13 {
		t.Errorf("pace = %v, want 13", slow.Pace)
	}
	if slow.AvgPrice == nil || *slow.AvgPrice != 150 {
		t.Errorf("avgPrice = %v, want MTD average 150", slow.AvgPrice)
	}

	noSales := data.Items[2]
	if noSales.SKU != "PKA-GRN-64-CA" || noSales.Status != domain.RepriceDead {
		t.Errorf("third item = %q %q", noSales.SKU, noSales.Status)
	}
	if noSales.AvgPrice == nil || *noSales.AvgPrice != 99.99 {
		t.Errorf("avgPrice = %v, want site price fallback 99.99", noSales.AvgPrice)
	}
	if noSales.Capital != 0 {
		t.Errorf("capital without cost = %v, want 0", noSales.Capital)
	}

	want := domain.RepriceStats{DeadSkus: 2, DeadCapital: 500, SlowMovers: 1, SlowCapital: 200, TotalAtRisk: 700}
	if data.Stats != want {
		t.Errorf("stats = %+v, want %+v", data.Stats, want)
	}
}

func inventoryFixtures() (*fakeInventoryRepo, *fakeSalesRepo) {
	inv := &fakeInventoryRepo{items: []domain.InventoryItem{
		{SKU: "PA-BLU-64-CA", Bucket: domain.BucketSellable, Available: 10, Cost: decimal.NewFromInt(100)},
		{SKU: "PA-BLU-64-CAB", Bucket: domain.BucketSellable, Available: 0, Cost: decimal.NewFromInt(50)},
		{SKU: "TA-GRY-256-SD", Bucket: domain.BucketSellable, Available: 300, Cost: decimal.NewFromInt(20)},
		{SKU: "LA-FOO-256-XF", Bucket: domain.BucketSellable, Available: 5, Cost: decimal.NewFromInt(40)},
		{SKU: "HTR-X", Bucket: domain.BucketFailed, Available: 5, Cost: decimal.NewFromInt(5)},
	}}
	sales := &fakeSalesRepo{sums: map[string]map[string]domain.QtyRevenue{
		windowKey("2026-01-01", "2026-01-15"): {
			"PA-BLU-64-CA":  {Qty: 30, Revenue: 6000},
			"TA-GRY-256-SD": {Qty: 15, Revenue: 1800},
		},
		windowKey("2025-12-01", "2025-12-31"): {},
	}}
	return inv, sales
}

func TestInventory(t *testing.T) {
	t.Parallel()

	inv, sales := inventoryFixtures()
	svc := NewStockService(inv, sales, &fakeNamesRepo{}, clockAt("2026-01-15"))

	data, err := svc.Inventory(context.Background(), false, "", "")
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}

	want := domain.HealthStats{Dead: 1, Critical: 1, Overstocked: 1}
	if data.Stats != want {
		t.Errorf("stats = %+v, want %+v", data.Stats, want)
	}
	if len(data.Families) != 2 {
		t.Fatalf("families = %d, want 2", len(data.Families))
	}

	// Zero stock pins daysLeft to 0, so the phone family sorts first.
	phones := data.Families[0]
	if phones.ProductFamily != "PA-BLU-64" {
		t.Fatalf("first family = %q, want PA-BLU-64", phones.ProductFamily)
	}
	if phones.Health != domain.HealthDead {
		t.Errorf("family health = %q, want dead member to win", phones.Health)
	}
	if phones.DaysLeft != 0 {
		t.Errorf("family daysLeft = %v, want 0", phones.DaysLeft)
	}
	if phones.Available != 10 || phones.Capital != 1000 || phones.SoldMTD != 30 || phones.RevMTD != 6000 {
		t.Errorf("rollup = %+v", phones)
	}
	if len(phones.SKUs) != 2 {
		t.Fatalf("phone skus = %d, want 2", len(phones.SKUs))
	}
	if phones.SKUs[0].Health != domain.HealthCritical || phones.SKUs[0].DaysLeft != 5 {
		t.Errorf("in-stock sku = %q daysLeft %v", phones.SKUs[0].Health, phones.SKUs[0].DaysLeft)
	}
	if phones.SKUs[1].Health != domain.HealthDead || phones.SKUs[1].DaysLeft != 0 {
		t.Errorf("zero-stock sku = %q daysLeft %v", phones.SKUs[1].Health, phones.SKUs[1].DaysLeft)
	}

	// Overstocked ranks below the healthy seed in the merge, so a family
	// of nothing but overstocked SKUs still reads healthy.
	tablets := data.Families[1]
	if tablets.Health != domain.HealthHealthy || tablets.DaysLeft != 300 {
		t.Errorf("tablet family = %q daysLeft %v", tablets.Health, tablets.DaysLeft)
	}
	if len(tablets.SKUs) != 1 || tablets.SKUs[0].Health != domain.HealthOverstocked {
		t.Errorf("tablet skus = %+v, want one overstocked row", tablets.SKUs)
	}
}

func TestInventoryActiveOnly(t *testing.T) {
	t.Parallel()

	inv, sales := inventoryFixtures()
	svc := NewStockService(inv, sales, &fakeNamesRepo{}, clockAt("2026-01-15"))

	data, err := svc.Inventory(context.Background(), true, "", "")
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if data.Stats.Dead != 0 {
		t.Errorf("dead = %d, want never-sold stock hidden", data.Stats.Dead)
	}
	for _, fam := range data.Families {
		for _, row := range fam.SKUs {
			if row.SKU == "PA-BLU-64-CAB" {
				t.Errorf("inactive sku %q still listed", row.SKU)
			}
		}
	}
}

func TestInventoryFilters(t *testing.T) {
	t.Parallel()

	inv, sales := inventoryFixtures()
	svc := NewStockService(inv, sales, &fakeNamesRepo{}, clockAt("2026-01-15"))

	data, err := svc.Inventory(context.Background(), false, domain.CategoryTablet, "")
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if len(data.Families) != 1 || data.Families[0].ProductFamily != "TA-GRY-256" {
		t.Fatalf("category filter kept %d families", len(data.Families))
	}

	data, err = svc.Inventory(context.Background(), false, "", "gry")
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if len(data.Families) != 1 || data.Families[0].ProductFamily != "TA-GRY-256" {
		t.Fatalf("search filter kept %d families", len(data.Families))
	}
}
