package service

import (
	"context"
	"testing"

	"github.com/refurbops/opsdash/internal/domain"
)

func TestNamesRefresh(t *testing.T) {
	t.Parallel()

	inv := &fakeInventoryRepo{items: []domain.InventoryItem{
		{SKU: "PA-BLU-64-CA", ProductName: "iPhone 12 Blue"},
		{SKU: "TA-GRY-256-SD", ProductName: ""},
		{SKU: "LA-SLV-512-CA", ProductName: ""},
	}}
	sales := &fakeSalesRepo{names: map[string]string{
		"PA-BLU-64-CA":  "should lose to inventory",
		"TA-GRY-256-SD": "iPad Gray 256GB",
	}}
	names := &fakeNamesRepo{}

	svc := NewNamesService(inv, sales, names)
	count, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	bySKU := make(map[string]domain.ProductName, len(names.rebuilt))
	for _, row := range names.rebuilt {
		bySKU[row.SKU] = row
	}

	if row := bySKU["PA-BLU-64-CA"]; row.DisplayName != "iPhone 12 Blue" || row.NameSource != domain.NameSourceInventory {
		t.Errorf("inventory name = %+v", row)
	}
	if row := bySKU["TA-GRY-256-SD"]; row.DisplayName != "iPad Gray 256GB" || row.NameSource != domain.NameSourceSales {
		t.Errorf("sales name = %+v", row)
	}
	if row := bySKU["LA-SLV-512-CA"]; row.NameSource != domain.NameSourceParsed || row.DisplayName == "" {
		t.Errorf("parsed name = %+v", row)
	}
}
