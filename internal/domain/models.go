package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DailySale is one (ship date, SKU) row of the quantity-sold-by-day report.
// Duplicate raw rows for the same key are summed before upsert.
type DailySale struct {
	ShipDate     string          `json:"shipDate" db:"ship_date"`
	SKU          string          `json:"sku" db:"sku"`
	ProductName  string          `json:"productName" db:"product_name"`
	Orders       int             `json:"orders" db:"orders"`
	QtySold      int             `json:"qtySold" db:"qty_sold"`
	Subtotal     decimal.Decimal `json:"subtotal" db:"subtotal"`
	TotalSales   decimal.Decimal `json:"totalSales" db:"total_sales"`
	AvailableQty int             `json:"availableQty" db:"available_qty"`
}

// OrderPnl is one order line of the profit-by-order report, keyed by order id.
type OrderPnl struct {
	OrderID        string          `json:"orderId" db:"order_id"`
	OrderDate      *string         `json:"orderDate" db:"order_date"`
	ShipDate       string          `json:"shipDate" db:"ship_date"`
	ChannelRaw     string          `json:"channelRaw" db:"channel_raw"`
	Company        string          `json:"company" db:"company"`
	Channel        string          `json:"channel" db:"channel"`
	Qty            int             `json:"qty" db:"qty"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	GrandTotal     decimal.Decimal `json:"grandTotal" db:"grand_total"`
	ItemsCost      decimal.Decimal `json:"itemsCost" db:"items_cost"`
	ShippingCost   decimal.Decimal `json:"shippingCost" db:"shipping_cost"`
	Commission     decimal.Decimal `json:"commission" db:"commission"`
	TransactionFee decimal.Decimal `json:"transactionFee" db:"transaction_fee"`
	PostingFee     decimal.Decimal `json:"postingFee" db:"posting_fee"`
	TotalFees      decimal.Decimal `json:"totalFees" db:"total_fees"`
	AccrualProfit  decimal.Decimal `json:"accrualProfit" db:"accrual_profit"`
	CashProfit     decimal.Decimal `json:"cashProfit" db:"cash_profit"`
	AccrualMargin  decimal.Decimal `json:"accrualMargin" db:"accrual_margin"`
}

// InventoryItem is the live stock snapshot for one SKU. The table holds at
// most one row per SKU; inventory imports replace the whole table.
type InventoryItem struct {
	SKU           string          `json:"sku" db:"sku"`
	ProductName   string          `json:"productName" db:"product_name"`
	Warehouse     string          `json:"warehouse" db:"warehouse"`
	Physical      int             `json:"physical" db:"physical"`
	Reserved      int             `json:"reserved" db:"reserved"`
	Available     int             `json:"available" db:"available"`
	Cost          decimal.Decimal `json:"cost" db:"cost"`
	Value         decimal.Decimal `json:"value" db:"value"`
	ListPrice     decimal.Decimal `json:"listPrice" db:"list_price"`
	SitePrice     decimal.Decimal `json:"sitePrice" db:"site_price"`
	LastReceived  string          `json:"lastReceived" db:"last_received"`
	Prefix        string          `json:"prefix" db:"prefix"`
	Category      string          `json:"category" db:"category"`
	Grade         string          `json:"grade" db:"grade"`
	Bucket        string          `json:"bucket" db:"bucket"`
	ProductFamily string          `json:"productFamily" db:"product_family"`
	SnapshotDate  string          `json:"snapshotDate" db:"snapshot_date"`
}

// ChannelStat holds one channel's slice of a channel-sales row.
type ChannelStat struct {
	Units  int     `json:"units"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

// ChannelStats maps canonical channel codes to their stats; stored as JSONB.
type ChannelStats map[string]ChannelStat

func (c ChannelStats) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

func (c *ChannelStats) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = ChannelStats{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into ChannelStats", src)
}

// ChannelSale is one (report date, SKU) row of the qty-by-channel report.
type ChannelSale struct {
	ReportDate  string          `json:"reportDate" db:"report_date"`
	SKU         string          `json:"sku" db:"sku"`
	ProductName string          `json:"productName" db:"product_name"`
	TotalUnits  int             `json:"totalUnits" db:"total_units"`
	TotalOrders int             `json:"totalOrders" db:"total_orders"`
	TotalSales  decimal.Decimal `json:"totalSales" db:"total_sales"`
	ChannelData ChannelStats    `json:"channelData" db:"channel_data"`
}

// ProductName caches the best-known display name for a SKU. Rebuilt from
// scratch after every import.
type ProductName struct {
	SKU         string `json:"sku" db:"sku"`
	DisplayName string `json:"displayName" db:"display_name"`
	NameSource  string `json:"nameSource" db:"name_source"`
}

// Name sources, in winning order.
const (
	NameSourceInventory = "inventory"
	NameSourceSales     = "sales"
	NameSourceParsed    = "parsed"
)

// UpsertResult reports what an import batch did to a table.
type UpsertResult struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// QtyRevenue is a per-SKU aggregate over a date window. Name carries the
// best product name seen in the window, when the query provides one.
type QtyRevenue struct {
	Qty     int     `db:"qty"`
	Revenue float64 `db:"revenue"`
	Name    string  `db:"name"`
}

// MonthlyPnl is one month of the revenue trend before margin is derived.
type MonthlyPnl struct {
	Month   string  `db:"month"`
	Revenue float64 `db:"revenue"`
	Profit  float64 `db:"profit"`
}

// SearchRow is a raw global-search hit before classification.
type SearchRow struct {
	SKU         string  `db:"sku"`
	DisplayName string  `db:"display_name"`
	Category    string  `db:"category"`
	Available   int     `db:"available"`
	Cost        float64 `db:"cost"`
	SoldMTD     int     `db:"sold_mtd"`
	RevMTD      float64 `db:"rev_mtd"`
	SoldLM      int     `db:"sold_lm"`
	InInventory bool    `db:"in_inventory"`
}
