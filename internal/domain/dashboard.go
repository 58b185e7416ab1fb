package domain

// Response shapes for the dashboard views. Field names and JSON keys are
// what the frontend consumes, so keep them stable.

// --- Daily pulse ---

type PulseKpis struct {
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Margin  float64 `json:"margin"`
	Orders  int     `json:"orders"`
	Units   int     `json:"units"`
	Fees    float64 `json:"fees"`
}

// PnlTotals is one aggregate over a ship-date window of the order P&L table.
type PnlTotals struct {
	Revenue float64 `db:"revenue"`
	Profit  float64 `db:"profit"`
	Fees    float64 `db:"fees"`
	Cost    float64 `db:"cost"`
	Orders  int     `db:"orders"`
	Units   int     `db:"units"`
}

// MetricComparison lines up an MTD figure against its prior-month,
// same-month-last-year and year-to-date counterparts.
type MetricComparison struct {
	Metric          string  `json:"metric"`
	MTD             float64 `json:"mtd"`
	PriorMonthMTD   float64 `json:"priorMonthMtd"`
	PriorMonthDelta float64 `json:"priorMonthDelta"`
	SMLYMTD         float64 `json:"smlyMtd"`
	SMLYDelta       float64 `json:"smlyDelta"`
	YTD             float64 `json:"ytd"`
	PriorYTD        float64 `json:"priorYtd"`
	YTDDelta        float64 `json:"ytdDelta"`
}

type DailyRevenuePoint struct {
	Date    string  `json:"date" db:"date"`
	Revenue float64 `json:"revenue" db:"revenue"`
}

type MonthlyPoint struct {
	Month   string  `json:"month" db:"month"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Margin  float64 `json:"margin"`
}

type PulseData struct {
	Kpis           PulseKpis           `json:"kpis"`
	DailyRevenue   []DailyRevenuePoint `json:"dailyRevenue"`
	MonthlyRevenue []MonthlyPoint      `json:"monthlyRevenue"`
	Comparisons    []MetricComparison  `json:"comparisons"`
}

// --- P&L ---

type PnlKpis struct {
	Revenue   float64 `json:"revenue"`
	Profit    float64 `json:"profit"`
	Margin    float64 `json:"margin"`
	TotalFees float64 `json:"totalFees"`
	FeeRate   float64 `json:"feeRate"`
	Orders    int     `json:"orders"`
}

type ChannelPnl struct {
	Channel        string  `json:"channel" db:"channel"`
	Revenue        float64 `json:"revenue" db:"revenue"`
	PctOfTotal     float64 `json:"pctOfTotal"`
	Profit         float64 `json:"profit" db:"profit"`
	Margin         float64 `json:"margin"`
	Fees           float64 `json:"fees" db:"fees"`
	FeeRate        float64 `json:"feeRate"`
	Orders         int     `json:"orders" db:"orders"`
	AOV            float64 `json:"aov"`
	Cost           float64 `json:"cost" db:"cost"`
	Units          int     `json:"units" db:"units"`
	ProfitPerOrder float64 `json:"profitPerOrder"`
}

type PnlDay struct {
	Date    string  `json:"date" db:"date"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Profit  float64 `json:"profit" db:"profit"`
	Margin  float64 `json:"margin"`
	Fees    float64 `json:"fees" db:"fees"`
	Orders  int     `json:"orders" db:"orders"`
	Units   int     `json:"units" db:"units"`
}

type PnlData struct {
	Kpis           PnlKpis        `json:"kpis"`
	ChannelPnl     []ChannelPnl   `json:"channelPnl"`
	RevenueTrend   []MonthlyPoint `json:"revenueTrend"`
	DailyBreakdown []PnlDay       `json:"dailyBreakdown"`
}

// --- SKU temperature ---

type TemperatureStats struct {
	Hot       int `json:"hot"`
	Rising    int `json:"rising"`
	Falling   int `json:"falling"`
	Dead      int `json:"dead"`
	TotalSkus int `json:"totalSkus"`
}

type TemperatureItem struct {
	SKU        string  `json:"sku"`
	Product    string  `json:"product"`
	Category   string  `json:"category"`
	Trend      string  `json:"trend"`
	ThisWeek   int     `json:"thisWeek"`
	LastWeek   int     `json:"lastWeek"`
	SoldMTD    int     `json:"soldMtd"`
	MTDRevenue float64 `json:"mtdRevenue"`
	SoldLM     int     `json:"soldLm"`
	LMRevenue  float64 `json:"lmRevenue"`
	MTDvsLM    float64 `json:"mtdVsLm"`
}

type TemperatureData struct {
	Stats TemperatureStats  `json:"stats"`
	Items []TemperatureItem `json:"items"`
}

// --- Reorder queue ---

type ReorderStats struct {
	Critical        int     `json:"critical"`
	Urgent          int     `json:"urgent"`
	Low             int     `json:"low"`
	TotalReorderQty int     `json:"totalReorderQty"`
	EstPurchaseCost float64 `json:"estPurchaseCost"`
}

type ReorderSKU struct {
	SKU         string  `json:"sku"`
	Product     string  `json:"product"`
	Grade       string  `json:"grade"`
	Urgency     string  `json:"urgency"`
	OnHand      int     `json:"onHand"`
	RawOnHand   int     `json:"rawOnHand"`
	DaysLeft    float64 `json:"daysLeft"`
	Velocity    float64 `json:"velocity"`
	SoldLW      int     `json:"soldLw"`
	SoldLWDelta int     `json:"soldLwDelta"`
	SoldMTD     int     `json:"soldMtd"`
	LastMonth   int     `json:"lastMonth"`
	SMLY        int     `json:"smly"`
	SMLYDelta   int     `json:"smlyDelta"`
	AvgCost     float64 `json:"avgCost"`
	MaxBuy      float64 `json:"maxBuy"`
	ReorderQty  int     `json:"reorderQty"`
	Category    string  `json:"category"`
}

type ReorderFamily struct {
	ProductFamily string       `json:"productFamily"`
	Product       string       `json:"product"`
	Urgency       string       `json:"urgency"`
	OnHand        int          `json:"onHand"`
	DaysLeft      float64      `json:"daysLeft"`
	Velocity      float64      `json:"velocity"`
	SoldLW        int          `json:"soldLw"`
	SoldMTD       int          `json:"soldMtd"`
	LastMonth     int          `json:"lastMonth"`
	SMLY          int          `json:"smly"`
	AvgCost       float64      `json:"avgCost"`
	MaxBuy        float64      `json:"maxBuy"`
	ReorderQty    int          `json:"reorderQty"`
	SKUs          []ReorderSKU `json:"skus"`
}

type ReorderData struct {
	Stats    ReorderStats    `json:"stats"`
	Families []ReorderFamily `json:"families"`
}

// --- Reprice queue ---

type RepriceStats struct {
	DeadSkus    int     `json:"deadSkus"`
	DeadCapital float64 `json:"deadCapital"`
	SlowMovers  int     `json:"slowMovers"`
	SlowCapital float64 `json:"slowCapital"`
	TotalAtRisk float64 `json:"totalAtRisk"`
}

type RepriceItem struct {
	SKU            string   `json:"sku"`
	Product        string   `json:"product"`
	Category       string   `json:"category"`
	Status         string   `json:"status"`
	Qty            int      `json:"qty"`
	AvgPrice       *float64 `json:"avgPrice"`
	Cost           float64  `json:"cost"`
	Pace           float64  `json:"pace"`
	SoldMTD        int      `json:"soldMtd"`
	SoldLM         int      `json:"soldLm"`
	Capital        float64  `json:"capital"`
	BreakEven      float64  `json:"breakEven"`
	WholesaleFloor float64  `json:"wholesaleFloor"`
	CurrentMargin  float64  `json:"currentMargin"`
}

type RepriceData struct {
	Stats RepriceStats  `json:"stats"`
	Items []RepriceItem `json:"items"`
}

// --- Inventory health ---

type HealthStats struct {
	Dead        int `json:"dead"`
	Critical    int `json:"critical"`
	Low         int `json:"low"`
	Healthy     int `json:"healthy"`
	Overstocked int `json:"overstocked"`
}

type InventorySKU struct {
	SKU          string  `json:"sku"`
	Product      string  `json:"product"`
	Grade        string  `json:"grade"`
	Health       string  `json:"health"`
	Available    int     `json:"available"`
	RawAvailable int     `json:"rawAvailable"`
	Capital      float64 `json:"capital"`
	Velocity     float64 `json:"velocity"`
	DaysLeft     float64 `json:"daysLeft"`
	SoldMTD      int     `json:"soldMtd"`
	RevMTD       float64 `json:"revMtd"`
	Cost         float64 `json:"cost"`
	Category     string  `json:"category"`
}

type InventoryFamily struct {
	ProductFamily string         `json:"productFamily"`
	Product       string         `json:"product"`
	Health        string         `json:"health"`
	Available     int            `json:"available"`
	Capital       float64        `json:"capital"`
	Velocity      float64        `json:"velocity"`
	DaysLeft      float64        `json:"daysLeft"`
	SoldMTD       int            `json:"soldMtd"`
	RevMTD        float64        `json:"revMtd"`
	SKUs          []InventorySKU `json:"skus"`
	Category      string         `json:"category"`
}

type InventoryData struct {
	Stats    HealthStats       `json:"stats"`
	Families []InventoryFamily `json:"families"`
}

// --- Search / product detail ---

// SearchResult is one global-search hit with the screens it would appear on.
type SearchResult struct {
	SKU         string   `json:"sku"`
	DisplayName string   `json:"displayName"`
	Category    string   `json:"category"`
	Grade       string   `json:"grade"`
	Available   int      `json:"available"`
	SoldMTD     int      `json:"soldMtd"`
	SoldLM      int      `json:"soldLm"`
	Velocity    float64  `json:"velocity"`
	DaysLeft    float64  `json:"daysLeft"`
	Health      string   `json:"health"`
	Temperature string   `json:"temperature"`
	Cost        float64  `json:"cost"`
	RevMTD      float64  `json:"revMtd"`
	Screens     []string `json:"screens"`
	InInventory bool     `json:"inInventory"`
}

type DatedQty struct {
	Date    string  `json:"date" db:"date"`
	Qty     int     `json:"qty" db:"qty"`
	Revenue float64 `json:"revenue" db:"revenue"`
}

type RecentOrder struct {
	OrderID  string  `json:"orderId" db:"order_id"`
	ShipDate string  `json:"shipDate" db:"ship_date"`
	Channel  string  `json:"channel" db:"channel"`
	Revenue  float64 `json:"revenue" db:"revenue"`
	Profit   float64 `json:"profit" db:"profit"`
	Qty      int     `json:"qty" db:"qty"`
}

type ProductDetail struct {
	SKU          string        `json:"sku"`
	DisplayName  string        `json:"displayName"`
	Category     string        `json:"category"`
	Grade        string        `json:"grade"`
	Bucket       string        `json:"bucket"`
	Available    int           `json:"available"`
	Physical     int           `json:"physical"`
	Reserved     int           `json:"reserved"`
	Cost         float64       `json:"cost"`
	ListPrice    float64       `json:"listPrice"`
	SitePrice    float64       `json:"sitePrice"`
	Value        float64       `json:"value"`
	Velocity     float64       `json:"velocity"`
	DaysLeft     float64       `json:"daysLeft"`
	SoldMTD      int           `json:"soldMtd"`
	RevMTD       float64       `json:"revMtd"`
	SoldLM       int           `json:"soldLm"`
	RevLM        float64       `json:"revLm"`
	AvgPrice     float64       `json:"avgPrice"`
	DailyHistory []DatedQty    `json:"dailyHistory"`
	RecentOrders []RecentOrder `json:"recentOrders"`
	InInventory  bool          `json:"inInventory"`
	Warehouse    string        `json:"warehouse"`
	LastReceived string        `json:"lastReceived"`
}

// --- Admin / ingest surface ---

type TableCount struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// DataStatus is the admin snapshot of every ingest table plus the most
// recent successful email fetch.
type DataStatus struct {
	Tables    []TableCount `json:"tables"`
	LastFetch string       `json:"lastFetch,omitempty"`
}

// ImportResult describes what one workbook import did.
type ImportResult struct {
	Filename    string `json:"filename"`
	ReportType  string `json:"reportType"`
	TotalParsed int    `json:"totalParsed"`
	Inserted    int    `json:"inserted"`
	Updated     int    `json:"updated"`
	Unchanged   int    `json:"unchanged"`
	DateRange   string `json:"dateRange,omitempty"`
	Error       string `json:"error,omitempty"`
}

// PipelineResult summarizes one email fetch run.
type PipelineResult struct {
	EmailsScanned   int            `json:"emailsScanned"`
	ReportsImported int            `json:"reportsImported"`
	DaysBack        int            `json:"daysBack"`
	Reports         []ImportResult `json:"reports"`
	Errors          []string       `json:"errors,omitempty"`
	Skipped         bool           `json:"skipped"`
	SkipReason      string         `json:"skipReason,omitempty"`
}
