package ingest

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/sku"
)

// channelPrefixes are the per-channel column groups of the qty-by-channel
// report, each contributing {prefix}_Units, {prefix}_Orders and
// {prefix}_Sales columns.
var channelPrefixes = []string{
	"Amazon", "BackMarket", "eBayOrder", "FBA", "Local_Store",
	"NewEggdotcom", "Tanga", "Walmart_Marketplace", "Website", "Wholesale",
}

// sheetRecords reads the first sheet of a workbook into header-keyed rows.
func sheetRecords(data []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

var moneyCleaner = strings.NewReplacer(",", "", "$", "")

// parseMoney coerces a cell to a 2-decimal amount. Anything unparseable is 0.
func parseMoney(raw string) decimal.Decimal {
	s := strings.TrimSpace(moneyCleaner.Replace(raw))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}

func parseCount(raw string) int {
	s := strings.TrimSpace(moneyCleaner.Replace(raw))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseDate normalizes a cell to YYYY-MM-DD. Handles ISO strings, US-style
// dates, the formats excelize renders date cells in, and raw Excel serial
// numbers. Returns "" when nothing matches.
func parseDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if isoDatePrefix.MatchString(s) {
		return s[:10]
	}
	for _, layout := range []string{"1/2/2006", "1/2/06", "01-02-06", "2-Jan-06", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelEpoch.Add(time.Duration(serial * float64(24*time.Hour))).Format("2006-01-02")
	}
	return ""
}

// ParseDailySales reads the quantity-sold-by-day report. Rows sharing a
// (ship date, SKU) key are summed, matching how the report repeats lines
// per listing. The second return is the covered date range, "none" when
// the sheet held no usable rows.
func ParseDailySales(data []byte) ([]domain.DailySale, string, error) {
	records, err := sheetRecords(data)
	if err != nil {
		return nil, "", err
	}

	minDate, maxDate := "", ""
	index := make(map[string]int)
	rows := make([]domain.DailySale, 0, len(records))

	for _, record := range records {
		shipDate := parseDate(record["Ship Date"])
		code := strings.TrimSpace(record["SKU"])
		if shipDate == "" || code == "" {
			continue
		}
		if minDate == "" || shipDate < minDate {
			minDate = shipDate
		}
		if shipDate > maxDate {
			maxDate = shipDate
		}

		row := domain.DailySale{
			ShipDate:     shipDate,
			SKU:          code,
			ProductName:  strings.TrimSpace(record["Product Name"]),
			Orders:       parseCount(record["Orders"]),
			QtySold:      parseCount(record["Qty Sold"]),
			Subtotal:     parseMoney(record["SubTotal"]),
			TotalSales:   parseMoney(record["Total Sales"]),
			AvailableQty: parseCount(record["Available Qty"]),
		}

		key := shipDate + "|" + code
		if i, ok := index[key]; ok {
			agg := &rows[i]
			agg.Orders += row.Orders
			agg.QtySold += row.QtySold
			agg.Subtotal = agg.Subtotal.Add(row.Subtotal)
			agg.TotalSales = agg.TotalSales.Add(row.TotalSales)
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}

	dateRange := "none"
	if len(rows) > 0 {
		dateRange = minDate + " to " + maxDate
	}
	return rows, dateRange, nil
}

// ParseOrderPnl reads the profit-by-order report, one row per order line.
func ParseOrderPnl(data []byte) ([]domain.OrderPnl, string, error) {
	records, err := sheetRecords(data)
	if err != nil {
		return nil, "", err
	}

	minDate, maxDate := "", ""
	rows := make([]domain.OrderPnl, 0, len(records))

	for _, record := range records {
		shipDate := parseDate(record["Ship Date"])
		orderID := strings.TrimSpace(record["Order #"])
		if shipDate == "" || orderID == "" {
			continue
		}
		if minDate == "" || shipDate < minDate {
			minDate = shipDate
		}
		if shipDate > maxDate {
			maxDate = shipDate
		}

		channelRaw := strings.TrimSpace(record["Channel"])
		company := strings.TrimSpace(record["Company"])

		var orderDate *string
		if d := parseDate(record["Order Date"]); d != "" {
			orderDate = &d
		}

		rows = append(rows, domain.OrderPnl{
			OrderID:        orderID,
			OrderDate:      orderDate,
			ShipDate:       shipDate,
			ChannelRaw:     channelRaw,
			Company:        company,
			Channel:        sku.MapChannel(channelRaw, company),
			Qty:            parseCount(record["Qty"]),
			Subtotal:       parseMoney(record["SubTotal"]),
			GrandTotal:     parseMoney(record["Grand Total"]),
			ItemsCost:      parseMoney(record["Items Cost"]),
			ShippingCost:   parseMoney(record["Shipping Cost"]),
			Commission:     parseMoney(record["Commission"]),
			TransactionFee: parseMoney(record["Transaction Fee"]),
			PostingFee:     parseMoney(record["Posting Fee"]),
			TotalFees:      parseMoney(record["Total Fees"]),
			AccrualProfit:  parseMoney(record["Accrual Profit"]),
			CashProfit:     parseMoney(record["Cash Profit"]),
			AccrualMargin:  parseMoney(record["Accrual Profit Margin(%)"]),
		})
	}

	dateRange := "none"
	if len(rows) > 0 {
		dateRange = minDate + " to " + maxDate
	}
	return rows, dateRange, nil
}

// ParseInventory reads the inventory detail report. Only the main warehouse
// counts; FBA and staging locations are ignored. Every row is tagged with
// the parsed SKU classification and the given snapshot date.
func ParseInventory(data []byte, snapshotDate string) ([]domain.InventoryItem, error) {
	records, err := sheetRecords(data)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.InventoryItem, 0, len(records))
	for _, record := range records {
		warehouse := strings.TrimSpace(record["Warehouse"])
		if warehouse != "AW Main" {
			continue
		}
		code := strings.TrimSpace(record["SKU"])
		if code == "" {
			continue
		}

		parsed := sku.Parse(code)
		rows = append(rows, domain.InventoryItem{
			SKU:           code,
			ProductName:   strings.TrimSpace(record["Product Name"]),
			Warehouse:     warehouse,
			Physical:      parseCount(record["Physical"]),
			Reserved:      parseCount(record["Reserved"]),
			Available:     parseCount(record["Available"]),
			Cost:          parseMoney(record["Cost"]),
			Value:         parseMoney(record["Value"]),
			ListPrice:     parseMoney(record["List Price"]),
			SitePrice:     parseMoney(record["Site Price"]),
			LastReceived:  strings.TrimSpace(record["Last Received"]),
			Prefix:        parsed.Prefix,
			Category:      parsed.Category,
			Grade:         parsed.Grade,
			Bucket:        parsed.Bucket,
			ProductFamily: parsed.ProductFamily,
			SnapshotDate:  snapshotDate,
		})
	}
	return rows, nil
}

// ParseChannelSales reads the qty-by-channel report. Channels with no units
// and no orders for a SKU are dropped from its channel map.
func ParseChannelSales(data []byte, reportDate string) ([]domain.ChannelSale, error) {
	records, err := sheetRecords(data)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ChannelSale, 0, len(records))
	for _, record := range records {
		code := strings.TrimSpace(record["Product"])
		if code == "" {
			continue
		}

		channelData := domain.ChannelStats{}
		for _, ch := range channelPrefixes {
			units := parseCount(record[ch+"_Units"])
			orders := parseCount(record[ch+"_Orders"])
			if units > 0 || orders > 0 {
				channelData[ch] = domain.ChannelStat{
					Units:  units,
					Orders: orders,
					Sales:  parseMoney(record[ch+"_Sales"]).InexactFloat64(),
				}
			}
		}

		rows = append(rows, domain.ChannelSale{
			ReportDate:  reportDate,
			SKU:         code,
			ProductName: strings.TrimSpace(record["ProductName"]),
			TotalUnits:  parseCount(record["TotalUnits"]),
			TotalOrders: parseCount(record["TotalOrders"]),
			TotalSales:  parseMoney(record["TotalSales"]),
			ChannelData: channelData,
		})
	}
	return rows, nil
}
