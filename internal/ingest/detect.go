package ingest

import (
	"regexp"
	"strings"
)

// Report types, matching the upstream report filenames.
const (
	TypeDailySales   = "daily_sales"
	TypeOrderPnl     = "order_pnl"
	TypeInventory    = "inventory"
	TypeChannelSales = "channel_sales"
	TypeUnknown      = "unknown"
)

var filenameSeparators = regexp.MustCompile(`[_\s-]+`)

// DetectReportType classifies a workbook by its filename. Separators and
// case are ignored, so "Product_Quantity_Sold.xlsx" and
// "productquantitysold.xlsx" detect the same.
func DetectReportType(filename string) string {
	normalized := filenameSeparators.ReplaceAllString(strings.ToLower(filename), "")
	switch {
	case strings.Contains(normalized, "productquantitysold"),
		strings.Contains(normalized, "quantitysoldbyproductbyday"),
		strings.Contains(normalized, "quantitysoldbyproduct"):
		return TypeDailySales
	case strings.Contains(normalized, "profitbyorderdetail"):
		return TypeOrderPnl
	case strings.Contains(normalized, "inventorybyproductdetail"),
		strings.Contains(normalized, "inventoryproductdetailreport"):
		return TypeInventory
	case strings.Contains(normalized, "productqtybychanneldetail"):
		return TypeChannelSales
	}
	return TypeUnknown
}
