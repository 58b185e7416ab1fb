// Package sku classifies warehouse SKU codes and sales channels. Everything
// here is pure string work: no I/O, no errors, garbage in gives a usable
// "Other" classification out.
package sku

import (
	"strings"

	"github.com/refurbops/opsdash/internal/domain"
)

// Parsed is the classification of one SKU code.
type Parsed struct {
	Prefix        string
	Category      string
	Grade         string
	Bucket        string
	ProductFamily string
}

// categoryByPrefix maps canonical SKU prefixes to product categories.
// prefixKeys keeps the match order stable; the first startswith hit wins,
// so e.g. "CAP1" resolves through "CA".
var categoryByPrefix = map[string]string{
	"PA": domain.CategoryPhone, "PKA": domain.CategoryPhone, "PKO": domain.CategoryPhone,
	"TA": domain.CategoryTablet, "TKA": domain.CategoryTablet, "TKO": domain.CategoryTablet,
	"LA": domain.CategoryLaptop, "LKA": domain.CategoryLaptop, "LKO": domain.CategoryLaptop,
	"AA": domain.CategoryAccessory, "AKA": domain.CategoryAccessory, "AKO": domain.CategoryAccessory,
	"CA": domain.CategoryAccessory, "CKA": domain.CategoryAccessory,
	"IA": domain.CategoryAccessory, "IKA": domain.CategoryAccessory,
	"HTR": domain.CategoryAccessory,
}

var prefixKeys = []string{
	"PA", "PKA", "PKO",
	"TA", "TKA", "TKO",
	"LA", "LKA", "LKO",
	"AA", "AKA", "AKO",
	"CA", "CKA",
	"IA", "IKA",
	"HTR",
}

// knownGrades is every grade segment the warehouse uses. Order is cosmetic;
// matching is exact on the uppercased last hyphen segment.
var knownGrades = []string{"CAP1", "CAP", "CA+", "CA", "CAB", "SD-", "SD", "SDB", "XF", "XC"}

const intakeSuffix = "-INTAKE"

// Parse classifies a raw SKU code. It never fails: unknown prefixes pass
// through verbatim with category Other, and an empty input yields an empty
// sellable classification.
func Parse(raw string) Parsed {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Parsed{Category: domain.CategoryOther, Bucket: domain.BucketSellable}
	}

	if strings.HasSuffix(strings.ToUpper(s), intakeSuffix) {
		base := s[:len(s)-len(intakeSuffix)]
		prefix := extractPrefix(base)
		return Parsed{
			Prefix:        prefix,
			Category:      categoryFor(prefix),
			Grade:         domain.GradeIntake,
			Bucket:        domain.BucketIntake,
			ProductFamily: base,
		}
	}

	prefix := extractPrefix(s)

	parts := strings.Split(s, "-")
	grade := ""
	family := s
	if len(parts) > 1 {
		last := strings.ToUpper(parts[len(parts)-1])
		if isKnownGrade(last) {
			grade = last
			family = strings.Join(parts[:len(parts)-1], "-")
		}
	}

	bucket := domain.BucketSellable
	if grade == "XF" || grade == "XC" {
		bucket = domain.BucketFailed
	}

	return Parsed{
		Prefix:        prefix,
		Category:      categoryFor(prefix),
		Grade:         grade,
		Bucket:        bucket,
		ProductFamily: family,
	}
}

// extractPrefix pulls the family prefix out of a SKU. A colon prefix is
// returned verbatim; otherwise the first hyphen segment is matched against
// the known prefixes (exact, then startswith) and canonicalized, or passed
// through untouched when nothing matches.
func extractPrefix(s string) string {
	if idx := strings.Index(s, ":"); idx > 0 {
		return s[:idx]
	}
	first := s
	if idx := strings.Index(s, "-"); idx >= 0 {
		first = s[:idx]
	}
	up := strings.ToUpper(first)
	for _, key := range prefixKeys {
		if up == key || strings.HasPrefix(up, key) {
			return key
		}
	}
	return first
}

func categoryFor(prefix string) string {
	if cat, ok := categoryByPrefix[prefix]; ok {
		return cat
	}
	return domain.CategoryOther
}

func isKnownGrade(g string) bool {
	for _, k := range knownGrades {
		if g == k {
			return true
		}
	}
	return false
}

// MapChannel normalizes the raw channel string of a P&L row to a reporting
// channel. Website orders are split by the fulfilling company.
func MapChannel(channelRaw, company string) string {
	ch := strings.TrimSpace(channelRaw)
	co := strings.ToUpper(strings.TrimSpace(company))

	switch ch {
	case "Website":
		if strings.Contains(co, "REEBELO") || strings.Contains(co, "REBELLO") {
			return "Rebello"
		}
		if strings.Contains(co, "SWAPPA") {
			return "Swappa"
		}
		return "BMP/Asurion"
	case "BackMarket":
		return "Back Market"
	case "eBayOrder":
		return "eBay"
	case "Local_Store", "Wholesale":
		return "Wholesale/B2B"
	case "NewEggdotcom":
		return "NewEgg"
	case "FBA":
		return "Amazon FBA"
	case "Amazon":
		return "Amazon"
	case "Walmart_Marketplace":
		return "Walmart"
	case "Tanga":
		return "Tanga"
	}
	if ch == "" {
		return "Unknown"
	}
	return ch
}
