package sku

import "strings"

// Token maps for reconstructing a human-readable product name from SKU
// segments. modelCodes is ordered; the first exact-or-startswith hit wins.
var modelCodes = []struct {
	code, name string
}{
	{"IPH", "iPhone"},
	{"IP", "iPhone"},
	{"IPD", "iPad"},
	{"IPDM", "iPad Mini"},
	{"IPDP", "iPad Pro"},
	{"IPDA", "iPad Air"},
	{"MBP", "MacBook Pro"},
	{"MBA", "MacBook Air"},
	{"MACM", "Mac Mini"},
	{"GS", "Galaxy S"},
	{"GN", "Galaxy Note"},
	{"GP", "Galaxy"},
	{"APMC", "Apple Watch"},
	{"AW", "Apple Watch"},
}

var manufacturerNames = map[string]string{
	"APPLE":    "Apple",
	"SAMSUNG":  "Samsung",
	"GOOGLE":   "Google",
	"MOTOROLA": "Motorola",
	"LG":       "LG",
}

// carrierNames maps carrier tokens; an empty value (HSO) drops the token.
var carrierNames = map[string]string{
	"UN":  "Unlocked",
	"VZ":  "Verizon",
	"AT":  "AT&T",
	"TM":  "T-Mobile",
	"SP":  "Sprint",
	"WI":  "WiFi",
	"HSO": "",
}

var storageNames = map[string]string{
	"64":  "64GB",
	"128": "128GB",
	"256": "256GB",
	"512": "512GB",
	"1T":  "1TB",
}

var colorNames = map[string]string{
	"BLU": "Blue", "BLA": "Black", "SIL": "Silver", "GLD": "Gold",
	"SPG": "Space Gray", "PUR": "Purple", "GRN": "Green", "RED": "Red",
	"WHT": "White", "YEL": "Yellow", "PIN": "Pink", "ROG": "Rose Gold",
	"GRA": "Graphite", "MID": "Midnight", "STA": "Starlight",
}

var gradeNames = map[string]string{
	"CAP1": "Premium 100%",
	"CAP":  "Premium",
	"CA+":  "Excellent",
	"CA":   "Good",
	"CAB":  "Good (Low Batt)",
	"SD":   "B-Grade",
	"SD-":  "C-Grade",
	"SDB":  "B-Grade (Low Batt)",
}

// BuildName reconstructs a display name from the SKU's hyphen tokens. It is
// the last-resort name source, used only when neither the inventory nor the
// sales reports ever named the SKU.
func BuildName(s string) string {
	parts := strings.Split(s, "-")
	tokens := make([]string, 0, len(parts))

	for _, p := range parts {
		upper := strings.ToUpper(p)
		if name, ok := manufacturerNames[upper]; ok {
			tokens = append(tokens, name)
			continue
		}
		matched := false
		for _, mc := range modelCodes {
			if upper == mc.code || strings.HasPrefix(upper, mc.code) {
				tokens = append(tokens, mc.name)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if name, ok := carrierNames[upper]; ok {
			if name != "" {
				tokens = append(tokens, name)
			}
			continue
		}
		if name, ok := storageNames[upper]; ok {
			tokens = append(tokens, name)
			continue
		}
		if name, ok := colorNames[upper]; ok {
			tokens = append(tokens, name)
			continue
		}
		if name, ok := gradeNames[upper]; ok {
			tokens = append(tokens, name)
			continue
		}
		if upper == "INTAKE" {
			continue
		}
		tokens = append(tokens, p)
	}

	if len(tokens) == 0 {
		return s
	}
	joined := strings.Join(tokens, " ")
	if joined == "" {
		return s
	}
	return joined
}
