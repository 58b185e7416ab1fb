package sku

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want Parsed
	}{
		{
			name: "phone with grade",
			in:   "PA-BLU-64-CA",
			want: Parsed{Prefix: "PA", Category: "Phone", Grade: "CA", Bucket: "sellable", ProductFamily: "PA-BLU-64"},
		},
		{
			name: "tablet failed unit",
			in:   "TA-SIL-128-XF",
			want: Parsed{Prefix: "TA", Category: "Tablet", Grade: "XF", Bucket: "failed", ProductFamily: "TA-SIL-128"},
		},
		{
			name: "laptop intake suffix",
			in:   "LA-GRA-256-INTAKE",
			want: Parsed{Prefix: "LA", Category: "Laptop", Grade: "INTAKE", Bucket: "intake", ProductFamily: "LA-GRA-256"},
		},
		{
			name: "lowercase intake suffix",
			in:   "pa-blu-intake",
			want: Parsed{Prefix: "PA", Category: "Phone", Grade: "INTAKE", Bucket: "intake", ProductFamily: "pa-blu"},
		},
		{
			name: "unknown prefix passes through",
			in:   "UNKNOWNPFX-RED",
			want: Parsed{Prefix: "UNKNOWNPFX", Category: "Other", Grade: "", Bucket: "sellable", ProductFamily: "UNKNOWNPFX-RED"},
		},
		{
			name: "empty input",
			in:   "",
			want: Parsed{Prefix: "", Category: "Other", Grade: "", Bucket: "sellable", ProductFamily: ""},
		},
		{
			name: "lowercase sku canonicalized",
			in:   "pa-blu-64-ca",
			want: Parsed{Prefix: "PA", Category: "Phone", Grade: "CA", Bucket: "sellable", ProductFamily: "pa-blu-64"},
		},
		{
			name: "prefix matched by startswith",
			in:   "CAPACITOR-XC",
			want: Parsed{Prefix: "CA", Category: "Accessory", Grade: "XC", Bucket: "failed", ProductFamily: "CAPACITOR"},
		},
		{
			name: "colon prefix kept verbatim",
			in:   "OEM:PA-CABLE",
			want: Parsed{Prefix: "OEM", Category: "Other", Grade: "", Bucket: "sellable", ProductFamily: "OEM:PA-CABLE"},
		},
		{
			name: "single segment is not a grade",
			in:   "CA",
			want: Parsed{Prefix: "CA", Category: "Accessory", Grade: "", Bucket: "sellable", ProductFamily: "CA"},
		},
		{
			// A trailing hyphen splits off an empty last segment, so the
			// dashed grade spellings never match and the code stays whole.
			name: "trailing dash is not a grade",
			in:   "PKA-GLD-256-SD-",
			want: Parsed{Prefix: "PKA", Category: "Phone", Grade: "", Bucket: "sellable", ProductFamily: "PKA-GLD-256-SD-"},
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  TA-BLA-64-CAB  ",
			want: Parsed{Prefix: "TA", Category: "Tablet", Grade: "CAB", Bucket: "sellable", ProductFamily: "TA-BLA-64"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tt.in)
			if got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapChannel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		channel string
		company string
		want    string
	}{
		{"Website", "Reebelo Inc", "Rebello"},
		{"Website", "rebello marketplace", "Rebello"},
		{"Website", "Swappa LLC", "Swappa"},
		{"Website", "Acme Retail", "BMP/Asurion"},
		{"Website", "", "BMP/Asurion"},
		{"BackMarket", "", "Back Market"},
		{"eBayOrder", "", "eBay"},
		{"Local_Store", "", "Wholesale/B2B"},
		{"Wholesale", "", "Wholesale/B2B"},
		{"NewEggdotcom", "", "NewEgg"},
		{"FBA", "", "Amazon FBA"},
		{"Amazon", "", "Amazon"},
		{"Walmart_Marketplace", "", "Walmart"},
		{"Tanga", "", "Tanga"},
		{"SomeNewChannel", "", "SomeNewChannel"},
		{"", "", "Unknown"},
		{"   ", "", "Unknown"},
	}

	for _, tt := range tests {
		got := MapChannel(tt.channel, tt.company)
		if got != tt.want {
			t.Errorf("MapChannel(%q, %q) = %q, want %q", tt.channel, tt.company, got, tt.want)
		}
	}
}
