package identity

import "testing"

func TestResolvePriority(t *testing.T) {
	cases := []struct {
		name     string
		brand    string
		title    string
		sku      string
		tags     []string
		wantKey  string
		wantNorm string
		wantConf float64
		wantSrc  string
	}{
		{
			name:     "sku wins over everything",
			brand:    "New Balance",
			title:    "M2002RDD Protection Pack",
			sku:      "M2002RDD",
			tags:     []string{"sneakers", "GEL1130"},
			wantKey:  "M2002RDD",
			wantNorm: "new-balance:m2002rdd",
			wantConf: 1.0,
			wantSrc:  "sku",
		},
		{
			name:     "tag code when sku missing",
			brand:    "Asics",
			title:    "러닝화 신상",
			sku:      "",
			tags:     []string{"running", "GEL1130"},
			wantKey:  "GEL1130",
			wantNorm: "asics:gel1130",
			wantConf: 0.8,
			wantSrc:  "tag",
		},
		{
			name:     "title code when tags empty",
			brand:    "New Balance",
			title:    "New Balance M2002RDD Grey",
			sku:      "",
			wantKey:  "M2002RDD",
			wantNorm: "new-balance:m2002rdd",
			wantConf: 0.7,
			wantSrc:  "title",
		},
		{
			name:     "slug fallback",
			brand:    "Our Legacy",
			title:    "Camion Boot Black Leather",
			sku:      "",
			wantKey:  "camion-boot-black-leather",
			wantNorm: "our-legacy:camion-boot-black-leather",
			wantConf: 0.5,
			wantSrc:  "slug",
		},
		{
			name:     "size code in title excluded",
			brand:    "Nike",
			title:    "Air Force EU425 Edition",
			sku:      "",
			wantKey:  "air-force-eu425-edition",
			wantNorm: "nike:air-force-eu425-edition",
			wantConf: 0.5,
			wantSrc:  "slug",
		},
		{
			name:     "descriptive sku without model code falls to slug",
			brand:    "Nike",
			title:    "Club Tee Blue",
			sku:      "SHIRT-BLUE",
			wantKey:  "club-tee-blue",
			wantNorm: "nike:club-tee-blue",
			wantConf: 0.5,
			wantSrc:  "slug",
		},
		{
			name:     "model code extracted from noisy sku",
			brand:    "New Balance",
			title:    "2002R Protection Pack",
			sku:      "NB-M2002RDD-GRY",
			wantKey:  "M2002RDD",
			wantNorm: "new-balance:m2002rdd",
			wantConf: 1.0,
			wantSrc:  "sku",
		},
		{
			name:     "hyphen inside model code stripped",
			brand:    "Adidas",
			title:    "Yeezy Boost Zebra",
			sku:      "CP-9654",
			wantKey:  "CP9654",
			wantNorm: "adidas:cp9654",
			wantConf: 1.0,
			wantSrc:  "sku",
		},
		{
			name:     "numeric-only sku rejected falls to slug",
			brand:    "Musinsa Standard",
			title:    "Wide Denim Pants",
			sku:      "3281904",
			wantKey:  "wide-denim-pants",
			wantNorm: "musinsa-standard:wide-denim-pants",
			wantConf: 0.5,
			wantSrc:  "slug",
		},
		{
			name:     "season sku rejected falls to title",
			brand:    "Adidas",
			title:    "Yeezy Boost CP9654 Zebra",
			sku:      "FW24001",
			wantKey:  "CP9654",
			wantNorm: "adidas:cp9654",
			wantConf: 0.7,
			wantSrc:  "title",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k := Resolve(tc.brand, tc.title, tc.sku, tc.tags)
			if k.ProductKey != tc.wantKey {
				t.Errorf("ProductKey = %q, want %q", k.ProductKey, tc.wantKey)
			}
			if k.NormalizedKey != tc.wantNorm {
				t.Errorf("NormalizedKey = %q, want %q", k.NormalizedKey, tc.wantNorm)
			}
			if k.Confidence != tc.wantConf {
				t.Errorf("Confidence = %v, want %v", k.Confidence, tc.wantConf)
			}
			if k.Source != tc.wantSrc {
				t.Errorf("Source = %q, want %q", k.Source, tc.wantSrc)
			}
		})
	}
}

func TestBrandSlug(t *testing.T) {
	if got := BrandSlug("Comme des Garçons"); got != "comme-des-garcons" {
		t.Errorf("BrandSlug = %q", got)
	}
	if got := BrandSlug(""); got != "unknown" {
		t.Errorf("BrandSlug empty = %q", got)
	}
}

func TestResolveBrandSlug(t *testing.T) {
	cases := []struct {
		name       string
		linked     string
		channelKey string
		vendor     string
		want       string
	}{
		{"linked brand wins", "nike", "adidas:dunk-low", "Adidas", "nike"},
		{"channel key prefix", "", "adidas:dunk-low", "Nike", "adidas"},
		{"unknown prefix skipped", "", "unknown:p1234", "Nike", "nike"},
		{"vendor fallback", "", "p1234", "New Balance", "new-balance"},
		{"nothing resolvable", "", "unknown:p1234", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveBrandSlug(tc.linked, tc.channelKey, tc.vendor); got != tc.want {
				t.Errorf("ResolveBrandSlug = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizedWith(t *testing.T) {
	k := Resolve("", "New Balance M2002RDD Grey", "", nil)
	if got := k.NormalizedWith("new-balance"); got != "new-balance:m2002rdd" {
		t.Errorf("NormalizedWith = %q", got)
	}
	if got := k.NormalizedWith(""); got != "" {
		t.Errorf("NormalizedWith empty slug = %q, want empty", got)
	}
}

func TestTitleSlugTruncation(t *testing.T) {
	k := Resolve("b", "an extremely long product title that would otherwise produce an unbounded key string", "", nil)
	if len(k.ProductKey) > slugMaxLen {
		t.Errorf("slug not truncated: %d runes", len(k.ProductKey))
	}
}
