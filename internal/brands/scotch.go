package brands

import (
	"fmt"
	"strings"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const (
	scotchBase   = "https://scotch-soda.eu/cdn/shop/files"
	scotchParams = "?width=1800"

	// Byte length of the CDN's fixed "image coming soon" PNG, served with a
	// 200 status for missing renders.
	scotchPlaceholderSize = 26238
)

// Product shots first, model shots (_NM) last.
var scotchSuffixes = []string{
	"_R_10_FNT_C.png",
	"_R_10_FNT.png",
	"_R_10_DTL.png",
	"_R_10_BCK_C.png",
	"_FNT.png",
	"_BCK_C.png",
	"_BCK.png",
	"_DTL.png",
	"_DTL2.png",
	"_DTL3.png",
	"_1M.png",
	"_2M.png",
	"_3M.png",
	"_4M.png",
	"_5M.png",
}

func scotchSpec() Spec {
	return Spec{
		Name:        "scotch",
		Aliases:     []string{"scotch & soda", "scotch and soda", "ss"},
		Code:        "SS",
		MinBytes:    12000,
		Concurrency: 15,
		// The shop occasionally answers with HTML error pages typed as
		// images; decoding catches those.
		DecodeVerify:     true,
		PlaceholderSizes: []int{scotchPlaceholderSize},
		Headers: map[string]string{
			"Accept":  "image/png,image/jpeg,image/*;q=0.8,*/*;q=0.5",
			"Referer": "https://scotch-soda.eu/",
		},
		Format: formatScotchSKU,
	}
}

// formatScotchSKU: SS181118-401 -> 181118_401, SSU9B00856T-U139 ->
// U9B00856T_U139. Files are named Hires_PNG-{code}{suffix}.
func formatScotchSKU(sku string) (*Parsed, error) {
	sku = strings.TrimSpace(sku)
	if !strings.HasPrefix(sku, "SS") {
		return nil, fmt.Errorf("%w: %q, expected SS prefix", ErrInvalidSKU, sku)
	}
	rest := sku[2:]
	code := rest
	if idx := strings.LastIndex(rest, "-"); idx > 0 {
		code = rest[:idx] + "_" + rest[idx+1:]
	}

	parsed := &Parsed{FormattedSKU: sku, VendorCode: code}
	for _, suffix := range scotchSuffixes {
		parsed.Candidates = append(parsed.Candidates, models.Candidate{
			URL:      fmt.Sprintf("%s/Hires_PNG-%s%s%s", scotchBase, code, suffix, scotchParams),
			Metadata: map[string]string{"suffix": suffix},
		})
	}
	return parsed, nil
}
