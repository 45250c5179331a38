package brands

import (
	"fmt"
	"strings"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const bossHost = "https://images.hugoboss.com/is/image/boss"

// Suffix families on the Hugo Boss Scene7 CDN: 2xx/3xx are model shots, 1xx
// are product-only shots. Model shots must lead the final photo order.
var bossSuffixes = []string{"200", "300", "340", "240", "210", "100", "110"}

func bossSpec() Spec {
	return Spec{
		Name:     "boss",
		Aliases:  []string{"hugo boss", "hb"},
		Code:     "HB",
		MinBytes: 8000,
		Format:   formatBossSKU,
		Rank:     bossRank,
	}
}

// formatBossSKU turns "HB50490826 410" into candidates for
// hbeu50490826_410_{suffix}.
func formatBossSKU(sku string) (*Parsed, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(sku, "HB", ""))
	parts := strings.Fields(trimmed)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q, expected HB<number> <color>", ErrInvalidSKU, sku)
	}
	num, color := parts[0], parts[len(parts)-1]

	parsed := &Parsed{
		FormattedSKU: fmt.Sprintf("HB%s %s", num, color),
		VendorCode:   fmt.Sprintf("hbeu%s_%s", num, color),
	}
	for _, suffix := range bossSuffixes {
		parsed.Candidates = append(parsed.Candidates, models.Candidate{
			URL:      fmt.Sprintf("%s/hbeu%s_%s_%s?$large$=&fit=crop,1&align=1,1&wid=1600", bossHost, num, color, suffix),
			Metadata: map[string]string{"suffix": suffix},
		})
	}
	return parsed, nil
}

// bossRank keeps product-only shots (1xx suffixes) behind model shots even if
// a product shot happened to validate at a lower submission index.
func bossRank(img models.ValidatedImage) int {
	if strings.HasPrefix(img.Metadata["suffix"], "1") {
		return 1
	}
	return 0
}
