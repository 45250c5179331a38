package brands

import (
	"fmt"
	"strings"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const (
	dieselBase   = "https://shop.diesel.com/dw/image/v2/BBLG_PRD/on/demandware.static/-/Sites-diesel-master-catalog/default/images/large"
	dieselParams = "?sw=1200&sh=1600&sm=fit"
)

// View letters in the brand's priority order.
var dieselViews = []string{"C", "E", "F", "I", "B", "D", "A", "G", "H"}

// DSA/DSX/DSY encode a single-letter article prefix; other DS SKUs carry the
// article code verbatim after the DS.
var dieselPrefixes = map[string]string{"DSA": "A", "DSX": "X", "DSY": "Y"}

func dieselSpec() Spec {
	return Spec{
		Name:        "diesel",
		Aliases:     []string{"ds"},
		Code:        "DS",
		MinBytes:    20000,
		Concurrency: 9,
		Format:      formatDieselSKU,
	}
}

// formatDieselSKU: "DSA06268 0AFAA 100" -> A06268_0AFAA_100 and one candidate
// per view letter.
func formatDieselSKU(sku string) (*Parsed, error) {
	parts := strings.Fields(strings.ToUpper(strings.TrimSpace(sku)))
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "DS") {
		return nil, fmt.Errorf("%w: %q, expected DSA06268 0AFAA 100", ErrInvalidSKU, sku)
	}

	article := parts[0][2:]
	if prefix, ok := dieselPrefixes[parts[0][:3]]; ok {
		article = prefix + parts[0][3:]
	}
	code := fmt.Sprintf("%s_%s_%s", article, parts[1], parts[2])

	parsed := &Parsed{
		FormattedSKU: strings.Join(parts, "_"),
		VendorCode:   code,
	}
	for _, view := range dieselViews {
		parsed.Candidates = append(parsed.Candidates, models.Candidate{
			URL:      fmt.Sprintf("%s/%s_%s.jpg%s", dieselBase, code, view, dieselParams),
			Metadata: map[string]string{"view": view},
		})
	}
	return parsed, nil
}
