package brands

import (
	"fmt"
	"strings"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const majeBase = "https://ca.maje.com/dw/image/v2/AAON_PRD/on/demandware.static/-/Sites-maje-master-catalog/default/"

func majeSpec() Spec {
	return Spec{
		Name:     "maje",
		Code:     "MA",
		MinBytes: 8000,
		Format:   formatMajeSKU,
	}
}

// formatMajeSKU enumerates the four hi-res model shots followed by the
// packshot, which the brand wants last.
func formatMajeSKU(sku string) (*Parsed, error) {
	sku = strings.TrimSpace(sku)
	baseCode := strings.TrimPrefix(sku, "MA")
	if baseCode == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSKU, sku)
	}
	prefix := "Maje_" + baseCode

	parsed := &Parsed{FormattedSKU: sku, VendorCode: prefix}
	for i := 1; i <= 4; i++ {
		parsed.Candidates = append(parsed.Candidates, models.Candidate{
			URL:      fmt.Sprintf("%simages/hi-res/%s_F_%d.jpg?sw=1520&sh=2000", majeBase, prefix, i),
			Metadata: map[string]string{"shot": fmt.Sprintf("model_%d", i)},
		})
	}
	parsed.Candidates = append(parsed.Candidates, models.Candidate{
		URL:      fmt.Sprintf("%simages/packshot/%s_F_P.jpg?sw=1520&sh=2000", majeBase, prefix),
		Metadata: map[string]string{"shot": "packshot"},
	})
	return parsed, nil
}
