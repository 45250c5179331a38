package brands

import (
	"fmt"
	"strings"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const (
	tommyBase   = "https://tommy-europe.scene7.com/is/image/TommyEurope"
	tommyParams = "?wid=781&fmt=jpeg&qlt=95%2C1&op_sharpen=0&resMode=sharp2&op_usm=1.5%2C.5%2C0%2C0&iccEmbed=0&printRes=72"
)

var tommySuffixes = []string{"main", "alternate1", "alternate2", "alternate3", "alternate4"}

func tommySpec() Spec {
	return Spec{
		Name:     "tommy",
		Aliases:  []string{"tommy hilfiger", "th"},
		Code:     "TH",
		MinBytes: 8000,
		Format:   formatTommySKU,
	}
}

// formatTommySKU maps TH prefix SKUs onto the Scene7 naming scheme:
// AM0AM13659-BDS becomes AM0AM13659_BDS with main/alternateN suffixes.
func formatTommySKU(sku string) (*Parsed, error) {
	sku = strings.TrimSpace(sku)
	baseCode := strings.ReplaceAll(sku, "TH", "")
	if baseCode == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSKU, sku)
	}
	code := strings.ReplaceAll(baseCode, "-", "_")

	parsed := &Parsed{
		FormattedSKU: "TH" + baseCode,
		VendorCode:   code,
	}
	for _, suffix := range tommySuffixes {
		parsed.Candidates = append(parsed.Candidates, models.Candidate{
			URL:      fmt.Sprintf("%s/%s_%s%s", tommyBase, code, suffix, tommyParams),
			Metadata: map[string]string{"suffix": suffix},
		})
	}
	return parsed, nil
}
