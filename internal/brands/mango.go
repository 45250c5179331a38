package brands

import (
	"fmt"
	"regexp"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const (
	mangoBase   = "https://shop.mango.com/assets/rcs/pics/static/T2/fotos"
	mangoParams = "?imwidth=2048&imdensity=1"
)

var mangoSKURe = regexp.MustCompile(`(?i)^MNG(\d+)-([A-Z0-9]+)$`)

func mangoSpec() Spec {
	return Spec{
		Name:        "mango",
		Aliases:     []string{"mng"},
		Code:        "MNG",
		MinBytes:    8000,
		Concurrency: 15, // 19 candidates per SKU
		Format:      formatMangoSKU,
	}
}

// formatMangoSKU maps MNG27011204-TS to 27011204_TS and enumerates the full
// candidate space in the brand's photo order: packshot, outfit shots 01-04,
// R and B variants, detail shots D1-D12.
func formatMangoSKU(sku string) (*Parsed, error) {
	m := mangoSKURe.FindStringSubmatch(sku)
	if m == nil {
		return nil, fmt.Errorf("%w: %q, expected MNG27011204-TS", ErrInvalidSKU, sku)
	}
	code := m[1] + "_" + m[2]

	parsed := &Parsed{FormattedSKU: sku, VendorCode: code}
	add := func(url, shot string) {
		parsed.Candidates = append(parsed.Candidates, models.Candidate{
			URL:      url,
			Metadata: map[string]string{"shot": shot},
		})
	}

	add(fmt.Sprintf("%s/S/%s.jpg%s", mangoBase, code, mangoParams), "packshot")
	for i := 1; i <= 4; i++ {
		add(fmt.Sprintf("%s/outfit/S/%s-99999999_%02d.jpg%s", mangoBase, code, i, mangoParams),
			fmt.Sprintf("outfit_%02d", i))
	}
	add(fmt.Sprintf("%s/S/%s_R.jpg%s", mangoBase, code, mangoParams), "r")
	add(fmt.Sprintf("%s/S/%s_B.jpg%s", mangoBase, code, mangoParams), "b")
	for d := 1; d <= 12; d++ {
		add(fmt.Sprintf("%s/S/%s_D%d.jpg%s", mangoBase, code, d, mangoParams),
			fmt.Sprintf("detail_%d", d))
	}
	return parsed, nil
}
