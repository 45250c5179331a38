package brands

import (
	"fmt"
	"strings"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const boggiBase = "https://ecdn.speedsize.com/90526ea8-ead7-46cf-ba09-f3be94be750a/www.boggi.com/dw/image/v2/BBBS_PRD/on/demandware.static/-/Sites-BoggiCatalog/default/images/hi-res/"

func boggiSpec() Spec {
	return Spec{
		Name:     "boggi",
		Aliases:  []string{"boggi milano", "bo"},
		Code:     "BO",
		MinBytes: 8000,
		Format:   formatBoggiSKU,
	}
}

// formatBoggiSKU: BO25A014901-NAVY splits into article BO25A014901 and color;
// the CDN names files {article}.jpeg, {article}_1.jpeg, {article}_2.jpeg...
func formatBoggiSKU(sku string) (*Parsed, error) {
	sku = strings.TrimSpace(sku)
	idx := strings.LastIndex(sku, "-")
	if idx <= 0 {
		return nil, fmt.Errorf("%w: %q, expected BO25A014901-NAVY", ErrInvalidSKU, sku)
	}
	article, color := sku[:idx], sku[idx+1:]

	parsed := &Parsed{FormattedSKU: sku, VendorCode: article}
	for i := 0; i <= 7; i++ {
		file := article + ".jpeg"
		if i > 0 {
			file = fmt.Sprintf("%s_%d.jpeg", article, i)
		}
		parsed.Candidates = append(parsed.Candidates, models.Candidate{
			URL:      boggiBase + file,
			Metadata: map[string]string{"color": color},
		})
	}
	return parsed, nil
}
