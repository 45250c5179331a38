package brands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

var allSaintsSpaces = regexp.MustCompile(`\s+`)

func allSaintsSpec() Spec {
	return Spec{
		Name:    "allsaints",
		Aliases: []string{"all saints", "as"},
		Code:    "AS",
		// The media service answers with a rendered image behind a .json
		// path; existence is confirmed without pulling the body.
		HeadOnly:    true,
		Concurrency: 10,
		Format:      formatAllSaintsSKU,
	}
}

// formatAllSaintsSKU: ASM002PC-162 -> M002PC-162, ASW006DC DUSTY BLUE ->
// W006DC-DUSTY-BLUE. Gallery positions 1-5 are tried with the primary
// metadata variant first and the legacy variant as fallback.
func formatAllSaintsSKU(sku string) (*Parsed, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, fmt.Errorf("%w: empty sku", ErrInvalidSKU)
	}
	code := sku
	if strings.HasPrefix(sku, "ASM") || strings.HasPrefix(sku, "ASW") {
		code = sku[2:]
	}
	code = allSaintsSpaces.ReplaceAllString(strings.TrimSpace(code), "-")

	parsed := &Parsed{FormattedSKU: sku, VendorCode: code}
	for variant := 1; variant <= 2; variant++ {
		for pos := 1; pos <= 5; pos++ {
			parsed.Candidates = append(parsed.Candidates, models.Candidate{
				URL: allSaintsURL(code, pos, variant),
				Metadata: map[string]string{
					"position": strconv.Itoa(pos),
					"variant":  strconv.Itoa(variant),
				},
			})
		}
	}
	return parsed, nil
}

// allSaintsURL builds the media-service list URL whose embedded jq filter
// selects the gallery image at the given position.
func allSaintsURL(code string, position, variant int) string {
	externalID := "sfcc-gallery-position"
	if variant != 1 {
		externalID = "sfcc_pdp_gallery_position_prod"
	}
	filter := fmt.Sprintf(
		"fn_select:jq:first%%28.%%5B%%5D%%7Cif%%20has%%28%%22metadata%%22%%29%%20then%%20"+
			"select%%28any%%28.metadata%%5B%%5D%%3B%%20.external_id%%20%%3D%%3D%%20"+
			"%%22%s%%22%%20and%%20.value%%20%%3D%%3D%%20%d%%29%%29%%20else%%20empty%%20end%%29",
		externalID, position)
	return fmt.Sprintf(
		"https://media.i.allsaints.com/image/list/%s/f_auto,q_auto,dpr_auto,w_1674,h_2092,c_fit/%s.json?_i=AG",
		filter, code)
}
