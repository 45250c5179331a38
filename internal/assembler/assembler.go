// Package assembler turns engine output into response-ready image entries.
// Anything that changes presentation order (category reshuffles, packshot
// placement) lives here, strictly after the engine's deterministic ordering.
package assembler

import (
	"fmt"
	"sort"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

// Assemble re-indexes images 1..n and attaches {formatted_sku}-{index}
// filenames. The slice is modified in place and returned for chaining.
func Assemble(formattedSKU string, images []models.ValidatedImage) []models.ValidatedImage {
	for i := range images {
		images[i].Index = i + 1
		images[i].Filename = fmt.Sprintf("%s-%d", formattedSKU, i+1)
	}
	return images
}

// Reorder stable-sorts images by a caller-supplied category rank (lower rank
// first) while preserving validation order within a rank. Brands that need
// product-only shots moved behind model shots apply this before Assemble.
func Reorder(images []models.ValidatedImage, rank func(models.ValidatedImage) int) []models.ValidatedImage {
	sort.SliceStable(images, func(i, j int) bool {
		return rank(images[i]) < rank(images[j])
	})
	return images
}
