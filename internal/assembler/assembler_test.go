package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

func TestAssemble(t *testing.T) {
	images := []models.ValidatedImage{
		{URL: "https://cdn.test/a.jpg"},
		{URL: "https://cdn.test/b.jpg"},
		{URL: "https://cdn.test/c.jpg"},
	}

	out := Assemble("HB50490826 410", images)
	require.Len(t, out, 3)

	assert.Equal(t, 1, out[0].Index)
	assert.Equal(t, "HB50490826 410-1", out[0].Filename)
	assert.Equal(t, 3, out[2].Index)
	assert.Equal(t, "HB50490826 410-3", out[2].Filename)
}

func TestAssemble_Empty(t *testing.T) {
	assert.Empty(t, Assemble("X", nil))
}

func TestReorder(t *testing.T) {
	images := []models.ValidatedImage{
		{URL: "product-1", Metadata: map[string]string{"kind": "product"}},
		{URL: "model-1", Metadata: map[string]string{"kind": "model"}},
		{URL: "product-2", Metadata: map[string]string{"kind": "product"}},
		{URL: "model-2", Metadata: map[string]string{"kind": "model"}},
	}

	out := Reorder(images, func(img models.ValidatedImage) int {
		if img.Metadata["kind"] == "product" {
			return 1
		}
		return 0
	})

	// Model shots lead; within each rank the validation order survives.
	urls := []string{out[0].URL, out[1].URL, out[2].URL, out[3].URL}
	assert.Equal(t, []string{"model-1", "model-2", "product-1", "product-2"}, urls)
}
