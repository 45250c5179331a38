package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), mr.Addr(), "", 0, ttl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	result := models.NewScrapeResult("DSA06268 0AFAA 100", "DSA06268_0AFAA_100")
	result.BrandCode = "DS"
	result.Images = []models.ValidatedImage{
		{URL: "https://cdn.test/1.jpg", Index: 1, Filename: "DSA06268_0AFAA_100-1"},
	}
	result.Count = 1

	key := Key("diesel", result.FormattedSKU, 5)
	c.Set(ctx, key, result)

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, result, got)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	_, ok := c.Get(context.Background(), Key("diesel", "nope", 5))
	assert.False(t, ok)
}

func TestCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	key := Key("boss", "HB1 410", 5)
	c.Set(ctx, key, models.NewScrapeResult("HB1 410", "HB1 410"))

	_, ok := c.Get(ctx, key)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestCache_DropsCorruptEntries(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	key := Key("boss", "HB1 410", 5)
	require.NoError(t, mr.Set(key, "{not json"))

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	// The poisoned entry is evicted so the next scrape can repopulate it.
	assert.False(t, mr.Exists(key))
}

func TestCache_NilReceiverNoOps(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	c.Set(ctx, "k", models.NewScrapeResult("x", "x"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestKey_IncludesMaxImages(t *testing.T) {
	assert.NotEqual(t, Key("boss", "HB1", 3), Key("boss", "HB1", 5))
	assert.Equal(t, "scrape:boss:HB1:5", Key("boss", "HB1", 5))
}
