package brands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylefeed/fashion-image-scraper/internal/engine"
	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

// fakeCDN serves fixed bodies by path, standing in for a vendor image host.
func fakeCDN(t *testing.T, bodies map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testDeps(t *testing.T, srv *httptest.Server) Deps {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	f := fetcher.New(srv.Client(), logger)
	return Deps{
		Engine:       engine.New(f, logger),
		Fetcher:      f,
		Client:       srv.Client(),
		FetchTimeout: 5 * time.Second,
		Logger:       logger,
	}
}

func specFor(srv *httptest.Server, paths ...string) Spec {
	return Spec{
		Name:     "testbrand",
		Code:     "TB",
		MinBytes: 100,
		Format: func(sku string) (*Parsed, error) {
			parsed := &Parsed{FormattedSKU: sku, VendorCode: "tb-" + sku}
			for _, p := range paths {
				parsed.Candidates = append(parsed.Candidates, models.Candidate{URL: srv.URL + p})
			}
			return parsed, nil
		},
	}
}

func TestTemplateScraper_Scrape(t *testing.T) {
	shotA := bytes.Repeat([]byte{0x01}, 5000)
	shotB := bytes.Repeat([]byte{0x02}, 5000)
	shotC := bytes.Repeat([]byte{0x03}, 5000)

	srv := fakeCDN(t, map[string][]byte{
		"/a.jpg":    shotA,
		"/b.jpg":    shotB,
		"/a2.jpg":   shotA, // same bytes as /a.jpg
		"/c.jpg":    shotC,
		"/tiny.jpg": []byte("x"),
	})

	s := newTemplateScraper(specFor(srv, "/a.jpg", "/missing.jpg", "/b.jpg", "/a2.jpg", "/tiny.jpg", "/c.jpg"), testDeps(t, srv))

	result, err := s.Scrape(context.Background(), "TB123", 5)
	require.NoError(t, err)

	assert.Equal(t, "TB123", result.SKU)
	assert.Equal(t, "TB", result.BrandCode)
	assert.Equal(t, "tb-TB123", result.VendorCode)
	assert.Empty(t, result.Error)

	// /missing.jpg 404s, /a2.jpg dedups against /a.jpg, /tiny.jpg is under
	// the size floor. Survivors keep submission order.
	require.Equal(t, 3, result.Count)
	assert.Contains(t, result.Images[0].URL, "/a.jpg")
	assert.Contains(t, result.Images[1].URL, "/b.jpg")
	assert.Contains(t, result.Images[2].URL, "/c.jpg")

	assert.Equal(t, "TB123-1", result.Images[0].Filename)
	assert.Equal(t, "TB123-2", result.Images[1].Filename)
	assert.Equal(t, "TB123-3", result.Images[2].Filename)
}

func TestTemplateScraper_MaxImagesCap(t *testing.T) {
	bodies := make(map[string][]byte)
	paths := []string{"/1.jpg", "/2.jpg", "/3.jpg", "/4.jpg"}
	for i, p := range paths {
		bodies[p] = bytes.Repeat([]byte{byte(i + 1)}, 3000)
	}
	srv := fakeCDN(t, bodies)

	s := newTemplateScraper(specFor(srv, paths...), testDeps(t, srv))

	result, err := s.Scrape(context.Background(), "TB1", 2)
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Contains(t, result.Images[0].URL, "/1.jpg")
	assert.Contains(t, result.Images[1].URL, "/2.jpg")
}

func TestTemplateScraper_NoImagesFound(t *testing.T) {
	srv := fakeCDN(t, nil) // everything 404s

	s := newTemplateScraper(specFor(srv, "/1.jpg", "/2.jpg"), testDeps(t, srv))

	result, err := s.Scrape(context.Background(), "TB1", 5)
	require.NoError(t, err)
	assert.Equal(t, "No images found", result.Error)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Images)
}

func TestTemplateScraper_RankReordersBeforeNaming(t *testing.T) {
	bodies := map[string][]byte{
		"/product.jpg": bytes.Repeat([]byte{0x01}, 3000),
		"/model.jpg":   bytes.Repeat([]byte{0x02}, 3000),
	}
	srv := fakeCDN(t, bodies)

	spec := Spec{
		Name:     "testbrand",
		Code:     "TB",
		MinBytes: 100,
		Format: func(sku string) (*Parsed, error) {
			return &Parsed{
				FormattedSKU: sku,
				Candidates: []models.Candidate{
					{URL: srv.URL + "/product.jpg", Metadata: map[string]string{"kind": "product"}},
					{URL: srv.URL + "/model.jpg", Metadata: map[string]string{"kind": "model"}},
				},
			}, nil
		},
		Rank: func(img models.ValidatedImage) int {
			if img.Metadata["kind"] == "product" {
				return 1
			}
			return 0
		},
	}

	s := newTemplateScraper(spec, testDeps(t, srv))
	result, err := s.Scrape(context.Background(), "TB1", 5)
	require.NoError(t, err)

	require.Equal(t, 2, result.Count)
	assert.Contains(t, result.Images[0].URL, "/model.jpg")
	assert.Equal(t, 1, result.Images[0].Index)
	assert.Equal(t, "TB1-1", result.Images[0].Filename)
	assert.Contains(t, result.Images[1].URL, "/product.jpg")
}

func TestTemplateScraper_ConcurrencyDefaults(t *testing.T) {
	// A slow CDN that tracks how many probes are in flight at once.
	newCountingServer := func(t *testing.T) (*httptest.Server, func() int) {
		var mu sync.Mutex
		inFlight, peak := 0, 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()
			time.Sleep(15 * time.Millisecond)
			mu.Lock()
			inFlight--
			mu.Unlock()
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(append(bytes.Repeat([]byte{0x01}, 2000), r.URL.Path...))
		}))
		t.Cleanup(srv.Close)
		return srv, func() int {
			mu.Lock()
			defer mu.Unlock()
			return peak
		}
	}

	paths := make([]string, 12)
	for i := range paths {
		paths[i] = fmt.Sprintf("/%02d.jpg", i)
	}

	t.Run("shared default applies when the spec sets none", func(t *testing.T) {
		srv, peak := newCountingServer(t)
		deps := testDeps(t, srv)
		deps.Concurrency = 2

		s := newTemplateScraper(specFor(srv, paths...), deps)
		_, err := s.Scrape(context.Background(), "TB1", 5)
		require.NoError(t, err)
		assert.LessOrEqual(t, peak(), 2)
	})

	t.Run("spec concurrency overrides the shared default", func(t *testing.T) {
		srv, peak := newCountingServer(t)
		deps := testDeps(t, srv)
		deps.Concurrency = 2

		spec := specFor(srv, paths...)
		spec.Concurrency = 4
		s := newTemplateScraper(spec, deps)
		_, err := s.Scrape(context.Background(), "TB1", 5)
		require.NoError(t, err)
		assert.LessOrEqual(t, peak(), 4)
		assert.Greater(t, peak(), 2)
	})
}

func TestTemplateScraper_InvalidSKUPropagates(t *testing.T) {
	srv := fakeCDN(t, nil)
	deps := testDeps(t, srv)

	s := newTemplateScraper(bossSpec(), deps)
	_, err := s.Scrape(context.Background(), "garbage", 5)
	assert.ErrorIs(t, err, ErrInvalidSKU)
}
