// Command probe scrapes a single brand+SKU from the shell and prints the JSON
// result, for checking a brand's URL scheme without running the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/stylefeed/fashion-image-scraper/internal/brands"
	"github.com/stylefeed/fashion-image-scraper/internal/engine"
	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/lookup"
	"github.com/stylefeed/fashion-image-scraper/internal/ratelimit"
)

func main() {
	var (
		brand     = flag.String("brand", "", "Brand name (e.g. diesel, boss, liujo)")
		sku       = flag.String("sku", "", "Internal SKU (e.g. \"DSA06268 0AFAA 100\")")
		maxImages = flag.Int("max", 5, "Maximum images to return")
		timeout   = flag.Duration("timeout", 10*time.Second, "Per-candidate fetch timeout")
		verbose   = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	if *brand == "" || *sku == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client := &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 16}}
	probeFetcher := fetcher.New(client, logger)

	mem := lookup.NewMemStore()
	brands.SeedLookups(mem)

	registry := brands.NewRegistry(brands.Deps{
		Engine:       engine.New(probeFetcher, logger),
		Fetcher:      probeFetcher,
		Lookup:       mem,
		Limiter:      ratelimit.New(500*time.Millisecond, time.Second),
		Client:       client,
		FetchTimeout: *timeout,
		Logger:       logger,
	})

	scraper, err := registry.Get(*brand)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown brand %q; known: %v\n", *brand, registry.Brands())
		os.Exit(2)
	}

	result, err := scraper.Scrape(context.Background(), *sku, *maxImages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrape failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}
}
