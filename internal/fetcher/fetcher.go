package fetcher

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultUserAgent mimics a desktop browser; several vendor CDNs serve
	// different content (or nothing) to non-browser clients.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	defaultTimeout       = 10 * time.Second
	defaultMaxBytes      = 8 * 1024 * 1024
	defaultFallbackBytes = 10000

	maxAttempts  = 3
	retryBackoff = 200 * time.Millisecond

	// placeholderDistance is the maximum difference-hash Hamming distance at
	// which a body counts as a known placeholder image.
	placeholderDistance = 5
)

// Rule is the per-batch acceptance policy a brand handler supplies. The zero
// value is usable: GET, 10s timeout, no minimum size, no placeholder sets.
type Rule struct {
	Method        string            // http.MethodGet (default) or http.MethodHead
	Timeout       time.Duration     // per-attempt timeout
	MinBytes      int               // bodies of exactly MinBytes or fewer are rejected
	FallbackBytes int               // size that corroborates an image when Content-Type is missing or wrong
	MaxBytes      int64             // response read cap
	Headers       map[string]string // extra request headers (Referer, Accept, ...)
	UserAgent     string            // overrides DefaultUserAgent
	KeepBody      bool              // retain body bytes on the outcome
	DecodeVerify  bool              // body must decode as jpeg/png/gif/webp

	// Placeholder exclusion: some CDNs answer missing products with a fixed
	// "image not available" graphic and a 200 status. A body matching any of
	// these is rejected even though it is a well-formed image.
	PlaceholderSizes  []int
	PlaceholderHashes []string
	PlaceholderImages []*goimagehash.ImageHash
}

func (r Rule) withDefaults() Rule {
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	if r.Timeout <= 0 {
		r.Timeout = defaultTimeout
	}
	if r.FallbackBytes <= 0 {
		r.FallbackBytes = defaultFallbackBytes
	}
	if r.MaxBytes <= 0 {
		r.MaxBytes = defaultMaxBytes
	}
	if r.UserAgent == "" {
		r.UserAgent = DefaultUserAgent
	}
	return r
}

// Outcome is the result of probing one candidate URL. A failed probe is a
// normal value with Valid=false, never an error.
type Outcome struct {
	URL         string
	Valid       bool
	Hash        string // SHA-1 of the body; SHA-1 of the URL in HEAD mode
	Size        int
	ContentType string
	Body        []byte // only set when the rule asks for it
}

// Fetcher probes candidate URLs against an acceptance rule. The HTTP client is
// injected and shared read-only across concurrent probes; Fetcher itself holds
// no mutable state.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

func New(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, logger: logger.With("component", "fetcher")}
}

// Probe issues a single GET or HEAD for url and applies the rule. Transport
// errors, bad statuses and rule rejections all surface as Valid=false.
func (f *Fetcher) Probe(ctx context.Context, url string, rule Rule) Outcome {
	rule = rule.withDefaults()
	out := Outcome{URL: url}

	resp, body, ok := f.request(ctx, url, rule)
	if !ok {
		return out
	}

	out.ContentType = contentType(resp)

	if rule.Method == http.MethodHead {
		// Without a body only the status and headers can vouch for the
		// image, and dedup degrades to URL identity.
		cl := int(resp.ContentLength)
		if cl > 0 && cl <= rule.MinBytes {
			return out
		}
		out.Size = cl
		out.Valid = true
		out.Hash = hashBytes([]byte(url))
		return out
	}

	out.Size = len(body)
	if !accepted(body, out.ContentType, rule) {
		return out
	}
	if rejectedPlaceholder(body, rule) {
		f.logger.Debug("placeholder image excluded", "url", url, "size", len(body))
		return out
	}
	if rule.DecodeVerify {
		if _, _, err := image.Decode(bytes.NewReader(body)); err != nil {
			f.logger.Debug("decode verification failed", "url", url, "error", err)
			return out
		}
	}

	out.Valid = true
	out.Hash = hashBytes(body)
	if rule.KeepBody {
		out.Body = body
	}
	return out
}

// request performs the HTTP call with capped retries. Attempts are retried on
// transport errors and on 429/5xx statuses, with exponential backoff.
func (f *Fetcher) request(ctx context.Context, url string, rule Rule) (*http.Response, []byte, bool) {
	backoff := retryBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, body, err := f.attempt(ctx, url, rule)
		if err == nil && !retryableStatus(resp.StatusCode) {
			if resp.StatusCode != http.StatusOK {
				return nil, nil, false
			}
			return resp, body, true
		}

		if attempt == maxAttempts || ctx.Err() != nil {
			return nil, nil, false
		}
		select {
		case <-ctx.Done():
			return nil, nil, false
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, nil, false
}

func (f *Fetcher) attempt(ctx context.Context, url string, rule Rule) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, rule.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, rule.Method, url, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", rule.UserAgent)
	for k, v := range rule.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if rule.Method == http.MethodHead {
		return resp, nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, rule.MaxBytes))
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// accepted applies the size/content-type rule: the body must clear MinBytes,
// and either the Content-Type says image or the body is large enough that the
// header can be disbelieved (several CDNs omit or misreport it).
func accepted(body []byte, ctype string, rule Rule) bool {
	if len(body) <= rule.MinBytes {
		return false
	}
	if strings.Contains(ctype, "image") {
		return true
	}
	return len(body) > rule.FallbackBytes
}

func rejectedPlaceholder(body []byte, rule Rule) bool {
	for _, size := range rule.PlaceholderSizes {
		if len(body) == size {
			return true
		}
	}
	if len(rule.PlaceholderHashes) > 0 {
		h := hashBytes(body)
		for _, known := range rule.PlaceholderHashes {
			if h == known {
				return true
			}
		}
	}
	if len(rule.PlaceholderImages) > 0 {
		img, _, err := image.Decode(bytes.NewReader(body))
		if err != nil {
			return false
		}
		hash, err := goimagehash.DifferenceHash(img)
		if err != nil {
			return false
		}
		for _, known := range rule.PlaceholderImages {
			if dist, err := hash.Distance(known); err == nil && dist <= placeholderDistance {
				return true
			}
		}
	}
	return false
}

func contentType(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return strings.ToLower(ct)
}

func hashBytes(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
