package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

// stubProber resolves probes from a fixed table, optionally sleeping a random
// amount per call so that completion order differs from submission order.
type stubProber struct {
	mu       sync.Mutex
	outcomes map[string]fetcher.Outcome
	jitter   time.Duration
	calls    int
	inFlight int
	peak     int
}

func (s *stubProber) Probe(_ context.Context, url string, _ fetcher.Rule) fetcher.Outcome {
	s.mu.Lock()
	s.calls++
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	jitter := s.jitter
	s.mu.Unlock()

	if jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(jitter))))
	}

	s.mu.Lock()
	s.inFlight--
	out, ok := s.outcomes[url]
	s.mu.Unlock()
	if !ok {
		return fetcher.Outcome{URL: url}
	}
	return out
}

func candidates(urls ...string) []models.Candidate {
	out := make([]models.Candidate, len(urls))
	for i, u := range urls {
		out[i] = models.Candidate{URL: u}
	}
	return out
}

func validOutcomes(urls ...string) map[string]fetcher.Outcome {
	m := make(map[string]fetcher.Outcome, len(urls))
	for i, u := range urls {
		m[u] = fetcher.Outcome{URL: u, Valid: true, Hash: fmt.Sprintf("hash-%d", i)}
	}
	return m
}

func TestValidate_PreservesSubmissionOrder(t *testing.T) {
	urls := make([]string, 12)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://cdn.test/img-%02d.jpg", i)
	}
	stub := &stubProber{outcomes: validOutcomes(urls...), jitter: 20 * time.Millisecond}
	e := New(stub, nil)

	images, err := e.Validate(context.Background(), candidates(urls...), fetcher.Rule{}, Options{MaxImages: len(urls)})
	require.NoError(t, err)
	require.Len(t, images, len(urls))

	for i, img := range images {
		assert.Equal(t, urls[i], img.URL)
		assert.Equal(t, i+1, img.Index)
	}
}

func TestValidate_SkipsInvalidKeepingOrder(t *testing.T) {
	stub := &stubProber{
		outcomes: map[string]fetcher.Outcome{
			"a": {URL: "a", Valid: true, Hash: "ha"},
			"b": {URL: "b", Valid: false},
			"c": {URL: "c", Valid: true, Hash: "hc"},
			"d": {URL: "d", Valid: false},
			"e": {URL: "e", Valid: true, Hash: "he"},
		},
	}
	e := New(stub, nil)

	images, err := e.Validate(context.Background(), candidates("a", "b", "c", "d", "e"), fetcher.Rule{}, Options{MaxImages: 10})
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, "a", images[0].URL)
	assert.Equal(t, "c", images[1].URL)
	assert.Equal(t, "e", images[2].URL)
	// Indexes stay dense even with gaps in the candidate list.
	assert.Equal(t, []int{1, 2, 3}, []int{images[0].Index, images[1].Index, images[2].Index})
}

func TestValidate_DedupKeepsFirstOccurrence(t *testing.T) {
	stub := &stubProber{
		outcomes: map[string]fetcher.Outcome{
			"a": {URL: "a", Valid: true, Hash: "same"},
			"b": {URL: "b", Valid: true, Hash: "same"},
			"c": {URL: "c", Valid: true, Hash: "other"},
		},
		jitter: 10 * time.Millisecond,
	}
	e := New(stub, nil)

	images, err := e.Validate(context.Background(), candidates("a", "b", "c"), fetcher.Rule{}, Options{MaxImages: 10})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "a", images[0].URL)
	assert.Equal(t, "c", images[1].URL)
}

func TestValidate_CapsAtMaxImages(t *testing.T) {
	urls := make([]string, 10)
	for i := range urls {
		urls[i] = fmt.Sprintf("u%d", i)
	}
	stub := &stubProber{outcomes: validOutcomes(urls...)}
	e := New(stub, nil)

	images, err := e.Validate(context.Background(), candidates(urls...), fetcher.Rule{}, Options{MaxImages: 4})
	require.NoError(t, err)
	require.Len(t, images, 4)
	for i, img := range images {
		assert.Equal(t, urls[i], img.URL)
	}
	// Every candidate is still probed; the cap only trims the result.
	assert.Equal(t, 10, stub.calls)
}

func TestValidate_AllFailedIsNoImages(t *testing.T) {
	stub := &stubProber{outcomes: map[string]fetcher.Outcome{}}
	e := New(stub, nil)

	images, err := e.Validate(context.Background(), candidates("a", "b"), fetcher.Rule{}, Options{MaxImages: 5})
	assert.ErrorIs(t, err, ErrNoImages)
	assert.Nil(t, images)
}

func TestValidate_Preconditions(t *testing.T) {
	e := New(&stubProber{}, nil)

	t.Run("empty candidate list", func(t *testing.T) {
		_, err := e.Validate(context.Background(), nil, fetcher.Rule{}, Options{MaxImages: 5})
		assert.ErrorIs(t, err, ErrNoCandidates)
		assert.NotErrorIs(t, err, ErrNoImages)
	})

	t.Run("zero max images", func(t *testing.T) {
		_, err := e.Validate(context.Background(), candidates("a"), fetcher.Rule{}, Options{MaxImages: 0})
		assert.ErrorIs(t, err, ErrBadLimit)
	})
}

func TestValidate_BoundsConcurrency(t *testing.T) {
	urls := make([]string, 30)
	for i := range urls {
		urls[i] = fmt.Sprintf("u%d", i)
	}
	stub := &stubProber{outcomes: validOutcomes(urls...), jitter: 15 * time.Millisecond}
	e := New(stub, nil)

	_, err := e.Validate(context.Background(), candidates(urls...), fetcher.Rule{}, Options{MaxImages: 30, MaxConcurrency: 3})
	require.NoError(t, err)
	assert.LessOrEqual(t, stub.peak, 3)
}

func TestValidate_ClampsRequestedConcurrency(t *testing.T) {
	urls := make([]string, 50)
	for i := range urls {
		urls[i] = fmt.Sprintf("u%d", i)
	}
	stub := &stubProber{outcomes: validOutcomes(urls...), jitter: 5 * time.Millisecond}
	e := New(stub, nil)

	_, err := e.Validate(context.Background(), candidates(urls...), fetcher.Rule{}, Options{MaxImages: 50, MaxConcurrency: 500})
	require.NoError(t, err)
	assert.LessOrEqual(t, stub.peak, MaxConcurrency)
}

func TestValidate_Idempotent(t *testing.T) {
	urls := []string{"a", "b", "c", "d"}
	stub := &stubProber{outcomes: validOutcomes(urls...), jitter: 10 * time.Millisecond}
	e := New(stub, nil)

	first, err := e.Validate(context.Background(), candidates(urls...), fetcher.Rule{}, Options{MaxImages: 3})
	require.NoError(t, err)
	second, err := e.Validate(context.Background(), candidates(urls...), fetcher.Rule{}, Options{MaxImages: 3})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubProber{outcomes: validOutcomes("a", "b")}
	e := New(stub, nil)

	_, err := e.Validate(ctx, candidates("a", "b"), fetcher.Rule{}, Options{MaxImages: 2})
	assert.Error(t, err)
}
