package spotify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
)

// mockSearcher implements Searcher for testing. Safe for concurrent use.
type mockSearcher struct {
	mu sync.Mutex
	// results maps query to the tracks returned
	results map[string][]spotify.FullTrack
	// errors maps query to an error
	errors  map[string]error
	queries []string
}

func newMockSearcher() *mockSearcher {
	return &mockSearcher{
		results: make(map[string][]spotify.FullTrack),
		errors:  make(map[string]error),
	}
}

func (m *mockSearcher) Search(_ context.Context, query string, t spotify.SearchType, _ ...spotify.RequestOption) (*spotify.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, query)
	if t != spotify.SearchTypeTrack {
		return nil, errors.New("unexpected search type")
	}
	if err, ok := m.errors[query]; ok {
		return nil, err
	}
	return &spotify.SearchResult{
		Tracks: &spotify.FullTrackPage{Tracks: m.results[query]},
	}, nil
}

func track(preview, external string) spotify.FullTrack {
	return spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			PreviewURL:   preview,
			ExternalURLs: map[string]string{"spotify": external},
		},
	}
}

func TestFillPreviews(t *testing.T) {
	api := newMockSearcher()
	api.results[`track:"Solitude" artist:"Blue Room"`] = []spotify.FullTrack{track("https://p.scdn.co/solitude", "https://open.spotify.com/track/1")}
	api.results[`track:"Heartbeat" artist:"Pulse"`] = []spotify.FullTrack{track("", "https://open.spotify.com/track/2")}
	api.errors[`track:"Drive Away" artist:"Roadtone"`] = errors.New("boom")

	songs := []catalog.Song{
		{Title: "Solitude", Artist: "Blue Room"},
		{Title: "Heartbeat", Artist: "Pulse"},
		{Title: "Drive Away", Artist: "Roadtone"},
		{Title: "Unknown", Artist: "Nobody"},
		{Title: "Has Link", Artist: "Someone", PreviewURL: "http://already"},
	}

	client := New(api)
	got, filled, err := client.FillPreviews(context.Background(), songs)
	if err != nil {
		t.Fatalf("FillPreviews() error: %v", err)
	}

	if filled != 2 {
		t.Errorf("filled = %d, want 2", filled)
	}

	want := []string{
		"https://p.scdn.co/solitude",
		"https://open.spotify.com/track/2",
		"",
		"",
		"http://already",
	}
	for i, s := range got {
		if s.PreviewURL != want[i] {
			t.Errorf("got[%d].PreviewURL = %q, want %q", i, s.PreviewURL, want[i])
		}
	}

	if len(api.queries) != 4 {
		t.Errorf("made %d searches, want 4", len(api.queries))
	}
	if songs[0].PreviewURL != "" {
		t.Error("FillPreviews modified its input")
	}

	// Hits and misses are cached, the failed lookup is retried
	api.queries = nil
	_, filled, err = client.FillPreviews(context.Background(), songs)
	if err != nil {
		t.Fatalf("second FillPreviews() error: %v", err)
	}
	if filled != 2 {
		t.Errorf("second run filled = %d, want 2", filled)
	}
	if len(api.queries) != 1 || api.queries[0] != `track:"Drive Away" artist:"Roadtone"` {
		t.Errorf("second run searched %v, want only the failed song", api.queries)
	}
}

func TestFillPreviews_Serial(t *testing.T) {
	api := newMockSearcher()
	api.results[`track:"b"`] = []spotify.FullTrack{track("pb", "")}

	songs := []catalog.Song{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	got, filled, err := New(api, WithConcurrency(1)).FillPreviews(context.Background(), songs)
	if err != nil {
		t.Fatalf("FillPreviews() error: %v", err)
	}
	if filled != 1 || got[1].PreviewURL != "pb" {
		t.Errorf("filled = %d, got = %+v", filled, got)
	}

	want := []string{`track:"a"`, `track:"b"`, `track:"c"`}
	for i, q := range api.queries {
		if q != want[i] {
			t.Errorf("query[%d] = %q, want %q", i, q, want[i])
		}
	}
}

func TestFillPreviews_MaxLookups(t *testing.T) {
	api := newMockSearcher()
	songs := []catalog.Song{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	client := New(api, WithMaxLookups(2))
	_, _, err := client.FillPreviews(context.Background(), songs)
	if err != nil {
		t.Fatalf("FillPreviews() error: %v", err)
	}
	if len(api.queries) != 2 {
		t.Errorf("made %d searches, want 2", len(api.queries))
	}
}

func TestFillPreviews_CachedPastCap(t *testing.T) {
	api := newMockSearcher()
	api.results[`track:"c"`] = []spotify.FullTrack{track("pc", "")}

	client := New(api, WithMaxLookups(1))
	if _, _, err := client.FillPreviews(context.Background(), []catalog.Song{{Title: "c"}}); err != nil {
		t.Fatalf("FillPreviews() error: %v", err)
	}

	// "a" uses the only lookup, "b" is over the cap, "c" comes from the cache
	api.queries = nil
	got, filled, err := client.FillPreviews(context.Background(), []catalog.Song{{Title: "a"}, {Title: "b"}, {Title: "c"}})
	if err != nil {
		t.Fatalf("FillPreviews() error: %v", err)
	}
	if filled != 1 || got[2].PreviewURL != "pc" {
		t.Errorf("filled = %d, got = %+v", filled, got)
	}
	if len(api.queries) != 1 || api.queries[0] != `track:"a"` {
		t.Errorf("searched %v, want only a", api.queries)
	}
}

func TestFillPreviews_ContextCancelled(t *testing.T) {
	api := newMockSearcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	songs := []catalog.Song{{Title: "a"}}
	got, filled, err := New(api).FillPreviews(ctx, songs)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if filled != 0 || len(got) != 1 {
		t.Errorf("filled = %d, len = %d", filled, len(got))
	}
	if len(api.queries) != 0 {
		t.Errorf("made %d searches after cancel", len(api.queries))
	}
}

func TestPreviewCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := newPreviewCache(time.Hour)
	cache.now = func() time.Time { return now }

	cache.put("q", "url")
	if got, ok := cache.get("q"); !ok || got != "url" {
		t.Errorf("get() = %q, %v", got, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := cache.get("q"); ok {
		t.Error("stale entry returned")
	}
	if cache.len() != 0 {
		t.Errorf("stale entry kept, len = %d", cache.len())
	}
}

func TestWithCacheTTL(t *testing.T) {
	c := New(newMockSearcher(), WithCacheTTL(time.Minute), WithConcurrency(0))
	if c.cache.ttl != time.Minute {
		t.Errorf("cache ttl = %v, want 1m", c.cache.ttl)
	}
	if c.concurrency != DefaultConcurrency {
		t.Errorf("concurrency = %d, want default", c.concurrency)
	}
}

func TestSearchQuery(t *testing.T) {
	tests := []struct {
		title, artist string
		want          string
	}{
		{title: "Coffee & Rain", artist: "Quiet Corner", want: `track:"Coffee & Rain" artist:"Quiet Corner"`},
		{title: `Say "Hi"`, artist: "", want: `track:"Say Hi"`},
		{title: " Solitude ", artist: " Blue Room ", want: `track:"Solitude" artist:"Blue Room"`},
	}

	for _, tt := range tests {
		if got := searchQuery(tt.title, tt.artist); got != tt.want {
			t.Errorf("searchQuery(%q, %q) = %q, want %q", tt.title, tt.artist, got, tt.want)
		}
	}
}

func TestPreviewLink(t *testing.T) {
	if got := previewLink(track("p", "e")); got != "p" {
		t.Errorf("previewLink() = %q, want preview", got)
	}
	if got := previewLink(track("", "e")); got != "e" {
		t.Errorf("previewLink() = %q, want external", got)
	}
	if got := previewLink(spotify.FullTrack{}); got != "" {
		t.Errorf("previewLink(empty) = %q", got)
	}
}
