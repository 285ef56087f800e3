package spotify

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
	"github.com/justestif/go-mbti-song-recommender/internal/logging"
)

// FillPreviews returns a copy of songs where empty preview URLs are looked up
// on Spotify, and how many songs were filled.
// Cached results are reused without counting against the lookup cap.
// Failed lookups are logged and skipped; a cancelled ctx stops early and
// returns what was filled so far along with ctx.Err().
func (c *Client) FillPreviews(ctx context.Context, songs []catalog.Song) ([]catalog.Song, int, error) {
	out := slices.Clone(songs)
	filled := 0

	type workItem struct {
		index int
		query string
	}
	var work []workItem
	skipped := 0

	for i, s := range out {
		if s.PreviewURL != "" || s.Title == "" {
			continue
		}

		query := searchQuery(s.Title, s.Artist)
		if url, ok := c.cache.get(query); ok {
			if url != "" {
				out[i].PreviewURL = url
				filled++
			}
			continue
		}

		// Past the cap only cached songs are still filled
		if len(work) >= c.maxLookups {
			skipped++
			continue
		}
		work = append(work, workItem{index: i, query: query})
	}
	if skipped > 0 {
		logging.Debug().Int("max_lookups", c.maxLookups).Int("skipped", skipped).Msg("Preview lookup cap reached")
	}

	if len(work) == 0 {
		return out, filled, ctx.Err()
	}

	workCh := make(chan workItem, len(work))
	for _, w := range work {
		workCh <- w
	}
	close(workCh)

	// Each worker writes only to its own item's index
	var wg sync.WaitGroup
	for range min(c.concurrency, len(work)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				if ctx.Err() != nil {
					continue
				}

				url, err := c.lookupPreview(ctx, item.query)
				if err != nil {
					logging.Warn().Err(err).Str("query", item.query).Msg("Preview lookup failed")
					continue
				}
				c.cache.put(item.query, url)
				out[item.index].PreviewURL = url
			}
		}()
	}
	wg.Wait()

	for _, w := range work {
		if out[w.index].PreviewURL != "" {
			filled++
		}
	}

	return out, filled, ctx.Err()
}

// lookupPreview returns the best link for the first search hit, or "" if none.
func (c *Client) lookupPreview(ctx context.Context, query string) (string, error) {
	opts := []spotify.RequestOption{spotify.Limit(1)}
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}

	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, opts...)
	if err != nil {
		return "", fmt.Errorf("searching track: %w", err)
	}
	if result == nil || result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return "", nil
	}
	return previewLink(result.Tracks.Tracks[0]), nil
}

// searchQuery builds a field-filtered search such as: track:"Solitude" artist:"Blue Room".
func searchQuery(title, artist string) string {
	clean := func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
	}

	q := fmt.Sprintf("track:%q", clean(title))
	if a := clean(artist); a != "" {
		q += fmt.Sprintf(" artist:%q", a)
	}
	return q
}

// previewLink prefers the 30 second preview, falling back to the track page.
func previewLink(track spotify.FullTrack) string {
	if track.PreviewURL != "" {
		return track.PreviewURL
	}
	return track.ExternalURLs["spotify"]
}
