// Package catalog loads and normalizes the song table used for recommendations.
package catalog

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Mood bounds. Values outside the range are clamped on load.
const (
	MinMood     = 1
	MaxMood     = 10
	DefaultMood = 5
)

// Source identifies where a catalog came from.
type Source string

const (
	// SourceSample is the built-in sample list.
	SourceSample Source = "sample"
	// SourceUpload is a user supplied CSV file.
	SourceUpload Source = "upload"
)

// Song is a single normalized catalog row.
type Song struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Genre      string `json:"genre"`
	Mood       int    `json:"mood"`
	MBTITags   string `json:"mbti_tags"` // Comma-joined, upper-cased
	PreviewURL string `json:"preview_url,omitempty"`
}

// Tags returns the trimmed, non-empty personality codes of the song.
func (s Song) Tags() []string {
	var tags []string
	for _, t := range strings.Split(s.MBTITags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag reports whether code is one of the song's tags, ignoring case.
func (s Song) HasTag(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return false
	}
	return slices.Contains(s.Tags(), code)
}

// InGenre reports whether the song's genre is in genres, ignoring case and
// surrounding space.
func (s Song) InGenre(genres []string) bool {
	g := strings.ToLower(strings.TrimSpace(s.Genre))
	for _, want := range genres {
		if strings.ToLower(strings.TrimSpace(want)) == g {
			return true
		}
	}
	return false
}

// Catalog is an immutable normalized song table.
type Catalog struct {
	ID     string
	Source Source
	// HasPreview is true when the input carried a preview_url column.
	HasPreview bool

	songs []Song
}

func newCatalog(source Source, hasPreview bool, songs []Song) *Catalog {
	return &Catalog{
		ID:         uuid.NewString(),
		Source:     source,
		HasPreview: hasPreview,
		songs:      songs,
	}
}

// Songs returns a copy of the catalog rows in load order.
func (c *Catalog) Songs() []Song {
	return slices.Clone(c.songs)
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	return len(c.songs)
}

// Head returns a copy of at most n leading rows.
func (c *Catalog) Head(n int) []Song {
	n = max(0, min(n, len(c.songs)))
	return slices.Clone(c.songs[:n])
}

// WithSongs returns a new catalog with the same source and ID but different rows.
// Used by enrichers that fill in missing fields after a load.
func (c *Catalog) WithSongs(songs []Song) *Catalog {
	return &Catalog{
		ID:         c.ID,
		Source:     c.Source,
		HasPreview: c.HasPreview,
		songs:      slices.Clone(songs),
	}
}

// Genres returns the distinct lower-cased genres of songs, sorted.
func Genres(songs []Song) []string {
	seen := make(map[string]struct{})
	var genres []string
	for _, s := range songs {
		g := strings.ToLower(strings.TrimSpace(s.Genre))
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	slices.Sort(genres)
	return genres
}
