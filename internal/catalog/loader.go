package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Canonical column names.
const (
	ColTitle      = "title"
	ColArtist     = "artist"
	ColGenre      = "genre"
	ColMood       = "mood"
	ColMBTITags   = "mbti_tags"
	ColPreviewURL = "preview_url"
)

// RequiredColumns must be present in every uploaded catalog.
var RequiredColumns = []string{ColTitle, ColArtist, ColGenre, ColMood, ColMBTITags}

// ErrMalformed is returned when the input is not readable CSV.
var ErrMalformed = errors.New("malformed catalog file")

// SchemaError reports required columns missing from an uploaded catalog.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog is missing required columns: %s (need at least %s)",
		strings.Join(e.Missing, ", "), strings.Join(RequiredColumns, ", "))
}

// Load parses a CSV catalog and normalizes every row.
// Column names are matched case-insensitively and in any order.
// It never falls back to the sample catalog; that choice is the caller's.
func Load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformed, err)
	}

	columns := indexColumns(header)

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &SchemaError{Missing: missing}
	}

	_, hasPreview := columns[ColPreviewURL]

	var songs []Song
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		songs = append(songs, Song{
			Title:      strings.TrimSpace(field(ColTitle)),
			Artist:     strings.TrimSpace(field(ColArtist)),
			Genre:      strings.TrimSpace(field(ColGenre)),
			Mood:       ParseMood(field(ColMood)),
			MBTITags:   normalizeTags(field(ColMBTITags)),
			PreviewURL: strings.TrimSpace(field(ColPreviewURL)),
		})
	}

	return newCatalog(SourceUpload, hasPreview, songs), nil
}

// indexColumns maps lower-cased header names to their position.
// The first occurrence wins when names collide after lower-casing.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}
	return columns
}

// ParseMood converts a raw mood cell into the [MinMood, MaxMood] range.
// Decimal values are clamped then truncated; anything unparseable is DefaultMood.
func ParseMood(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultMood
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return ClampMood(n)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return DefaultMood
	}
	f = math.Max(MinMood, math.Min(MaxMood, f))
	return int(f)
}

// ClampMood limits n to [MinMood, MaxMood].
func ClampMood(n int) int {
	return max(MinMood, min(MaxMood, n))
}

func normalizeTags(tags string) string {
	return strings.ToUpper(tags)
}
