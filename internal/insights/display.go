package insights

import (
	"fmt"
	"strings"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
)

const sampleSongCount = 3

// FormatSummary returns a human-readable summary of vibes.
// Shows song count, average mood and the first 3 songs for each vibe.
// Outliers are summarized by count only.
func FormatSummary(vibes []Vibe, outliers []catalog.Song) string {
	var sb strings.Builder

	total := len(outliers)
	for _, v := range vibes {
		total += len(v.Songs)
	}

	if len(vibes) == 0 {
		fmt.Fprintf(&sb, "No vibes found from %d songs", total)
		if len(outliers) > 0 {
			fmt.Fprintf(&sb, " (%d outliers skipped)", len(outliers))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	vibeWord := "vibe"
	if len(vibes) > 1 {
		vibeWord = "vibes"
	}

	fmt.Fprintf(&sb, "Found %d %s from %d songs", len(vibes), vibeWord, total)
	if len(outliers) > 0 {
		fmt.Fprintf(&sb, " (%d outliers skipped)", len(outliers))
	}
	sb.WriteString("\n")

	for i, v := range vibes {
		sb.WriteString("\n")
		sb.WriteString(formatVibe(i+1, v))
	}

	return sb.String()
}

// formatVibe formats a single vibe with its sample songs.
func formatVibe(num int, v Vibe) string {
	var sb strings.Builder

	songWord := "song"
	if len(v.Songs) > 1 {
		songWord = "songs"
	}

	fmt.Fprintf(&sb, "Vibe %d: %s (%d %s, mood %.1f)\n", num, v.Name, len(v.Songs), songWord, v.AverageMood())

	for _, s := range v.Songs[:min(sampleSongCount, len(v.Songs))] {
		fmt.Fprintf(&sb, "  • %q - %s\n", s.Title, s.Artist)
	}

	if remaining := len(v.Songs) - sampleSongCount; remaining > 0 {
		fmt.Fprintf(&sb, "  ... and %d more\n", remaining)
	}

	return sb.String()
}
