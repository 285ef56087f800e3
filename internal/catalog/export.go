package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportFilename is the suggested name for downloaded recommendations.
const ExportFilename = "mbti_recommendations.csv"

// WriteCSV writes songs in the catalog column layout, header first.
// The preview_url column is only written when withPreview is set.
func WriteCSV(w io.Writer, songs []Song, withPreview bool) error {
	cw := csv.NewWriter(w)

	header := []string{ColTitle, ColArtist, ColGenre, ColMood, ColMBTITags}
	if withPreview {
		header = append(header, ColPreviewURL)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, s := range songs {
		row := []string{s.Title, s.Artist, s.Genre, strconv.Itoa(s.Mood), s.MBTITags}
		if withPreview {
			row = append(row, s.PreviewURL)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %q: %w", s.Title, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
