package insights

import (
	"github.com/muesli/clusters"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
)

const (
	featureMood      = "mood"
	featureExtravert = "extravert"
	featureIntuitive = "intuitive"
	featureFeeling   = "feeling"
	featurePerceive  = "perceiving"
)

// featureNames defines the coordinate order used for clustering.
var featureNames = []string{featureMood, featureExtravert, featureIntuitive, featureFeeling, featurePerceive}

// features builds the coordinate vector for a song: mood scaled to [0,1] and
// the share of its valid tags leaning E, N, F and P.
// It returns false when the song has no valid four-letter code.
func features(s catalog.Song) (clusters.Coordinates, bool) {
	var e, n, f, p, count float64
	for _, tag := range s.Tags() {
		if !validCode(tag) {
			continue
		}
		count++
		if tag[0] == 'E' {
			e++
		}
		if tag[1] == 'N' {
			n++
		}
		if tag[2] == 'F' {
			f++
		}
		if tag[3] == 'P' {
			p++
		}
	}
	if count == 0 {
		return nil, false
	}

	mood := float64(s.Mood-catalog.MinMood) / float64(catalog.MaxMood-catalog.MinMood)
	return clusters.Coordinates{mood, e / count, n / count, f / count, p / count}, true
}

// validCode reports whether tag is a well-formed personality code such as "INFP".
func validCode(tag string) bool {
	if len(tag) != 4 {
		return false
	}
	pairs := [4]string{"EI", "SN", "TF", "JP"}
	for i, pair := range pairs {
		if tag[i] != pair[0] && tag[i] != pair[1] {
			return false
		}
	}
	return true
}
