// Package insights groups catalog songs into "vibes" using k-means clustering
// over mood and personality-axis features.
package insights

import (
	"cmp"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
	"github.com/justestif/go-mbti-song-recommender/internal/logging"
)

// Config holds vibe grouping parameters.
type Config struct {
	Groups       int // Number of clusters to create (default: 3)
	MinGroupSize int // Minimum songs per vibe (smaller clusters become outliers)
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		Groups:       3,
		MinGroupSize: 2,
	}
}

// Vibe is a cluster of songs with a similar feel.
type Vibe struct {
	Name     string             // Descriptive name: "Upbeat & Outgoing"
	Songs    []catalog.Song     // Songs in load order
	Centroid map[string]float64 // Average feature values for this cluster
}

// AverageMood returns the centroid mood on the catalog's 1-10 scale.
func (v Vibe) AverageMood() float64 {
	return v.Centroid[featureMood]*float64(catalog.MaxMood-catalog.MinMood) + catalog.MinMood
}

// songObservation wraps a song to implement clusters.Observation.
type songObservation struct {
	index  int
	coords clusters.Coordinates
}

func (o songObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o songObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Group clusters songs into vibes. Songs without any valid personality tag,
// and songs in clusters smaller than MinGroupSize, are returned as outliers.
func Group(songs []catalog.Song, cfg Config) ([]Vibe, []catalog.Song) {
	if len(songs) == 0 {
		return nil, nil
	}

	if cfg.Groups <= 0 {
		cfg.Groups = DefaultConfig().Groups
	}

	// Separate songs with and without usable tags
	var valid []int
	var outliers []catalog.Song
	for i, s := range songs {
		if _, ok := features(s); ok {
			valid = append(valid, i)
		} else {
			outliers = append(outliers, s)
		}
	}

	// If fewer valid songs than groups, everything is an outlier
	if len(valid) < cfg.Groups {
		return nil, slices.Clone(songs)
	}

	var obs clusters.Observations
	for _, i := range valid {
		coords, _ := features(songs[i])
		obs = append(obs, songObservation{index: i, coords: coords})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.Groups)
	if err != nil {
		logging.Warn().Err(err).Int("songs", len(obs)).Msg("k-means grouping failed")
		return nil, slices.Clone(songs)
	}

	var vibes []Vibe
	for _, cluster := range result {
		var indexes []int
		for _, o := range cluster.Observations {
			if so, ok := o.(songObservation); ok {
				indexes = append(indexes, so.index)
			}
		}
		slices.Sort(indexes)

		members := make([]catalog.Song, len(indexes))
		for j, i := range indexes {
			members[j] = songs[i]
		}

		if len(members) == 0 {
			continue
		}
		if len(members) < cfg.MinGroupSize {
			outliers = append(outliers, members...)
			continue
		}

		centroid := make(map[string]float64, len(featureNames))
		for j, name := range featureNames {
			centroid[name] = cluster.Center[j]
		}

		vibes = append(vibes, Vibe{
			Name:     vibeName(centroid),
			Songs:    members,
			Centroid: centroid,
		})
	}

	// Largest vibes first
	slices.SortStableFunc(vibes, func(a, b Vibe) int {
		if c := cmp.Compare(len(b.Songs), len(a.Songs)); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return vibes, outliers
}
