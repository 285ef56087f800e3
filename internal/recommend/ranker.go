package recommend

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/justestif/go-mbti-song-recommender/internal/catalog"
)

// DefaultShufflePool is how many top ranked songs are shuffled when randomizing.
const DefaultShufflePool = 50

// Ranker produces ordered recommendations. It is safe for concurrent use.
type Ranker struct {
	pool int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithShufflePool sets how many leading songs are shuffled when randomizing.
func WithShufflePool(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.pool = n
		}
	}
}

// WithSeed makes shuffling deterministic.
func WithSeed(seed uint64) Option {
	return func(r *Ranker) {
		r.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // presentation shuffle only
	}
}

// NewRanker creates a Ranker with a random seed and DefaultShufflePool.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		pool: DefaultShufflePool,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // presentation shuffle only
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ShufflePool returns the configured shuffle pool size.
func (r *Ranker) ShufflePool() int {
	return r.pool
}

// candidate is a filtered song with its ranking keys.
type candidate struct {
	song     catalog.Song
	match    bool
	distance int
}

// Recommend filters, ranks and truncates songs for req.
// An empty filtered set yields an empty result and no error.
// Invalid requests return a *validation.Error.
func (r *Ranker) Recommend(songs []catalog.Song, req Request) ([]catalog.Song, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.normalized()

	ranked := Rank(songs, req)

	if req.Randomize {
		r.shuffleHead(ranked)
	}

	if len(ranked) > req.Count {
		ranked = ranked[:req.Count]
	}
	return ranked, nil
}

// Rank returns every song passing the genre filter in relevance order,
// without randomization or truncation. req is assumed valid.
func Rank(songs []catalog.Song, req Request) []catalog.Song {
	req = req.normalized()

	candidates := make([]candidate, 0, len(songs))
	anyMatch := false
	for _, s := range songs {
		if len(req.Genres) > 0 && !s.InGenre(req.Genres) {
			continue
		}
		c := candidate{
			song:     s,
			match:    s.HasTag(req.Type),
			distance: abs(s.Mood - req.Mood),
		}
		anyMatch = anyMatch || c.match
		candidates = append(candidates, c)
	}

	// Tag matches dominate only when at least one song matches; otherwise
	// ranking falls back to mood proximity alone.
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		if anyMatch && a.match != b.match {
			if a.match {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		return cmp.Compare(b.song.Mood, a.song.Mood)
	})

	ranked := make([]catalog.Song, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.song
	}
	return ranked
}

// shuffleHead permutes the first pool songs in place, leaving the rest sorted.
func (r *Ranker) shuffleHead(ranked []catalog.Song) {
	head := ranked[:min(r.pool, len(ranked))]

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(len(head), func(i, j int) {
		head[i], head[j] = head[j], head[i]
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
