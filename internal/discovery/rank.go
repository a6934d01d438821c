package discovery

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOption string

const (
	SortAlphabetical SortOption = "alphabetical"
	SortRecent       SortOption = "recent"
	SortRandom       SortOption = "random"
)

// The baseline origin bucket: a viewer with unknown origin is treated as
// non-Japan, so Japan-origin candidates land in the priority partition.
const baselineOrigin = "Japan"

// RankOptions controls the ranking stage. ViewerOrigin may be empty
// (unknown). Seed, when non-zero, makes the random order stable across
// re-renders within a session; zero keeps the source's reshuffle-per-call
// behavior.
type RankOptions struct {
	ViewerOrigin string
	Sort         SortOption
	Seed         int64
}

// Rank partitions candidates into an origin-priority group and the rest,
// orders each partition by the selected strategy and concatenates
// priority-first. Unrecognized sort options fall back to the random
// shuffle.
func Rank(cands []Candidate, opts RankOptions) []Candidate {
	priority, other := partition(cands, opts.ViewerOrigin)

	switch opts.Sort {
	case SortAlphabetical:
		sortAlphabetical(priority)
		sortAlphabetical(other)
	case SortRecent:
		sortRecent(priority)
		sortRecent(other)
	default:
		rng := newRand(opts.Seed)
		shuffle(priority, rng)
		shuffle(other, rng)
	}

	out := make([]Candidate, 0, len(cands))
	out = append(out, priority...)
	out = append(out, other...)
	return out
}

// Page slices a ranked list by offset/limit, the server-side analog of the
// client's grow-the-window pagination. limit <= 0 means everything.
func Page(cands []Candidate, offset, limit int) []Candidate {
	if offset >= len(cands) || offset < 0 {
		return []Candidate{}
	}
	end := len(cands)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return cands[offset:end]
}

// partition splits candidates into those whose origin differs from the
// viewer's (priority) and the rest. The comparison is case-insensitive.
func partition(cands []Candidate, viewerOrigin string) (priority, other []Candidate) {
	priority = make([]Candidate, 0, len(cands))
	other = make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if crossOrigin(viewerOrigin, c.Origin) {
			priority = append(priority, c)
		} else {
			other = append(other, c)
		}
	}
	return priority, other
}

func crossOrigin(viewerOrigin, candidateOrigin string) bool {
	if viewerOrigin == "" {
		// Non-Japan baseline: Japan-origin candidates are the
		// cross-cultural group.
		return strings.EqualFold(candidateOrigin, baselineOrigin)
	}
	return !strings.EqualFold(candidateOrigin, viewerOrigin)
}

func sortAlphabetical(cands []Candidate) {
	cl := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(cands, func(i, j int) bool {
		a := cands[i].FirstName + " " + cands[i].LastName
		b := cands[j].FirstName + " " + cands[j].LastName
		return cl.CompareString(a, b) < 0
	})
}

// sortRecent orders by created_at descending; a missing timestamp (zero
// time) sorts as the oldest.
func sortRecent(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].CreatedAt.After(cands[j].CreatedAt)
	})
}

func shuffle(cands []Candidate, rng *rand.Rand) {
	rng.Shuffle(len(cands), func(i, j int) {
		cands[i], cands[j] = cands[j], cands[i]
	})
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
