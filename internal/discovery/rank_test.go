package discovery

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func originCandidate(name, origin string) Candidate {
	return Candidate{ID: uuid.New(), FirstName: name, Origin: origin}
}

func TestRankPartitionIsCompleteAndDisjoint(t *testing.T) {
	cands := []Candidate{
		originCandidate("a", "Japan"),
		originCandidate("b", "USA"),
		originCandidate("c", ""),
		originCandidate("d", "japan"),
	}

	ranked := Rank(cands, RankOptions{ViewerOrigin: "USA", Sort: SortAlphabetical})
	if len(ranked) != len(cands) {
		t.Fatalf("ranking changed the candidate count: got %d, want %d", len(ranked), len(cands))
	}

	seen := map[uuid.UUID]int{}
	for _, c := range ranked {
		seen[c.ID]++
	}
	for _, c := range cands {
		if seen[c.ID] != 1 {
			t.Errorf("candidate %s appears %d times", c.FirstName, seen[c.ID])
		}
	}
}

func TestRankViewerFromUSA(t *testing.T) {
	japan := originCandidate("a", "Japan")
	usa := originCandidate("b", "USA")
	unknown := originCandidate("c", "")

	ranked := Rank([]Candidate{usa, japan, unknown}, RankOptions{ViewerOrigin: "USA", Sort: SortAlphabetical})

	// Cross-origin candidates (Japan, unknown) come before same-origin.
	posOf := func(id uuid.UUID) int {
		for i, c := range ranked {
			if c.ID == id {
				return i
			}
		}
		t.Fatalf("candidate missing from ranked output")
		return -1
	}
	if posOf(usa.ID) < posOf(japan.ID) {
		t.Error("same-origin candidate ranked before cross-origin candidate")
	}
	if posOf(usa.ID) < posOf(unknown.ID) {
		t.Error("same-origin candidate ranked before unknown-origin candidate")
	}
}

func TestRankUnknownViewerUsesJapanBaseline(t *testing.T) {
	japan := originCandidate("a", "Japan")
	brazil := originCandidate("b", "Brazil")

	ranked := Rank([]Candidate{brazil, japan}, RankOptions{ViewerOrigin: "", Sort: SortAlphabetical})

	if ranked[0].ID != japan.ID {
		t.Error("unknown viewer should prioritize Japan-origin candidates")
	}
}

func TestSortRecentZeroTimeLast(t *testing.T) {
	now := time.Now()
	newest := Candidate{ID: uuid.New(), FirstName: "new", CreatedAt: now}
	older := Candidate{ID: uuid.New(), FirstName: "old", CreatedAt: now.Add(-time.Hour)}
	missing := Candidate{ID: uuid.New(), FirstName: "zero"}

	cands := []Candidate{missing, older, newest}
	sortRecent(cands)

	if cands[0].ID != newest.ID || cands[1].ID != older.ID || cands[2].ID != missing.ID {
		t.Errorf("wrong recency order: %s, %s, %s", cands[0].FirstName, cands[1].FirstName, cands[2].FirstName)
	}
}

func TestRankSeededShuffleIsDeterministic(t *testing.T) {
	cands := make([]Candidate, 0, 10)
	for i := 0; i < 10; i++ {
		cands = append(cands, originCandidate("x", "Japan"))
	}

	opts := RankOptions{ViewerOrigin: "Japan", Sort: SortRandom, Seed: 42}
	first := Rank(append([]Candidate(nil), cands...), opts)
	second := Rank(append([]Candidate(nil), cands...), opts)

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("same seed produced different orders at index %d", i)
		}
	}
}

func TestRankUnknownSortFallsBackToShuffle(t *testing.T) {
	cands := []Candidate{
		originCandidate("a", "Japan"),
		originCandidate("b", "Japan"),
	}

	// Must not panic and must keep all candidates.
	ranked := Rank(cands, RankOptions{ViewerOrigin: "Japan", Sort: "popularity", Seed: 7})
	if len(ranked) != 2 {
		t.Fatalf("got %d candidates, want 2", len(ranked))
	}
}

func TestPage(t *testing.T) {
	cands := make([]Candidate, 5)
	for i := range cands {
		cands[i] = originCandidate("x", "")
	}

	tests := []struct {
		name          string
		offset, limit int
		want          int
	}{
		{"first page", 0, 2, 2},
		{"middle page", 2, 2, 2},
		{"partial last page", 4, 2, 1},
		{"offset past end", 5, 2, 0},
		{"no limit returns rest", 1, 0, 4},
		{"negative offset", -1, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Page(cands, tt.offset, tt.limit); len(got) != tt.want {
				t.Errorf("Page(%d, %d) returned %d, want %d", tt.offset, tt.limit, len(got), tt.want)
			}
		})
	}
}

func TestSortAlphabetical(t *testing.T) {
	cands := []Candidate{
		{ID: uuid.New(), FirstName: "charlie"},
		{ID: uuid.New(), FirstName: "Alice"},
		{ID: uuid.New(), FirstName: "Bob"},
	}
	sortAlphabetical(cands)

	got := []string{cands[0].FirstName, cands[1].FirstName, cands[2].FirstName}
	want := []string{"Alice", "Bob", "charlie"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("alphabetical order = %v, want %v", got, want)
		}
	}
}
