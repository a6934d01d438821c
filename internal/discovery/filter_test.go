package discovery

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
)

func intPtr(v int) *int { return &v }

func testCandidate(mod func(*Candidate)) Candidate {
	c := Candidate{
		ID:                uuid.New(),
		FirstName:         "Aiko",
		LastName:          "Tanaka",
		Age:               intPtr(22),
		Origin:            "Japan",
		Languages:         []string{"Japanese", "English"},
		LanguageLevels:    entity.LanguageLevels{"English": 3},
		LearningLanguages: []string{"Korean"},
		Hobbies:           []string{"Cooking"},
		AboutMe:           "I love hiking and cooking",
		University:        "Waseda",
		Department:        "Economics",
	}
	if mod != nil {
		mod(&c)
	}
	return c
}

func TestFilterNeutralStateKeepsEveryone(t *testing.T) {
	cands := []Candidate{
		testCandidate(nil),
		testCandidate(func(c *Candidate) { c.Age = nil; c.Origin = "" }),
		testCandidate(func(c *Candidate) { c.Languages = nil; c.LanguageLevels = entity.LanguageLevels{} }),
	}

	got := Filter(cands, "", DefaultFilterState())
	if len(got) != len(cands) {
		t.Fatalf("neutral filter dropped candidates: got %d, want %d", len(got), len(cands))
	}
}

func TestFilterIsMonotone(t *testing.T) {
	cands := []Candidate{
		testCandidate(nil),
		testCandidate(func(c *Candidate) { c.Origin = "Brazil"; c.Hobbies = []string{"Soccer"} }),
		testCandidate(func(c *Candidate) { c.Age = intPtr(40) }),
	}

	loose := DefaultFilterState()
	tight := loose
	tight.Countries = []string{"Japan"}
	tight.Hobbies = []string{"Cooking"}
	tight.AgeMax = 30

	looseOut := Filter(cands, "", loose)
	tightOut := Filter(cands, "", tight)
	if len(tightOut) > len(looseOut) {
		t.Fatalf("adding constraints grew the result: %d > %d", len(tightOut), len(looseOut))
	}

	// Every survivor of the tighter state also survives the looser one.
	looseIDs := map[uuid.UUID]bool{}
	for _, c := range looseOut {
		looseIDs[c.ID] = true
	}
	for _, c := range tightOut {
		if !looseIDs[c.ID] {
			t.Errorf("candidate %s passed tight state but not loose state", c.ID)
		}
	}
}

func TestMatchesAge(t *testing.T) {
	state := FilterState{AgeMin: 20, AgeMax: 30}

	tests := []struct {
		name string
		age  *int
		want bool
	}{
		{"unknown age passes", nil, true},
		{"below range", intPtr(19), false},
		{"lower bound inclusive", intPtr(20), true},
		{"upper bound inclusive", intPtr(30), true},
		{"above range", intPtr(31), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate(func(c *Candidate) { c.Age = tt.age })
			if got := matchesAge(c, state); got != tt.want {
				t.Errorf("matchesAge = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesCountries(t *testing.T) {
	tests := []struct {
		name      string
		origin    string
		countries []string
		want      bool
	}{
		{"no selection passes everyone", "Japan", nil, true},
		{"match", "Japan", []string{"Japan", "Korea"}, true},
		{"case-insensitive match", "japan", []string{"Japan"}, true},
		{"no match", "Brazil", []string{"Japan"}, false},
		{"unknown origin passes", "", []string{"Japan"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate(func(c *Candidate) { c.Origin = tt.origin })
			if got := matchesCountries(c, tt.countries); got != tt.want {
				t.Errorf("matchesCountries = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesSpeaking(t *testing.T) {
	tests := []struct {
		name     string
		langs    []string
		levels   entity.LanguageLevels
		selected []string
		minLevel int
		want     bool
	}{
		{"no selection passes", nil, nil, nil, 3, true},
		{"spoken above threshold", []string{"English"}, entity.LanguageLevels{"English": 3}, []string{"English"}, 2, true},
		{"spoken at threshold", []string{"English"}, entity.LanguageLevels{"English": 2}, []string{"English"}, 2, true},
		{"spoken below threshold", []string{"English"}, entity.LanguageLevels{"English": 1}, []string{"English"}, 3, false},
		{"missing level satisfies any threshold", []string{"English"}, entity.LanguageLevels{}, []string{"English"}, 4, true},
		{"not spoken at all", []string{"Japanese"}, entity.LanguageLevels{}, []string{"English"}, 1, false},
		{"no languages recorded fails", nil, entity.LanguageLevels{}, []string{"English"}, 1, false},
		{"one of several selected matches", []string{"French"}, entity.LanguageLevels{"French": 4}, []string{"English", "French"}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCandidate(func(c *Candidate) {
				c.Languages = tt.langs
				c.LanguageLevels = tt.levels
			})
			if got := matchesSpeaking(c, tt.selected, tt.minLevel); got != tt.want {
				t.Errorf("matchesSpeaking = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLearningAndHobbiesFailClosed(t *testing.T) {
	state := DefaultFilterState()
	state.LearningLanguages = []string{"Korean"}

	empty := testCandidate(func(c *Candidate) { c.LearningLanguages = nil })
	if got := Filter([]Candidate{empty}, "", state); len(got) != 0 {
		t.Error("candidate with no learning languages passed a learning-language filter")
	}

	state = DefaultFilterState()
	state.Hobbies = []string{"Cooking"}
	noHobbies := testCandidate(func(c *Candidate) { c.Hobbies = nil })
	if got := Filter([]Candidate{noHobbies}, "", state); len(got) != 0 {
		t.Error("candidate with no hobbies passed a hobby filter")
	}
}

func TestMatchesQuery(t *testing.T) {
	c := testCandidate(nil)

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"  ", true},
		{"aiko", true},
		{"TANAKA", true},
		{"hiking", true},
		{"waseda", true},
		{"econ", true},
		{"zzz", false},
	}
	for _, tt := range tests {
		if got := matchesQuery(c, tt.query); got != tt.want {
			t.Errorf("matchesQuery(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
