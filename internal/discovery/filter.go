package discovery

import "strings"

// Default inclusive age range applied when the client sends none.
const (
	DefaultAgeMin = 18
	DefaultAgeMax = 50
)

// FilterState is the ephemeral set of discovery constraints. An empty
// selection set for any dimension means "no filtering on this dimension",
// never "exclude all".
type FilterState struct {
	AgeMin int
	AgeMax int

	SpeakingLanguages []string
	LearningLanguages []string
	Hobbies           []string
	Countries         []string

	// MinLanguageLevel applies only to the speaking-language filter.
	MinLanguageLevel int
}

// DefaultFilterState returns the neutral state: default age range, no
// selections, threshold at the lowest level.
func DefaultFilterState() FilterState {
	return FilterState{
		AgeMin:           DefaultAgeMin,
		AgeMax:           DefaultAgeMax,
		MinLanguageLevel: 1,
	}
}

// Filter returns the subset of candidates satisfying every active
// predicate (AND across dimensions, OR within a multi-select dimension).
// It never errors: absent or malformed optional fields are non-matching
// data, not exceptions.
func Filter(cands []Candidate, query string, state FilterState) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if matches(c, query, state) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c Candidate, query string, state FilterState) bool {
	if !matchesQuery(c, query) {
		return false
	}
	if !matchesAge(c, state) {
		return false
	}
	if !matchesCountries(c, state.Countries) {
		return false
	}
	if !matchesSpeaking(c, state.SpeakingLanguages, state.MinLanguageLevel) {
		return false
	}
	// Learning-language and hobby dimensions are fail-closed: a profile
	// with the field empty cannot intersect a non-empty selection.
	if !intersects(c.LearningLanguages, state.LearningLanguages) {
		return false
	}
	if !intersects(c.Hobbies, state.Hobbies) {
		return false
	}
	return true
}

// matchesQuery is a case-insensitive substring match over the searchable
// text fields; any single field containing the query is a match.
func matchesQuery(c Candidate, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{c.FirstName, c.LastName, c.AboutMe, c.University, c.Department} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// matchesAge passes profiles with unknown age unconditionally.
func matchesAge(c Candidate, state FilterState) bool {
	if c.Age == nil {
		return true
	}
	return *c.Age >= state.AgeMin && *c.Age <= state.AgeMax
}

// matchesCountries is fail-open: with an active allow-list, a profile
// without an origin still passes.
func matchesCountries(c Candidate, countries []string) bool {
	if len(countries) == 0 {
		return true
	}
	if c.Origin == "" {
		return true
	}
	for _, country := range countries {
		if strings.EqualFold(c.Origin, country) {
			return true
		}
	}
	return false
}

// matchesSpeaking requires at least one selected language to be spoken at
// or above the threshold. A spoken language with no recorded level
// satisfies any threshold; a profile with no languages at all fails.
func matchesSpeaking(c Candidate, selected []string, minLevel int) bool {
	if len(selected) == 0 {
		return true
	}
	for _, lang := range selected {
		if !contains(c.Languages, lang) {
			continue
		}
		level, ok := c.LanguageLevels.LevelFor(lang)
		if !ok || level >= minLevel {
			return true
		}
	}
	return false
}

func intersects(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
