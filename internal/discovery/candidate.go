// Package discovery implements the profile discovery pipeline: normalizing
// stored profile rows into candidates, narrowing them with filter
// predicates and ordering the result with an origin-priority ranking.
// Everything here is a pure function of its inputs so the same contract can
// later be pushed into a server-side query translation.
package discovery

import (
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
)

// Candidate is the canonical in-memory shape of a profile for filtering
// and ranking. Loosely-typed stored fields (the language-level mapping in
// particular) are already normalized by the time a Candidate exists.
type Candidate struct {
	ID        uuid.UUID
	FirstName string
	LastName  string

	Age    *int
	Origin string // empty when unset

	Languages         []string
	LanguageLevels    entity.LanguageLevels
	LearningLanguages []string
	Hobbies           []string

	AboutMe    string
	University string
	Department string

	AvatarURL string
	CreatedAt time.Time
}

// Normalize shapes stored profiles into candidates.
func Normalize(profiles []entity.Profile) []Candidate {
	out := make([]Candidate, 0, len(profiles))
	for i := range profiles {
		out = append(out, normalizeOne(&profiles[i]))
	}
	return out
}

func normalizeOne(p *entity.Profile) Candidate {
	c := Candidate{
		ID:                p.UserID,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Age:               p.Age,
		Languages:         p.Languages,
		LanguageLevels:    p.LanguageLevels,
		LearningLanguages: p.LearningLanguages,
		Hobbies:           p.Hobbies,
		CreatedAt:         p.CreatedAt,
	}
	if c.LanguageLevels == nil {
		c.LanguageLevels = entity.LanguageLevels{}
	}
	c.Origin = deref(p.Origin)
	c.AboutMe = deref(p.AboutMe)
	c.University = deref(p.University)
	c.Department = deref(p.Department)
	c.AvatarURL = deref(p.AvatarURL)
	return c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
