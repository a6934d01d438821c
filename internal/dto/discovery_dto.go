package dto

import (
	"time"

	"github.com/google/uuid"
)

type DiscoverFilter struct {
	Search string `form:"search"`

	AgeMin int `form:"age_min" binding:"omitempty,gte=18"`
	AgeMax int `form:"age_max" binding:"omitempty,lte=120"`

	SpeakingLanguages []string `form:"speaking_languages"`
	LearningLanguages []string `form:"learning_languages"`
	Hobbies           []string `form:"hobbies"`
	Countries         []string `form:"countries"`

	MinLanguageLevel int `form:"min_language_level" binding:"omitempty,gte=1,lte=4"`

	SortBy string `form:"sort_by"` // "alphabetical", "recent", "random"
	Seed   int64  `form:"seed"`

	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

type CandidateResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Age       *int      `json:"age,omitempty"`
	Origin    string    `json:"origin,omitempty"`

	Languages         []string       `json:"languages"`
	LanguageLevels    map[string]int `json:"language_levels"`
	LearningLanguages []string       `json:"learning_languages"`
	Hobbies           []string       `json:"hobbies"`

	AboutMe   string    `json:"about_me,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type DiscoverResponse struct {
	Data []CandidateResponse `json:"data"`
	Meta PaginationMeta      `json:"meta"`
}
