package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/discovery"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/repository"
)

// DiscoveryService fetches the full candidate pool and runs it through the
// pure filter/rank pipeline. The in-memory design bounds this to small
// pools; the pipeline's contract allows a later move to query translation
// without touching callers.
type DiscoveryService interface {
	Discover(ctx context.Context, viewerID uuid.UUID, filter dto.DiscoverFilter) (*dto.DiscoverResponse, error)
}

type discoveryService struct {
	userRepo repository.UserRepository
}

func NewDiscoveryService(userRepo repository.UserRepository) DiscoveryService {
	return &discoveryService{userRepo: userRepo}
}

func (s *discoveryService) Discover(ctx context.Context, viewerID uuid.UUID, filter dto.DiscoverFilter) (*dto.DiscoverResponse, error) {
	viewer, err := s.userRepo.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.userRepo.ListProfilesExcluding(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	cands := discovery.Normalize(profiles)
	state := toFilterState(filter)
	filtered := discovery.Filter(cands, filter.Search, state)

	viewerOrigin := ""
	if viewer.Profile != nil && viewer.Profile.Origin != nil {
		viewerOrigin = *viewer.Profile.Origin
	}

	ranked := discovery.Rank(filtered, discovery.RankOptions{
		ViewerOrigin: viewerOrigin,
		Sort:         discovery.SortOption(filter.SortBy),
		Seed:         filter.Seed,
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	slice := discovery.Page(ranked, (page-1)*limit, limit)

	data := make([]dto.CandidateResponse, 0, len(slice))
	for _, c := range slice {
		data = append(data, toCandidateResponse(c))
	}

	totalItems := int64(len(ranked))
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))

	return &dto.DiscoverResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  totalItems,
			Limit:       limit,
		},
	}, nil
}

func toFilterState(filter dto.DiscoverFilter) discovery.FilterState {
	state := discovery.DefaultFilterState()
	if filter.AgeMin > 0 {
		state.AgeMin = filter.AgeMin
	}
	if filter.AgeMax > 0 {
		state.AgeMax = filter.AgeMax
	}
	if filter.MinLanguageLevel > 0 {
		state.MinLanguageLevel = filter.MinLanguageLevel
	}
	state.SpeakingLanguages = filter.SpeakingLanguages
	state.LearningLanguages = filter.LearningLanguages
	state.Hobbies = filter.Hobbies
	state.Countries = filter.Countries
	return state
}

func toCandidateResponse(c discovery.Candidate) dto.CandidateResponse {
	return dto.CandidateResponse{
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Age:               c.Age,
		Origin:            c.Origin,
		Languages:         c.Languages,
		LanguageLevels:    c.LanguageLevels,
		LearningLanguages: c.LearningLanguages,
		Hobbies:           c.Hobbies,
		AboutMe:           c.AboutMe,
		AvatarURL:         c.AvatarURL,
		CreatedAt:         c.CreatedAt,
	}
}
