package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/pkg/apperror"
)

// knownPrompts are the one-time prompts the client can ask about.
var knownPrompts = []string{entity.PromptInstallNudge, entity.PromptTutorial}

type OnboardingService interface {
	// PromptStates answers, per prompt, whether this device should still
	// show it. An unanswered prompt is visible; "remind_later" makes it
	// visible again on the next session; "never_show" retires it.
	PromptStates(ctx context.Context, userID uuid.UUID, deviceID string) ([]dto.PromptStateResponse, error)
	Apply(ctx context.Context, userID uuid.UUID, req dto.PromptActionRequest) (*dto.PromptStateResponse, error)
}

type onboardingService struct {
	repo repository.OnboardingRepository
}

func NewOnboardingService(repo repository.OnboardingRepository) OnboardingService {
	return &onboardingService{repo: repo}
}

func (s *onboardingService) PromptStates(ctx context.Context, userID uuid.UUID, deviceID string) ([]dto.PromptStateResponse, error) {
	records, err := s.repo.ListForDevice(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]string, len(records))
	for _, record := range records {
		byKey[record.PromptKey] = record.State
	}

	states := make([]dto.PromptStateResponse, 0, len(knownPrompts))
	for _, key := range knownPrompts {
		state, ok := byKey[key]
		if !ok {
			state = entity.OnboardingShow
		}
		states = append(states, dto.PromptStateResponse{
			PromptKey: key,
			Visible:   state != entity.OnboardingNeverShow,
			State:     state,
		})
	}
	return states, nil
}

func (s *onboardingService) Apply(ctx context.Context, userID uuid.UUID, req dto.PromptActionRequest) (*dto.PromptStateResponse, error) {
	state, err := nextPromptState(req.Action)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Find(ctx, userID, req.DeviceID, req.PromptKey)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &entity.DeviceOnboarding{
			UserID:    userID,
			DeviceID:  req.DeviceID,
			PromptKey: req.PromptKey,
		}
	}

	// never_show is final; remind_later cannot resurrect a retired prompt.
	if record.State != entity.OnboardingNeverShow {
		record.State = state
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, err
		}
	}

	return &dto.PromptStateResponse{
		PromptKey: req.PromptKey,
		Visible:   record.State != entity.OnboardingNeverShow,
		State:     record.State,
	}, nil
}

func nextPromptState(action string) (string, error) {
	switch action {
	case dto.PromptActionRemindLater:
		return entity.OnboardingRemindLater, nil
	case dto.PromptActionNeverShow:
		return entity.OnboardingNeverShow, nil
	default:
		return "", apperror.New(400, "unknown prompt action", apperror.ErrBadRequest)
	}
}
