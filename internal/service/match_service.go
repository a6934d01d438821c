package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/pkg/apperror"
	"gorm.io/gorm"
)

type MatchService interface {
	// ToggleLike flips the like from one user towards another. A like that
	// completes a reciprocal pair creates a match and notifies both sides.
	ToggleLike(ctx context.Context, fromID, toID uuid.UUID) (*dto.LikeResponse, error)
}

type matchService struct {
	matchRepo repository.MatchRepository
	userRepo  repository.UserRepository
	notifier  NotificationService
}

func NewMatchService(matchRepo repository.MatchRepository, userRepo repository.UserRepository, notifier NotificationService) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

func (s *matchService) ToggleLike(ctx context.Context, fromID, toID uuid.UUID) (*dto.LikeResponse, error) {
	if fromID == toID {
		return nil, apperror.New(400, "you cannot like yourself", apperror.ErrBadRequest)
	}

	if _, err := s.userRepo.FindByID(ctx, toID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	liked, err := s.matchRepo.ToggleLike(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	resp := &dto.LikeResponse{Liked: liked}
	if !liked {
		// Unliking leaves any existing match alone; conversations survive
		// a changed mind.
		return resp, nil
	}

	reciprocal, err := s.matchRepo.HasLike(ctx, toID, fromID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return resp, nil
	}

	match, err := s.ensureMatch(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	resp.Matched = true
	resp.MatchID = &match.ID
	return resp, nil
}

func (s *matchService) ensureMatch(ctx context.Context, fromID, toID uuid.UUID) (*entity.Match, error) {
	existing, err := s.matchRepo.FindMatchByPair(ctx, fromID, toID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	match, err := s.matchRepo.CreateMatch(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	s.notifyMatch(ctx, match, fromID, toID)
	s.notifyMatch(ctx, match, toID, fromID)
	return match, nil
}

func (s *matchService) notifyMatch(ctx context.Context, match *entity.Match, recipientID, partnerID uuid.UUID) {
	if s.notifier == nil {
		return
	}

	partner, err := s.userRepo.FindByID(ctx, partnerID)
	if err != nil {
		return
	}
	partnerName := "Someone"
	if partner.Profile != nil {
		partnerName = partner.Profile.FullName()
	}

	notification := &entity.Notification{
		UserID:     recipientID,
		ActorID:    partnerID,
		EntityID:   match.ID,
		EntityType: "match",
		Type:       entity.NotificationMatch,
		Message:    "You matched with " + partnerName + "!",
	}
	if err := s.notifier.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create match notification for user %s: %v", recipientID, err)
	}
}
