package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/pkg/apperror"
	"gorm.io/gorm"
)

type MessageService interface {
	SendMessage(ctx context.Context, matchID, senderID uuid.UUID, req dto.SendMessageRequest) (*entity.Message, error)
	ListMessages(ctx context.Context, matchID, userID uuid.UUID, limit, offset int) ([]entity.Message, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]dto.ConversationResponse, error)
	MarkRead(ctx context.Context, matchID, userID uuid.UUID) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	matchRepo   repository.MatchRepository
	userRepo    repository.UserRepository
	notifier    NotificationService
}

func NewMessageService(messageRepo repository.MessageRepository, matchRepo repository.MatchRepository, userRepo repository.UserRepository, notifier NotificationService) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// IsUnread derives the unread flag from the newest message timestamp and
// the reader's last-read mark. An empty conversation is never unread; an
// unset mark leaves everything unread.
func IsUnread(lastMessageAt time.Time, lastRead *time.Time) bool {
	if lastMessageAt.IsZero() {
		return false
	}
	if lastRead == nil {
		return true
	}
	return lastMessageAt.After(*lastRead)
}

func (s *messageService) SendMessage(ctx context.Context, matchID, senderID uuid.UUID, req dto.SendMessageRequest) (*entity.Message, error) {
	match, err := s.memberMatch(ctx, matchID, senderID)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, apperror.New(400, "message body cannot be empty", apperror.ErrBadRequest)
	}

	message := entity.Message{
		MatchID:  matchID,
		SenderID: senderID,
		Body:     body,
	}
	if err := s.messageRepo.Create(ctx, &message); err != nil {
		return nil, err
	}

	// Sending implies the sender has seen the thread up to now.
	if err := s.matchRepo.UpdateLastRead(ctx, matchID, senderID, time.Now()); err != nil {
		log.Printf("failed to advance last-read for match %s: %v", matchID, err)
	}

	s.notifyMessage(ctx, match, senderID, body)
	return &message, nil
}

func (s *messageService) ListMessages(ctx context.Context, matchID, userID uuid.UUID, limit, offset int) ([]entity.Message, error) {
	if _, err := s.memberMatch(ctx, matchID, userID); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 50
	}
	return s.messageRepo.ListByMatch(ctx, matchID, limit, offset)
}

func (s *messageService) ListConversations(ctx context.Context, userID uuid.UUID) ([]dto.ConversationResponse, error) {
	matches, err := s.matchRepo.ListMatchesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]dto.ConversationResponse, 0, len(matches))
	for i := range matches {
		match := &matches[i]

		lastAt, err := s.messageRepo.LastMessageAt(ctx, match.ID)
		if err != nil {
			return nil, err
		}

		conv := dto.ConversationResponse{
			MatchID:   match.ID,
			PartnerID: match.Other(userID),
			MatchedAt: match.CreatedAt,
			Unread:    IsUnread(lastAt, match.LastReadFor(userID)),
		}
		if !lastAt.IsZero() {
			at := lastAt
			conv.LastMessageAt = &at
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

func (s *messageService) MarkRead(ctx context.Context, matchID, userID uuid.UUID) error {
	if _, err := s.memberMatch(ctx, matchID, userID); err != nil {
		return err
	}
	return s.matchRepo.UpdateLastRead(ctx, matchID, userID, time.Now())
}

func (s *messageService) memberMatch(ctx context.Context, matchID, userID uuid.UUID) (*entity.Match, error) {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if match.UserAID != userID && match.UserBID != userID {
		return nil, apperror.ErrForbidden
	}
	return match, nil
}

func (s *messageService) notifyMessage(ctx context.Context, match *entity.Match, senderID uuid.UUID, body string) {
	if s.notifier == nil {
		return
	}

	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return
	}
	senderName := "Someone"
	if sender.Profile != nil {
		senderName = sender.Profile.FullName()
	}

	preview := body
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}

	notification := &entity.Notification{
		UserID:     match.Other(senderID),
		ActorID:    senderID,
		EntityID:   match.ID,
		EntityType: "message",
		Type:       entity.NotificationMessage,
		Message:    senderName + ": " + preview,
	}
	if err := s.notifier.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create message notification for match %s: %v", match.ID, err)
	}
}
