package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/pkg/push"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type notificationService struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	redisClient *redis.Client
	pushSender  push.Sender
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, redisClient *redis.Client, pushSender push.Sender) NotificationService {
	return &notificationService{
		repo:        repo,
		userRepo:    userRepo,
		redisClient: redisClient,
		pushSender:  pushSender,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis so open websocket streams see it immediately
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	// 3. Best-effort web push; a failure never fails the notification
	if s.pushSender != nil {
		go s.sendPush(notification)
	}

	return nil
}

func (s *notificationService) sendPush(notification *entity.Notification) {
	ctx := context.Background()

	user, err := s.userRepo.FindByID(ctx, notification.UserID)
	if err != nil || user.PushToken == nil || *user.PushToken == "" {
		return
	}

	data := map[string]string{
		"entity_id":   notification.EntityID.String(),
		"entity_type": notification.EntityType,
		"type":        notification.Type,
	}
	if err := s.pushSender.Send(ctx, *user.PushToken, "DAP", notification.Message, data); err != nil {
		log.Printf("push delivery failed for user %s: %v", notification.UserID, err)
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
