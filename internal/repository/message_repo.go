package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	ListByMatch(ctx context.Context, matchID uuid.UUID, limit, offset int) ([]entity.Message, error)

	// LastMessageAt returns the timestamp of the newest message in a
	// match, or the zero time when the conversation is empty.
	LastMessageAt(ctx context.Context, matchID uuid.UUID) (time.Time, error)

	CountReceivedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) ListByMatch(ctx context.Context, matchID uuid.UUID, limit, offset int) ([]entity.Message, error) {
	var messages []entity.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) LastMessageAt(ctx context.Context, matchID uuid.UUID) (time.Time, error) {
	var messages []entity.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at desc").
		Limit(1).
		Find(&messages).Error
	if err != nil || len(messages) == 0 {
		return time.Time{}, err
	}
	return messages[0].CreatedAt, nil
}

func (r *messageRepository) CountReceivedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Message{}).
		Joins("JOIN matches ON matches.id = messages.match_id").
		Where("matches.user_a_id = ? OR matches.user_b_id = ?", userID, userID).
		Where("messages.sender_id <> ?", userID).
		Where("messages.created_at >= ? AND messages.created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
