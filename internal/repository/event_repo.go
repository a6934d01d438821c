package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, limit, offset int) ([]entity.Event, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Event, error)
	ListByDate(ctx context.Context, day time.Time) ([]entity.Event, error)
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]entity.Event, error)

	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)

	CreateComment(ctx context.Context, comment *entity.EventComment) error
	ListComments(ctx context.Context, eventID uuid.UUID) ([]entity.EventComment, error)
	DeleteComment(ctx context.Context, id, userID uuid.UUID) error
	CountCommentsOnEventsOf(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	err := r.db.WithContext(ctx).
		Preload("Creator.Profile").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&entity.Participation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&entity.EventComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Event{}, "id = ?", id).Error
	})
}

func (r *eventRepository) List(ctx context.Context, limit, offset int) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.WithContext(ctx).
		Preload("Creator.Profile").
		Order("date asc").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Event, error) {
	if len(ids) == 0 {
		return []entity.Event{}, nil
	}
	var events []entity.Event
	err := r.db.WithContext(ctx).
		Preload("Creator.Profile").
		Where("id IN ?", ids).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListByDate(ctx context.Context, day time.Time) ([]entity.Event, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var events []entity.Event
	err := r.db.WithContext(ctx).
		Preload("Creator.Profile").
		Where("date >= ? AND date < ?", start, end).
		Order("date asc").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.WithContext(ctx).
		Where("date > ?", after).
		Order("date asc").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Event{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *eventRepository) CreateComment(ctx context.Context, comment *entity.EventComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *eventRepository) ListComments(ctx context.Context, eventID uuid.UUID) ([]entity.EventComment, error) {
	var comments []entity.EventComment
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Preload("User.Profile").
		Find(&comments).Error
	return comments, err
}

func (r *eventRepository) DeleteComment(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.EventComment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) CountCommentsOnEventsOf(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.EventComment{}).
		Joins("JOIN events ON events.id = event_comments.event_id").
		Where("events.creator_id = ?", ownerID).
		Where("event_comments.user_id <> ?", ownerID).
		Where("event_comments.created_at >= ? AND event_comments.created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
