package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipationRepository interface {
	// Join atomically validates capacity and records membership: the event
	// row is locked, fullness and past-date are re-checked against the
	// authoritative counter, the participation row is created and the
	// counter incremented, all in one transaction.
	Join(ctx context.Context, eventID, userID uuid.UUID, now time.Time) error

	// Leave removes the membership record and decrements the counter,
	// flooring at zero.
	Leave(ctx context.Context, eventID, userID uuid.UUID) error

	IsJoined(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	CountForEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	ListEventIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	CountJoinsOnEventsOf(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error)
}

type participationRepository struct {
	db *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

func (r *participationRepository) Join(ctx context.Context, eventID, userID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event entity.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", eventID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.ErrNotFound
			}
			return err
		}

		if event.CreatorID == userID {
			// The creator is an implicit participant; no record is kept.
			return apperror.ErrAlreadyJoined
		}
		if event.IsPast(now) {
			return apperror.ErrEventEnded
		}
		if event.IsFull() {
			return apperror.ErrEventFull
		}

		var existing int64
		if err := tx.Model(&entity.Participation{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperror.ErrAlreadyJoined
		}

		participation := entity.Participation{EventID: eventID, UserID: userID}
		if err := tx.Create(&participation).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Event{}).
			Where("id = ?", eventID).
			Update("current_participants", gorm.Expr("current_participants + 1")).Error
	})
}

func (r *participationRepository) Leave(ctx context.Context, eventID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&entity.Participation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}

		return tx.Model(&entity.Event{}).
			Where("id = ? AND current_participants > 0", eventID).
			Update("current_participants", gorm.Expr("current_participants - 1")).Error
	})
}

func (r *participationRepository) IsJoined(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Participation{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *participationRepository) CountForEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Participation{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *participationRepository) ListEventIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Participation{}).
		Where("user_id = ?", userID).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (r *participationRepository) CountJoinsOnEventsOf(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Participation{}).
		Joins("JOIN events ON events.id = participations.event_id").
		Where("events.creator_id = ?", ownerID).
		Where("participations.created_at >= ? AND participations.created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
