package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"gorm.io/gorm"
)

type MatchRepository interface {
	// ToggleLike creates or removes a like from one user to another and
	// reports whether the like exists after the call.
	ToggleLike(ctx context.Context, fromID, toID uuid.UUID) (liked bool, err error)
	HasLike(ctx context.Context, fromID, toID uuid.UUID) (bool, error)

	CreateMatch(ctx context.Context, a, b uuid.UUID) (*entity.Match, error)
	FindMatchByPair(ctx context.Context, a, b uuid.UUID) (*entity.Match, error)
	FindMatchByID(ctx context.Context, id uuid.UUID) (*entity.Match, error)
	ListMatchesForUser(ctx context.Context, userID uuid.UUID) ([]entity.Match, error)
	CountMatchesForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateLastRead(ctx context.Context, matchID, userID uuid.UUID, at time.Time) error

	CountLikesReceivedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) ToggleLike(ctx context.Context, fromID, toID uuid.UUID) (bool, error) {
	// Find with a slice avoids GORM's "record not found" log noise.
	var existing []entity.Like
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return false, err
	}

	if len(existing) > 0 {
		if err := r.db.WithContext(ctx).Delete(&existing[0]).Error; err != nil {
			return false, err
		}
		return false, nil
	}

	like := entity.Like{FromUserID: fromID, ToUserID: toID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *matchRepository) HasLike(ctx context.Context, fromID, toID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Like{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, err
}

// orderPair keeps (a,b) canonical so each pair maps to one match row.
func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) > 0 {
		return b, a
	}
	return a, b
}

func (r *matchRepository) CreateMatch(ctx context.Context, a, b uuid.UUID) (*entity.Match, error) {
	a, b = orderPair(a, b)
	match := entity.Match{UserAID: a, UserBID: b}
	if err := r.db.WithContext(ctx).Create(&match).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) FindMatchByPair(ctx context.Context, a, b uuid.UUID) (*entity.Match, error) {
	a, b = orderPair(a, b)
	var match entity.Match
	err := r.db.WithContext(ctx).
		First(&match, "user_a_id = ? AND user_b_id = ?", a, b).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) FindMatchByID(ctx context.Context, id uuid.UUID) (*entity.Match, error) {
	var match entity.Match
	if err := r.db.WithContext(ctx).First(&match, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) ListMatchesForUser(ctx context.Context, userID uuid.UUID) ([]entity.Match, error) {
	var matches []entity.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at desc").
		Find(&matches).Error
	return matches, err
}

func (r *matchRepository) CountMatchesForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Match{}).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}

func (r *matchRepository) UpdateLastRead(ctx context.Context, matchID, userID uuid.UUID, at time.Time) error {
	match, err := r.FindMatchByID(ctx, matchID)
	if err != nil {
		return err
	}

	column := "last_read_b"
	if match.UserAID == userID {
		column = "last_read_a"
	}

	return r.db.WithContext(ctx).Model(&entity.Match{}).
		Where("id = ?", matchID).
		Update(column, at).Error
}

func (r *matchRepository) CountLikesReceivedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Like{}).
		Where("to_user_id = ?", userID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
