package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, profile *entity.Profile) error
	SetPushToken(ctx context.Context, userID uuid.UUID, token *string) error

	// ListProfilesExcluding returns every profile except the viewer's own,
	// the full candidate pool the discovery pipeline filters in memory.
	ListProfilesExcluding(ctx context.Context, userID uuid.UUID) ([]entity.Profile, error)

	// ListAll returns every user with profile preloaded, for batch jobs
	// that walk the whole user base.
	ListAll(ctx context.Context) ([]entity.User, error)

	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)

	// DeleteCascade removes the user and every row referencing them. This
	// is the privileged account-deletion path.
	DeleteCascade(ctx context.Context, userID uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if profile != nil {
			profile.UserID = user.ID
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Profile").First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *userRepository) SetPushToken(ctx context.Context, userID uuid.UUID, token *string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userID).
		Update("push_token", token).Error
}

func (r *userRepository) ListProfilesExcluding(ctx context.Context, userID uuid.UUID) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := r.db.WithContext(ctx).
		Where("user_id <> ?", userID).
		Find(&profiles).Error
	return profiles, err
}

func (r *userRepository) ListAll(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).Preload("Profile").Find(&users).Error
	return users, err
}

func (r *userRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *userRepository) DeleteCascade(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&entity.Participation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&entity.EventComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("creator_id = ?", userID).Delete(&entity.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_user_id = ? OR to_user_id = ?", userID, userID).Delete(&entity.Like{}).Error; err != nil {
			return err
		}
		var matchIDs []uuid.UUID
		if err := tx.Model(&entity.Match{}).
			Where("user_a_id = ? OR user_b_id = ?", userID, userID).
			Pluck("id", &matchIDs).Error; err != nil {
			return err
		}
		if len(matchIDs) > 0 {
			if err := tx.Where("match_id IN ?", matchIDs).Delete(&entity.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", matchIDs).Delete(&entity.Match{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ? OR actor_id = ?", userID, userID).Delete(&entity.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&entity.DeviceOnboarding{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&entity.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.User{}, "id = ?", userID).Error
	})
}
