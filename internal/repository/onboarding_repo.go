package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
	"gorm.io/gorm"
)

type OnboardingRepository interface {
	// Find returns the prompt record for (user, device, prompt) or nil
	// when the prompt has never been answered on this device.
	Find(ctx context.Context, userID uuid.UUID, deviceID, promptKey string) (*entity.DeviceOnboarding, error)
	Save(ctx context.Context, record *entity.DeviceOnboarding) error
	ListForDevice(ctx context.Context, userID uuid.UUID, deviceID string) ([]entity.DeviceOnboarding, error)
}

type onboardingRepository struct {
	db *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) OnboardingRepository {
	return &onboardingRepository{db: db}
}

func (r *onboardingRepository) Find(ctx context.Context, userID uuid.UUID, deviceID, promptKey string) (*entity.DeviceOnboarding, error) {
	var records []entity.DeviceOnboarding
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND device_id = ? AND prompt_key = ?", userID, deviceID, promptKey).
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *onboardingRepository) Save(ctx context.Context, record *entity.DeviceOnboarding) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *onboardingRepository) ListForDevice(ctx context.Context, userID uuid.UUID, deviceID string) ([]entity.DeviceOnboarding, error) {
	var records []entity.DeviceOnboarding
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Find(&records).Error
	return records, err
}
