package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/pkg/apperror"
	"github.com/hellodap/dap-backend/pkg/storage"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, photos []dto.AvatarFile) (*entity.User, error)
}

type profileService struct {
	userRepo     repository.UserRepository
	imageStorage storage.ImageStorage
}

func NewProfileService(userRepo repository.UserRepository, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{
		userRepo:     userRepo,
		imageStorage: imageStorage,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, photos []dto.AvatarFile) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if user.Profile == nil {
		return nil, apperror.ErrNotFound
	}

	profile := user.Profile
	applyProfileInput(profile, input)

	// Uploads are per-file best effort; one failed photo doesn't block
	// the rest of the update.
	var uploadErrs []string
	for _, photo := range photos {
		if photo.Reader == nil || s.imageStorage == nil {
			continue
		}
		url, err := s.imageStorage.UploadImage(ctx, photo.Reader, folderForKind(photo.Kind), photo.FileName)
		if err != nil {
			uploadErrs = append(uploadErrs, photo.Kind+": "+err.Error())
			continue
		}
		switch photo.Kind {
		case "photo1":
			profile.PhotoURL1 = &url
		case "photo2":
			profile.PhotoURL2 = &url
		case "hobby":
			profile.HobbyPhotoURL = &url
		case "pet":
			profile.PetPhotoURL = &url
		default:
			profile.AvatarURL = &url
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated.PasswordHash = ""

	if len(uploadErrs) > 0 {
		return updated, apperror.New(207, "some photos failed to upload: "+strings.Join(uploadErrs, "; "), nil)
	}
	return updated, nil
}

func applyProfileInput(profile *entity.Profile, input dto.UpdateProfileInput) {
	if input.FirstName != nil && *input.FirstName != "" {
		profile.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil && *input.LastName != "" {
		profile.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Age != nil {
		profile.Age = input.Age
	}
	if input.Gender != nil {
		profile.Gender = normalizeOptional(input.Gender)
	}
	if input.Origin != nil {
		profile.Origin = normalizeOptional(input.Origin)
	}
	if input.Sexuality != nil {
		profile.Sexuality = normalizeOptional(input.Sexuality)
	}
	if input.University != nil {
		profile.University = normalizeOptional(input.University)
	}
	if input.Department != nil {
		profile.Department = normalizeOptional(input.Department)
	}
	if input.Languages != nil {
		profile.Languages = *input.Languages
	}
	if input.LanguageLevels != nil {
		profile.LanguageLevels = *input.LanguageLevels
	}
	if input.LearningLanguages != nil {
		profile.LearningLanguages = *input.LearningLanguages
	}
	if input.Hobbies != nil {
		profile.Hobbies = *input.Hobbies
	}
	if input.AboutMe != nil {
		profile.AboutMe = normalizeOptional(input.AboutMe)
	}
	if input.BestQuality != nil {
		profile.BestQuality = normalizeOptional(input.BestQuality)
	}
	if input.LifeGoal != nil {
		profile.LifeGoal = normalizeOptional(input.LifeGoal)
	}
	if input.Superpower != nil {
		profile.Superpower = normalizeOptional(input.Superpower)
	}
	if input.WorstNightmare != nil {
		profile.WorstNightmare = normalizeOptional(input.WorstNightmare)
	}
	if input.FriendActivity != nil {
		profile.FriendActivity = normalizeOptional(input.FriendActivity)
	}
	if input.HobbyPhotoCaption != nil {
		profile.HobbyPhotoCaption = normalizeOptional(input.HobbyPhotoCaption)
	}
	if input.PetPhotoCaption != nil {
		profile.PetPhotoCaption = normalizeOptional(input.PetPhotoCaption)
	}
}

func folderForKind(kind string) string {
	switch kind {
	case "hobby", "pet":
		return storage.FolderHobbyPhotos
	case "photo1", "photo2":
		return storage.FolderProfilePhotos
	default:
		return storage.FolderAvatars
	}
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
