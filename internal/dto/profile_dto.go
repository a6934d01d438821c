package dto

import "github.com/hellodap/dap-backend/internal/entity"

// UpdateProfileInput carries only the fields the owner wants to change;
// nil leaves a field untouched.
type UpdateProfileInput struct {
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=100"`

	Age       *int    `json:"age,omitempty" binding:"omitempty,gte=18"`
	Gender    *string `json:"gender,omitempty"`
	Origin    *string `json:"origin,omitempty"`
	Sexuality *string `json:"sexuality,omitempty"`

	University *string `json:"university,omitempty"`
	Department *string `json:"department,omitempty"`

	Languages         *entity.StringList     `json:"languages,omitempty"`
	LanguageLevels    *entity.LanguageLevels `json:"language_levels,omitempty"`
	LearningLanguages *entity.StringList     `json:"learning_languages,omitempty"`
	Hobbies           *entity.StringList     `json:"hobbies,omitempty"`

	AboutMe        *string `json:"about_me,omitempty"`
	BestQuality    *string `json:"best_quality,omitempty"`
	LifeGoal       *string `json:"life_goal,omitempty"`
	Superpower     *string `json:"superpower,omitempty"`
	WorstNightmare *string `json:"worst_nightmare,omitempty"`
	FriendActivity *string `json:"friend_activity,omitempty"`

	HobbyPhotoCaption *string `json:"hobby_photo_caption,omitempty"`
	PetPhotoCaption   *string `json:"pet_photo_caption,omitempty"`
}

// AvatarFile carries an uploaded image stream into the service layer.
type AvatarFile struct {
	Reader interface {
		Read(p []byte) (n int, err error)
	}
	FileName string
	// Kind selects the destination: "avatar", "photo1", "photo2",
	// "hobby" or "pet".
	Kind string
}
