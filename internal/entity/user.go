package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	PushToken    *string   `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile      *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Profile holds a user's public matching-relevant attributes. Created at
// sign-up completion, mutated only by its owner, removed only by the full
// account deletion cascade.
type Profile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`

	// Age is nil when unknown; filters treat unknown as "no constraint
	// violated".
	Age       *int    `json:"age,omitempty"`
	Gender    *string `gorm:"size:50" json:"gender,omitempty"`
	Origin    *string `gorm:"size:100" json:"origin,omitempty"`
	Sexuality *string `gorm:"size:50" json:"sexuality,omitempty"`

	University *string `gorm:"size:150" json:"university,omitempty"`
	Department *string `gorm:"size:150" json:"department,omitempty"`

	Languages         StringList     `gorm:"type:jsonb" json:"languages"`
	LanguageLevels    LanguageLevels `gorm:"type:jsonb" json:"language_levels"`
	LearningLanguages StringList     `gorm:"type:jsonb" json:"learning_languages"`
	Hobbies           StringList     `gorm:"type:jsonb" json:"hobbies"`

	AvatarURL         *string `gorm:"type:text" json:"avatar_url,omitempty"`
	PhotoURL1         *string `gorm:"type:text" json:"photo_url_1,omitempty"`
	PhotoURL2         *string `gorm:"type:text" json:"photo_url_2,omitempty"`
	HobbyPhotoURL     *string `gorm:"type:text" json:"hobby_photo_url,omitempty"`
	PetPhotoURL       *string `gorm:"type:text" json:"pet_photo_url,omitempty"`
	HobbyPhotoCaption *string `gorm:"type:text" json:"hobby_photo_caption,omitempty"`
	PetPhotoCaption   *string `gorm:"type:text" json:"pet_photo_caption,omitempty"`

	AboutMe        *string `gorm:"type:text" json:"about_me,omitempty"`
	BestQuality    *string `gorm:"type:text" json:"best_quality,omitempty"`
	LifeGoal       *string `gorm:"type:text" json:"life_goal,omitempty"`
	Superpower     *string `gorm:"type:text" json:"superpower,omitempty"`
	WorstNightmare *string `gorm:"type:text" json:"worst_nightmare,omitempty"`
	FriendActivity *string `gorm:"type:text" json:"friend_activity,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
