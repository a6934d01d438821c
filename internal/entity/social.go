package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is a one-directional interest signal. A reciprocal pair of likes
// produces a Match.
type Like struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_pair" json:"from_user_id"`
	ToUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_pair" json:"to_user_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Match is a mutual connection enabling messaging. UserAID < UserBID by
// string order so a pair maps to exactly one row.
type Match struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserAID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_pair" json:"user_a_id"`
	UserBID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_pair" json:"user_b_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Per-side last-read marks; unread state is derived from these plus
	// the latest message timestamp, never counted incrementally.
	LastReadA *time.Time `json:"last_read_a,omitempty"`
	LastReadB *time.Time `json:"last_read_b,omitempty"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Other returns the match partner of the given user.
func (m *Match) Other(userID uuid.UUID) uuid.UUID {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// LastReadFor returns the last-read mark of the given side.
func (m *Match) LastReadFor(userID uuid.UUID) *time.Time {
	if m.UserAID == userID {
		return m.LastReadA
	}
	return m.LastReadB
}

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"match_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

const (
	NotificationMatch        = "match"
	NotificationMessage      = "message"
	NotificationEventJoin    = "event_join"
	NotificationEventComment = "event_comment"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null" json:"entity_id"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"` // 'match', 'message', 'event'
	Type       string    `gorm:"type:varchar(50);not null" json:"type"`
	Message    string    `gorm:"type:text" json:"message"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// Onboarding prompt states. A prompt starts at "show"; "remind_later"
// resurfaces it next session, "never_show" retires it for good.
const (
	OnboardingShow        = "show"
	OnboardingRemindLater = "remind_later"
	OnboardingNeverShow   = "never_show"
)

// Prompt keys known to the client.
const (
	PromptInstallNudge = "install_nudge"
	PromptTutorial     = "tutorial"
)

// DeviceOnboarding records one-time prompt state per user per device,
// replacing the scattered local-storage flags of the original client.
type DeviceOnboarding struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_device_prompt" json:"user_id"`
	DeviceID  string    `gorm:"size:100;not null;uniqueIndex:idx_device_prompt" json:"device_id"`
	PromptKey string    `gorm:"size:50;not null;uniqueIndex:idx_device_prompt" json:"prompt_key"`
	State     string    `gorm:"size:20;not null;default:'show'" json:"state"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *DeviceOnboarding) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
