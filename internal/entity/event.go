package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventCategory string

const (
	CategorySports      EventCategory = "sports"
	CategoryStudy       EventCategory = "study"
	CategoryMeal        EventCategory = "meal"
	CategoryKaraoke     EventCategory = "karaoke"
	CategorySightseeing EventCategory = "sightseeing"
	CategoryOther       EventCategory = "other"
)

var categoryLabels = map[EventCategory]struct{ EN, JA string }{
	CategorySports:      {"Sports", "スポーツ"},
	CategoryStudy:       {"Study", "勉強"},
	CategoryMeal:        {"Meal", "食事"},
	CategoryKaraoke:     {"Karaoke", "カラオケ"},
	CategorySightseeing: {"Sightseeing", "観光"},
	CategoryOther:       {"Other", "その他"},
}

// Label returns the display label for the given language ("ja" or "en").
// Unknown categories fall back to their raw value.
func (c EventCategory) Label(lang string) string {
	labels, ok := categoryLabels[c]
	if !ok {
		return string(c)
	}
	if lang == "ja" {
		return labels.JA
	}
	return labels.EN
}

func (c EventCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`

	Date     time.Time `gorm:"not null;index" json:"date"`
	Location string    `gorm:"size:255" json:"location"`
	MapLink  *string   `gorm:"type:text" json:"map_link,omitempty"`
	FormURL  *string   `gorm:"type:text" json:"form_url,omitempty"`

	// MaxParticipants == 0 means unlimited capacity, never zero capacity.
	MaxParticipants int `gorm:"not null;default:0" json:"max_participants"`

	// CurrentParticipants is the authoritative count of join records. It
	// never includes the creator; DisplayParticipants adds the implicit one.
	CurrentParticipants int `gorm:"not null;default:0" json:"current_participants"`

	Category EventCategory `gorm:"size:50;not null;default:'other'" json:"category"`
	ImageURL *string       `gorm:"type:text" json:"image_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// IsFull reports whether the event has reached capacity. Unlimited events
// (MaxParticipants == 0) are never full, whatever the counter says.
func (e *Event) IsFull() bool {
	if e.MaxParticipants == 0 {
		return false
	}
	return e.CurrentParticipants >= e.MaxParticipants
}

// IsPast is derived, not stored: the event is past once its date is behind
// the given clock reading.
func (e *Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}

// DisplayParticipants is the count shown to users: the stored counter plus
// the creator, who participates implicitly without a join record.
func (e *Event) DisplayParticipants() int {
	return e.CurrentParticipants + 1
}

// Participation links a user to an event. Presence of a row means
// "joined"; leaving deletes the row. The creator has no row.
type Participation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Participation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type EventComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *EventComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
