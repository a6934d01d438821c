package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/entity"
)

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required,max=255"`
	MapLink     *string   `json:"map_link,omitempty" binding:"omitempty,url"`
	FormURL     *string   `json:"form_url,omitempty" binding:"omitempty,url"`

	// 0 means unlimited.
	MaxParticipants int `json:"max_participants" binding:"omitempty,gte=0"`

	Category entity.EventCategory `json:"category" binding:"required"`
}

type UpdateEventRequest struct {
	Title           *string               `json:"title,omitempty" binding:"omitempty,max=200"`
	Description     *string               `json:"description,omitempty"`
	Date            *time.Time            `json:"date,omitempty"`
	Location        *string               `json:"location,omitempty" binding:"omitempty,max=255"`
	MapLink         *string               `json:"map_link,omitempty"`
	FormURL         *string               `json:"form_url,omitempty"`
	MaxParticipants *int                  `json:"max_participants,omitempty" binding:"omitempty,gte=0"`
	Category        *entity.EventCategory `json:"category,omitempty"`
}

type EventListFilter struct {
	// Search is the generic search box. A "date:YYYY-MM-DD" query is
	// handled by the date-aware branch, everything else by full text.
	Search string `form:"search"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	CreatorName string    `json:"creator_name,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	MapLink     *string   `json:"map_link,omitempty"`
	FormURL     *string   `json:"form_url,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`

	Category        entity.EventCategory `json:"category"`
	CategoryLabelEN string               `json:"category_label_en"`
	CategoryLabelJA string               `json:"category_label_ja"`

	MaxParticipants     int  `json:"max_participants"`
	DisplayParticipants int  `json:"display_participants"`
	IsFull              bool `json:"is_full"`
	IsPast              bool `json:"is_past"`
	Joined              bool `json:"joined"`

	CreatedAt time.Time `json:"created_at"`
}

type PaginatedEventResponse struct {
	Data []EventResponse `json:"data"`
	Meta PaginationMeta  `json:"meta"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
