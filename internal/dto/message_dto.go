package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

type ConversationResponse struct {
	MatchID       uuid.UUID  `json:"match_id"`
	PartnerID     uuid.UUID  `json:"partner_id"`
	MatchedAt     time.Time  `json:"matched_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	Unread        bool       `json:"unread"`
}

type LikeRequest struct {
	ToUserID uuid.UUID `json:"to_user_id" binding:"required"`
}

type LikeResponse struct {
	Liked   bool       `json:"liked"`
	Matched bool       `json:"matched"`
	MatchID *uuid.UUID `json:"match_id,omitempty"`
}
