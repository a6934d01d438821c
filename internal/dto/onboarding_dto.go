package dto

// Client actions on a one-time prompt.
const (
	PromptActionRemindLater = "remind_later"
	PromptActionNeverShow   = "never_show"
)

type PromptActionRequest struct {
	DeviceID  string `json:"device_id" binding:"required,max=100"`
	PromptKey string `json:"prompt_key" binding:"required,oneof=install_nudge tutorial"`
	Action    string `json:"action" binding:"required,oneof=remind_later never_show"`
}

type PromptStateResponse struct {
	PromptKey string `json:"prompt_key"`
	// Visible is what the client acts on; the stored state is included
	// for debugging.
	Visible bool   `json:"visible"`
	State   string `json:"state"`
}
