package dto

import "github.com/poe-manager/backend/internal/services"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SetEstablishmentRequest struct {
	// Null or empty means "all establishments".
	Establishment *string `json:"establishment"`
}

// Save actions
const (
	ActionDraft  = "draft"
	ActionSubmit = "submit"
)

type SavePoeRequest struct {
	services.PoeInput
	Action string `json:"action"` // draft / submit
}

type RejectPoeRequest struct {
	Reason string `json:"reason"`
}

type SetUserActiveRequest struct {
	Active bool `json:"active"`
}

type ResolveAttachmentRequest struct {
	URL string `json:"url"`
}
