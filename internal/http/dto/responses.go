package dto

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type MeResponse struct {
	User                 any      `json:"user"`
	Permissions          []string `json:"permissions"`
	CurrentEstablishment *string  `json:"current_establishment"`
}

type SuggestionsResponse struct {
	Suggestions string `json:"suggestions"`
}

type ResolveAttachmentResponse struct {
	Name string `json:"name"`
}
