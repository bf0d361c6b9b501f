package dto

import "github.com/google/uuid"

// SessionResponse is the identity behind a bearer token.
type SessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Handle    string    `json:"handle"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
}

// ProviderProfile is the account data an OAuth provider returns.
type ProviderProfile struct {
	ProviderUserId string
	Username       string
	Name           string
	Email          string
	AvatarURL      string
}
