package identity

import "strings"

const (
	SessionKey = "nichelens_user_v1"

	DefaultDisplayName = "Niche Creator"
	avatarURLFormat    = "https://api.dicebear.com/7.x/shapes/svg?seed="

	SandboxOwnerID = "sandbox-user"
)

// Session is the current identity. OwnerID is set if and only if
// IsAuthenticated is true.
type Session struct {
	IsAuthenticated bool   `json:"isLoggedIn"`
	OwnerID         string `json:"id,omitempty"`
	DisplayHandle   string `json:"handle,omitempty"`
	DisplayName     string `json:"name,omitempty"`
	AvatarURL       string `json:"profileImage,omitempty"`

	// Token is the backend bearer token. Empty for sandbox sessions.
	Token   string `json:"token,omitempty"`
	Sandbox bool   `json:"sandbox,omitempty"`
}

func Anonymous() Session {
	return Session{}
}

// SandboxSession is the mock identity used when no remote identity provider
// is configured. Its history stays on the device.
func SandboxSession() Session {
	return Session{
		IsAuthenticated: true,
		OwnerID:         SandboxOwnerID,
		DisplayHandle:   "sandbox_alpha",
		DisplayName:     "Sandbox Creator",
		AvatarURL:       avatarURLFormat + "sandbox",
		Sandbox:         true,
	}
}

// UsesRemote reports whether history for this session lives in the backend.
func (s Session) UsesRemote() bool {
	return s.IsAuthenticated && !s.Sandbox && s.Token != ""
}

// Handle returns the display handle without a leading "@".
func (s Session) Handle() string {
	return strings.TrimPrefix(strings.TrimSpace(s.DisplayHandle), "@")
}

// Valid reports whether the OwnerID/IsAuthenticated invariant holds.
func (s Session) Valid() bool {
	return s.IsAuthenticated == (s.OwnerID != "")
}

func withDisplayDefaults(s Session) Session {
	if s.DisplayName == "" {
		s.DisplayName = DefaultDisplayName
	}
	if s.AvatarURL == "" && s.OwnerID != "" {
		s.AvatarURL = avatarURLFormat + s.OwnerID
	}
	return s
}
