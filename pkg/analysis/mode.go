package analysis

import "strings"

// Mode selects the analysis operation. Guide is a UI-only state that never
// issues a request.
type Mode string

const (
	ModePost   Mode = "post"
	ModeReply  Mode = "reply"
	ModeAudit  Mode = "audit"
	ModeNiche  Mode = "niche"
	ModeIdeate Mode = "ideate"
	ModeGuide  Mode = "guide"
)

// APIModes lists the modes that map to a backend operation, in menu order.
var APIModes = []Mode{ModeNiche, ModeIdeate, ModePost, ModeAudit, ModeReply}

// endpoints maps each API mode to its operation path under /api/analysis.
var endpoints = map[Mode]string{
	ModePost:   "/optimize",
	ModeReply:  "/reply",
	ModeAudit:  "/audit",
	ModeNiche:  "/niche",
	ModeIdeate: "/ideate",
}

// ParseMode resolves a user supplied mode name. CLI command names are
// accepted as aliases.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "post", "forge", "optimize":
		return ModePost, true
	case "reply":
		return ModeReply, true
	case "audit":
		return ModeAudit, true
	case "niche", "map":
		return ModeNiche, true
	case "ideate", "architect":
		return ModeIdeate, true
	case "guide", "manual":
		return ModeGuide, true
	}
	return "", false
}

func (m Mode) String() string { return string(m) }

// IsAPI reports whether the mode issues a backend request.
func (m Mode) IsAPI() bool {
	_, ok := endpoints[m]
	return ok
}

// IsMultiItem reports whether the mode takes an ordered list of items
// rather than a single string.
func (m Mode) IsMultiItem() bool {
	return m == ModeAudit || m == ModeNiche
}

// Endpoint returns the operation path for the mode, or "" for guide.
func (m Mode) Endpoint() string {
	return endpoints[m]
}
