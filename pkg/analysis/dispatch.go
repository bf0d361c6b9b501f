package analysis

import "strings"

// DefaultHandle stands in when the session carries no handle.
const DefaultHandle = "user"

// Identity is the part of the session the dispatcher needs.
type Identity struct {
	Handle string
}

// GatewayRequest is the payload for one backend operation. Single-item modes
// fill Input; multi-item modes fill Items and Handle.
type GatewayRequest struct {
	Mode   Mode     `json:"-"`
	Input  string   `json:"input,omitempty"`
	Items  []string `json:"items,omitempty"`
	Handle string   `json:"handle,omitempty"`
}

// Endpoint returns the operation path the request is sent to.
func (r GatewayRequest) Endpoint() string {
	return r.Mode.Endpoint()
}

// Dispatch maps a mode and its normalized input to a gateway request. It is
// a pure mapping; guide and unknown modes fail with UnsupportedModeError.
func Dispatch(mode Mode, normalized NormalizedInput, identity Identity) (GatewayRequest, error) {
	switch mode {
	case ModePost, ModeReply, ModeIdeate:
		return GatewayRequest{Mode: mode, Input: normalized.Text}, nil
	case ModeAudit, ModeNiche:
		handle := strings.TrimPrefix(strings.TrimSpace(identity.Handle), "@")
		if handle == "" {
			handle = DefaultHandle
		}
		items := normalized.Items
		if len(items) == 0 {
			items = []string{strings.TrimSpace(normalized.Text)}
		}
		return GatewayRequest{Mode: mode, Items: items, Handle: handle}, nil
	default:
		return GatewayRequest{}, &UnsupportedModeError{Mode: mode}
	}
}
