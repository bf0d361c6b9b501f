package analysis

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a single-item mode receives blank input.
// No request is issued.
var ErrEmptyInput = errors.New("input is required")

// MalformedMessage is what users see when the model reply fails validation.
const MalformedMessage = "Analysis returned an incomplete result. Please try again."

// UnsupportedModeError is returned when a mode without a backend operation
// reaches the dispatcher.
type UnsupportedModeError struct {
	Mode Mode
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported protocol mode: %s", e.Mode)
}

// GatewayUnavailableError wraps a transport failure reaching the analysis
// backend. It is retryable by the user; nothing retries automatically.
type GatewayUnavailableError struct {
	Op  string
	Err error
}

func (e *GatewayUnavailableError) Error() string {
	return fmt.Sprintf("analysis backend unreachable (%s): %v", e.Op, e.Err)
}

func (e *GatewayUnavailableError) Unwrap() error { return e.Err }

// BackendError carries a failure the backend reported itself, either as
// success=false or as a non-2xx status. Message is shown to the user as is.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string { return e.Message }

// MalformedResultError is returned when a response does not match the
// shape expected for its mode.
type MalformedResultError struct {
	Mode   Mode
	Reason string
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("malformed %s result: %s", e.Mode, e.Reason)
}

// VisualGenerationError isolates failures of the optional image feature.
type VisualGenerationError struct {
	Err error
}

func (e *VisualGenerationError) Error() string {
	if e.Err == nil {
		return "failed to forge visual asset"
	}
	return fmt.Sprintf("failed to forge visual asset: %v", e.Err)
}

func (e *VisualGenerationError) Unwrap() error { return e.Err }

// PersistenceWriteError reports a history write that did not land. It is
// logged and never blocks the analysis result.
type PersistenceWriteError struct {
	Backend string
	Err     error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("history write to %s store failed: %v", e.Backend, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }

// UserMessage converts any action error into the single string shown to
// the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var malformed *MalformedResultError
	if errors.As(err, &malformed) {
		return MalformedMessage
	}
	var backend *BackendError
	if errors.As(err, &backend) {
		return backend.Message
	}
	if errors.Is(err, ErrEmptyInput) {
		return "Nothing to analyze yet. Paste some input first."
	}
	return err.Error()
}
