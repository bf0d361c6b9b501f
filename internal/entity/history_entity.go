package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// History is one stored analysis. Result holds the JSON of the result shape
// that Type names.
type History struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      string
	Input     string
	Result    json.RawMessage
	Timestamp time.Time
}
