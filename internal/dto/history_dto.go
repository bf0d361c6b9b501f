package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateHistoryRequest struct {
	Type   string          `json:"type" validate:"required,oneof=post reply audit niche ideate"`
	Input  string          `json:"input"`
	Result json.RawMessage `json:"result" validate:"required"`
}

type HistoryResponse struct {
	Id        uuid.UUID       `json:"id"`
	UserId    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Input     string          `json:"input"`
	Result    json.RawMessage `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}

type ClearHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}
