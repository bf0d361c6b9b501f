package entity

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsLog struct {
	Id         uuid.UUID
	UserId     string
	Endpoint   string
	Method     string
	StatusCode int
	DurationMs int64
	Timestamp  time.Time
}
