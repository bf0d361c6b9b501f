package model

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsLog struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     string    `gorm:"type:varchar(255);not null;index"`
	Endpoint   string    `gorm:"type:text;not null"`
	Method     string    `gorm:"type:varchar(10);not null"`
	StatusCode int       `gorm:"not null"`
	DurationMs int64     `gorm:"not null"`
	Timestamp  time.Time `gorm:"not null;index"`
}

func (AnalyticsLog) TableName() string {
	return "analytics_logs"
}
