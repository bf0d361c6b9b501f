package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type History struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_history_user_ts,priority:1"`
	Type      string         `gorm:"type:varchar(20);not null"`
	Input     string         `gorm:"type:text;not null"`
	Result    datatypes.JSON `gorm:"type:jsonb;not null"`
	Timestamp time.Time      `gorm:"not null;index:idx_history_user_ts,priority:2,sort:desc"`
}

func (History) TableName() string {
	return "history"
}
