package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatTurn struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  string         `gorm:"type:varchar(64);not null;index"`
	Utterance  string         `gorm:"type:text;not null"`
	Reply      string         `gorm:"type:text;not null"`
	Intent     string         `gorm:"type:varchar(32);not null;index"`
	PromptKind string         `gorm:"type:varchar(32);not null"`
	Outcome    string         `gorm:"type:varchar(32);not null"`
	Entities   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
