package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one recorded question/answer exchange. Rows are append-only:
// nothing in the service updates or deletes individual turns.
type ChatTurn struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId string    `gorm:"type:text;not null;index"`
	Question  string    `gorm:"type:text"`
	Answer    string    `gorm:"type:text"`
	Model     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
