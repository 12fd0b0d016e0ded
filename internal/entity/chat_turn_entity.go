package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatTurn struct {
	Id        uuid.UUID
	SessionId string
	Question  string
	Answer    string
	Model     string
	CreatedAt time.Time
}
