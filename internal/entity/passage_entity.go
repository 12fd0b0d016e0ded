package entity

import (
	"time"

	"github.com/google/uuid"
)

type Passage struct {
	Id         uuid.UUID
	DocumentId int64
	Content    string
	Metadata   map[string]interface{}
	Embedding  []float32
	ChunkIndex int
	CreatedAt  time.Time
}
