package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Passage is an indexed chunk of an ingested document. The document_id column
// is a soft tag, not a foreign key: consistency with the documents table is
// maintained by deletion order, not by the database.
type Passage struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId int64             `gorm:"not null;index"`
	Content    string            `gorm:"type:text"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	Embedding  pgvector.Vector   `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions
	ChunkIndex int               `gorm:"default:0"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
}

func (Passage) TableName() string {
	return "passages"
}
