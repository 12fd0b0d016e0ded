package model

import "time"

type Document struct {
	Id              int64     `gorm:"primaryKey;autoIncrement"`
	Filename        string    `gorm:"type:text;not null"`
	UploadTimestamp time.Time `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
