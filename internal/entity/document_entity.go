package entity

import "time"

type Document struct {
	Id              int64
	Filename        string
	UploadTimestamp time.Time
}
