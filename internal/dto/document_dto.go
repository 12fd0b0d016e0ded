package dto

import "time"

type UploadDocumentResponse struct {
	FileId     int64  `json:"file_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}

type DocumentResponse struct {
	Id              int64     `json:"id"`
	Filename        string    `json:"filename"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
}

type DocumentDetailResponse struct {
	Id              int64     `json:"id"`
	Filename        string    `json:"filename"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	ChunkCount      int64     `json:"chunk_count"`
}

type PassageResponse struct {
	ChunkIndex int                    `json:"chunk_index"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type DeleteDocumentResponse struct {
	Deleted bool `json:"deleted"`
}
