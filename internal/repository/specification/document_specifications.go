package specification

import "gorm.io/gorm"

// ByDocumentID filters passages by their document tag
type ByDocumentID struct {
	DocumentID int64
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// ByRecordID filters documents by primary key
type ByRecordID struct {
	ID int64
}

func (s ByRecordID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}
