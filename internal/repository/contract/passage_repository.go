package contract

import (
	"context"

	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/repository/specification"
)

type PassageRepository interface {
	CreateBulk(ctx context.Context, passages []*entity.Passage) error
	// DeleteByDocumentID removes every passage tagged with the document id and
	// returns how many rows were removed.
	DeleteByDocumentID(ctx context.Context, documentId int64) (int64, error)
	// SearchSimilar returns up to limit passages ordered by cosine distance to
	// the query embedding, nearest first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.Passage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Passage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
