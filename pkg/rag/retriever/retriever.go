package retriever

import (
	"context"
	"fmt"

	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/repository/contract"
	"rag-chatbot-be/pkg/embedding"
	"rag-chatbot-be/pkg/store"
)

// Retriever is the bridge between text and the vector index: it embeds
// queries and chunks with the same provider so both live in the same vector
// space, and delegates storage to the passage repository.
type Retriever struct {
	passageRepo contract.PassageRepository
	embedder    embedding.EmbeddingProvider
}

func NewRetriever(passageRepo contract.PassageRepository, embedder embedding.EmbeddingProvider) *Retriever {
	return &Retriever{
		passageRepo: passageRepo,
		embedder:    embedder,
	}
}

// Search embeds the query and returns the k most similar passages, best match
// first. k <= 0 short-circuits to an empty result without touching the
// embedder.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]store.Passage, error) {
	if k <= 0 {
		return []store.Passage{}, nil
	}

	queryEmbedding, err := r.embedder.Embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	entities, err := r.passageRepo.SearchSimilar(ctx, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("search passages: %w", err)
	}

	passages := make([]store.Passage, 0, len(entities))
	for _, e := range entities {
		passages = append(passages, store.Passage{
			Content:  e.Content,
			Metadata: e.Metadata,
		})
	}

	return passages, nil
}

// Insert embeds each chunk and stores it tagged with the owning document.
// Chunk order becomes the chunk index, so a document's passages can be
// reassembled in their original order.
func (r *Retriever) Insert(ctx context.Context, chunks []store.Passage, documentId int64) error {
	if len(chunks) == 0 {
		return nil
	}

	entities := make([]*entity.Passage, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := r.embedder.Embed(ctx, chunk.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}

		metadata := make(map[string]interface{}, len(chunk.Metadata)+1)
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		metadata["document_id"] = documentId

		entities = append(entities, &entity.Passage{
			DocumentId: documentId,
			Content:    chunk.Content,
			Metadata:   metadata,
			Embedding:  vector,
			ChunkIndex: i,
		})
	}

	if err := r.passageRepo.CreateBulk(ctx, entities); err != nil {
		return fmt.Errorf("store passages: %w", err)
	}

	return nil
}

// Delete removes every passage belonging to the document. The bool reports
// whether anything was actually removed.
func (r *Retriever) Delete(ctx context.Context, documentId int64) (bool, error) {
	deleted, err := r.passageRepo.DeleteByDocumentID(ctx, documentId)
	if err != nil {
		return false, fmt.Errorf("delete passages: %w", err)
	}
	return deleted > 0, nil
}
