package embedding

import "context"

// TaskType hints the provider about how the text will be used, which some
// backends use to shape the vector space.
type TaskType string

const (
	TaskRetrievalDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    TaskType = "RETRIEVAL_QUERY"
)

// EmbeddingProvider defines the contract for any embedding backend.
type EmbeddingProvider interface {
	// Embed converts a single text into its vector representation.
	Embed(ctx context.Context, text string, task TaskType) ([]float32, error)
}
