package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rag-chatbot-be/pkg/embedding"
)

type OllamaEmbeddingProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

var _ embedding.EmbeddingProvider = &OllamaEmbeddingProvider{}

func NewOllamaEmbeddingProvider(baseURL, modelName string) *OllamaEmbeddingProvider {
	return &OllamaEmbeddingProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed implements embedding.EmbeddingProvider. Ollama has no task type
// distinction, so the hint is ignored.
func (o *OllamaEmbeddingProvider) Embed(ctx context.Context, text string, _ embedding.TaskType) ([]float32, error) {
	reqPayload := ollamaEmbedRequest{
		Model:  o.ModelName,
		Prompt: text,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/embeddings"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var embedRes ollamaEmbedResponse
	if err := json.Unmarshal(bodyBytes, &embedRes); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(embedRes.Embedding) == 0 {
		return nil, fmt.Errorf("ollama returned an empty embedding")
	}

	return embedRes.Embedding, nil
}
