package factory

import (
	"fmt"

	"rag-chatbot-be/pkg/llm"
	"rag-chatbot-be/pkg/llm/gemini"
	"rag-chatbot-be/pkg/llm/ollama"
)

// NewLLMProvider constructs a provider handle for one model. Credential
// presence is checked here, eagerly, so a misconfigured key surfaces as
// ErrMissingCredentials on first use instead of an opaque HTTP 401 later.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini provider for model %q: %w", modelName, llm.ErrMissingCredentials)
		}
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
