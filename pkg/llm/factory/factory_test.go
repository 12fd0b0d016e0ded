package factory

import (
	"errors"
	"testing"

	"rag-chatbot-be/pkg/llm"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name         string
		providerType string
		apiKey       string
		wantErr      error
		wantNilErr   bool
	}{
		{
			name:         "gemini with key",
			providerType: "gemini",
			apiKey:       "test-key",
			wantNilErr:   true,
		},
		{
			name:         "gemini without key",
			providerType: "gemini",
			apiKey:       "",
			wantErr:      llm.ErrMissingCredentials,
		},
		{
			name:         "ollama needs no key",
			providerType: "ollama",
			apiKey:       "",
			wantNilErr:   true,
		},
		{
			name:         "unsupported provider",
			providerType: "homebrew",
			apiKey:       "key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewLLMProvider(tt.providerType, "some-model", "", tt.apiKey)

			if tt.wantNilErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if provider == nil {
					t.Fatal("provider is nil")
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want wrapped %v", err, tt.wantErr)
			}
		})
	}
}
