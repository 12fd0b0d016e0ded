package prompt

import (
	"strings"
	"testing"

	"rag-chatbot-be/pkg/llm"
	"rag-chatbot-be/pkg/store"
)

func TestFormatContextEmpty(t *testing.T) {
	if got := FormatContext(nil); got != EmptyContextSentinel {
		t.Errorf("FormatContext(nil) = %q, want sentinel", got)
	}
	if got := FormatContext([]store.Passage{}); got != EmptyContextSentinel {
		t.Errorf("FormatContext(empty) = %q, want sentinel", got)
	}
}

func TestFormatContext(t *testing.T) {
	passages := []store.Passage{
		{
			Content:  "Apples cost 10.",
			Metadata: map[string]interface{}{"source": "fruit.csv", "row": 0},
		},
		{
			Content:  "Bananas cost 5.",
			Metadata: map[string]interface{}{"source": "fruit.csv", "row": 1},
		},
	}

	got := FormatContext(passages)

	want := "[row: 0, source: fruit.csv]\nApples cost 10.\n\n[row: 1, source: fruit.csv]\nBananas cost 5."
	if got != want {
		t.Errorf("FormatContext = %q, want %q", got, want)
	}
}

func TestFormatContextMetadataEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]interface{}
		content  string
		want     string
	}{
		{
			name:    "no metadata",
			content: "plain text",
			want:    "plain text",
		},
		{
			name:     "nil values skipped",
			metadata: map[string]interface{}{"source": "a.csv", "empty": nil},
			content:  "text",
			want:     "[source: a.csv]\ntext",
		},
		{
			name:     "all values nil",
			metadata: map[string]interface{}{"empty": nil},
			content:  "text",
			want:     "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatContext([]store.Passage{{Content: tt.content, Metadata: tt.metadata}})
			if got != tt.want {
				t.Errorf("FormatContext = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildMessages(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleHuman, Content: "How much are apples?"},
		{Role: llm.RoleAI, Content: "Apples cost 10."},
	}

	messages := BuildMessages("some context", history, "And bananas?")

	if len(messages) != 4 {
		t.Fatalf("message count = %d, want 4", len(messages))
	}

	if messages[0].Role != llm.RoleSystem {
		t.Errorf("first message role = %q, want system", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "some context") {
		t.Error("system message does not carry the context block")
	}

	if messages[1].Role != llm.RoleHuman || messages[2].Role != llm.RoleAI {
		t.Errorf("history roles = %q, %q", messages[1].Role, messages[2].Role)
	}

	last := messages[len(messages)-1]
	if last.Role != llm.RoleHuman || last.Content != "And bananas?" {
		t.Errorf("last message = %+v, want the question as human", last)
	}
}

func TestBuildMessagesNoHistory(t *testing.T) {
	messages := BuildMessages(EmptyContextSentinel, nil, "Anything?")

	if len(messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(messages))
	}
	if !strings.Contains(messages[0].Content, EmptyContextSentinel) {
		t.Error("system message does not carry the empty-context sentinel")
	}
}
