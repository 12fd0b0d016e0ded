package prompt

import (
	"fmt"
	"sort"
	"strings"

	"rag-chatbot-be/pkg/llm"
	"rag-chatbot-be/pkg/store"
)

// EmptyContextSentinel is injected as context when retrieval finds nothing.
// The model sees an explicit statement instead of an empty block, so it admits
// the gap rather than hallucinating.
const EmptyContextSentinel = "No relevant information found."

// FormatContext renders retrieved passages into the context block of the
// system instruction. Each passage carries a provenance line built from its
// metadata, so the model can refer to where a fact came from.
func FormatContext(passages []store.Passage) string {
	if len(passages) == 0 {
		return EmptyContextSentinel
	}

	blocks := make([]string, 0, len(passages))
	for _, p := range passages {
		var sb strings.Builder
		if line := formatMetadata(p.Metadata); line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString(p.Content)
		blocks = append(blocks, sb.String())
	}

	return strings.Join(blocks, "\n\n")
}

// formatMetadata renders passage metadata as a single "[k: v, k: v]" line.
// Keys are sorted so the output is stable across runs; nil values are skipped.
func formatMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		if metadata[k] == nil {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %v", k, metadata[k]))
	}

	return "[" + strings.Join(pairs, ", ") + "]"
}

// BuildMessages assembles the full message list for one answer: a system
// instruction carrying the retrieved context, the prior conversation turns,
// and the current question as the final human message.
func BuildMessages(contextBlock string, history []llm.Message, question string) []llm.Message {
	var system strings.Builder
	system.WriteString("You are a helpful AI assistant. Use the following context to answer the user's question. ")
	system.WriteString("If the context does not contain the answer, say so honestly instead of guessing.\n\n")
	system.WriteString("Context:\n")
	system.WriteString(contextBlock)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system.String()})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleHuman, Content: question})

	return messages
}
