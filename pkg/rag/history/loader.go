package history

import (
	"context"

	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/repository/cache"
	"rag-chatbot-be/internal/repository/contract"
	"rag-chatbot-be/internal/repository/specification"
	"rag-chatbot-be/pkg/llm"
)

// Loader fetches a session's conversation history for LLM context. Reads go
// through the redis cache first; on a miss the database is authoritative and
// the cache is refilled best-effort.
type Loader struct {
	chatTurnRepo contract.ChatTurnRepository
	historyCache *cache.HistoryCache
	log          logger.ILogger
}

func NewLoader(chatTurnRepo contract.ChatTurnRepository, historyCache *cache.HistoryCache, log logger.ILogger) *Loader {
	return &Loader{
		chatTurnRepo: chatTurnRepo,
		historyCache: historyCache,
		log:          log,
	}
}

// LoadConversationHistory returns the session's turns as role-tagged messages
// in chronological order, each turn flattened to a human message followed by
// an AI message.
func (l *Loader) LoadConversationHistory(ctx context.Context, sessionId string) ([]llm.Message, error) {
	turns, err := l.loadTurns(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(turns)*2)
	for _, turn := range turns {
		messages = append(messages,
			llm.Message{Role: llm.RoleHuman, Content: turn.Question},
			llm.Message{Role: llm.RoleAI, Content: turn.Answer},
		)
	}

	return messages, nil
}

// LoadTurns returns the session's raw turns in chronological order.
func (l *Loader) LoadTurns(ctx context.Context, sessionId string) ([]*entity.ChatTurn, error) {
	return l.loadTurns(ctx, sessionId)
}

func (l *Loader) loadTurns(ctx context.Context, sessionId string) ([]*entity.ChatTurn, error) {
	if l.historyCache != nil {
		turns, found, err := l.historyCache.GetHistory(ctx, sessionId)
		if err != nil {
			l.log.Warn("rag.history", "History cache read failed, falling back to database", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		} else if found {
			return turns, nil
		}
	}

	turns, err := l.chatTurnRepo.FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	if l.historyCache != nil {
		if err := l.historyCache.SetHistory(ctx, sessionId, turns); err != nil {
			l.log.Warn("rag.history", "History cache refill failed", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}

	return turns, nil
}
