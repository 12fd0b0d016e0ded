package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/pkg/apperrors"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/pkg/llm"
	"rag-chatbot-be/pkg/rag/prompt"
	"rag-chatbot-be/pkg/store"
)

// HistoryLoader is the slice of the history package the chat service needs.
type HistoryLoader interface {
	LoadConversationHistory(ctx context.Context, sessionId string) ([]llm.Message, error)
	LoadTurns(ctx context.Context, sessionId string) ([]*entity.ChatTurn, error)
}

// PassageSearcher is the retrieval slice of the retriever.
type PassageSearcher interface {
	Search(ctx context.Context, query string, k int) ([]store.Passage, error)
}

// ModelRegistry resolves a model name to a ready provider handle.
type ModelRegistry interface {
	Resolve(modelName string) (llm.LLMProvider, error)
}

type IChatService interface {
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
}

type ChatServiceConfig struct {
	DefaultModel     string
	KnownModels      []string
	Temperature      float64
	MaxTokens        int
	RetrieverTopK    int
	TurnPersistTopic string
}

type chatService struct {
	historyLoader    HistoryLoader
	retriever        PassageSearcher
	registry         ModelRegistry
	publisherService IPublisherService
	cfg              ChatServiceConfig
	log              logger.ILogger
}

func NewChatService(
	historyLoader HistoryLoader,
	retriever PassageSearcher,
	registry ModelRegistry,
	publisherService IPublisherService,
	cfg ChatServiceConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		historyLoader:    historyLoader,
		retriever:        retriever,
		registry:         registry,
		publisherService: publisherService,
		cfg:              cfg,
		log:              log,
	}
}

// SendChat runs the answer pipeline for one question. History and retrieval
// failures degrade to an answer without that input; only validation, model
// resolution, and generation failures abort the request. The successful turn
// is published for asynchronous persistence, never written inline.
func (c *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperrors.New(apperrors.KindValidation, "question must not be empty")
	}

	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.New().String()
	}

	// An override outside the known set falls back to the default instead of
	// erroring, so a stale client keeps working after a model is retired.
	model := c.cfg.DefaultModel
	if req.Model != "" && c.isKnownModel(req.Model) {
		model = req.Model
	}

	history, err := c.historyLoader.LoadConversationHistory(ctx, sessionId)
	if err != nil {
		c.log.Warn("service.chat", "History load failed, answering without history", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		history = nil
	}

	passages, err := c.retriever.Search(ctx, question, c.cfg.RetrieverTopK)
	if err != nil {
		c.log.Warn("service.chat", "Retrieval failed, answering without context", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		passages = nil
	}

	contextBlock := prompt.FormatContext(passages)
	messages := prompt.BuildMessages(contextBlock, history, question)

	provider, err := c.registry.Resolve(model)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredentials) {
			return nil, apperrors.Wrap(apperrors.KindConfiguration, "model credentials are not configured", err)
		}
		return nil, apperrors.Wrap(apperrors.KindConfiguration, "model is not available", err)
	}

	genOpts := []llm.Option{llm.WithTemperature(c.cfg.Temperature)}
	if c.cfg.MaxTokens > 0 {
		genOpts = append(genOpts, llm.WithMaxTokens(c.cfg.MaxTokens))
	}

	answer, err := provider.Chat(ctx, messages, genOpts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindGeneration, "answer generation failed", err)
	}

	c.publishTurn(sessionId, question, answer, model)

	return &dto.SendChatResponse{
		Answer:    answer,
		SessionId: sessionId,
		Model:     model,
	}, nil
}

func (c *chatService) isKnownModel(name string) bool {
	for _, known := range c.cfg.KnownModels {
		if known == name {
			return true
		}
	}
	return false
}

// publishTurn hands the completed turn to the persistence consumer. A publish
// failure loses one history entry but never the answer, so it is logged and
// swallowed.
func (c *chatService) publishTurn(sessionId, question, answer, model string) {
	payload, err := json.Marshal(dto.PersistTurnMessage{
		SessionId: sessionId,
		Question:  question,
		Answer:    answer,
		Model:     model,
	})
	if err != nil {
		c.log.Error("service.chat", "Failed to marshal turn for persistence", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return
	}

	if err := c.publisherService.Publish(c.cfg.TurnPersistTopic, payload); err != nil {
		c.log.Error("service.chat", "Failed to publish turn for persistence", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (c *chatService) GetHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	turns, err := c.historyLoader.LoadTurns(ctx, sessionId)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load chat history", err)
	}

	res := &dto.GetChatHistoryResponse{
		SessionId: sessionId,
		Turns:     make([]dto.ChatTurnResponse, 0, len(turns)),
	}
	for _, turn := range turns {
		res.Turns = append(res.Turns, dto.ChatTurnResponse{
			Question:  turn.Question,
			Answer:    turn.Answer,
			Model:     turn.Model,
			CreatedAt: turn.CreatedAt,
		})
	}

	return res, nil
}
