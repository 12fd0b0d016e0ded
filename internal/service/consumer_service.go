package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"rag-chatbot-be/internal/dto"
	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/repository/cache"
	"rag-chatbot-be/internal/repository/contract"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService persists completed chat turns off the request path. A
// failed append is logged and dropped: history is best-effort by contract,
// and retrying a generation-adjacent write forever helps nobody.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	chatTurnRepo contract.ChatTurnRepository
	historyCache *cache.HistoryCache
	log          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chatTurnRepo contract.ChatTurnRepository,
	historyCache *cache.HistoryCache,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		chatTurnRepo: chatTurnRepo,
		historyCache: historyCache,
		log:          log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PersistTurnMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("service.consumer", "Failed to unmarshal turn message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // malformed payloads never become valid on retry
		return
	}

	turn := &entity.ChatTurn{
		Id:        uuid.New(),
		SessionId: payload.SessionId,
		Question:  payload.Question,
		Answer:    payload.Answer,
		Model:     payload.Model,
	}

	if err := cs.chatTurnRepo.Create(ctx, turn); err != nil {
		cs.log.Error("service.consumer", "Failed to persist chat turn", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	// The cached history for this session is now stale.
	if cs.historyCache != nil {
		if err := cs.historyCache.DeleteHistory(ctx, payload.SessionId); err != nil {
			cs.log.Warn("service.consumer", "Failed to invalidate history cache", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
		}
	}

	msg.Ack()
}
