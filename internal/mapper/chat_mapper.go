package mapper

import (
	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(t *model.ChatTurn) *entity.ChatTurn {
	if t == nil {
		return nil
	}
	return &entity.ChatTurn{
		Id:        t.Id,
		SessionId: t.SessionId,
		Question:  t.Question,
		Answer:    t.Answer,
		Model:     t.Model,
		CreatedAt: t.CreatedAt,
	}
}

func (m *ChatMapper) ToModel(t *entity.ChatTurn) *model.ChatTurn {
	if t == nil {
		return nil
	}
	return &model.ChatTurn{
		Id:        t.Id,
		SessionId: t.SessionId,
		Question:  t.Question,
		Answer:    t.Answer,
		Model:     t.Model,
		CreatedAt: t.CreatedAt,
	}
}
