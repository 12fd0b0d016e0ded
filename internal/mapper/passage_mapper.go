package mapper

import (
	"rag-chatbot-be/internal/entity"
	"rag-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type PassageMapper struct{}

func NewPassageMapper() *PassageMapper {
	return &PassageMapper{}
}

func (m *PassageMapper) ToEntity(p *model.Passage) *entity.Passage {
	if p == nil {
		return nil
	}
	return &entity.Passage{
		Id:         p.Id,
		DocumentId: p.DocumentId,
		Content:    p.Content,
		Metadata:   map[string]interface{}(p.Metadata),
		Embedding:  p.Embedding.Slice(),
		ChunkIndex: p.ChunkIndex,
		CreatedAt:  p.CreatedAt,
	}
}

func (m *PassageMapper) ToModel(p *entity.Passage) *model.Passage {
	if p == nil {
		return nil
	}
	return &model.Passage{
		Id:         p.Id,
		DocumentId: p.DocumentId,
		Content:    p.Content,
		Metadata:   datatypes.JSONMap(p.Metadata),
		Embedding:  pgvector.NewVector(p.Embedding),
		ChunkIndex: p.ChunkIndex,
		CreatedAt:  p.CreatedAt,
	}
}

func (m *PassageMapper) ToEntities(passages []*model.Passage) []*entity.Passage {
	entities := make([]*entity.Passage, len(passages))
	for i, p := range passages {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PassageMapper) ToModels(passages []*entity.Passage) []*model.Passage {
	models := make([]*model.Passage, len(passages))
	for i, p := range passages {
		models[i] = m.ToModel(p)
	}
	return models
}
