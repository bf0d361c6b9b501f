package mapper

import (
	"encoding/json"

	"nichelens-be/internal/entity"
	"nichelens-be/internal/model"

	"gorm.io/datatypes"
)

type HistoryMapper struct{}

func NewHistoryMapper() *HistoryMapper {
	return &HistoryMapper{}
}

func (m *HistoryMapper) ToEntity(h *model.History) *entity.History {
	if h == nil {
		return nil
	}
	return &entity.History{
		Id:        h.Id,
		UserId:    h.UserId,
		Type:      h.Type,
		Input:     h.Input,
		Result:    json.RawMessage(h.Result),
		Timestamp: h.Timestamp,
	}
}

func (m *HistoryMapper) ToModel(h *entity.History) *model.History {
	if h == nil {
		return nil
	}
	return &model.History{
		Id:        h.Id,
		UserId:    h.UserId,
		Type:      h.Type,
		Input:     h.Input,
		Result:    datatypes.JSON(h.Result),
		Timestamp: h.Timestamp,
	}
}

func (m *HistoryMapper) ToEntities(items []*model.History) []*entity.History {
	entities := make([]*entity.History, len(items))
	for i, h := range items {
		entities[i] = m.ToEntity(h)
	}
	return entities
}
