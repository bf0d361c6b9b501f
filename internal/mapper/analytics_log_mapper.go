package mapper

import (
	"nichelens-be/internal/entity"
	"nichelens-be/internal/model"
)

type AnalyticsLogMapper struct{}

func NewAnalyticsLogMapper() *AnalyticsLogMapper {
	return &AnalyticsLogMapper{}
}

func (m *AnalyticsLogMapper) ToModel(l *entity.AnalyticsLog) *model.AnalyticsLog {
	if l == nil {
		return nil
	}
	return &model.AnalyticsLog{
		Id:         l.Id,
		UserId:     l.UserId,
		Endpoint:   l.Endpoint,
		Method:     l.Method,
		StatusCode: l.StatusCode,
		DurationMs: l.DurationMs,
		Timestamp:  l.Timestamp,
	}
}

func (m *AnalyticsLogMapper) ToEntity(l *model.AnalyticsLog) *entity.AnalyticsLog {
	if l == nil {
		return nil
	}
	return &entity.AnalyticsLog{
		Id:         l.Id,
		UserId:     l.UserId,
		Endpoint:   l.Endpoint,
		Method:     l.Method,
		StatusCode: l.StatusCode,
		DurationMs: l.DurationMs,
		Timestamp:  l.Timestamp,
	}
}
