package implementation

import (
	"context"

	"nichelens-be/internal/entity"
	"nichelens-be/internal/mapper"
	"nichelens-be/internal/repository/contract"

	"gorm.io/gorm"
)

type AnalyticsLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AnalyticsLogMapper
}

func NewAnalyticsLogRepository(db *gorm.DB) contract.AnalyticsLogRepository {
	return &AnalyticsLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAnalyticsLogMapper(),
	}
}

func (r *AnalyticsLogRepositoryImpl) Create(ctx context.Context, log *entity.AnalyticsLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}
