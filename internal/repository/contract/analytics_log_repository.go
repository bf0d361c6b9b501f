package contract

import (
	"context"

	"nichelens-be/internal/entity"
)

type AnalyticsLogRepository interface {
	Create(ctx context.Context, log *entity.AnalyticsLog) error
}
