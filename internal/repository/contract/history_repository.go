package contract

import (
	"context"

	"nichelens-be/internal/entity"
	"nichelens-be/internal/repository/specification"
)

type HistoryRepository interface {
	Create(ctx context.Context, history *entity.History) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.History, error)
	// Delete removes every row matching specs and reports how many went.
	Delete(ctx context.Context, specs ...specification.Specification) (int64, error)
}
