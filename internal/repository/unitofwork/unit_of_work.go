package unitofwork

import (
	"context"

	"nichelens-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	HistoryRepository() contract.HistoryRepository
	AnalyticsLogRepository() contract.AnalyticsLogRepository
}
