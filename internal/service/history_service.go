package service

import (
	"context"
	"errors"
	"time"

	"nichelens-be/internal/dto"
	"nichelens-be/internal/entity"
	"nichelens-be/internal/events"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/internal/repository/specification"
	"nichelens-be/internal/repository/unitofwork"
	"nichelens-be/pkg/analysis"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrHistoryUnavailable = fiber.NewError(fiber.StatusServiceUnavailable, "History storage is not configured on this server")

type IHistoryService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.HistoryResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateHistoryRequest) (*dto.HistoryResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
	Clear(ctx context.Context, userId uuid.UUID) (int64, error)
}

type historyService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

// NewHistoryService returns a service backed by uowFactory. A nil factory
// yields a service whose every call fails with ErrHistoryUnavailable.
func NewHistoryService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, logger logger.ILogger) IHistoryService {
	return &historyService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *historyService) List(ctx context.Context, userId uuid.UUID) ([]*dto.HistoryResponse, error) {
	if s.uowFactory == nil {
		return nil, ErrHistoryUnavailable
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.HistoryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NewestFirst(),
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.HistoryResponse, 0, len(rows))
	for _, h := range rows {
		res = append(res, toHistoryResponse(h))
	}
	return res, nil
}

// Create stores one analysis. The result must decode as the shape its type
// names, so the table never holds a payload a client cannot restore.
func (s *historyService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateHistoryRequest) (*dto.HistoryResponse, error) {
	if s.uowFactory == nil {
		return nil, ErrHistoryUnavailable
	}

	mode, ok := analysis.ParseMode(req.Type)
	if !ok || !mode.IsAPI() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid history type")
	}
	if _, err := analysis.DecodeResult(mode, req.Result); err != nil {
		var malformed *analysis.MalformedResultError
		if errors.As(err, &malformed) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Result does not match its type: "+malformed.Reason)
		}
		return nil, err
	}

	h := &entity.History{
		Id:        uuid.Must(uuid.NewV7()),
		UserId:    userId,
		Type:      mode.String(),
		Input:     req.Input,
		Result:    req.Result,
		Timestamp: s.now().UTC(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.HistoryRepository().Create(ctx, h); err != nil {
		s.logger.Error("HISTORY", "Failed to insert history", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return nil, err
	}

	s.publisher.PublishHistoryCreated(ctx, userId, h.Id, h.Type)
	return toHistoryResponse(h), nil
}

// Delete is idempotent: removing a missing or foreign row succeeds and
// changes nothing.
func (s *historyService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	if s.uowFactory == nil {
		return ErrHistoryUnavailable
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	n, err := uow.HistoryRepository().Delete(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if n > 0 {
		s.publisher.PublishHistoryDeleted(ctx, userId, id)
	}
	return nil
}

func (s *historyService) Clear(ctx context.Context, userId uuid.UUID) (int64, error) {
	if s.uowFactory == nil {
		return 0, ErrHistoryUnavailable
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	n, err := uow.HistoryRepository().Delete(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return 0, err
	}
	s.publisher.PublishHistoryCleared(ctx, userId, n)
	return n, nil
}

func toHistoryResponse(h *entity.History) *dto.HistoryResponse {
	return &dto.HistoryResponse{
		Id:        h.Id,
		UserId:    h.UserId,
		Type:      h.Type,
		Input:     h.Input,
		Result:    h.Result,
		Timestamp: h.Timestamp,
	}
}
