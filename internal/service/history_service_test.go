package service

import (
	"context"
	"testing"
	"time"

	"nichelens-be/internal/dto"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/analysis/analysistest"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryService(db *memoryDB, pub *recordingPublisher) *historyService {
	svc := NewHistoryService(db, pub, logger.NewNopLogger()).(*historyService)
	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return svc
}

func TestHistoryCreateAndListNewestFirst(t *testing.T) {
	db, pub := newMemoryDB(), &recordingPublisher{}
	svc := newHistoryService(db, pub)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	first, err := svc.Create(ctx, owner, &dto.CreateHistoryRequest{Type: "post", Input: "a", Result: analysistest.JSON(analysis.ModePost)})
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, &dto.CreateHistoryRequest{Type: "audit", Input: "b", Result: analysistest.JSON(analysis.ModeAudit)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, &dto.CreateHistoryRequest{Type: "reply", Input: "c", Result: analysistest.JSON(analysis.ModeReply)})
	require.NoError(t, err)

	rows, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.Id, rows[0].Id)
	assert.Equal(t, first.Id, rows[1].Id)
	assert.Equal(t, owner, rows[0].UserId)

	assert.Equal(t, []string{"history.created:post", "history.created:audit", "history.created:reply"}, pub.events)
}

func TestHistoryListReturnsEveryRow(t *testing.T) {
	svc := newHistoryService(newMemoryDB(), &recordingPublisher{})
	ctx := context.Background()
	owner := uuid.New()

	var last *dto.HistoryResponse
	for i := 0; i < 150; i++ {
		row, err := svc.Create(ctx, owner, &dto.CreateHistoryRequest{Type: "post", Input: "x", Result: analysistest.JSON(analysis.ModePost)})
		require.NoError(t, err)
		last = row
	}

	rows, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, rows, 150)
	assert.Equal(t, last.Id, rows[0].Id)
}

func TestHistoryListOrdersSameTimestampByInsertion(t *testing.T) {
	svc := newHistoryService(newMemoryDB(), &recordingPublisher{})
	frozen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }
	ctx := context.Background()
	owner := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		row, err := svc.Create(ctx, owner, &dto.CreateHistoryRequest{Type: "reply", Input: "x", Result: analysistest.JSON(analysis.ModeReply)})
		require.NoError(t, err)
		ids = append([]uuid.UUID{row.Id}, ids...)
	}

	rows, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i, r := range rows {
		assert.Equal(t, ids[i], r.Id)
	}
}

func TestHistoryCreateRejectsMismatchedResult(t *testing.T) {
	svc := newHistoryService(newMemoryDB(), &recordingPublisher{})

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateHistoryRequest{
		Type:   "niche",
		Input:  "x",
		Result: analysistest.JSON(analysis.ModeReply),
	})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestHistoryCreateRejectsGuide(t *testing.T) {
	svc := newHistoryService(newMemoryDB(), &recordingPublisher{})

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateHistoryRequest{Type: "guide", Result: []byte(`{}`)})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestHistoryDeleteIsIdempotentAndOwnerScoped(t *testing.T) {
	db, pub := newMemoryDB(), &recordingPublisher{}
	svc := newHistoryService(db, pub)
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	row, err := svc.Create(ctx, owner, &dto.CreateHistoryRequest{Type: "ideate", Input: "x", Result: analysistest.JSON(analysis.ModeIdeate)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, intruder, row.Id))
	rows, _ := svc.List(ctx, owner)
	assert.Len(t, rows, 1)

	require.NoError(t, svc.Delete(ctx, owner, row.Id))
	require.NoError(t, svc.Delete(ctx, owner, row.Id))
	rows, _ = svc.List(ctx, owner)
	assert.Empty(t, rows)

	assert.Equal(t, []string{"history.created:ideate", "history.deleted"}, pub.events)
}

func TestHistoryClearOnlyTouchesOwner(t *testing.T) {
	db := newMemoryDB()
	svc := newHistoryService(db, &recordingPublisher{})
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, owner, &dto.CreateHistoryRequest{Type: "post", Input: "x", Result: analysistest.JSON(analysis.ModePost)})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, other, &dto.CreateHistoryRequest{Type: "post", Input: "y", Result: analysistest.JSON(analysis.ModePost)})
	require.NoError(t, err)

	n, err := svc.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rows, _ := svc.List(ctx, other)
	assert.Len(t, rows, 1)
}

func TestHistoryCreateRejectsResultWithoutScore(t *testing.T) {
	svc := newHistoryService(newMemoryDB(), &recordingPublisher{})

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateHistoryRequest{
		Type:   "audit",
		Input:  "x",
		Result: []byte(`{"handle":"alpha","strengths":[],"weaknesses":[],"improvementPlan":[],"tweetAnalyses":[]}`),
	})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Contains(t, fe.Message, "overallScore")
}

func TestHistoryWithoutDatabase(t *testing.T) {
	svc := NewHistoryService(nil, &recordingPublisher{}, logger.NewNopLogger())

	_, err := svc.List(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
	_, err = svc.Clear(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
}
