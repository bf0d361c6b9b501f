package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"nichelens-be/internal/pkg/logger"
	"nichelens-be/internal/pkg/serverutils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerStoresRequestLogs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	db := newMemoryDB()
	consumer := NewConsumerService(pubSub, serverutils.AnalyticsTopic, db, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	payload, err := json.Marshal(serverutils.RequestLog{
		UserID:     "user-1",
		Endpoint:   "/api/analysis/optimize",
		Method:     "POST",
		StatusCode: 200,
		DurationMs: 840,
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(serverutils.AnalyticsTopic,
		message.NewMessage(watermill.NewUUID(), []byte("not json")),
		message.NewMessage(watermill.NewUUID(), payload),
	))

	assert.Eventually(t, func() bool {
		db.mu.Lock()
		defer db.mu.Unlock()
		return len(db.analytics) == 1
	}, 2*time.Second, 10*time.Millisecond)

	db.mu.Lock()
	defer db.mu.Unlock()
	got := db.analytics[0]
	assert.Equal(t, "user-1", got.UserId)
	assert.Equal(t, "/api/analysis/optimize", got.Endpoint)
	assert.Equal(t, int64(840), got.DurationMs)
}
