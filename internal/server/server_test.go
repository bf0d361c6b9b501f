package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nichelens-be/internal/bootstrap"
	"nichelens-be/internal/config"
	"nichelens-be/internal/controller"
	"nichelens-be/internal/events"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/internal/pkg/serverutils"
	"nichelens-be/internal/repository/memory"
	"nichelens-be/internal/service"
	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/analysis/analysistest"
	"nichelens-be/pkg/llm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "server-secret"

type postModel struct{}

func (postModel) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "```json\n" + string(analysistest.JSON(analysis.ModePost)) + "\n```", nil
}

func (m postModel) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return m.Chat(ctx, nil, options...)
}

func newTestServer(t *testing.T, max int) *Server {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			ClientURL:          "http://127.0.0.1:8765/callback",
			CorsAllowedOrigins: "*",
			JwtSecret:          secret,
			JwtTTL:             time.Hour,
		},
		RateLimit: config.RateLimitConfig{Max: max, Window: time.Minute},
	}

	log := logger.NewNopLogger()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	publisher := events.NewNatsPublisher(nil, log)
	auth := serverutils.JwtMiddleware(secret)
	states := memory.NewOAuthStateRepository(bootstrap.OAuthStateTTL)

	container := &bootstrap.Container{
		AnalysisController: controller.NewAnalysisController(service.NewAnalysisService(postModel{}, log)),
		HistoryController:  controller.NewHistoryController(service.NewHistoryService(nil, publisher, log), auth),
		OAuthController: controller.NewOAuthController(
			service.NewOAuthService(nil, states, cfg, publisher, log), auth, cfg.App.ClientURL, log),
		Logger:        log,
		RequestLogger: log,
		EventBus:      bus,
	}
	return New(cfg, container)
}

func token(t *testing.T) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 10)

	res, err := srv.GetApp().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	_, err = time.Parse(time.RFC3339Nano, body.Timestamp)
	assert.NoError(t, err)
}

func TestOptimizeEndToEnd(t *testing.T) {
	srv := newTestServer(t, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/optimize", strings.NewReader(`{"input":"ship daily"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := srv.GetApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body serverutils.Response[json.RawMessage]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.True(t, body.Success)
	_, err = analysis.DecodeResult(analysis.ModePost, body.Data)
	assert.NoError(t, err)
}

func TestHistoryWithoutDatabaseIsUnavailable(t *testing.T) {
	srv := newTestServer(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token(t))
	res, err := srv.GetApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestUnknownProviderIsRejected(t *testing.T) {
	srv := newTestServer(t, 10)

	res, err := srv.GetApp().Test(httptest.NewRequest(http.MethodGet, "/api/auth/x", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestApiIsRateLimited(t *testing.T) {
	srv := newTestServer(t, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/analysis/optimize", strings.NewReader(`{"input":""}`))
		req.Header.Set("Content-Type", "application/json")
		res, err := srv.GetApp().Test(req)
		require.NoError(t, err)
		codes = append(codes, res.StatusCode)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)

	// Health sits outside the limited group.
	res, err := srv.GetApp().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
