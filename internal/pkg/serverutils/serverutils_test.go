package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nichelens-be/internal/pkg/logger"
	"nichelens-be/pkg/analysis"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func decodeBody(t *testing.T, res *http.Response) Response[json.RawMessage] {
	t.Helper()
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var out Response[json.RawMessage]
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestValidateRequestNamesMissingField(t *testing.T) {
	type body struct {
		Input string `json:"input" validate:"required"`
	}

	err := ValidateRequest(body{})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Equal(t, "Missing required field: input", fe.Message)

	assert.NoError(t, ValidateRequest(body{Input: "x"}))
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{fiber.NewError(fiber.StatusTeapot, "teapot"), fiber.StatusTeapot, "teapot"},
		{&analysis.MalformedResultError{Mode: analysis.ModeAudit, Reason: "x"}, http.StatusBadGateway, analysis.MalformedMessage},
		{&analysis.BackendError{StatusCode: 429, Message: "slow down"}, 429, "slow down"},
		{&analysis.BackendError{Message: "no status"}, http.StatusBadGateway, "no status"},
		{&analysis.UnsupportedModeError{Mode: analysis.ModeGuide}, http.StatusBadRequest, "unsupported protocol mode: guide"},
		{fmt.Errorf("wrapped: %w", analysis.ErrEmptyInput), http.StatusBadRequest, "Missing required field: input"},
		{errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tc := range cases {
		code, msg := StatusFor(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, tc.msg, msg, tc.err.Error())
	}
}

func TestErrorHandlerMiddlewareWritesEnvelope(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/fail", func(ctx *fiber.Ctx) error {
		return &analysis.MalformedResultError{Mode: analysis.ModeNiche, Reason: "missing pillars"}
	})
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("fine", map[string]int{"n": 1}))
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	body := decodeBody(t, res)
	assert.False(t, body.Success)
	assert.Equal(t, analysis.MalformedMessage, body.Error)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	body = decodeBody(t, res)
	assert.True(t, body.Success)
	assert.JSONEq(t, `{"n":1}`, string(body.Data))
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JwtMiddleware(testSecret), func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals("user_id").(string))
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "u-1"))
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "u-1"))
	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	assert.Equal(t, "u-1", string(b))
}

func TestParseUserTokenRequiresSecret(t *testing.T) {
	_, err := ParseUserToken(signToken(t, testSecret, "u-1"), "")
	assert.Error(t, err)
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimiter(2, time.Minute, nil))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusNoContent) })

	for i := 0; i < 2; i++ {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
	}

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, RateLimitMessage, body.Error)
}

func TestCacheStorage(t *testing.T) {
	s := NewCacheStorage(time.Minute)

	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, v)

	buf := []byte("1")
	require.NoError(t, s.Set("k", buf, time.Minute))
	buf[0] = '9'
	v, _ = s.Get("k")
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, s.Delete("k"))
	v, _ = s.Get("k")
	assert.Nil(t, v)

	require.NoError(t, s.Set("a", []byte("x"), 0))
	require.NoError(t, s.Reset())
	v, _ = s.Get("a")
	assert.Nil(t, v)
}

func TestRequestLoggerPublishesIdentifiedRequests(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	defer pubSub.Close()
	messages, err := pubSub.Subscribe(t.Context(), AnalyticsTopic)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(RequestLogger(logger.NewNopLogger(), pubSub, testSecret))
	app.Get("/api/thing", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusAccepted) })

	// Anonymous request: logged, not published.
	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/thing", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/thing?x=1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-42"))
	_, err = app.Test(req)
	require.NoError(t, err)

	select {
	case msg := <-messages:
		msg.Ack()
		var got RequestLog
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "user-42", got.UserID)
		assert.Equal(t, "/api/thing?x=1", got.Endpoint)
		assert.Equal(t, http.MethodGet, got.Method)
		assert.Equal(t, fiber.StatusAccepted, got.StatusCode)
		assert.False(t, got.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("request log was not published")
	}

	select {
	case msg := <-messages:
		t.Fatalf("unexpected extra message: %s", msg.Payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRequestLoggerFallsBackToHeader(t *testing.T) {
	app := fiber.New()
	var seen string
	app.Get("/", func(ctx *fiber.Ctx) error {
		seen = requestUserID(ctx, testSecret)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "header-user")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "header-user", seen)
}
