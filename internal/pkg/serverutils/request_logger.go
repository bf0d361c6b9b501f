package serverutils

import (
	"encoding/json"
	"time"

	"nichelens-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/fiber/v2"
)

// AnalyticsTopic carries one RequestLog per request that has a known user.
const AnalyticsTopic = "analytics.request"

type RequestLog struct {
	UserID     string    `json:"user_id"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method"`
	StatusCode int       `json:"status_code"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// RequestLogger writes one line per request to log and, when the caller is
// identified by bearer token or X-User-Id, publishes a RequestLog. Publish
// failures are logged and never change the response.
func RequestLogger(log logger.ILogger, publisher message.Publisher, jwtSecret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		entry := RequestLog{
			UserID:     requestUserID(ctx, jwtSecret),
			Endpoint:   ctx.OriginalURL(),
			Method:     ctx.Method(),
			StatusCode: ctx.Response().StatusCode(),
			DurationMs: time.Since(start).Milliseconds(),
			Timestamp:  start.UTC(),
		}
		if err != nil {
			if code, _ := StatusFor(err); code > 0 {
				entry.StatusCode = code
			}
		}

		log.Info("HTTP", "request", map[string]interface{}{
			"method":      entry.Method,
			"endpoint":    entry.Endpoint,
			"status_code": entry.StatusCode,
			"duration_ms": entry.DurationMs,
			"user_id":     entry.UserID,
			"request_id":  ctx.GetRespHeader(fiber.HeaderXRequestID),
		})

		if entry.UserID != "" && publisher != nil {
			payload, mErr := json.Marshal(entry)
			if mErr == nil {
				mErr = publisher.Publish(AnalyticsTopic, message.NewMessage(watermill.NewUUID(), payload))
			}
			if mErr != nil {
				log.Warn("HTTP", "Failed to publish request log", map[string]interface{}{"error": mErr.Error()})
			}
		}

		return err
	}
}

func requestUserID(ctx *fiber.Ctx, jwtSecret string) string {
	if id, ok := ctx.Locals("user_id").(string); ok && id != "" {
		return id
	}
	if tokenStr, ok := bearerToken(ctx); ok {
		if id, err := ParseUserToken(tokenStr, jwtSecret); err == nil {
			return id
		}
	}
	return ctx.Get("X-User-Id")
}
