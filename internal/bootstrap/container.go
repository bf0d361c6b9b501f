package bootstrap

import (
	"context"
	"log"
	"time"

	"nichelens-be/internal/config"
	"nichelens-be/internal/controller"
	"nichelens-be/internal/events"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/internal/pkg/serverutils"
	"nichelens-be/internal/repository/memory"
	"nichelens-be/internal/repository/unitofwork"
	"nichelens-be/internal/service"
	"nichelens-be/pkg/llm/factory"

	pktNats "nichelens-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// OAuthStateTTL bounds how long a login may sit between start and callback.
const OAuthStateTTL = 10 * time.Minute

type Container struct {
	// Controllers
	AnalysisController controller.IAnalysisController
	HistoryController  controller.IHistoryController
	OAuthController    controller.IOAuthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Middleware dependencies
	Logger         logger.ILogger
	RequestLogger  logger.ILogger
	EventBus       message.Publisher
	LimiterStorage fiber.Storage

	closers []func()
}

// NewContainer wires the backend. db may be nil, in which case history and
// sign-in answer 503 and analytics are not persisted.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	requestLogger := logger.NewIsolatedLogger(cfg.App.RequestLogPath)

	c := &Container{
		Logger:        sysLogger,
		RequestLogger: requestLogger,
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)
	c.EventBus = pubSub
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var sink events.EventSink
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		sink = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	eventPublisher := events.NewNatsPublisher(sink, sysLogger)

	// Redis
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Rate limits stay in process", err)
			_ = rdb.Close()
		} else {
			c.LimiterStorage = serverutils.NewRedisStorage(rdb)
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
		cancel()
	}

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(context.Background(), factory.ProviderConfig{
		Provider:   cfg.Ai.LLMProvider,
		Model:      cfg.Ai.LLMModel,
		ImageModel: cfg.Ai.ImageModel,
		BaseURL:    cfg.Ai.OllamaBaseURL,
		APIKey:     cfg.Keys.GoogleGemini,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Services
	oauthStates := memory.NewOAuthStateRepository(OAuthStateTTL)

	analysisService := service.NewAnalysisService(llmProvider, sysLogger)
	historyService := service.NewHistoryService(uowFactory, eventPublisher, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, oauthStates, cfg, eventPublisher, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, serverutils.AnalyticsTopic, uowFactory, sysLogger)

	// 5. Controllers
	auth := serverutils.JwtMiddleware(cfg.App.JwtSecret)
	c.AnalysisController = controller.NewAnalysisController(analysisService)
	c.HistoryController = controller.NewHistoryController(historyService, auth)
	c.OAuthController = controller.NewOAuthController(oauthService, auth, cfg.App.ClientURL, sysLogger)

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
	_ = c.RequestLogger.Sync()
}
