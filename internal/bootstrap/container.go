package bootstrap

import (
	"context"
	"log"

	"storefront-be/internal/config"
	"storefront-be/internal/controller"
	"storefront-be/internal/pkg/logger"
	"storefront-be/internal/repository/memory"
	"storefront-be/internal/repository/unitofwork"
	"storefront-be/internal/seeddata"
	"storefront-be/internal/service"
	"storefront-be/pkg/assistant/access"
	"storefront-be/pkg/assistant/advisor"
	"storefront-be/pkg/assistant/compose"
	"storefront-be/pkg/assistant/expand"
	"storefront-be/pkg/assistant/match"
	"storefront-be/pkg/assistant/transcript"
	"storefront-be/pkg/llm"
	"storefront-be/pkg/llm/factory"
	pktNats "storefront-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	AssistantController controller.IAssistantController
	CatalogController   controller.ICatalogController

	// Background services, nil when their infrastructure is not configured.
	TranscriptConsumer service.ITranscriptConsumerService
	ChatInsights       *service.ChatInsightsService

	Logger  logger.ILogger
	closers []func()
}

// NewContainer wires the application. A nil db runs the catalog and
// transcripts on the in-memory store.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// 1. Storage
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Printf("[WARN] No database configured, using the in-memory demo catalog")
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
		if err := seeddata.Load(context.Background(), uowFactory); err != nil {
			log.Printf("[WARN] Failed to load demo catalog: %v", err)
		}
	}

	// 2. Infrastructure
	var publisher service.EventPublisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL == "" {
		log.Printf("[INFO] NATS_URL is empty, event bus disabled")
	} else {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	var quota service.QuotaChecker
	if rdb := connectRedis(cfg.App.RedisURL); rdb != nil {
		quota = access.NewLimiter(access.NewRedisUsageStore(rdb), cfg.Ai.DailyLimit, sysLogger)
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	llmProvider, err := factory.NewLLMProvider(llmConfig(cfg))
	if err != nil {
		log.Printf("[WARN] LLM provider unavailable: %v", err)
		llmProvider = llm.Unavailable{Err: err}
	} else {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 3. Chat pipeline
	recorder := transcript.NewRecorder(uowFactory, memory.NewUserLockRepository())
	var transcripts service.TranscriptSink = recorder
	if cfg.Chat.TranscriptMode == config.TranscriptModeAsync {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		transcripts = service.NewTranscriptPublisher(pubSub, cfg.Chat.TranscriptTopic)
		c.TranscriptConsumer = service.NewTranscriptConsumerService(pubSub, cfg.Chat.TranscriptTopic, recorder, sysLogger)
		c.closers = append(c.closers, func() { pubSub.Close() })
	}

	chatService := service.NewChatService(
		expand.NewExpander(expand.DefaultSynonyms(), expand.DefaultStopwords(), expand.Options{
			WidenWithSynonyms: cfg.Chat.WidenSynonyms,
		}),
		match.NewMatcher(match.NewStoreSearcher(uowFactory), match.Options{
			PerTermLimit: cfg.Chat.MatchLimit,
			QueryTimeout: cfg.Chat.QueryTimeout,
		}, sysLogger),
		compose.NewComposer(compose.DefaultTemplates(), compose.DefaultDiscountTriggers()),
		transcripts,
		recorder,
		publisher,
		sysLogger,
	)

	var insights controller.InsightsSource
	if natsSub != nil {
		c.ChatInsights = service.NewChatInsightsService(natsSub, sysLogger)
		insights = c.ChatInsights
	}

	assistantService := service.NewAssistantService(
		advisor.NewAdvisor(llmProvider, cfg.Ai.RequestTimeout, sysLogger),
		quota,
		publisher,
		sysLogger,
	)

	// 4. Controllers
	c.ChatController = controller.NewChatController(chatService, insights, cfg.App.JwtSecret, sysLogger)
	c.AssistantController = controller.NewAssistantController(assistantService, cfg.App.JwtSecret, sysLogger)
	c.CatalogController = controller.NewCatalogController(service.NewCatalogService(uowFactory))
	return c
}

// Start launches the background workers that are configured.
func (c *Container) Start(ctx context.Context) error {
	if c.TranscriptConsumer != nil {
		if err := c.TranscriptConsumer.Consume(ctx); err != nil {
			return err
		}
	}
	if c.ChatInsights != nil {
		if err := c.ChatInsights.Start(ctx); err != nil {
			c.Logger.Warn("Container", "Chat insights worker not started", map[string]interface{}{"error": err})
		}
	}
	return nil
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}

func connectRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, assistant quota disabled: %v", err)
		rdb.Close()
		return nil
	}
	return rdb
}

func llmConfig(cfg *config.Config) factory.Config {
	fc := factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		Timeout:  cfg.Ai.RequestTimeout,
	}
	switch cfg.Ai.LLMProvider {
	case factory.ProviderOllama:
		fc.BaseURL = cfg.Ai.OllamaBaseURL
	case factory.ProviderOpenAI:
		fc.BaseURL = cfg.Ai.OpenAIBaseURL
		fc.APIKey = cfg.Ai.OpenAIAPIKey
	default:
		fc.APIKey = cfg.Ai.GeminiAPIKey
	}
	return fc
}
