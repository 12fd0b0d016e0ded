package bootstrap

import (
	"log"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"rag-chatbot-be/internal/config"
	"rag-chatbot-be/internal/controller"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/repository/cache"
	"rag-chatbot-be/internal/repository/implementation"
	"rag-chatbot-be/internal/service"
	"rag-chatbot-be/pkg/embedding"
	embeddinggemini "rag-chatbot-be/pkg/embedding/gemini"
	embeddingollama "rag-chatbot-be/pkg/embedding/ollama"
	"rag-chatbot-be/pkg/llm"
	"rag-chatbot-be/pkg/llm/factory"
	"rag-chatbot-be/pkg/llm/registry"
	"rag-chatbot-be/pkg/rag/history"
	"rag-chatbot-be/pkg/rag/retriever"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Core Facades
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Repositories
	chatTurnRepo := implementation.NewChatTurnRepository(db)
	documentRepo := implementation.NewDocumentRepository(db)
	passageRepo := implementation.NewPassageRepository(db)

	// Redis history cache is optional; without it reads go straight to the
	// database.
	var historyCache *cache.HistoryCache
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Invalid REDIS_URL, history cache disabled: %v", err)
		} else {
			historyCache = cache.NewHistoryCache(
				redis.NewClient(opts),
				time.Duration(cfg.Rag.HistoryTTLSeconds)*time.Second,
			)
			log.Printf("[INFO] History cache enabled (redis)")
		}
	}

	// 4. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embeddingollama.NewOllamaEmbeddingProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embeddinggemini.NewGeminiEmbeddingProvider(
			cfg.Ai.GeminiAPIKey,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	}

	// One provider handle per model name, built lazily on first request so
	// the service boots without live credentials.
	modelRegistry := registry.NewRegistry(func(modelName string) (llm.LLMProvider, error) {
		providerType := cfg.Ai.LLMProvider
		if strings.HasPrefix(modelName, "gemini") {
			providerType = "gemini"
		}
		return factory.NewLLMProvider(providerType, modelName, cfg.Ai.OllamaBaseURL, cfg.Ai.GeminiAPIKey)
	})

	// 5. RAG Components
	passageRetriever := retriever.NewRetriever(passageRepo, embeddingProvider)
	historyLoader := history.NewLoader(chatTurnRepo, historyCache, sysLogger)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub)

	chatService := service.NewChatService(
		historyLoader,
		passageRetriever,
		modelRegistry,
		publisherService,
		service.ChatServiceConfig{
			DefaultModel:     cfg.Ai.DefaultModel,
			KnownModels:      cfg.Ai.KnownModels,
			Temperature:      cfg.Ai.Temperature,
			MaxTokens:        cfg.Ai.MaxTokens,
			RetrieverTopK:    cfg.Rag.RetrieverTopK,
			TurnPersistTopic: cfg.App.TurnPersistTopic,
		},
		sysLogger,
	)

	documentService := service.NewDocumentService(
		documentRepo,
		passageRepo,
		passageRetriever,
		service.DocumentServiceConfig{
			ChunkSize:    cfg.Rag.ChunkSize,
			ChunkOverlap: cfg.Rag.ChunkOverlap,
		},
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.TurnPersistTopic,
		chatTurnRepo,
		historyCache,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService),
		HealthController:   controller.NewHealthController(),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
