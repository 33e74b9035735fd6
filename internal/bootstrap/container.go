package bootstrap

import (
	"context"

	"greenregu-be/internal/config"
	"greenregu-be/internal/controller"
	"greenregu-be/internal/metrics"
	"greenregu-be/internal/pkg/logger"
	"greenregu-be/internal/pkg/serverutils"
	"greenregu-be/internal/repository/memory"
	"greenregu-be/internal/repository/unitofwork"
	"greenregu-be/internal/service"
	"greenregu-be/pkg/chunking"
	"greenregu-be/pkg/embedding"
	"greenregu-be/pkg/embedding/jina"
	"greenregu-be/pkg/llm/factory"
	"greenregu-be/pkg/rag/metadata"
	"greenregu-be/pkg/rag/search"

	pktNats "greenregu-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const bootstrapModule = "Bootstrap"

type Container struct {
	Logger   *logger.ZapLogger
	Registry *prometheus.Registry

	// Controllers
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Background services, started by main
	ConsumerService      service.IConsumerService
	SyncService          service.ISyncService
	EventListenerService service.IEventListenerService

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(registry)

	c := &Container{Logger: sysLogger, Registry: registry}

	// 2. Work queue
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	embeddingModel := cfg.Ai.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		embeddingModel = "ollama/" + cfg.Ai.OllamaModel
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}
	sysLogger.Info(bootstrapModule, "Embedding provider selected", map[string]interface{}{"provider": embeddingModel})

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		return nil, err
	}
	sysLogger.Info(bootstrapModule, "LLM provider selected", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	var metadataExtractor service.IMetadataExtractor
	if cfg.Ai.MetadataExtraction {
		metadataExtractor = metadata.NewExtractor(llmProvider, metadata.DefaultConfig(), sysLogger.Named("metadata"))
	}

	// 4. Infrastructure
	var (
		eventPublisher  service.IEventPublisher
		eventSubscriber *pktNats.Subscriber
	)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger.Named("nats"))
	if err != nil {
		sysLogger.Warn(bootstrapModule, "NATS publisher unavailable, lifecycle events disabled", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	eventSubscriber, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger.Named("nats"))
	if err != nil {
		sysLogger.Warn(bootstrapModule, "NATS subscriber unavailable, reprocess requests disabled", map[string]interface{}{"error": err.Error()})
	} else {
		c.closers = append(c.closers, eventSubscriber.Close)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn(bootstrapModule, "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		sysLogger.Warn(bootstrapModule, "Redis unreachable, rate limiting fails open", map[string]interface{}{"error": err.Error()})
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	// 5. Pipelines
	storage := service.NewLocalStorage(cfg.App.StorageDir)
	chunker := service.NewPDFChunker(chunking.NewProcessor(chunking.Config{
		MaxChunkSize:      cfg.Chunking.MaxChunkSize,
		MinSectionWords:   cfg.Chunking.MinSectionWords,
		MinChunkChars:     cfg.Chunking.MinChunkChars,
		ContextWindow:     cfg.Chunking.ContextWindow,
		LocateConcurrency: cfg.Chunking.LocateConcurrency,
	}, sysLogger.Named("chunking")))

	chunkIndex := service.NewChunkIndex(uowFactory, embeddingProvider, memory.NewEmbeddingCache(cfg.Retrieval.QueryCacheTTL), embeddingModel)
	ranker := search.NewRanker(chunkIndex, chunkIndex, search.Config{
		TopK:                cfg.Retrieval.TopK,
		MaxTopK:             cfg.Retrieval.MaxTopK,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		Timeout:             cfg.Retrieval.RetrievalTimeout,
	}, sysLogger.Named("search")).WithRecorder(appMetrics)

	// 6. Services
	processor := service.NewDocumentProcessorService(
		uowFactory,
		storage,
		chunker,
		embeddingProvider,
		metadataExtractor,
		eventPublisher,
		appMetrics,
		sysLogger,
	)
	publisherService := service.NewPublisherService(cfg.Keys.ProcessingTopic, pubSub)
	documentService := service.NewDocumentService(uowFactory, storage, publisherService, cfg.App.MaxUploadMB, sysLogger)
	chatService := service.NewChatService(uowFactory, ranker, llmProvider, cfg.Retrieval.GenerationTimeout, appMetrics, sysLogger)

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Keys.ProcessingTopic, processor, sysLogger)
	c.SyncService = service.NewSyncService(uowFactory, processor, sysLogger)
	if eventSubscriber != nil {
		c.EventListenerService = service.NewEventListenerService(eventSubscriber, documentService, sysLogger)
	}

	// 7. Controllers
	c.DocumentController = controller.NewDocumentController(documentService)
	c.ChatController = controller.NewChatController(chatService,
		serverutils.JwtMiddleware(cfg.Keys.JwtSecret),
		serverutils.RateLimitMiddleware(rdb, cfg.App.RateLimitPerMinute, sysLogger.Named("ratelimit")),
	)

	return c, nil
}

// Close releases broker and cache connections in reverse order.
func (c *Container) Close() {
	c.SyncService.Stop()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
