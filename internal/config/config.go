package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Chunking  ChunkingConfig
	Retrieval RetrievalConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	StorageDir         string
	MaxUploadMB        int
	RateLimitPerMinute int
	SyncSchedule       string
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type APIKeys struct {
	Jina            string
	GoogleGemini    string
	HuggingFace     string
	JwtSecret       string
	ProcessingTopic string // Document processing topic
}

type AIConfig struct {
	EmbeddingProvider  string // "gemini", "ollama" or "jina"
	OllamaBaseURL      string
	OllamaModel        string
	LLMProvider        string // "ollama" or "huggingface"
	LLMModel           string // e.g. "llama3", "qwen2.5"
	MetadataExtraction bool
}

type ChunkingConfig struct {
	MaxChunkSize      int
	MinSectionWords   int
	MinChunkChars     int
	ContextWindow     int
	LocateConcurrency int
}

type RetrievalConfig struct {
	TopK                int
	MaxTopK             int
	SimilarityThreshold float64
	RetrievalTimeout    time.Duration
	GenerationTimeout   time.Duration
	QueryCacheTTL       time.Duration
}

type TracingConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			StorageDir:         getEnv("STORAGE_DIR", "storage/documents"),
			MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 50),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
			SyncSchedule:       getEnv("SYNC_SCHEDULE", "@every 5m"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_VERBOSE", false),
		},
		Keys: APIKeys{
			Jina:            getEnv("JINA_API_KEY", ""),
			GoogleGemini:    getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:     getEnv("HUGGINGFACE_API_KEY", ""),
			JwtSecret:       getEnv("JWT_SECRET", ""),
			ProcessingTopic: getEnv("DOCUMENT_PROCESS_TOPIC_NAME", "DOCUMENT_PROCESS"),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "llama3"),
			MetadataExtraction: getEnvAsBool("METADATA_EXTRACTION", false),
		},
		Chunking: ChunkingConfig{
			MaxChunkSize:      getEnvAsInt("CHUNK_MAX_SIZE", 1000),
			MinSectionWords:   getEnvAsInt("CHUNK_MIN_SECTION_WORDS", 10),
			MinChunkChars:     getEnvAsInt("CHUNK_MIN_CHARS", 50),
			ContextWindow:     getEnvAsInt("CHUNK_CONTEXT_WINDOW", 200),
			LocateConcurrency: getEnvAsInt("CHUNK_LOCATE_CONCURRENCY", 4),
		},
		Retrieval: RetrievalConfig{
			TopK:                getEnvAsInt("RETRIEVAL_TOP_K", 10),
			MaxTopK:             getEnvAsInt("RETRIEVAL_MAX_TOP_K", 50),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.7),
			RetrievalTimeout:    getEnvAsDuration("RETRIEVAL_TIMEOUT", 10*time.Second),
			GenerationTimeout:   getEnvAsDuration("GENERATION_TIMEOUT", 120*time.Second),
			QueryCacheTTL:       getEnvAsDuration("QUERY_CACHE_TTL", 10*time.Minute),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "greenregu-be"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
