package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Yahoo      YahooConfig      `yaml:"yahoo" mapstructure:"yahoo"`
	Vector     VectorConfig     `yaml:"vector" mapstructure:"vector"`
	Qdrant     QdrantConfig     `yaml:"qdrant" mapstructure:"qdrant"`
	PGVector   PGVectorConfig   `yaml:"pgvector" mapstructure:"pgvector"`
	Embedding  EmbeddingConfig  `yaml:"embedding" mapstructure:"embedding"`
	Ollama     OllamaConfig     `yaml:"ollama" mapstructure:"ollama"`
	Retrieval  RetrievalConfig  `yaml:"retrieval" mapstructure:"retrieval"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port             int      `yaml:"port" mapstructure:"port"`
	CORSOrigins      []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimit        float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst        int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	ShutdownTimeoutS int      `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LLMConfig selects the text-generation provider.
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "gemini" or "anthropic"
}

// GeminiConfig holds Gemini / Vertex AI settings.
type GeminiConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	Backend         string `yaml:"backend" mapstructure:"backend"` // "api" or "vertex"
	Project         string `yaml:"project" mapstructure:"project"`
	Location        string `yaml:"location" mapstructure:"location"`
	ExtractionModel string `yaml:"extraction_model" mapstructure:"extraction_model"`
	ReportModel     string `yaml:"report_model" mapstructure:"report_model"`
	EmbeddingModel  string `yaml:"embedding_model" mapstructure:"embedding_model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	ExtractionModel string `yaml:"extraction_model" mapstructure:"extraction_model"`
	ReportModel     string `yaml:"report_model" mapstructure:"report_model"`
}

// ExtractionConfig tunes the extraction prompt.
type ExtractionConfig struct {
	Structured   bool   `yaml:"structured" mapstructure:"structured"`
	DocumentHint bool   `yaml:"document_hint" mapstructure:"document_hint"`
	HintTopK     int    `yaml:"hint_top_k" mapstructure:"hint_top_k"`
	MaxTokens    int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	TickersFile  string `yaml:"tickers_file" mapstructure:"tickers_file"`
}

// SearchConfig holds Google Custom Search settings.
type SearchConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	EngineID string `yaml:"engine_id" mapstructure:"engine_id"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Num      int    `yaml:"num" mapstructure:"num"`
	MaxChars int    `yaml:"max_chars" mapstructure:"max_chars"`
}

// YahooConfig holds Yahoo Finance settings.
type YahooConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// VectorConfig selects and tunes the vector-similarity backend.
type VectorConfig struct {
	Backend            string `yaml:"backend" mapstructure:"backend"` // "qdrant" or "pgvector"
	TopK               int    `yaml:"top_k" mapstructure:"top_k"`
	KnowledgeNamespace string `yaml:"knowledge_namespace" mapstructure:"knowledge_namespace"`
}

// QdrantConfig holds Qdrant connection settings.
type QdrantConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port" mapstructure:"port"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	Collection string `yaml:"collection" mapstructure:"collection"`
	TLS        bool   `yaml:"tls" mapstructure:"tls"`
}

// PGVectorConfig holds Postgres + pgvector settings.
type PGVectorConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// EmbeddingConfig selects the query embedder.
type EmbeddingConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "gemini" or "ollama"
}

// OllamaConfig holds Ollama embedding settings.
type OllamaConfig struct {
	Host  string `yaml:"host" mapstructure:"host"`
	Model string `yaml:"model" mapstructure:"model"`
}

// RetrievalConfig tunes the fan-out stage.
type RetrievalConfig struct {
	CallTimeoutSecs int    `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	Fallback        string `yaml:"fallback" mapstructure:"fallback"`
}

// ReportConfig tunes the report composer.
type ReportConfig struct {
	Market    string `yaml:"market" mapstructure:"market"`
	Benchmark string `yaml:"benchmark" mapstructure:"benchmark"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// Load reads configuration from config.yaml (optional) and GLANCE_* env vars.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GLANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("server.shutdown_timeout_secs", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("gemini.backend", "api")
	v.SetDefault("gemini.location", "asia-south1")
	v.SetDefault("gemini.extraction_model", "gemini-2.5-flash")
	v.SetDefault("gemini.report_model", "gemini-2.5-pro")
	v.SetDefault("gemini.embedding_model", "text-embedding-004")
	v.SetDefault("anthropic.extraction_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.report_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("extraction.structured", false)
	v.SetDefault("extraction.document_hint", true)
	v.SetDefault("extraction.hint_top_k", 4)
	v.SetDefault("extraction.max_tokens", 1024)
	v.SetDefault("search.base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("search.num", 5)
	v.SetDefault("search.max_chars", 1000)
	v.SetDefault("yahoo.base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("yahoo.timeout_secs", 15)
	v.SetDefault("vector.backend", "qdrant")
	v.SetDefault("vector.top_k", 1)
	v.SetDefault("vector.knowledge_namespace", "Fundamentals")
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.collection", "glance")
	v.SetDefault("qdrant.tls", false)
	v.SetDefault("pgvector.table", "document_chunks")
	v.SetDefault("embedding.provider", "gemini")
	v.SetDefault("ollama.host", "http://localhost:11434")
	v.SetDefault("ollama.model", "nomic-embed-text")
	v.SetDefault("retrieval.call_timeout_secs", 20)
	v.SetDefault("retrieval.fallback", "No results available.")
	v.SetDefault("report.market", "Indian")
	v.SetDefault("report.benchmark", "Nifty")
	v.SetDefault("report.max_tokens", 4096)

	// Secrets have no default but must be known to viper so that
	// AutomaticEnv resolves them during Unmarshal.
	for _, key := range []string{
		"gemini.key",
		"gemini.project",
		"anthropic.key",
		"search.key",
		"search.engine_id",
		"qdrant.api_key",
		"pgvector.database_url",
		"extraction.tickers_file",
	} {
		v.SetDefault(key, "")
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the keys required by the given command mode are
// present. Modes: "serve", "analyze", "ticker".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.LLM.Provider {
	case "gemini":
		if c.Gemini.Backend == "vertex" {
			if c.Gemini.Project == "" {
				errs = append(errs, "gemini.project is required for the vertex backend")
			}
		} else if c.Gemini.Key == "" {
			errs = append(errs, "gemini.key is required")
		}
	case "anthropic":
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
	default:
		errs = append(errs, "llm.provider must be gemini or anthropic")
	}

	if c.Search.Key == "" {
		errs = append(errs, "search.key is required")
	}
	if c.Search.EngineID == "" {
		errs = append(errs, "search.engine_id is required")
	}

	// The ticker lookup only needs the LLM, search and quote clients.
	if mode != "ticker" {
		switch c.Vector.Backend {
		case "qdrant":
			if c.Qdrant.Host == "" {
				errs = append(errs, "qdrant.host is required")
			}
		case "pgvector":
			if c.PGVector.DatabaseURL == "" {
				errs = append(errs, "pgvector.database_url is required")
			}
		default:
			errs = append(errs, "vector.backend must be qdrant or pgvector")
		}

		switch c.Embedding.Provider {
		case "gemini":
			if c.Gemini.Key == "" && c.Gemini.Project == "" {
				errs = append(errs, "gemini.key or gemini.project is required for gemini embeddings")
			}
		case "ollama":
			if c.Ollama.Host == "" {
				errs = append(errs, "ollama.host is required")
			}
		default:
			errs = append(errs, "embedding.provider must be gemini or ollama")
		}
	}

	if mode == "serve" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
