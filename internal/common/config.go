package common

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/joseph-ayodele/translation-backend/constants"
)

// Config holds all application configuration
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	OCR         OCRConfig
	Translation TranslationConfig
	Render      RenderConfig
	Cache       CacheConfig
	Worker      WorkerConfig
}

// DatabaseConfig holds job-ledger configuration
type DatabaseConfig struct {
	Driver          string // "postgres" | "sqlite"
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr       string
	MaxImageBytes  int
	RequestTimeout time.Duration
}

// OCRConfig holds region-extraction configuration
type OCRConfig struct {
	Strategy      string // "gosseract" | "tesseract-cli" | "network"
	Languages     []string
	TesseractPath string
	TessdataDir   string
	NetworkURL    string
	Timeout       time.Duration
}

// TranslationConfig holds engine configuration
type TranslationConfig struct {
	DefaultEngine string
	NeuralBaseURL string
	NeuralTimeout time.Duration
	DetectorURL   string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string

	Temperature float64
	MaxTokens   int
	LLMTimeout  time.Duration
}

// RenderConfig holds layout tunables
type RenderConfig struct {
	LineYThreshold int
	FontShrink     float64
	BlurRadius     float64
	FontPath       string
}

// CacheConfig holds result-cache configuration
type CacheConfig struct {
	RedisAddr string
	TTL       time.Duration
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	Concurrency int
	QueueName   string
	JobTimeout  time.Duration
	ResultTTL   time.Duration
	WatchDir    string
	OutputDir   string
	DefaultSrc  string
	DefaultTgt  string
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables. Variables already set in the environment win.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("config.dotenv unreadable", "error", err)
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			DSN:             getEnv("DB_URL", "file:./tmp/translations.db?_pragma=busy_timeout(5000)"),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr:       getEnv("GRPC_ADDR", ":8080"),
			MaxImageBytes:  getEnvAsInt("MAX_IMAGE_BYTES", 20<<20),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 3*time.Minute),
		},
		OCR: OCRConfig{
			Strategy:      getEnv("OCR_STRATEGY", "gosseract"),
			Languages:     getEnvAsList("OCR_LANGS", []string{"eng"}),
			TesseractPath: getEnv("TESSERACT_PATH", "tesseract"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			NetworkURL:    getEnv("OCR_NETWORK_URL", "http://localhost:8500"),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
		},
		Translation: TranslationConfig{
			DefaultEngine:    getEnv("DEFAULT_ENGINE", string(constants.FamilyNeural)+constants.SelectorSeparator+constants.ModelM2M100Small),
			NeuralBaseURL:    getEnv("NEURAL_BASE_URL", "http://localhost:8600"),
			NeuralTimeout:    getEnvAsDuration("NEURAL_TIMEOUT", 2*time.Minute),
			DetectorURL:      getEnv("LANG_DETECTOR_URL", ""),
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o"),
			AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1"),
			AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-7-sonnet-20250219"),
			Temperature:      getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			MaxTokens:        getEnvAsInt("LLM_MAX_TOKENS", 1024),
			LLMTimeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Render: RenderConfig{
			LineYThreshold: getEnvAsInt("LINE_Y_THRESHOLD", constants.LineYThreshold),
			FontShrink:     getEnvAsFloat("FONT_SHRINK", constants.FontShrinkFactor),
			BlurRadius:     getEnvAsFloat("BLUR_RADIUS", constants.BlurRadius),
			FontPath:       getEnv("FONT_PATH", ""),
		},
		Cache: CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),
			QueueName:   getEnv("WORKER_QUEUE", "translate:jobs"),
			JobTimeout:  getEnvAsDuration("WORKER_JOB_TIMEOUT", 5*time.Minute),
			ResultTTL:   getEnvAsDuration("WORKER_RESULT_TTL", time.Hour),
			WatchDir:    getEnv("WATCH_DIR", ""),
			OutputDir:   getEnv("OUTPUT_DIR", "./out"),
			DefaultSrc:  getEnv("WORKER_SRC_LANG", "en"),
			DefaultTgt:  getEnv("WORKER_TGT_LANG", "de"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '+' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return NewAppError("CONFIG_ERROR", "DB_DRIVER must be postgres or sqlite", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	switch c.OCR.Strategy {
	case "gosseract", "tesseract-cli", "network":
	default:
		return NewAppError("CONFIG_ERROR", "OCR_STRATEGY must be gosseract, tesseract-cli or network", ErrInvalidInput)
	}
	if c.Render.LineYThreshold <= 0 {
		return NewAppError("CONFIG_ERROR", "LINE_Y_THRESHOLD must be positive", ErrInvalidInput)
	}
	if c.Render.FontShrink <= 0 {
		return NewAppError("CONFIG_ERROR", "FONT_SHRINK must be positive", ErrInvalidInput)
	}
	return nil
}
