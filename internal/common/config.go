package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Extract  ExtractConfig
	OCR      OCRConfig
	Pipeline PipelineConfig
	Cache    CacheConfig
	Log      LogConfig
}

// ServerConfig holds HTTP transport configuration
type ServerConfig struct {
	HTTPAddr       string
	MaxUploadBytes int64
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// ExtractConfig holds native text extraction configuration
type ExtractConfig struct {
	MinPageChars int
	Workers      int
	ForceOCR     bool
}

// OCRConfig holds recognition fallback configuration
type OCRConfig struct {
	PdftoppmBin   string
	TesseractBin  string
	Languages     []string
	DPI           int
	PSM           int
	OEM           int
	TessdataDir   string
	PageTimeout   time.Duration
	MaxConcurrent int
}

// PipelineConfig holds async worker pool configuration
type PipelineConfig struct {
	Workers   int
	QueueSize int
}

// CacheConfig holds the optional result cache configuration
type CacheConfig struct {
	Backend  string
	TTL      time.Duration
	Capacity int
	RedisURL string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present; real env vars win.
func LoadConfig() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("config.dotenv_loaded")
	}
	return &Config{
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", constants.MaxUploadBytesDefault),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 5*time.Minute),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 2*time.Minute),
		},
		Extract: ExtractConfig{
			MinPageChars: getEnvAsInt("MIN_PAGE_CHARS", constants.MinPageCharsDefault),
			Workers:      getEnvAsInt("EXTRACT_WORKERS", 4),
			ForceOCR:     getEnvAsBool("FORCE_OCR", false),
		},
		OCR: OCRConfig{
			PdftoppmBin:   getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TesseractBin:  getEnv("TESSERACT_BIN", "tesseract"),
			Languages:     getEnvAsList("OCR_LANGUAGES", constants.RecognitionLanguagesDefault),
			DPI:           getEnvAsInt("OCR_DPI", constants.RecognitionDPIDefault),
			PSM:           getEnvAsInt("OCR_PSM", 6),
			OEM:           getEnvAsInt("OCR_OEM", 0),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PageTimeout:   getEnvAsDuration("OCR_PAGE_TIMEOUT", 60*time.Second),
			MaxConcurrent: getEnvAsInt("OCR_WORKERS", 4),
		},
		Pipeline: PipelineConfig{
			Workers:   getEnvAsInt("PIPELINE_WORKERS", 4),
			QueueSize: getEnvAsInt("PIPELINE_QUEUE_SIZE", 64),
		},
		Cache: CacheConfig{
			Backend:  strings.ToLower(getEnv("CACHE_BACKEND", "none")),
			TTL:      getEnvAsDuration("CACHE_TTL", time.Hour),
			Capacity: getEnvAsInt("CACHE_CAPACITY", 256),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return out
}

// SlogLevel maps the configured level name onto slog.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("HTTP_ADDR", c.Server.HTTPAddr, Required)
	v.Field("MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes, Positive)
	v.Field("MIN_PAGE_CHARS", c.Extract.MinPageChars, Positive)
	v.Field("EXTRACT_WORKERS", c.Extract.Workers, Positive)
	v.Field("OCR_DPI", c.OCR.DPI, Positive)
	v.Field("OCR_PAGE_TIMEOUT", c.OCR.PageTimeout, Positive)
	v.Field("OCR_WORKERS", c.OCR.MaxConcurrent, Positive)
	v.Field("OCR_LANGUAGES", len(c.OCR.Languages), Positive)
	v.Field("PIPELINE_WORKERS", c.Pipeline.Workers, Positive)
	v.Field("PIPELINE_QUEUE_SIZE", c.Pipeline.QueueSize, Positive)
	v.Field("CACHE_BACKEND", c.Cache.Backend, OneOf("none", "memory", "redis"))
	v.Field("LOG_FORMAT", c.Log.Format, OneOf("text", "json"))
	if c.Cache.Backend == "memory" {
		v.Field("CACHE_CAPACITY", c.Cache.Capacity, Positive)
	}
	if c.Cache.Backend == "redis" {
		v.Field("REDIS_URL", c.Cache.RedisURL, Required)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
