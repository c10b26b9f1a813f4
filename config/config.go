package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	GenAI     GenAIConfig     `mapstructure:"genai"`
	Vector    VectorConfig    `mapstructure:"vector"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port" validate:"required,numeric"`
	Environment    string   `mapstructure:"environment" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DataConfig tells the loader where the product dataset may live
type DataConfig struct {
	JSONPath    string   `mapstructure:"json_path"`
	CSVPaths    []string `mapstructure:"csv_paths"`
	UseEmbedded bool     `mapstructure:"use_embedded"`
}

// RecommendConfig tunes the keyword recommender
type RecommendConfig struct {
	DefaultLimit int  `mapstructure:"default_limit" validate:"min=1"`
	Debug        bool `mapstructure:"debug"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type" validate:"oneof=memory none"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int     `mapstructure:"per_ip" validate:"min=0"` // requests per minute, 0 disables
	Vector float64 `mapstructure:"vector" validate:"gt=0"`  // vector index requests per second
}

// GenAIConfig configures the OpenAI-compatible text generation backend
type GenAIConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	Temperature    float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// VectorConfig selects the vector index used for semantic search
type VectorConfig struct {
	Provider  string        `mapstructure:"provider" validate:"oneof=none memory pinecone"`
	Host      string        `mapstructure:"host"`
	APIKey    string        `mapstructure:"api_key"`
	Namespace string        `mapstructure:"namespace"`
	Dimension int           `mapstructure:"dimension" validate:"min=1"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// Load loads configuration from .env, an optional config file and environment variables
func Load() (*Config, error) {
	return load("")
}

// LoadFile is like Load but reads the given config file, which must exist
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	return load(path)
}

func load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/furnishly/")
	}

	// Environment variable settings: FURNISHLY_SERVER_PORT -> server.port
	v.SetEnvPrefix("FURNISHLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Existing environment variables win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key gets a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*", "http://localhost:3000", "http://localhost:5173"})

	// Data defaults
	v.SetDefault("data.json_path", "")
	v.SetDefault("data.csv_paths", DefaultCSVPaths())
	v.SetDefault("data.use_embedded", true)

	// Recommend defaults
	v.SetDefault("recommend.default_limit", 5)
	v.SetDefault("recommend.debug", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.vector", 5.0)

	// GenAI defaults
	v.SetDefault("genai.enabled", false)
	v.SetDefault("genai.api_key", "")
	v.SetDefault("genai.base_url", "")
	v.SetDefault("genai.model", "gpt-3.5-turbo")
	v.SetDefault("genai.embedding_model", "text-embedding-3-small")
	v.SetDefault("genai.temperature", 0.7)

	// Vector defaults
	v.SetDefault("vector.provider", "none")
	v.SetDefault("vector.host", "")
	v.SetDefault("vector.api_key", "")
	v.SetDefault("vector.namespace", "")
	v.SetDefault("vector.dimension", 384)
	v.SetDefault("vector.timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// DefaultCSVPaths lists where the dataset CSV is looked for, in order
func DefaultCSVPaths() []string {
	return []string{
		"intern_data_ikarus.csv",
		"../intern_data_ikarus.csv",
		"data/intern_data_ikarus.csv",
		"/var/task/intern_data_ikarus.csv",
		"/var/task/backend/intern_data_ikarus.csv",
	}
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// validate validates the configuration
func validate(config *Config) error {
	if err := structValidator.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s failed %q validation (value: %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	if config.GenAI.Enabled && config.GenAI.APIKey == "" {
		return fmt.Errorf("GenAI API key is required when genai is enabled (set FURNISHLY_GENAI_API_KEY)")
	}

	if config.Vector.Provider == "pinecone" {
		if config.Vector.Host == "" {
			return fmt.Errorf("vector host is required for pinecone (set FURNISHLY_VECTOR_HOST)")
		}
		if config.Vector.APIKey == "" {
			return fmt.Errorf("vector API key is required for pinecone (set FURNISHLY_VECTOR_API_KEY)")
		}
	}

	if config.Vector.Provider != "none" && !config.GenAI.Enabled {
		return fmt.Errorf("vector provider %q needs genai enabled for embeddings", config.Vector.Provider)
	}

	return nil
}
