package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	envVars := []string{
		"FURNISHLY_SERVER_PORT",
		"FURNISHLY_SERVER_ENVIRONMENT",
		"FURNISHLY_SERVER_ALLOWED_ORIGINS",
		"FURNISHLY_DATA_JSON_PATH",
		"FURNISHLY_DATA_CSV_PATHS",
		"FURNISHLY_RECOMMEND_DEFAULT_LIMIT",
		"FURNISHLY_CACHE_TYPE",
		"FURNISHLY_CACHE_TTL",
		"FURNISHLY_RATELIMIT_PER_IP",
		"FURNISHLY_GENAI_ENABLED",
		"FURNISHLY_GENAI_API_KEY",
		"FURNISHLY_VECTOR_PROVIDER",
		"FURNISHLY_VECTOR_HOST",
		"FURNISHLY_VECTOR_API_KEY",
		"FURNISHLY_LOGGING_FORMAT",
	}
	cleanupEnv := func() {
		for _, name := range envVars {
			os.Unsetenv(name)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8000" {
			t.Errorf("Server.Port = %s, want 8000", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Data.CSVPaths) != len(DefaultCSVPaths()) {
			t.Errorf("Data.CSVPaths = %v, want %v", cfg.Data.CSVPaths, DefaultCSVPaths())
		}
		if !cfg.Data.UseEmbedded {
			t.Error("Data.UseEmbedded = false, want true")
		}
		if cfg.Recommend.DefaultLimit != 5 {
			t.Errorf("Recommend.DefaultLimit = %d, want 5", cfg.Recommend.DefaultLimit)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.GenAI.Enabled {
			t.Error("GenAI.Enabled = true, want false")
		}
		if cfg.GenAI.Model != "gpt-3.5-turbo" {
			t.Errorf("GenAI.Model = %s, want gpt-3.5-turbo", cfg.GenAI.Model)
		}
		if cfg.Vector.Provider != "none" {
			t.Errorf("Vector.Provider = %s, want none", cfg.Vector.Provider)
		}
		if cfg.Vector.Timeout != 30*time.Second {
			t.Errorf("Vector.Timeout = %v, want 30s", cfg.Vector.Timeout)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FURNISHLY_SERVER_PORT", "9090")
		os.Setenv("FURNISHLY_SERVER_ENVIRONMENT", "production")
		os.Setenv("FURNISHLY_DATA_JSON_PATH", "/srv/products.json")
		os.Setenv("FURNISHLY_RECOMMEND_DEFAULT_LIMIT", "10")
		os.Setenv("FURNISHLY_CACHE_TTL", "1h")
		os.Setenv("FURNISHLY_RATELIMIT_PER_IP", "30")
		os.Setenv("FURNISHLY_GENAI_ENABLED", "true")
		os.Setenv("FURNISHLY_GENAI_API_KEY", "sk-test")
		os.Setenv("FURNISHLY_VECTOR_PROVIDER", "memory")
		os.Setenv("FURNISHLY_LOGGING_FORMAT", "console")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Data.JSONPath != "/srv/products.json" {
			t.Errorf("Data.JSONPath = %s, want /srv/products.json", cfg.Data.JSONPath)
		}
		if cfg.Recommend.DefaultLimit != 10 {
			t.Errorf("Recommend.DefaultLimit = %d, want 10", cfg.Recommend.DefaultLimit)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 30 {
			t.Errorf("RateLimit.PerIP = %d, want 30", cfg.RateLimit.PerIP)
		}
		if !cfg.GenAI.Enabled || cfg.GenAI.APIKey != "sk-test" {
			t.Errorf("GenAI = %+v, want enabled with key sk-test", cfg.GenAI)
		}
		if cfg.Vector.Provider != "memory" {
			t.Errorf("Vector.Provider = %s, want memory", cfg.Vector.Provider)
		}
		if cfg.Logging.Format != "console" {
			t.Errorf("Logging.Format = %s, want console", cfg.Logging.Format)
		}
	})

	t.Run("fails validation when genai enabled without API key", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FURNISHLY_GENAI_ENABLED", "true")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing GenAI API key")
		}
		if !strings.Contains(err.Error(), "GenAI API key is required") {
			t.Errorf("Load() error = %v, want 'GenAI API key is required'", err)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FURNISHLY_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		defer os.Unsetenv("TEST_VAR_1")
		defer os.Unsetenv("TEST_VAR_2")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8000", Environment: "test"},
		Recommend: RecommendConfig{DefaultLimit: 5},
		Cache:     CacheConfig{Type: "memory", TTL: time.Hour},
		RateLimit: RateLimitConfig{PerIP: 60, Vector: 5},
		GenAI:     GenAIConfig{Temperature: 0.7},
		Vector:    VectorConfig{Provider: "none", Dimension: 384},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully with defaults", func(t *testing.T) {
		if err := validate(validConfig()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for non-numeric port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = "http"

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for non-numeric port")
		}
	})

	t.Run("fails for unknown vector provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vector.Provider = "milvus"

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for unknown vector provider")
		}
	})

	t.Run("fails for pinecone without host", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenAI = GenAIConfig{Enabled: true, APIKey: "sk", Temperature: 0.7}
		cfg.Vector.Provider = "pinecone"
		cfg.Vector.APIKey = "pc-key"

		err := validate(cfg)
		if err == nil || !strings.Contains(err.Error(), "vector host is required") {
			t.Errorf("validate() error = %v, want vector host error", err)
		}
	})

	t.Run("fails for vector search without genai embeddings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vector.Provider = "memory"

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error when genai is disabled")
		}
	})

	t.Run("validates pinecone with host and key", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenAI = GenAIConfig{Enabled: true, APIKey: "sk", Temperature: 0.7}
		cfg.Vector = VectorConfig{Provider: "pinecone", Host: "https://idx.pinecone.io", APIKey: "pc-key", Dimension: 384}

		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for temperature out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenAI.Temperature = 3

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for temperature > 2")
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads values from the given yaml file", func(t *testing.T) {
		path := t.TempDir() + "/furnishly.yaml"
		content := `
server:
  port: "9191"
recommend:
  default_limit: 3
vector:
  dimension: 8
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v, want nil", err)
		}
		if cfg.Server.Port != "9191" {
			t.Errorf("Server.Port = %s, want 9191", cfg.Server.Port)
		}
		if cfg.Recommend.DefaultLimit != 3 {
			t.Errorf("Recommend.DefaultLimit = %d, want 3", cfg.Recommend.DefaultLimit)
		}
		if cfg.Vector.Dimension != 8 {
			t.Errorf("Vector.Dimension = %d, want 8", cfg.Vector.Dimension)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory default", cfg.Cache.Type)
		}
	})

	t.Run("fails when the file is missing", func(t *testing.T) {
		if _, err := LoadFile(t.TempDir() + "/missing.yaml"); err == nil {
			t.Error("LoadFile() error = nil, want error for missing file")
		}
	})
}
