package environment

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	Provider         string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiModel      string
	MaxTokens        int
	VisionTimeout    time.Duration
	StructuredOutput bool

	MaxUploadBytes  int64
	AllowOrigins    []string
	ShutdownTimeout time.Duration
}

func GetOpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY") // Simpan API Key di environment variable
}

func GetGeminiKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getOrDefault("PORT", "8080"),
		AppEnv:        getOrDefault("APP_ENV", "development"),
		LogLevel:      getOrDefault("LOG_LEVEL", "info"),
		Provider:      strings.ToLower(getOrDefault("VISION_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:  GetOpenAIKey(),
		OpenAIBaseURL: getOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getOrDefault("OPENAI_MODEL", "gpt-4o"),
		GeminiAPIKey:  GetGeminiKey(),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		GeminiModel:   getOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		AllowOrigins:  splitList(getOrDefault("CORS_ALLOW_ORIGINS", "*")),
	}

	var err error
	if cfg.MaxTokens, err = intFromEnv("VISION_MAX_TOKENS", 300); err != nil {
		return nil, err
	}
	if cfg.VisionTimeout, err = durationFromEnv("VISION_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.StructuredOutput, err = boolFromEnv("VISION_STRUCTURED_OUTPUT", false); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = durationFromEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	maxUpload, err := intFromEnv("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected provider is usable.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("missing env var: OPENAI_API_KEY")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("missing env var: GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown VISION_PROVIDER %q", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("VISION_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.VisionTimeout <= 0 {
		return fmt.Errorf("VISION_TIMEOUT must be positive, got %s", c.VisionTimeout)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
