package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting for the server and the CLI.
type Config struct {
	Port            string
	ShutdownTimeout time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	LLMProvider    string
	OllamaURL      string
	OllamaModel    string
	AnthropicKey   string
	AnthropicModel string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	GeminiKey      string
	GeminiModel    string
	ChatTimeout    time.Duration

	SnapshotPath string
}

var providers = map[string]bool{
	"ollama":    true,
	"anthropic": true,
	"openai":    true,
	"gemini":    true,
	"mock":      true,
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: stat .env: %v", err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "studybuddy")
	v.SetDefault("DB_PASSWORD", "studybuddy")
	v.SetDefault("DB_NAME", "studybuddy")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("JWT_SECRET", "studybuddy-dev-signing-key")
	v.SetDefault("JWT_TTL", 72*time.Hour)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("LLM_PROVIDER", "ollama")
	v.SetDefault("OLLAMA_URL", "http://localhost:11434/v1")
	v.SetDefault("OLLAMA_MODEL", "deepseek-r1")
	v.SetDefault("ANTHROPIC_API_KEY", "")
	v.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("CHAT_TIMEOUT", 60*time.Second)

	v.SetDefault("SNAPSHOT_PATH", "studybuddy.db")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:            v.GetString("PORT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		LLMProvider:    strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		OllamaURL:      v.GetString("OLLAMA_URL"),
		OllamaModel:    v.GetString("OLLAMA_MODEL"),
		AnthropicKey:   v.GetString("ANTHROPIC_API_KEY"),
		AnthropicModel: v.GetString("ANTHROPIC_MODEL"),
		OpenAIKey:      v.GetString("OPENAI_API_KEY"),
		OpenAIModel:    v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL:  v.GetString("OPENAI_BASE_URL"),
		GeminiKey:      v.GetString("GEMINI_API_KEY"),
		GeminiModel:    v.GetString("GEMINI_MODEL"),
		ChatTimeout:    v.GetDuration("CHAT_TIMEOUT"),

		SnapshotPath: v.GetString("SNAPSHOT_PATH"),
	}

	if !providers[cfg.LLMProvider] {
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive")
	}
	if cfg.ChatTimeout <= 0 {
		return nil, fmt.Errorf("CHAT_TIMEOUT must be positive")
	}
	return cfg, nil
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
