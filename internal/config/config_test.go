package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper(env map[string]string) *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	for k, val := range env {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LLMProvider != "ollama" {
		t.Errorf("LLMProvider = %q, want ollama", cfg.LLMProvider)
	}
	if cfg.OllamaModel != "deepseek-r1" {
		t.Errorf("OllamaModel = %q, want deepseek-r1", cfg.OllamaModel)
	}
	if cfg.JWTTTL != 72*time.Hour {
		t.Errorf("JWTTTL = %v, want 72h", cfg.JWTTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]string{
		"LLM_PROVIDER":         " Gemini ",
		"CHAT_TIMEOUT":         "5s",
		"CORS_ALLOWED_ORIGINS": "http://localhost:5173, https://app.example.com,",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLMProvider != "gemini" {
		t.Errorf("LLMProvider = %q, want gemini", cfg.LLMProvider)
	}
	if cfg.ChatTimeout != 5*time.Second {
		t.Errorf("ChatTimeout = %v, want 5s", cfg.ChatTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("CORSAllowedOrigins = %v, want 2 entries", cfg.CORSAllowedOrigins)
	}
}

func TestFromViperRejectsUnknownProvider(t *testing.T) {
	if _, err := fromViper(newTestViper(map[string]string{"LLM_PROVIDER": "cohere"})); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5433", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"}
	want := "host=db port=5433 user=u password=p dbname=n sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
