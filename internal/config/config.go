package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Extractor modes selectable through EXTRACTOR_MODE.
const (
	ExtractorRule   = "rule"
	ExtractorArk    = "ark"
	ExtractorGemini = "gemini"
)

// Config aggregates every service setting, loaded from the environment.
type Config struct {
	Server    ServerConfig
	Extractor ExtractorConfig
	Ark       ArkConfig
	Gemini    GeminiConfig
	Sketch    SketchConfig
	Whisper   WhisperConfig
}

// Load parses the environment once at startup.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.Extractor.Mode {
	case ExtractorRule, ExtractorArk, ExtractorGemini:
	default:
		return nil, fmt.Errorf("invalid EXTRACTOR_MODE %q: want rule, ark or gemini", cfg.Extractor.Mode)
	}

	if strings.Contains(cfg.Server.Port, " ") {
		return nil, fmt.Errorf("invalid PORT value: %q", cfg.Server.Port)
	}

	return cfg, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
}

// Addr accepts a bare port, ":8080" or "127.0.0.1:8080".
func (c ServerConfig) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// ExtractorConfig selects the attribute extractor implementation.
type ExtractorConfig struct {
	Mode string `env:"EXTRACTOR_MODE" envDefault:"rule"`
}

// ArkConfig describes the Ark chat model used by the ark extractor.
type ArkConfig struct {
	APIKey      string   `env:"ARK_API_KEY"`
	AccessKey   string   `env:"ARK_ACCESS_KEY"`
	SecretKey   string   `env:"ARK_SECRET_KEY"`
	Model       string   `env:"ARK_MODEL"`
	BaseURL     string   `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string   `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature *float64 `env:"ARK_TEMPERATURE"`
	TopP        *float64 `env:"ARK_TOP_P"`
	MaxTokens   *int     `env:"ARK_MAX_TOKENS"`
}

// Enabled reports whether the required credentials are present.
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel instantiates the Ark model from this configuration.
func (c ArkConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY + ARK_MODEL or AK/SK")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// GeminiConfig describes the Gemini model used by the gemini extractor.
type GeminiConfig struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// Enabled reports whether the required credentials are present.
func (c GeminiConfig) Enabled() bool {
	return c.APIKey != ""
}

// SketchConfig describes the image backend for sketch generation.
type SketchConfig struct {
	APIKey  string `env:"SKETCH_API_KEY"`
	BaseURL string `env:"SKETCH_BASE_URL"`
	Model   string `env:"SKETCH_MODEL" envDefault:"dall-e-3"`
}

// Enabled reports whether sketch generation is configured.
func (c SketchConfig) Enabled() bool {
	return c.APIKey != ""
}

// WhisperConfig points at the transcription sidecar.
type WhisperConfig struct {
	URL            string `env:"WHISPER_URL"`
	TimeoutSeconds int    `env:"WHISPER_TIMEOUT" envDefault:"30"`
}

// Enabled reports whether transcription is configured.
func (c WhisperConfig) Enabled() bool {
	return c.URL != ""
}

// Timeout returns the request timeout for the sidecar.
func (c WhisperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
