// Package config loads service configuration from environment
// variables. Credentials stay in explicit structs injected into each
// collaborator's constructor so orchestrators remain testable with
// fakes.
package config

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Config aggregates every subsystem's configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Zoho     ZohoConfig
	AI       AIConfig
	Storage  StorageConfig
	Features FeatureConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	zoho, err := loadZohoConfig()
	if err != nil {
		return nil, err
	}

	features, err := loadFeatureConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Log:      loadLogConfig(),
		Zoho:     zoho,
		AI:       ai,
		Storage:  loadStorageConfig(),
		Features: features,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LogConfig selects zap level and encoder.
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "console"),
	}
}

// ZohoConfig holds the OAuth refresh credentials and CRM API location.
type ZohoConfig struct {
	RefreshToken string
	ClientID     string
	ClientSecret string
	AuthDomain   string
	APIDomain    string
	TokenTimeout time.Duration
	APITimeout   time.Duration
}

// Enabled reports whether all three refresh credentials are present.
func (c ZohoConfig) Enabled() bool {
	return c.RefreshToken != "" && c.ClientID != "" && c.ClientSecret != ""
}

func loadZohoConfig() (ZohoConfig, error) {
	tokenTimeout, err := parseDurationSecondsEnv("ZOHO_TOKEN_TIMEOUT_SECONDS", 10*time.Second)
	if err != nil {
		return ZohoConfig{}, err
	}
	apiTimeout, err := parseDurationSecondsEnv("ZOHO_API_TIMEOUT_SECONDS", 30*time.Second)
	if err != nil {
		return ZohoConfig{}, err
	}

	return ZohoConfig{
		RefreshToken: strings.TrimSpace(os.Getenv("ZOHO_REFRESH_TOKEN")),
		ClientID:     strings.TrimSpace(os.Getenv("ZOHO_CLIENT_ID")),
		ClientSecret: strings.TrimSpace(os.Getenv("ZOHO_CLIENT_SECRET")),
		AuthDomain:   getEnvOrDefault("ZOHO_AUTH_DOMAIN", "accounts.zoho.com"),
		APIDomain:    getEnvOrDefault("ZOHO_API_DOMAIN", "www.zohoapis.com"),
		TokenTimeout: tokenTimeout,
		APITimeout:   apiTimeout,
	}, nil
}

// AIConfig describes the generation backend.
type AIConfig struct {
	APIKey         string
	Model          string
	Temperature    *float64
	TopP           *float64
	MaxTokens      *int
	StreamResponse bool
	Timeout        time.Duration
}

// Enabled reports whether the generation credential is configured.
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel builds the Gemini chat model from this configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY or GEMINI_MODEL")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     c.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: c.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
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

	cfg := &gemini.Config{
		Client:      client,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return gemini.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("GEMINI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		// Matches the reference generation config.
		val := 0.2
		temperature = &val
	}

	topP, err := parseOptionalFloatEnv("GEMINI_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("GEMINI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("GEMINI_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	timeout, err := parseDurationSecondsEnv("AI_TIMEOUT_SECONDS", 30*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:         strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		Model:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		Temperature:    temperature,
		TopP:           topP,
		MaxTokens:      maxTokens,
		StreamResponse: stream,
		Timeout:        timeout,
	}, nil
}

// StorageConfig describes the upload content store.
type StorageConfig struct {
	UploadDir string
}

// Enabled reports whether uploads have a configured destination.
func (c StorageConfig) Enabled() bool {
	return c.UploadDir != ""
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		UploadDir: strings.TrimSpace(os.Getenv("UPLOAD_DIR")),
	}
}

// FeatureConfig toggles optional capabilities per deployment.
type FeatureConfig struct {
	ScanEnabled bool
	Environment string
}

// Development reports whether development-only endpoints are exposed.
func (c FeatureConfig) Development() bool {
	return c.Environment == "development"
}

func loadFeatureConfig() (FeatureConfig, error) {
	scanEnabled, err := parseBoolEnv("SCAN_ENABLED", true)
	if err != nil {
		return FeatureConfig{}, err
	}

	return FeatureConfig{
		ScanEnabled: scanEnabled,
		Environment: getEnvOrDefault("APP_ENV", "production"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseDurationSecondsEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	override, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if override == nil {
		return defaultValue, nil
	}
	if *override < 1 {
		return 0, fmt.Errorf("invalid %s value %d: must be at least 1", key, *override)
	}
	return time.Duration(*override) * time.Second, nil
}
