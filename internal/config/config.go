package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	ProductionEnvFile = ".env.production"
	DefaultEnvFile    = ".env"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIModel = "gpt-3.5-turbo"
	defaultGeminiModel = "gemini-2.0-flash"
)

// ErrMissingCredential is wrapped by every validation failure caused by an absent API key.
var ErrMissingCredential = errors.New("missing credential")

// Config holds resolved configuration values after merging env files, process env, and flags.
type Config struct {
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`

	TextProvider string `env:"STORIA_TEXT_PROVIDER" envDefault:"openai"`
	TextModel    string `env:"STORIA_TEXT_MODEL"`
	LogLevel     string `env:"STORIA_LOG_LEVEL" envDefault:"info"`

	OpenAIBaseURL     string `env:"OPENAI_BASE_URL"`
	ElevenLabsBaseURL string `env:"ELEVENLABS_BASE_URL"`
	GeminiBaseURL     string `env:"GEMINI_BASE_URL"`

	Region   string `env:"AWS_REGION"`
	S3Prefix string `env:"STORIA_S3_PREFIX"`

	// EnvFile is the key/value file that was loaded, empty when none was found.
	EnvFile string
}

// Overrides represents optional overrides from flags.
// Only non-nil pointers are applied during merge.
type Overrides struct {
	TextProvider *string
	TextModel    *string
	LogLevel     *string
}

// ResolveRoot returns the directory searched for env files.
func ResolveRoot(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v, ok := os.LookupEnv("STORIA_ROOT"); ok && v != "" {
		return v
	}
	return "."
}

// FindEnvFile returns the env file for root, preferring the production variant.
// Returns "" when neither exists.
func FindEnvFile(root string) string {
	for _, name := range []string{ProductionEnvFile, DefaultEnvFile} {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load resolves configuration from the env file under root and the given environment
// (KEY=VALUE pairs, usually os.Environ()). Environment entries win over file entries.
func Load(root string, environ []string) (Config, error) {
	vars := map[string]string{}
	envFile := FindEnvFile(root)
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil {
			return Config{}, fmt.Errorf("read env file %s: %w", envFile, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}

	var cfg Config
	if err := env.Parse(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.EnvFile = envFile
	cfg.TextProvider = strings.ToLower(strings.TrimSpace(cfg.TextProvider))
	return cfg, nil
}

// Merge applies flag overrides on top of the loaded config.
func Merge(cfg Config, flags Overrides) Config {
	if flags.TextProvider != nil {
		cfg.TextProvider = strings.ToLower(strings.TrimSpace(*flags.TextProvider))
	}
	if flags.TextModel != nil {
		cfg.TextModel = *flags.TextModel
	}
	if flags.LogLevel != nil {
		cfg.LogLevel = *flags.LogLevel
	}
	return cfg
}

// ResolvedTextModel returns the configured text model or the provider default.
func (c Config) ResolvedTextModel() string {
	if c.TextModel != "" {
		return c.TextModel
	}
	if c.TextProvider == ProviderGemini {
		return defaultGeminiModel
	}
	return defaultOpenAIModel
}

// TextCredential returns the env key and value of the credential for the text provider.
func (c Config) TextCredential() (string, string) {
	if c.TextProvider == ProviderGemini {
		return "GEMINI_API_KEY", c.GeminiAPIKey
	}
	return "OPENAI_API_KEY", c.OpenAIAPIKey
}

// ValidateForAnalysis requires a supported text provider and its key
// (OPENAI_API_KEY or GEMINI_API_KEY).
func ValidateForAnalysis(cfg Config) error {
	switch cfg.TextProvider {
	case "", ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported text provider: %s", cfg.TextProvider)
	}
	if key, value := cfg.TextCredential(); value == "" {
		return fmt.Errorf("%w: %s not found in environment variables", ErrMissingCredential, key)
	}
	return nil
}

// ValidateForSynthesis requires ELEVENLABS_API_KEY.
func ValidateForSynthesis(cfg Config) error {
	if cfg.ElevenLabsAPIKey == "" {
		return fmt.Errorf("%w: ELEVENLABS_API_KEY not found in environment variables", ErrMissingCredential)
	}
	return nil
}

// CredentialMessage strips the sentinel prefix from a missing-credential error.
func CredentialMessage(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, ErrMissingCredential.Error()+": ")
}
