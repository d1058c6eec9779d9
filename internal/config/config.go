package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	ClientAuto   = "auto"
	ClientSDK    = "sdk"
	ClientLegacy = "legacy"
)

// RequestTimeout bounds one HTTP request. OPENAI_TIMEOUT must stay below it so
// a slow completion ends as a fallback reply, not a 504.
const RequestTimeout = 60 * time.Second

// lambdaLogPath replaces the default log path inside Lambda, where only /tmp
// is writable.
const lambdaLogPath = "/tmp/interaction_log.txt"

// Config is the process configuration, read once in cmd and passed down.
type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`
	Port  int  `env:"PORT" envDefault:"5000"`

	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-4"`
	OpenAITemperature float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.4"`
	OpenAIMaxTokens   int           `env:"OPENAI_MAX_TOKENS" envDefault:"1000"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	OpenAIClient      string        `env:"OPENAI_CLIENT" envDefault:"auto"` // auto|sdk|legacy
	OpenAITimeout     time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`

	// How many exchanges the process keeps in memory.
	ChatHistoryKeep int `env:"CHAT_HISTORY_KEEP" envDefault:"100"`

	KnowledgeBasePath  string `env:"KNOWLEDGE_BASE_PATH" envDefault:"knowledge_base.md"`
	InteractionLogPath string `env:"INTERACTION_LOG_PATH" envDefault:"interaction_log.txt"`

	// Optional AWS integrations. Empty disables them.
	ParamPrefix string `env:"PARAM_PREFIX"`
	AuditTable  string `env:"AUDIT_TABLE"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	cfg.OpenAIClient = strings.ToLower(strings.TrimSpace(cfg.OpenAIClient))
	if _, set := os.LookupEnv("INTERACTION_LOG_PATH"); !set && InLambda() {
		cfg.InteractionLogPath = lambdaLogPath
	}
	cfg.ParamPrefix = strings.TrimRight(strings.TrimSpace(cfg.ParamPrefix), "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that env parsing cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIModel) == "" {
		return errors.New("config: OPENAI_MODEL must not be empty")
	}
	if c.OpenAITemperature < 0 || c.OpenAITemperature > 2 {
		return fmt.Errorf("config: OPENAI_TEMPERATURE %v out of range [0,2]", c.OpenAITemperature)
	}
	if c.OpenAIMaxTokens <= 0 {
		return fmt.Errorf("config: OPENAI_MAX_TOKENS must be positive, got %d", c.OpenAIMaxTokens)
	}
	if c.OpenAITimeout <= 0 || c.OpenAITimeout >= RequestTimeout {
		return fmt.Errorf("config: OPENAI_TIMEOUT %s must be positive and below %s", c.OpenAITimeout, RequestTimeout)
	}
	if c.ChatHistoryKeep < 0 {
		return fmt.Errorf("config: CHAT_HISTORY_KEEP must be non-negative, got %d", c.ChatHistoryKeep)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d is not a valid port", c.Port)
	}
	switch c.OpenAIClient {
	case ClientAuto, ClientSDK, ClientLegacy:
	default:
		return fmt.Errorf("config: OPENAI_CLIENT %q must be one of auto, sdk, legacy", c.OpenAIClient)
	}
	return nil
}

// InLambda reports whether the process runs inside the AWS Lambda runtime.
func InLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// AWSEnabled reports whether any AWS-backed integration is configured.
func (c *Config) AWSEnabled() bool {
	return c.ParamPrefix != "" || strings.TrimSpace(c.AuditTable) != ""
}
