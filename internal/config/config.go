// Package config loads service configuration.
//
// Precedence, lowest to highest: built-in defaults, an optional YAML file
// (CONFIG_PATH or ./config.yaml), then environment variables. .env and
// .env.local are read first with godotenv and never override the real environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	BackendDynamo   = "dynamodb"
	BackendPostgres = "postgres"

	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"

	AuthModeJWKS = "jwks"
	AuthModeHMAC = "hmac"
	AuthModeNone = "none"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	AWS     AWSConfig     `koanf:"aws"`
	Model   ModelConfig   `koanf:"model"`
	Auth    AuthConfig    `koanf:"auth"`
	Logging LoggingConfig `koanf:"logging"`
}

type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
}

type StoreConfig struct {
	Backend           string        `koanf:"backend"`
	DSN               string        `koanf:"dsn"`
	Timeout           time.Duration `koanf:"timeout"`
	BooksTable        string        `koanf:"books_table"`
	ReadingListsTable string        `koanf:"reading_lists_table"`
	UserIndex         string        `koanf:"user_index"`
	// Endpoint points the DynamoDB client at DynamoDB Local.
	Endpoint string `koanf:"endpoint"`
}

type AWSConfig struct {
	Region string `koanf:"region"`
}

type ModelConfig struct {
	Provider       string        `koanf:"provider"`
	BedrockModelID string        `koanf:"bedrock_model_id"`
	MaxTokens      int           `koanf:"max_tokens"`
	GeminiAPIKey   string        `koanf:"gemini_api_key"`
	GeminiModel    string        `koanf:"gemini_model"`
	Timeout        time.Duration `koanf:"timeout"`
}

type AuthConfig struct {
	Mode           string        `koanf:"mode"`
	JWKSURL        string        `koanf:"jwks_url"`
	JWKSTTL        time.Duration `koanf:"jwks_ttl"`
	Issuer         string        `koanf:"issuer"`
	ClientID       string        `koanf:"client_id"`
	Secret         string        `koanf:"secret"`
	AllowAnonymous bool          `koanf:"allow_anonymous"`
	AdminGroup     string        `koanf:"admin_group"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Store: StoreConfig{
			Backend:           BackendDynamo,
			Timeout:           5 * time.Second,
			BooksTable:        "Books",
			ReadingListsTable: "ReadingLists",
			UserIndex:         "userId-index",
		},
		AWS: AWSConfig{Region: "eu-north-1"},
		Model: ModelConfig{
			Provider:       ProviderBedrock,
			BedrockModelID: "eu.anthropic.claude-3-7-sonnet-20250219-v1:0",
			MaxTokens:      1500,
			GeminiModel:    "gemini-2.5-flash",
			Timeout:        50 * time.Second,
		},
		Auth: AuthConfig{
			Mode:           AuthModeNone,
			JWKSTTL:        15 * time.Minute,
			AllowAnonymous: true,
			AdminGroup:     "admin",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// envKeys maps flat environment variable names onto koanf paths.
var envKeys = map[string]string{
	"APP_ADDR":                 "server.addr",
	"MAX_BODY_BYTES":           "server.max_body_bytes",
	"STORE_BACKEND":            "store.backend",
	"DB_DSN":                   "store.dsn",
	"STORE_TIMEOUT":            "store.timeout",
	"BOOKS_TABLE_NAME":         "store.books_table",
	"READING_LISTS_TABLE_NAME": "store.reading_lists_table",
	"READING_LISTS_USER_INDEX": "store.user_index",
	"DYNAMODB_ENDPOINT":        "store.endpoint",
	"AWS_REGION":               "aws.region",
	"MODEL_PROVIDER":           "model.provider",
	"BEDROCK_MODEL_ID":         "model.bedrock_model_id",
	"MODEL_MAX_TOKENS":         "model.max_tokens",
	"MODEL_TIMEOUT":            "model.timeout",
	"GEMINI_API_KEY":           "model.gemini_api_key",
	"GEMINI_MODEL":             "model.gemini_model",
	"AUTH_MODE":                "auth.mode",
	"AUTH_JWKS_URL":            "auth.jwks_url",
	"AUTH_JWKS_TTL":            "auth.jwks_ttl",
	"AUTH_ISSUER":              "auth.issuer",
	"AUTH_CLIENT_ID":           "auth.client_id",
	"JWT_SECRET":               "auth.secret",
	"AUTH_ALLOW_ANONYMOUS":     "auth.allow_anonymous",
	"AUTH_ADMIN_GROUP":         "auth.admin_group",
	"LOG_LEVEL":                "logging.level",
	"LOG_FORMAT":               "logging.format",
}

func envTransform(key string) string {
	if path, ok := envKeys[key]; ok {
		return path
	}
	// Unknown variables are dropped so the process environment cannot pollute the tree.
	return ""
}

// LoadEnvFiles reads .env and .env.local without overriding the process environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration from defaults, the optional YAML file and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) normalize() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Model.Provider = strings.ToLower(strings.TrimSpace(c.Model.Provider))
	c.Auth.Mode = strings.ToLower(strings.TrimSpace(c.Auth.Mode))
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendDynamo:
		if c.Store.BooksTable == "" || c.Store.ReadingListsTable == "" {
			errs = append(errs, errors.New("store: table names are required for dynamodb"))
		}
	case BackendPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store: DB_DSN is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("store: unknown backend %q", c.Store.Backend))
	}

	switch c.Model.Provider {
	case ProviderBedrock:
		if c.Model.BedrockModelID == "" {
			errs = append(errs, errors.New("model: BEDROCK_MODEL_ID is required"))
		}
	case ProviderGemini:
		if c.Model.GeminiAPIKey == "" {
			errs = append(errs, errors.New("model: GEMINI_API_KEY is required for gemini"))
		}
	default:
		errs = append(errs, fmt.Errorf("model: unknown provider %q", c.Model.Provider))
	}

	switch c.Auth.Mode {
	case AuthModeJWKS:
		if c.Auth.JWKSURL == "" {
			errs = append(errs, errors.New("auth: AUTH_JWKS_URL is required for jwks mode"))
		}
	case AuthModeHMAC:
		if c.Auth.Secret == "" {
			errs = append(errs, errors.New("auth: JWT_SECRET is required for hmac mode"))
		}
	case AuthModeNone:
	default:
		errs = append(errs, fmt.Errorf("auth: unknown mode %q", c.Auth.Mode))
	}

	if c.Store.Timeout <= 0 {
		errs = append(errs, errors.New("store: timeout must be positive"))
	}
	if c.Model.MaxTokens <= 0 {
		errs = append(errs, errors.New("model: max_tokens must be positive"))
	}

	return errors.Join(errs...)
}
