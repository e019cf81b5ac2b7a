package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "config/config.toml"

type HTTPConfig struct {
	Port            int `toml:"port"`
	ReadTimeoutSec  int `toml:"read_timeout_sec"`
	WriteTimeoutSec int `toml:"write_timeout_sec"`
	ShutdownSec     int `toml:"shutdown_timeout_sec"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSec     int    `toml:"timeout_sec"`
	MaxRetries     int    `toml:"max_retries"`
	RetryInitialMs int    `toml:"retry_initial_ms"`
}

// StoreConfig selects and addresses the movie document store.
// Collection is the Mongo collection, the Elasticsearch index or the Memgraph node label.
type StoreConfig struct {
	Driver      string   `toml:"driver"`
	URI         string   `toml:"uri"`
	Addresses   []string `toml:"addresses"`
	User        string   `toml:"user"`
	Password    string   `toml:"password"`
	Database    string   `toml:"database"`
	Collection  string   `toml:"collection"`
	ResultLimit int      `toml:"result_limit"`
	TimeoutSec  int      `toml:"timeout_sec"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type Prompts struct {
	Query string `toml:"query"`
}

type Config struct {
	Env     string        `toml:"env"`
	HTTP    HTTPConfig    `toml:"http"`
	LLM     LLMConfig     `toml:"llm"`
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
	Prompts Prompts       `toml:"prompts"`
}

var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}

// Default returns a config with every default applied and no file behind it.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyEnv overrides file values with environment variables when they are set.
func (c *Config) ApplyEnv() {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set("ENV", &c.Env)
	set("LOG_LEVEL", &c.Logging.Level)
	set("LLM_PROVIDER", &c.LLM.Provider)
	set("LLM_MODEL", &c.LLM.Model)
	set("LLM_API_KEY", &c.LLM.APIKey)
	set("LLM_BASE_URL", &c.LLM.BaseURL)
	set("STORE_DRIVER", &c.Store.Driver)
	set("STORE_URI", &c.Store.URI)
	set("STORE_USER", &c.Store.User)
	set("STORE_PASSWORD", &c.Store.Password)
	set("STORE_DATABASE", &c.Store.Database)
	set("STORE_COLLECTION", &c.Store.Collection)

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.HTTP.Port = p
		}
	}
	if addrs := os.Getenv("STORE_ADDRESSES"); addrs != "" {
		c.Store.Addresses = strings.Split(addrs, ",")
	}
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Env == "" {
		c.Env = "local"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}
	if strings.ToLower(c.LLM.Provider) == "ollama" {
		if c.LLM.Model == "" {
			c.LLM.Model = "gemma:7b"
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "http://localhost:11434"
		}
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 30
	}
	if c.LLM.MaxRetries < 0 {
		c.LLM.MaxRetries = 0
	}
	if c.LLM.RetryInitialMs <= 0 {
		c.LLM.RetryInitialMs = 500
	}

	if c.Store.Driver == "" {
		c.Store.Driver = "mongo"
	}
	switch c.Store.Driver {
	case "mongo":
		if c.Store.URI == "" {
			c.Store.URI = "mongodb://localhost:27017/"
		}
		if c.Store.Database == "" {
			c.Store.Database = "Movies"
		}
		if c.Store.Collection == "" {
			c.Store.Collection = "movie_dataset"
		}
	case "elasticsearch":
		if len(c.Store.Addresses) == 0 {
			c.Store.Addresses = []string{"http://localhost:9200"}
		}
		if c.Store.Collection == "" {
			c.Store.Collection = "movie_dataset"
		}
	case "memgraph":
		if c.Store.URI == "" {
			c.Store.URI = "bolt://localhost:7687"
		}
		if c.Store.Collection == "" {
			c.Store.Collection = "Movie"
		}
	}
	if c.Store.ResultLimit == 0 {
		c.Store.ResultLimit = 20
	}
	if c.Store.TimeoutSec <= 0 {
		c.Store.TimeoutSec = 10
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "ollama", "openai", "claude", "gemini":
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}

	switch c.Store.Driver {
	case "mongo":
		if c.Store.URI == "" || c.Store.Database == "" || c.Store.Collection == "" {
			return fmt.Errorf("store.uri, store.database and store.collection are required for mongo")
		}
	case "elasticsearch":
		if len(c.Store.Addresses) == 0 || c.Store.Collection == "" {
			return fmt.Errorf("store.addresses and store.collection are required for elasticsearch")
		}
	case "memgraph":
		if c.Store.URI == "" {
			return fmt.Errorf("store.uri is required for memgraph")
		}
		if !labelPattern.MatchString(c.Store.Collection) {
			return fmt.Errorf("store.collection %q is not a valid node label", c.Store.Collection)
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}

	if c.Store.ResultLimit <= 0 {
		return fmt.Errorf("store.result_limit must be positive, got %d", c.Store.ResultLimit)
	}

	return nil
}
