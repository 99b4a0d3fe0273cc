package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Provider   ProviderConfig   `yaml:"provider"`
	Validation ValidationConfig `yaml:"validation"`
	Tools      ToolsConfig      `yaml:"tools"`
	Logger     LoggerConfig     `yaml:"logger"`
	Tracer     TracerConfig     `yaml:"tracer"`
}

// ServerConfig holds MCP transport settings.
type ServerConfig struct {
	// Transport selects how the MCP server is exposed: "stdio" or "http".
	Transport string `yaml:"transport"`
	// Addr is the listen address for the http transport (e.g. ":8080").
	Addr string `yaml:"addr"`
}

// ProviderConfig holds search provider settings.
type ProviderConfig struct {
	// APIKey authenticates against the search API.
	APIKey string `yaml:"api_key"`
	// EngineID is the custom search engine identifier (cx).
	EngineID string `yaml:"engine_id"`
	// Endpoint overrides the API base URL. Empty means the public endpoint.
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds a single provider call.
	Timeout time.Duration `yaml:"timeout"`
	// QPS limits outgoing provider calls per second. 0 disables limiting.
	QPS float64 `yaml:"qps"`
	// Breaker configures the circuit breaker around provider calls.
	Breaker BreakerConfig `yaml:"breaker"`
	// Pool configures HTTP connection pooling.
	Pool PoolConfig `yaml:"pool"`
}

// BreakerConfig configures circuit breaker behavior for provider calls.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32 `yaml:"max_failures"`
	// Timeout is how long the circuit stays open before transitioning to half-open.
	Timeout time.Duration `yaml:"timeout"`
	// Interval is the cyclic period of the closed state for clearing failure counts.
	Interval time.Duration `yaml:"interval"`
}

// PoolConfig configures HTTP connection pooling.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// ValidationConfig holds image existence checking settings.
type ValidationConfig struct {
	// HeadTimeout bounds the initial HEAD probe.
	HeadTimeout time.Duration `yaml:"head_timeout"`
	// GetTimeout bounds the full GET probe.
	GetTimeout time.Duration `yaml:"get_timeout"`
	// Backstop is the hard per-check ceiling enforced by the batch layer.
	// Must exceed HeadTimeout + GetTimeout.
	Backstop time.Duration `yaml:"backstop"`
	// MinBytes is the minimum content-length for a real image. Smaller
	// responses are treated as placeholders.
	MinBytes int64 `yaml:"min_bytes"`
	// BlockPrivateIPs enables the SSRF guard on probe targets.
	BlockPrivateIPs bool `yaml:"block_private_ips"`
}

// ToolsConfig holds tool-level settings.
type ToolsConfig struct {
	// CacheTTL is how long text search results are cached. 0 uses the default.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// TracerConfig holds OpenTelemetry settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // stdout, noop
}

// Defaults returns a Config populated with sensible defaults.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: "stdio",
			Addr:      ":8080",
		},
		Provider: ProviderConfig{
			Timeout: 10 * time.Second,
			QPS:     5,
			Breaker: BreakerConfig{
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
		},
		Validation: ValidationConfig{
			HeadTimeout:     3 * time.Second,
			GetTimeout:      5 * time.Second,
			Backstop:        7 * time.Second,
			MinBytes:        1000,
			BlockPrivateIPs: true,
		},
		Tools: ToolsConfig{
			CacheTTL: 15 * time.Minute,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file, applies defaults for unset fields, applies
// environment variable overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefaults behaves like Load but falls back to pure defaults plus env
// overrides when the config file does not exist. With credentials supplied
// via SEARCHMCP_API_KEY and SEARCHMCP_ENGINE_ID, no config file is needed.
func LoadOrDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Defaults()
		ApplyEnvOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// ApplyEnvOverrides applies SEARCHMCP_* environment variables on top of cfg.
// Env always wins over file values; secrets are expected to arrive this way.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEARCHMCP_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("SEARCHMCP_ENGINE_ID"); v != "" {
		cfg.Provider.EngineID = v
	}
	if v := os.Getenv("SEARCHMCP_ENDPOINT"); v != "" {
		cfg.Provider.Endpoint = v
	}
	if v := os.Getenv("SEARCHMCP_TRANSPORT"); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv("SEARCHMCP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SEARCHMCP_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("SEARCHMCP_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("SEARCHMCP_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("SEARCHMCP_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("SEARCHMCP_PROVIDER_QPS"); v != "" {
		if qps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Provider.QPS = qps
		}
	}
	if v := os.Getenv("SEARCHMCP_BLOCK_PRIVATE_IPS"); v == "false" {
		cfg.Validation.BlockPrivateIPs = false
	}
}
