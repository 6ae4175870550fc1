package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Data sources the explorer can read relationships from.
const (
	SourceAPI   = "api"
	SourceGraph = "graph"
)

// ErrInvalidConfig is returned when the merged configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config aggregates application configuration values.
type Config struct {
	Source   string         `koanf:"source" validate:"oneof=api graph"`
	HTTP     HTTPConfig     `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Graph    GraphConfig    `koanf:"graph"`
	Logging  LoggingConfig  `koanf:"log"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout       time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MetricsEnabled    bool          `koanf:"metrics_enabled"`
	AllowedOriginsCSV string        `koanf:"allowed_origins"`
}

// UpstreamConfig describes the relationship query API.
type UpstreamConfig struct {
	BaseURL        string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
	RateLimit      float64       `koanf:"rate_limit" validate:"gte=0"`
	Burst          int           `koanf:"burst" validate:"gte=1"`
	MaxConcurrency int           `koanf:"max_concurrency" validate:"gte=1"`
}

// GraphConfig describes connectivity to the graph database (Neptune/Neo4j).
type GraphConfig struct {
	URI            string `koanf:"uri"`
	Database       string `koanf:"database"`
	Username       string `koanf:"username"`
	Password       string `koanf:"password"`
	MaxConnections int    `koanf:"max_connections" validate:"gte=1"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `koanf:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format        string `koanf:"format" validate:"omitempty,oneof=text json"`
	Colored       bool   `koanf:"color"`
	IncludeCaller bool   `koanf:"include_caller"`
}

// DefaultFile is read when neither RELGRAPH_CONFIG nor --config names a file.
const DefaultFile = "relgraph.toml"

func defaults() map[string]any {
	return map[string]any{
		"source": SourceAPI,
		"server": map[string]any{
			"host":             "0.0.0.0",
			"port":             8080,
			"read_timeout":     10 * time.Second,
			"write_timeout":    15 * time.Second,
			"idle_timeout":     60 * time.Second,
			"shutdown_timeout": 10 * time.Second,
			"metrics_enabled":  false,
			"allowed_origins":  "",
		},
		"upstream": map[string]any{
			"base_url":        "http://localhost:5000/api",
			"timeout":         10 * time.Second,
			"rate_limit":      20.0,
			"burst":           5,
			"max_concurrency": 4,
		},
		"graph": map[string]any{
			"uri":             "",
			"database":        "",
			"username":        "",
			"password":        "",
			"max_connections": 10,
		},
		"log": map[string]any{
			"level":          "info",
			"format":         "text",
			"color":          false,
			"include_caller": false,
		},
	}
}

// envKeys maps environment variables to configuration keys.
var envKeys = map[string]string{
	"RELGRAPH_SOURCE":          "source",
	"SERVER_HOST":              "server.host",
	"SERVER_PORT":              "server.port",
	"SERVER_READ_TIMEOUT":      "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":     "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":      "server.idle_timeout",
	"SERVER_SHUTDOWN_TIMEOUT":  "server.shutdown_timeout",
	"SERVER_METRICS_ENABLED":   "server.metrics_enabled",
	"SERVER_ALLOWED_ORIGINS":   "server.allowed_origins",
	"UPSTREAM_BASE_URL":        "upstream.base_url",
	"UPSTREAM_TIMEOUT":         "upstream.timeout",
	"UPSTREAM_RATE_LIMIT":      "upstream.rate_limit",
	"UPSTREAM_BURST":           "upstream.burst",
	"UPSTREAM_MAX_CONCURRENCY": "upstream.max_concurrency",
	"GRAPH_URI":                "graph.uri",
	"GRAPH_DATABASE":           "graph.database",
	"GRAPH_USERNAME":           "graph.username",
	"GRAPH_PASSWORD":           "graph.password",
	"GRAPH_MAX_CONNECTIONS":    "graph.max_connections",
	"LOG_LEVEL":                "log.level",
	"LOG_FORMAT":               "log.format",
	"LOG_COLOR":                "log.color",
	"LOG_INCLUDE_CALLER":       "log.include_caller",
}

// flagKeys maps command line flags registered by RegisterFlags to
// configuration keys.
var flagKeys = map[string]string{
	"source":       "source",
	"host":         "server.host",
	"port":         "server.port",
	"metrics":      "server.metrics_enabled",
	"upstream-url": "upstream.base_url",
	"graph-uri":    "graph.uri",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// RegisterFlags adds the configuration flags to fs. Only flags that are set
// explicitly override other layers.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a TOML configuration file")
	fs.String("source", SourceAPI, "relationship source: api or graph")
	fs.String("host", "", "HTTP listen host")
	fs.Int("port", 0, "HTTP listen port")
	fs.Bool("metrics", false, "expose Prometheus metrics on /metrics")
	fs.String("upstream-url", "", "base URL of the relationship query API")
	fs.String("graph-uri", "", "Neo4j connection URI")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: text or json")
}

// Load merges configuration from defaults, an optional TOML file, environment
// variables and flags, in increasing priority. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults()), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	path, explicit := configFile(fs)
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Source {
	case SourceGraph:
		if strings.TrimSpace(c.Graph.URI) == "" {
			return fmt.Errorf("%w: GRAPH_URI is required when source is %q", ErrInvalidConfig, SourceGraph)
		}
	case SourceAPI:
		if strings.TrimSpace(c.Upstream.BaseURL) == "" {
			return fmt.Errorf("%w: UPSTREAM_BASE_URL is required when source is %q", ErrInvalidConfig, SourceAPI)
		}
	}
	return nil
}

// AllowedOrigins splits the comma separated origin list, dropping blanks.
func (c HTTPConfig) AllowedOrigins() []string {
	if strings.TrimSpace(c.AllowedOriginsCSV) == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOriginsCSV, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Addr returns the host:port listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func configFile(fs *pflag.FlagSet) (string, bool) {
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed && f.Value.String() != "" {
			return f.Value.String(), true
		}
	}
	if v := os.Getenv("RELGRAPH_CONFIG"); v != "" {
		return v, true
	}
	return DefaultFile, false
}

type mapProvider map[string]any

func (p mapProvider) Read() (map[string]any, error) {
	return p, nil
}

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("map provider does not support ReadBytes")
}
