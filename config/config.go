package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// APIKeyEnv overrides client.api_key when set.
const APIKeyEnv = "BOXSCORE_API_KEY"

// Endpoint names accepted by client.endpoint.
const (
	EndpointGames = "games"
	EndpointNBA   = "nba"
)

// Failure policies accepted by fetcher.on_failure.
const (
	OnFailureHalt = "halt"
	OnFailureSkip = "skip"
)

// Output formats accepted by fetcher.output_format.
const (
	FormatJSON = "json"
	FormatRaw  = "raw"
)

var endpointPaths = map[string]string{
	EndpointGames: "/games/fetch-box-score",
	EndpointNBA:   "/nba/fetch-box-score",
}

// Config represents the overall application configuration.
type Config struct {
	Client   ClientConfig   `yaml:"client"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Files    FilesConfig    `yaml:"files"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ClientConfig holds the box-score endpoint settings.
type ClientConfig struct {
	BaseURL          string            `yaml:"base_url"`
	Endpoint         string            `yaml:"endpoint"`
	APIKey           string            `yaml:"api_key"`
	Headers          map[string]string `yaml:"headers"`
	HTTPProxy        string            `yaml:"http_proxy"`
	TimeoutSeconds   int               `yaml:"timeout_seconds"`
	Timeout          time.Duration     `yaml:"-"`
	DedupeTTLSeconds int               `yaml:"dedupe_ttl_seconds"`
	DedupeTTL        time.Duration     `yaml:"-"`
}

// URL returns the full endpoint URL for the configured endpoint name.
func (c ClientConfig) URL() string {
	return strings.TrimRight(c.BaseURL, "/") + endpointPaths[c.Endpoint]
}

// FetcherConfig controls the fetch loop.
type FetcherConfig struct {
	DelayMillis       int           `yaml:"delay_ms"`
	Delay             time.Duration `yaml:"-"`
	OnFailure         string        `yaml:"on_failure"`
	DisableCheckpoint bool          `yaml:"disable_checkpoint"`
	OutputFormat      string        `yaml:"output_format"`
	AppendOutput      bool          `yaml:"append_output"`
}

// FilesConfig names the identifier list and the response output file.
type FilesConfig struct {
	IDs    string `yaml:"ids"`
	Output string `yaml:"output"`
}

// DatabaseConfig holds the archive database connection configuration.
type DatabaseConfig struct {
	Enabled                bool   `yaml:"enabled"`
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	// An empty or comment-only file decodes to io.EOF and means "all defaults".
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.Client.APIKey = key
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied. It matches
// what Load produces for an empty file.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills unset fields and recomputes the derived durations.
// It is safe to call again after overriding fields.
func (c *Config) ApplyDefaults() {
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = "http://localhost:8080"
	}
	if c.Client.Endpoint == "" {
		c.Client.Endpoint = EndpointGames
	}
	if c.Client.TimeoutSeconds <= 0 {
		c.Client.TimeoutSeconds = 30
	}
	c.Client.Timeout = time.Duration(c.Client.TimeoutSeconds) * time.Second

	if c.Client.DedupeTTLSeconds < 0 {
		log.Warn().Int("dedupe_ttl_seconds", c.Client.DedupeTTLSeconds).Msg("negative client.dedupe_ttl_seconds; dedupe disabled")
		c.Client.DedupeTTLSeconds = 0
	}
	c.Client.DedupeTTL = time.Duration(c.Client.DedupeTTLSeconds) * time.Second

	if c.Fetcher.DelayMillis <= 0 {
		c.Fetcher.DelayMillis = 3000
	}
	c.Fetcher.Delay = time.Duration(c.Fetcher.DelayMillis) * time.Millisecond

	if c.Fetcher.OnFailure == "" {
		c.Fetcher.OnFailure = OnFailureHalt
	}
	if c.Fetcher.OutputFormat == "" {
		c.Fetcher.OutputFormat = FormatJSON
	}

	if c.Files.IDs == "" {
		c.Files.IDs = "gameIds.txt"
	}
	if c.Files.Output == "" {
		c.Files.Output = "responses.txt"
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, ok := endpointPaths[c.Client.Endpoint]; !ok {
		return fmt.Errorf("%w: client.endpoint %q (want %q or %q)", ErrInvalidConfig, c.Client.Endpoint, EndpointGames, EndpointNBA)
	}
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: client.base_url %q", ErrInvalidConfig, c.Client.BaseURL)
	}
	switch c.Fetcher.OnFailure {
	case OnFailureHalt, OnFailureSkip:
	default:
		return fmt.Errorf("%w: fetcher.on_failure %q (want %q or %q)", ErrInvalidConfig, c.Fetcher.OnFailure, OnFailureHalt, OnFailureSkip)
	}
	switch c.Fetcher.OutputFormat {
	case FormatJSON, FormatRaw:
	default:
		return fmt.Errorf("%w: fetcher.output_format %q (want %q or %q)", ErrInvalidConfig, c.Fetcher.OutputFormat, FormatJSON, FormatRaw)
	}
	if c.Database.Enabled {
		switch c.Database.Driver {
		case "postgres", "sqlite":
		default:
			return fmt.Errorf("%w: database.driver %q", ErrInvalidConfig, c.Database.Driver)
		}
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required when the archive is enabled", ErrInvalidConfig)
		}
	}
	return nil
}
