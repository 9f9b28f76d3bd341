// Package config loads ghpulse settings from defaults, a YAML file and GHPULSE_* env vars.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName      = ".ghpulse"
	configType      = "yaml"
	envPrefix       = "GHPULSE"
	envKeySeparator = "_"

	maxPort     = 65535
	maxPageSize = 100
)

// Sentinel validation errors.
var (
	ErrInvalidBaseURL  = errors.New("github base url must be an absolute http(s) url")
	ErrInvalidTimeout  = errors.New("timeout must be positive")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
	ErrInvalidTopRepos = errors.New("top repositories must be positive")
	ErrInvalidPort     = errors.New("invalid server port")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidRatio    = errors.New("sample ratio must be within [0, 1]")
)

// Config is the full ghpulse configuration.
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	Activity  ActivityConfig  `mapstructure:"activity"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GitHubConfig configures the REST client.
type GitHubConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ReposPerPage  int           `mapstructure:"repos_per_page"`
	EventsPerPage int           `mapstructure:"events_per_page"`
}

// ActivityConfig tunes contribution aggregation.
type ActivityConfig struct {
	// TopRepos is how many recently updated repositories contribute commit activity.
	TopRepos int `mapstructure:"top_repos"`

	// Fallback enables placeholder activity for accounts with no signal at all.
	Fallback bool `mapstructure:"fallback"`

	// Seed makes the placeholder activity reproducible. Zero draws a fresh seed per report.
	Seed uint64 `mapstructure:"seed"`
}

// ServerConfig configures the HTTP dashboard.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig configures OTLP export.
type TelemetryConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Headers     string  `mapstructure:"headers"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LoadConfig reads configuration from defaults, the config file and env vars.
// An explicit configPath must exist; otherwise .ghpulse.yaml is looked up in the
// working directory and $HOME, and a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("github.base_url", DefaultGitHubBaseURL)
	v.SetDefault("github.user_agent", DefaultGitHubUserAgent)
	v.SetDefault("github.timeout", DefaultGitHubTimeout)
	v.SetDefault("github.repos_per_page", DefaultGitHubReposPerPage)
	v.SetDefault("github.events_per_page", DefaultGitHubEventsPerPage)

	v.SetDefault("activity.top_repos", DefaultActivityTopRepos)
	v.SetDefault("activity.fallback", DefaultActivityFallback)
	v.SetDefault("activity.seed", DefaultActivitySeed)

	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.idle_timeout", DefaultServerIdleTimeout)

	v.SetDefault("logging.level", DefaultLoggingLevel)
	v.SetDefault("logging.json", DefaultLoggingJSON)

	v.SetDefault("telemetry.endpoint", DefaultTelemetryEndpoint)
	v.SetDefault("telemetry.headers", "")
	v.SetDefault("telemetry.insecure", DefaultTelemetryInsecure)
	v.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
}

// Validate checks every field for a usable value.
func (c *Config) Validate() error {
	base, parseErr := url.Parse(c.GitHub.BaseURL)
	if parseErr != nil || !base.IsAbs() || (base.Scheme != "http" && base.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.GitHub.BaseURL)
	}

	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("github.timeout %w: %s", ErrInvalidTimeout, c.GitHub.Timeout)
	}

	for key, size := range map[string]int{
		"github.repos_per_page":  c.GitHub.ReposPerPage,
		"github.events_per_page": c.GitHub.EventsPerPage,
	} {
		if size < 1 || size > maxPageSize {
			return fmt.Errorf("%s %w: %d", key, ErrInvalidPageSize, size)
		}
	}

	if c.Activity.TopRepos <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTopRepos, c.Activity.TopRepos)
	}

	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, c.Telemetry.SampleRatio)
	}

	return nil
}
