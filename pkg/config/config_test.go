package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ghpulse/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".ghpulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultGitHubBaseURL, cfg.GitHub.BaseURL)
	assert.Equal(t, config.DefaultGitHubTimeout, cfg.GitHub.Timeout)
	assert.Equal(t, config.DefaultGitHubReposPerPage, cfg.GitHub.ReposPerPage)
	assert.Equal(t, config.DefaultGitHubEventsPerPage, cfg.GitHub.EventsPerPage)
	assert.Equal(t, config.DefaultActivityTopRepos, cfg.Activity.TopRepos)
	assert.True(t, cfg.Activity.Fallback)
	assert.Zero(t, cfg.Activity.Seed)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, config.DefaultServerWriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, config.DefaultLoggingLevel, cfg.Logging.Level)
	assert.Empty(t, cfg.Telemetry.Endpoint)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `github:
  base_url: "https://ghe.example.com/api/v3/"
  timeout: 5s
  repos_per_page: 30
activity:
  top_repos: 3
  fallback: false
  seed: 42
server:
  port: 9090
logging:
  level: debug
  json: true
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3/", cfg.GitHub.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 30, cfg.GitHub.ReposPerPage)
	assert.Equal(t, config.DefaultGitHubEventsPerPage, cfg.GitHub.EventsPerPage)
	assert.Equal(t, 3, cfg.Activity.TopRepos)
	assert.False(t, cfg.Activity.Fallback)
	assert.Equal(t, uint64(42), cfg.Activity.Seed)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("GHPULSE_ACTIVITY_TOP_REPOS", "7")
	t.Setenv("GHPULSE_SERVER_PORT", "7070")

	cfg, err := config.LoadConfig(writeConfig(t, "activity:\n  top_repos: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Activity.TopRepos)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"port", "server:\n  port: 70000\n", config.ErrInvalidPort},
		{"base url", "github:\n  base_url: \"ftp://example.com\"\n", config.ErrInvalidBaseURL},
		{"page size", "github:\n  events_per_page: 500\n", config.ErrInvalidPageSize},
		{"top repos", "activity:\n  top_repos: 0\n", config.ErrInvalidTopRepos},
		{"log level", "logging:\n  level: chatty\n", config.ErrInvalidLogLevel},
		{"timeout", "github:\n  timeout: 0s\n", config.ErrInvalidTimeout},
		{"ratio", "telemetry:\n  sample_ratio: 2\n", config.ErrInvalidRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}
