package config

import "time"

// GitHub client defaults.
const (
	DefaultGitHubBaseURL       = "https://api.github.com/"
	DefaultGitHubTimeout       = 15 * time.Second
	DefaultGitHubUserAgent     = "ghpulse"
	DefaultGitHubReposPerPage  = 100
	DefaultGitHubEventsPerPage = 100
)

// Activity defaults.
const (
	DefaultActivityTopRepos = 10
	DefaultActivityFallback = true
	DefaultActivitySeed     = 0
)

// Server defaults.
const (
	DefaultServerHost         = "127.0.0.1"
	DefaultServerPort         = 8080
	DefaultServerReadTimeout  = 10 * time.Second
	DefaultServerWriteTimeout = 60 * time.Second
	DefaultServerIdleTimeout  = 120 * time.Second
)

// Logging defaults.
const (
	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false
)

// Telemetry defaults.
const (
	DefaultTelemetryEndpoint    = ""
	DefaultTelemetryInsecure    = false
	DefaultTelemetrySampleRatio = 1.0
)
