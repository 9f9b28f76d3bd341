// Package commands implements the ghpulse CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ghpulse/pkg/config"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
	"github.com/Sumatoshi-tech/ghpulse/pkg/observability"
	"github.com/Sumatoshi-tech/ghpulse/pkg/reportschema"
	"github.com/Sumatoshi-tech/ghpulse/pkg/version"
)

// Exit codes.
const (
	exitFailure      = 1
	exitInvalidInput = 2
)

// Globals are the persistent flags shared by every subcommand.
type Globals struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	LogJSON    bool
}

// NewRootCommand builds the ghpulse command tree.
func NewRootCommand() *cobra.Command {
	g := &Globals{}

	rootCmd := &cobra.Command{
		Use:   "ghpulse",
		Short: "ghpulse - GitHub profile dashboards and contribution calendars",
		Long: `ghpulse reads public GitHub data and turns it into a profile dashboard
with a one-year contribution calendar.

Commands:
  report     Full profile dashboard (text, json, yaml or html)
  activity   Contribution calendar only
  serve      HTTP dashboard and JSON API
  mcp        MCP server for AI agents
  validate   Check an exported contribution report`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.ConfigPath, "config", "", "config file (default .ghpulse.yaml in . or $HOME)")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&g.Quiet, "quiet", "q", false, "suppress progress and informational output")
	flags.BoolVar(&g.LogJSON, "log-json", false, "write logs as JSON")

	rootCmd.AddCommand(
		NewReportCommand(g),
		NewActivityCommand(g),
		NewServeCommand(g),
		NewMCPCommand(g),
		NewValidateCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case errors.Is(err, ghapi.ErrInvalidHandle), errors.Is(err, reportschema.ErrInvalidJSON):
		return exitInvalidInput
	default:
		return exitFailure
	}
}

// runtimeEnv is what a command needs to talk to GitHub and report telemetry.
type runtimeEnv struct {
	cfg       *config.Config
	providers observability.Providers
	logger    *slog.Logger
	client    *ghapi.Client
}

type setupOptions struct {
	mode       observability.AppMode
	prometheus bool
	forceJSON  bool
	debug      bool
}

func (g *Globals) setup(opts setupOptions) (*runtimeEnv, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	obsCfg, err := g.observabilityConfig(cfg, opts)
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	client, err := ghapi.NewClient(ghapi.Options{
		BaseURL:       cfg.GitHub.BaseURL,
		Timeout:       cfg.GitHub.Timeout,
		UserAgent:     cfg.GitHub.UserAgent,
		ReposPerPage:  cfg.GitHub.ReposPerPage,
		EventsPerPage: cfg.GitHub.EventsPerPage,
	})
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &runtimeEnv{cfg: cfg, providers: providers, logger: providers.Logger, client: client}, nil
}

func (g *Globals) observabilityConfig(cfg *config.Config, opts setupOptions) (observability.Config, error) {
	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Config{}, err
	}

	switch {
	case g.Verbose || opts.debug:
		level = slog.LevelDebug
	case g.Quiet:
		level = slog.LevelError
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = opts.mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.Endpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.Headers)
	obsCfg.OTLPInsecure = cfg.Telemetry.Insecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.Prometheus = opts.prometheus
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON || g.LogJSON || opts.forceJSON

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
		obsCfg.OTLPInsecure = obsCfg.OTLPInsecure || os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	}

	return obsCfg, nil
}

// service builds the report service, applying command-line overrides on top of config.
func (e *runtimeEnv) service(activity config.ActivityConfig, progress dashboard.ProgressFunc) (*dashboard.Service, error) {
	metrics, err := observability.NewReportMetrics(e.providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("create report metrics: %w", err)
	}

	return dashboard.NewService(e.client, dashboard.Options{
		TopRepos: activity.TopRepos,
		Fallback: activity.Fallback,
		Seed:     activity.Seed,
		Logger:   e.logger,
		Tracer:   e.providers.Tracer,
		Metrics:  metrics,
		Progress: progress,
	}), nil
}

func (e *runtimeEnv) close() {
	err := e.providers.Shutdown(context.Background())
	if err != nil {
		e.logger.Warn("observability shutdown failed", "error", err)
	}
}
