package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ghpulse/pkg/config"
	"github.com/Sumatoshi-tech/ghpulse/pkg/observability"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/ghpulse/pkg/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(g *Globals) *cobra.Command {
	var (
		host  string
		port  int
		theme string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboards and the JSON API over HTTP",
		Long: `Start an HTTP server exposing:
  GET /users/{handle}                     HTML dashboard (?repo=, ?theme=dark)
  GET /api/users/{handle}                 profile
  GET /api/users/{handle}/repos           repositories, most recently updated first
  GET /api/users/{handle}/contributions   contribution calendar
  GET /healthz, /readyz, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := g.setup(setupOptions{mode: observability.ModeServe, prometheus: true})
			if err != nil {
				return err
			}
			defer env.close()

			srvCfg := env.cfg.Server
			if cmd.Flags().Changed("host") {
				srvCfg.Host = host
			}

			if cmd.Flags().Changed("port") {
				srvCfg.Port = port
			}

			return runServe(cmd.Context(), env, srvCfg, plotpage.ParseTheme(theme))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().StringVar(&theme, "theme", string(plotpage.ThemeLight), "default html theme: light or dark")

	return cmd
}

func runServe(ctx context.Context, env *runtimeEnv, srvCfg config.ServerConfig, theme plotpage.Theme) error {
	red, err := observability.NewREDMetrics(env.providers.Meter)
	if err != nil {
		return fmt.Errorf("create request metrics: %w", err)
	}

	svc, err := env.service(env.cfg.Activity, nil)
	if err != nil {
		return err
	}

	srv := server.New(env.client, svc, server.Options{
		Addr:           srvCfg.Addr(),
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		Theme:          theme,
		Logger:         env.logger,
		Tracer:         env.providers.Tracer,
		Metrics:        red,
		MetricsHandler: env.providers.MetricsHandler,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
