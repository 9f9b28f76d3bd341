package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ghpulse/pkg/mcp"
	"github.com/Sumatoshi-tech/ghpulse/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(g *Globals) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes two tools:
  - ghpulse_contributions: one-year contribution calendar of an account
  - ghpulse_profile: full profile dashboard, optionally featuring a repository

Logs go to stderr as JSON so they never mix with the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := g.setup(setupOptions{mode: observability.ModeMCP, forceJSON: true, debug: debug})
			if err != nil {
				return err
			}
			defer env.close()

			red, err := observability.NewREDMetrics(env.providers.Meter)
			if err != nil {
				return fmt.Errorf("create request metrics: %w", err)
			}

			svc, err := env.service(env.cfg.Activity, nil)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Reporter: svc,
				Logger:   env.logger,
				Metrics:  red,
				Tracer:   env.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging to stderr")

	return cmd
}
