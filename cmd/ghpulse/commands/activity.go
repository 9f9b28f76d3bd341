package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ghpulse/pkg/observability"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render/terminal"
)

// NewActivityCommand creates the activity command.
func NewActivityCommand(g *Globals) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "activity <handle>",
		Short: "Build the one-year contribution calendar of a GitHub account",
		Long: `Aggregate the public events and the commit activity of the most recently
updated repositories of a GitHub account into a calendar of weeks, one cell
per day, shaded by intensity level 0-4.`,
		Example: `  ghpulse activity octocat
  ghpulse activity octocat --format json > octocat.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivity(cmd, g, &out, args[0])
		},
	}

	out.register(cmd)

	return cmd
}

func runActivity(cmd *cobra.Command, g *Globals, out *outputFlags, rawHandle string) error {
	handle, format, err := prepare(rawHandle, out.format)
	if err != nil {
		return err
	}

	env, err := g.setup(setupOptions{mode: observability.ModeCLI})
	if err != nil {
		return err
	}
	defer env.close()

	bar := newProgress(g.Quiet)

	svc, err := env.service(out.activity(cmd, env.cfg.Activity), bar.update)
	if err != nil {
		return err
	}

	report, err := svc.ContributionReport(cmd.Context(), handle)

	bar.finish()

	if err != nil {
		return err
	}

	return out.write(cmd, format, func(w io.Writer, tty bool) error {
		switch format {
		case render.FormatJSON:
			return render.JSON(w, report)
		case render.FormatYAML:
			return render.YAML(w, report)
		case render.FormatHTML:
			return plotpage.RenderContributions(w, handle, report, plotpage.ParseTheme(out.theme))
		default:
			return terminal.RenderContributions(w, report, terminalConfig(tty))
		}
	})
}
