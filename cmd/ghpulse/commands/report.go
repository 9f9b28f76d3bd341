package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ghpulse/pkg/config"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
	"github.com/Sumatoshi-tech/ghpulse/pkg/observability"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render/terminal"
)

var outputFormats = []render.Format{render.FormatText, render.FormatJSON, render.FormatYAML, render.FormatHTML}

// outputFlags are shared by report and activity.
type outputFlags struct {
	format     string
	output     string
	theme      string
	seed       uint64
	top        int
	noFallback bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.format, "format", "f", string(render.FormatText), "output format: text, json, yaml, html")
	flags.StringVarP(&o.output, "output", "o", "", "write to file instead of stdout")
	flags.StringVar(&o.theme, "theme", string(plotpage.ThemeLight), "html theme: light or dark")
	flags.Uint64Var(&o.seed, "seed", 0, "seed for placeholder activity (0 picks a random one)")
	flags.IntVar(&o.top, "top", 0, "recently updated repositories that contribute commit activity")
	flags.BoolVar(&o.noFallback, "no-fallback", false, "never synthesize placeholder activity")
}

// activity merges explicitly set flags over the configured values.
func (o *outputFlags) activity(cmd *cobra.Command, cfg config.ActivityConfig) config.ActivityConfig {
	flags := cmd.Flags()

	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}

	if flags.Changed("top") && o.top > 0 {
		cfg.TopRepos = o.top
	}

	if flags.Changed("no-fallback") && o.noFallback {
		cfg.Fallback = false
	}

	return cfg
}

// open returns the destination writer and whether it is a terminal-bound stream.
func (o *outputFlags) open(cmd *cobra.Command) (io.Writer, func() error, bool, error) {
	if o.output == "" {
		return cmd.OutOrStdout(), func() error { return nil }, true, nil
	}

	f, err := os.Create(o.output)
	if err != nil {
		return nil, nil, false, fmt.Errorf("create output file: %w", err)
	}

	return f, f.Close, false, nil
}

// NewReportCommand creates the report command.
func NewReportCommand(g *Globals) *cobra.Command {
	var (
		out  outputFlags
		repo string
	)

	cmd := &cobra.Command{
		Use:   "report <handle>",
		Short: "Build the profile dashboard of a GitHub account",
		Long: `Fetch the public profile, repositories and recent activity of a GitHub
account and render its dashboard: profile card, repository list, language
breakdown, the last 30 days of commits of a featured repository and a
one-year contribution calendar.

The featured repository is the most starred one unless --repo names another.`,
		Example: `  ghpulse report octocat
  ghpulse report octocat --repo hello-world --format html -o octocat.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, g, &out, args[0], repo)
		},
	}

	out.register(cmd)
	cmd.Flags().StringVar(&repo, "repo", "", "repository to feature instead of the most starred one")

	return cmd
}

func runReport(cmd *cobra.Command, g *Globals, out *outputFlags, rawHandle, repo string) error {
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

	dash, err := svc.Dashboard(cmd.Context(), handle, repo)

	bar.finish()

	if err != nil {
		return err
	}

	return out.write(cmd, format, func(w io.Writer, tty bool) error {
		switch format {
		case render.FormatJSON:
			return render.JSON(w, dash)
		case render.FormatYAML:
			return render.YAML(w, dash)
		case render.FormatHTML:
			return plotpage.RenderDashboard(w, dash, plotpage.ParseTheme(out.theme))
		default:
			return terminal.RenderDashboard(w, dash, terminalConfig(tty))
		}
	})
}

func prepare(rawHandle, rawFormat string) (string, render.Format, error) {
	handle, err := ghapi.NormalizeHandle(rawHandle)
	if err != nil {
		return "", "", err
	}

	format, err := render.ParseFormat(rawFormat, outputFormats...)
	if err != nil {
		return "", "", err
	}

	return handle, format, nil
}

func (o *outputFlags) write(cmd *cobra.Command, format render.Format, fn func(w io.Writer, tty bool) error) error {
	w, closeFn, tty, err := o.open(cmd)
	if err != nil {
		return err
	}

	renderErr := fn(w, tty)
	closeErr := closeFn()

	if renderErr != nil {
		return fmt.Errorf("render %s: %w", format, renderErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close output file: %w", closeErr)
	}

	return nil
}

func terminalConfig(tty bool) terminal.Config {
	cfg := terminal.NewConfig()
	if !tty {
		cfg.NoColor = true
	}

	return cfg
}

// progress draws a bar on stderr while commit activity is fetched.
type progress struct {
	disabled bool
	bar      *progressbar.ProgressBar
}

func newProgress(disabled bool) *progress {
	return &progress{disabled: disabled}
}

func (p *progress) update(done, total int) {
	if p.disabled || total <= 0 {
		return
	}

	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("commit activity"),
			progressbar.OptionClearOnFinish(),
		)
	}

	_ = p.bar.Set(done)
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
