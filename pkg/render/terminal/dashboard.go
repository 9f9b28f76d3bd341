package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
)

const (
	maxTableRepos     = 15
	maxDescription    = 40
	maxLanguages      = 8
	languageBarWidth  = 24
	languageNameWidth = 14
)

// sparkGlyphs are the block heights of the recent-commits sparkline.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// RenderDashboard writes the full profile dashboard.
func RenderDashboard(w io.Writer, dash *dashboard.Dashboard, cfg Config) error {
	var b strings.Builder

	width := cfg.width()

	b.WriteString(DrawHeader("GHPULSE  "+dash.Profile.Login, dash.GeneratedAt.Format("2006-01-02 15:04 MST"), width) + "\n\n")
	b.WriteString(profileBlock(dash.Profile, cfg) + "\n")
	b.WriteString(DrawSeparator(width) + "\n")
	b.WriteString(repositoryTable(dash.Repositories, cfg) + "\n\n")

	if len(dash.Languages) > 0 {
		b.WriteString(languageBlock(dash.Languages, cfg) + "\n")
	}

	if dash.Featured != nil {
		b.WriteString(featuredBlock(dash.Featured, cfg) + "\n")
	}

	b.WriteString(DrawSeparator(width) + "\n")

	err := writeString(w, b.String())
	if err != nil {
		return err
	}

	return RenderContributions(w, dash.Contributions, cfg)
}

func profileBlock(p *ghapi.Profile, cfg Config) string {
	var b strings.Builder

	name := cfg.paint(color.Bold).Sprint(p.DisplayName())
	if p.Name != "" && p.Name != p.Login {
		name += " (" + p.Login + ")"
	}

	b.WriteString(name + "\n")

	if p.Bio != "" {
		b.WriteString(p.Bio + "\n")
	}

	var facts []string

	if p.Location != "" {
		facts = append(facts, p.Location)
	}

	if p.Company != "" {
		facts = append(facts, p.Company)
	}

	if p.Blog != "" {
		facts = append(facts, p.Blog)
	}

	if len(facts) > 0 {
		b.WriteString(cfg.paint(color.FgHiBlack).Sprint(strings.Join(facts, " · ")) + "\n")
	}

	fmt.Fprintf(&b, "%s followers · %s following · %s public repositories",
		humanize.Comma(int64(p.Followers)), humanize.Comma(int64(p.Following)), humanize.Comma(int64(p.PublicRepos)))

	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(&b, " · joined %s", humanize.RelTime(p.CreatedAt, cfg.now(), "ago", "from now"))
	}

	b.WriteString("\n")

	return b.String()
}

func repositoryTable(repos []ghapi.Repository, cfg Config) string {
	if len(repos) == 0 {
		return "No public repositories."
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.SeparateRows = false

	if !cfg.NoColor {
		tbl.Style().Color.Header = text.Colors{text.Bold}
	}

	tbl.AppendHeader(table.Row{"Repository", "Language", "Stars", "Forks", "Updated", "Description"})

	shown := repos[:min(len(repos), maxTableRepos)]

	for _, r := range shown {
		name := r.Name
		if r.Fork {
			name += " (fork)"
		}

		if r.Archived {
			name += " (archived)"
		}

		updated := "-"
		if !r.UpdatedAt.IsZero() {
			updated = humanize.RelTime(r.UpdatedAt, cfg.now(), "ago", "from now")
		}

		tbl.AppendRow(table.Row{
			name,
			orDash(r.Language),
			humanize.Comma(int64(r.Stars)),
			humanize.Comma(int64(r.Forks)),
			updated,
			Truncate(r.Description, maxDescription),
		})
	}

	if len(repos) > len(shown) {
		tbl.AppendFooter(table.Row{fmt.Sprintf("+%d more", len(repos)-len(shown))})
	}

	return tbl.Render()
}

func languageBlock(langs []dashboard.LanguageShare, cfg Config) string {
	var b strings.Builder

	b.WriteString(cfg.paint(color.Bold).Sprint("Languages") + "\n")

	for _, l := range langs[:min(len(langs), maxLanguages)] {
		fmt.Fprintf(&b, "  %-*s %s %5.1f%%  (%d)\n",
			languageNameWidth, Truncate(l.Language, languageNameWidth),
			cfg.paint(color.FgGreen).Sprint(DrawBar(l.Percent/100, languageBarWidth)),
			l.Percent, l.Repositories)
	}

	return b.String()
}

func featuredBlock(f *dashboard.FeaturedRepository, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", cfg.paint(color.Bold).Sprint("Recent commits"), f.Repository.Name)

	if len(f.Recent) == 0 {
		b.WriteString("  no commit activity available\n")

		return b.String()
	}

	fmt.Fprintf(&b, "  %s\n", cfg.paint(color.FgGreen).Sprint(Sparkline(f.Recent)))
	fmt.Fprintf(&b, "  %s to %s · total %s · max %s · avg %.1f/day\n",
		f.Recent[0].Date, f.Recent[len(f.Recent)-1].Date,
		humanize.Comma(int64(f.Summary.Total)), humanize.Comma(int64(f.Summary.Max)), f.Summary.Average)

	return b.String()
}

// Sparkline draws one block per day scaled to the series maximum.
func Sparkline(daily []contrib.DailyCount) string {
	peak := 0
	for _, d := range daily {
		peak = max(peak, d.Count)
	}

	var b strings.Builder

	for _, d := range daily {
		idx := 0
		if peak > 0 {
			idx = d.Count * (len(sparkGlyphs) - 1) / peak
		}

		b.WriteRune(sparkGlyphs[idx])
	}

	return b.String()
}

func (c Config) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}

	return c.Now
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
