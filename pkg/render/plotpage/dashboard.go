package plotpage

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
)

const (
	statColumns   = 4
	maxTableRepos = 30
)

// NewDashboardPage lays out profile stats, repositories, languages, the featured
// repository's recent commits and the contribution calendar.
func NewDashboardPage(dash *dashboard.Dashboard, theme Theme) *Page {
	co := NewChartOpts(theme)
	p := dash.Profile

	description := p.Bio
	if description == "" {
		description = "Public GitHub activity of " + p.Login
	}

	page := NewPage(p.DisplayName(), description).WithTheme(theme)

	page.Add(Section{
		Title:    "Profile",
		Subtitle: profileSubtitle(dash),
		Chart: NewGrid(statColumns,
			NewStat("Public repositories", humanize.Comma(int64(p.PublicRepos))),
			NewStat("Followers", humanize.Comma(int64(p.Followers))),
			NewStat("Following", humanize.Comma(int64(p.Following))),
			NewStat("Stars received", humanize.Comma(int64(totalStars(dash)))),
		),
	})

	page.Add(Section{
		Title:    "Repositories",
		Subtitle: fmt.Sprintf("%d public repositories, most recently updated first", len(dash.Repositories)),
		Chart:    repositoryTable(dash),
	})

	if len(dash.Languages) > 0 {
		page.Add(Section{
			Title:    "Languages",
			Subtitle: "Repositories per primary language",
			Chart:    BuildLanguageBar(co, dash.Languages),
		})
	}

	if f := dash.Featured; f != nil {
		page.Add(Section{
			Title: "Recent commits: " + f.Repository.Name,
			Subtitle: fmt.Sprintf("Last %d days: %s commits, at most %s in a day, %.1f per day on average",
				len(f.Recent), humanize.Comma(int64(f.Summary.Total)), humanize.Comma(int64(f.Summary.Max)), f.Summary.Average),
			Chart: BuildRecentLine(co, f.Repository.Name, f.Recent),
		})
	}

	page.Add(contributionSection(co, dash.Contributions))

	return page
}

// NewContributionsPage shows only the contribution calendar of login.
func NewContributionsPage(login string, report contrib.Report, theme Theme) *Page {
	page := NewPage(login, "Contribution activity").WithTheme(theme)
	page.Add(contributionSection(NewChartOpts(theme), report))

	return page
}

// RenderDashboard writes the dashboard page as HTML.
func RenderDashboard(w io.Writer, dash *dashboard.Dashboard, theme Theme) error {
	return NewDashboardPage(dash, theme).Render(w)
}

// RenderContributions writes the contribution page of login as HTML.
func RenderContributions(w io.Writer, login string, report contrib.Report, theme Theme) error {
	return NewContributionsPage(login, report, theme).Render(w)
}

func contributionSection(co *ChartOpts, report contrib.Report) Section {
	content := Stack{}

	if report.Synthetic {
		content = append(content, NewAlert("No public activity found.", "The calendar shows placeholder activity."))
	}

	content = append(content,
		NewGrid(statColumns,
			NewStat("Active days", humanize.Comma(int64(report.ActiveDays))),
			NewStat("Active weeks", humanize.Comma(int64(report.ActiveWeeks))),
			NewStat("Max in a day", humanize.Comma(int64(report.MaxDaily))),
			NewStat("Longest streak", humanize.Comma(int64(report.LongestStreak))).WithNote("days"),
		),
		BuildContributionHeatmap(co, report),
	)

	return Section{
		Title: "Contribution activity",
		Subtitle: fmt.Sprintf("%s contributions from %s to %s",
			humanize.Comma(int64(report.TotalContributions)), report.Start, report.End),
		Chart: content,
	}
}

func repositoryTable(dash *dashboard.Dashboard) Renderable {
	if len(dash.Repositories) == 0 {
		return NewStat("Repositories", "0").WithNote("No public repositories")
	}

	tbl := NewTable("Repository", "Language", "Stars", "Forks", "Updated", "Description")

	for _, r := range dash.Repositories[:min(len(dash.Repositories), maxTableRepos)] {
		name := r.Name
		if r.Fork {
			name += " (fork)"
		}

		updated := "-"
		if !r.UpdatedAt.IsZero() {
			updated = humanize.RelTime(r.UpdatedAt, dash.GeneratedAt, "ago", "from now")
		}

		tbl.AddRow(
			Cell{Text: name, Href: r.HTMLURL},
			Cell{Text: orDash(r.Language)},
			Cell{Text: humanize.Comma(int64(r.Stars))},
			Cell{Text: humanize.Comma(int64(r.Forks))},
			Cell{Text: updated},
			Cell{Text: r.Description},
		)
	}

	return tbl
}

func profileSubtitle(dash *dashboard.Dashboard) string {
	p := dash.Profile

	subtitle := "@" + p.Login
	if p.Location != "" {
		subtitle += " · " + p.Location
	}

	if !p.CreatedAt.IsZero() {
		subtitle += " · joined " + humanize.RelTime(p.CreatedAt, dash.GeneratedAt, "ago", "from now")
	}

	return subtitle
}

func totalStars(dash *dashboard.Dashboard) int {
	total := 0
	for _, r := range dash.Repositories {
		total += r.Stars
	}

	return total
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
