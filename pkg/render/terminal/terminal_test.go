package terminal_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render/terminal"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func plainConfig() terminal.Config {
	return terminal.Config{Width: terminal.DefaultWidth, NoColor: true, Now: testNow}
}

func sampleReport() contrib.Report {
	return contrib.Build(testNow, contrib.Inputs{
		Events: map[contrib.Date]int{
			"2025-06-10": 12,
			"2025-06-11": 2,
			"2025-01-03": 1234,
		},
	}, contrib.Options{})
}

func TestDrawHeader(t *testing.T) {
	t.Parallel()

	header := terminal.DrawHeader("GHPULSE", "today", 30)
	lines := strings.Split(header, "\n")

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "┏"))
	assert.Contains(t, lines[1], "GHPULSE")
	assert.True(t, strings.HasSuffix(lines[1], "today ┃"))

	for _, line := range lines {
		assert.Equal(t, 30, len([]rune(line)))
	}
}

func TestDrawBarAndTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "██░░", terminal.DrawBar(0.5, 4))
	assert.Equal(t, "░░░░░", terminal.DrawBar(-1, 5))
	assert.Equal(t, "█████", terminal.DrawBar(2, 5))

	assert.Equal(t, "short", terminal.Truncate("short", 10))
	assert.Equal(t, "a long...", terminal.Truncate("a long description", 9))
	assert.Equal(t, "..", terminal.Truncate("abcdef", 2))
}

func TestRenderContributions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, terminal.RenderContributions(&buf, sampleReport(), plainConfig()))

	out := buf.String()
	lines := strings.Split(out, "\n")

	assert.Equal(t, "Contribution activity", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "    Jun"))
	assert.Contains(t, lines[1], "Aug")

	// 2024-06-15 is a Saturday, so the first row is labelled Sat.
	assert.True(t, strings.HasPrefix(lines[2], "Sat "))

	for _, row := range lines[2:9] {
		assert.LessOrEqual(t, len([]rune(row)), 4+53)
	}

	assert.Contains(t, out, "█")
	assert.Contains(t, out, "Less · ░ ▒ ▓ █ More")
	assert.Contains(t, out, "1,248 contributions from 2024-06-15 to 2025-06-15")
	assert.Contains(t, out, "Max in a day    1,234")
	assert.Contains(t, out, "Longest streak  2 days")
	assert.NotContains(t, out, "placeholder")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderContributions_Synthetic(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Synthetic = true

	var buf bytes.Buffer

	require.NoError(t, terminal.RenderContributions(&buf, report, plainConfig()))
	assert.Contains(t, buf.String(), "placeholder activity")
}

func TestRenderDashboard(t *testing.T) {
	t.Parallel()

	dash := &dashboard.Dashboard{
		Profile: &ghapi.Profile{
			Login:       "octocat",
			Name:        "The Octocat",
			Bio:         "Mascot",
			Location:    "San Francisco",
			Followers:   12345,
			PublicRepos: 8,
			CreatedAt:   testNow.AddDate(-3, 0, 0),
		},
		Repositories: []ghapi.Repository{
			{Name: "hello-world", Language: "Go", Stars: 1500, Forks: 3, UpdatedAt: testNow.Add(-48 * time.Hour)},
			{Name: "spoon-knife", Fork: true},
		},
		Languages: []dashboard.LanguageShare{{Language: "Go", Repositories: 1, Percent: 100}},
		Featured: &dashboard.FeaturedRepository{
			Repository: ghapi.Repository{Name: "hello-world"},
			Recent: []contrib.DailyCount{
				{Date: "2025-06-13", Count: 0},
				{Date: "2025-06-14", Count: 7},
				{Date: "2025-06-15", Count: 3},
			},
			Summary: contrib.SeriesSummary{Total: 10, Max: 7, Average: 10.0 / 3},
		},
		Contributions: sampleReport(),
		GeneratedAt:   testNow,
	}

	var buf bytes.Buffer

	require.NoError(t, terminal.RenderDashboard(&buf, dash, plainConfig()))

	out := buf.String()

	assert.Contains(t, out, "GHPULSE  octocat")
	assert.Contains(t, out, "The Octocat (octocat)")
	assert.Contains(t, out, "12,345 followers")
	assert.Contains(t, out, "joined 3 years ago")
	assert.Contains(t, out, "hello-world")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "spoon-knife (fork)")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "Recent commits hello-world")
	assert.Contains(t, out, "▁█▄")
	assert.Contains(t, out, "avg 3.3/day")
	assert.Contains(t, out, "Contribution activity")
}

func TestSparkline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "▁▁", terminal.Sparkline([]contrib.DailyCount{{Count: 0}, {Count: 0}}))
	assert.Equal(t, "▁▄█", terminal.Sparkline([]contrib.DailyCount{{Count: 0}, {Count: 1}, {Count: 2}}))
}
