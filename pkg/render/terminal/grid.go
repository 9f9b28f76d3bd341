package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
)

const (
	rowLabelWidth = 4
	monthLabelLen = 3
	daysPerWeek   = 7
)

// levelGlyphs stay distinguishable without color.
var levelGlyphs = [contrib.MaxLevel + 1]string{"·", "░", "▒", "▓", "█"}

// levelRGB is the GitHub contribution palette, lightest first.
var levelRGB = [contrib.MaxLevel + 1][3]int{
	{0xeb, 0xed, 0xf0},
	{0x9b, 0xe9, 0xa8},
	{0x40, 0xc4, 0x63},
	{0x30, 0xa1, 0x4e},
	{0x21, 0x6e, 0x39},
}

func (c Config) levelCell(level int) string {
	level = min(max(level, 0), contrib.MaxLevel)

	rgb := levelRGB[level]
	col := color.RGB(rgb[0], rgb[1], rgb[2])
	c.apply(col)

	return col.Sprint(levelGlyphs[level])
}

// RenderContributions writes the contribution calendar as seven rows of day cells,
// one column per week, followed by the legend and summary statistics.
func RenderContributions(w io.Writer, report contrib.Report, cfg Config) error {
	var b strings.Builder

	b.WriteString(cfg.paint(color.Bold).Sprint("Contribution activity") + "\n")

	if len(report.Weeks) == 0 {
		b.WriteString("  no activity data\n")

		return writeString(w, b.String())
	}

	b.WriteString(strings.Repeat(" ", rowLabelWidth) + monthLabels(report.Weeks) + "\n")

	for row := range daysPerWeek {
		label := report.Weeks[0].Days[row].Date.Weekday().String()[:monthLabelLen]
		b.WriteString(fmt.Sprintf("%-*s", rowLabelWidth, label))

		for _, week := range report.Weeks {
			day := week.Days[row]
			if day.Date > report.End {
				b.WriteString(" ")

				continue
			}

			b.WriteString(cfg.levelCell(day.Level))
		}

		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", rowLabelWidth) + "Less ")

	for level := range contrib.MaxLevel + 1 {
		b.WriteString(cfg.levelCell(level) + " ")
	}

	b.WriteString("More\n\n")
	b.WriteString(summaryLines(report, cfg))

	return writeString(w, b.String())
}

// monthLabels places a month abbreviation above the first week of each month
// when it does not overlap the previous label.
func monthLabels(weeks []contrib.Week) string {
	line := []rune(strings.Repeat(" ", len(weeks)))
	nextFree := 0
	prevMonth := -1

	for col, week := range weeks {
		month := week.Days[0].Date.Time().Month()
		if int(month) == prevMonth {
			continue
		}

		prevMonth = int(month)

		if col < nextFree || col+monthLabelLen > len(line) {
			continue
		}

		copy(line[col:], []rune(month.String()[:monthLabelLen]))
		nextFree = col + monthLabelLen + 1
	}

	return strings.TrimRight(string(line), " ")
}

func summaryLines(report contrib.Report, cfg Config) string {
	var b strings.Builder

	bold := cfg.paint(color.Bold)

	fmt.Fprintf(&b, "%s contributions from %s to %s\n",
		bold.Sprint(humanize.Comma(int64(report.TotalContributions))), report.Start, report.End)
	fmt.Fprintf(&b, "  Active days     %s\n", humanize.Comma(int64(report.ActiveDays)))
	fmt.Fprintf(&b, "  Active weeks    %s\n", humanize.Comma(int64(report.ActiveWeeks)))
	fmt.Fprintf(&b, "  Max in a day    %s\n", humanize.Comma(int64(report.MaxDaily)))
	fmt.Fprintf(&b, "  Longest streak  %s\n", pluralDays(report.LongestStreak))

	if report.Synthetic {
		b.WriteString(cfg.paint(color.FgYellow).Sprint("  No public activity found; showing placeholder activity.") + "\n")
	}

	return b.String()
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}

	return humanize.Comma(int64(n)) + " days"
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
