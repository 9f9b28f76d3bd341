package plotpage

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
)

const (
	heatmapHeight  = "240px"
	lineHeight     = "300px"
	barHeight      = "320px"
	labelFontSize  = 10
	daysPerWeek    = 7
	lineAreaAlpha  = 0.2
	languageRotate = 30
)

// ChartOpts provides themed chart options.
type ChartOpts struct {
	theme ThemeConfig
}

// NewChartOpts creates chart options for the given theme.
func NewChartOpts(theme Theme) *ChartOpts {
	return &ChartOpts{theme: GetThemeConfig(theme)}
}

// Init returns initialization options with the themed background.
func (c *ChartOpts) Init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: c.theme.ChartBackground,
	}
}

// Tooltip returns tooltip options.
func (c *ChartOpts) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}

// XAxis returns a themed category x-axis.
func (c *ChartOpts) XAxis(labels []string, rotate float64) opts.XAxis {
	return opts.XAxis{
		Type: "category",
		Data: labels,
		AxisLabel: &opts.AxisLabel{
			Rotate:   rotate,
			FontSize: labelFontSize,
			Color:    c.theme.ChartTextMuted,
		},
		AxisLine: &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

// YAxis returns a themed value y-axis.
func (c *ChartOpts) YAxis(name string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartText},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.ChartGrid},
		},
	}
}

// BuildContributionHeatmap plots one cell per day, weeks across and weekdays down,
// colored by contribution level.
func BuildContributionHeatmap(co *ChartOpts, report contrib.Report) *charts.HeatMap {
	weekLabels := make([]string, len(report.Weeks))
	for i, week := range report.Weeks {
		weekLabels[i] = string(week.Days[0].Date)
	}

	// Category y-axes grow upwards, so the first weekday goes on top.
	dayLabels := make([]string, daysPerWeek)

	if len(report.Weeks) > 0 {
		for row := range daysPerWeek {
			dayLabels[daysPerWeek-1-row] = report.Weeks[0].Days[row].Date.Weekday().String()[:3]
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", heatmapHeight)),
		charts.WithTooltipOpts(co.Tooltip("item")),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      weekLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: labelFontSize, Color: co.theme.ChartTextMuted},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      dayLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: labelFontSize, Color: co.theme.ChartTextMuted},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:       0,
			Max:       float32(contrib.MaxLevel),
			InRange:   &opts.VisualMapInRange{Color: co.theme.LevelColors},
			Orient:    "horizontal",
			Left:      "center",
			Bottom:    "0",
			TextStyle: &opts.TextStyle{Color: co.theme.ChartTextMuted},
		}),
		charts.WithGridOpts(opts.Grid{Left: "40", Right: "10", Top: "10", Bottom: "70"}),
	)
	hm.AddSeries("Contributions", buildHeatmapData(report))

	return hm
}

func buildHeatmapData(report contrib.Report) []opts.HeatMapData {
	data := make([]opts.HeatMapData, 0, len(report.Weeks)*daysPerWeek)

	for x, week := range report.Weeks {
		for row, day := range week.Days {
			if day.Date > report.End {
				continue
			}

			data = append(data, opts.HeatMapData{
				Name:  fmt.Sprintf("%s: %d", day.Date, day.Count),
				Value: []any{x, daysPerWeek - 1 - row, day.Level},
			})
		}
	}

	return data
}

// BuildRecentLine plots a repository's daily commits.
func BuildRecentLine(co *ChartOpts, name string, daily []contrib.DailyCount) *charts.Line {
	labels := make([]string, len(daily))
	data := make([]opts.LineData, len(daily))

	for i, d := range daily {
		labels[i] = string(d.Date)
		data[i] = opts.LineData{Value: d.Count}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", lineHeight)),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithXAxisOpts(co.XAxis(labels, 0)),
		charts.WithYAxisOpts(co.YAxis("Commits")),
	)
	line.AddSeries(name, data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: co.theme.LevelColors[contrib.MaxLevel-1]}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(lineAreaAlpha)}),
	)

	return line
}

// BuildLanguageBar plots repositories per language in linguist colors.
func BuildLanguageBar(co *ChartOpts, langs []dashboard.LanguageShare) *charts.Bar {
	labels := make([]string, len(langs))
	data := make([]opts.BarData, len(langs))

	for i, l := range langs {
		labels[i] = l.Language
		data[i] = opts.BarData{
			Name:      l.Language,
			Value:     l.Repositories,
			ItemStyle: &opts.ItemStyle{Color: enry.GetColor(l.Language)},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", barHeight)),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithXAxisOpts(co.XAxis(labels, languageRotate)),
		charts.WithYAxisOpts(co.YAxis("Repositories")),
	)
	bar.AddSeries("Repositories", data)

	return bar
}
