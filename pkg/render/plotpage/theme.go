package plotpage

// Theme represents a color theme for the HTML dashboard.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds theme-specific styling values.
type ThemeConfig struct {
	Background    string
	Surface       string
	Border        string
	TextPrimary   string
	TextMuted     string
	Accent        string
	Warning       string
	WarningSubtle string

	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// LevelColors maps contribution levels 0..4 to cell colors.
	LevelColors []string
}

// ParseTheme maps a theme name to a Theme, defaulting to light.
func ParseTheme(name string) Theme {
	if Theme(name) == ThemeDark {
		return ThemeDark
	}

	return ThemeLight
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

var lightTheme = ThemeConfig{
	Background:    "#f6f8fa",
	Surface:       "#ffffff",
	Border:        "#d0d7de",
	TextPrimary:   "#1f2328",
	TextMuted:     "#656d76",
	Accent:        "#0969da",
	Warning:       "#9a6700",
	WarningSubtle: "#fff8c5",

	ChartBackground: "transparent",
	ChartGrid:       "#d0d7de",
	ChartAxis:       "#8c959f",
	ChartText:       "#1f2328",
	ChartTextMuted:  "#656d76",

	LevelColors: []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
}

var darkTheme = ThemeConfig{
	Background:    "#0d1117",
	Surface:       "#161b22",
	Border:        "#30363d",
	TextPrimary:   "#e6edf3",
	TextMuted:     "#7d8590",
	Accent:        "#2f81f7",
	Warning:       "#d29922",
	WarningSubtle: "#2e2a1f",

	ChartBackground: "transparent",
	ChartGrid:       "#30363d",
	ChartAxis:       "#484f58",
	ChartText:       "#e6edf3",
	ChartTextMuted:  "#7d8590",

	LevelColors: []string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
}
