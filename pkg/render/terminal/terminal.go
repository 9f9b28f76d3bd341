// Package terminal renders reports and dashboards for an interactive terminal.
package terminal

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Width limits.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 120
)

// Box drawing characters.
const (
	boxHeavyHorizontal  = "━"
	boxHeavyVertical    = "┃"
	boxHeavyTopLeft     = "┏"
	boxHeavyTopRight    = "┓"
	boxHeavyBottomLeft  = "┗"
	boxHeavyBottomRight = "┛"
	boxHorizontal       = "─"

	headerPadding = 1
)

// Config holds rendering settings.
type Config struct {
	Width   int
	NoColor bool

	// Now anchors relative times such as "3 days ago".
	Now time.Time
}

// NewConfig reads width from COLUMNS and honors NO_COLOR.
func NewConfig() Config {
	return Config{
		Width:   DetectWidth(),
		NoColor: os.Getenv("NO_COLOR") != "",
		Now:     time.Now(),
	}
}

// DetectWidth returns COLUMNS clamped to [MinWidth, MaxWidth], or DefaultWidth.
func DetectWidth() int {
	width, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil || width <= 0 {
		return DefaultWidth
	}

	return min(max(width, MinWidth), MaxWidth)
}

func (c Config) width() int {
	if c.Width <= 0 {
		return DefaultWidth
	}

	return c.Width
}

// paint returns a color that honors NoColor.
func (c Config) paint(attrs ...color.Attribute) *color.Color {
	col := color.New(attrs...)
	c.apply(col)

	return col
}

func (c Config) apply(col *color.Color) {
	if c.NoColor {
		col.DisableColor()
	} else {
		col.EnableColor()
	}
}

// DrawHeader draws a heavy-bordered title line with optional right-aligned text.
func DrawHeader(title, right string, width int) string {
	minWidth := len([]rune(title)) + len([]rune(right)) + 4 + headerPadding*2
	width = max(width, minWidth)

	inner := width - 2
	content := inner - headerPadding*2
	gap := max(content-len([]rune(title))-len([]rune(right)), 1)

	pad := strings.Repeat(" ", headerPadding)

	var b strings.Builder

	b.WriteString(boxHeavyTopLeft + strings.Repeat(boxHeavyHorizontal, inner) + boxHeavyTopRight + "\n")
	b.WriteString(boxHeavyVertical + pad + title + strings.Repeat(" ", gap) + right + pad + boxHeavyVertical + "\n")
	b.WriteString(boxHeavyBottomLeft + strings.Repeat(boxHeavyHorizontal, inner) + boxHeavyBottomRight)

	return b.String()
}

// DrawSeparator draws a thin line.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(boxHorizontal, width)
}

const (
	barFilled = "█"
	barEmpty  = "░"
)

// DrawBar draws a bar of width cells filled to fraction, clamped to [0, 1].
func DrawBar(fraction float64, width int) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(width))

	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// Truncate cuts s to at most n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	const ellipsis = "..."

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	if n <= len(ellipsis) {
		return strings.Repeat(".", max(n, 0))
	}

	return string(runes[:n-len(ellipsis)]) + ellipsis
}
