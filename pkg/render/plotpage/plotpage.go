// Package plotpage renders the profile dashboard as a standalone HTML page
// with go-echarts charts.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// DefaultEChartsJS is the script the page loads charts from.
const DefaultEChartsJS = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

const styleTagLen = len("</style>")

// Renderable is the interface for page components and charts.
type Renderable interface {
	Render(w io.Writer) error
}

// Section is a titled card within a page.
type Section struct {
	Title    string
	Subtitle string
	Chart    Renderable
}

// Page is a complete HTML page.
type Page struct {
	Title       string
	Description string
	Theme       Theme
	EChartsJS   string
	Sections    []Section
}

// NewPage creates a page with the light theme.
func NewPage(title, description string) *Page {
	return &Page{
		Title:       title,
		Description: description,
		Theme:       ThemeLight,
		EChartsJS:   DefaultEChartsJS,
	}
}

// WithTheme sets the theme for the page.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	var content bytes.Buffer

	for _, section := range p.Sections {
		chart, err := renderFragment(section.Chart)
		if err != nil {
			return fmt.Errorf("render section %q: %w", section.Title, err)
		}

		html, err := renderTemplate("section.html", sectionData{
			Title:    section.Title,
			Subtitle: section.Subtitle,
			Chart:    chart,
		})
		if err != nil {
			return fmt.Errorf("render section %q: %w", section.Title, err)
		}

		content.WriteString(string(html))
	}

	html, err := renderTemplate("page.html", pageData{
		Title:       p.Title,
		Description: p.Description,
		Theme:       GetThemeConfig(p.Theme),
		ThemeName:   p.Theme,
		EChartsJS:   p.EChartsJS,
		//nolint:gosec // sections are rendered through html/template.
		Content: template.HTML(content.String()),
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

// renderFragment renders a component; full echarts pages are cut down to the chart container.
func renderFragment(r Renderable) (template.HTML, error) {
	if r == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := r.Render(&buf)
	if err != nil {
		return "", err
	}

	//nolint:gosec // fragments come from html/template or go-echarts.
	return template.HTML(extractChartContent(buf.String())), nil
}

func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			return content
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			return content
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}
}
