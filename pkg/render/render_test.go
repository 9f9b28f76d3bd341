package render_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/render"
)

func sampleReport() contrib.Report {
	return contrib.Build(
		time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		contrib.Inputs{Events: map[contrib.Date]int{"2025-06-10": 4}},
		contrib.Options{},
	)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := render.ParseFormat(" JSON ", render.FormatText, render.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, render.FormatJSON, f)

	_, err = render.ParseFormat("html", render.FormatText, render.FormatJSON)
	require.ErrorIs(t, err, render.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "text, json")
}

func TestJSON_ReportShape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.JSON(&buf, sampleReport()))

	var decoded map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.InDelta(t, 4, decoded["totalContributions"], 0)
	assert.Equal(t, "2024-06-15", decoded["start"])

	weeks, ok := decoded["weeks"].([]any)
	require.True(t, ok)
	assert.Len(t, weeks, 53)
}

func TestYAML_ReportShape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.YAML(&buf, sampleReport()))

	var decoded struct {
		Total int    `yaml:"totalContributions"`
		End   string `yaml:"end"`
	}

	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 4, decoded.Total)
	assert.Equal(t, "2025-06-15", decoded.End)
}
