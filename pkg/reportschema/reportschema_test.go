package reportschema_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/reportschema"
)

func sampleReport() contrib.Report {
	return contrib.Build(
		time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		contrib.Inputs{Events: map[contrib.Date]int{"2025-06-10": 4, "2025-01-02": 11}},
		contrib.Options{},
	)
}

func encode(t *testing.T, v any) *bytes.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func TestValidate_BuiltReportIsValid(t *testing.T) {
	t.Parallel()

	res, err := reportschema.Validate(encode(t, sampleReport()))
	require.NoError(t, err)
	assert.True(t, res.Valid(), "%v", res.Problems)
}

func TestValidate_EmptyReportIsValid(t *testing.T) {
	t.Parallel()

	report := contrib.Build(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), contrib.Inputs{}, contrib.Options{})

	res, err := reportschema.Validate(encode(t, report))
	require.NoError(t, err)
	assert.True(t, res.Valid(), "%v", res.Problems)
}

func TestValidate_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := reportschema.Validate(strings.NewReader("{not json"))
	require.ErrorIs(t, err, reportschema.ErrInvalidJSON)
}

func TestValidate_SchemaViolations(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"weeks": []any{
			map[string]any{"days": []any{
				map[string]any{"date": "2025-06-10", "count": 1, "level": 9},
			}},
		},
		"totalContributions": 1,
		"start":              "yesterday",
		"end":                "2025-06-10",
	}

	res, err := reportschema.Validate(encode(t, doc))
	require.NoError(t, err)
	require.False(t, res.Valid())

	var fields []string
	for _, p := range res.Problems {
		fields = append(fields, p.Field)
	}

	joined := strings.Join(fields, " ")

	assert.Contains(t, joined, "weeks.0.days")
	assert.Contains(t, joined, "start")
}

func TestValidate_Inconsistent(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Weeks[3].Days[2].Level = contrib.MaxLevel
	report.TotalContributions++

	res, err := reportschema.Validate(encode(t, report))
	require.NoError(t, err)
	require.Len(t, res.Problems, 2)
	assert.Equal(t, "weeks.3.days.2.level", res.Problems[0].Field)
	assert.Equal(t, "totalContributions", res.Problems[1].Field)
	assert.Contains(t, res.Problems[1].String(), "days sum to 15")
}

func TestCheck_Gap(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Weeks[1].Days[0].Date = report.Weeks[1].Days[0].Date.AddDays(1)

	problems := reportschema.Check(report)
	require.NotEmpty(t, problems)
	assert.Equal(t, "weeks.1.days.0.date", problems[0].Field)
}

func TestSchemaIsEmbedded(t *testing.T) {
	t.Parallel()

	var schema map[string]any

	require.NoError(t, json.Unmarshal(reportschema.Schema(), &schema))
	assert.Equal(t, "object", schema["type"])
}
