// Package reportschema validates exported contribution reports against the
// embedded JSON schema and the calendar's consistency rules.
package reportschema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
)

const schemaFile = "report.schema.json"

//go:embed report.schema.json
var schemaFS embed.FS

// ErrInvalidJSON reports input that is not JSON at all.
var ErrInvalidJSON = errors.New("invalid JSON")

// Problem is one validation failure.
type Problem struct {
	Field       string
	Description string
}

func (p Problem) String() string {
	return p.Field + ": " + p.Description
}

// Result lists every problem found. An empty result is valid.
type Result struct {
	Problems []Problem
}

// Valid reports whether no problem was found.
func (r Result) Valid() bool {
	return len(r.Problems) == 0
}

// Schema returns the embedded JSON schema.
func Schema() []byte {
	data, err := schemaFS.ReadFile(schemaFile)
	if err != nil {
		panic("reportschema: embedded schema missing: " + err.Error())
	}

	return data
}

// Validate checks a JSON report. Structural problems stop before the
// consistency checks run.
func Validate(r io.Reader) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read report: %w", err)
	}

	var doc any

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	err = dec.Decode(&doc)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	schemaResult, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(Schema()), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Result{}, fmt.Errorf("schema validation: %w", err)
	}

	if !schemaResult.Valid() {
		var res Result

		for _, e := range schemaResult.Errors() {
			res.Problems = append(res.Problems, Problem{Field: e.Field(), Description: e.Description()})
		}

		return res, nil
	}

	var report contrib.Report

	err = json.Unmarshal(raw, &report)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return Result{Problems: Check(report)}, nil
}

// Check applies the rules a well-formed report must satisfy beyond its shape:
// consecutive dates, levels matching counts, and totals matching the days in range.
func Check(report contrib.Report) []Problem {
	var (
		problems []Problem
		prev     contrib.Date
		total    int
		maxDaily int
	)

	for w, week := range report.Weeks {
		for d, day := range week.Days {
			field := fmt.Sprintf("weeks.%d.days.%d", w, d)

			if prev != "" && day.Date != prev.AddDays(1) {
				problems = append(problems, Problem{field + ".date", fmt.Sprintf("expected %s, got %s", prev.AddDays(1), day.Date)})
			}

			prev = day.Date

			if want := contrib.Level(day.Count); day.Level != want {
				problems = append(problems, Problem{field + ".level", fmt.Sprintf("count %d has level %d, got %d", day.Count, want, day.Level)})
			}

			if day.Date > report.End {
				if day.Count != 0 {
					problems = append(problems, Problem{field + ".count", "days after the end must be empty"})
				}

				continue
			}

			total += day.Count
			maxDaily = max(maxDaily, day.Count)
		}
	}

	if len(report.Weeks) > 0 && len(report.Weeks[0].Days) > 0 && report.Weeks[0].Days[0].Date != report.Start {
		problems = append(problems, Problem{"start", fmt.Sprintf("first day is %s", report.Weeks[0].Days[0].Date)})
	}

	if total != report.TotalContributions {
		problems = append(problems, Problem{"totalContributions", fmt.Sprintf("days sum to %d, got %d", total, report.TotalContributions)})
	}

	if report.MaxDaily != 0 && report.MaxDaily != maxDaily {
		problems = append(problems, Problem{"maxDaily", fmt.Sprintf("busiest day has %d, got %d", maxDaily, report.MaxDaily)})
	}

	return problems
}
