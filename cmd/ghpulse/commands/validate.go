package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ghpulse/pkg/reportschema"
)

// ErrReportInvalid is returned when a report fails validation.
var ErrReportInvalid = errors.New("report validation failed")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var (
		colorize, nocolor bool
		printSchema       bool
	)

	cmd := &cobra.Command{
		Use:   "validate <report.json|->",
		Short: "Validate an exported contribution report",
		Long: `Validate a contribution report written by "ghpulse activity --format json"
against the embedded JSON schema, then check that dates are consecutive, levels
match counts and the total matches the days in range.

Examples:
  ghpulse validate octocat.json
  ghpulse activity octocat -f json | ghpulse validate -
  ghpulse validate --print-schema`,
		Args: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				return cobra.NoArgs(cmd, args)
			}

			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if printSchema {
				_, err := out.Write(reportschema.Schema())

				return err
			}

			switch {
			case nocolor:
				color.NoColor = true //nolint:reassign // intentional override of library global
			case colorize:
				color.NoColor = false //nolint:reassign // intentional override of library global
			}

			return runValidate(cmd.InOrStdin(), out, args[0])
		},
	}

	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&printSchema, "print-schema", false, "print the embedded JSON schema and exit")

	return cmd
}

func runValidate(stdin io.Reader, out io.Writer, inputPath string) error {
	input, label := stdin, "stdin"

	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open report: %w", err)
		}
		defer f.Close()

		input, label = f, inputPath
	}

	result, err := reportschema.Validate(input)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	if result.Valid() {
		color.New(color.FgGreen).Fprintf(out, "Report is valid (%s)\n", label)

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "Report validation failed (%s)\n", label)
	fmt.Fprintf(out, "\nProblems:\n")

	for _, p := range result.Problems {
		color.New(color.FgRed).Fprintf(out, "  - %s\n", p)
	}

	return fmt.Errorf("%w: %d problem(s)", ErrReportInvalid, len(result.Problems))
}
