package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/session"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Compile sources and report problems",
		Long: `Compile one or more units together in a single session and report the
problems found. The exit status is 1 when any unit has an error.`,
		Example: `  jcore check src/A.java src/B.java
  jcore check -O org.eclipse.jdt.core.compiler.problem.deprecation=error A.java
  jcore check --code 'class A { @Deprecated void f() {} }'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			build, err := a.compile(cmd, args)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			if strings.ToLower(output) == "json" {
				data, err := getOutputJSON(newCheckReport(build), a.v.GetBool("no-color"))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				switch strings.ToLower(format) {
				case "text":
					fmt.Fprint(cmd.OutOrStdout(), errors.NewFormatter(!color.NoColor).FormatAll(build.Diagnostics))
				case "transcript":
					fmt.Fprint(cmd.OutOrStdout(), errors.Transcript(build.Diagnostics))
				default:
					return fmt.Errorf("unknown format: %s", format)
				}
			}
			if !build.Valid {
				return errFailed
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("format", "text", "Problem format (text, transcript)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"text", "transcript"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

type checkReport struct {
	Valid    bool          `json:"valid"`
	Problems []problemJSON `json:"problems"`
	Classes  []classJSON   `json:"classes"`
}

type problemJSON struct {
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Unit      string `json:"unit"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndColumn int    `json:"end_column"`
	Message   string `json:"message"`
}

type classJSON struct {
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	Methods      int    `json:"methods"`
	Instructions int    `json:"instructions"`
	CodeBytes    int    `json:"code_bytes"`
	Constants    int    `json:"constants"`
}

func newCheckReport(build *session.Build) checkReport {
	report := checkReport{
		Valid:    build.Valid,
		Problems: []problemJSON{},
		Classes:  []classJSON{},
	}
	for _, d := range build.Diagnostics {
		report.Problems = append(report.Problems, problemJSON{
			Severity:  strings.ToLower(d.Severity.String()),
			Code:      d.Code.String(),
			Unit:      d.Unit,
			Line:      d.Line,
			Column:    d.Column,
			EndColumn: d.EndColumn,
			Message:   d.Message,
		})
	}
	for _, r := range build.Results {
		for _, c := range r.Classes {
			stats := c.Stats()
			report.Classes = append(report.Classes, classJSON{
				Name:         c.Name(),
				Unit:         r.Unit.Name,
				Methods:      stats.MethodCount,
				Instructions: stats.InstructionCount,
				CodeBytes:    stats.CodeBytes,
				Constants:    stats.ConstantCount,
			})
		}
	}
	return report
}
