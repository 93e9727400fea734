package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/jcore/fixture"
)

func newTestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [patterns...]",
		Short: "Run compiler fixtures",
		Long: `Run the YAML compiler fixtures found by the given patterns. A pattern is
a file, a directory, a glob, or a directory followed by ... to search
recursively. The current directory is searched when no pattern is given.`,
		Example: `  jcore test
  jcore test testdata/...
  jcore test -v --run deprecat fixtures/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			runPattern, _ := cmd.Flags().GetString("run")

			summary, err := fixture.Run(cmd.Context(), &fixture.Config{
				Patterns:   args,
				RunPattern: runPattern,
				Verbose:    verbose,
				Logger:     &a.logger,
			})
			if err != nil {
				return err
			}
			out := fixture.NewOutput(fixture.OutputConfig{
				Writer:   cmd.OutOrStdout(),
				Verbose:  verbose,
				UseColor: !color.NoColor && isTerminalIO(),
			})
			out.PrintResults(summary)
			if !summary.Success() {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Show the logs of every case")
	cmd.Flags().String("run", "", "Run only the cases matching the regular expression")
	return cmd
}
