package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/internal/table"
	"github.com/deepnoodle-ai/jcore/options"
)

func newExplainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe diagnostic codes and compiler options",
		Example: `  jcore explain
  jcore explain E2201
  jcore explain --options -O jcore.codegen.reuseLocalSlots=true`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showOptions, _ := cmd.Flags().GetBool("options"); showOptions {
				opts, err := a.compileOptions(cmd)
				if err != nil {
					return err
				}
				values := opts.Map()
				t := table.NewTable(out).WithHeader([]string{"OPTION", "VALUE"})
				for _, key := range options.Keys() {
					t.Append([]string{key, values[key]})
				}
				return t.Render()
			}
			if len(args) == 1 {
				code := errors.ErrorCode(strings.ToUpper(args[0]))
				if !slices.Contains(errors.Codes(), code) {
					return fmt.Errorf("unknown code: %s", args[0])
				}
				bold := color.New(color.Bold).SprintFunc()
				fmt.Fprintf(out, "%s (%s): %s\n", bold(code), code.Category(), code.Description())
				return nil
			}
			t := table.NewTable(out).WithHeader([]string{"CODE", "CATEGORY", "DESCRIPTION"})
			for _, code := range errors.Codes() {
				t.Append([]string{code.String(), code.Category(), code.Description()})
			}
			return t.Render()
		},
	}
	cmd.Flags().Bool("options", false, "List the effective compiler options")
	return cmd
}
