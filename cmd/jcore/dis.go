package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/jcore/bytecode"
	"github.com/deepnoodle-ai/jcore/dis"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/session"
)

func newDisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [files...]",
		Short: "Disassemble the classes compiled from sources",
		Long: `Compile the sources and print the bytecode of the emitted classes in the
javap-like listing format, or as a table with --table.`,
		Example: `  jcore dis A.java
  jcore dis --class p.A --method run A.java
  jcore dis --table --class A --method f --code 'class A { int f() { return 1; } }'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			build, err := a.compile(cmd, args)
			if err != nil {
				return err
			}
			if !build.Valid {
				fmt.Fprint(cmd.ErrOrStderr(), errors.Transcript(build.Diagnostics))
				return errFailed
			}
			className, _ := cmd.Flags().GetString("class")
			methodName, _ := cmd.Flags().GetString("method")
			table, _ := cmd.Flags().GetBool("table")
			if table && methodName == "" {
				return fmt.Errorf("--table requires --method")
			}

			classes, err := selectClasses(build, className)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, c := range classes {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if methodName == "" {
					if err := dis.WriteClass(out, c); err != nil {
						return err
					}
					continue
				}
				m, ok := c.Method(methodName)
				if !ok {
					return fmt.Errorf("class %s has no method %s", c.Name(), methodName)
				}
				if !table {
					if err := dis.WriteMethod(out, m, c.Pool()); err != nil {
						return err
					}
					continue
				}
				instructions, err := dis.Disassemble(m, c.Pool())
				if err != nil {
					return err
				}
				if err := dis.Print(instructions, out); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("class", "", "Binary name of the class to disassemble")
	cmd.Flags().String("method", "", "Name of the method to disassemble")
	cmd.Flags().Bool("table", false, "Print the method as a table")
	return cmd
}

func selectClasses(build *session.Build, name string) ([]*bytecode.Class, error) {
	if name != "" {
		c, ok := build.Class(name)
		if !ok {
			return nil, fmt.Errorf("class not found: %s", name)
		}
		return []*bytecode.Class{c}, nil
	}
	var classes []*bytecode.Class
	for _, r := range build.Results {
		classes = append(classes, r.Classes...)
	}
	return classes, nil
}
