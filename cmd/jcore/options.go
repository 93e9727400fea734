package main

import (
	"errors"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/session"
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Source code to compile")
	cmd.Flags().String("name", "Main.java", "Unit name for --code and --stdin input")
	cmd.Flags().Bool("stdin", false, "Read source code from stdin")
}

// getSources determines the units to compile. There are three
// possibilities: --code <code>, --stdin, or one or more paths as args.
func getSources(cmd *cobra.Command, args []string) ([]session.Source, error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	var stdinFlagSet bool
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet, _ = cmd.Flags().GetBool("stdin")
	}
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return nil, errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return nil, errors.New("multiple input sources specified")
	}
	name, _ := cmd.Flags().GetString("name")
	if stdinFlagSet {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return []session.Source{{Name: name, Text: string(data)}}, nil
	}
	if codeFlagSet {
		code, _ := cmd.Flags().GetString("code")
		return []session.Source{{Name: name, Text: code}}, nil
	}
	if !pathSupplied {
		return nil, errors.New("no input provided")
	}
	sources := make([]session.Source, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, session.Source{Name: path, Text: string(data)})
	}
	return sources, nil
}

// compileOptions merges the options of the config file with those given by
// --option flags, the flags taking precedence.
func (a *app) compileOptions(cmd *cobra.Command) (options.Options, error) {
	merged := map[string]string{}
	for key, value := range a.v.GetStringMapString("options") {
		// Config keys come back lowercased.
		if canonical, ok := options.Canonical(key); ok {
			key = canonical
		}
		merged[key] = value
	}
	flags, err := cmd.Flags().GetStringToString("option")
	if err != nil {
		return options.Options{}, err
	}
	for key, value := range flags {
		merged[key] = value
	}
	opts, unknown, err := options.FromMap(merged)
	if err != nil {
		return options.Options{}, err
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		a.logger.Warn().Str("option", key).Msg("ignored unknown option")
	}
	return opts, nil
}

func (a *app) compile(cmd *cobra.Command, args []string) (*session.Build, error) {
	sources, err := getSources(cmd, args)
	if err != nil {
		return nil, err
	}
	opts, err := a.compileOptions(cmd)
	if err != nil {
		return nil, err
	}
	s, build, err := session.CompileSources(cmd.Context(), sources,
		session.WithOptions(opts),
		session.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("session", s.ID().String()).
		Int("units", len(sources)).
		Bool("valid", build.Valid).
		Msg("compiled")
	return build, nil
}
