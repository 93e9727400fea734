package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errFailed is returned by commands whose output already explains the
// failure, so that only the exit status remains to be set.
var errFailed = errors.New("failed")

// app holds the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  zerolog.Logger
}

func newApp() *app {
	// Option keys contain dots, so nested config keys are separated by ::.
	return &app{
		v:      viper.NewWithOptions(viper.KeyDelimiter("::")),
		logger: zerolog.Nop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jcore",
		Short:         "Check, compile and disassemble Java subset sources",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd.ErrOrStderr())
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.jcore.yaml)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("log-level", "disabled", "Log level (trace, debug, info, warn, error, disabled)")
	pf.StringToStringP("option", "O", nil, "Compiler option as key=value, repeatable")
	_ = a.v.BindPFlag("no-color", pf.Lookup("no-color"))
	_ = a.v.BindPFlag("log-level", pf.Lookup("log-level"))
	_ = a.v.BindEnv("no-color", "NO_COLOR")

	cmd.AddCommand(
		newCheckCmd(a),
		newDisCmd(a),
		newTestCmd(a),
		newExplainCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// initConfig reads the config file and environment, then applies the
// global flags.
func (a *app) initConfig(stderr io.Writer) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".jcore")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("jcore")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	processGlobalFlags(a.v)

	logger, err := newLogger(stderr, a.v.GetString("log-level"), a.v.GetBool("no-color"))
	if err != nil {
		return err
	}
	a.logger = logger
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("config", used).Msg("loaded config file")
	}
	return nil
}

func newVersionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{"version": version, "commit": commit, "date": date}
			if output, _ := cmd.Flags().GetString("output"); strings.ToLower(output) == "json" {
				data, err := getOutputJSON(info, a.v.GetBool("no-color"))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "jcore %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	return cmd
}
