// Package cmdapi holds the commands of the oraudt command line tool.
package cmdapi

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/syssam/oraudt/internal/config"
)

// version holds the oraudt version. Release builds set it with
// "-X 'github.com/syssam/oraudt/internal/cmdapi.version=${version}'".
var version string

// GlobalFlags holds the flags shared by all commands.
type GlobalFlags struct {
	// Config is the path of the configuration file.
	Config string
	// LogLevel overrides the configured log level.
	LogLevel string
	// LogFormat overrides the configured log format.
	LogFormat string
}

// env is the state shared by the commands of one invocation.
type env struct {
	flags  GlobalFlags
	cfg    *config.Config
	logger *slog.Logger
	runID  string
}

// NewRoot returns the root command.
func NewRoot() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "oraudt",
		Short:        "Generates ODP.NET bindings for Oracle user-defined types.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init(cmd)
		},
	}
	f := root.PersistentFlags()
	f.StringVarP(&e.flags.Config, "config", "c", "", "configuration file (default "+config.DefaultFile+")")
	f.StringVar(&e.flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	f.StringVar(&e.flags.LogFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		generateCmd(e),
		watchCmd(e),
		parseCmd(e),
		versionCmd(),
	)
	return root
}

func (e *env) init(cmd *cobra.Command) error {
	cfg, err := config.Load(e.flags.Config)
	if err != nil {
		return err
	}
	if e.flags.LogLevel != "" {
		cfg.LogLevel = e.flags.LogLevel
	}
	if e.flags.LogFormat != "" {
		cfg.LogFormat = e.flags.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.runID = uuid.NewString()
	e.logger = logger.With(slog.String("run", e.runID))
	if cfg.File != "" {
		e.logger.Debug("loaded configuration", slog.String("file", cfg.File))
	}
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("oraudt: log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("oraudt: unknown log format %q", format)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the oraudt version.",
		Args:  cobra.NoArgs,
		// The version does not depend on the configuration.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "oraudt version %s\n", Version())
		},
	}
}

// Version returns the version of the binary.
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
