// Package cmd implements the pdf417scan commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ericlevine/pdf417go/internal/config"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errScanFailed is returned after the per-file failures have been reported.
var errScanFailed = errors.New("some files could not be decoded")

// app is the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errScanFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree with its own configuration state.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "pdf417scan",
		Short: "Decode PDF417 barcodes in image files",
		Long: `pdf417scan finds and decodes every PDF417 symbol in PNG, JPEG, GIF,
BMP, TIFF and WebP images.

Configuration is read from pdf417scan.yaml (searched in ., $XDG_CONFIG_HOME/pdf417scan
and /etc/pdf417scan), from PDF417SCAN_* environment variables and from flags.

Examples:
  pdf417scan scan label.png
  pdf417scan scan --format json *.jpg
  pdf417scan scan --binarizer midrange,hybrid --metrics-file scan.prom photo.jpg`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is search in ., $XDG_CONFIG_HOME/pdf417scan, /etc/pdf417scan)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))

	root.AddCommand(newScanCommand(a), newVersionCommand())
	return root
}

// load reads the configuration and sets up logging on w.
func (a *app) load(w io.Writer) error {
	cfg, err := config.NewLoader(a.v).Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(w, cfg)
	return nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pdf417scan %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
