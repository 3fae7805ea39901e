// Command ragengine opens a window and brings up a Vulkan device for it.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/andewx/ragengine"
	"github.com/andewx/ragengine/vkdriver"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func init() {
	// glfw and the Vulkan loader must be driven from the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath  string
	logLevel    string
	logFormat   string
	diagnostics bool

	cfg *ragengine.Config
	log *slog.Logger

	// newDriver loads the graphics driver for commands that do not bring
	// their own window.
	newDriver func() (ragengine.Driver, error)
}

// loadDriver initializes the system Vulkan loader.
func loadDriver() (ragengine.Driver, error) {
	if err := vkdriver.Init(); err != nil {
		return nil, err
	}
	return vkdriver.New(), nil
}

func newRootCommand(stdout, stderr io.Writer, newDriver func() (ragengine.Driver, error)) *cobra.Command {
	opts := &options{newDriver: newDriver}

	cmd := &cobra.Command{
		Use:           "ragengine",
		Short:         "Vulkan device bootstrap",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML or TOML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "text or json")
	flags.BoolVar(&opts.diagnostics, "diagnostics", ragengine.DefaultDiagnostics, "enable the validation layer and driver diagnostics")

	cmd.AddCommand(newRunCommand(opts), newDevicesCommand(opts))
	return cmd
}

// load resolves the config file and flag overrides, then builds the logger.
func (o *options) load(cmd *cobra.Command, stderr io.Writer) error {
	cfg := ragengine.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = ragengine.LoadConfig(o.configPath); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("diagnostics") {
		cfg.Diagnostics = o.diagnostics
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	o.log = ragengine.NewLogger(stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(o.log)
	return nil
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr, loadDriver).Execute(); err != nil {
		out := termenv.NewOutput(os.Stderr)
		fmt.Fprintln(os.Stderr, out.String("ragengine: "+err.Error()).Foreground(termenv.ANSIRed))
		os.Exit(1)
	}
}
