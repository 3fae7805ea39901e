package main

import (
	"github.com/andewx/ragengine"
	"github.com/andewx/ragengine/display"
	"github.com/andewx/ragengine/vkdriver"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the window and bring up the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
}

func run(opts *options) error {
	if err := display.Init(); err != nil {
		return err
	}
	defer display.Terminate()

	window, err := display.Open(opts.cfg.Window)
	if err != nil {
		return err
	}
	defer window.Close()

	if err := vkdriver.InitWithProcAddr(display.VulkanProcAddr()); err != nil {
		return err
	}

	app, err := ragengine.Create(vkdriver.New(), window, opts.cfg, opts.log)
	if err != nil {
		return err
	}
	opts.log.Info("device ready",
		"graphics_family", app.GraphicsQueue().Family,
		"diagnostics", app.DiagnosticsEnabled(),
	)
	return window.Run(app, opts.log)
}
