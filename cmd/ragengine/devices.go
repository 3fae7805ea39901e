package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/andewx/ragengine"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newDevicesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List physical devices and whether they are suitable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := opts.newDriver()
			if err != nil {
				return err
			}
			reports, err := ragengine.Inspect(drv, opts.cfg, opts.log)
			if err != nil {
				return err
			}
			writeReports(cmd.OutOrStdout(), reports)
			if !anySelected(reports) {
				return ragengine.ErrNoSuitableDevice
			}
			return nil
		},
	}
}

func writeReports(w io.Writer, reports []ragengine.DeviceReport) {
	out := termenv.NewOutput(w)
	if len(reports) == 0 {
		fmt.Fprintln(w, "no physical devices")
		return
	}
	for _, r := range reports {
		var verdict termenv.Style
		switch {
		case r.Selected:
			verdict = out.String("selected").Foreground(termenv.ANSIGreen).Bold()
		case r.Reason == nil:
			verdict = out.String("suitable").Foreground(termenv.ANSIGreen)
		default:
			verdict = out.String("rejected: " + r.Reason.Error()).Foreground(termenv.ANSIYellow)
		}
		props := r.Properties
		fmt.Fprintf(w, "[%d] %s (%s, api %s) %s\n", r.Index, props.Name, props.Type, props.APIVersion, verdict)
		for i, family := range r.QueueFamilies {
			fmt.Fprintf(w, "    queue family %d: %s x%d\n", i, queueFlagNames(family.Flags), family.Count)
		}
	}
}

func queueFlagNames(f ragengine.QueueFlags) string {
	var names []string
	for _, flag := range []struct {
		bit  ragengine.QueueFlags
		name string
	}{
		{ragengine.QueueGraphics, "graphics"},
		{ragengine.QueueCompute, "compute"},
		{ragengine.QueueTransfer, "transfer"},
		{ragengine.QueueSparseBinding, "sparse"},
	} {
		if f.Has(flag.bit) {
			names = append(names, flag.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

func anySelected(reports []ragengine.DeviceReport) bool {
	for _, r := range reports {
		if r.Selected {
			return true
		}
	}
	return false
}
