package display

import (
	"log/slog"

	"github.com/andewx/ragengine"
)

// Renderer is the part of ragengine.App the event loop drives.
type Renderer interface {
	RenderFrame(window ragengine.Window) error
	Destroy()
}

type events interface {
	PollEvents()
	ShouldClose() bool
}

func run(ev events, window ragengine.Window, app Renderer, log *slog.Logger) (err error) {
	if log == nil {
		log = slog.Default()
	}
	defer app.Destroy()

	for {
		ev.PollEvents()
		if ev.ShouldClose() {
			log.Info("close requested")
			return nil
		}
		if err = app.RenderFrame(window); err != nil {
			log.Error("render frame failed", "error", err)
			return err
		}
	}
}
