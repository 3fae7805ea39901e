// Package display is the glfw window collaborator of the bootstrap layer: it
// reports the instance extensions needed to present to a window and runs the
// event loop that drives an App.
package display

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/andewx/ragengine"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Init initializes glfw. It must be called from the main thread, which must
// stay locked to its OS thread for the life of the program.
func Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return fmt.Errorf("glfw: vulkan loader not found")
	}
	return nil
}

// Terminate releases glfw. Every Window must be closed first.
func Terminate() {
	glfw.Terminate()
}

// VulkanProcAddr is glfw's vkGetInstanceProcAddr, for vkdriver.InitWithProcAddr.
func VulkanProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// Window is a glfw window without a client API.
type Window struct {
	window *glfw.Window
}

var _ ragengine.Window = (*Window)(nil)

// Open creates a window as described by cfg.
func Open(cfg ragengine.WindowConfig) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw create window: %w", err)
	}
	return &Window{window: window}, nil
}

// RequiredInstanceExtensions lists the extensions needed to create a surface
// for this window.
func (w *Window) RequiredInstanceExtensions() []string {
	required := w.window.GetRequiredInstanceExtensions()
	names := make([]string, 0, len(required))
	for _, name := range required {
		names = append(names, strings.TrimRight(name, "\x00"))
	}
	return names
}

func (w *Window) Size() (int, int) {
	return w.window.GetSize()
}

// Close destroys the window. The App presenting to it must be destroyed first.
func (w *Window) Close() {
	if w.window == nil {
		return
	}
	w.window.Destroy()
	w.window = nil
}

// Run drives app until the window is asked to close or a frame fails, then
// destroys app exactly once.
func (w *Window) Run(app Renderer, log *slog.Logger) error {
	return run(glfwEvents{w.window}, w, app, log)
}

type glfwEvents struct {
	window *glfw.Window
}

func (e glfwEvents) PollEvents()       { glfw.PollEvents() }
func (e glfwEvents) ShouldClose() bool { return e.window.ShouldClose() }
