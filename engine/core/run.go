package core

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/hubastard/biscuit/engine/gfx"
	"github.com/hubastard/biscuit/engine/profiler"
)

// maxFrameDelta caps dt after stalls (window drag, breakpoint) so movement
// does not jump.
const maxFrameDelta = 0.25

// Run wires the platform window + device and executes the main loop until
// the window closes.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newDevice func(Window) (gfx.Device, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	dev, err := newDevice(win)
	if err != nil {
		return fmt.Errorf("init graphics: %w", err)
	}

	eng, err := NewEngine(cfg, win, dev, app)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	app.OnStart(eng)

	prev := time.Now()
	for !win.ShouldClose() {
		now := time.Now()
		dt := min(now.Sub(prev).Seconds(), maxFrameDelta)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()
		eng.Frame(float32(dt))
	}

	app.OnShutdown(eng)
	profiler.LogSummary(eng.Logger)
	eng.Logger.Info("engine exit",
		slog.Uint64("frames", eng.Frames()),
		slog.Duration("uptime", eng.Uptime()),
	)
	return nil
}
