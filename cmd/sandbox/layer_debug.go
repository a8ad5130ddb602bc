package main

import (
	"fmt"
	"runtime"

	"github.com/hubastard/biscuit/engine/colors"
	"github.com/hubastard/biscuit/engine/core"
	"github.com/hubastard/biscuit/engine/gfx/renderer2d"
	"github.com/hubastard/biscuit/engine/profiler"
)

const (
	hudFont   = "32px monospace"
	hudLineH  = 20
	hudZIndex = 100
)

// LayerDebug overlays frame and renderer statistics. F1 toggles it,
// Ctrl+P logs the profiler summary.
type LayerDebug struct {
	visible bool
	fps     float32
	acc     float32
	frames  int
}

func (l *LayerDebug) OnAttach(e *core.Engine) { l.visible = true }
func (l *LayerDebug) OnDetach(e *core.Engine) {}

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float32) {
	// refresh twice a second so the text cache sees few distinct strings
	l.acc += dt
	l.frames++
	if l.acc >= 0.5 {
		l.fps = float32(l.frames) / l.acc
		l.acc, l.frames = 0, 0
	}
}

func (l *LayerDebug) OnRender(e *core.Engine) {
	if !l.visible {
		return
	}
	stats := e.Renderer.Stats()
	lines := []string{
		fmt.Sprintf("fps %3.0f", l.fps),
		fmt.Sprintf("draws %d (%d skipped)", stats.DrawCalls, stats.Skipped),
		fmt.Sprintf("vertices %d", stats.VertexCount),
		fmt.Sprintf("textures %d + %d text", e.Renderer.Textures().Len(), e.Renderer.Textures().TextLen()),
		fmt.Sprintf("goroutines %d", runtime.NumGoroutine()),
	}
	opts := renderer2d.TextOptions{Font: hudFont, Align: renderer2d.AlignLeft}
	for i, s := range lines {
		p := e.Camera.ScreenToWorld(12, float32(16+i*hudLineH))
		e.Renderer.DrawText(s, p.X, p.Y, colors.Black, opts, hudZIndex)
	}
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down {
		return false
	}
	switch {
	case k.Key == core.KeyF1:
		l.visible = !l.visible
		return true
	case k.Key == core.KeyP && k.Mods&core.ModCtrl != 0:
		if !profiler.Enabled {
			e.Logger.Info("profiler disabled, build with -tags profile")
			return true
		}
		profiler.LogSummary(e.Logger)
		return true
	}
	return false
}
