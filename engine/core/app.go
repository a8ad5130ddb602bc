package core

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hubastard/biscuit/engine/assets"
	"github.com/hubastard/biscuit/engine/gfx"
	"github.com/hubastard/biscuit/engine/gfx/renderer2d"
	"github.com/hubastard/biscuit/engine/logging"
	"github.com/hubastard/biscuit/engine/scene"
	"github.com/hubastard/biscuit/engine/text"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine)              // called once after window/renderer init
	OnUpdate(e *Engine, dt float32) // called once per frame, dt in seconds
	OnRender(e *Engine)             // queue draws; the engine flushes afterwards
	OnEvent(e *Engine, ev Event)    // input/window events not consumed by a layer
	OnShutdown(e *Engine)           // before exit
}

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Engine exposes core services to the App. It is passed to every hook;
// nothing besides the logger is global.
type Engine struct {
	Config   Config
	Window   Window
	Device   gfx.Device
	Renderer *renderer2d.Renderer2D
	Camera   *scene.Camera2D
	Text     *text.Canvas
	Input    *Input
	Logger   *slog.Logger

	app           App
	layers        LayerStack
	start         time.Time
	frames        uint64
	width, height int
}

// NewEngine builds the renderer and its collaborators on an existing window
// and device, and routes window events through the engine.
func NewEngine(cfg Config, win Window, dev gfx.Device, app App) (*Engine, error) {
	if cfg.ShaderDir != "" {
		assets.ShaderDir = cfg.ShaderDir
	}
	shaders, err := assets.DefaultShaders()
	if err != nil {
		return nil, err
	}

	log := logging.Logger()
	canvas := text.NewCanvas(cfg.Text.CanvasWidth, cfg.Text.CanvasHeight)
	for family, path := range cfg.Text.Fonts {
		if err := canvas.LoadFont(family, path); err != nil {
			log.Warn("font not loaded", slog.String("family", family), slog.Any("err", err))
		}
	}

	cam := scene.NewCamera2D()
	rcfg := renderer2d.Config{Shaders: shaders, Camera: cam, Text: canvas}
	if cfg.Diagnostics {
		rcfg.Diagnostics = renderer2d.LogDiagnostics(log)
	}
	rd, err := renderer2d.New(dev, rcfg)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	e := &Engine{
		Config:   cfg,
		Window:   win,
		Device:   dev,
		Renderer: rd,
		Camera:   cam,
		Text:     canvas,
		Input:    NewInput(),
		Logger:   log,
		app:      app,
		start:    time.Now(),
	}
	e.Input.SetWorldMapper(cam.ScreenToWorld)
	win.SetEventCallback(e.dispatch)
	e.resize()
	return e, nil
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }
func (e *Engine) Frames() uint64        { return e.frames }

// Size returns the framebuffer size used for the current frame.
func (e *Engine) Size() (w, h int) { return e.width, e.height }

// PushLayer attaches l above the existing layers.
func (e *Engine) PushLayer(l Layer) {
	e.layers.Push(l)
	l.OnAttach(e)
}

// PopLayer detaches the top layer.
func (e *Engine) PopLayer() (Layer, bool) {
	l, ok := e.layers.Pop()
	if ok {
		l.OnDetach(e)
	}
	return l, ok
}

func (e *Engine) dispatch(ev Event) {
	e.Input.Handle(ev)
	if e.layers.ForEachReverse(func(l Layer) bool { return l.OnEvent(e, ev) }) {
		return
	}
	if e.app != nil {
		e.app.OnEvent(e, ev)
	}
}

// resize follows the framebuffer. A minimized window reports 0x0; the last
// valid size is kept.
func (e *Engine) resize() {
	w, h := e.Window.FramebufferSize()
	if w < 1 || h < 1 || (w == e.width && h == e.height) {
		return
	}
	e.width, e.height = w, h
	e.Device.Viewport(w, h)
	e.Logger.Debug("viewport resized", slog.Int("w", w), slog.Int("h", h))
}

// Frame runs one frame: resize, clear, update, camera, render, flush and
// present. Events must have been polled already.
func (e *Engine) Frame(dt float32) {
	e.resize()

	c := e.Config.ClearColor
	e.Device.Clear(c[0], c[1], c[2], c[3])

	if e.app != nil {
		e.app.OnUpdate(e, dt)
	}
	e.layers.ForEach(func(l Layer) { l.OnUpdate(e, dt) })

	e.Camera.UpdateProjection(e.width, e.height)
	e.Camera.UpdateView()

	if e.app != nil {
		e.app.OnRender(e)
	}
	e.layers.ForEach(func(l Layer) { l.OnRender(e) })

	e.Renderer.Flush()
	e.Window.SwapBuffers()
	e.frames++
}

// Shutdown detaches layers and releases GPU resources. The App's OnShutdown
// is called by Run before this.
func (e *Engine) Shutdown() {
	for {
		if _, ok := e.PopLayer(); !ok {
			break
		}
	}
	e.Renderer.Shutdown()
	e.Text.Close()
}
