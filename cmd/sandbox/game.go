package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/hubastard/biscuit/engine/assets"
	"github.com/hubastard/biscuit/engine/colors"
	"github.com/hubastard/biscuit/engine/core"
	"github.com/hubastard/biscuit/engine/geom"
	"github.com/hubastard/biscuit/engine/gfx/renderer2d"
	"github.com/hubastard/biscuit/engine/profiler"
)

const cookiePath = "assets/textures/biscuit.png"

type Game struct {
	cookie *Cookie
	ctrl   *CameraController
	debug  *LayerDebug
	timer  float32
}

func (g *Game) OnStart(e *core.Engine) {
	g.cookie = NewCookie(loadSprite(e.Logger, cookiePath))
	g.ctrl = NewCameraController(e.Camera)
	g.debug = &LayerDebug{}
	e.PushLayer(g.debug)
}

func loadSprite(log *slog.Logger, path string) *assets.Sprite {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Info("sprite not found, using placeholder", slog.String("path", path))
		return assets.SpriteFromImage(cookieImage(256))
	}
	return assets.NewSprite(path)
}

func (g *Game) OnUpdate(e *core.Engine, dt float32) {
	defer profiler.Start("Game.OnUpdate")()

	g.ctrl.Update(e.Input, dt)
	g.cookie.Update(e.Input, viewBounds(e), dt)
	g.timer += dt
}

// viewBounds is the world rect visible at zoom 1 around the camera.
func viewBounds(e *core.Engine) Rect {
	w, h := e.Size()
	zoom := e.Camera.Zoom()
	half := geom.Vec(float32(w)/2/zoom, float32(h)/2/zoom)
	c := geom.Vec(e.Camera.Position.X, e.Camera.Position.Y)
	return Rect{Min: c.Sub(half), Max: c.Add(half)}
}

func (g *Game) OnRender(e *core.Engine) {
	defer profiler.Start("Game.OnRender")()

	r := e.Renderer
	g.cookie.Render(r)

	// crumbs orbiting the origin, behind the cookie
	for i := 0; i < 6; i++ {
		a := g.timer + float32(i)*math.Pi/3
		p := geom.Vec(260, 0).Rotate(a)
		r.DrawCircle(p.X, p.Y, 12+4*float32(i%3), colors.Hex("#c8874a"), 24, 0)
	}

	r.DrawRect(0, -150, 560, 56, colors.Black.WithAlpha(0.08), 5)
	r.DrawText("Hello, World! from Biscuit engine.", 0, -150, colors.Color{0, 0, 0, 1}, renderer2d.TextOptions{}, 6)
}

func (g *Game) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyEscape {
		e.Window.RequestClose()
	}
}

func (g *Game) OnShutdown(e *core.Engine) {
	e.Logger.Info("cookie bounces", slog.Int("count", g.cookie.bounces))
}
