package renderer2d

import (
	"fmt"
	"image"
	"math"
	"reflect"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/biscuit/engine/colors"
	"github.com/hubastard/biscuit/engine/geom"
	"github.com/hubastard/biscuit/engine/gfx"
	"github.com/hubastard/biscuit/engine/profiler"
)

// CameraProvider supplies the view and projection for the current frame.
// The renderer reads them and never writes back.
type CameraProvider interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
}

// TextRasterizer draws a string onto a fixed-size offscreen canvas and
// returns it. The returned image is only valid until the next call.
type TextRasterizer interface {
	Size() (w, h int)
	Rasterize(text string, color colors.Color, opts TextOptions) (image.Image, error)
}

// Statistics captures the counts generated during the last flush.
type Statistics struct {
	Commands       int
	Executed       int
	Skipped        int
	DrawCalls      int
	VertexCount    int
	TextureUploads int
}

// Shaders holds the GLSL sources for both pipelines.
type Shaders struct {
	TexturedVertex, TexturedFragment string
	ColorVertex, ColorFragment       string
}

// Config wires the optional collaborators. Only Shaders is required.
type Config struct {
	Shaders     Shaders
	Camera      CameraProvider
	Text        TextRasterizer
	Geometry    GeometryPool // defaults to TransientGeometry
	Diagnostics Diagnostics
}

// Renderer2D queues draw commands during a frame and executes them, ordered
// by ZIndex, on Flush. It is not safe for concurrent use.
type Renderer2D struct {
	dev      gfx.Device
	textured *gfx.Shader
	color    *gfx.Shader
	quadVBO  gfx.Handle
	quadUVBO gfx.Handle

	textures *gfx.TextureCache
	camera   CameraProvider
	text     TextRasterizer
	geometry GeometryPool
	diag     Diagnostics

	cmds  []DrawCommand
	stats Statistics
}

// New compiles both pipelines and uploads the shared unit quad. Shader
// failures are returned as *gfx.CompileError or *gfx.LinkError.
func New(dev gfx.Device, cfg Config) (*Renderer2D, error) {
	textured, err := gfx.CompileShader(dev, cfg.Shaders.TexturedVertex, cfg.Shaders.TexturedFragment)
	if err != nil {
		return nil, fmt.Errorf("textured shader: %w", err)
	}
	color, err := gfx.CompileShader(dev, cfg.Shaders.ColorVertex, cfg.Shaders.ColorFragment)
	if err != nil {
		textured.Delete()
		return nil, fmt.Errorf("color shader: %w", err)
	}

	rd := &Renderer2D{
		dev:      dev,
		textured: textured,
		color:    color,
		textures: gfx.NewTextureCache(dev),
		camera:   cfg.Camera,
		text:     cfg.Text,
		geometry: cfg.Geometry,
		diag:     cfg.Diagnostics,
	}
	if rd.geometry == nil {
		rd.geometry = NewTransientGeometry(dev)
	}

	rd.quadVBO = rd.staticBuffer(geom.UnitQuad[:])
	rd.quadUVBO = rd.staticBuffer(geom.UnitQuadUV[:])

	dev.EnableAlphaBlend()
	return rd, nil
}

func (rd *Renderer2D) staticBuffer(data []float32) gfx.Handle {
	buf := rd.dev.CreateBuffer()
	rd.dev.BindBuffer(buf)
	rd.dev.BufferData(data)
	return buf
}

// Shutdown releases the programs and the quad buffers. Cached textures live
// as long as the GL context.
func (rd *Renderer2D) Shutdown() {
	for _, b := range []gfx.Handle{rd.quadVBO, rd.quadUVBO} {
		if b != 0 {
			rd.dev.DeleteBuffer(b)
		}
	}
	rd.quadVBO, rd.quadUVBO = 0, 0
	if rd.textured != nil {
		rd.textured.Delete()
		rd.textured = nil
	}
	if rd.color != nil {
		rd.color.Delete()
		rd.color = nil
	}
}

func (rd *Renderer2D) SetCamera(c CameraProvider)         { rd.camera = c }
func (rd *Renderer2D) SetTextRasterizer(t TextRasterizer) { rd.text = t }
func (rd *Renderer2D) SetDiagnostics(d Diagnostics)       { rd.diag = d }

// Stats returns the statistics of the last flush.
func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// Len reports queued commands.
func (rd *Renderer2D) Len() int { return len(rd.cmds) }

// Textures exposes the texture cache.
func (rd *Renderer2D) Textures() *gfx.TextureCache { return rd.textures }

// --- queueing ---

// Enqueue appends cmd as is. Missing fields are only detected at flush.
func (rd *Renderer2D) Enqueue(cmd DrawCommand) { rd.cmds = append(rd.cmds, cmd) }

// DrawImage queues src centered at (x,y). Alpha defaults to 1.
func (rd *Renderer2D) DrawImage(src ImageSource, x, y, w, h float32, opts ...ImageOption) {
	cfg := imageConfig{alpha: 1}
	for _, o := range opts {
		o(&cfg)
	}
	rd.Enqueue(DrawCommand{
		Kind: KindImage, Image: src,
		X: x, Y: y, W: w, H: h,
		Alpha: cfg.alpha, Rotation: cfg.rotation, ZIndex: cfg.zIndex,
	})
}

func (rd *Renderer2D) DrawRect(x, y, w, h float32, color colors.Value, zIndex float32) {
	rd.Enqueue(DrawCommand{Kind: KindRect, X: x, Y: y, W: w, H: h, Color: color, ZIndex: zIndex})
}

// DrawCircle queues a filled circle; segments <= 0 uses DefaultCircleSegments.
func (rd *Renderer2D) DrawCircle(cx, cy, radius float32, color colors.Value, segments int, zIndex float32) {
	if segments <= 0 {
		segments = DefaultCircleSegments
	}
	rd.Enqueue(DrawCommand{
		Kind: KindCircle, X: cx, Y: cy,
		Radius: radius, Segments: segments,
		Color: color, ZIndex: zIndex,
	})
}

func (rd *Renderer2D) DrawText(text string, x, y float32, color colors.Value, opts TextOptions, zIndex float32) {
	rd.Enqueue(DrawCommand{
		Kind: KindText, Text: text, X: x, Y: y,
		Color: color, TextOpts: opts, ZIndex: zIndex,
	})
}

// --- flushing ---

// Flush executes every queued command in ascending ZIndex order, keeping
// call order among equal keys, and leaves the queue empty.
func (rd *Renderer2D) Flush() {
	defer profiler.Start("Renderer2D.Flush")()

	rd.stats = Statistics{Commands: len(rd.cmds)}
	uploads := rd.textures.Uploads()
	defer func() {
		clear(rd.cmds)
		rd.cmds = rd.cmds[:0]
	}()

	sort.SliceStable(rd.cmds, func(i, j int) bool {
		return zLess(rd.cmds[i].ZIndex, rd.cmds[j].ZIndex)
	})
	for i := range rd.cmds {
		cmd := &rd.cmds[i]
		res := rd.execute(cmd)
		if res.Status == Executed {
			rd.stats.Executed++
		} else {
			rd.stats.Skipped++
		}
		if rd.diag != nil {
			rd.diag.Observe(cmd, res)
		}
	}

	rd.stats.TextureUploads = rd.textures.Uploads() - uploads
}

// zLess orders by ZIndex with NaN keys after every number.
func zLess(a, b float32) bool {
	if isNaN(a) {
		return false
	}
	return a < b || isNaN(b)
}

func isNaN(f float32) bool { return math.IsNaN(float64(f)) }

// nilSource reports a nil interface or an interface holding a nil pointer.
func nilSource(src ImageSource) bool {
	if src == nil {
		return true
	}
	v := reflect.ValueOf(src)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (rd *Renderer2D) execute(cmd *DrawCommand) Result {
	switch cmd.Kind {
	case KindImage:
		if nilSource(cmd.Image) || cmd.W == 0 || cmd.H == 0 {
			return skipped(cmd.Kind, ReasonMissingField)
		}
		return rd.executeImage(cmd)
	case KindRect:
		if cmd.W == 0 || cmd.H == 0 || cmd.Color == nil {
			return skipped(cmd.Kind, ReasonMissingField)
		}
		return rd.executeRect(cmd)
	case KindCircle:
		if cmd.Radius == 0 || cmd.Segments <= 0 || cmd.Color == nil {
			return skipped(cmd.Kind, ReasonMissingField)
		}
		return rd.executeCircle(cmd)
	case KindText:
		if cmd.Color == nil {
			return skipped(cmd.Kind, ReasonMissingField)
		}
		return rd.executeText(cmd)
	}
	return skipped(cmd.Kind, ReasonMissingField)
}

func (rd *Renderer2D) drawArrays(mode gfx.Primitive, count int32) {
	rd.dev.DrawArrays(mode, 0, count)
	rd.stats.DrawCalls++
	rd.stats.VertexCount += int(count)
}
