package renderer2d

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/biscuit/engine/colors"
	"github.com/hubastard/biscuit/engine/gfx"
	"github.com/hubastard/biscuit/engine/gfx/gfxtest"
)

var testShaders = Shaders{
	TexturedVertex: `#version 330 core
in vec2 a_position;
in vec2 a_uv;
uniform mat4 u_model;
uniform mat4 u_view;
uniform mat4 u_projection;
out vec2 v_uv;
void main() {
    v_uv = a_uv;
    gl_Position = u_projection * u_view * u_model * vec4(a_position, 0.0, 1.0);
}`,
	TexturedFragment: `#version 330 core
in vec2 v_uv;
uniform sampler2D u_texture;
uniform float u_alpha;
out vec4 fragColor;
void main() { fragColor = texture(u_texture, v_uv) * u_alpha; }`,
	ColorVertex: `#version 330 core
in vec2 a_position;
uniform mat4 u_model;
uniform mat4 u_view;
uniform mat4 u_projection;
void main() {
    gl_Position = u_projection * u_view * u_model * vec4(a_position, 0.0, 1.0);
}`,
	ColorFragment: `#version 330 core
uniform vec4 u_color;
out vec4 fragColor;
void main() { fragColor = u_color; }`,
}

type fakeImage struct {
	loaded bool
	img    image.Image
}

func (f *fakeImage) IsLoaded() bool     { return f.loaded }
func (f *fakeImage) Image() image.Image { return f.img }

func loadedImage() *fakeImage {
	return &fakeImage{loaded: true, img: image.NewRGBA(image.Rect(0, 0, 2, 2))}
}

type fakeText struct {
	w, h  int
	calls []string
	err   error
}

func (f *fakeText) Size() (int, int) { return f.w, f.h }

func (f *fakeText) Rasterize(s string, _ colors.Color, _ TextOptions) (image.Image, error) {
	f.calls = append(f.calls, s)
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, f.w, f.h)), nil
}

type fakeCamera struct{ view, proj mgl32.Mat4 }

func (c fakeCamera) View() mgl32.Mat4       { return c.view }
func (c fakeCamera) Projection() mgl32.Mat4 { return c.proj }

func newTestRenderer(t *testing.T) (*Renderer2D, *gfxtest.Device, *Collector) {
	t.Helper()
	dev := gfxtest.NewDevice()
	col := &Collector{}
	rd, err := New(dev, Config{
		Shaders:     testShaders,
		Text:        &fakeText{w: 1024, h: 256},
		Diagnostics: col,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rd, dev, col
}

func TestNewEnablesBlendAndUploadsQuad(t *testing.T) {
	_, dev, _ := newTestRenderer(t)
	if !dev.Blend {
		t.Error("alpha blending not enabled")
	}
	if dev.LiveBuffers() != 2 {
		t.Errorf("live buffers = %d, want 2 (quad positions + uvs)", dev.LiveBuffers())
	}
}

func TestNewPropagatesShaderErrors(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.CompileFailures = map[gfx.ShaderStage]string{gfx.StageVertex: "bad vertex"}
	_, err := New(dev, Config{Shaders: testShaders})
	var ce *gfx.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *gfx.CompileError", err)
	}

	dev = gfxtest.NewDevice()
	dev.LinkFailure = "link failed"
	_, err = New(dev, Config{Shaders: testShaders})
	var le *gfx.LinkError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *gfx.LinkError", err)
	}
}

func TestFlushEmptiesQueue(t *testing.T) {
	rd, _, _ := newTestRenderer(t)
	rd.DrawRect(0, 0, 10, 10, colors.Red, 0)
	rd.DrawImage(&fakeImage{}, 0, 0, 10, 10) // not loaded
	rd.Enqueue(DrawCommand{Kind: KindRect, W: 1, H: 1})
	rd.DrawCircle(0, 0, 0, colors.Red, 8, 0) // zero radius

	if rd.Len() != 4 {
		t.Fatalf("Len = %d, want 4", rd.Len())
	}
	rd.Flush()
	if rd.Len() != 0 {
		t.Errorf("Len after flush = %d, want 0", rd.Len())
	}
	st := rd.Stats()
	if st.Commands != 4 || st.Executed != 1 || st.Skipped != 3 {
		t.Errorf("stats = %+v, want 4 commands, 1 executed, 3 skipped", st)
	}
}

func TestFlushStableSortByZIndex(t *testing.T) {
	rd, dev, col := newTestRenderer(t)
	a, b, c := colors.Color{1, 0, 0, 1}, colors.Color{0, 1, 0, 1}, colors.Color{0, 0, 1, 1}
	rd.DrawRect(0, 0, 1, 1, a, 0)
	rd.DrawRect(0, 0, 1, 1, b, 0)
	rd.DrawRect(0, 0, 1, 1, c, -1)
	rd.Flush()

	want := []colors.Color{c, a, b}
	if len(col.Observations) != 3 || len(dev.Draws) != 3 {
		t.Fatalf("observations=%d draws=%d, want 3", len(col.Observations), len(dev.Draws))
	}
	for i, w := range want {
		if got := col.Observations[i].Command.Color.RGBA(); got != w {
			t.Errorf("observation %d color = %v, want %v", i, got, w)
		}
		if got := dev.Draws[i].Uniforms["u_color"]; got != [4]float32(w) {
			t.Errorf("draw %d u_color = %v, want %v", i, got, w)
		}
	}
}

func TestManyEqualZIndexKeepCallOrder(t *testing.T) {
	rd, _, col := newTestRenderer(t)
	for i := 0; i < 50; i++ {
		rd.DrawRect(float32(i), 0, 1, 1, colors.White, float32(i%3))
	}
	rd.Flush()

	last := map[float32]float32{0: -1, 1: -1, 2: -1}
	prevZ := float32(-1)
	for _, o := range col.Observations {
		if o.Command.ZIndex < prevZ {
			t.Fatalf("z %v after %v", o.Command.ZIndex, prevZ)
		}
		prevZ = o.Command.ZIndex
		if o.Command.X <= last[o.Command.ZIndex] {
			t.Fatalf("x %v not after %v within z=%v", o.Command.X, last[o.Command.ZIndex], o.Command.ZIndex)
		}
		last[o.Command.ZIndex] = o.Command.X
	}
}

func TestUnloadedImageIsSkipped(t *testing.T) {
	rd, dev, col := newTestRenderer(t)
	rd.DrawImage(&fakeImage{}, 0, 0, 32, 32)
	rd.Flush()

	if len(dev.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(dev.Draws))
	}
	skips := col.Skipped()
	if len(skips) != 1 || skips[0].Result.Reason != ReasonNotLoaded {
		t.Errorf("skips = %+v, want one ReasonNotLoaded", skips)
	}
	if dev.Textures() != 0 {
		t.Errorf("textures = %d, want 0", dev.Textures())
	}
}

func TestImageBecomesDrawableOnceLoaded(t *testing.T) {
	rd, dev, _ := newTestRenderer(t)
	img := &fakeImage{}
	rd.DrawImage(img, 0, 0, 32, 32)
	rd.Flush()

	img.loaded = true
	img.img = image.NewRGBA(image.Rect(0, 0, 8, 8))
	rd.DrawImage(img, 0, 0, 32, 32, WithAlpha(0.5), WithZIndex(3))
	rd.DrawImage(img, 5, 5, 32, 32)
	rd.Flush()

	if len(dev.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(dev.Draws))
	}
	if dev.Draws[0].Texture == 0 || dev.Draws[0].Texture != dev.Draws[1].Texture {
		t.Errorf("textures = %d,%d, want one shared texture", dev.Draws[0].Texture, dev.Draws[1].Texture)
	}
	if rd.Textures().Len() != 1 {
		t.Errorf("cached images = %d, want 1", rd.Textures().Len())
	}
	// zIndex 3 sorts after the default 0
	if got := dev.Draws[1].Uniforms["u_alpha"]; got != float32(0.5) {
		t.Errorf("u_alpha = %v, want 0.5", got)
	}
	if got := dev.Draws[0].Uniforms["u_alpha"]; got != float32(1) {
		t.Errorf("default u_alpha = %v, want 1", got)
	}
	if got := dev.Draws[0].Uniforms["u_texture"]; got != int32(0) {
		t.Errorf("u_texture = %v, want 0", got)
	}
	if len(dev.Draws[0].Attribs["a_uv"]) != 12 {
		t.Errorf("a_uv not bound to the quad uv buffer: %v", dev.Draws[0].Attribs["a_uv"])
	}
}

func TestImageMissingSizeIsSkipped(t *testing.T) {
	rd, dev, col := newTestRenderer(t)
	rd.DrawImage(loadedImage(), 0, 0, 0, 10)
	rd.DrawImage(nil, 0, 0, 10, 10)
	rd.Flush()
	if len(dev.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(dev.Draws))
	}
	for _, o := range col.Skipped() {
		if o.Result.Reason != ReasonMissingField {
			t.Errorf("reason = %q, want missing field", o.Result.Reason)
		}
	}
}

func TestTypedNilImageIsSkipped(t *testing.T) {
	rd, dev, col := newTestRenderer(t)
	var src *fakeImage
	rd.DrawImage(src, 0, 0, 10, 10)
	rd.DrawRect(0, 0, 10, 10, colors.Red, 1)
	rd.Flush()

	if rd.Len() != 0 {
		t.Errorf("Len after flush = %d, want 0", rd.Len())
	}
	if len(dev.Draws) != 1 {
		t.Errorf("draws = %d, want 1 (the rect)", len(dev.Draws))
	}
	skips := col.Skipped()
	if len(skips) != 1 || skips[0].Result.Reason != ReasonMissingField {
		t.Errorf("skips = %+v, want one ReasonMissingField", skips)
	}
}

type panickingImage struct{}

func (*panickingImage) IsLoaded() bool     { panic("broken source") }
func (*panickingImage) Image() image.Image { return nil }

func TestFlushEmptiesQueueWhenCommandPanics(t *testing.T) {
	rd, _, _ := newTestRenderer(t)
	rd.DrawImage(&panickingImage{}, 0, 0, 10, 10)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the source panic to propagate")
			}
		}()
		rd.Flush()
	}()
	if rd.Len() != 0 {
		t.Errorf("Len after panicking flush = %d, want 0", rd.Len())
	}
}

func TestImageCommandAlphaIsPassedThrough(t *testing.T) {
	rd, dev, _ := newTestRenderer(t)
	rd.Enqueue(DrawCommand{Kind: KindImage, Image: loadedImage(), W: 4, H: 4})
	rd.Enqueue(DrawCommand{Kind: KindImage, Image: loadedImage(), W: 4, H: 4, Alpha: 0.25, ZIndex: 1})
	rd.Flush()

	if len(dev.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(dev.Draws))
	}
	if got := dev.Draws[0].Uniforms["u_alpha"]; got != float32(0) {
		t.Errorf("zero-value u_alpha = %v, want 0", got)
	}
	if got := dev.Draws[1].Uniforms["u_alpha"]; got != float32(0.25) {
		t.Errorf("u_alpha = %v, want 0.25", got)
	}
}

func TestNaNZIndexSortsLast(t *testing.T) {
	rd, _, col := newTestRenderer(t)
	nan := float32(math.NaN())
	for i, z := range []float32{2, nan, 1, 0} {
		rd.DrawRect(float32(i), 0, 1, 1, colors.White, z)
	}
	rd.Flush()

	if len(col.Observations) != 4 {
		t.Fatalf("observations = %d, want 4", len(col.Observations))
	}
	for i, want := range []float32{0, 1, 2} {
		if got := col.Observations[i].Command.ZIndex; got != want {
			t.Errorf("observation %d z = %v, want %v", i, got, want)
		}
	}
	if z := col.Observations[3].Command.ZIndex; !math.IsNaN(float64(z)) {
		t.Errorf("last z = %v, want NaN", z)
	}
}

func TestRectWithoutColorIsSkipped(t *testing.T) {
	rd, dev, col := newTestRenderer(t)
	rd.DrawRect(0, 0, 10, 10, nil, 0)
	rd.Flush()

	if len(dev.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(dev.Draws))
	}
	if skips := col.Skipped(); len(skips) != 1 || skips[0].Result.Reason != ReasonMissingField {
		t.Errorf("skips = %+v", skips)
	}
}

func TestRectIssuesOneTriangleListDraw(t *testing.T) {
	rd, dev, _ := newTestRenderer(t)
	rd.DrawRect(10, 20, 30, 40, colors.Hex("#ff8000"), 0)
	rd.Flush()

	if len(dev.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.Draws))
	}
	d := dev.Draws[0]
	if d.Mode != gfx.Triangles || d.Count != 6 || d.First != 0 {
		t.Errorf("draw = %v first=%d count=%d, want TRIANGLES 0..6", d.Mode, d.First, d.Count)
	}
	if len(d.Attribs["a_position"]) != 12 {
		t.Errorf("a_position data = %v, want the unit quad", d.Attribs["a_position"])
	}
	col := d.Uniforms["u_color"].([4]float32)
	if col[0] != 1 || col[2] != 0 || col[3] != 1 || math.Abs(float64(col[1])-0.50196) > 1e-4 {
		t.Errorf("u_color = %v", col)
	}
	st := rd.Stats()
	if st.DrawCalls != 1 || st.VertexCount != 6 {
		t.Errorf("stats = %+v", st)
	}
}

func TestCircleUsesTransientFan(t *testing.T) {
	rd, dev, _ := newTestRenderer(t)
	baseline := dev.LiveBuffers()

	rd.DrawCircle(5, 5, 10, colors.Green, 8, 0)
	rd.Flush()

	if len(dev.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.Draws))
	}
	d := dev.Draws[0]
	if d.Mode != gfx.TriangleFan || d.Count != 9 {
		t.Errorf("draw = %v count=%d, want TRIANGLE_FAN of 9", d.Mode, d.Count)
	}
	if got := len(d.Attribs["a_position"]); got != 9*2 {
		t.Errorf("fan buffer holds %d floats, want 18", got)
	}
	if dev.LiveBuffers() != baseline {
		t.Errorf("live buffers = %d, want baseline %d", dev.LiveBuffers(), baseline)
	}
}

func TestCircleDefaultSegments(t *testing.T) {
	rd, dev, _ := newTestRenderer(t)
	rd.DrawCircle(0, 0, 3, colors.Blue, 0, 0)
	rd.Flush()
	if len(dev.Draws) != 1 || dev.Draws[0].Count != DefaultCircleSegments+1 {
		t.Fatalf("draws = %+v, want one fan of %d", dev.Draws, DefaultCircleSegments+1)
	}
}

type countingPool struct {
	inner    GeometryPool
	acquired int
	released int
}

func (p *countingPool) Acquire(v []float32) gfx.Handle { p.acquired++; return p.inner.Acquire(v) }
func (p *countingPool) Release(b gfx.Handle)           { p.released++; p.inner.Release(b) }

func TestCircleGoesThroughGeometryPool(t *testing.T) {
	dev := gfxtest.NewDevice()
	pool := &countingPool{inner: NewTransientGeometry(dev)}
	rd, err := New(dev, Config{Shaders: testShaders, Geometry: pool})
	if err != nil {
		t.Fatal(err)
	}
	rd.DrawCircle(0, 0, 1, colors.White, 4, 0)
	rd.DrawCircle(0, 0, 1, colors.White, 4, 0)
	rd.Flush()
	if pool.acquired != 2 || pool.released != 2 {
		t.Errorf("acquired=%d released=%d, want 2/2", pool.acquired, pool.released)
	}
}

func TestTextRewritesSizeAndReuploads(t *testing.T) {
	rd, dev, col := newTestRenderer(t)
	rd.DrawText("score", 0, 0, colors.White, TextOptions{Font: "12px 'Arial'"}, 0)
	rd.Flush()
	rd.DrawText("score", 0, 0, colors.White, TextOptions{}, 0)
	rd.Flush()

	if len(dev.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(dev.Draws))
	}
	for _, o := range col.Observations {
		if o.Command.W != 512 || o.Command.H != 128 {
			t.Errorf("text size = %vx%v, want 512x128", o.Command.W, o.Command.H)
		}
	}
	if rd.Textures().TextLen() != 1 {
		t.Errorf("text textures = %d, want 1", rd.Textures().TextLen())
	}
	tex := dev.Texture(dev.Draws[0].Texture)
	if tex == nil || tex.Uploads != 2 {
		t.Errorf("text texture uploads = %+v, want 2", tex)
	}
	if rd.Stats().TextureUploads != 1 {
		t.Errorf("uploads in last flush = %d, want 1", rd.Stats().TextureUploads)
	}
}

func TestTextSkipReasons(t *testing.T) {
	dev := gfxtest.NewDevice()
	col := &Collector{}
	rd, err := New(dev, Config{Shaders: testShaders, Diagnostics: col})
	if err != nil {
		t.Fatal(err)
	}
	rd.DrawText("a", 0, 0, colors.White, TextOptions{}, 0)
	rd.DrawText("b", 0, 0, nil, TextOptions{}, 0)
	rd.Flush()

	rd.SetTextRasterizer(&fakeText{w: 8, h: 8, err: errors.New("no face")})
	rd.DrawText("c", 0, 0, colors.White, TextOptions{}, 0)
	rd.Flush()

	want := []Reason{ReasonNoRasterizer, ReasonMissingField, ReasonRasterizeFail}
	skips := col.Skipped()
	if len(skips) != len(want) {
		t.Fatalf("skips = %+v", skips)
	}
	for i, r := range want {
		if skips[i].Result.Reason != r {
			t.Errorf("skip %d = %q, want %q", i, skips[i].Result.Reason, r)
		}
	}
	if len(dev.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(dev.Draws))
	}
}

func TestMissingShaderIsSkipped(t *testing.T) {
	rd, dev, col := newTestRenderer(t)
	rd.color = nil
	rd.DrawRect(0, 0, 1, 1, colors.White, 0)
	rd.DrawCircle(0, 0, 1, colors.White, 3, 0)
	rd.Flush()
	if len(dev.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(dev.Draws))
	}
	for _, o := range col.Skipped() {
		if o.Result.Reason != ReasonNoShader {
			t.Errorf("reason = %q, want no shader", o.Result.Reason)
		}
	}
}

func TestFlushReissuesEveryFrame(t *testing.T) {
	rd, dev, _ := newTestRenderer(t)
	for frame := 0; frame < 3; frame++ {
		rd.DrawRect(0, 0, 1, 1, colors.White, 0)
		rd.Flush()
		if rd.Len() != 0 {
			t.Fatalf("frame %d: Len = %d", frame, rd.Len())
		}
	}
	if len(dev.Draws) != 3 {
		t.Errorf("draws = %d, want 3", len(dev.Draws))
	}
	rd.Flush()
	if rd.Stats().Commands != 0 || len(dev.Draws) != 3 {
		t.Errorf("empty flush drew something: %+v", rd.Stats())
	}
}

func TestCameraMatricesAreForwarded(t *testing.T) {
	rd, dev, _ := newTestRenderer(t)
	cam := fakeCamera{view: mgl32.Translate3D(-5, -6, 0), proj: mgl32.Ortho(-1, 1, -1, 1, -1, 1)}
	rd.SetCamera(cam)
	rd.DrawRect(0, 0, 2, 2, colors.White, 0)
	rd.Flush()

	u := dev.Draws[0].Uniforms
	if u["u_view"] != [16]float32(cam.view) || u["u_projection"] != [16]float32(cam.proj) {
		t.Errorf("view/projection not forwarded: %v %v", u["u_view"], u["u_projection"])
	}
}

func TestQuadModelCentersShape(t *testing.T) {
	m := quadModel(100, 50, 20, 10, 0)
	// unit-quad corners land on the box centered at (100,50)
	lo := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	hi := m.Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	if !vecNear(lo, 90, 45) || !vecNear(hi, 110, 55) {
		t.Errorf("corners = %v %v, want (90,45) (110,55)", lo, hi)
	}
}

func TestQuadModelRotatesClockwise(t *testing.T) {
	m := quadModel(0, 0, 2, 2, math.Pi/2)
	// the (1,1) corner of a 2x2 box is at (+1,+1) from center; a clockwise
	// quarter turn moves it to (+1,-1)
	p := m.Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	if !vecNear(p, 1, -1) {
		t.Errorf("rotated corner = %v, want (1,-1)", p)
	}
}

func TestCircleModelRotatesCounterClockwise(t *testing.T) {
	rd, dev, _ := newTestRenderer(t)
	rd.Enqueue(DrawCommand{
		Kind: KindCircle, X: 30, Y: -10, Rotation: math.Pi / 2,
		Radius: 5, Segments: 8, Color: colors.White,
	})
	rd.Flush()

	if len(dev.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.Draws))
	}
	raw, ok := dev.Draws[0].Uniforms["u_model"].([16]float32)
	if !ok {
		t.Fatalf("u_model = %v", dev.Draws[0].Uniforms["u_model"])
	}
	m := mgl32.Mat4(raw)
	// no scale: the center lands on (cx,cy)
	if p := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}); !vecNear(p, 30, -10) {
		t.Errorf("center = %v, want (30,-10)", p)
	}
	// +x turns to +y, unlike quads
	if p := m.Mul4x1(mgl32.Vec4{5, 0, 0, 1}); !vecNear(p, 30, -5) {
		t.Errorf("rim point = %v, want (30,-5)", p)
	}
}

func vecNear(v mgl32.Vec4, x, y float32) bool {
	return math.Abs(float64(v[0]-x)) < 1e-4 && math.Abs(float64(v[1]-y)) < 1e-4
}
