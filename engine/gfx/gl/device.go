// Package glbackend implements gfx.Device on OpenGL 3.3 core.
package glbackend

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/biscuit/engine/gfx"
	"github.com/hubastard/biscuit/engine/logging"
)

// Device issues GL calls on the context current on the calling thread.
type Device struct {
	vao uint32
}

var _ gfx.Device = (*Device)(nil)

// NewDevice loads the GL function pointers for the current context. Core
// profile refuses vertex attribute calls without a bound VAO, so one is
// created and kept bound for the device's lifetime.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	logging.Logger().Info("opengl",
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	return d, nil
}

// Release deletes the shared VAO.
func (d *Device) Release() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// --- Shader utilities ---

func (d *Device) CreateShader(stage gfx.ShaderStage) gfx.Handle {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == gfx.StageFragment {
		kind = gl.FRAGMENT_SHADER
	}
	return gfx.Handle(gl.CreateShader(kind))
}

func (d *Device) CompileShader(sh gfx.Handle, source string) bool {
	csrc, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(uint32(sh), 1, csrc, nil)
	gl.CompileShader(uint32(sh))

	var status int32
	gl.GetShaderiv(uint32(sh), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ShaderInfoLog(sh gfx.Handle) string {
	var logLen int32
	gl.GetShaderiv(uint32(sh), gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen))
	gl.GetShaderInfoLog(uint32(sh), logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteShader(sh gfx.Handle)       { gl.DeleteShader(uint32(sh)) }
func (d *Device) CreateProgram() gfx.Handle        { return gfx.Handle(gl.CreateProgram()) }
func (d *Device) AttachShader(prog, sh gfx.Handle) { gl.AttachShader(uint32(prog), uint32(sh)) }

func (d *Device) LinkProgram(prog gfx.Handle) bool {
	gl.LinkProgram(uint32(prog))
	var status int32
	gl.GetProgramiv(uint32(prog), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ProgramInfoLog(prog gfx.Handle) string {
	var logLen int32
	gl.GetProgramiv(uint32(prog), gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen))
	gl.GetProgramInfoLog(uint32(prog), logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteProgram(prog gfx.Handle) { gl.DeleteProgram(uint32(prog)) }
func (d *Device) UseProgram(prog gfx.Handle)    { gl.UseProgram(uint32(prog)) }

func (d *Device) UniformLocation(prog gfx.Handle, name string) gfx.Location {
	return gfx.Location(gl.GetUniformLocation(uint32(prog), gl.Str(name+"\x00")))
}

func (d *Device) AttribLocation(prog gfx.Handle, name string) gfx.Location {
	return gfx.Location(gl.GetAttribLocation(uint32(prog), gl.Str(name+"\x00")))
}

// --- Uniforms ---

func (d *Device) Uniform1f(loc gfx.Location, v float32)       { gl.Uniform1f(int32(loc), v) }
func (d *Device) Uniform2f(loc gfx.Location, x, y float32)    { gl.Uniform2f(int32(loc), x, y) }
func (d *Device) Uniform3f(loc gfx.Location, x, y, z float32) { gl.Uniform3f(int32(loc), x, y, z) }
func (d *Device) Uniform1i(loc gfx.Location, v int32)         { gl.Uniform1i(int32(loc), v) }

func (d *Device) Uniform4f(loc gfx.Location, x, y, z, w float32) {
	gl.Uniform4f(int32(loc), x, y, z, w)
}

func (d *Device) UniformMatrix4fv(loc gfx.Location, m [16]float32) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

// --- Buffers ---

func (d *Device) CreateBuffer() gfx.Handle {
	var b uint32
	gl.GenBuffers(1, &b)
	return gfx.Handle(b)
}

func (d *Device) BindBuffer(buf gfx.Handle) { gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf)) }

func (d *Device) BufferData(data []float32) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Device) DeleteBuffer(buf gfx.Handle) {
	b := uint32(buf)
	gl.DeleteBuffers(1, &b)
}

func (d *Device) EnableVertexAttribArray(loc gfx.Location) {
	gl.EnableVertexAttribArray(uint32(loc))
}

// VertexAttribPointer describes tightly packed float components in the bound
// buffer.
func (d *Device) VertexAttribPointer(loc gfx.Location, size int32) {
	gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false, 0, 0)
}

// --- Textures ---

func (d *Device) CreateTexture() gfx.Handle {
	var t uint32
	gl.GenTextures(1, &t)
	return gfx.Handle(t)
}

func (d *Device) ActiveTexture(unit int)     { gl.ActiveTexture(gl.TEXTURE0 + uint32(unit)) }
func (d *Device) BindTexture(tex gfx.Handle) { gl.BindTexture(gl.TEXTURE_2D, uint32(tex)) }

// TexImage2D uploads img to the bound texture. Flipping and premultiplying
// happen on the CPU; desktop GL has no unpack flags for either.
func (d *Device) TexImage2D(img image.Image, opts gfx.UploadOptions) {
	pix, w, h := gfx.PackPixels(img, opts)
	if pix == nil {
		return
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
}

func (d *Device) TexParameters(p gfx.SamplerParams) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(p.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(p.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap(p.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap(p.WrapT))
}

func filter(f gfx.Filter) int32 {
	if f == gfx.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func wrap(w gfx.Wrap) int32 {
	if w == gfx.WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

// --- Drawing ---

func (d *Device) DrawArrays(mode gfx.Primitive, first, count int32) {
	m := uint32(gl.TRIANGLES)
	if mode == gfx.TriangleFan {
		m = gl.TRIANGLE_FAN
	}
	gl.DrawArrays(m, first, count)
}

func (d *Device) EnableAlphaBlend() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (d *Device) Viewport(w, h int) { gl.Viewport(0, 0, int32(w), int32(h)) }

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}
