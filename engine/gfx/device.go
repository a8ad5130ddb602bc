// Package gfx is the thin layer between the renderer and a GPU context:
// the Device draw-primitive interface plus shader and texture bookkeeping
// built on top of it.
package gfx

import "image"

// Handle names a GPU object (shader, program, buffer, texture). Zero is
// never a valid object.
type Handle uint32

// Location is a resolved uniform or attribute slot. -1 means the name did
// not resolve to an active slot.
type Location int32

const InvalidLocation Location = -1

type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return "unknown"
}

type Primitive int

const (
	Triangles Primitive = iota
	TriangleFan
)

func (p Primitive) String() string {
	if p == TriangleFan {
		return "TRIANGLE_FAN"
	}
	return "TRIANGLES"
}

type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

type Wrap int

const (
	WrapClampToEdge Wrap = iota
	WrapRepeat
)

// UploadOptions mirrors the pixel unpack state used when sending image data.
type UploadOptions struct {
	FlipY            bool
	PremultiplyAlpha bool
}

// SamplerParams are applied to the currently bound texture.
type SamplerParams struct {
	MinFilter, MagFilter Filter
	WrapS, WrapT         Wrap
}

// LinearClamp is the sampling used for every texture the renderer creates.
var LinearClamp = SamplerParams{
	MinFilter: FilterLinear, MagFilter: FilterLinear,
	WrapS: WrapClampToEdge, WrapT: WrapClampToEdge,
}

// Device is the set of GPU primitives the renderer issues. It follows the
// bind-then-operate model of GL: buffer and texture calls act on whatever is
// currently bound, and that state is shared by every caller.
type Device interface {
	// Shaders and programs.
	CreateShader(stage ShaderStage) Handle
	CompileShader(sh Handle, source string) bool
	ShaderInfoLog(sh Handle) string
	DeleteShader(sh Handle)
	CreateProgram() Handle
	AttachShader(prog, sh Handle)
	LinkProgram(prog Handle) bool
	ProgramInfoLog(prog Handle) string
	DeleteProgram(prog Handle)
	UseProgram(prog Handle)
	UniformLocation(prog Handle, name string) Location
	AttribLocation(prog Handle, name string) Location

	// Uniform setters act on the program in use.
	Uniform1f(loc Location, v float32)
	Uniform2f(loc Location, x, y float32)
	Uniform3f(loc Location, x, y, z float32)
	Uniform4f(loc Location, x, y, z, w float32)
	Uniform1i(loc Location, v int32)
	UniformMatrix4fv(loc Location, m [16]float32)

	// Vertex buffers (array buffer target only).
	CreateBuffer() Handle
	BindBuffer(buf Handle)
	BufferData(data []float32)
	DeleteBuffer(buf Handle)
	EnableVertexAttribArray(loc Location)
	VertexAttribPointer(loc Location, size int32)

	// Textures (2D target only).
	CreateTexture() Handle
	ActiveTexture(unit int)
	BindTexture(tex Handle)
	TexImage2D(img image.Image, opts UploadOptions)
	TexParameters(p SamplerParams)

	DrawArrays(mode Primitive, first, count int32)

	// Frame state.
	EnableAlphaBlend()
	Viewport(w, h int)
	Clear(r, g, b, a float32)
}
