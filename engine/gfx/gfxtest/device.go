// Package gfxtest provides a recording gfx.Device for tests that need to
// observe GPU calls without a live context.
package gfxtest

import (
	"image"
	"maps"
	"regexp"
	"slices"

	"github.com/hubastard/biscuit/engine/gfx"
)

var (
	uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)`)
	inputDecl   = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:in|attribute)\s+\w+\s+(\w+)`)
)

// Draw is one recorded DrawArrays call together with the state it used.
type Draw struct {
	Mode     gfx.Primitive
	First    int32
	Count    int32
	Program  gfx.Handle
	Texture  gfx.Handle
	Uniforms map[string]any
	// Attribs holds the data of the buffer bound to each enabled input of
	// the program, keyed by input name.
	Attribs map[string][]float32
}

// Program is a linked program. Uniform and attribute locations are indices
// into the declaration-ordered name lists parsed from the sources.
type Program struct {
	Uniforms []string
	Attribs  []string
	Values   map[string]any
	shaders  []gfx.Handle
}

type Texture struct {
	Width, Height int
	Uploads       int
	Options       gfx.UploadOptions
	Params        gfx.SamplerParams
	Pixels        image.Image
}

type shader struct {
	stage  gfx.ShaderStage
	source string
}

// Device records every call. Set CompileFailures or LinkFailure to make the
// corresponding step fail with that log text.
type Device struct {
	CompileFailures map[gfx.ShaderStage]string
	LinkFailure     string

	Draws  []Draw
	Blend  bool
	Width  int
	Height int
	Clears int

	next       gfx.Handle
	shaders    map[gfx.Handle]*shader
	programs   map[gfx.Handle]*Program
	buffers    map[gfx.Handle][]float32
	textures   map[gfx.Handle]*Texture
	current    gfx.Handle
	buffer     gfx.Handle
	unit       int
	bound      map[int]gfx.Handle
	attribBufs map[gfx.Location]gfx.Handle
	enabled    map[gfx.Location]bool
}

var _ gfx.Device = (*Device)(nil)

func NewDevice() *Device {
	return &Device{
		shaders:    make(map[gfx.Handle]*shader),
		programs:   make(map[gfx.Handle]*Program),
		buffers:    make(map[gfx.Handle][]float32),
		textures:   make(map[gfx.Handle]*Texture),
		bound:      make(map[int]gfx.Handle),
		attribBufs: make(map[gfx.Location]gfx.Handle),
		enabled:    make(map[gfx.Location]bool),
	}
}

func (d *Device) alloc() gfx.Handle {
	d.next++
	return d.next
}

// LiveBuffers reports buffers created and not yet deleted.
func (d *Device) LiveBuffers() int { return len(d.buffers) }

func (d *Device) Texture(h gfx.Handle) *Texture { return d.textures[h] }
func (d *Device) Textures() int                 { return len(d.textures) }
func (d *Device) Program(h gfx.Handle) *Program { return d.programs[h] }
func (d *Device) Programs() int                 { return len(d.programs) }
func (d *Device) Shaders() int                  { return len(d.shaders) }

// ResetDraws forgets recorded draws, keeping all other state.
func (d *Device) ResetDraws() { d.Draws = nil }

// --- shaders ---

func (d *Device) CreateShader(stage gfx.ShaderStage) gfx.Handle {
	h := d.alloc()
	d.shaders[h] = &shader{stage: stage}
	return h
}

func (d *Device) CompileShader(sh gfx.Handle, source string) bool {
	s, ok := d.shaders[sh]
	if !ok {
		return false
	}
	s.source = source
	_, fail := d.CompileFailures[s.stage]
	return !fail
}

func (d *Device) ShaderInfoLog(sh gfx.Handle) string {
	if s, ok := d.shaders[sh]; ok {
		return d.CompileFailures[s.stage]
	}
	return ""
}

func (d *Device) DeleteShader(sh gfx.Handle) { delete(d.shaders, sh) }

func (d *Device) CreateProgram() gfx.Handle {
	h := d.alloc()
	d.programs[h] = &Program{Values: make(map[string]any)}
	return h
}

func (d *Device) AttachShader(prog, sh gfx.Handle) {
	if p, ok := d.programs[prog]; ok {
		p.shaders = append(p.shaders, sh)
	}
}

func (d *Device) LinkProgram(prog gfx.Handle) bool {
	p, ok := d.programs[prog]
	if !ok || d.LinkFailure != "" {
		return false
	}
	for _, sh := range p.shaders {
		s := d.shaders[sh]
		if s == nil {
			continue
		}
		for _, m := range uniformDecl.FindAllStringSubmatch(s.source, -1) {
			if !slices.Contains(p.Uniforms, m[1]) {
				p.Uniforms = append(p.Uniforms, m[1])
			}
		}
		if s.stage == gfx.StageVertex {
			for _, m := range inputDecl.FindAllStringSubmatch(s.source, -1) {
				p.Attribs = append(p.Attribs, m[1])
			}
		}
	}
	return true
}

func (d *Device) ProgramInfoLog(gfx.Handle) string { return d.LinkFailure }

func (d *Device) DeleteProgram(prog gfx.Handle) { delete(d.programs, prog) }

func (d *Device) UseProgram(prog gfx.Handle) { d.current = prog }

func (d *Device) UniformLocation(prog gfx.Handle, name string) gfx.Location {
	if p, ok := d.programs[prog]; ok {
		if i := slices.Index(p.Uniforms, name); i >= 0 {
			return gfx.Location(i)
		}
	}
	return gfx.InvalidLocation
}

func (d *Device) AttribLocation(prog gfx.Handle, name string) gfx.Location {
	if p, ok := d.programs[prog]; ok {
		if i := slices.Index(p.Attribs, name); i >= 0 {
			return gfx.Location(i)
		}
	}
	return gfx.InvalidLocation
}

func (d *Device) setUniform(loc gfx.Location, v any) {
	p := d.programs[d.current]
	if p == nil || loc < 0 || int(loc) >= len(p.Uniforms) {
		return
	}
	p.Values[p.Uniforms[loc]] = v
}

func (d *Device) Uniform1f(loc gfx.Location, v float32) { d.setUniform(loc, v) }
func (d *Device) Uniform2f(loc gfx.Location, x, y float32) {
	d.setUniform(loc, [2]float32{x, y})
}
func (d *Device) Uniform3f(loc gfx.Location, x, y, z float32) {
	d.setUniform(loc, [3]float32{x, y, z})
}
func (d *Device) Uniform4f(loc gfx.Location, x, y, z, w float32) {
	d.setUniform(loc, [4]float32{x, y, z, w})
}
func (d *Device) Uniform1i(loc gfx.Location, v int32)              { d.setUniform(loc, v) }
func (d *Device) UniformMatrix4fv(loc gfx.Location, m [16]float32) { d.setUniform(loc, m) }

// --- buffers ---

func (d *Device) CreateBuffer() gfx.Handle {
	h := d.alloc()
	d.buffers[h] = nil
	return h
}

func (d *Device) BindBuffer(buf gfx.Handle) { d.buffer = buf }

func (d *Device) BufferData(data []float32) {
	if _, ok := d.buffers[d.buffer]; ok {
		d.buffers[d.buffer] = slices.Clone(data)
	}
}

func (d *Device) DeleteBuffer(buf gfx.Handle) {
	delete(d.buffers, buf)
	if d.buffer == buf {
		d.buffer = 0
	}
}

func (d *Device) EnableVertexAttribArray(loc gfx.Location) { d.enabled[loc] = true }

func (d *Device) VertexAttribPointer(loc gfx.Location, _ int32) {
	d.attribBufs[loc] = d.buffer
}

// --- textures ---

func (d *Device) CreateTexture() gfx.Handle {
	h := d.alloc()
	d.textures[h] = &Texture{}
	return h
}

func (d *Device) ActiveTexture(unit int) { d.unit = unit }

func (d *Device) BindTexture(tex gfx.Handle) { d.bound[d.unit] = tex }

func (d *Device) TexImage2D(img image.Image, opts gfx.UploadOptions) {
	t := d.textures[d.bound[d.unit]]
	if t == nil || img == nil {
		return
	}
	b := img.Bounds()
	t.Width, t.Height = b.Dx(), b.Dy()
	t.Options = opts
	t.Pixels = img
	t.Uploads++
}

func (d *Device) TexParameters(p gfx.SamplerParams) {
	if t := d.textures[d.bound[d.unit]]; t != nil {
		t.Params = p
	}
}

// --- drawing ---

func (d *Device) DrawArrays(mode gfx.Primitive, first, count int32) {
	dr := Draw{
		Mode:    mode,
		First:   first,
		Count:   count,
		Program: d.current,
		Texture: d.bound[d.unit],
		Attribs: make(map[string][]float32),
	}
	if p := d.programs[d.current]; p != nil {
		dr.Uniforms = maps.Clone(p.Values)
		for i, name := range p.Attribs {
			loc := gfx.Location(i)
			if !d.enabled[loc] {
				continue
			}
			if data, ok := d.buffers[d.attribBufs[loc]]; ok {
				dr.Attribs[name] = slices.Clone(data)
			}
		}
	}
	d.Draws = append(d.Draws, dr)
}

func (d *Device) EnableAlphaBlend()        { d.Blend = true }
func (d *Device) Viewport(w, h int)        { d.Width, d.Height = w, h }
func (d *Device) Clear(_, _, _, _ float32) { d.Clears++ }
