package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// CompileError reports a stage that failed to compile, with the compiler log.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compile error: %s", e.Stage, strings.TrimRight(e.Log, "\x00\n "))
}

// LinkError reports a program that failed to link, with the linker log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program link error: %s", strings.TrimRight(e.Log, "\x00\n "))
}

// Shader is a linked vertex+fragment program. Uniform and attribute lookups
// are cached by name, unresolved names included.
type Shader struct {
	dev      Device
	program  Handle
	uniforms map[string]Location
	attribs  map[string]Location
}

// CompileShader compiles both stages and links them.
func CompileShader(dev Device, vertexSource, fragmentSource string) (*Shader, error) {
	vs, err := compileStage(dev, StageVertex, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := compileStage(dev, StageFragment, fragmentSource)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}

	prog := dev.CreateProgram()
	dev.AttachShader(prog, vs)
	dev.AttachShader(prog, fs)
	ok := dev.LinkProgram(prog)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if !ok {
		log := dev.ProgramInfoLog(prog)
		dev.DeleteProgram(prog)
		return nil, &LinkError{Log: log}
	}

	return &Shader{
		dev:      dev,
		program:  prog,
		uniforms: make(map[string]Location),
		attribs:  make(map[string]Location),
	}, nil
}

func compileStage(dev Device, stage ShaderStage, src string) (Handle, error) {
	sh := dev.CreateShader(stage)
	if !dev.CompileShader(sh, src) {
		log := dev.ShaderInfoLog(sh)
		dev.DeleteShader(sh)
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return sh, nil
}

func (s *Shader) Program() Handle { return s.program }

// Use makes this the active program for subsequent draws.
func (s *Shader) Use() { s.dev.UseProgram(s.program) }

// Delete releases the program. The shader must not be used afterwards.
func (s *Shader) Delete() {
	if s.program != 0 {
		s.dev.DeleteProgram(s.program)
		s.program = 0
	}
}

// AttribLocation returns InvalidLocation when name is not an active input.
func (s *Shader) AttribLocation(name string) Location {
	if loc, ok := s.attribs[name]; ok {
		return loc
	}
	loc := s.dev.AttribLocation(s.program, name)
	s.attribs[name] = loc
	return loc
}

func (s *Shader) uniform(name string) Location {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := s.dev.UniformLocation(s.program, name)
	s.uniforms[name] = loc
	return loc
}

// The setters below do nothing when the uniform is not active in the program.

func (s *Shader) SetFloat(name string, v float32) {
	if loc := s.uniform(name); loc >= 0 {
		s.dev.Uniform1f(loc, v)
	}
}

func (s *Shader) SetVec2(name string, x, y float32) {
	if loc := s.uniform(name); loc >= 0 {
		s.dev.Uniform2f(loc, x, y)
	}
}

func (s *Shader) SetVec3(name string, x, y, z float32) {
	if loc := s.uniform(name); loc >= 0 {
		s.dev.Uniform3f(loc, x, y, z)
	}
}

func (s *Shader) SetVec4(name string, v [4]float32) {
	if loc := s.uniform(name); loc >= 0 {
		s.dev.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func (s *Shader) SetInt(name string, v int32) {
	if loc := s.uniform(name); loc >= 0 {
		s.dev.Uniform1i(loc, v)
	}
}

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	if loc := s.uniform(name); loc >= 0 {
		s.dev.UniformMatrix4fv(loc, m)
	}
}
