package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hubastard/biscuit/engine/gfx/renderer2d"
)

//go:embed shaders/*.vert shaders/*.frag
var builtinShaders embed.FS

// ShaderDir is where LoadShader looks before falling back to the built-in
// sources.
var ShaderDir = filepath.Join("assets", "shaders")

// LoadShader reads a GLSL file from ShaderDir. When the file does not exist
// the embedded copy with the same name is returned.
func LoadShader(name string) (string, error) {
	path := filepath.Join(ShaderDir, name)
	b, err := os.ReadFile(path)
	if err == nil {
		return string(b), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	b, err = builtinShaders.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}

// DefaultShaders loads the sources for both renderer pipelines.
func DefaultShaders() (renderer2d.Shaders, error) {
	var s renderer2d.Shaders
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"texture.vert", &s.TexturedVertex},
		{"texture.frag", &s.TexturedFragment},
		{"color.vert", &s.ColorVertex},
		{"color.frag", &s.ColorFragment},
	} {
		src, err := LoadShader(f.name)
		if err != nil {
			return renderer2d.Shaders{}, err
		}
		*f.dst = src
	}
	return s, nil
}
