package text

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFont is used when TextOptions.Font is empty.
const DefaultFont = "48px 'Arial'"

// FontSpec is a parsed CSS font shorthand.
type FontSpec struct {
	SizePx float64
	Family string
	Bold   bool
}

// ParseFont understands the subset of the CSS font shorthand the renderer
// needs: optional style/weight keywords, a pixel size and a family list.
// Only the first family is kept, unquoted.
//
//	ParseFont("48px 'Arial'")              // {48, "Arial"}
//	ParseFont("bold 20px Helvetica, sans") // {20, "Helvetica", bold}
func ParseFont(s string) (FontSpec, error) {
	fields := strings.Fields(s)
	var spec FontSpec
	for i, f := range fields {
		lf := strings.ToLower(f)
		switch lf {
		case "bold", "bolder", "700", "800", "900":
			spec.Bold = true
			continue
		case "normal", "italic", "oblique", "lighter", "400":
			continue
		}
		size, _, _ := strings.Cut(lf, "/") // drop line-height
		if !strings.HasSuffix(size, "px") {
			return FontSpec{}, fmt.Errorf("font %q: expected size in px, got %q", s, f)
		}
		px, err := strconv.ParseFloat(strings.TrimSuffix(size, "px"), 64)
		if err != nil || px <= 0 {
			return FontSpec{}, fmt.Errorf("font %q: invalid size %q", s, f)
		}
		spec.SizePx = px

		family := strings.Join(fields[i+1:], " ")
		family, _, _ = strings.Cut(family, ",")
		spec.Family = strings.Trim(strings.TrimSpace(family), `'"`)
		if spec.Family == "" {
			return FontSpec{}, fmt.Errorf("font %q: missing family", s)
		}
		return spec, nil
	}
	return FontSpec{}, fmt.Errorf("font %q: missing size", s)
}

func (s FontSpec) String() string {
	w := ""
	if s.Bold {
		w = "bold "
	}
	return fmt.Sprintf("%s%gpx '%s'", w, s.SizePx, s.Family)
}

var builtinFonts = sync.OnceValues(func() (map[string]*opentype.Font, error) {
	out := make(map[string]*opentype.Font, 3)
	for name, data := range map[string][]byte{
		"regular":   goregular.TTF,
		"bold":      gobold.TTF,
		"monospace": gomono.TTF,
	} {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin font %s: %w", name, err)
		}
		out[name] = f
	}
	return out, nil
})

type faceKey struct {
	family string
	size   float64
	bold   bool
}

// fontSet resolves families to faces. Unknown families fall back to the Go
// fonts.
type fontSet struct {
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

func newFontSet() *fontSet {
	return &fontSet{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

func (fs *fontSet) register(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	key := strings.ToLower(family)
	fs.fonts[key] = f
	for k, face := range fs.faces {
		if k.family == key {
			face.Close()
			delete(fs.faces, k)
		}
	}
	return nil
}

func (fs *fontSet) face(spec FontSpec) (font.Face, error) {
	key := faceKey{family: strings.ToLower(spec.Family), size: spec.SizePx, bold: spec.Bold}
	if face, ok := fs.faces[key]; ok {
		return face, nil
	}

	f, ok := fs.fonts[key.family]
	if !ok {
		builtin, err := builtinFonts()
		if err != nil {
			return nil, err
		}
		switch {
		case key.family == "monospace":
			f = builtin["monospace"]
		case spec.Bold:
			f = builtin["bold"]
		default:
			f = builtin["regular"]
		}
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size: spec.SizePx, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %s: %w", spec, err)
	}
	fs.faces[key] = face
	return face, nil
}

func (fs *fontSet) close() {
	for k, face := range fs.faces {
		face.Close()
		delete(fs.faces, k)
	}
}

// readFont loads a font file; relative paths resolve under assets/fonts.
func readFont(path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join("assets", "fonts", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return b, nil
}
