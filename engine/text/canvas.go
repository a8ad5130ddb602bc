// Package text rasterizes strings onto an offscreen canvas for the 2D
// renderer.
package text

import (
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/biscuit/engine/colors"
	"github.com/hubastard/biscuit/engine/gfx/renderer2d"
	"github.com/hubastard/biscuit/engine/logging"
)

const (
	DefaultCanvasWidth  = 1024
	DefaultCanvasHeight = 256
)

// Canvas is a fixed-size RGBA surface shared by every text draw. Each
// Rasterize call clears it and returns the same image, so the result is
// only valid until the next call. Not safe for concurrent use.
type Canvas struct {
	img   *image.RGBA
	fonts *fontSet
}

var _ renderer2d.TextRasterizer = (*Canvas)(nil)

var defaultSpec = FontSpec{SizePx: 48, Family: "Arial"}

// NewCanvas creates a w*h canvas; non-positive sizes use the defaults.
func NewCanvas(w, h int) *Canvas {
	if w <= 0 {
		w = DefaultCanvasWidth
	}
	if h <= 0 {
		h = DefaultCanvasHeight
	}
	return &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		fonts: newFontSet(),
	}
}

func (c *Canvas) Size() (w, h int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// RegisterFont makes a TrueType/OpenType font available under family.
func (c *Canvas) RegisterFont(family string, data []byte) error {
	return c.fonts.register(family, data)
}

// LoadFont reads a font file and registers it. Relative paths are looked up
// in assets/fonts.
func (c *Canvas) LoadFont(family, path string) error {
	data, err := readFont(path)
	if err != nil {
		return err
	}
	return c.fonts.register(family, data)
}

// Close releases cached font faces.
func (c *Canvas) Close() { c.fonts.close() }

// Rasterize clears the canvas and draws s vertically centered on the
// canvas middle. The alignment decides which side of the horizontal center
// the text starts from. Text wider than opts.MaxWidth (canvas width when
// zero) is squeezed horizontally to fit.
func (c *Canvas) Rasterize(s string, col colors.Color, opts renderer2d.TextOptions) (image.Image, error) {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	spec := defaultSpec
	if opts.Font != "" {
		parsed, err := ParseFont(opts.Font)
		if err != nil {
			logging.Logger().Debug("invalid font, using default", slog.String("font", opts.Font), slog.Any("err", err))
		} else {
			spec = parsed
		}
	}
	face, err := c.fonts.face(spec)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return c.img, nil
	}

	r, g, b, a := col.Bytes()
	d := font.Drawer{
		Face: face,
		Src:  image.NewUniform(color.NRGBA{R: r, G: g, B: b, A: a}),
	}
	width := d.MeasureString(s).Ceil()
	if width <= 0 {
		return c.img, nil
	}
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	height := ascent + descent

	line := image.NewRGBA(image.Rect(0, 0, width, height))
	d.Dst = line
	d.Dot = fixed.P(0, ascent)
	d.DrawString(s)

	cw, ch := c.Size()
	maxW := int(opts.MaxWidth)
	if maxW <= 0 {
		maxW = cw
	}
	outW := min(width, maxW)

	cx, cy := cw/2, ch/2
	x0 := cx - outW/2
	switch opts.Align {
	case renderer2d.AlignLeft:
		x0 = cx
	case renderer2d.AlignRight:
		x0 = cx - outW
	}
	y0 := cy - height/2
	dst := image.Rect(x0, y0, x0+outW, y0+height)

	if outW == width {
		draw.Draw(c.img, dst, line, image.Point{}, draw.Over)
	} else {
		draw.BiLinear.Scale(c.img, dst, line, line.Bounds(), draw.Over, nil)
	}
	return c.img, nil
}
