package renderer2d

import (
	"image"

	"github.com/hubastard/biscuit/engine/colors"
)

type Kind int

const (
	KindImage Kind = iota
	KindRect
	KindCircle
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	}
	return "unknown"
}

// ImageSource is a loadable image resource. The renderer polls IsLoaded at
// flush time and never waits for it. Implementations must be pointer types:
// textures are cached per source identity.
type ImageSource interface {
	IsLoaded() bool
	Image() image.Image
}

// Align is the horizontal anchor of text relative to its position.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// TextOptions control how text is rasterized on the offscreen canvas.
type TextOptions struct {
	Font     string  // CSS-like font, e.g. "48px 'Arial'"; empty uses the default
	Align    Align   // defaults to center
	MaxWidth float32 // 0 means the canvas width
}

// DrawCommand is one deferred draw. Positions are the center of the shape
// for every kind. Color is required for rects, circles and text; images use
// Alpha instead. Alpha is passed to the shader as is, so a hand-built image
// command left at zero draws fully transparent; DrawImage defaults it to 1.
type DrawCommand struct {
	Kind     Kind
	ZIndex   float32
	X, Y     float32
	W, H     float32
	Rotation float32
	Color    colors.Value
	Alpha    float32

	Image    ImageSource
	Radius   float32
	Segments int
	Text     string
	TextOpts TextOptions
}

// DefaultCircleSegments is used when DrawCircle gets a non-positive count.
const DefaultCircleSegments = 32

type imageConfig struct {
	alpha, rotation, zIndex float32
}

// ImageOption adjusts an image draw.
type ImageOption func(*imageConfig)

func WithAlpha(a float32) ImageOption    { return func(c *imageConfig) { c.alpha = a } }
func WithRotation(r float32) ImageOption { return func(c *imageConfig) { c.rotation = r } }
func WithZIndex(z float32) ImageOption   { return func(c *imageConfig) { c.zIndex = z } }
