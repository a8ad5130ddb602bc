package gfx

import "image"

// PixelSource is a loaded image resource. Implementations must be comparable
// (pointer types), since the cache keys on identity rather than content.
type PixelSource interface {
	Image() image.Image
}

var imageUpload = UploadOptions{FlipY: true, PremultiplyAlpha: true}

// TextureCache owns every texture the renderer creates. Image textures are
// keyed by source identity, text textures by string value; neither is ever
// evicted.
type TextureCache struct {
	dev     Device
	images  map[PixelSource]Handle
	texts   map[string]Handle
	uploads int
}

func NewTextureCache(dev Device) *TextureCache {
	return &TextureCache{
		dev:    dev,
		images: make(map[PixelSource]Handle),
		texts:  make(map[string]Handle),
	}
}

// EnsureImage returns the texture for src, uploading it on first sight.
// It returns 0 when src has no pixels yet.
func (c *TextureCache) EnsureImage(src PixelSource) Handle {
	if tex, ok := c.images[src]; ok {
		return tex
	}
	img := src.Image()
	if img == nil {
		return 0
	}
	tex := c.dev.CreateTexture()
	if tex == 0 {
		return 0
	}
	c.dev.BindTexture(tex)
	c.upload(img)
	c.images[src] = tex
	return tex
}

// EnsureText returns the texture reserved for text and uploads pixels into
// it. The upload happens on every call, hit or miss, leaving the texture
// bound on the active unit.
func (c *TextureCache) EnsureText(text string, pixels image.Image) Handle {
	tex, ok := c.texts[text]
	if !ok {
		tex = c.dev.CreateTexture()
		if tex == 0 {
			return 0
		}
		c.texts[text] = tex
	}
	c.dev.BindTexture(tex)
	c.upload(pixels)
	return tex
}

func (c *TextureCache) upload(img image.Image) {
	c.dev.TexImage2D(img, imageUpload)
	c.dev.TexParameters(LinearClamp)
	c.uploads++
}

// Len reports cached image textures.
func (c *TextureCache) Len() int { return len(c.images) }

// TextLen reports cached text textures.
func (c *TextureCache) TextLen() int { return len(c.texts) }

// Uploads reports pixel uploads since creation.
func (c *TextureCache) Uploads() int { return c.uploads }
