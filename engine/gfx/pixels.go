package gfx

import (
	"image"

	"golang.org/x/image/draw"
)

// PackPixels converts img into tightly packed RGBA8 rows (stride == 4*w)
// ready for a texture upload. With PremultiplyAlpha the channels are
// premultiplied, otherwise straight alpha is kept. FlipY reverses the rows
// so the first row is the bottom of the image, which is where GL samples
// v=0.
func PackPixels(img image.Image, opts UploadOptions) (pix []byte, w, h int) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}

	var src []byte
	var stride int
	if opts.PremultiplyAlpha {
		m := toRGBA(img)
		src, stride = m.Pix, m.Stride
	} else {
		m := toNRGBA(img)
		src, stride = m.Pix, m.Stride
	}

	// Repack in tight rows, flipping if asked.
	pix = make([]byte, w*h*4)
	row := w * 4
	for y := 0; y < h; y++ {
		dy := y
		if opts.FlipY {
			dy = h - 1 - y
		}
		copy(pix[dy*row:(dy+1)*row], src[y*stride:y*stride+row])
	}
	return pix, w, h
}

func toRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

func toNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
