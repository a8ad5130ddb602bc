package assets

import (
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/hubastard/biscuit/engine/logging"
)

// Sprite is an image that decodes in the background. Until IsLoaded reports
// true the renderer skips it.
type Sprite struct {
	path   string
	loaded atomic.Bool
	done   chan struct{}

	// written once before loaded/done are published
	img image.Image
	err error
}

// NewSprite starts decoding path and returns immediately.
func NewSprite(path string) *Sprite {
	s := &Sprite{path: path, done: make(chan struct{})}
	go s.load()
	return s
}

// SpriteFromImage wraps already decoded pixels. The sprite is loaded at once.
func SpriteFromImage(img image.Image) *Sprite {
	s := &Sprite{img: img, done: make(chan struct{})}
	close(s.done)
	s.loaded.Store(img != nil)
	return s
}

func (s *Sprite) load() {
	defer close(s.done)
	img, err := LoadImage(s.path)
	if err != nil {
		s.err = err
		logging.Logger().Warn("sprite load failed", slog.String("path", s.path), slog.Any("err", err))
		return
	}
	s.img = img
	s.loaded.Store(true)
	logging.Logger().Debug("sprite loaded",
		slog.String("path", s.path),
		slog.Int("w", img.Bounds().Dx()),
		slog.Int("h", img.Bounds().Dy()),
	)
}

func (s *Sprite) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// IsLoaded is false for a nil sprite.
func (s *Sprite) IsLoaded() bool { return s != nil && s.loaded.Load() }

// Image returns the decoded pixels, or nil while loading or after a failure.
func (s *Sprite) Image() image.Image {
	if !s.IsLoaded() {
		return nil
	}
	return s.img
}

// Size returns the pixel size, zero until loaded.
func (s *Sprite) Size() (w, h int) {
	img := s.Image()
	if img == nil {
		return 0, 0
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

// Err returns the decode error once loading has finished.
func (s *Sprite) Err() error {
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until decoding finished, successfully or not.
func (s *Sprite) Wait() {
	if s != nil {
		<-s.done
	}
}
