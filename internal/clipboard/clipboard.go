// Package clipboard moves puzzle images and palettes through the system
// clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"

	// decoders for images pasted from other programs
	_ "image/gif"
	_ "image/jpeg"

	"github.com/example/colorby/internal/sampler"
)

var (
	// ErrNoDisplay means no X11 or Wayland session is reachable.
	ErrNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
	// ErrUnsupported is returned on platforms without a clipboard backend.
	ErrUnsupported = errors.New("clipboard is not supported on this platform")
	// ErrEmpty means the clipboard holds nothing of the requested kind.
	ErrEmpty = errors.New("clipboard is empty")
)

// backend is one platform clipboard implementation.
type backend interface {
	readImage() ([]byte, error)
	readText() ([]byte, error)
	writeImage(png []byte) error
	writeText(text []byte) error
}

var (
	initOnce sync.Once
	initErr  error
	active   backend
)

func open() (backend, error) {
	initOnce.Do(func() {
		active, initErr = newBackend()
	})
	return active, initErr
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// ReadImage returns the image on the clipboard, typically a picture to turn
// into a puzzle.
func ReadImage() (image.Image, error) {
	b, err := open()
	if err != nil {
		return nil, err
	}
	data, err := b.readImage()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no image data", ErrEmpty)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// WriteImage publishes img as PNG.
func WriteImage(img image.Image) error {
	b, err := open()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return b.writeImage(buf.Bytes())
}

// ReadText returns UTF-8 text from the clipboard.
func ReadText() (string, error) {
	b, err := open()
	if err != nil {
		return "", err
	}
	data, err := b.readText()
	if err != nil {
		return "", err
	}
	// some X11 clients append a NUL to STRING replies
	data = bytes.TrimSuffix(data, []byte{0})
	if len(data) == 0 {
		return "", fmt.Errorf("%w: no text", ErrEmpty)
	}
	return string(data), nil
}

// WriteText publishes text.
func WriteText(text string) error {
	b, err := open()
	if err != nil {
		return err
	}
	return b.writeText([]byte(text))
}

// WritePalette publishes the palette as one "#rrggbb" per line.
func WritePalette(colors []sampler.RGB) error {
	return WriteText(FormatPalette(colors))
}

// FormatPalette renders colors one hex value per line.
func FormatPalette(colors []sampler.RGB) string {
	var sb strings.Builder
	for _, c := range colors {
		sb.WriteString(c.Hex())
		sb.WriteByte('\n')
	}
	return sb.String()
}
