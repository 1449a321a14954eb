// Package asset loads puzzle inputs from disk or the clipboard and brings
// source images to the square canvas the outlines are drawn in.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	// decoders registered for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/colorby/internal/clipboard"
	"github.com/example/colorby/internal/logging"
	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
)

// sniffLen is how much of a file filetype needs to recognise it.
const sniffLen = 262

// ErrNotImage is returned for data that is not a supported image.
var ErrNotImage = errors.New("not a supported image")

// LoadImage reads an image file and scales it to size×size. A missing or
// unreadable file is reported as puzzle.ErrMissingAsset.
func LoadImage(path string, size int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, missing(path, err)
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", puzzle.ErrMissingAsset, path, err)
	}
	logging.Logger().Debug("loaded image", "path", path, "bounds", img.Bounds().String())
	return Normalize(img, size), nil
}

// DecodeImage sniffs data and decodes it with the matching registered
// decoder.
func DecodeImage(data []byte) (image.Image, error) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if !filetype.IsImage(head) {
		return nil, ErrNotImage
	}
	kind, _ := filetype.Match(head)
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotImage, kind.MIME.Value, err)
	}
	logging.Logger().Debug("decoded image", "mime", kind.MIME.Value, "format", format)
	return img, nil
}

// Normalize scales img to size×size with a zero origin. Images already at
// that size are returned as they are.
func Normalize(img image.Image, size int) image.Image {
	if size <= 0 {
		size = puzzle.DefaultImageSize
	}
	b := img.Bounds()
	if b.Min == (image.Point{}) && b.Dx() == size && b.Dy() == size {
		return img
	}
	return transform.Resize(img, size, size, transform.Linear)
}

// LoadOutlines parses an outline document from disk.
func LoadOutlines(path string) (*outline.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, missing(path, err)
	}
	defer f.Close()
	set, err := outline.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// FromClipboard reads the clipboard image and scales it to size×size.
func FromClipboard(size int) (image.Image, error) {
	img, err := clipboard.ReadImage()
	if err != nil {
		return nil, fmt.Errorf("%w: clipboard: %v", puzzle.ErrMissingAsset, err)
	}
	return Normalize(img, size), nil
}

func missing(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s does not exist", puzzle.ErrMissingAsset, path)
	}
	return fmt.Errorf("%w: %v", puzzle.ErrMissingAsset, err)
}
