package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func redImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}
	return img
}

func TestLoadImageScalesToCanvas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, redImage(40, 20)))
	path := writeFile(t, "src.png", buf.Bytes())

	img, err := LoadImage(path, 64)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	r, g, b, a := img.At(32, 32).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Less(t, g+b, uint32(0x200))
	assert.Greater(t, a, uint32(0xf000))
}

func TestLoadImageBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, redImage(8, 8)))
	path := writeFile(t, "src.bmp", buf.Bytes())

	img, err := LoadImage(path, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
}

func TestLoadImageMissing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"), 64)
	assert.ErrorIs(t, err, puzzle.ErrMissingAsset)
}

func TestLoadImageRejectsNonImage(t *testing.T) {
	path := writeFile(t, "notes.png", []byte("definitely not pixels"))
	_, err := LoadImage(path, 64)
	assert.ErrorIs(t, err, puzzle.ErrMissingAsset)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestNormalizeKeepsCanvasSizedImages(t *testing.T) {
	img := redImage(32, 32)
	assert.Same(t, img, Normalize(img, 32).(*image.NRGBA))

	shifted := image.NewRGBA(image.Rect(10, 10, 42, 42))
	shifted.Set(10, 10, color.White)
	out := Normalize(shifted, 32)
	assert.Equal(t, image.Rect(0, 0, 32, 32), out.Bounds())
}

func TestLoadOutlines(t *testing.T) {
	path := writeFile(t, "shapes.xml", []byte(`<vector>
  <path android:pathData="M0,0 L10,0 L10,10 Z"/>
  <path android:pathData="M0,0 Q"/>
</vector>`))
	set, err := LoadOutlines(path)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Len(t, set.Skipped, 1)

	_, err = LoadOutlines(filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorIs(t, err, puzzle.ErrMissingAsset)

	bad := writeFile(t, "bad.xml", []byte("<vector><path>"))
	_, err = LoadOutlines(bad)
	assert.ErrorIs(t, err, outline.ErrMalformedDocument)
}
