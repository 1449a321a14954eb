package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
	"github.com/example/colorby/internal/sampler"
)

func TestSamples(t *testing.T) {
	assert.Equal(t, []string{"house", "target"}, Samples())

	_, err := SampleOutlines("nope")
	assert.ErrorIs(t, err, puzzle.ErrMissingAsset)
}

func TestSampleColorsCoverEveryShape(t *testing.T) {
	for _, name := range Samples() {
		set, err := SampleOutlines(name)
		require.NoError(t, err, name)
		assert.Empty(t, set.Skipped, name)
		colors, err := SampleColors(name)
		require.NoError(t, err)
		for _, o := range set.Outlines {
			assert.Contains(t, colors, o.ID, "%s %s", name, o.Name())
		}
	}
}

func session(t *testing.T, name string) *puzzle.Session {
	t.Helper()
	set, err := SampleOutlines(name)
	require.NoError(t, err)
	img, err := SampleImage(name, puzzle.DefaultImageSize)
	require.NoError(t, err)
	s := puzzle.New()
	require.NoError(t, s.Initialize(context.Background(), set, img))
	return s
}

func TestHouseSamplesBackToItsColors(t *testing.T) {
	s := session(t, "house")
	_, total := s.Progress()
	assert.Equal(t, 10, total)

	sky, ok := s.ColorOf(0)
	require.True(t, ok)
	assert.Equal(t, sampler.RGB{R: 64, G: 128, B: 192}, sky)

	// white cloud and off-white window frame share a palette entry
	cloud, _ := s.ColorOf(3)
	frame, _ := s.ColorOf(7)
	assert.Equal(t, cloud, frame)
	assert.Len(t, s.Palette(), 9)
}

func TestTargetRingsHitTestByFillRule(t *testing.T) {
	s := session(t, "target")
	cases := []struct {
		x, y float64
		want outline.ID
	}{
		{512, 512, 3},
		{512, 162, 1},
		{512, 262, 0},
		{512, 362, 2},
		{20, 20, 0},
	}
	for _, tc := range cases {
		id, ok := s.HitTest(tc.x, tc.y)
		require.True(t, ok, "(%v,%v)", tc.x, tc.y)
		assert.Equal(t, tc.want, id, "(%v,%v)", tc.x, tc.y)
	}
}

func TestSampleImageSize(t *testing.T) {
	img, err := SampleImage("target", 64)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}
