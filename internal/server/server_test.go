package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/colorby/internal/puzzle"
)

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func redPNG(t *testing.T, size int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newServer() *Server {
	return New(Config{Options: []puzzle.Option{puzzle.WithImageSize(100)}})
}

func TestCreateInlinePuzzleAndTap(t *testing.T) {
	srv := newServer()
	rec := do(t, srv, http.MethodPost, "/api/puzzles", CreateRequest{
		Name:    "square",
		Outline: `<svg><path d="M10 10 H90 V90 H10 Z"/><path d="M0 0 Q"/></svg>`,
		Image:   redPNG(t, 50),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	st := decode[StateResponse](t, rec)
	assert.Equal(t, 1, st.Shapes)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, []string{"#e00000"}, st.Palette)
	assert.Empty(t, st.Revealed)

	rec = do(t, srv, http.MethodPost, "/api/puzzles/"+st.ID+"/taps", TapRequest{X: 5, Y: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, TapResponse{}, decode[TapResponse](t, rec))

	rec = do(t, srv, http.MethodPost, "/api/puzzles/"+st.ID+"/taps", TapRequest{X: 50, Y: 50})
	tap := decode[TapResponse](t, rec)
	assert.Equal(t, TapResponse{Shape: "shape_0", Hit: true, Changed: true, Complete: true}, tap)

	rec = do(t, srv, http.MethodPost, "/api/puzzles/"+st.ID+"/taps", TapRequest{X: 50, Y: 50})
	assert.False(t, decode[TapResponse](t, rec).Changed)

	rec = do(t, srv, http.MethodGet, "/api/puzzles/"+st.ID, nil)
	st = decode[StateResponse](t, rec)
	assert.Equal(t, []string{"shape_0"}, st.Revealed)
	assert.Equal(t, Progress{Revealed: 1, Total: 1}, st.Progress)
	assert.True(t, st.Complete)
}

func TestCreateSample(t *testing.T) {
	srv := New(Config{})
	rec := do(t, srv, http.MethodPost, "/api/puzzles", CreateRequest{Sample: "target"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	st := decode[StateResponse](t, rec)
	assert.Equal(t, "target", st.Name)
	assert.Equal(t, 4, st.Shapes)
	assert.Len(t, st.Palette, 4)

	rec = do(t, srv, http.MethodGet, "/api/samples", nil)
	assert.Contains(t, decode[[]string](t, rec), "target")
}

func TestCreateRejectsMissingAssets(t *testing.T) {
	srv := newServer()
	for _, req := range []CreateRequest{
		{Outline: `<svg/>`},
		{Image: redPNG(t, 4)},
		{Outline: `<svg/>`, Image: "bm90IGFuIGltYWdl"},
		{Outline: `<svg><path`, Image: redPNG(t, 4)},
		{Sample: "missing"},
	} {
		rec := do(t, srv, http.MethodPost, "/api/puzzles", req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "%+v: %s", req, rec.Body.String())
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/puzzles", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, srv.Len())
}

func TestActiveColorDoesNotGateTaps(t *testing.T) {
	srv := newServer()
	st := decode[StateResponse](t, do(t, srv, http.MethodPost, "/api/puzzles", CreateRequest{
		Outline: `<svg><path d="M10 10 H90 V90 H10 Z"/></svg>`,
		Image:   redPNG(t, 100),
	}))

	rec := do(t, srv, http.MethodPut, "/api/puzzles/"+st.ID+"/active-color", ActiveColorRequest{Color: "#0000ff"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#0000ff", decode[StateResponse](t, rec).ActiveColor)

	rec = do(t, srv, http.MethodPut, "/api/puzzles/"+st.ID+"/active-color", ActiveColorRequest{Color: "blue-ish"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/puzzles/"+st.ID+"/taps", TapRequest{X: 50, Y: 50})
	assert.True(t, decode[TapResponse](t, rec).Changed)
}

func TestBoardPNG(t *testing.T) {
	srv := newServer()
	st := decode[StateResponse](t, do(t, srv, http.MethodPost, "/api/puzzles", CreateRequest{
		Outline: `<svg><path d="M10 10 H90 V90 H10 Z"/></svg>`,
		Image:   redPNG(t, 100),
	}))

	rec := do(t, srv, http.MethodGet, "/api/puzzles/"+st.ID+"/board.png?size=50", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 50), img.Bounds())
	assert.Equal(t, color.RGBA{0xcc, 0xcc, 0xcc, 0xff}, color.RGBAModel.Convert(img.At(25, 25)))

	rec = do(t, srv, http.MethodGet, "/api/puzzles/"+st.ID+"/board.png?size=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAndUnknown(t *testing.T) {
	srv := newServer()
	st := decode[StateResponse](t, do(t, srv, http.MethodPost, "/api/puzzles", CreateRequest{Sample: "house"}))

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/puzzles/"+st.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/puzzles/"+st.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/puzzles/"+st.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/puzzles/nope/taps", TapRequest{}).Code)
}

func TestEvictsOldestSession(t *testing.T) {
	srv := New(Config{MaxSessions: 2, Options: []puzzle.Option{puzzle.WithImageSize(64)}})
	clock := time.Unix(0, 0)
	srv.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	var ids []string
	for range 3 {
		st := decode[StateResponse](t, do(t, srv, http.MethodPost, "/api/puzzles", CreateRequest{Sample: "target"}))
		ids = append(ids, st.ID)
	}
	assert.Equal(t, 2, srv.Len())
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/puzzles/"+ids[0], nil).Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/puzzles/"+ids[2], nil).Code)
}
