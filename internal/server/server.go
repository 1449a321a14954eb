// Package server hosts many independent puzzle sessions behind a JSON API.
// A session is driven by one request at a time.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/colorby/assets"
	"github.com/example/colorby/internal/asset"
	"github.com/example/colorby/internal/logging"
	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
	"github.com/example/colorby/internal/render"
	"github.com/example/colorby/internal/sampler"
)

// DefaultMaxSessions bounds memory when Config.MaxSessions is zero.
const DefaultMaxSessions = 64

// maxBody caps request bodies; inline images make these large.
const maxBody = 32 << 20

// Config configures a Server.
type Config struct {
	Options     []puzzle.Option
	Style       render.Style
	MaxSessions int
}

type entry struct {
	mu      sync.Mutex
	name    string
	session *puzzle.Session
	source  image.Image
	skipped int
	created time.Time
}

// Server is an http.Handler over a set of sessions.
type Server struct {
	cfg Config
	mux *http.ServeMux
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// New creates a Server.
func New(cfg Config) *Server {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	s.mux.HandleFunc("GET /api/samples", s.handleSamples)
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreate)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.withSession(s.handleState))
	s.mux.HandleFunc("DELETE /api/puzzles/{id}", s.handleDelete)
	s.mux.HandleFunc("POST /api/puzzles/{id}/taps", s.withSession(s.handleTap))
	s.mux.HandleFunc("PUT /api/puzzles/{id}/active-color", s.withSession(s.handleActiveColor))
	s.mux.HandleFunc("GET /api/puzzles/{id}/board.png", s.withSession(s.handleBoard))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Len reports how many sessions are live.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Logger().Info("serving puzzles", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, assets.Samples())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	e, err := s.build(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, puzzle.ErrMissingAsset), errors.Is(err, outline.ErrMalformedDocument):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, context.Canceled):
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}
	id := e.session.ID()
	s.mu.Lock()
	s.sessions[id] = e
	s.evictLocked()
	s.mu.Unlock()

	_, total := e.session.Progress()
	logging.Logger().Info("session created", "id", id, "name", e.name, "shapes", total, "palette", len(e.session.Palette()))
	writeJSON(w, http.StatusCreated, state(id, e))
}

func (s *Server) build(ctx context.Context, req CreateRequest) (*entry, error) {
	sess := puzzle.New(s.cfg.Options...)
	e := &entry{name: req.Name, session: sess, created: s.now()}
	var set *outline.Set
	var err error
	switch {
	case req.Sample != "":
		if set, err = assets.SampleOutlines(req.Sample); err != nil {
			return nil, err
		}
		if e.source, err = assets.SampleImage(req.Sample, sess.ImageSize()); err != nil {
			return nil, err
		}
		if e.name == "" {
			e.name = req.Sample
		}
	default:
		if strings.TrimSpace(req.Outline) == "" || strings.TrimSpace(req.Image) == "" {
			return nil, fmt.Errorf("%w: outline and image are required", puzzle.ErrMissingAsset)
		}
		if set, err = outline.ParseString(req.Outline); err != nil {
			return nil, err
		}
		data, err := decodeBase64(req.Image)
		if err != nil {
			return nil, fmt.Errorf("%w: image: %v", puzzle.ErrMissingAsset, err)
		}
		img, err := asset.DecodeImage(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", puzzle.ErrMissingAsset, err)
		}
		e.source = asset.Normalize(img, sess.ImageSize())
	}
	e.skipped = len(set.Skipped)
	if err := sess.Initialize(ctx, set, e.source); err != nil {
		return nil, err
	}
	return e, nil
}

func decodeBase64(s string) ([]byte, error) {
	if _, data, ok := strings.Cut(s, ";base64,"); ok && strings.HasPrefix(s, "data:") {
		s = data
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

// evictLocked drops the oldest sessions beyond the limit.
func (s *Server) evictLocked() {
	if len(s.sessions) <= s.cfg.MaxSessions {
		return
	}
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.sessions[ids[i]], s.sessions[ids[j]]
		if !a.created.Equal(b.created) {
			return a.created.Before(b.created)
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids[:len(ids)-s.cfg.MaxSessions] {
		delete(s.sessions, id)
		logging.Logger().Info("session evicted", "id", id)
	}
}

func (s *Server) lookup(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	return e, ok
}

// withSession resolves {id} and holds the session lock for the handler.
func (s *Server) withSession(h func(http.ResponseWriter, *http.Request, string, *entry)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		e, ok := s.lookup(id)
		if !ok {
			writeError(w, http.StatusNotFound, "puzzle not found")
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		h(w, r, id, e)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "puzzle not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	writeJSON(w, http.StatusOK, state(id, e))
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	var req TapRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	tap := e.session.HandleTap(req.X, req.Y)
	rsp := TapResponse{Hit: tap.Hit, Changed: tap.Changed, Complete: e.session.Complete()}
	if tap.Hit {
		rsp.Shape = tap.Shape.String()
	}
	if tap.Changed {
		logging.Logger().Debug("shape revealed", "id", id, "shape", rsp.Shape)
	}
	writeJSON(w, http.StatusOK, rsp)
}

func (s *Server) handleActiveColor(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	var req ActiveColorRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	c, err := sampler.ParseHex(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e.session.SetActiveColor(c)
	writeJSON(w, http.StatusOK, state(id, e))
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	q := r.URL.Query()
	opts := render.BoardOptions{
		Style:   s.cfg.Style,
		Canvas:  e.session.ImageSize(),
		Numbers: q.Get("numbers") != "" && q.Get("numbers") != "0",
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 4096 {
			writeError(w, http.StatusBadRequest, "size must be between 1 and 4096")
			return
		}
		opts.Size = n
	}
	if c, ok := e.session.ActiveColor(); ok {
		opts.Highlight, opts.HasHighlight = c, true
	}
	board := render.Board(e.session.Plan(), e.source, opts)
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, board); err != nil {
		logging.Logger().Warn("encode board", "id", id, "err", err)
	}
}

func state(id string, e *entry) StateResponse {
	sess := e.session
	rsp := StateResponse{
		ID:       id,
		Name:     e.name,
		Skipped:  e.skipped,
		Palette:  []string{},
		Revealed: []string{},
		Complete: sess.Complete(),
	}
	rsp.Progress.Revealed, rsp.Progress.Total = sess.Progress()
	rsp.Shapes = rsp.Progress.Total
	for _, c := range sess.Palette() {
		rsp.Palette = append(rsp.Palette, c.Hex())
	}
	for _, sid := range sess.Revealed() {
		rsp.Revealed = append(rsp.Revealed, sid.String())
	}
	if c, ok := sess.ActiveColor(); ok {
		rsp.ActiveColor = c.Hex()
	}
	return rsp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().Warn("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
