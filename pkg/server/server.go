// Package server serves interactive mind-map diagrams over HTTP.
//
// # Overview
//
// The server keeps live diagram engines in an in-memory [Registry] and
// exposes a small REST surface around them:
//
//	POST   /diagrams                  upload a tree JSON, get a diagram ID
//	GET    /diagrams/{id}.svg         render the current state as SVG
//	GET    /diagrams/{id}/toggle/{node}  flip a node's collapse state
//	DELETE /diagrams/{id}             drop the diagram
//
// Rendered SVGs wrap every node box in a link to its toggle endpoint, so a
// diagram opened in a browser is fully clickable: clicking a node toggles
// it server-side and redirects back to the SVG, which replays the
// transition as an animation.
//
// # Concurrency
//
// Diagram engines are single-threaded by design; the registry's per-diagram
// mutex serializes all engine access, so concurrent requests on the same
// diagram queue up instead of racing.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mindtree-io/mindtree/pkg/cache"
	"github.com/mindtree-io/mindtree/pkg/diagram"
	apperrors "github.com/mindtree-io/mindtree/pkg/errors"
	"github.com/mindtree-io/mindtree/pkg/observability"
	"github.com/mindtree-io/mindtree/pkg/render/svg"
	"github.com/mindtree-io/mindtree/pkg/tree"
)

// maxTreeBytes caps uploaded tree JSON. Combined with tree.MaxNodes this
// bounds memory per diagram.
const maxTreeBytes = 10 << 20 // 10 MiB

// Server handles diagram HTTP requests.
type Server struct {
	registry *Registry
	cfg      diagram.Config
	cfgHash  string
	cache    cache.Cache
	keyer    cache.Keyer
	logger   *log.Logger
}

// Option configures the server.
type Option func(*Server)

// WithCache sets the artifact cache used for static SVG responses.
// Without it the server renders every request.
func WithCache(c cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTTL sets the idle TTL for registered diagrams.
func WithTTL(ttl time.Duration) Option {
	return func(s *Server) { s.registry = NewRegistry(ttl) }
}

// New creates a server that lays out diagrams with the given configuration.
func New(cfg diagram.Config, opts ...Option) *Server {
	cfgJSON, _ := json.Marshal(cfg)
	s := &Server{
		registry: NewRegistry(DefaultTTL),
		cfg:      cfg,
		cfgHash:  cache.Hash(cfgJSON),
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the diagram registry, mainly so callers can start the
// cleanup loop with their own context.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/diagrams", s.handleCreate)
	r.Get("/diagrams/{id}.svg", s.handleRender)
	r.Get("/diagrams/{id}/toggle/{node}", s.handleToggle)
	r.Delete("/diagrams/{id}", s.handleDelete)

	return r
}

// handleCreate decodes a tree, builds an engine, and registers it.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTreeBytes))
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	root, err := tree.ReadJSON(bytes.NewReader(body))
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidTree, err, "parse tree"))
		return
	}

	start := time.Now()
	observability.Diagram().OnLayoutStart(r.Context(), root.Count())
	eng, err := diagram.New(root, s.cfg, svg.Measurer())
	observability.Diagram().OnLayoutComplete(r.Context(), root.Count(), time.Since(start), err)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "build diagram"))
		return
	}

	d := s.registry.Add(eng, cache.Hash(body))
	s.logger.Info("diagram created", "id", d.ID, "nodes", root.Count())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"id":  d.ID,
		"url": fmt.Sprintf("/diagrams/%s.svg", d.ID),
	})
}

// handleRender serves the diagram's current state as SVG. Plain requests
// are static and cacheable; requests with ?animate=1 (issued by the toggle
// redirect) replay the latest frame's transitions and bypass the cache.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	animate := r.URL.Query().Get("animate") == "1"

	// Key lookup, render, and cache write all happen under the diagram's
	// lock so a concurrent toggle can't pair a stale key with a fresh
	// artifact.
	var out []byte
	_ = d.WithEngine(func(eng *diagram.Engine) error {
		var key string
		if !animate {
			key = s.keyer.ArtifactKey(d.TreeHash, cache.ArtifactKeyOpts{
				CollapseSignature: eng.CollapseSignature(),
				Format:            "svg",
				ConfigHash:        s.cfgHash,
			})
			if data, hit, cerr := s.cache.Get(ctx, key); cerr == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				out = data
				return nil
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}

		start := time.Now()
		observability.Diagram().OnRenderStart(ctx, "svg")

		opts := []svg.RenderOption{
			svg.WithFont("sans-serif", s.cfg.Box.FontSize),
			svg.WithLineHeight(s.cfg.Box.LineHeight),
			svg.WithToggleLinks(func(id diagram.NodeID) string {
				return fmt.Sprintf("/diagrams/%s/toggle/%d", d.ID, id)
			}),
		}
		if animate {
			opts = append(opts, svg.WithAnimation())
		}
		out = svg.Render(eng, opts...)
		observability.Diagram().OnRenderComplete(ctx, "svg", len(out), time.Since(start), nil)

		if !animate {
			if cerr := s.cache.Set(ctx, key, out, 0); cerr != nil {
				s.logger.Warn("cache write failed", "err", cerr)
			} else {
				observability.Cache().OnCacheSet(ctx, "artifact", len(out))
			}
		}
		return nil
	})

	s.writeSVG(w, out)
}

// handleToggle flips one node's collapse state and redirects back to the
// SVG with animation enabled, so the browser shows the transition.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	d, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	nodeID, err := strconv.Atoi(chi.URLParam(r, "node"))
	if err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid node id: %q", chi.URLParam(r, "node")))
		return
	}

	err = d.WithEngine(func(eng *diagram.Engine) error {
		_, terr := eng.Toggle(diagram.NodeID(nodeID))
		return terr
	})
	switch {
	case errors.Is(err, diagram.ErrUnknownNode):
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "node %d", nodeID))
		return
	case errors.Is(err, diagram.ErrNodeNotVisible):
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "node %d", nodeID))
		return
	case err != nil:
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "toggle node %d", nodeID))
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/diagrams/%s.svg?animate=1", d.ID), http.StatusSeeOther)
}

// handleDelete drops the diagram from the registry.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateDiagramID(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.registry.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// lookup validates an ID and fetches its diagram.
func (s *Server) lookup(id string) (*Diagram, error) {
	if err := apperrors.ValidateDiagramID(id); err != nil {
		return nil, err
	}
	d, err := s.registry.Get(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "diagram %s", id)
	}
	return d, nil
}

func (s *Server) writeSVG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// writeError maps structured errors to HTTP status codes and emits a JSON
// body with the machine-readable code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    string(apperrors.GetCode(err)),
		"message": apperrors.UserMessage(err),
	})
}
