package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/internal/logging"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
	"github.com/aretw0/funnelkit/pkg/scoring"
	"github.com/aretw0/funnelkit/pkg/session"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies; a full funnel document fits easily.
const maxBodyBytes = 4 << 20

// Server exposes editor sessions over a JSON API.
type Server struct {
	Sessions *session.Manager
	Kinds    *registry.Registry
	Streams  *StreamManager

	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRegistry sets the kind registry served on /kinds.
// It should match the registry the editors are created with.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Server) { s.Kinds = r }
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewHandler creates a new HTTP handler over the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return New(sessions, opts...).Routes()
}

// New creates a Server over the session manager.
func New(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		Kinds:    registry.Default(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/kinds", s.ListKinds)
	r.Post("/score", s.Score)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/funnels", func(r chi.Router) {
		r.Get("/", s.ListFunnels)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetFunnel)
			r.Put("/", s.ReplaceFunnel)
			r.Delete("/", s.DeleteFunnel)
			r.Post("/save", s.SaveFunnel)
			r.Post("/undo", s.Undo)
			r.Post("/redo", s.Redo)
			r.Post("/select", s.Select)
			r.Get("/fields", s.PropertyFields)
			r.Get("/events", s.SubscribeEvents)

			r.Post("/steps", s.InsertStep)
			r.Patch("/steps/{stepID}", s.UpdateStep)
			r.Delete("/steps/{stepID}", s.RemoveStep)
			r.Post("/steps/{stepID}/move", s.MoveStep)
			r.Post("/steps/{stepID}/duplicate", s.DuplicateStep)
			r.Post("/steps/{stepID}/components", s.InsertComponent)

			r.Patch("/components/{componentID}", s.UpdateComponent)
			r.Delete("/components/{componentID}", s.RemoveComponent)
			r.Post("/components/{componentID}/move", s.MoveComponent)
			r.Post("/components/{componentID}/duplicate", s.DuplicateComponent)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EditResponse is returned by every mutating endpoint.
type EditResponse struct {
	// Created holds the new step or component, when the edit created one.
	Created any `json:"created,omitempty"`
	// Applied is set by undo and redo.
	Applied *bool              `json:"applied,omitempty"`
	State   funnelkit.Snapshot `json:"state"`
}

// edit runs fn against the editor of the funnel in the URL, then
// broadcasts the document diff and writes the resulting state.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, fn func(*funnelkit.Editor, *EditResponse) error) {
	id := chi.URLParam(r, "id")
	var resp EditResponse
	err := s.Sessions.Do(r.Context(), id, func(ed *funnelkit.Editor) error {
		before := ed.Document()
		err := fn(ed, &resp)
		// Handlers that chain several edits may fail after changing the
		// document; listeners still need to see what was applied.
		resp.State = ed.State()
		s.broadcastDiff(id, &before, &resp.State.Document)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) broadcastDiff(id string, before, after *domain.Document) {
	diff := domain.Diff(before, after)
	if diff == nil {
		s.logger.Debug("no diff calculated", "funnel", id)
		return
	}
	if bytes, err := json.Marshal(diff); err == nil {
		s.Streams.Broadcast(id, string(bytes))
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// StatusFor maps editor errors to HTTP status codes.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidOperation):
		return http.StatusConflict, "invalid_operation"
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusUnprocessableEntity, "invalid_document"
	default:
		return http.StatusInternalServerError, ""
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "funnelkit-http",
		"version": strings.TrimSpace(funnelkit.Version),
	})
}

// KindResponse describes one component kind of the palette.
type KindResponse struct {
	Kind     domain.Kind          `json:"kind"`
	Label    string               `json:"label"`
	Category string               `json:"category"`
	Fields   []registry.FieldInfo `json:"fields"`
}

// ListKinds handles the GET /kinds request.
func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	kinds := s.Kinds.Kinds()
	resp := make([]KindResponse, 0, len(kinds))
	for _, spec := range kinds {
		resp = append(resp, KindResponse{Kind: spec.Kind, Label: spec.Label, Category: spec.Category, Fields: spec.Describe()})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ScoreRequest scores answers against a quiz, given inline or extracted
// from a stored funnel.
type ScoreRequest struct {
	FunnelID string           `json:"funnel_id,omitempty"`
	Quiz     *scoring.Quiz    `json:"quiz,omitempty"`
	Answers  []scoring.Answer `json:"answers"`
}

// Score handles the POST /score request.
func (s *Server) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !s.decode(w, r, &req) {
		return
	}

	var quiz scoring.Quiz
	switch {
	case req.Quiz != nil:
		quiz = *req.Quiz
	case req.FunnelID != "":
		doc, err := s.Sessions.Store().Load(r.Context(), req.FunnelID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if quiz, err = scoring.FromDocument(doc); err != nil {
			s.writeError(w, r, err)
			return
		}
	default:
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "either quiz or funnel_id is required"})
		return
	}

	results, err := scoring.Score(quiz, req.Answers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}
