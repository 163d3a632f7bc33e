package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/verdict"
	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/internal/presentation/tui"
	"github.com/aretw0/verdict/internal/sanitize"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// Server serves the document API on top of a stateless engine and a session manager.
type Server struct {
	Engine   ports.DocumentEngine
	Sessions *session.Manager
	Streams  *StreamManager

	strategy    domain.IDStrategy
	maxText     int
	logger      *slog.Logger
	metrics     http.Handler
	corsOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request handling and streams.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithIDStrategy sets the identifier strategy for documents created without one.
func WithIDStrategy(strategy domain.IDStrategy) Option {
	return func(s *Server) {
		s.strategy = strategy
	}
}

// WithMaxTextSize overrides the sanitizer's byte limit for incoming text.
func WithMaxTextSize(limit int) Option {
	return func(s *Server) {
		s.maxText = limit
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithCORSOrigins restricts the allowed origins. Empty means "*".
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// NewHandler creates the HTTP handler for the document API.
func NewHandler(engine ports.DocumentEngine, sessions *session.Manager, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		strategy: domain.IDStrategySequence,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)

		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/documents", s.ListDocuments)
		r.Post("/documents", s.CreateDocument)
		r.Route("/documents/{documentID}", func(r chi.Router) {
			r.Get("/", s.GetDocument)
			r.Delete("/", s.DeleteDocument)
			r.Post("/convert", s.Convert)
			r.Put("/nodes/{nodeID}/text", s.EditText)
			r.Post("/classify", s.Classify)
			r.Get("/ratio", s.GetRatio)
			r.Get("/markdown", s.GetMarkdown)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return r, nil
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.corsOrigins) > 0 {
			origin = ""
			reqOrigin := r.Header.Get("Origin")
			for _, o := range s.corsOrigins {
				if o == reqOrigin || o == "*" {
					origin = o
					break
				}
			}
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// -- Request and response bodies --

type createDocumentRequest struct {
	ID         string            `json:"id"`
	IDStrategy domain.IDStrategy `json:"id_strategy"`
}

type convertRequest struct {
	NodeID         domain.ID `json:"node_id"`
	Text           string    `json:"text"`
	SelectionStart int       `json:"selection_start"`
	SelectionEnd   int       `json:"selection_end"`
}

type editTextRequest struct {
	Text string `json:"text"`
}

type classifyRequest struct {
	GroupID domain.ID        `json:"group_id"`
	ItemID  domain.ID        `json:"item_id"`
	State   domain.ItemState `json:"state"`
}

// DocumentResponse is the full view of a session.
type DocumentResponse struct {
	*domain.State
	Ratio *domain.Ratio `json:"ratio"`
}

func newDocumentResponse(state *domain.State) DocumentResponse {
	return DocumentResponse{State: state, Ratio: state.Ratio()}
}

// -- Handlers --

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "verdict-http",
		"version":     strings.TrimSpace(verdict.Version),
		"api_version": apiVersion,
	})
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, "list", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"documents": ids})
}

// CreateDocument handles POST /documents. The body is optional.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var body createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, "create", fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if body.ID == "" {
		body.ID = uuid.NewString()
	}
	if body.IDStrategy == "" {
		body.IDStrategy = s.strategy
	}

	state, err := s.Sessions.LoadOrStart(r.Context(), body.ID, body.IDStrategy)
	if err != nil {
		s.writeError(w, r, "create", err)
		return
	}
	s.logger.Info("Document created", "session_id", body.ID, "id_strategy", state.Document.Strategy)
	s.writeJSON(w, http.StatusCreated, newDocumentResponse(state))
}

// GetDocument handles GET /documents/{documentID}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, newDocumentResponse(state))
}

// DeleteDocument handles DELETE /documents/{documentID}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.documentID(w, r)
	if !ok {
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Convert handles POST /documents/{documentID}/convert.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var body convertRequest
	if !s.decode(w, r, "convert", &body) {
		return
	}
	if err := sanitize.Text(body.Text, s.maxText); err != nil {
		s.writeError(w, r, "convert", err)
		return
	}

	s.mutate(w, r, "convert", func(ctx context.Context, state *domain.State) (*domain.State, error) {
		if body.NodeID != "" {
			return s.Engine.ConvertNode(ctx, state, body.NodeID, body.Text, body.SelectionStart, body.SelectionEnd)
		}
		return s.Engine.InitialConvert(ctx, state, body.Text, body.SelectionStart, body.SelectionEnd)
	})
}

// EditText handles PUT /documents/{documentID}/nodes/{nodeID}/text.
func (s *Server) EditText(w http.ResponseWriter, r *http.Request) {
	var nodeID string
	if err := runtime.BindStyledParameterWithOptions("simple", "nodeID", chi.URLParam(r, "nodeID"), &nodeID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		s.writeError(w, r, "edit_text", fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	var body editTextRequest
	if !s.decode(w, r, "edit_text", &body) {
		return
	}
	if err := sanitize.Text(body.Text, s.maxText); err != nil {
		s.writeError(w, r, "edit_text", err)
		return
	}

	s.mutate(w, r, "edit_text", func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return s.Engine.EditText(ctx, state, domain.ID(nodeID), body.Text)
	})
}

// Classify handles POST /documents/{documentID}/classify.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var body classifyRequest
	if !s.decode(w, r, "classify", &body) {
		return
	}

	s.mutate(w, r, "classify", func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return s.Engine.Classify(ctx, state, body.GroupID, body.ItemID, body.State)
	})
}

// GetRatio handles GET /documents/{documentID}/ratio.
func (s *Server) GetRatio(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Title string        `json:"title"`
		Ratio *domain.Ratio `json:"ratio"`
	}{state.Title, state.Ratio()})
}

// GetMarkdown handles GET /documents/{documentID}/markdown.
func (s *Server) GetMarkdown(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, tui.Markdown(state))
}

// -- Helpers --

// mutate runs fn under the session lock and broadcasts the resulting diff.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn session.UpdateFunc) {
	id, ok := s.documentID(w, r)
	if !ok {
		return
	}

	prev, next, err := s.Sessions.Update(r.Context(), id, fn)
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}

	if diff := domain.Diff(prev, next); diff != nil {
		if bytes, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, string(bytes))
		}
	} else {
		s.logger.Debug("No diff calculated", "op", op, "session_id", id)
	}

	s.writeJSON(w, http.StatusOK, newDocumentResponse(next))
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*domain.State, bool) {
	id, ok := s.documentID(w, r)
	if !ok {
		return nil, false
	}
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "load", err)
		return nil, false
	}
	return state, true
}

func (s *Server) documentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "documentID", chi.URLParam(r, "documentID"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		s.writeError(w, r, "bind", fmt.Errorf("%w: %v", errBadRequest, err))
		return "", false
	}
	return id, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		s.writeError(w, r, op, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
