// Package devserver is a local stand-in for the BRIDGES server.
//
// It accepts the same POST requests as the real service, checks that the body
// looks like a visualization document and keeps the latest document per user
// and assignment in memory, so publishers and assignments can be exercised
// without network access.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bridges/internal/idgen"
	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
)

// MaxBodySize limits accepted documents.
const MaxBodySize = 8 << 20

// RevisionHeader carries the stored revision on responses.
const RevisionHeader = "X-Bridges-Revision"

// Server handles BRIDGES-compatible requests.
type Server struct {
	// APIKey, when set, must match the apikey query parameter.
	APIKey string

	store  *Store
	logger *log.Logger
}

// New creates a Server with an empty store.
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: NewStore(), logger: logger}
}

// Store returns the server's document store.
func (s *Server) Store() *Store { return s.store }

// PostResponse is returned for an accepted document.
type PostResponse struct {
	Revision   string `json:"revision"`
	Assignment string `json:"assignment"`
	User       string `json:"user"`
	Revisions  int    `json:"revisions"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "documents": s.store.Len()})
	})
	r.Post("/assignments/{assignment}", s.handlePost)
	r.Get("/assignments/{assignment}", s.handleGet)
	return r
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	assignment := chi.URLParam(r, "assignment")
	q := r.URL.Query()
	key, user := q.Get("apikey"), q.Get("username")

	if key == "" || (s.APIKey != "" && key != s.APIKey) {
		writeError(w, http.StatusUnauthorized, errs.New(errs.ErrCodeUnauthorized, "invalid or missing apikey"))
		return
	}
	if err := errs.ValidateUserName(user); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := errs.ValidateAssignment(assignment); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errs.New(errs.ErrCodeInvalidDocument, "document exceeds %d bytes", MaxBodySize))
			return
		}
		writeError(w, http.StatusBadRequest, errs.Wrap(errs.ErrCodeInvalidDocument, err, "read body"))
		return
	}
	doc, err := validateDocument(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	revision, err := idgen.WithPrefix("rev-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	e := s.store.Put(user, assignment, revision, doc)
	s.logger.Info("stored document",
		"user", user,
		"assignment", assignment,
		"visual", doc.Visual(),
		"revision", revision,
		"bytes", len(body))

	w.Header().Set(RevisionHeader, revision)
	writeJSON(w, http.StatusOK, PostResponse{
		Revision:   revision,
		Assignment: assignment,
		User:       user,
		Revisions:  e.Revisions,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	assignment := chi.URLParam(r, "assignment")
	user := r.URL.Query().Get("username")
	if err := errs.ValidateUserName(user); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, ok := s.store.Get(user, assignment)
	if !ok {
		writeError(w, http.StatusNotFound, errs.New(errs.ErrCodeNotFound, "no document for %s/%s", user, assignment))
		return
	}
	w.Header().Set(RevisionHeader, e.Revision)
	writeJSON(w, http.StatusOK, e.Document)
}

// validateDocument requires a JSON object with a string "visual".
func validateDocument(body []byte) (document.Document, error) {
	doc, err := document.Unmarshal(body)
	if err != nil {
		return nil, err
	}
	if _, ok := doc["visual"].(string); !ok {
		return nil, errs.New(errs.ErrCodeInvalidDocument, `document has no string "visual" field`)
	}
	return doc, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: errs.UserMessage(err), Code: string(errs.GetCode(err))})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("dev server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
