// Package server exposes the connectivity build over HTTP.
//
// Routes:
//
//	GET  /healthz                                   liveness and build info
//	POST /v1/matrix?zero_diagonal=true&format=csv   edge list in, matrix out
//
// Every response carries an X-Request-ID header. Builds share the pipeline
// runner's cache with the CLI.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/connmat/pkg/archive"
	"github.com/matzehuels/connmat/pkg/buildinfo"
	"github.com/matzehuels/connmat/pkg/connectivity"
	"github.com/matzehuels/connmat/pkg/errors"
	"github.com/matzehuels/connmat/pkg/pipeline"
)

// DefaultMaxBodyBytes caps the request body of POST /v1/matrix.
const DefaultMaxBodyBytes = 32 << 20

// Response headers set by POST /v1/matrix.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderSize      = "X-Matrix-Size"
	HeaderCache     = "X-Cache"
	HeaderArchiveID = "X-Archive-ID"
)

// Server serves matrix builds.
type Server struct {
	runner  *pipeline.Runner
	archive archive.Store
	logger  *log.Logger
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithArchive saves every successful build to store.
func WithArchive(store archive.Store) Option {
	return func(s *Server) { s.archive = store }
}

// WithMaxBodyBytes overrides [DefaultMaxBodyBytes].
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/matrix", s.handleMatrix)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	opts := connectivity.DefaultOptions()
	if v := r.URL.Query().Get("zero_diagonal"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest,
				errors.New(errors.ErrCodeInvalidInput, "zero_diagonal must be a boolean, got %q", v))
			return
		}
		opts.ZeroDiagonal = b
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatCSV
	}
	if format != pipeline.FormatCSV && format != pipeline.FormatJSON {
		writeError(w, http.StatusBadRequest,
			errors.New(errors.ErrCodeInvalidFormat, "format must be csv or json, got %q", format))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInputAccess, err, "read request body"))
		return
	}

	ctx := r.Context()
	res, hash, hit, err := s.runner.Build(ctx, data, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrCodeInputAccess) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	var body bytes.Buffer
	if err := pipeline.Encode(ctx, &body, res, format); err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "encode matrix"))
		return
	}

	if s.archive != nil {
		rec := archive.NewRecord(res, "http", hash)
		if err := s.archive.Save(ctx, rec); err != nil {
			s.logger.Warn("archive failed", "request_id", RequestID(ctx), "err", err)
		} else {
			w.Header().Set(HeaderArchiveID, rec.ID)
		}
	}

	contentType := "text/csv; charset=utf-8"
	if format == pipeline.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set(HeaderSize, strconv.Itoa(res.Size()))
	w.Header().Set(HeaderCache, cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	if _, err := body.WriteTo(w); err != nil {
		s.logger.Debug("write response", "request_id", RequestID(ctx), "err", err)
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
