package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	apperrors "github.com/renderkit/husksubmit/pkg/errors"
	"github.com/renderkit/husksubmit/pkg/observability"
	"github.com/renderkit/husksubmit/pkg/pipeline"
	"github.com/renderkit/husksubmit/pkg/usd"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve render graph extraction and planning over HTTP",
		Long: `Serve starts an HTTP API exposing the same pipeline the CLI uses:

  POST /v1/graph   Extract the render graph of a scene file
  POST /v1/plan    Resolve passes, settings, and outputs
  GET  /healthz    Liveness check

Scenes are referenced by path, so the server must see the same filesystem
as the artists' workstations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8787", "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner, cleanup, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &apiServer{runner: runner, cli: c}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("api listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// apiMetrics reports request events to the observability hooks.
func apiMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observability.API().OnRequest(r.Context(), r.Method, r.URL.Path)
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.API().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

type apiServer struct {
	runner *pipeline.Runner
	cli    *CLI
}

// routes builds the chi router with all API endpoints and middleware.
func (s *apiServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMetrics)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/graph", s.handleGraph)
		r.Post("/plan", s.handlePlan)
	})
	return r
}

// graphRequest is the body of POST /v1/graph. Either a scene path to dump
// or pre-captured dump text must be provided.
type graphRequest struct {
	SceneFile string `json:"scene_file,omitempty"`
	Text      string `json:"text,omitempty"`
}

// planRequest is the body of POST /v1/plan.
type planRequest struct {
	SceneFile string `json:"scene_file"`
	Passes    string `json:"passes,omitempty"`
	Settings  string `json:"settings,omitempty"`
	Outputs   string `json:"outputs,omitempty"`
}

type planResponse struct {
	SceneFile string `json:"scene_file"`
	Frames    string `json:"frames,omitempty"`
	Plans     any    `json:"plans"`
}

// errorEnvelope is the JSON error body: {"error": {"code": ..., "message": ...}}.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body"))
		return
	}

	var (
		g   *usd.RenderGraph
		err error
	)
	switch {
	case req.Text != "":
		g, err = usd.ParseText(req.Text)
	case req.SceneFile != "":
		g, err = s.runner.Inspect(r.Context(), req.SceneFile)
	default:
		err = apperrors.New(apperrors.ErrCodeInvalidInput, "scene_file or text is required")
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *apiServer) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	if req.SceneFile == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "scene_file is required"))
		return
	}

	g, plans, err := s.runner.PlanScene(r.Context(), req.SceneFile, pipeline.Options{
		Passes:   req.Passes,
		Settings: req.Settings,
		Outputs:  req.Outputs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{
		SceneFile: req.SceneFile,
		Frames:    g.FrameRange(),
		Plans:     plans,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps application error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidPattern,
		apperrors.ErrCodeInvalidPath, apperrors.ErrCodeInvalidFrames:
		status = http.StatusBadRequest
	case apperrors.ErrCodeMalformedLayer:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound,
		apperrors.ErrCodeExecutableNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeDumpFailed, apperrors.ErrCodeSubmissionFailed:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	}})
}
