package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/pipeline"
)

// serveCommand creates the serve command: a small HTTP API over the
// pipeline and the record store.
func (c *CLI) serveCommand() *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction pipeline over HTTP",
		Long: `Start an HTTP server exposing the pipeline:

  POST /api/extract     run the pipeline for a case URL
  GET  /api/cases       list stored case IDs
  GET  /api/cases/{id}  fetch a stored case record
  GET  /healthz         liveness probe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			addr := c.Config.Server.Bind
			if bind != "" {
				addr = bind
			}

			api := &apiServer{runner: runner, cli: c}
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info("serving", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "listen address (overrides config)")
	return cmd
}

// apiServer carries the HTTP handlers' shared state.
type apiServer struct {
	runner *pipeline.Runner
	cli    *CLI
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Get("/cases", s.handleListCases)
		r.Get("/cases/{id}", s.handleGetCase)
	})
	return r
}

// extractResponse is the wire form of a pipeline result. Artifact
// bytes ride as base64 under their format key.
type extractResponse struct {
	Case          *fkd.Case               `json:"case"`
	Warnings      []mandala.UnknownMarker `json:"warnings,omitempty"`
	StructureHash string                  `json:"structure_hash"`
	Artifacts     map[string][]byte       `json:"artifacts,omitempty"`
	Stats         statsResponse           `json:"stats"`
	CacheInfo     pipeline.CacheInfo      `json:"cache_info"`
}

type statsResponse struct {
	ItemCount int   `json:"item_count"`
	ExtractMS int64 `json:"extract_ms"`
	LayoutMS  int64 `json:"layout_ms"`
	RenderMS  int64 `json:"render_ms"`
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleExtract(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	opts.Logger = s.cli.Logger
	// Server-side settings are not client-controlled.
	opts.FontFile = s.cli.Config.Output.FontPath
	opts.OutputDir = ""

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, extractResponse{
		Case:          res.Case,
		Warnings:      res.Warnings,
		StructureHash: res.StructureHash,
		Artifacts:     res.Artifacts,
		Stats: statsResponse{
			ItemCount: res.Stats.ItemCount,
			ExtractMS: res.Stats.ExtractTime.Milliseconds(),
			LayoutMS:  res.Stats.LayoutTime.Milliseconds(),
			RenderMS:  res.Stats.RenderTime.Milliseconds(),
		},
		CacheInfo: res.CacheInfo,
	})
}

func (s *apiServer) handleListCases(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no record store configured"))
		return
	}
	ids, err := s.runner.Store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"cases": ids})
}

func (s *apiServer) handleGetCase(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no record store configured"))
		return
	}
	record, err := s.runner.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeError maps error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case errors.IsExclusion(err):
		status = http.StatusUnprocessableEntity
	case code == errors.ErrCodeNotFound || code == errors.ErrCodeCaseNotFound:
		status = http.StatusNotFound
	case code == errors.ErrCodeInvalidInput || code == errors.ErrCodeInvalidURL ||
		code == errors.ErrCodeInvalidFormat || code == errors.ErrCodeInvalidCase:
		status = http.StatusBadRequest
	case code == errors.ErrCodeNetwork || code == errors.ErrCodeTimeout:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": errors.UserMessage(err),
		},
	})
}
