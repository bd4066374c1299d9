// Package api exposes generation, execution and stored results over
// HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/apiforge/apiforge/config"
	"github.com/apiforge/apiforge/pkg/generator"
	"github.com/apiforge/apiforge/pkg/models"
	"github.com/apiforge/apiforge/pkg/parser"
	"github.com/apiforge/apiforge/pkg/runner"
	"github.com/apiforge/apiforge/pkg/storage"
	"github.com/apiforge/apiforge/pkg/valuepool"
)

type Handler struct {
	logger *zap.Logger
	cfg    *config.Config
	store  *storage.Store
}

func Register(r chi.Router, logger *zap.Logger, cfg *config.Config, store *storage.Store) {
	h := &Handler{logger: logger, cfg: cfg, store: store}

	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", h.Generate)
		r.Post("/run", h.Run)
		r.Get("/results", h.ListResults)
		r.Get("/results/{id}", h.GetResult)
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

type generateReq struct {
	// Spec carries the OpenAPI document inline, as JSON or YAML.
	Spec string `json:"spec"`
	// SpecPath points at a document on the server's filesystem and is
	// used when Spec is empty.
	SpecPath string `json:"spec_path"`
	Seed     int64  `json:"seed"`
}

type generateResp struct {
	ID     string                  `json:"id"`
	Suites *models.GeneratedSuites `json:"suites"`
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p := parser.New(h.logger)
	var (
		spec *models.APISpec
		err  error
	)
	switch {
	case req.Spec != "":
		spec, err = p.ParseData(r.Context(), []byte(req.Spec))
	case req.SpecPath != "":
		spec, err = p.ParseFile(r.Context(), req.SpecPath)
	default:
		http.Error(w, "either spec or spec_path is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("failed to parse openapi document", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pool := valuepool.New()
	if req.Seed != 0 {
		pool = valuepool.NewWithSeed(req.Seed)
	}
	suites, err := generator.New(h.logger, pool).All(spec)
	if err != nil {
		h.logger.Error("failed to generate test cases", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	id, err := h.store.SaveCases(suites)
	if err != nil {
		h.logger.Error("failed to store generated cases", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, generateResp{ID: id, Suites: suites})
}

type runReq struct {
	// CasesID references a previously generated document; Suites may
	// be sent inline instead.
	CasesID   string             `json:"cases_id"`
	Suites    []models.CaseSuite `json:"suites"`
	BaseURL   string             `json:"base_url"`
	Timeout   uint64             `json:"timeout"`
	Parallel  bool               `json:"parallel"`
	Workers   int                `json:"workers"`
	RateLimit float64            `json:"rate_limit"`
	Vars      map[string]any     `json:"vars"`
	Headers   map[string]string  `json:"headers"`
}

type runResp struct {
	ID      string                `json:"id"`
	Results []*models.SuiteResult `json:"results"`
}

func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req runReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.BaseURL == "" {
		http.Error(w, "base_url is required", http.StatusBadRequest)
		return
	}

	suites := req.Suites
	if req.CasesID != "" {
		stored, err := h.store.GetCases(req.CasesID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		suites = stored.Suites
	}
	if len(suites) == 0 {
		http.Error(w, "no test cases to run", http.StatusBadRequest)
		return
	}

	opts := []runner.Option{
		runner.WithVariables(req.Vars),
		runner.WithDefaultHeaders(req.Headers),
	}
	if req.Timeout > 0 {
		opts = append(opts, runner.WithTimeout(time.Duration(req.Timeout)*time.Second))
	}
	run := runner.New(h.logger, req.BaseURL, opts...)

	suiteOpts := runner.SuiteOptions{Parallel: req.Parallel, Workers: req.Workers}
	if req.RateLimit > 0 {
		suiteOpts.Limiter = rate.NewLimiter(rate.Limit(req.RateLimit), 1)
	}
	results := run.ExecuteAll(r.Context(), suites, suiteOpts)

	id, err := h.store.SaveResults(results)
	if err != nil {
		h.logger.Error("failed to store run results", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, runResp{ID: id, Results: results})
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List()
	if err != nil {
		h.logger.Error("failed to list stored documents", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, entries)
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	results, err := h.store.GetResults(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	render.JSON(w, r, results)
}
