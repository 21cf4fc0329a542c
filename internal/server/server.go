// Package server exposes the payoff projection pipeline and the scenario
// store over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/payoff-forecast/internal/cache"
	"github.com/iwvelando/payoff-forecast/internal/config"
	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/internal/scenario"
	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/iwvelando/payoff-forecast/pkg/output"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/iwvelando/payoff-forecast/pkg/portfolio"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures NewHandler. Zero values select defaults; a nil Cache
// selects an in-process cache and a nil Store disables the scenario routes.
type Options struct {
	MaxUploadSize int64
	Version       string
	MaxMonths     int
	Cache         cache.Cache
	Store         scenario.Store
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	maxMonths     int
	cache         cache.Cache
	store         scenario.Store
}

// NewHandler constructs the HTTP handler that serves the projection and
// scenario APIs.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	maxMonths := opts.MaxMonths
	if maxMonths <= 0 {
		maxMonths = constants.DefaultMaxMonths
	}

	responses := opts.Cache
	if responses == nil {
		responses = cache.NewMemory(cache.DefaultTTL)
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		maxMonths:     maxMonths,
		cache:         responses,
		store:         opts.Store,
	}

	mux := http.NewServeMux()

	// Projection of an uploaded YAML or JSON configuration
	mux.HandleFunc("/api/projection", instrument("/api/projection", h.handleProjection))

	// Saved scenarios
	mux.HandleFunc("/api/scenarios", instrument("/api/scenarios", h.handleScenarios))
	mux.HandleFunc("/api/scenarios/{id}", instrument("/api/scenarios/{id}", h.handleScenario))

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", instrument("/api/version", h.handleVersion))

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

type projectionResponse struct {
	Projections []projection.Projection `json:"projections"`
	Summary     portfolio.Summary       `json:"summary"`
	CSV         string                  `json:"csv"`
	Warnings    []string                `json:"warnings,omitempty"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	key := cache.Key("projection", body)
	if cached, hit := h.cache.Get(r.Context(), key); hit {
		projectionCacheTotal.WithLabelValues("hit").Inc()
		w.Header().Set("X-Cache", "HIT")
		h.writeRawJSON(w, http.StatusOK, cached)
		return
	}
	projectionCacheTotal.WithLabelValues("miss").Inc()

	run, status, err := h.project(body)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	rows := run.cfg.Output.BreakdownRows
	limited := run.report.LimitBreakdown(rows)
	csv, err := output.CsvString(limited, rows)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	payload, err := json.Marshal(projectionResponse{
		Projections: limited.Projections,
		Summary:     limited.Summary,
		CSV:         csv,
		Warnings:    run.warnings,
	})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode projection: %v", err), op)
		return
	}

	if err := h.cache.Set(r.Context(), key, payload); err != nil {
		h.logger.Warn("failed to cache projection",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.Int("debts", len(run.report.Projections)),
		zap.Duration("duration", time.Since(start)),
	)

	w.Header().Set("X-Cache", "MISS")
	h.writeRawJSON(w, http.StatusOK, payload)
}

// projectionRun is one configuration document taken through the engine.
type projectionRun struct {
	cfg      *config.Configuration
	debts    []projection.Debt
	report   projection.Report
	warnings []string
}

// project loads a configuration document and runs it through the engine. The
// returned status is the HTTP status to use when err is non-nil.
func (h *handler) project(body []byte) (projectionRun, int, error) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(body))
	if err != nil {
		return projectionRun{}, http.StatusBadRequest, err
	}
	if len(cfg.Debts) == 0 {
		return projectionRun{}, http.StatusBadRequest, errors.New("configuration has no debts")
	}

	run := projectionRun{cfg: cfg, warnings: cfg.ValidateConfiguration()}
	run.debts, err = cfg.ToDebts()
	if err != nil {
		return projectionRun{}, http.StatusBadRequest, err
	}

	maxMonths := cfg.Simulation.MaxMonths
	if maxMonths > h.maxMonths {
		run.warnings = append(run.warnings, fmt.Sprintf("maxMonths %d exceeds the server limit; using %d", maxMonths, h.maxMonths))
		maxMonths = h.maxMonths
	}

	run.report, err = projection.NewEngine(h.logger, maxMonths).ProjectAll(run.debts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, payoff.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		return projectionRun{}, status, err
	}

	for _, proj := range run.report.Projections {
		outcome := "converged"
		if !proj.Plan.Converged() {
			outcome = "never"
		}
		debtsProjectedTotal.WithLabelValues(outcome).Inc()
	}

	return run, http.StatusOK, nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// readBody reads the request body within the upload limit, responding with
// an error and returning false on failure.
func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration", op)
		return nil, false
	}
	return body, true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
