package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/internal/scenario"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"go.uber.org/zap"
)

type scenariosResponse struct {
	Scenarios []scenario.Scenario `json:"scenarios"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// handleScenarios saves one scenario per debt of an uploaded configuration
// (POST) or lists a debt's saved scenarios (GET ?debt=ID).
func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "scenario storage is not configured", "server.handleScenarios")
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.saveScenarios(w, r)
	case http.MethodGet:
		h.listScenarios(w, r)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) saveScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.saveScenarios"

	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	run, status, err := h.project(body)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	records := make([]*scenario.Scenario, 0, len(run.report.Projections))
	for i, proj := range run.report.Projections {
		plan := run.debts[i].Plan
		if plan.Strategy == projection.StrategyNone {
			plan = projection.Plan{
				Strategy: projection.StrategyFixed,
				Fixed:    payoff.FixedPlan{Amount: proj.Payment},
			}
		}

		record, err := scenario.FromProjection(proj.DebtID, plan, proj.Plan)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		records = append(records, &record)
	}

	if err := h.store.SaveAll(r.Context(), records); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save scenarios: %v", err), op)
		return
	}
	saved := make([]scenario.Scenario, 0, len(records))
	for _, record := range records {
		saved = append(saved, *record)
	}

	h.logger.Info("scenarios saved",
		zap.String("op", op),
		zap.Int("scenarios", len(saved)),
	)
	h.writeJSON(w, http.StatusCreated, scenariosResponse{Scenarios: saved, Warnings: run.warnings})
}

func (h *handler) listScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.listScenarios"

	debtID := strings.TrimSpace(r.URL.Query().Get("debt"))
	if debtID == "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing debt query parameter", op)
		return
	}

	scenarios, err := h.store.ListByDebt(r.Context(), debtID)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, scenariosResponse{Scenarios: scenarios})
}

// handleScenario reads (GET) or deletes (DELETE) a single scenario.
func (h *handler) handleScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenario"
	if h.store == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "scenario storage is not configured", op)
		return
	}

	id := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		sc, err := h.store.Get(r.Context(), id)
		if err != nil {
			h.respondErrorWithOp(w, storeStatus(err), err.Error(), op)
			return
		}
		h.writeJSON(w, http.StatusOK, sc)
	case http.MethodDelete:
		if err := h.store.Delete(r.Context(), id); err != nil {
			h.respondErrorWithOp(w, storeStatus(err), err.Error(), op)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func storeStatus(err error) int {
	if errors.Is(err, scenario.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
