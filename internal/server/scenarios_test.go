package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/internal/scenario"
	"github.com/iwvelando/payoff-forecast/internal/scenario/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func payoffDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func newScenarioHandler(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(zap.NewNop(), filepath.Join(t.TempDir(), "scenarios.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewHandler(zap.NewNop(), Options{Store: store})
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestScenarioLifecycle(t *testing.T) {
	handler := newScenarioHandler(t)

	rr := post(t, handler, "/api/scenarios", projectionConfig)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var saved scenariosResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &saved); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(saved.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(saved.Scenarios))
	}

	visa := saved.Scenarios[0]
	if visa.DebtID != "visa" || visa.Strategy != projection.StrategyFixed {
		t.Errorf("declared payment should be saved as a fixed plan, got %+v", visa)
	}
	if !visa.FixedAmount.Equal(payoffDecimal(t, "120")) {
		t.Errorf("fixed amount = %s, expected 120", visa.FixedAmount)
	}
	if visa.Months == nil || *visa.Months != 12 {
		t.Errorf("months = %v, expected 12", visa.Months)
	}

	rr = do(handler, http.MethodGet, "/api/scenarios?debt=visa")
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var listed scenariosResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listed.Scenarios) != 1 || listed.Scenarios[0].ID != visa.ID {
		t.Errorf("unexpected list %+v", listed.Scenarios)
	}

	rr = do(handler, http.MethodGet, "/api/scenarios/"+visa.ID)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rr.Code)
	}
	var fetched scenario.Scenario
	if err := json.Unmarshal(rr.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode scenario: %v", err)
	}
	if fetched.TotalInterest == nil || !fetched.TotalInterest.Equal(*visa.TotalInterest) {
		t.Errorf("total interest = %v, expected %v", fetched.TotalInterest, visa.TotalInterest)
	}

	if rr = do(handler, http.MethodDelete, "/api/scenarios/"+visa.ID); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rr.Code)
	}
	if rr = do(handler, http.MethodGet, "/api/scenarios/"+visa.ID); rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", rr.Code)
	}
	if rr = do(handler, http.MethodDelete, "/api/scenarios/"+visa.ID); rr.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rr.Code)
	}
}

func TestScenarioErrors(t *testing.T) {
	handler := newScenarioHandler(t)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{name: "list without debt", method: http.MethodGet, target: "/api/scenarios", wantStatus: http.StatusBadRequest},
		{name: "unsupported method", method: http.MethodPut, target: "/api/scenarios", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown id", method: http.MethodGet, target: "/api/scenarios/nope", wantStatus: http.StatusNotFound},
		{name: "unsupported item method", method: http.MethodPost, target: "/api/scenarios/nope", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := do(handler, tt.method, tt.target); rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestScenariosWithoutStore(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{})

	if rr := do(handler, http.MethodGet, "/api/scenarios?debt=visa"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
	if rr := do(handler, http.MethodGet, "/api/scenarios/abc"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
}

type failingStore struct {
	*sqlite.Store
}

func (f failingStore) SaveAll(context.Context, []*scenario.Scenario) error {
	return errors.New("disk full")
}

func TestScenarioSaveFailure(t *testing.T) {
	store, err := sqlite.New(zap.NewNop(), filepath.Join(t.TempDir(), "scenarios.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	handler := NewHandler(zap.NewNop(), Options{Store: failingStore{store}})

	rr := post(t, handler, "/api/scenarios", projectionConfig)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", rr.Code, rr.Body.String())
	}

	for _, debtID := range []string{"visa", "car"} {
		saved, err := store.ListByDebt(context.Background(), debtID)
		if err != nil {
			t.Fatalf("ListByDebt(%s) error = %v", debtID, err)
		}
		if len(saved) != 0 {
			t.Errorf("expected no %s scenarios after a failed save, got %d", debtID, len(saved))
		}
	}
}
