/*
handlers.go - HTTP API handlers for the cash-flow engine

PURPOSE:
  Exposes the projection engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the factory (validation), the engine
  (cashflow.Run) and the store (saved scenarios, run history).

ENDPOINTS:
  Simulation:
    POST   /api/simulate                 Run a scenario document (not recorded)

  Presets:
    GET    /api/presets                  List built-in scenarios
    GET    /api/presets/{id}             Get one preset with its document
    POST   /api/presets/{id}/simulate    Run a preset

  Scenarios:
    GET    /api/scenarios                List saved scenarios
    POST   /api/scenarios                Save a new scenario
    GET    /api/scenarios/{id}           Get a saved scenario
    PUT    /api/scenarios/{id}           Replace a saved scenario (bumps version)
    DELETE /api/scenarios/{id}           Delete a scenario and its runs
    POST   /api/scenarios/{id}/simulate  Run and record a saved scenario

  Runs:
    GET    /api/runs?scenario_id=        Run history, newest first
    GET    /api/runs/{id}                One run with its result

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: saved scenarios and runs
  - Factory: JSON to engine inputs
  - Cache: encoded results keyed by input hash
  - Events: SimulationCompleted publisher

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (factory)
  3. Look up the cache, else run the engine
  4. Record run + publish event (saved scenarios only)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Scenario, preset or run not found
  - 409: Scenario ID already taken
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/cashflow-engine/cache"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/events"
	"github.com/warp/cashflow-engine/factory"
	"github.com/warp/cashflow-engine/store"
)

// maxBodyBytes bounds scenario documents.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   store.Store
	Factory *factory.ScenarioFactory

	Cache    cache.Cache
	CacheTTL time.Duration

	Events events.Publisher
	Topic  string

	// DefaultStart fills in scenarios that omit "start".
	DefaultStart string

	now   func() time.Time
	newID func() string
}

// NewHandler creates a handler with caching and events disabled.
func NewHandler(st store.Store) *Handler {
	return &Handler{
		Store:   st,
		Factory: factory.NewScenarioFactory(),
		Cache:   cache.Nop{},
		Events:  events.Nop{},
		Topic:   events.TopicSimulationCompleted,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// simulation is one engine run and how it was obtained.
type simulation struct {
	result    *cashflow.Result
	inputHash string
	cached    bool
}

// simulate validates sj and runs it, going through the cache.
func (h *Handler) simulate(ctx context.Context, sj factory.ScenarioJSON) (*simulation, error) {
	if sj.Start == "" {
		sj.Start = h.DefaultStart
	}
	in, err := h.Factory.FromJSON(sj)
	if err != nil {
		return nil, err
	}

	key, err := cache.Key("simulation", in)
	if err != nil {
		return nil, err
	}
	sim := &simulation{inputHash: strings.TrimPrefix(key, "simulation:")}

	data, err := h.Cache.Get(ctx, key)
	switch {
	case err == nil:
		var res cashflow.Result
		if err := json.Unmarshal(data, &res); err == nil {
			sim.result, sim.cached = &res, true
			return sim, nil
		}
		log.Printf("Warning: discarding undecodable cache entry %s", key)
	case !errors.Is(err, cache.ErrCacheMiss):
		log.Printf("Warning: cache lookup failed: %v", err)
	}

	sim.result = cashflow.Run(in)

	if data, err := json.Marshal(sim.result); err == nil {
		if err := h.Cache.Set(ctx, key, data, h.CacheTTL); err != nil {
			log.Printf("Warning: cache store failed: %v", err)
		}
	}
	return sim, nil
}

// record saves a run of a stored scenario and announces it.
func (h *Handler) record(ctx context.Context, scenarioID string, sim *simulation) (string, error) {
	runID := h.newID()
	rec := store.NewRunRecord(runID, scenarioID, sim.inputHash, sim.result)
	rec.CreatedAt = h.now().UTC()

	if err := h.Store.SaveRun(ctx, rec); err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}

	event := events.NewSimulationCompleted(runID, scenarioID, sim.inputHash, sim.result, rec.CreatedAt)
	if err := h.Events.Publish(ctx, h.Topic, event); err != nil {
		// The run is stored; a lost notification does not fail the request.
		log.Printf("Warning: publishing run %s: %v", runID, err)
	}
	return runID, nil
}

// =============================================================================
// SIMULATION HANDLERS
// =============================================================================

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// Simulate runs the scenario in the request body without recording it.
// POST /api/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	sj, err := decodeScenario(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sim, err := h.simulate(r.Context(), sj)
	if err != nil {
		writeError(w, statusFor(err), "Simulation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, simulationResponse(sim, "", "", view(r)))
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns the built-in scenarios without their documents.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := factory.Presets()
	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		dtos[i] = PresetDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPreset returns one preset including its scenario document.
// GET /api/presets/{id}
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	p, ok := factory.LookupPreset(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Preset not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, PresetDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Scenario:    &p.Scenario,
	})
}

// SimulatePreset runs a built-in scenario.
// POST /api/presets/{id}/simulate
func (h *Handler) SimulatePreset(w http.ResponseWriter, r *http.Request) {
	p, ok := factory.LookupPreset(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Preset not found", nil)
		return
	}

	sim, err := h.simulate(r.Context(), p.Scenario)
	if err != nil {
		writeError(w, statusFor(err), "Simulation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, simulationResponse(sim, "", p.ID, view(r)))
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns every saved scenario.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListScenarios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scenarios", err)
		return
	}

	dtos := make([]ScenarioDTO, len(records))
	for i, rec := range records {
		dtos[i] = toScenarioDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateScenario saves a new scenario. A missing ID is generated.
// POST /api/scenarios
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	sj, err := decodeScenario(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if sj.ID == "" {
		sj.ID = h.newID()
	}

	_, err = h.Store.GetScenario(r.Context(), sj.ID)
	switch {
	case err == nil:
		writeError(w, http.StatusConflict, "Scenario already exists", fmt.Errorf("id %q is taken", sj.ID))
		return
	case !errors.Is(err, store.ErrScenarioNotFound):
		writeError(w, http.StatusInternalServerError, "Failed to create scenario", err)
		return
	}

	rec, err := h.saveScenario(r.Context(), sj)
	if err != nil {
		writeError(w, statusFor(err), "Failed to create scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, toScenarioDTO(*rec))
}

// GetScenario returns a saved scenario.
// GET /api/scenarios/{id}
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, toScenarioDTO(*rec))
}

// UpdateScenario replaces a saved scenario. The URL ID wins over the body's.
// PUT /api/scenarios/{id}
func (h *Handler) UpdateScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetScenario(r.Context(), id); err != nil {
		writeError(w, statusFor(err), "Failed to update scenario", err)
		return
	}

	sj, err := decodeScenario(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	sj.ID = id

	rec, err := h.saveScenario(r.Context(), sj)
	if err != nil {
		writeError(w, statusFor(err), "Failed to update scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, toScenarioDTO(*rec))
}

// DeleteScenario removes a scenario and its run history.
// DELETE /api/scenarios/{id}
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteScenario(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusFor(err), "Failed to delete scenario", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SimulateScenario runs a saved scenario and records the run.
// POST /api/scenarios/{id}/simulate
func (h *Handler) SimulateScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := h.Store.GetScenario(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get scenario", err)
		return
	}

	sim, err := h.simulate(ctx, rec.Scenario)
	if err != nil {
		writeError(w, statusFor(err), "Simulation failed", err)
		return
	}

	runID, err := h.record(ctx, rec.ID, sim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record run", err)
		return
	}

	writeJSON(w, http.StatusCreated, simulationResponse(sim, runID, rec.ID, view(r)))
}

func (h *Handler) saveScenario(ctx context.Context, sj factory.ScenarioJSON) (*store.ScenarioRecord, error) {
	if err := factory.Validate(sj); err != nil {
		return nil, err
	}
	name := sj.Name
	if name == "" {
		name = sj.ID
	}

	if err := h.Store.SaveScenario(ctx, store.ScenarioRecord{ID: sj.ID, Name: name, Scenario: sj}); err != nil {
		return nil, err
	}
	return h.Store.GetScenario(ctx, sj.ID)
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// ListRuns returns run history, optionally for one scenario.
// GET /api/runs?scenario_id=
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRuns(r.Context(), r.URL.Query().Get("scenario_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRunDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one run with its result.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Failed to get run", err)
		return
	}

	dto := toRunDTO(*rec)
	if rec.Result != nil {
		sim := &simulation{result: rec.Result, inputHash: rec.InputHash}
		result := simulationResponse(sim, rec.ID, rec.ScenarioID, view(r))
		dto.Result = &result
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeScenario(r *http.Request) (factory.ScenarioJSON, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return factory.ScenarioJSON{}, err
	}
	return factory.Decode(data)
}

func simulationResponse(sim *simulation, runID, scenarioID, view string) SimulationDTO {
	dto := toSimulationDTO(sim.result, view)
	dto.RunID = runID
	dto.ScenarioID = scenarioID
	dto.InputHash = sim.inputHash
	dto.Cached = sim.cached
	return dto
}

func view(r *http.Request) string {
	if r.URL.Query().Get("view") == viewSummary {
		return viewSummary
	}
	return viewFull
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
