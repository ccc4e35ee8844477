package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/parcel-planner/internal/knapsack"
	"github.com/eugenenazirov/parcel-planner/internal/metrics"
	"github.com/eugenenazirov/parcel-planner/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	// maxBodyBytes caps catalog and solve payloads.
	maxBodyBytes = 1 << 20

	defaultDPResolution = 100
	defaultBnBMaxQueue  = 1_000_000
)

// Handler wires solver and storage dependencies into HTTP handlers.
type Handler struct {
	storage storage.Storage
	solvers map[knapsack.Algorithm]knapsack.Solver
	logger  *zap.Logger
	metrics *metrics.Metrics

	clock        func() time.Time
	newID        func() string
	solveTimeout time.Duration

	mu               sync.RWMutex
	catalogUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithIDGenerator overrides how solve ids are generated, primarily for tests.
func WithIDGenerator(fn func() string) HandlerOption {
	return func(h *Handler) {
		h.newID = fn
	}
}

// WithLogger attaches a logger used for solve events.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics enables solve and request metrics and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithSolverOptions configures the exact solvers (DP resolution, search strategy, limits).
func WithSolverOptions(opts ...knapsack.Option) HandlerOption {
	return func(h *Handler) {
		h.solvers = buildSolvers(opts...)
	}
}

// WithSolveTimeout bounds how long a cancellable solve may run. Zero leaves
// only the request context in charge.
func WithSolveTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d >= 0 {
			h.solveTimeout = d
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		solvers: buildSolvers(
			knapsack.WithResolution(defaultDPResolution),
			knapsack.WithMaxQueue(defaultBnBMaxQueue),
		),
		logger: zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.catalogUpdatedAt = h.clock()
	return h
}

func buildSolvers(opts ...knapsack.Option) map[knapsack.Algorithm]knapsack.Solver {
	solvers := make(map[knapsack.Algorithm]knapsack.Solver, len(knapsack.Algorithms()))
	for _, alg := range knapsack.Algorithms() {
		// Every listed algorithm is known to knapsack.New.
		solver, _ := knapsack.New(alg, opts...)
		solvers[alg] = solver
	}
	return solvers
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.storage.GetCatalog(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := catalogResponse{
		Packages:  catalog.Packages,
		Capacity:  catalog.Capacity,
		UpdatedAt: h.currentCatalogUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutCatalog(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if req.Packages == nil {
		writeError(w, http.StatusBadRequest, "Invalid catalog", "packages must be provided (use [] for an empty catalog)")
		return
	}
	if req.Capacity == nil {
		writeError(w, http.StatusBadRequest, "Invalid catalog", "capacity must be provided")
		return
	}

	catalog := storage.Catalog{Packages: req.Packages, Capacity: *req.Capacity}
	if err := h.storage.SetCatalog(r.Context(), catalog); err != nil {
		if errors.Is(err, storage.ErrInvalidCatalog) {
			writeError(w, http.StatusBadRequest, "Invalid catalog", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markCatalogUpdated()

	stored, err := h.storage.GetCatalog(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := catalogResponse{
		Packages:  stored.Packages,
		Capacity:  stored.Capacity,
		UpdatedAt: h.currentCatalogUpdatedAt(),
		Message:   "Catalog updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) currentCatalogUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalogUpdatedAt
}

func (h *Handler) markCatalogUpdated() {
	h.mu.Lock()
	h.catalogUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type catalogRequest struct {
	Packages []knapsack.Item `json:"packages"`
	Capacity *float64        `json:"capacity"`
}

type catalogResponse struct {
	Packages  []knapsack.Item `json:"packages"`
	Capacity  float64         `json:"capacity"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Message   string          `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request too large",
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
