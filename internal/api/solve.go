package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/parcel-planner/internal/knapsack"
	"github.com/eugenenazirov/parcel-planner/internal/metrics"
)

const algorithmAll = "all"

type solveRequest struct {
	Algorithm string          `json:"algorithm"`
	Capacity  *float64        `json:"capacity"`
	Packages  []knapsack.Item `json:"packages"`
}

type solveResult struct {
	Algorithm         knapsack.Algorithm `json:"algorithm"`
	Selected          []knapsack.Item    `json:"selected"`
	TotalWeight       float64            `json:"totalWeight"`
	TotalPriority     float64            `json:"totalPriority"`
	Explored          int                `json:"explored"`
	CalculationTimeMs int64              `json:"calculationTimeMs"`
}

type solveResponse struct {
	ID       string        `json:"id"`
	Capacity float64       `json:"capacity"`
	Packages int           `json:"packages"`
	Results  []solveResult `json:"results"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	algorithms, err := resolveAlgorithms(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error(),
			"Use one of: all, greedy, dp, branch_and_bound")
		return
	}

	packages := req.Packages
	var capacity float64
	if req.Packages == nil || req.Capacity == nil {
		catalog, err := h.storage.GetCatalog(r.Context())
		if err != nil {
			writeInternalError(w, err)
			return
		}
		if packages == nil {
			packages = catalog.Packages
		}
		capacity = catalog.Capacity
	}
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	resp := solveResponse{
		ID:       h.newID(),
		Capacity: capacity,
		Packages: len(packages),
		Results:  make([]solveResult, 0, len(algorithms)),
	}

	ctx := r.Context()
	if h.solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.solveTimeout)
		defer cancel()
	}

	for _, alg := range algorithms {
		start := time.Now()
		res, solveErr := solveWithContext(ctx, h.solvers[alg], packages, capacity)
		elapsed := time.Since(start)

		if solveErr != nil {
			h.metrics.ObserveSolve(string(alg), solveOutcome(solveErr), elapsed, 0)
			h.logger.Warn("solve failed",
				zap.String("solve_id", resp.ID),
				zap.String("algorithm", string(alg)),
				zap.Error(solveErr),
			)
			writeSolveError(w, alg, solveErr)
			return
		}

		h.metrics.ObserveSolve(string(alg), metrics.OutcomeOK, elapsed, res.Explored)
		h.logger.Info("solve completed",
			zap.String("solve_id", resp.ID),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("algorithm", string(alg)),
			zap.Int("packages", len(packages)),
			zap.Float64("capacity", capacity),
			zap.Int("selected", len(res.Selected)),
			zap.Int("explored", res.Explored),
			zap.Duration("duration", elapsed),
		)

		resp.Results = append(resp.Results, solveResult{
			Algorithm:         res.Algorithm,
			Selected:          res.Selected,
			TotalWeight:       round2(res.TotalWeight),
			TotalPriority:     round2(res.TotalPriority),
			Explored:          res.Explored,
			CalculationTimeMs: elapsed.Milliseconds(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func solveWithContext(ctx context.Context, solver knapsack.Solver, items []knapsack.Item, capacity float64) (knapsack.Result, error) {
	if cs, ok := solver.(knapsack.ContextSolver); ok {
		return cs.SolveContext(ctx, items, capacity)
	}
	return solver.Solve(items, capacity)
}

func resolveAlgorithms(name string) ([]knapsack.Algorithm, error) {
	if name = strings.TrimSpace(name); name == "" || strings.EqualFold(name, algorithmAll) {
		return knapsack.Algorithms(), nil
	}
	alg, err := knapsack.ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}
	return []knapsack.Algorithm{alg}, nil
}

func solveOutcome(err error) string {
	if errors.Is(err, knapsack.ErrTableTooLarge) || errors.Is(err, knapsack.ErrSearchLimit) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return metrics.OutcomeLimited
	}
	return metrics.OutcomeRejected
}

func writeSolveError(w http.ResponseWriter, alg knapsack.Algorithm, err error) {
	switch {
	case errors.Is(err, knapsack.ErrInvalidWeight),
		errors.Is(err, knapsack.ErrInvalidPriority),
		errors.Is(err, knapsack.ErrDuplicateID):
		writeError(w, http.StatusBadRequest, "Invalid packages", err.Error())
	case errors.Is(err, knapsack.ErrInvalidCapacity):
		suggestion := ""
		if alg == knapsack.DynamicProgramming {
			suggestion = "The dp solver needs a capacity that is a whole number of weight units; raise dp_resolution or use branch_and_bound"
		}
		writeError(w, http.StatusBadRequest, "Invalid capacity", err.Error(), suggestion)
	case errors.Is(err, knapsack.ErrTableTooLarge), errors.Is(err, knapsack.ErrSearchLimit):
		writeError(w, http.StatusUnprocessableEntity, "Problem too large", err.Error(),
			"Reduce the number of packages or the capacity, or use the greedy solver")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "Solve interrupted", err.Error(),
			"Use the dp or greedy solver for large inputs")
	default:
		writeInternalError(w, err)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
