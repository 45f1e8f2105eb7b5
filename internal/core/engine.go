package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/agenthands/matchbox/internal/cache"
	"github.com/agenthands/matchbox/internal/core/analysis"
	"github.com/agenthands/matchbox/internal/core/model"
	"github.com/agenthands/matchbox/internal/core/solver"
	"github.com/agenthands/matchbox/internal/driver"
	"github.com/agenthands/matchbox/internal/metrics"
)

// ErrNoStore is returned by EvaluateStored when the engine has no season
// store configured.
var ErrNoStore = errors.New("no season store configured")

// Report is everything derived from one season snapshot.
type Report struct {
	RunID         string                  `json:"runId"`
	SeasonID      model.ID                `json:"seasonId"`
	Fingerprint   string                  `json:"fingerprint"`
	Cached        bool                    `json:"cached"`
	Result        *solver.Result          `json:"result"`
	Analysis      *model.Analysis         `json:"analysis"`
	Probabilities []model.PairProbability `json:"probabilities"`
}

// Engine runs the solver behind a result cache and collapses concurrent
// requests for the same snapshot into one solve.
type Engine struct {
	Store   driver.SeasonStore
	Cache   cache.ResultCache
	Solver  *solver.Solver
	Timeout time.Duration

	logger *zap.Logger
	flight singleflight.Group
}

func NewEngine(store driver.SeasonStore, resultCache cache.ResultCache, s *solver.Solver, timeout time.Duration, logger *zap.Logger) *Engine {
	if resultCache == nil {
		resultCache = cache.NoopCache{}
	}
	if s == nil {
		s = solver.New(solver.WithLogger(logger))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Store:   store,
		Cache:   resultCache,
		Solver:  s,
		Timeout: timeout,
		logger:  logger,
	}
}

// Evaluate solves season and derives the partner analysis and couple
// probabilities from the result. Missing evidence ids are filled in on
// season before solving.
func (e *Engine) Evaluate(ctx context.Context, season *model.Season) (*Report, error) {
	if season == nil {
		return nil, fmt.Errorf("%w: nil season", solver.ErrMalformedEvidence)
	}
	season.Normalize()

	key, err := cache.Fingerprint(season)
	if err != nil {
		return nil, err
	}
	report := &Report{
		RunID:       uuid.New().String(),
		SeasonID:    season.ID,
		Fingerprint: key,
	}
	log := e.logger.With(zap.String("run_id", report.RunID), zap.String("season", string(season.ID)))

	res, hit := e.lookup(ctx, key, log)
	if hit {
		report.Cached = true
	} else {
		res, err = e.solve(ctx, key, season, log)
		if err != nil {
			return nil, err
		}
	}

	report.Result = res
	report.Analysis = analysis.AnalyzePartnerPossibilities(season, res.Solutions)
	report.Probabilities = analysis.Probabilities(season, res.Solutions)
	log.Info("season evaluated",
		zap.String("status", string(res.Status)),
		zap.Int("solutions", len(res.Solutions)),
		zap.Bool("cached", report.Cached),
	)
	return report, nil
}

// EvaluateStored loads the season from the store and evaluates it.
func (e *Engine) EvaluateStored(ctx context.Context, id model.ID) (*Report, error) {
	if e.Store == nil {
		return nil, ErrNoStore
	}
	season, err := e.Store.LoadSeason(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, season)
}

func (e *Engine) lookup(ctx context.Context, key string, log *zap.Logger) (*solver.Result, bool) {
	res, ok, err := e.Cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		log.Warn("result cache lookup failed", zap.Error(err))
		return nil, false
	case !ok:
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return res, true
}

func (e *Engine) solve(ctx context.Context, key string, season *model.Season, log *zap.Logger) (*solver.Result, error) {
	v, err, shared := e.flight.Do(key, func() (interface{}, error) {
		solveCtx := ctx
		if e.Timeout > 0 {
			var cancel context.CancelFunc
			solveCtx, cancel = context.WithTimeout(ctx, e.Timeout)
			defer cancel()
		}

		start := time.Now()
		res, err := e.Solver.Solve(solveCtx, season)
		metrics.SolveDuration.Observe(time.Since(start).Seconds())
		metrics.SolveTotal.WithLabelValues(Outcome(res, err)).Inc()
		if err != nil {
			return nil, err
		}
		metrics.SolutionCount.Observe(float64(len(res.Solutions)))
		metrics.PrunedAssignments.Add(float64(res.Stats.Pruned))

		if err := e.Cache.Set(ctx, key, res); err != nil {
			log.Warn("failed to cache result", zap.Error(err))
		}
		return res, nil
	})
	if err != nil {
		log.Warn("solve failed", zap.Error(err))
		return nil, err
	}
	if shared {
		log.Debug("joined in-flight solve")
	}
	return v.(*solver.Result), nil
}

// Outcome labels a solve run for metrics and logs.
func Outcome(res *solver.Result, err error) string {
	switch {
	case err == nil && res != nil:
		return string(res.Status)
	case solver.IsMalformed(err):
		return "malformed"
	case errors.Is(err, solver.ErrTooManyAssignments):
		return "too_many"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
