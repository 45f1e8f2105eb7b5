// Package solver deduces which perfect-match pairings are still possible
// given a season's matching nights and truth booth results.
package solver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/matchbox/internal/core/model"
)

const DefaultMaxAssignments = 1_000_000

type Status string

const (
	// StatusNoEvidence: no matching night has been recorded yet.
	StatusNoEvidence Status = "no_evidence"
	// StatusConsistent: at least one pairing explains all evidence.
	StatusConsistent Status = "consistent"
	// StatusContradictory: no pairing explains all evidence.
	StatusContradictory Status = "contradictory"
)

// NightContradiction ties an impossible matching night to its record: more
// couples of that night were confirmed by truth booths than it had lights.
type NightContradiction struct {
	EventID      model.ID `json:"eventId"`
	CorrectCount int      `json:"lights"`
	Confirmed    int      `json:"confirmed"`
	Message      string   `json:"message"`
}

type Stats struct {
	Nights          int `json:"nights"`
	PeakAssignments int `json:"peakAssignments"`
	Pruned          int `json:"pruned"`
}

type Result struct {
	Status         Status               `json:"status"`
	Solutions      []model.Solution     `json:"solutions"`
	Contradictions []NightContradiction `json:"contradictions,omitempty"`
	Stats          Stats                `json:"stats"`
}

type Solver struct {
	logger         *zap.Logger
	maxAssignments int
}

type Option func(*Solver)

// WithLogger sets the trace logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxAssignments caps how many candidate pairings may be held at once.
// Zero disables the cap.
func WithMaxAssignments(n int) Option {
	return func(s *Solver) { s.maxAssignments = n }
}

func New(opts ...Option) *Solver {
	s := &Solver{
		logger:         zap.NewNop(),
		maxAssignments: DefaultMaxAssignments,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve computes every pairing consistent with the season's evidence. The
// season is read, never modified. Logical contradictions are reported in the
// Result; errors are reserved for malformed input, the assignment ceiling
// and cancellation.
func (s *Solver) Solve(ctx context.Context, season *model.Season) (*Result, error) {
	if season == nil {
		return nil, fmt.Errorf("%w: nil season", ErrMalformedEvidence)
	}
	if err := Validate(season); err != nil {
		return nil, err
	}

	res := &Result{Solutions: []model.Solution{}, Stats: Stats{Nights: len(season.Events)}}
	if len(season.Events) == 0 {
		res.Status = StatusNoEvidence
		s.logger.Debug("no matching nights recorded", zap.String("season", string(season.ID)))
		return res, nil
	}

	forced, forbidden := Classify(season.BinaryTests)
	s.logger.Debug("classified truth booths",
		zap.Int("confirmed", len(forced)),
		zap.Int("denied", len(forbidden)),
	)

	acc := NewAccumulator(forced, s.maxAssignments)
	for i, ev := range season.Events {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("solve interrupted before night %s: %w", ev.ID, err)
		}

		plan := planNight(ev, forced, forbidden)
		if s.maxAssignments > 0 && plan.size() > int64(s.maxAssignments) {
			return nil, fmt.Errorf("%w: night %s alone has %d", ErrTooManyAssignments, ev.ID, plan.size())
		}
		outcome := plan.outcome(ev)

		if outcome.Contradiction {
			c := NightContradiction{
				EventID:      ev.ID,
				CorrectCount: ev.CorrectCount,
				Confirmed:    outcome.Confirmed,
				Message: fmt.Sprintf("night %s has %d lights but %d of its couples are confirmed matches",
					ev.ID, ev.CorrectCount, outcome.Confirmed),
			}
			res.Contradictions = append(res.Contradictions, c)
			s.logger.Warn("matching night contradicts truth booths",
				zap.String("night", string(ev.ID)),
				zap.Int("lights", ev.CorrectCount),
				zap.Int("confirmed", outcome.Confirmed),
			)
		}

		acc.Constrain(ev.Pairs, ev.CorrectCount)
		if err := acc.Fold(ctx, outcome.Assignments); err != nil {
			return nil, err
		}
		s.logger.Debug("processed matching night",
			zap.Int("index", i),
			zap.String("night", string(ev.ID)),
			zap.Int("night_assignments", len(outcome.Assignments)),
			zap.Int("accumulated", acc.Len()),
		)
	}

	res.Stats.PeakAssignments = acc.Peak()
	res.Stats.Pruned = acc.Pruned()
	if acc.Len() == 0 {
		res.Status = StatusContradictory
		s.logger.Warn("evidence admits no pairing",
			zap.String("season", string(season.ID)),
			zap.Int("night_contradictions", len(res.Contradictions)),
		)
		return res, nil
	}

	res.Status = StatusConsistent
	res.Solutions = acc.Solutions()
	s.logger.Debug("solve complete", zap.Int("solutions", len(res.Solutions)))
	return res, nil
}

// IsMalformed reports whether err stems from structurally invalid input.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformedEvidence) }
