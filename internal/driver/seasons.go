package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/matchbox/internal/core/model"
)

var ErrSeasonNotFound = errors.New("season not found")

// GraphSeasonStore reads and writes season snapshots in Memgraph.
type GraphSeasonStore struct {
	Driver GraphDriver
}

func NewGraphSeasonStore(d GraphDriver) *GraphSeasonStore {
	return &GraphSeasonStore{Driver: d}
}

func (s *GraphSeasonStore) LoadSeason(ctx context.Context, id model.ID) (*model.Season, error) {
	params := map[string]interface{}{"season_id": string(id)}

	res, err := s.Driver.ExecuteQuery(ctx, GetSeasonQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load season %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeasonNotFound, id)
	}
	season := &model.Season{
		ID:   model.CanonicalID(stringValue(res.Records[0], "id")),
		Name: stringValue(res.Records[0], "name"),
	}

	res, err = s.Driver.ExecuteQuery(ctx, GetCandidatesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	for _, rec := range res.Records {
		group, _ := model.ParseGroup(stringValue(rec, "gender"))
		season.Contestants = append(season.Contestants, model.Contestant{
			ID:    model.CanonicalID(stringValue(rec, "id")),
			Name:  stringValue(rec, "name"),
			Group: group,
		})
	}

	res, err = s.Driver.ExecuteQuery(ctx, GetMatchingNightsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load matching nights: %w", err)
	}
	for _, rec := range res.Records {
		ev, err := parseNight(rec)
		if err != nil {
			return nil, err
		}
		season.Events = append(season.Events, ev)
	}

	res, err = s.Driver.ExecuteQuery(ctx, GetTruthBoothsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load truth booths: %w", err)
	}
	for _, rec := range res.Records {
		confirmed, _ := getValue(rec, "is_perfect_match").(bool)
		season.BinaryTests = append(season.BinaryTests, model.BinaryTestResult{
			ID: model.CanonicalID(stringValue(rec, "id")),
			Pair: model.PairKey{
				Man:   model.CanonicalID(stringValue(rec, "man")),
				Woman: model.CanonicalID(stringValue(rec, "woman")),
			},
			IsConfirmedMatch: confirmed,
		})
	}

	season.Normalize()
	return season, nil
}

// SaveSeason replaces the stored snapshot with season. A season without an
// id is assigned a fresh one.
func (s *GraphSeasonStore) SaveSeason(ctx context.Context, season *model.Season) error {
	if season.ID == "" {
		season.ID = model.ID(uuid.New().String())
	}
	season.Normalize()
	params := map[string]interface{}{"season_id": string(season.ID)}

	if _, err := s.Driver.ExecuteQuery(ctx, SaveSeasonQuery, map[string]interface{}{
		"season_id": string(season.ID),
		"name":      season.Name,
	}); err != nil {
		return fmt.Errorf("failed to save season: %w", err)
	}
	if _, err := s.Driver.ExecuteQuery(ctx, ClearSeasonEvidenceQuery, params); err != nil {
		return fmt.Errorf("failed to clear season evidence: %w", err)
	}

	candidates := make([]map[string]interface{}, 0, len(season.Contestants))
	for i, c := range season.Contestants {
		candidates = append(candidates, map[string]interface{}{
			"id":       string(c.ID),
			"name":     c.Name,
			"gender":   string(c.Group),
			"position": int64(i),
		})
	}

	nights := make([]map[string]interface{}, 0, len(season.Events))
	for i, ev := range season.Events {
		men := make([]string, 0, len(ev.Pairs))
		women := make([]string, 0, len(ev.Pairs))
		for _, p := range ev.Pairs {
			men = append(men, string(p.Man))
			women = append(women, string(p.Woman))
		}
		nights = append(nights, map[string]interface{}{
			"id":       string(ev.ID),
			"lights":   int64(ev.CorrectCount),
			"men":      men,
			"women":    women,
			"position": int64(i),
		})
	}

	booths := make([]map[string]interface{}, 0, len(season.BinaryTests))
	for i, b := range season.BinaryTests {
		booths = append(booths, map[string]interface{}{
			"id":               string(b.ID),
			"man":              string(b.Pair.Man),
			"woman":            string(b.Pair.Woman),
			"is_perfect_match": b.IsConfirmedMatch,
			"position":         int64(i),
		})
	}

	writes := []struct {
		query string
		key   string
		rows  []map[string]interface{}
	}{
		{SaveCandidatesQuery, "candidates", candidates},
		{SaveMatchingNightsQuery, "nights", nights},
		{SaveTruthBoothsQuery, "booths", booths},
	}
	for _, w := range writes {
		if len(w.rows) == 0 {
			continue
		}
		if _, err := s.Driver.ExecuteQuery(ctx, w.query, map[string]interface{}{
			"season_id": string(season.ID),
			w.key:       w.rows,
		}); err != nil {
			return fmt.Errorf("failed to save %s: %w", w.key, err)
		}
	}
	return nil
}

func parseNight(rec *neo4j.Record) (model.PairingEvent, error) {
	ev := model.PairingEvent{ID: model.CanonicalID(stringValue(rec, "id"))}
	if lights, ok := getValue(rec, "lights").(int64); ok {
		ev.CorrectCount = int(lights)
	}
	men, _ := getValue(rec, "men").([]interface{})
	women, _ := getValue(rec, "women").([]interface{})
	if len(men) != len(women) {
		return ev, fmt.Errorf("matching night %s: %d men but %d women", ev.ID, len(men), len(women))
	}
	for i := range men {
		ev.Pairs = append(ev.Pairs, model.PairKey{
			Man:   model.CanonicalID(fmt.Sprint(men[i])),
			Woman: model.CanonicalID(fmt.Sprint(women[i])),
		})
	}
	return ev, nil
}

func getValue(rec *neo4j.Record, key string) interface{} {
	v, _ := rec.Get(key)
	return v
}

// stringValue reads a property that may have been written as a string or an
// integer.
func stringValue(rec *neo4j.Record, key string) string {
	switch v := getValue(rec, key).(type) {
	case string:
		return v
	case int64:
		return fmt.Sprint(v)
	case float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}
