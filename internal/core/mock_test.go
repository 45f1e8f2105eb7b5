package core

import (
	"context"
	"sync"

	"github.com/agenthands/matchbox/internal/core/model"
	"github.com/agenthands/matchbox/internal/core/solver"
	"github.com/agenthands/matchbox/internal/driver"
)

type MockStore struct {
	Seasons map[model.ID]*model.Season
	Loaded  []model.ID
	Err     error
}

func (m *MockStore) LoadSeason(ctx context.Context, id model.ID) (*model.Season, error) {
	m.Loaded = append(m.Loaded, id)
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.Seasons[id]
	if !ok {
		return nil, driver.ErrSeasonNotFound
	}
	return s, nil
}

func (m *MockStore) SaveSeason(ctx context.Context, season *model.Season) error {
	if m.Seasons == nil {
		m.Seasons = map[model.ID]*model.Season{}
	}
	m.Seasons[season.ID] = season
	return m.Err
}

type MockCache struct {
	mu      sync.Mutex
	Entries map[string]*solver.Result
	Sets    int
	GetErr  error
}

func (m *MockCache) Get(ctx context.Context, key string) (*solver.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	res, ok := m.Entries[key]
	return res, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key string, res *solver.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Entries == nil {
		m.Entries = map[string]*solver.Result{}
	}
	m.Entries[key] = res
	m.Sets++
	return nil
}
