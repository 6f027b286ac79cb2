package store

import (
	"context"
	"fmt"
	"sync"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/resolver"
)

// Memory is an in-process Repository for tests and dry runs.
type Memory struct {
	mu      sync.RWMutex
	results map[string]resolver.Result
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{results: make(map[string]resolver.Result)}
}

func key(legislatorID int64, platform legislator.Platform) string {
	return fmt.Sprintf("%d/%s", legislatorID, platform)
}

func (m *Memory) Upsert(ctx context.Context, result resolver.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[key(result.Legislator.ID, result.Platform)] = result
	return nil
}

func (m *Memory) Get(ctx context.Context, legislatorID int64, platform legislator.Platform) (*resolver.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result, ok := m.results[key(legislatorID, platform)]
	if !ok {
		return nil, rserrors.ErrNotFound
	}
	return &result, nil
}

// Len reports how many outcomes are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}
