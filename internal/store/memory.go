package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/optimization"
)

// Memory is a bounded in-process archive. Once full, saving a report evicts
// the oldest one.
type Memory struct {
	mu         sync.RWMutex
	maxRecords int
	order      []string // oldest first
	reports    map[string]optimization.Report
	closed     bool
}

// NewMemory creates an archive holding at most maxRecords reports.
func NewMemory(maxRecords int) *Memory {
	if maxRecords <= 0 {
		maxRecords = constants.DefaultMaxRecords
	}
	return &Memory{
		maxRecords: maxRecords,
		reports:    make(map[string]optimization.Report),
	}
}

// Save archives a report.
func (m *Memory) Save(_ context.Context, report optimization.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("memory store is closed")
	}
	if _, exists := m.reports[report.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, report.ID)
	}

	if len(m.order) >= m.maxRecords {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.reports, oldest)
	}
	m.order = append(m.order, report.ID)
	m.reports[report.ID] = report
	return nil
}

// Get returns the report with the given id.
func (m *Memory) Get(_ context.Context, id string) (optimization.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report, ok := m.reports[id]
	if !ok {
		return optimization.Report{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return report, nil
}

// List returns up to limit reports, newest first.
func (m *Memory) List(_ context.Context, limit int) ([]optimization.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.order) {
		limit = len(m.order)
	}
	out := make([]optimization.Report, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.reports[m.order[i]])
	}
	return out, nil
}

// Ping always succeeds while the store is open.
func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("memory store is closed")
	}
	return nil
}

func (m *Memory) Driver() string { return constants.StoreDriverMemory }

// Close marks the store closed. Calling it again is a no-op.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
