package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/platform"
)

// MemoryStore is a Store held in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu            sync.RWMutex
	employeeSeq   int
	assetSeq      int
	employees     []model.EmployeeRecord
	assets        []model.Asset
	notifications []model.Notification
	runs          []model.WorkflowResult
	runIndex      map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runIndex: make(map[string]int)}
}

func (s *MemoryStore) NextEmployeeID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeeSeq++
	return platform.SequentialID(EmployeeIDPrefix, s.employeeSeq, 3), nil
}

func (s *MemoryStore) SaveEmployee(_ context.Context, e *model.EmployeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.employees {
		if existing.ID == e.ID {
			return fmt.Errorf("save employee %s: duplicate id", e.ID)
		}
	}
	s.employees = append(s.employees, *e)
	return nil
}

func (s *MemoryStore) GetEmployee(_ context.Context, id string) (*model.EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.ID == id {
			out := e
			return &out, nil
		}
	}
	return nil, fmt.Errorf("get employee %s: %w", id, ErrNotFound)
}

func (s *MemoryStore) ListEmployees(_ context.Context, limit int, cursor string) ([]model.EmployeeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, more := page(s.employees, limit, cursor, func(e model.EmployeeRecord) string { return e.ID })
	return items, more, nil
}

func (s *MemoryStore) NextAssetIDs(_ context.Context, n int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, n)
	for i := range ids {
		s.assetSeq++
		ids[i] = platform.SequentialID(AssetIDPrefix, s.assetSeq, 4)
	}
	return ids, nil
}

func (s *MemoryStore) SaveAssets(_ context.Context, assets []model.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = append(s.assets, assets...)
	return nil
}

func (s *MemoryStore) ListAssets(_ context.Context, employeeID string, limit int, cursor string) ([]model.Asset, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.assets
	if employeeID != "" {
		src = nil
		for _, a := range s.assets {
			if a.AssignedTo == employeeID {
				src = append(src, a)
			}
		}
	}
	items, more := page(src, limit, cursor, func(a model.Asset) string { return a.ID })
	return items, more, nil
}

func (s *MemoryStore) SaveNotifications(_ context.Context, ns []model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, ns...)
	return nil
}

func (s *MemoryStore) ListNotifications(_ context.Context, employeeID string) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Notification
	for _, n := range s.notifications {
		if employeeID == "" || n.EmployeeID == employeeID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveRun(_ context.Context, r *model.WorkflowResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.runIndex[r.WorkflowID]; ok {
		s.runs[i] = *r
		return nil
	}
	s.runIndex[r.WorkflowID] = len(s.runs)
	s.runs = append(s.runs, *r)
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (*model.WorkflowResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.runIndex[id]
	if !ok {
		return nil, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	out := s.runs[i]
	return &out, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int, cursor string) ([]model.WorkflowResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, more := page(s.runs, limit, cursor, func(r model.WorkflowResult) string { return r.WorkflowID })
	return items, more, nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeeSeq, s.assetSeq = 0, 0
	s.employees, s.assets, s.notifications, s.runs = nil, nil, nil, nil
	s.runIndex = make(map[string]int)
	return nil
}

// page returns up to limit items after the item whose key equals cursor,
// in insertion order, plus whether more remain. The result is a copy.
func page[T any](items []T, limit int, cursor string, key func(T) string) ([]T, bool) {
	start := 0
	if cursor != "" {
		start = len(items)
		for i, it := range items {
			if key(it) == cursor {
				start = i + 1
				break
			}
		}
	}
	rest := items[start:]
	hasMore := limit > 0 && len(rest) > limit
	if hasMore {
		rest = rest[:limit]
	}
	return append([]T{}, rest...), hasMore
}
