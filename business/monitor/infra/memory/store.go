// Package memory provides an in-process monitor store for tests and
// single-node deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/novaledger/dexflow/business/monitor/app"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/internal/apperror"
)

var _ app.Store = (*Store)(nil)

// Store keeps monitors in a mutex-guarded map.
type Store struct {
	mu       sync.RWMutex
	monitors map[uuid.UUID]domain.Monitor
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{monitors: make(map[uuid.UUID]domain.Monitor)}
}

func (s *Store) Create(ctx context.Context, m domain.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.monitors[m.ID]; ok {
		return apperror.New(apperror.CodeInvalidState,
			apperror.WithContext("monitor "+m.ID.String()+" already exists"))
	}
	s.monitors[m.ID] = m
	return nil
}

func (s *Store) Update(ctx context.Context, m domain.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.monitors[m.ID]; !ok {
		return apperror.New(apperror.CodeMonitorNotFound,
			apperror.WithContext("monitor "+m.ID.String()))
	}
	s.monitors[m.ID] = m
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (domain.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.monitors[id]
	if !ok {
		return domain.Monitor{}, apperror.New(apperror.CodeMonitorNotFound,
			apperror.WithContext("monitor "+id.String()))
	}
	return m, nil
}

// ListActive returns active monitors ordered by creation time so ticks
// evaluate them deterministically.
func (s *Store) ListActive(ctx context.Context) ([]domain.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Monitor, 0, len(s.monitors))
	for _, m := range s.monitors {
		if m.IsActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.monitors[id]
	if !ok {
		return apperror.New(apperror.CodeMonitorNotFound,
			apperror.WithContext("monitor "+id.String()))
	}
	m.IsActive = active
	s.monitors[id] = m
	return nil
}
