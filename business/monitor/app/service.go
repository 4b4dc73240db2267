package app

import (
	"context"

	"github.com/google/uuid"

	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/internal/logger"
)

// Service manages the monitor registry.
type Service struct {
	store  Store
	logger logger.LoggerInterface
}

// NewService creates a monitor registry service.
func NewService(store Store, log logger.LoggerInterface) *Service {
	return &Service{store: store, logger: log}
}

// RegisterMonitor validates and persists a new active monitor.
func (s *Service) RegisterMonitor(ctx context.Context, pair liquidity.Pair, chain liquidity.Chain, typ domain.Type, threshold domain.Threshold, strategyRef string) (domain.Monitor, error) {
	m, err := domain.NewMonitor(pair, chain, typ, threshold, strategyRef)
	if err != nil {
		return domain.Monitor{}, err
	}
	if err := s.store.Create(ctx, m); err != nil {
		return domain.Monitor{}, err
	}

	s.logger.Info(ctx, "monitor registered",
		"monitor_id", m.ID.String(),
		"pair", m.Pair.String(),
		"chain", string(m.Chain),
		"type", string(m.Type),
	)
	return m, nil
}

// DeactivateMonitor flips the active flag. The row stays in the store;
// deletion is a persistence concern, not a scheduling one.
func (s *Service) DeactivateMonitor(ctx context.Context, id uuid.UUID) error {
	if err := s.store.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info(ctx, "monitor deactivated", "monitor_id", id.String())
	return nil
}

// GetMonitor loads one monitor by id.
func (s *Service) GetMonitor(ctx context.Context, id uuid.UUID) (domain.Monitor, error) {
	return s.store.GetByID(ctx, id)
}

// ActiveMonitors lists the monitors the scheduler will evaluate.
func (s *Service) ActiveMonitors(ctx context.Context) ([]domain.Monitor, error) {
	return s.store.ListActive(ctx)
}
