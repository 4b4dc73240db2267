package app_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/business/monitor/app"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/business/monitor/infra/memory"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*app.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return app.NewService(store, log), store
}

func TestRegisterMonitorPersists(t *testing.T) {
	svc, store := newTestService(t)

	pair, _ := liquidity.NewPair("CAKE", "BNB")
	m, err := svc.RegisterMonitor(context.Background(), pair, liquidity.ChainBSC,
		domain.TypePrice, domain.Threshold{}, "strategy-1")
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.Equal(t, "strategy-1", stored.StrategyRef)

	active, err := svc.ActiveMonitors(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestRegisterMonitorRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)

	pair, _ := liquidity.NewPair("CAKE", "BNB")
	_, err := svc.RegisterMonitor(context.Background(), pair, liquidity.ChainBSC,
		domain.Type("sideways"), domain.Threshold{}, "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidMonitorType))
}

func TestDeactivateUnknownMonitor(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeactivateMonitor(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeMonitorNotFound))
}
