// Package postgres persists the monitor registry in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	liquidity "github.com/novaledger/dexflow/business/liquidity/domain"
	"github.com/novaledger/dexflow/business/monitor/app"
	"github.com/novaledger/dexflow/business/monitor/domain"
	"github.com/novaledger/dexflow/internal/apperror"
	"github.com/shopspring/decimal"
)

var _ app.Store = (*Store)(nil)

// Schema creates the monitors table. Applied at startup; idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS monitors (
	id UUID PRIMARY KEY,
	pair TEXT NOT NULL,
	chain TEXT NOT NULL,
	monitor_type TEXT NOT NULL,
	price_change_pct NUMERIC NOT NULL,
	arbitrage_spread_pct NUMERIC NOT NULL,
	strategy_ref TEXT NOT NULL DEFAULT '',
	last_price NUMERIC NOT NULL DEFAULT 0,
	last_checked_at TIMESTAMPTZ,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS monitors_active_idx ON monitors (is_active, created_at);
`

// Store is a pgx-backed monitor registry.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema applies the table definition.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	if err != nil {
		return apperror.New(apperror.CodeMonitorStoreFailure,
			apperror.WithCause(err),
			apperror.WithContext("apply monitors schema"))
	}
	return nil
}

func (s *Store) Create(ctx context.Context, m domain.Monitor) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO monitors
			(id, pair, chain, monitor_type, price_change_pct, arbitrage_spread_pct,
			 strategy_ref, last_price, last_checked_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Pair.String(), string(m.Chain), string(m.Type),
		m.Threshold.PriceChangePercent, m.Threshold.ArbitrageSpreadPercent,
		m.StrategyRef, m.LastPrice, nullTime(m.LastCheckedAt), m.IsActive, m.CreatedAt,
	)
	if err != nil {
		return apperror.New(apperror.CodeMonitorStoreFailure,
			apperror.WithCause(err),
			apperror.WithContext("insert monitor"))
	}
	return nil
}

func (s *Store) Update(ctx context.Context, m domain.Monitor) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE monitors
		SET price_change_pct = $2,
		    arbitrage_spread_pct = $3,
		    strategy_ref = $4,
		    last_price = $5,
		    last_checked_at = $6,
		    is_active = $7
		WHERE id = $1`,
		m.ID,
		m.Threshold.PriceChangePercent, m.Threshold.ArbitrageSpreadPercent,
		m.StrategyRef, m.LastPrice, nullTime(m.LastCheckedAt), m.IsActive,
	)
	if err != nil {
		return apperror.New(apperror.CodeMonitorStoreFailure,
			apperror.WithCause(err),
			apperror.WithContext("update monitor"))
	}
	if tag.RowsAffected() == 0 {
		return apperror.New(apperror.CodeMonitorNotFound,
			apperror.WithContext("monitor "+m.ID.String()))
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (domain.Monitor, error) {
	row := s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)
	m, err := scanMonitor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Monitor{}, apperror.New(apperror.CodeMonitorNotFound,
			apperror.WithContext("monitor "+id.String()))
	}
	if err != nil {
		return domain.Monitor{}, apperror.New(apperror.CodeMonitorStoreFailure,
			apperror.WithCause(err),
			apperror.WithContext("load monitor"))
	}
	return m, nil
}

func (s *Store) ListActive(ctx context.Context) ([]domain.Monitor, error) {
	rows, err := s.pool.Query(ctx, selectColumns+` WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, apperror.New(apperror.CodeMonitorStoreFailure,
			apperror.WithCause(err),
			apperror.WithContext("list active monitors"))
	}
	defer rows.Close()

	var out []domain.Monitor
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, apperror.New(apperror.CodeMonitorStoreFailure,
				apperror.WithCause(err),
				apperror.WithContext("scan monitor"))
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE monitors SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return apperror.New(apperror.CodeMonitorStoreFailure,
			apperror.WithCause(err),
			apperror.WithContext("set monitor active flag"))
	}
	if tag.RowsAffected() == 0 {
		return apperror.New(apperror.CodeMonitorNotFound,
			apperror.WithContext("monitor "+id.String()))
	}
	return nil
}

const selectColumns = `
	SELECT id, pair, chain, monitor_type, price_change_pct, arbitrage_spread_pct,
	       strategy_ref, last_price, last_checked_at, is_active, created_at
	FROM monitors`

func scanMonitor(row pgx.Row) (domain.Monitor, error) {
	var (
		m            domain.Monitor
		pairText     string
		chainText    string
		typeText     string
		priceThresh  decimal.Decimal
		spreadThresh decimal.Decimal
		lastChecked  *time.Time
	)
	err := row.Scan(&m.ID, &pairText, &chainText, &typeText,
		&priceThresh, &spreadThresh, &m.StrategyRef, &m.LastPrice,
		&lastChecked, &m.IsActive, &m.CreatedAt)
	if err != nil {
		return domain.Monitor{}, err
	}

	pair, err := liquidity.ParsePair(pairText)
	if err != nil {
		return domain.Monitor{}, err
	}
	m.Pair = pair
	m.Chain = liquidity.Chain(chainText)
	m.Type = domain.Type(typeText)
	m.Threshold = domain.Threshold{
		PriceChangePercent:     priceThresh,
		ArbitrageSpreadPercent: spreadThresh,
	}
	if lastChecked != nil {
		m.LastCheckedAt = *lastChecked
	}
	return m, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
