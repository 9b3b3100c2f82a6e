package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/insideralpha/backend/internal/contracts"
	"github.com/insideralpha/backend/pkg/logger"
)

// Store persists trades and insider scores in PostgreSQL.
// Implements contracts.TradeStore.
type Store struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

var _ contracts.TradeStore = (*Store)(nil)

// New creates a new Store.
func New(pool *pgxpool.Pool, log *logger.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: log.WithField("module", "store"),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS insider_trades (
	id                BIGSERIAL PRIMARY KEY,
	cik               TEXT NOT NULL,
	ticker            TEXT NOT NULL,
	insider_name      TEXT NOT NULL DEFAULT '',
	transaction_date  DATE NOT NULL,
	filing_date       DATE NOT NULL,
	transaction_code  TEXT NOT NULL,
	number_of_shares  DOUBLE PRECISION NOT NULL,
	price_per_share   DOUBLE PRECISION NOT NULL,
	amount_usd        DOUBLE PRECISION NOT NULL,
	accession_number  TEXT NOT NULL,

	return_30d        DOUBLE PRECISION,
	spy_return_30d    DOUBLE PRECISION,
	return_90d        DOUBLE PRECISION,
	spy_return_90d    DOUBLE PRECISION,
	return_180d       DOUBLE PRECISION,
	spy_return_180d   DOUBLE PRECISION,
	return_1y         DOUBLE PRECISION,
	spy_return_1y     DOUBLE PRECISION,
	alpha             DOUBLE PRECISION,
	is_win            BOOLEAN
);

CREATE INDEX IF NOT EXISTS idx_insider_trades_cik
	ON insider_trades (cik, transaction_date DESC);

CREATE INDEX IF NOT EXISTS idx_insider_trades_dedup
	ON insider_trades (accession_number, transaction_date, ticker, amount_usd);

CREATE INDEX IF NOT EXISTS idx_insider_trades_unscored
	ON insider_trades (id) WHERE alpha IS NULL;

CREATE TABLE IF NOT EXISTS insider_scores (
	cik             TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	company         TEXT NOT NULL DEFAULT '',
	score           DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_trades    INTEGER NOT NULL DEFAULT 0,
	total_buys      INTEGER NOT NULL DEFAULT 0,
	total_sells     INTEGER NOT NULL DEFAULT 0,
	wins            INTEGER NOT NULL DEFAULT 0,
	buy_wins        INTEGER NOT NULL DEFAULT 0,
	sell_wins       INTEGER NOT NULL DEFAULT 0,
	alpha_30d       DOUBLE PRECISION NOT NULL DEFAULT 0,
	alpha_90d       DOUBLE PRECISION NOT NULL DEFAULT 0,
	alpha_180d      DOUBLE PRECISION NOT NULL DEFAULT 0,
	buy_alpha_180d  DOUBLE PRECISION NOT NULL DEFAULT 0,
	sell_alpha_180d DOUBLE PRECISION NOT NULL DEFAULT 0,
	alpha_1y        DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_updated    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_insider_scores_score
	ON insider_scores (score DESC);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	s.logger.Info("Database schema ensured")
	return nil
}
