package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/insideralpha/backend/internal/contracts"
)

const tradeColumns = `
	id, cik, ticker, insider_name, transaction_date, filing_date,
	transaction_code, number_of_shares, price_per_share, amount_usd,
	accession_number,
	return_30d, spy_return_30d, return_90d, spy_return_90d,
	return_180d, spy_return_180d, return_1y, spy_return_1y,
	alpha, is_win`

// scanTrade scans one trade row in tradeColumns order.
func scanTrade(row pgx.Row) (*contracts.Trade, error) {
	var t contracts.Trade
	var code string

	err := row.Scan(
		&t.ID, &t.CIK, &t.Ticker, &t.InsiderName, &t.TransactionDate, &t.FilingDate,
		&code, &t.NumberOfShares, &t.PricePerShare, &t.AmountUSD,
		&t.AccessionNumber,
		&t.Return30D, &t.SpyReturn30D, &t.Return90D, &t.SpyReturn90D,
		&t.Return180D, &t.SpyReturn180D, &t.Return1Y, &t.SpyReturn1Y,
		&t.Alpha, &t.IsWin,
	)
	if err != nil {
		return nil, err
	}

	t.Direction = contracts.Direction(code)
	return &t, nil
}

// collectTrades drains a result set of trade rows.
func collectTrades(rows pgx.Rows) ([]*contracts.Trade, error) {
	defer rows.Close()

	var trades []*contracts.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// SaveFilingTrades inserts the trades parsed from one filing in a
// single transaction. Each trade's dedup key is checked inside the
// transaction; existing trades are skipped. Returns the insert count.
func (s *Store) SaveFilingTrades(ctx context.Context, trades []*contracts.Trade) (int, error) {
	if len(trades) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, trade := range trades {
		var existing int64
		err := tx.QueryRow(ctx, `
			SELECT id FROM insider_trades
			WHERE accession_number = $1 AND transaction_date = $2
			  AND ticker = $3 AND amount_usd = $4
			LIMIT 1`,
			trade.AccessionNumber, trade.TransactionDate, trade.Ticker, trade.AmountUSD,
		).Scan(&existing)

		if err == nil {
			s.logger.WithField("key", trade.Key().String()).Debug("Skipping duplicate trade")
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("dedup check: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO insider_trades (
				cik, ticker, insider_name, transaction_date, filing_date,
				transaction_code, number_of_shares, price_per_share, amount_usd,
				accession_number
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			trade.CIK, trade.Ticker, trade.InsiderName, trade.TransactionDate, trade.FilingDate,
			string(trade.Direction), trade.NumberOfShares, trade.PricePerShare, trade.AmountUSD,
			trade.AccessionNumber,
		); err != nil {
			return 0, fmt.Errorf("insert trade: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit filing trades: %w", err)
	}
	return inserted, nil
}

// FindByDedupKey returns the trade matching the key, or nil.
func (s *Store) FindByDedupKey(ctx context.Context, key contracts.DedupKey) (*contracts.Trade, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+tradeColumns+`
		FROM insider_trades
		WHERE accession_number = $1 AND transaction_date = $2
		  AND ticker = $3 AND amount_usd = $4
		LIMIT 1`,
		key.AccessionNumber, key.TransactionDate, key.Ticker, key.AmountUSD,
	)

	trade, err := scanTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by dedup key: %w", err)
	}
	return trade, nil
}

// FindUnscored returns all trades whose canonical alpha is still null.
func (s *Store) FindUnscored(ctx context.Context) ([]*contracts.Trade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM insider_trades
		WHERE alpha IS NULL
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("find unscored: %w", err)
	}
	return collectTrades(rows)
}

// FindScoredInWindow returns trades dated on or after start whose
// 180-day outcome is known.
func (s *Store) FindScoredInWindow(ctx context.Context, start time.Time) ([]*contracts.Trade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM insider_trades
		WHERE transaction_date >= $1 AND is_win IS NOT NULL
		ORDER BY id`, start)
	if err != nil {
		return nil, fmt.Errorf("find scored in window: %w", err)
	}
	return collectTrades(rows)
}

// UpdateComputed writes all computed fields of a trade in one statement
// so readers never observe a partially scored trade.
func (s *Store) UpdateComputed(ctx context.Context, trade *contracts.Trade) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE insider_trades SET
			return_30d = $2, spy_return_30d = $3,
			return_90d = $4, spy_return_90d = $5,
			return_180d = $6, spy_return_180d = $7,
			return_1y = $8, spy_return_1y = $9,
			alpha = $10, is_win = $11
		WHERE id = $1`,
		trade.ID,
		trade.Return30D, trade.SpyReturn30D,
		trade.Return90D, trade.SpyReturn90D,
		trade.Return180D, trade.SpyReturn180D,
		trade.Return1Y, trade.SpyReturn1Y,
		trade.Alpha, trade.IsWin,
	)
	if err != nil {
		return fmt.Errorf("update computed fields: %w", err)
	}
	return nil
}

// TradesByInsider returns an insider's trades, most recent first.
func (s *Store) TradesByInsider(ctx context.Context, cik string) ([]*contracts.Trade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM insider_trades
		WHERE cik = $1
		ORDER BY transaction_date DESC`, cik)
	if err != nil {
		return nil, fmt.Errorf("trades by insider: %w", err)
	}
	return collectTrades(rows)
}
