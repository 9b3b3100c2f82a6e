package store

import (
	"context"
	"fmt"

	"github.com/insideralpha/backend/internal/contracts"
)

// UpsertScore overwrites the score row for an insider, creating it on
// first aggregation.
func (s *Store) UpsertScore(ctx context.Context, score *contracts.InsiderScore) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO insider_scores (
			cik, name, company, score,
			total_trades, total_buys, total_sells,
			wins, buy_wins, sell_wins,
			alpha_30d, alpha_90d, alpha_180d,
			buy_alpha_180d, sell_alpha_180d, alpha_1y,
			last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (cik) DO UPDATE SET
			name            = EXCLUDED.name,
			company         = EXCLUDED.company,
			score           = EXCLUDED.score,
			total_trades    = EXCLUDED.total_trades,
			total_buys      = EXCLUDED.total_buys,
			total_sells     = EXCLUDED.total_sells,
			wins            = EXCLUDED.wins,
			buy_wins        = EXCLUDED.buy_wins,
			sell_wins       = EXCLUDED.sell_wins,
			alpha_30d       = EXCLUDED.alpha_30d,
			alpha_90d       = EXCLUDED.alpha_90d,
			alpha_180d      = EXCLUDED.alpha_180d,
			buy_alpha_180d  = EXCLUDED.buy_alpha_180d,
			sell_alpha_180d = EXCLUDED.sell_alpha_180d,
			alpha_1y        = EXCLUDED.alpha_1y,
			last_updated    = EXCLUDED.last_updated`,
		score.CIK, score.Name, score.Company, score.Score,
		score.TotalTrades, score.TotalBuys, score.TotalSells,
		score.Wins, score.BuyWins, score.SellWins,
		score.Alpha30D, score.Alpha90D, score.Alpha180D,
		score.BuyAlpha180D, score.SellAlpha180D, score.Alpha1Y,
		score.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert score for %s: %w", score.CIK, err)
	}
	return nil
}

// Leaderboard returns score rows ordered by score descending.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]*contracts.InsiderScore, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			cik, name, company, score,
			total_trades, total_buys, total_sells,
			wins, buy_wins, sell_wins,
			alpha_30d, alpha_90d, alpha_180d,
			buy_alpha_180d, sell_alpha_180d, alpha_1y,
			last_updated
		FROM insider_scores
		ORDER BY score DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var scores []*contracts.InsiderScore
	for rows.Next() {
		var sc contracts.InsiderScore
		if err := rows.Scan(
			&sc.CIK, &sc.Name, &sc.Company, &sc.Score,
			&sc.TotalTrades, &sc.TotalBuys, &sc.TotalSells,
			&sc.Wins, &sc.BuyWins, &sc.SellWins,
			&sc.Alpha30D, &sc.Alpha90D, &sc.Alpha180D,
			&sc.BuyAlpha180D, &sc.SellAlpha180D, &sc.Alpha1Y,
			&sc.LastUpdated,
		); err != nil {
			return nil, err
		}
		scores = append(scores, &sc)
	}
	return scores, rows.Err()
}
