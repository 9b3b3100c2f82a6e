package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/insideralpha/backend/internal/contracts"
	"github.com/insideralpha/backend/pkg/logger"
)

// leaderboardLimit caps the leaderboard response size.
const leaderboardLimit = 100

// InsiderHandler handles insider-related API endpoints
type InsiderHandler struct {
	store  contracts.TradeStore
	logger *logger.Logger
}

// NewInsiderHandler creates a new insider handler
func NewInsiderHandler(store contracts.TradeStore, log *logger.Logger) *InsiderHandler {
	return &InsiderHandler{
		store:  store,
		logger: log,
	}
}

// LeaderboardItem is one insider row in the leaderboard response
type LeaderboardItem struct {
	CIK           string  `json:"cik"`
	Name          string  `json:"name"`
	Company       string  `json:"company"`
	Score         float64 `json:"score"`
	TotalTrades   int     `json:"total_trades"`
	TotalBuys     int     `json:"total_buys"`
	TotalSells    int     `json:"total_sells"`
	Wins          int     `json:"wins"`
	BuyWins       int     `json:"buy_wins"`
	SellWins      int     `json:"sell_wins"`
	Alpha30D      float64 `json:"alpha_30d"`
	Alpha90D      float64 `json:"alpha_90d"`
	Alpha180D     float64 `json:"alpha_180d"`
	BuyAlpha180D  float64 `json:"buy_alpha_180d"`
	SellAlpha180D float64 `json:"sell_alpha_180d"`
	Alpha1Y       float64 `json:"alpha_1y"`
	LastUpdated   string  `json:"last_updated"`
}

// TradeItem is one trade row in the trades response. Computed fields
// are null until the trade has been scored.
type TradeItem struct {
	ID              int64    `json:"id"`
	CIK             string   `json:"cik"`
	Ticker          string   `json:"ticker"`
	InsiderName     string   `json:"insider_name"`
	TransactionDate string   `json:"transaction_date"`
	FilingDate      string   `json:"filing_date"`
	TransactionCode string   `json:"transaction_code"`
	NumberOfShares  float64  `json:"number_of_shares"`
	PricePerShare   float64  `json:"price_per_share"`
	AmountUSD       float64  `json:"amount_usd"`
	AccessionNumber string   `json:"accession_number"`
	Return30D       *float64 `json:"return_30d"`
	SpyReturn30D    *float64 `json:"spy_return_30d"`
	Return90D       *float64 `json:"return_90d"`
	SpyReturn90D    *float64 `json:"spy_return_90d"`
	Return180D      *float64 `json:"return_180d"`
	SpyReturn180D   *float64 `json:"spy_return_180d"`
	Return1Y        *float64 `json:"return_1y"`
	SpyReturn1Y     *float64 `json:"spy_return_1y"`
	Alpha           *float64 `json:"alpha"`
	IsWin           *bool    `json:"is_win"`
}

// GetLeaderboard returns the top insiders by score
// GET /api/leaderboard
func (h *InsiderHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.store.Leaderboard(r.Context(), leaderboardLimit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to query leaderboard")
		respondError(w, http.StatusInternalServerError, "Failed to query leaderboard")
		return
	}

	items := make([]LeaderboardItem, 0, len(scores))
	for _, s := range scores {
		items = append(items, LeaderboardItem{
			CIK:           s.CIK,
			Name:          s.Name,
			Company:       s.Company,
			Score:         s.Score,
			TotalTrades:   s.TotalTrades,
			TotalBuys:     s.TotalBuys,
			TotalSells:    s.TotalSells,
			Wins:          s.Wins,
			BuyWins:       s.BuyWins,
			SellWins:      s.SellWins,
			Alpha30D:      s.Alpha30D,
			Alpha90D:      s.Alpha90D,
			Alpha180D:     s.Alpha180D,
			BuyAlpha180D:  s.BuyAlpha180D,
			SellAlpha180D: s.SellAlpha180D,
			Alpha1Y:       s.Alpha1Y,
			LastUpdated:   s.LastUpdated.Format(time.RFC3339),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"count": len(items),
			"items": items,
		},
	})
}

// GetTrades returns one insider's trades, most recent first
// GET /api/trades/{cik}
func (h *InsiderHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	cik := mux.Vars(r)["cik"]
	if cik == "" {
		respondError(w, http.StatusBadRequest, "Missing cik")
		return
	}

	trades, err := h.store.TradesByInsider(r.Context(), cik)
	if err != nil {
		h.logger.WithError(err).WithField("cik", cik).Error("Failed to query trades")
		respondError(w, http.StatusInternalServerError, "Failed to query trades")
		return
	}

	items := make([]TradeItem, 0, len(trades))
	for _, t := range trades {
		items = append(items, TradeItem{
			ID:              t.ID,
			CIK:             t.CIK,
			Ticker:          t.Ticker,
			InsiderName:     t.InsiderName,
			TransactionDate: t.TransactionDate.Format("2006-01-02"),
			FilingDate:      t.FilingDate.Format("2006-01-02"),
			TransactionCode: string(t.Direction),
			NumberOfShares:  t.NumberOfShares,
			PricePerShare:   t.PricePerShare,
			AmountUSD:       t.AmountUSD,
			AccessionNumber: t.AccessionNumber,
			Return30D:       t.Return30D,
			SpyReturn30D:    t.SpyReturn30D,
			Return90D:       t.Return90D,
			SpyReturn90D:    t.SpyReturn90D,
			Return180D:      t.Return180D,
			SpyReturn180D:   t.SpyReturn180D,
			Return1Y:        t.Return1Y,
			SpyReturn1Y:     t.SpyReturn1Y,
			Alpha:           t.Alpha,
			IsWin:           t.IsWin,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"cik":   cik,
			"count": len(items),
			"items": items,
		},
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
