package filing

import (
	"fmt"
	"time"

	"github.com/insideralpha/backend/internal/contracts"
	"github.com/insideralpha/backend/pkg/logger"
)

// MaxTradeAge is the ingest-time recency filter: transactions older
// than this are dropped at parse time. The aggregator applies its own
// lookback window later; the two checks are intentionally separate.
const MaxTradeAge = 3 * 365 * 24 * time.Hour

// Parser converts raw Form 4 ownership documents into trade records.
type Parser struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewParser creates a new Form 4 parser.
func NewParser(log *logger.Logger) *Parser {
	return &Parser{
		logger: log.WithField("module", "filing"),
		now:    time.Now,
	}
}

// Parse extracts trade records from one raw ownership document.
//
// Only open-market buys (P) and sells (S) are kept. A failure on one
// transaction entry is logged at debug level and does not affect its
// siblings; a failure reading document-level identity aborts the whole
// document with an error.
func (p *Parser) Parse(raw []byte, f contracts.Filing) ([]*contracts.Trade, error) {
	doc, err := decodeOwnershipDocument(raw)
	if err != nil {
		p.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker":    f.Ticker,
			"accession": f.AccessionNumber,
		}).Error("Failed to parse ownership document")
		return nil, fmt.Errorf("parse filing %s: %w", f.AccessionNumber, err)
	}

	owner, _ := doc.owner()

	var trades []*contracts.Trade
	for i, tx := range doc.Transactions {
		trade, ok := p.parseTransaction(doc, owner, tx, f)
		if !ok {
			p.logger.WithFields(map[string]interface{}{
				"accession": f.AccessionNumber,
				"entry":     i,
			}).Debug("Skipping transaction entry")
			continue
		}
		trades = append(trades, trade)
	}

	return trades, nil
}

// parseTransaction converts a single transaction entry into a trade.
// Any missing or malformed field makes the entry unusable; the caller
// skips it and moves on.
func (p *Parser) parseTransaction(
	doc *ownershipDocument,
	owner reportingOwner,
	tx transaction,
	f contracts.Filing,
) (*contracts.Trade, bool) {
	direction, ok := contracts.ParseDirection(tx.Coding.Code)
	if !ok {
		return nil, false
	}

	transactionDate, ok := tx.Date.Date()
	if !ok {
		return nil, false
	}

	// Recency filter, applied at ingest time
	if p.now().Sub(transactionDate) > MaxTradeAge {
		return nil, false
	}

	shares, ok := tx.Amounts.Shares.Float()
	if !ok {
		return nil, false
	}

	price, ok := tx.Amounts.PricePerShare.Float()
	if !ok {
		return nil, false
	}

	// Filing date comes from the reporting period, falling back to the
	// transaction date when the document omits it
	filingDate, ok := doc.reportingPeriod()
	if !ok {
		filingDate = transactionDate
	}

	return &contracts.Trade{
		CIK:             owner.ID.CIK,
		Ticker:          f.Ticker,
		InsiderName:     owner.ID.Name,
		TransactionDate: transactionDate,
		FilingDate:      filingDate,
		Direction:       direction,
		NumberOfShares:  shares,
		PricePerShare:   price,
		AmountUSD:       shares * price,
		AccessionNumber: f.AccessionNumber,
	}, true
}
