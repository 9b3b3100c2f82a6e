package filing

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Form 4 wraps most leaf fields in a <value> element, and optional
// fields are often present but empty. The accessors below return an
// explicit not-found boolean instead of relying on field probing, so
// the parser works on well-typed inputs only.

// valueNode is the <x><value>...</value></x> wrapper used throughout
// ownership documents.
type valueNode struct {
	Value string `xml:"value"`
}

// Text returns the trimmed value and whether it is present.
func (n valueNode) Text() (string, bool) {
	v := strings.TrimSpace(n.Value)
	return v, v != ""
}

// Date parses the value as a Form 4 date. Dates occasionally carry a
// timezone suffix, so only the leading YYYY-MM-DD is read.
func (n valueNode) Date() (time.Time, bool) {
	v, ok := n.Text()
	if !ok {
		return time.Time{}, false
	}
	if len(v) > 10 {
		v = v[:10]
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Float parses the value as a float.
func (n valueNode) Float() (float64, bool) {
	v, ok := n.Text()
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ownershipDocument is the root of a Form 4 ownership document.
type ownershipDocument struct {
	XMLName         xml.Name         `xml:"ownershipDocument"`
	PeriodOfReport  string           `xml:"periodOfReport"`
	Issuer          issuer           `xml:"issuer"`
	ReportingOwners []reportingOwner `xml:"reportingOwner"`
	Transactions    []transaction    `xml:"nonDerivativeTable>nonDerivativeTransaction"`
}

type issuer struct {
	CIK           string `xml:"issuerCik"`
	Name          string `xml:"issuerName"`
	TradingSymbol string `xml:"issuerTradingSymbol"`
}

type reportingOwner struct {
	ID reportingOwnerID `xml:"reportingOwnerId"`
}

type reportingOwnerID struct {
	CIK  string `xml:"rptOwnerCik"`
	Name string `xml:"rptOwnerName"`
}

// transaction is one <nonDerivativeTransaction> entry.
type transaction struct {
	SecurityTitle valueNode `xml:"securityTitle"`
	Date          valueNode `xml:"transactionDate"`
	Coding        struct {
		Code string `xml:"transactionCode"`
	} `xml:"transactionCoding"`
	Amounts struct {
		Shares        valueNode `xml:"transactionShares"`
		PricePerShare valueNode `xml:"transactionPricePerShare"`
	} `xml:"transactionAmounts"`
}

// decodeOwnershipDocument unmarshals a raw ownership document and
// validates the document-level identity fields. A missing issuer or
// reporting owner aborts the whole document.
func decodeOwnershipDocument(raw []byte) (*ownershipDocument, error) {
	var doc ownershipDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal ownership document: %w", err)
	}

	if strings.TrimSpace(doc.Issuer.CIK) == "" {
		return nil, fmt.Errorf("ownership document has no issuer CIK")
	}

	owner, ok := doc.owner()
	if !ok || strings.TrimSpace(owner.ID.CIK) == "" {
		return nil, fmt.Errorf("ownership document has no reporting owner")
	}

	return &doc, nil
}

// owner returns the first reporting owner. Multi-owner filings (joint
// reports) attribute every transaction to the first listed owner.
func (d *ownershipDocument) owner() (reportingOwner, bool) {
	if len(d.ReportingOwners) == 0 {
		return reportingOwner{}, false
	}
	return d.ReportingOwners[0], true
}

// reportingPeriod parses periodOfReport, if present.
func (d *ownershipDocument) reportingPeriod() (time.Time, bool) {
	return valueNode{Value: d.PeriodOfReport}.Date()
}
