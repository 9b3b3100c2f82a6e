package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/insideralpha/backend/internal/contracts"
)

var _ contracts.FilingSource = (*Client)(nil)

// submissionsResponse is the shape of data.sec.gov/submissions/CIK*.json.
// The recent filings are column-oriented parallel arrays.
type submissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// ListFilings returns up to limit recent Form 4 filings for a ticker.
// Implements contracts.FilingSource.
func (c *Client) ListFilings(ctx context.Context, ticker string, limit int) ([]contracts.Filing, error) {
	cik, err := c.ResolveCIK(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("resolve CIK for %s: %w", ticker, err)
	}

	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBaseURL, cik)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch submissions for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	var result submissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode submissions for %s: %w", ticker, err)
	}

	recent := result.Filings.Recent

	var filings []contracts.Filing
	for i, form := range recent.Form {
		if form != "4" {
			continue
		}
		if i >= len(recent.AccessionNumber) || i >= len(recent.FilingDate) {
			break
		}

		filingDate, err := time.Parse("2006-01-02", recent.FilingDate[i])
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"date":   recent.FilingDate[i],
			}).Debug("Skipping filing with unparseable date")
			continue
		}

		primaryDoc := ""
		if i < len(recent.PrimaryDocument) {
			primaryDoc = recent.PrimaryDocument[i]
		}

		filings = append(filings, contracts.Filing{
			Ticker:          ticker,
			CIK:             cik,
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      filingDate,
			PrimaryDocument: primaryDoc,
		})

		if len(filings) >= limit {
			break
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(filings),
	}).Debug("Listed Form 4 filings")

	return filings, nil
}

// FetchOwnership returns the raw ownership XML for a filing.
// Resolution order: the primary document named in the submissions index,
// then any ownership XML linked from the filing index page, then the
// structured block embedded in the combined submission text.
// Implements contracts.FilingSource.
func (c *Client) FetchOwnership(ctx context.Context, filing contracts.Filing) ([]byte, error) {
	if filing.PrimaryDocument != "" {
		doc, err := c.fetchArchiveFile(ctx, filing, filing.PrimaryDocument)
		if err == nil && isOwnershipDocument(doc) {
			return doc, nil
		}
		if err != nil {
			c.logger.WithError(err).WithField("accession", filing.AccessionNumber).
				Debug("Primary document fetch failed, scanning filing index")
		}
	}

	if doc, err := c.fetchFromIndex(ctx, filing); err == nil {
		return doc, nil
	} else {
		c.logger.WithError(err).WithField("accession", filing.AccessionNumber).
			Debug("Filing index scan failed, trying combined submission")
	}

	return c.fetchFromSubmissionText(ctx, filing)
}

// archiveBase builds the Archives directory URL for a filing.
func (c *Client) archiveBase(filing contracts.Filing) string {
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s",
		c.baseURL,
		TrimCIK(filing.CIK),
		strings.ReplaceAll(filing.AccessionNumber, "-", ""),
	)
}

// fetchArchiveFile fetches one file from the filing's Archives directory.
func (c *Client) fetchArchiveFile(ctx context.Context, filing contracts.Filing, name string) ([]byte, error) {
	url := c.archiveBase(filing) + "/" + name

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return body, nil
}

// fetchFromIndex scans the filing's index page for ownership XML links
// and fetches candidates until one contains an ownership document.
func (c *Client) fetchFromIndex(ctx context.Context, filing contracts.Filing) ([]byte, error) {
	resp, err := c.get(ctx, c.archiveBase(filing)+"/")
	if err != nil {
		return nil, fmt.Errorf("fetch filing index: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse filing index: %w", err)
	}

	var candidates []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		name := href[strings.LastIndex(href, "/")+1:]
		if strings.HasSuffix(name, ".xml") && !strings.Contains(name, "index") {
			candidates = append(candidates, name)
		}
	})

	for _, name := range candidates {
		body, err := c.fetchArchiveFile(ctx, filing, name)
		if err != nil {
			continue
		}
		if isOwnershipDocument(body) {
			return body, nil
		}
	}

	return nil, fmt.Errorf("no ownership XML among %d index candidates", len(candidates))
}

// fetchFromSubmissionText downloads the combined submission text and
// extracts the embedded ownership XML block.
func (c *Client) fetchFromSubmissionText(ctx context.Context, filing contracts.Filing) ([]byte, error) {
	body, err := c.fetchArchiveFile(ctx, filing, filing.AccessionNumber+".txt")
	if err != nil {
		return nil, fmt.Errorf("fetch combined submission: %w", err)
	}

	xmlBlock, ok := extractOwnershipXML(string(body))
	if !ok {
		return nil, fmt.Errorf("no ownership XML block in combined submission %s", filing.AccessionNumber)
	}
	return []byte(xmlBlock), nil
}

// extractOwnershipXML pulls the <XML>...</XML> block containing an
// ownershipDocument out of a combined submission text file.
func extractOwnershipXML(body string) (string, bool) {
	rest := body
	for {
		start := strings.Index(rest, "<XML>")
		if start < 0 {
			return "", false
		}
		rest = rest[start+len("<XML>"):]

		end := strings.Index(rest, "</XML>")
		if end < 0 {
			return "", false
		}

		block := strings.TrimSpace(rest[:end])
		if strings.Contains(block, "<ownershipDocument") {
			return block, true
		}
		rest = rest[end+len("</XML>"):]
	}
}

// isOwnershipDocument reports whether raw content looks like a Form 4
// ownership document.
func isOwnershipDocument(raw []byte) bool {
	return strings.Contains(string(raw), "<ownershipDocument")
}
