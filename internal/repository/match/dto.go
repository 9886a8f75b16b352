package match

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lostaf-io/lostaf/internal/db"
	"github.com/lostaf-io/lostaf/internal/domain"
	dommatch "github.com/lostaf-io/lostaf/internal/domain/match"
)

const (
	recordPrefix = domain.KeyPrefix + "match:rec:"
	pairPrefix   = domain.KeyPrefix + "match:pair:"
	claimPrefix  = domain.KeyPrefix + "match:notified:"
	indexName    = domain.KeyPrefix + "match:idx"

	fieldReports   = "reports"
	fieldScore     = "score"
	fieldCreatedAt = "created_at"
)

func recordKey(id string) string { return recordPrefix + id }
func pairKey(a, b string) string { return pairPrefix + dommatch.PairKey(a, b) }
func claimKey(id string) string  { return claimPrefix + id }

// IndexDefinition describes the FT index over match documents.
// Both report IDs live in one TAG array so a single condition finds a report's matches.
func IndexDefinition() *db.IndexDefinition {
	return db.MustJSONIndex(indexName, recordPrefix,
		db.TagField("$.reports[*]", fieldReports),
		db.NumericField("$.score", fieldScore).Sorted(),
		db.NumericField("$.created_at", fieldCreatedAt).Sorted(),
	)
}

type jsonRecord struct {
	ID        string   `json:"id"`
	ReportA   string   `json:"report_a"`
	ReportB   string   `json:"report_b"`
	Reports   []string `json:"reports"`
	Score     float64  `json:"score"`
	Notified  bool     `json:"notified"`
	CreatedAt int64    `json:"created_at"`
}

func toJSON(r *dommatch.Record) jsonRecord {
	return jsonRecord{
		ID:        r.ID(),
		ReportA:   r.ReportAID(),
		ReportB:   r.ReportBID(),
		Reports:   []string{r.ReportAID(), r.ReportBID()},
		Score:     r.Score(),
		Notified:  r.Notified(),
		CreatedAt: r.CreatedAt(),
	}
}

func parseDocument(raw string) (dommatch.Record, error) {
	raw = strings.TrimSpace(raw)
	var doc jsonRecord
	if strings.HasPrefix(raw, "[") {
		var arr []jsonRecord
		if err := json.Unmarshal([]byte(raw), &arr); err != nil {
			return dommatch.Record{}, fmt.Errorf("unmarshal match: %w", err)
		}
		if len(arr) == 0 {
			return dommatch.Record{}, domain.ErrNotFound
		}
		doc = arr[0]
	} else if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return dommatch.Record{}, fmt.Errorf("unmarshal match: %w", err)
	}
	return dommatch.Reconstruct(doc.ID, doc.ReportA, doc.ReportB, doc.Score, doc.Notified, doc.CreatedAt), nil
}
