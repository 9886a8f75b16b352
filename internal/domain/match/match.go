// Package match holds the durable record of a lost/found pair that scored
// above the similarity threshold.
package match

import (
	"fmt"
	"time"
)

// Record is a match between two reports of opposite kinds.
// ReportA is the report matching ran for, ReportB the candidate it was scored against.
type Record struct {
	id        string
	reportAID string
	reportBID string
	score     float64
	notified  bool
	createdAt int64
}

// New validates and creates an un-notified Record.
func New(id, reportAID, reportBID string, score float64, createdAt time.Time) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("match ID is required")
	}
	if reportAID == "" || reportBID == "" {
		return Record{}, fmt.Errorf("both report IDs are required")
	}
	if reportAID == reportBID {
		return Record{}, fmt.Errorf("report cannot match itself")
	}
	if score < -1 || score > 1 {
		return Record{}, fmt.Errorf("score %f out of range [-1, 1]", score)
	}
	return Record{
		id:        id,
		reportAID: reportAID,
		reportBID: reportBID,
		score:     score,
		createdAt: createdAt.UnixMilli(),
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id, reportAID, reportBID string, score float64, notified bool, createdAt int64) Record {
	return Record{
		id: id, reportAID: reportAID, reportBID: reportBID,
		score: score, notified: notified, createdAt: createdAt,
	}
}

func (r *Record) ID() string        { return r.id }
func (r *Record) ReportAID() string { return r.reportAID }
func (r *Record) ReportBID() string { return r.reportBID }
func (r *Record) Score() float64    { return r.score }
func (r *Record) Notified() bool    { return r.notified }
func (r *Record) CreatedAt() int64  { return r.createdAt }

// Counterpart returns the other side of the pair, empty if reportID is not part of it.
func (r *Record) Counterpart(reportID string) string {
	switch reportID {
	case r.reportAID:
		return r.reportBID
	case r.reportBID:
		return r.reportAID
	default:
		return ""
	}
}

// PairKey identifies the unordered pair of the record.
func (r *Record) PairKey() string { return PairKey(r.reportAID, r.reportBID) }

// PairKey returns an order-independent identifier for the pair {a, b}.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
