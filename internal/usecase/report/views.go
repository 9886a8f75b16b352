package report

import domreport "github.com/lostaf-io/lostaf/internal/domain/report"

// MatchDetail describes the counterpart of a match on the report page.
// Contact is empty when the counterpart is anonymous.
type MatchDetail struct {
	ID         string
	Title      string
	Category   string
	Location   string
	ImageURL   string
	Contact    string
	Similarity float64
}

// MatchSummary is the short form of a match shown in listings.
type MatchSummary struct {
	ID         string
	Title      string
	Similarity float64
}

// Detail is a report with its best matches.
type Detail struct {
	Report  domreport.Report
	Matches []MatchDetail
}

// Listed is a report in a listing.
type Listed struct {
	Report  domreport.Report
	Matches []MatchSummary
}

// Stats are the portal-wide counters.
type Stats struct {
	ActiveLost  int
	ActiveFound int
	Resolved    int
	Matches     int
}
