package db

// TagCondition requires a TAG field to equal one of Values.
type TagCondition struct {
	Field  string
	Values []string
}

// Filter is a conjunction of tag equalities plus an optional free-text
// term matched against a set of TEXT fields. The zero value matches everything.
type Filter struct {
	Tags       []TagCondition
	Text       string
	TextFields []string
}

// Tag returns a copy of f with an additional tag condition. Empty values are ignored.
func (f Filter) Tag(field string, values ...string) Filter {
	vals := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return f
	}
	tags := make([]TagCondition, len(f.Tags), len(f.Tags)+1)
	copy(tags, f.Tags)
	f.Tags = append(tags, TagCondition{Field: field, Values: vals})
	return f
}

// Match returns a copy of f matching term against the given TEXT fields.
func (f Filter) Match(term string, fields ...string) Filter {
	f.Text = term
	f.TextFields = fields
	return f
}

// IsEmpty reports whether the filter has no conditions.
func (f Filter) IsEmpty() bool {
	return len(f.Tags) == 0 && f.Text == ""
}

// ListQuery is the input for a filtered, sorted, paginated FT.SEARCH.
type ListQuery struct {
	IndexName    string
	Filter       Filter
	SortBy       string
	SortDesc     bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
