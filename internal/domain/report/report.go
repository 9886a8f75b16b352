// Package report holds the lost/found report aggregate.
package report

import (
	"fmt"
	"slices"
	"time"
)

// Kind tells whether a report describes a lost or a found item.
type Kind string

const (
	// KindLost is an item its owner is looking for.
	KindLost Kind = "lost"
	// KindFound is an item someone picked up.
	KindFound Kind = "found"
)

// IsValid checks if the kind is supported.
func (k Kind) IsValid() bool {
	return k == KindLost || k == KindFound
}

// Opposite returns the kind a report of kind k is matched against.
func (k Kind) Opposite() Kind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// Status is the lifecycle state of a report.
type Status string

const (
	// StatusActive reports participate in listings and matching.
	StatusActive Status = "active"
	// StatusResolved reports are closed by their owner.
	StatusResolved Status = "resolved"
)

// IsValid checks if the status is supported.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusResolved
}

// Owner is the user who filed a report.
type Owner struct {
	ID    string
	Name  string
	Email string
}

// Draft carries the user-supplied fields of a new report.
type Draft struct {
	Kind        Kind
	Title       string
	Category    string
	Location    string
	Date        string
	Description string
	ImageURL    string
	Embedding   []float32
	Owner       Owner
	Anonymous   bool
}

// Report is the lost/found report aggregate (immutable value object).
// The embedding is fixed at creation.
type Report struct {
	id          string
	kind        Kind
	status      Status
	title       string
	category    string
	location    string
	date        string
	description string
	imageURL    string
	embedding   []float32
	owner       Owner
	anonymous   bool
	createdAt   int64
}

// Validate checks the user-supplied fields of a draft.
func (d *Draft) Validate() error {
	if !d.Kind.IsValid() {
		return fmt.Errorf("invalid report type: %q", d.Kind)
	}
	for _, f := range []struct{ name, value string }{
		{"title", d.Title},
		{"category", d.Category},
		{"location", d.Location},
		{"date", d.Date},
		{"description", d.Description},
	} {
		if f.value == "" {
			return fmt.Errorf("%s is required", f.name)
		}
	}
	if d.Owner.ID == "" {
		return fmt.Errorf("owner is required")
	}
	return nil
}

// New validates a draft and creates an active Report.
func New(id string, d Draft, createdAt time.Time) (Report, error) {
	if id == "" {
		return Report{}, fmt.Errorf("report ID is required")
	}
	if err := d.Validate(); err != nil {
		return Report{}, err
	}

	return Report{
		id:          id,
		kind:        d.Kind,
		status:      StatusActive,
		title:       d.Title,
		category:    d.Category,
		location:    d.Location,
		date:        d.Date,
		description: d.Description,
		imageURL:    d.ImageURL,
		embedding:   slices.Clone(d.Embedding),
		owner:       d.Owner,
		anonymous:   d.Anonymous,
		createdAt:   createdAt.UnixMilli(),
	}, nil
}

// Reconstruct creates a Report without validation (storage hydration).
func Reconstruct(id string, status Status, d Draft, createdAt int64) Report {
	return Report{
		id:          id,
		kind:        d.Kind,
		status:      status,
		title:       d.Title,
		category:    d.Category,
		location:    d.Location,
		date:        d.Date,
		description: d.Description,
		imageURL:    d.ImageURL,
		embedding:   d.Embedding,
		owner:       d.Owner,
		anonymous:   d.Anonymous,
		createdAt:   createdAt,
	}
}

func (r *Report) ID() string          { return r.id }
func (r *Report) Kind() Kind          { return r.kind }
func (r *Report) Status() Status      { return r.status }
func (r *Report) Title() string       { return r.title }
func (r *Report) Category() string    { return r.category }
func (r *Report) Location() string    { return r.location }
func (r *Report) Date() string        { return r.date }
func (r *Report) Description() string { return r.description }
func (r *Report) ImageURL() string    { return r.imageURL }
func (r *Report) Owner() Owner        { return r.owner }
func (r *Report) Anonymous() bool     { return r.anonymous }

// CreatedAt returns the creation time in Unix milliseconds.
func (r *Report) CreatedAt() int64 { return r.createdAt }

// Embedding returns the image embedding, nil when the report has none.
// Callers must not modify the returned slice.
func (r *Report) Embedding() []float32 { return r.embedding }

// HasEmbedding reports whether the report can take part in matching.
func (r *Report) HasEmbedding() bool { return len(r.embedding) > 0 }

// IsActive reports whether the report is still open.
func (r *Report) IsActive() bool { return r.status == StatusActive }

// OwnedBy reports whether userID filed this report.
func (r *Report) OwnedBy(userID string) bool { return userID != "" && r.owner.ID == userID }

// Contact returns the owner email to disclose to a counterpart, empty when anonymous.
func (r *Report) Contact() string {
	if r.anonymous {
		return ""
	}
	return r.owner.Email
}

// WithStatus returns a copy with the given status set.
func (r *Report) WithStatus(s Status) Report {
	c := *r
	c.status = s
	return c
}

// Filter narrows a listing of active reports. Empty fields match everything.
type Filter struct {
	Kind     Kind
	Category string
	Location string
	Search   string
	Limit    int
}
