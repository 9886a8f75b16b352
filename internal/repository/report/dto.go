package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lostaf-io/lostaf/internal/domain"
	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
)

// jsonReport is the RedisJSON document layout of a report.
// has_embedding is a string so it can be indexed as TAG.
type jsonReport struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Date         string    `json:"date"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url,omitempty"`
	Embedding    []float32 `json:"embedding,omitempty"`
	HasEmbedding string    `json:"has_embedding"`
	OwnerID      string    `json:"owner_id"`
	OwnerName    string    `json:"owner_name"`
	OwnerEmail   string    `json:"owner_email"`
	Anonymous    bool      `json:"anonymous"`
	CreatedAt    int64     `json:"created_at"`
}

func toJSON(r *domreport.Report) jsonReport {
	owner := r.Owner()
	return jsonReport{
		ID:           r.ID(),
		Kind:         string(r.Kind()),
		Status:       string(r.Status()),
		Title:        r.Title(),
		Category:     r.Category(),
		Location:     r.Location(),
		Date:         r.Date(),
		Description:  r.Description(),
		ImageURL:     r.ImageURL(),
		Embedding:    r.Embedding(),
		HasEmbedding: boolTag(r.HasEmbedding()),
		OwnerID:      owner.ID,
		OwnerName:    owner.Name,
		OwnerEmail:   owner.Email,
		Anonymous:    r.Anonymous(),
		CreatedAt:    r.CreatedAt(),
	}
}

func (j *jsonReport) toDomain() domreport.Report {
	return domreport.Reconstruct(j.ID, domreport.Status(j.Status), domreport.Draft{
		Kind:        domreport.Kind(j.Kind),
		Title:       j.Title,
		Category:    j.Category,
		Location:    j.Location,
		Date:        j.Date,
		Description: j.Description,
		ImageURL:    j.ImageURL,
		Embedding:   j.Embedding,
		Owner:       domreport.Owner{ID: j.OwnerID, Name: j.OwnerName, Email: j.OwnerEmail},
		Anonymous:   j.Anonymous,
	}, j.CreatedAt)
}

// parseDocument decodes a stored report. JSON.GET with a "$" path wraps
// the document in an array, FT.SEARCH RETURN "$" does not.
func parseDocument(raw string) (domreport.Report, error) {
	raw = strings.TrimSpace(raw)
	var doc jsonReport
	if strings.HasPrefix(raw, "[") {
		var arr []jsonReport
		if err := json.Unmarshal([]byte(raw), &arr); err != nil {
			return domreport.Report{}, fmt.Errorf("unmarshal report: %w", err)
		}
		if len(arr) == 0 {
			return domreport.Report{}, domain.ErrNotFound
		}
		doc = arr[0]
	} else if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return domreport.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return doc.toDomain(), nil
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
