package chi

import (
	"time"

	domreport "github.com/lostaf-io/lostaf/internal/domain/report"
	"github.com/lostaf-io/lostaf/internal/domain/user"
	reportuc "github.com/lostaf-io/lostaf/internal/usecase/report"
)

type messageResponse struct {
	Message string `json:"message"`
}

type createItemResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// matchResponse is a counterpart of a match. Listings fill only ID, Title and Similarity.
type matchResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Category   string  `json:"category,omitempty"`
	Location   string  `json:"location,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
	UserEmail  *string `json:"user_email,omitempty"`
	Similarity float64 `json:"similarity"`
}

type itemResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	ImageURL    *string         `json:"image_url"`
	UserName    string          `json:"user_name"`
	UserEmail   string          `json:"user_email"`
	IsAnonymous bool            `json:"is_anonymous"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Matches     []matchResponse `json:"matches"`
}

type statsResponse struct {
	TotalLost     int `json:"total_lost"`
	TotalFound    int `json:"total_found"`
	TotalResolved int `json:"total_resolved"`
	TotalMatches  int `json:"total_matches"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// itemToResponse maps a report for viewer. The owner's name and email of an
// anonymous report are only shown to the owner.
func itemToResponse(r *domreport.Report, viewer user.User) itemResponse {
	owner := r.Owner()
	name, email := owner.Name, owner.Email
	if r.Anonymous() && !r.OwnedBy(viewer.ID) {
		name, email = "Anonymous", ""
	}
	return itemResponse{
		ID:          r.ID(),
		Type:        string(r.Kind()),
		Title:       r.Title(),
		Category:    r.Category(),
		Location:    r.Location(),
		Date:        r.Date(),
		Description: r.Description(),
		ImageURL:    optString(r.ImageURL()),
		UserName:    name,
		UserEmail:   email,
		IsAnonymous: r.Anonymous(),
		Status:      string(r.Status()),
		CreatedAt:   time.UnixMilli(r.CreatedAt()).UTC(),
		Matches:     []matchResponse{},
	}
}

func detailToResponse(d reportuc.Detail, viewer user.User) itemResponse {
	resp := itemToResponse(&d.Report, viewer)
	for _, m := range d.Matches {
		resp.Matches = append(resp.Matches, matchResponse{
			ID:         m.ID,
			Title:      m.Title,
			Category:   m.Category,
			Location:   m.Location,
			ImageURL:   optString(m.ImageURL),
			UserEmail:  optString(m.Contact),
			Similarity: m.Similarity,
		})
	}
	return resp
}

func listedToResponse(items []reportuc.Listed, viewer user.User) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for i := range items {
		resp := itemToResponse(&items[i].Report, viewer)
		for _, m := range items[i].Matches {
			resp.Matches = append(resp.Matches, matchResponse{
				ID:         m.ID,
				Title:      m.Title,
				Similarity: m.Similarity,
			})
		}
		out = append(out, resp)
	}
	return out
}

func statsToResponse(s reportuc.Stats) statsResponse {
	return statsResponse{
		TotalLost:     s.ActiveLost,
		TotalFound:    s.ActiveFound,
		TotalResolved: s.Resolved,
		TotalMatches:  s.Matches,
	}
}
