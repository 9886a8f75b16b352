package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// listItemsParams are the query parameters of GET /api/items.
type listItemsParams struct {
	Type     *string
	Category *string
	Location *string
	Search   *string
}

// updateStatusParams are the query parameters of PATCH /api/items/{id}/status.
type updateStatusParams struct {
	Status string
}

func bindListItemsParams(r *http.Request) (listItemsParams, error) {
	var p listItemsParams
	q := r.URL.Query()
	for name, dest := range map[string]**string{
		"type":     &p.Type,
		"category": &p.Category,
		"location": &p.Location,
		"search":   &p.Search,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
			return listItemsParams{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
		}
	}
	return p, nil
}

func bindUpdateStatusParams(r *http.Request) (updateStatusParams, error) {
	var p updateStatusParams
	if err := runtime.BindQueryParameter("form", true, true, "status", r.URL.Query(), &p.Status); err != nil {
		return updateStatusParams{}, fmt.Errorf("invalid format for parameter status: %w", err)
	}
	return p, nil
}

func bindItemID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter id: %w", err)
	}
	return id, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
