package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type RowHandler struct {
	Rows RowManager
}

func NewRowHandler(rows RowManager) *RowHandler {
	return &RowHandler{Rows: rows}
}

// List (GET /lead-files/{id}/rows)
func (h *RowHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	q, err := parseRowQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	page, err := h.Rows.List(r.Context(), uid, chi.URLParam(r, "id"), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type queryError struct{ param string }

func (e queryError) Error() string { return "invalid query parameter: " + e.param }

func parseRowQuery(r *http.Request) (usecase.RowQuery, error) {
	v := r.URL.Query()
	q := usecase.RowQuery{
		Search:    v.Get("search"),
		SortBy:    v.Get("sortBy"),
		SortOrder: v.Get("sortOrder"),
	}

	ints := []struct {
		name string
		dst  *int
	}{{"page", &q.Page}, {"pageSize", &q.PageSize}}
	for _, p := range ints {
		if s := v.Get(p.name); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return q, queryError{p.name}
			}
			*p.dst = n
		}
	}

	bools := []struct {
		name string
		dst  **bool
	}{{"hasEmail", &q.HasEmail}, {"hasUrl", &q.HasURL}}
	for _, p := range bools {
		if s := v.Get(p.name); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return q, queryError{p.name}
			}
			*p.dst = &b
		}
	}
	return q, nil
}

type addRowsRequest struct {
	Rows          []usecase.NewRowInput `json:"rows"`
	BusinessEmail *string               `json:"businessEmail"`
	WebsiteURL    *string               `json:"websiteUrl"`
}

// Add (POST /lead-files/{id}/rows) takes one row, or {"rows": [...]}.
func (h *RowHandler) Add(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req addRowsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	single := req.Rows == nil
	inputs := req.Rows
	if single {
		inputs = []usecase.NewRowInput{{BusinessEmail: req.BusinessEmail, WebsiteURL: req.WebsiteURL}}
	}

	rows, err := h.Rows.Add(r.Context(), uid, chi.URLParam(r, "id"), inputs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if single {
		writeJSON(w, http.StatusCreated, rows[0])
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"rows": rows})
}

// Update (PATCH /lead-files/{id}/rows/{rowId})
func (h *RowHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in usecase.UpdateRowInput
	if !decodeJSON(w, r, &in) {
		return
	}
	row, err := h.Rows.Update(r.Context(), uid, chi.URLParam(r, "id"), chi.URLParam(r, "rowId"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// Delete (DELETE /lead-files/{id}/rows)
func (h *RowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.Rows.Delete(r.Context(), uid, chi.URLParam(r, "id"), req.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// Reindex (POST /lead-files/{id}/rows/reindex)
func (h *RowHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	n, err := h.Rows.Reindex(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": n})
}
