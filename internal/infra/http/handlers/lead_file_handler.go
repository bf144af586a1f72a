package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

// Room for the non-file multipart fields on top of the file limit.
const formOverhead = 1 << 20

type LeadFileHandler struct {
	Importer       LeadImporter
	Sheets         SheetManager
	MaxUploadBytes int64
}

func NewLeadFileHandler(importer LeadImporter, sheets SheetManager, maxUploadBytes int64) *LeadFileHandler {
	return &LeadFileHandler{Importer: importer, Sheets: sheets, MaxUploadBytes: maxUploadBytes}
}

// ParseHeaders (POST /lead-files/parse-headers)
func (h *LeadFileHandler) ParseHeaders(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}
	data, name, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	headers, err := h.Importer.ParseHeaders(data, name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"headers": headers})
}

// Import (POST /lead-files/import)
func (h *LeadFileHandler) Import(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	data, name, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	input := usecase.ImportInput{
		UserID:        uid,
		FileName:      name,
		File:          data,
		Option:        strings.TrimSpace(r.FormValue("option")),
		SheetName:     r.FormValue("sheetName"),
		TargetSheetID: strings.TrimSpace(r.FormValue("targetLeadFileId")),
	}
	if sig := strings.TrimSpace(r.FormValue("signatureId")); sig != "" {
		input.SignatureID = &sig
	}
	if raw := strings.TrimSpace(r.FormValue("mapping")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Mapping); err != nil {
			badRequest(w, "mapping must be a JSON object")
			return
		}
	}

	out, err := h.Importer.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rejected := make(map[string]int, len(out.RejectedByReason))
	for reason, n := range out.RejectedByReason {
		rejected[string(reason)] = n
	}
	middleware.RecordImport(out.RowCount, rejected)

	writeJSON(w, http.StatusOK, out)
}

// readUpload reads the "file" part of a multipart request, enforcing the
// upload limit.
func (h *LeadFileHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file is too large"})
			return nil, "", false
		}
		badRequest(w, "expected a multipart form")
		return nil, "", false
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file is required")
		return nil, "", false
	}
	defer f.Close()

	if hdr.Size > h.MaxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file is too large"})
		return nil, "", false
	}
	data, err := io.ReadAll(f)
	if err != nil {
		badRequest(w, "could not read file")
		return nil, "", false
	}
	return data, hdr.Filename, true
}

// List (GET /lead-files)
func (h *LeadFileHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	sheets, err := h.Sheets.List(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sheets)
}

// Create (POST /lead-files)
func (h *LeadFileHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in usecase.SheetInput
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := h.Sheets.Create(r.Context(), uid, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// Get (GET /lead-files/{id})
func (h *LeadFileHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	s, err := h.Sheets.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Update (PATCH /lead-files/{id})
func (h *LeadFileHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in usecase.SheetPatch
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := h.Sheets.Update(r.Context(), uid, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Delete (DELETE /lead-files/{id})
func (h *LeadFileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.Sheets.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
