package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type SignatureHandler struct {
	Signatures SignatureManager
}

func NewSignatureHandler(signatures SignatureManager) *SignatureHandler {
	return &SignatureHandler{Signatures: signatures}
}

func (h *SignatureHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	out, err := h.Signatures.List(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SignatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in usecase.SignatureInput
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := h.Signatures.Create(r.Context(), uid, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *SignatureHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in usecase.SignaturePatch
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := h.Signatures.Update(r.Context(), uid, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SignatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.Signatures.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
