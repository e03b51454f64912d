package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/http/response"
)

func (h *Handlers) ListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.faqs.ListActive(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, faqs)
}

func (h *Handlers) ListAllFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.faqs.ListAll(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, faqs)
}

func (h *Handlers) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	var req domain.FAQCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	faq, err := h.faqs.Create(r.Context(), &req)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, faq)
}

func (h *Handlers) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid FAQ ID")
		return
	}

	var patch domain.FAQPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	faq, err := h.faqs.Update(r.Context(), id, patch)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, faq)
}

func (h *Handlers) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid FAQ ID")
		return
	}

	if err := h.faqs.Delete(r.Context(), id); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
