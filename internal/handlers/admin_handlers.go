package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/http/response"
)

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	res, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, res)
}

func (h *Handlers) ListGuests(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var statusPtr *domain.GuestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := domain.ParseGuestStatus(raw)
		if !ok {
			response.BadRequest(w, "Invalid status parameter")
			return
		}
		statusPtr = &status
	}

	guests, err := h.guests.List(r.Context(), statusPtr, limit, offset)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	dtos := make([]domain.GuestDTO, 0, len(guests))
	for i := range guests {
		dtos = append(dtos, guests[i].DTO())
	}
	response.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handlers) GetGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	guest, err := h.guests.GetByID(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, guest.DTO())
}

func (h *Handlers) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	var patch domain.GuestPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	guest, err := h.guests.UpdateByID(r.Context(), id, patch)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, guest.DTO())
}

func (h *Handlers) UpdateGuestStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	status, ok := domain.ParseGuestStatus(body.Status)
	if !ok {
		response.BadRequest(w, "Invalid status value")
		return
	}

	guest, err := h.guests.SetStatus(r.Context(), id, status)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, guest.DTO())
}

func (h *Handlers) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	if err := h.guests.Delete(r.Context(), id); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListGuestEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	events, err := h.guests.ListEvents(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, events)
}

func (h *Handlers) BulkEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	queued, err := h.guests.QueueBulkEmail(r.Context(), body.Subject, body.Message)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]int{"queued": queued})
}

// RunReminders is the external trigger for the reminder pass. It reports
// counts even when some sends failed; failures are already in the event log.
func (h *Handlers) RunReminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminders.Run(r.Context(), time.Now())
	if err != nil {
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"result": result,
			"errors": err.Error(),
		})
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{"result": result})
}
