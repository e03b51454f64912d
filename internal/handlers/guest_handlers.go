package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/http/response"
)

// guestCreateRes echoes the access token exactly once, on creation. Every
// later read goes through the token itself.
type guestCreateRes struct {
	domain.GuestDTO
	AccessToken string `json:"access_token"`
}

func (h *Handlers) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req domain.GuestCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	guest, err := h.guests.Create(r.Context(), &req)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, guestCreateRes{
		GuestDTO:    guest.DTO(),
		AccessToken: guest.AccessToken,
	})
}

func (h *Handlers) GetGuestByToken(w http.ResponseWriter, r *http.Request) {
	guest, err := h.guests.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	view := struct {
		domain.GuestDTO
		Character *domain.CharacterDTO `json:"character,omitempty"`
	}{GuestDTO: guest.DTO()}

	if character, err := h.characters.GetByGuest(r.Context(), guest.ID); err == nil {
		dto := character.PublicDTO()
		view.Character = &dto
	}

	response.WriteJSON(w, http.StatusOK, view)
}

func (h *Handlers) UpdateGuestByToken(w http.ResponseWriter, r *http.Request) {
	var patch domain.GuestPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	guest, err := h.guests.UpdateByToken(r.Context(), chi.URLParam(r, "token"), patch)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, guest.DTO())
}

func (h *Handlers) CancelGuest(w http.ResponseWriter, r *http.Request) {
	guest, err := h.guests.Cancel(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, guest.DTO())
}

// GuestTimeline is the portal's notification history view.
func (h *Handlers) GuestTimeline(w http.ResponseWriter, r *http.Request) {
	events, err := h.guests.Timeline(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, events)
}
