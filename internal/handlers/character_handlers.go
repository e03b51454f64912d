package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/http/response"
)

func (h *Handlers) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req domain.CharacterCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	character, err := h.characters.Create(r.Context(), &req)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, character)
}

func (h *Handlers) ListCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.characters.List(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, characters)
}

func (h *Handlers) ListUnassignedCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.characters.ListUnassigned(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, characters)
}

func (h *Handlers) GetCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid character ID")
		return
	}

	character, err := h.characters.GetByID(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, character)
}

func (h *Handlers) GetGuestCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	character, err := h.characters.GetByGuest(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, character)
}

// AssignCharacter attaches an existing unassigned character to a guest.
func (h *Handlers) AssignCharacter(w http.ResponseWriter, r *http.Request) {
	guestID, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid guest ID")
		return
	}

	var body struct {
		CharacterID int64 `json:"character_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if body.CharacterID <= 0 {
		response.BadRequest(w, "character_id is required")
		return
	}

	character, err := h.characters.Assign(r.Context(), body.CharacterID, guestID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, character)
}

func (h *Handlers) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid character ID")
		return
	}

	var patch domain.CharacterPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	character, err := h.characters.Update(r.Context(), id, patch)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, character)
}

func (h *Handlers) UnassignCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid character ID")
		return
	}

	character, err := h.characters.Unassign(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, character)
}

func (h *Handlers) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.BadRequest(w, "Invalid character ID")
		return
	}

	if err := h.characters.Delete(r.Context(), id); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
