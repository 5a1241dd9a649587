package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// CardHandler handles HTTP requests for cards and their children.
type CardHandler struct {
	svc ports.CardService
}

// NewCardHandler creates a new CardHandler with the given service port.
func NewCardHandler(svc ports.CardService) *CardHandler {
	return &CardHandler{svc: svc}
}

// CreateCard handles POST /api/v1/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.svc.CreateCard(r.Context(), req.ColumnID, actor(r), req.ToDraft())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToCardResponse(created))
}

// UpdateCard handles PUT /api/v1/cards/{id}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.svc.UpdateCard(r.Context(), id, actor(r), req.ToUpdate())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCardResponse(updated))
}

// DeleteCard handles DELETE /api/v1/cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.DeleteCard(r.Context(), id, actor(r)); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveCard handles PATCH /api/v1/cards/{id}/move.
func (h *CardHandler) MoveCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.MoveCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	moved, err := h.svc.MoveCard(r.Context(), id, actor(r), req.ColumnID, req.Position)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCardResponse(moved))
}

// AddComment handles POST /api/v1/cards/{id}/comments.
func (h *CardHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.AddCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.svc.AddComment(r.Context(), id, actor(r), req.Body)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToCommentResponse(c))
}

// AddAttachment handles POST /api/v1/cards/{id}/attachments.
func (h *CardHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.AddAttachmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	a, err := h.svc.AddAttachment(r.Context(), id, actor(r), req.Filename, req.Location)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToAttachmentResponse(a))
}

// AddChecklistItem handles POST /api/v1/cards/{id}/checklist.
func (h *CardHandler) AddChecklistItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.AddChecklistItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.svc.AddChecklistItem(r.Context(), id, actor(r), req.Name)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToChecklistItemResponse(item))
}

// SetChecklistItem handles PATCH /api/v1/cards/{id}/checklist/{itemId}.
func (h *CardHandler) SetChecklistItem(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r, "id", "itemId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.SetChecklistItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.svc.SetChecklistItemChecked(r.Context(), ids[0], ids[1], actor(r), *req.Checked)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToChecklistItemResponse(item))
}
