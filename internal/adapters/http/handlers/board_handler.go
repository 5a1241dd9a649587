package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// BoardHandler handles HTTP requests for boards, their members and their
// columns.
type BoardHandler struct {
	boards  ports.BoardService
	columns ports.ColumnService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boards ports.BoardService, columns ports.ColumnService) *BoardHandler {
	return &BoardHandler{boards: boards, columns: columns}
}

// ListBoards handles GET /api/v1/boards.
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.ListBoards(r.Context(), actor(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBoardListResponse(boards))
}

// ListPublicBoards handles GET /api/v1/boards/public.
func (h *BoardHandler) ListPublicBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.ListPublicBoards(r.Context(), actor(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBoardListResponse(boards))
}

// CreateBoard handles POST /api/v1/boards.
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBoardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.boards.CreateBoard(r.Context(), actor(r), req.ToDraft())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToBoardResponse(created))
}

// GetBoard handles GET /api/v1/boards/{id}.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	b, err := h.boards.GetBoard(r.Context(), id, actor(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBoardResponse(b))
}

// UpdateBoard handles PUT /api/v1/boards/{id}.
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateBoardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.boards.UpdateBoard(r.Context(), id, actor(r), req.ToUpdate())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBoardResponse(updated))
}

// DeleteBoard handles DELETE /api/v1/boards/{id}.
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.boards.DeleteBoard(r.Context(), id, actor(r)); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMember handles POST /api/v1/boards/{id}/members.
func (h *BoardHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.AddBoardMemberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.boards.AddMember(r.Context(), id, actor(r), req.UserID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBoardResponse(b))
}

// RemoveMember handles DELETE /api/v1/boards/{id}/members/{userId}.
func (h *BoardHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r, "id", "userId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	b, err := h.boards.RemoveMember(r.Context(), ids[0], actor(r), ids[1])
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBoardResponse(b))
}

// CreateColumn handles POST /api/v1/boards/{id}/columns.
func (h *BoardHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateColumnRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	col, err := h.columns.CreateColumn(r.Context(), id, actor(r), req.Name, req.Position)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToColumnResponse(col))
}

// UpdateColumn handles PUT /api/v1/boards/{id}/columns/{columnId}.
func (h *BoardHandler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r, "id", "columnId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateColumnRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	col, err := h.columns.UpdateColumn(r.Context(), ids[0], ids[1], actor(r), req.ToUpdate())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToColumnResponse(col))
}

// DeleteColumn handles DELETE /api/v1/boards/{id}/columns/{columnId}.
func (h *BoardHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r, "id", "columnId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.columns.DeleteColumn(r.Context(), ids[0], ids[1], actor(r)); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
