package handlers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

func columnParams(e *env, columnID int64) map[string]string {
	return map[string]string{
		"id":       strconv.FormatInt(e.board.ID, 10),
		"columnId": strconv.FormatInt(columnID, 10),
	}
}

// --- Boards ---

func TestListBoards_MemberOnly(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	tests := []struct {
		name      string
		actor     *user.User
		wantCount int
	}{
		{"owner sees board", e.alice, 1},
		{"stranger sees nothing", e.bob, 0},
	}
	for _, tt := range tests {
		rec := call(t, e.boards.ListBoards, http.MethodGet, "/api/v1/boards", tt.actor, nil, nil)

		requireStatus(t, rec, http.StatusOK)
		resp := decodeJSON[dto.BoardListResponse](t, rec)
		if resp.Count != tt.wantCount {
			t.Errorf("%s: Count = %d, want %d", tt.name, resp.Count, tt.wantCount)
		}
	}
}

func TestListPublicBoards_Anonymous(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.ListPublicBoards, http.MethodGet, "/api/v1/boards/public", nil, nil, nil)

	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestListPublicBoards_Empty(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.ListPublicBoards, http.MethodGet, "/api/v1/boards/public", e.bob, nil, nil)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.BoardListResponse](t, rec)
	if resp.Count != 0 {
		t.Errorf("Count = %d, want 0 (seed board is private)", resp.Count)
	}
	if resp.Boards == nil {
		t.Error("Boards should be an empty list, not null")
	}
}

func TestCreateBoard_Success(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.CreateBoardRequest{Name: "Ideas", IsPublic: true}
	rec := call(t, e.boards.CreateBoard, http.MethodPost, "/api/v1/boards", e.bob, body, nil)

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.BoardResponse](t, rec)
	if resp.OwnerID != e.bob.ID {
		t.Errorf("OwnerID = %d, want %d", resp.OwnerID, e.bob.ID)
	}
	if !resp.IsPublic {
		t.Error("IsPublic = false, want true")
	}
	if resp.ProjectID != nil {
		t.Errorf("ProjectID = %d, want nil", *resp.ProjectID)
	}
}

func TestCreateBoard_Anonymous(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.CreateBoard, http.MethodPost, "/api/v1/boards", nil, dto.CreateBoardRequest{Name: "x"}, nil)

	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestCreateBoard_UnknownProject(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	pid := int64(999)
	body := dto.CreateBoardRequest{Name: "Orphan", ProjectID: &pid}
	rec := call(t, e.boards.CreateBoard, http.MethodPost, "/api/v1/boards", e.alice, body, nil)

	requireStatus(t, rec, http.StatusNotFound)
}

func TestCreateBoard_ValidationError(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.CreateBoard, http.MethodPost, "/api/v1/boards", e.alice, dto.CreateBoardRequest{}, nil)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestGetBoard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		actor      func(e *env) *user.User
		wantStatus int
	}{
		{"owner", func(e *env) *user.User { return e.alice }, http.StatusOK},
		{"stranger", func(e *env) *user.User { return e.bob }, http.StatusForbidden},
		{"anonymous", func(*env) *user.User { return nil }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t)

			rec := call(t, e.boards.GetBoard, http.MethodGet, "/api/v1/boards/1", tt.actor(e), nil, idParam(e.board.ID))

			requireStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestGetBoard_NestedOrder(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.GetBoard, http.MethodGet, "/api/v1/boards/1", e.alice, nil, idParam(e.board.ID))

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.BoardResponse](t, rec)
	if len(resp.Columns) != 2 {
		t.Fatalf("len(Columns) = %d, want 2", len(resp.Columns))
	}
	if resp.Columns[0].Name != "Todo" || resp.Columns[1].Name != "Done" {
		t.Errorf("columns = %q, %q; want Todo, Done", resp.Columns[0].Name, resp.Columns[1].Name)
	}
	if len(resp.Columns[0].Cards) != 1 || resp.Columns[0].Cards[0].ID != e.card.ID {
		t.Errorf("Todo cards = %+v, want the seeded card", resp.Columns[0].Cards)
	}
}

func TestUpdateBoard_Success(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.UpdateBoardRequest{Name: strPtr(testUpdatedValue), IsPublic: boolPtr(true)}
	rec := call(t, e.boards.UpdateBoard, http.MethodPut, "/api/v1/boards/1", e.alice, body, idParam(e.board.ID))

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.BoardResponse](t, rec)
	if resp.Name != testUpdatedValue || !resp.IsPublic {
		t.Errorf("got Name=%q IsPublic=%v", resp.Name, resp.IsPublic)
	}

	rec = call(t, e.boards.GetBoard, http.MethodGet, "/api/v1/boards/1", nil, nil, idParam(e.board.ID))
	requireStatus(t, rec, http.StatusOK)
}

func TestUpdateBoard_NonMemberForbidden(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.UpdateBoardRequest{Name: strPtr(testUpdatedValue)}
	rec := call(t, e.boards.UpdateBoard, http.MethodPut, "/api/v1/boards/1", e.bob, body, idParam(e.board.ID))

	requireStatus(t, rec, http.StatusForbidden)
}

func TestDeleteBoard(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.DeleteBoard, http.MethodDelete, "/api/v1/boards/1", e.bob, nil, idParam(e.board.ID))
	requireStatus(t, rec, http.StatusForbidden)

	rec = call(t, e.boards.DeleteBoard, http.MethodDelete, "/api/v1/boards/1", e.alice, nil, idParam(e.board.ID))
	requireStatus(t, rec, http.StatusNoContent)

	rec = call(t, e.boards.DeleteBoard, http.MethodDelete, "/api/v1/boards/1", e.alice, nil, idParam(e.board.ID))
	requireStatus(t, rec, http.StatusNotFound)
}

// --- Board members ---

func TestBoardMembers_AddThenRemove(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.AddBoardMemberRequest{UserID: e.bob.ID}
	rec := call(t, e.boards.AddMember, http.MethodPost, "/api/v1/boards/1/members", e.alice, body, idParam(e.board.ID))
	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.BoardResponse](t, rec)
	if len(resp.Members) != 2 {
		t.Errorf("len(Members) = %d, want 2", len(resp.Members))
	}

	rec = call(t, e.boards.GetBoard, http.MethodGet, "/api/v1/boards/1", e.bob, nil, idParam(e.board.ID))
	requireStatus(t, rec, http.StatusOK)

	params := map[string]string{
		"id":     strconv.FormatInt(e.board.ID, 10),
		"userId": strconv.FormatInt(e.bob.ID, 10),
	}
	rec = call(t, e.boards.RemoveMember, http.MethodDelete, "/api/v1/boards/1/members/2", e.alice, nil, params)
	requireStatus(t, rec, http.StatusOK)

	rec = call(t, e.boards.GetBoard, http.MethodGet, "/api/v1/boards/1", e.bob, nil, idParam(e.board.ID))
	requireStatus(t, rec, http.StatusForbidden)
}

func TestBoardMembers_UnknownUser(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.AddBoardMemberRequest{UserID: 999}
	rec := call(t, e.boards.AddMember, http.MethodPost, "/api/v1/boards/1/members", e.alice, body, idParam(e.board.ID))

	requireStatus(t, rec, http.StatusNotFound)
}

func TestBoardMembers_ValidationError(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.AddMember, http.MethodPost, "/api/v1/boards/1/members", e.alice,
		dto.AddBoardMemberRequest{}, idParam(e.board.ID))

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- Columns ---

func TestCreateColumn_AppendsAtCount(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.CreateColumnRequest{Name: "Review"}
	rec := call(t, e.boards.CreateColumn, http.MethodPost, "/api/v1/boards/1/columns", e.alice, body, idParam(e.board.ID))

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.ColumnResponse](t, rec)
	if resp.Position != 2 {
		t.Errorf("Position = %d, want 2", resp.Position)
	}
	if resp.BoardID != e.board.ID {
		t.Errorf("BoardID = %d, want %d", resp.BoardID, e.board.ID)
	}
}

func TestCreateColumn_ExplicitPosition(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.CreateColumnRequest{Name: "Backlog", Position: intPtr(7)}
	rec := call(t, e.boards.CreateColumn, http.MethodPost, "/api/v1/boards/1/columns", e.alice, body, idParam(e.board.ID))

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.ColumnResponse](t, rec)
	if resp.Position != 7 {
		t.Errorf("Position = %d, want 7", resp.Position)
	}
}

func TestCreateColumn_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		params     func(e *env) map[string]string
		wantStatus int
	}{
		{
			name:       "empty name",
			body:       dto.CreateColumnRequest{Name: ""},
			params:     func(e *env) map[string]string { return idParam(e.board.ID) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative position",
			body:       dto.CreateColumnRequest{Name: "x", Position: intPtr(-1)},
			params:     func(e *env) map[string]string { return idParam(e.board.ID) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown board",
			body:       dto.CreateColumnRequest{Name: "x"},
			params:     func(*env) map[string]string { return idParam(999) },
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad board id",
			body:       dto.CreateColumnRequest{Name: "x"},
			params:     func(*env) map[string]string { return map[string]string{"id": "nope"} },
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t)

			rec := call(t, e.boards.CreateColumn, http.MethodPost, "/api/v1/boards/1/columns", e.alice, tt.body, tt.params(e))
			requireStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestUpdateColumn_Success(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.UpdateColumnRequest{Name: strPtr("Doing"), Position: intPtr(5)}
	rec := call(t, e.boards.UpdateColumn, http.MethodPut, "/api/v1/boards/1/columns/1", e.alice, body, columnParams(e, e.todo.ID))

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.ColumnResponse](t, rec)
	if resp.Name != "Doing" || resp.Position != 5 {
		t.Errorf("got Name=%q Position=%d", resp.Name, resp.Position)
	}
}

func TestUpdateColumn_WrongBoard(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	params := map[string]string{"id": "999", "columnId": strconv.FormatInt(e.todo.ID, 10)}
	rec := call(t, e.boards.UpdateColumn, http.MethodPut, "/api/v1/boards/999/columns/1", e.alice,
		dto.UpdateColumnRequest{Name: strPtr("x")}, params)

	requireStatus(t, rec, http.StatusNotFound)
}

func TestDeleteColumn_Success(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.DeleteColumn, http.MethodDelete, "/api/v1/boards/1/columns/2", e.alice, nil, columnParams(e, e.done.ID))
	requireStatus(t, rec, http.StatusNoContent)

	rec = call(t, e.boards.GetBoard, http.MethodGet, "/api/v1/boards/1", e.alice, nil, idParam(e.board.ID))
	resp := decodeJSON[dto.BoardResponse](t, rec)
	if len(resp.Columns) != 1 {
		t.Errorf("len(Columns) = %d, want 1", len(resp.Columns))
	}
}

func TestDeleteColumn_UnknownColumn(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.boards.DeleteColumn, http.MethodDelete, "/api/v1/boards/1/columns/999", e.alice, nil, columnParams(e, 999))

	requireStatus(t, rec, http.StatusNotFound)
}
