package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/taskboard-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/taskboard-service/internal/app"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/card"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

const testUpdatedValue = "Updated"

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }

// env wires every handler over real services and one memory store. Alice
// and Bob are registered; Alice owns one board with two columns and a card.
type env struct {
	users    *handlers.UserHandler
	projects *handlers.ProjectHandler
	boards   *handlers.BoardHandler
	cards    *handlers.CardHandler

	userSvc    ports.UserService
	projectSvc ports.ProjectService
	boardSvc   ports.BoardService
	columnSvc  ports.ColumnService
	cardSvc    ports.CardService

	alice, bob *user.User
	board      *board.Board
	todo, done *board.Column
	card       *card.Card
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.New()
	e := &env{
		userSvc:    app.NewUserService(store, nil),
		projectSvc: app.NewProjectService(store, nil, nil),
		boardSvc:   app.NewBoardService(store, nil),
		columnSvc:  app.NewColumnService(store, nil),
		cardSvc:    app.NewCardService(store, nil),
	}
	e.users = handlers.NewUserHandler(e.userSvc)
	e.projects = handlers.NewProjectHandler(e.projectSvc)
	e.boards = handlers.NewBoardHandler(e.boardSvc, e.columnSvc)
	e.cards = handlers.NewCardHandler(e.cardSvc)

	ctx := context.Background()
	var err error
	if e.alice, err = e.userSvc.Register(ctx, ports.UserDraft{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if e.bob, err = e.userSvc.Register(ctx, ports.UserDraft{Name: "Bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if e.board, err = e.boardSvc.CreateBoard(ctx, e.alice, ports.BoardDraft{Name: "Roadmap"}); err != nil {
		t.Fatalf("create board: %v", err)
	}
	if e.todo, err = e.columnSvc.CreateColumn(ctx, e.board.ID, e.alice, "Todo", nil); err != nil {
		t.Fatalf("create column: %v", err)
	}
	if e.done, err = e.columnSvc.CreateColumn(ctx, e.board.ID, e.alice, "Done", nil); err != nil {
		t.Fatalf("create column: %v", err)
	}
	if e.card, err = e.cardSvc.CreateCard(ctx, e.todo.ID, e.alice, ports.CardDraft{Title: "Ship"}); err != nil {
		t.Fatalf("create card: %v", err)
	}
	return e
}

// call invokes h with an optional JSON body, acting user and chi URL params.
func call(
	t *testing.T,
	h http.HandlerFunc,
	method, path string,
	actor *user.User,
	body any,
	params map[string]string,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	switch v := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(v)
	default:
		buf = jsonBody(t, v)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), actor))
	}
	if params != nil {
		req = withChiParams(req, params)
	}

	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
