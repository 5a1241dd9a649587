package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
func ctxBG() context.Context  { return context.Background() }

// fixture wires every service over one memory store with three registered
// users.
type fixture struct {
	store    ports.Store
	users    *UserService
	projects *ProjectService
	boards   *BoardService
	columns  *ColumnService
	cards    *CardService

	alice, bob, carol *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.New())
}

func newFixtureWithStore(t *testing.T, store ports.Store) *fixture {
	t.Helper()

	f := &fixture{
		store:    store,
		users:    NewUserService(store, discardLogger()),
		projects: NewProjectService(store, nil, discardLogger()),
		boards:   NewBoardService(store, discardLogger()),
		columns:  NewColumnService(store, discardLogger()),
		cards:    NewCardService(store, discardLogger()),
	}
	f.alice = f.register(t, "Alice", "alice@example.com")
	f.bob = f.register(t, "Bob", "bob@example.com")
	f.carol = f.register(t, "Carol", "carol@example.com")
	return f
}

func (f *fixture) register(t *testing.T, name, email string) *user.User {
	t.Helper()
	u, err := f.users.Register(ctxBG(), ports.UserDraft{Name: name, Email: email})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
	return u
}

func (f *fixture) project(t *testing.T, owner *user.User, members ...*user.User) *project.Project {
	t.Helper()
	p, err := f.projects.CreateProject(ctxBG(), owner, "Apollo", "moon shot")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	for _, m := range members {
		if p, err = f.projects.AddMember(ctxBG(), p.ID, owner, m.Email); err != nil {
			t.Fatalf("AddMember(%s) error = %v", m.Email, err)
		}
	}
	return p
}

func (f *fixture) board(t *testing.T, owner *user.User, projectID *int64) *board.Board {
	t.Helper()
	b, err := f.boards.CreateBoard(ctxBG(), owner, ports.BoardDraft{Name: "Sprint", ProjectID: projectID})
	if err != nil {
		t.Fatalf("CreateBoard() error = %v", err)
	}
	return b
}

func (f *fixture) column(t *testing.T, actor *user.User, boardID int64, name string) *board.Column {
	t.Helper()
	col, err := f.columns.CreateColumn(ctxBG(), boardID, actor, name, nil)
	if err != nil {
		t.Fatalf("CreateColumn() error = %v", err)
	}
	return col
}

func (f *fixture) loadBoard(t *testing.T, id int64) *board.Board {
	t.Helper()
	b, err := f.store.FindBoardByID(ctxBG(), id)
	if err != nil {
		t.Fatalf("FindBoardByID(%d) error = %v", id, err)
	}
	return b
}

func requireErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want errors.Is(%v)", err, target)
	}
}

// failingStore fails SaveBoard for selected board IDs inside units of work.
type failingStore struct {
	ports.Store
	fail map[int64]error
}

func (s *failingStore) Atomically(ctx context.Context, fn func(ports.Repository) error) error {
	return s.Store.Atomically(ctx, func(repo ports.Repository) error {
		return fn(&failingRepo{Repository: repo, fail: s.fail})
	})
}

type failingRepo struct {
	ports.Repository
	fail map[int64]error
}

func (r *failingRepo) SaveBoard(ctx context.Context, b *board.Board) error {
	if err, ok := r.fail[b.ID]; ok {
		return err
	}
	return r.Repository.SaveBoard(ctx, b)
}

var errDiskFull = errors.New("disk full")

// rerunStore reruns a unit of work whose first commit fails once armed,
// the way the postgres store retries a transient error.
type rerunStore struct {
	ports.Store
	armed bool
}

var errCommitReset = errors.New("connection reset at commit")

func (s *rerunStore) Atomically(ctx context.Context, fn func(ports.Repository) error) error {
	if !s.armed {
		return s.Store.Atomically(ctx, fn)
	}
	s.armed = false
	err := s.Store.Atomically(ctx, func(repo ports.Repository) error {
		if err := fn(repo); err != nil {
			return err
		}
		return errCommitReset
	})
	if !errors.Is(err, errCommitReset) {
		return err
	}
	return s.Store.Atomically(ctx, fn)
}
