// Package memory implements ports.Store in process memory. It backs the local
// profile and the service tests.
//
// A unit of work runs against a deep copy of the whole state under the store
// mutex; the copy replaces the live state only when the unit succeeds.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// Compile-time check that Store implements ports.Store.
var _ ports.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is an in-memory ports.Store. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{state: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Atomically runs fn against a private copy of the state and publishes the
// copy only if fn returns nil.
func (s *Store) Atomically(ctx context.Context, fn func(repo ports.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(&repo{state: work, now: s.now}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// do runs a single repository call as its own unit of work.
func do[T any](ctx context.Context, s *Store, fn func(r *repo) (T, error)) (T, error) {
	var out T
	err := s.Atomically(ctx, func(pr ports.Repository) error {
		var err error
		out, err = fn(pr.(*repo))
		return err
	})
	return out, err
}

func (s *Store) FindUserByID(ctx context.Context, id int64) (*user.User, error) {
	return do(ctx, s, func(r *repo) (*user.User, error) { return r.FindUserByID(ctx, id) })
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return do(ctx, s, func(r *repo) (*user.User, error) { return r.FindUserByEmail(ctx, email) })
}

func (s *Store) SaveUser(ctx context.Context, u *user.User) error {
	_, err := do(ctx, s, func(r *repo) (struct{}, error) { return struct{}{}, r.SaveUser(ctx, u) })
	return err
}

func (s *Store) FindProjectByID(ctx context.Context, id int64) (*project.Project, error) {
	return do(ctx, s, func(r *repo) (*project.Project, error) { return r.FindProjectByID(ctx, id) })
}

func (s *Store) FindProjectsByMemberID(ctx context.Context, userID int64) ([]*project.Project, error) {
	return do(ctx, s, func(r *repo) ([]*project.Project, error) { return r.FindProjectsByMemberID(ctx, userID) })
}

func (s *Store) SaveProject(ctx context.Context, p *project.Project) error {
	_, err := do(ctx, s, func(r *repo) (struct{}, error) { return struct{}{}, r.SaveProject(ctx, p) })
	return err
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	_, err := do(ctx, s, func(r *repo) (struct{}, error) { return struct{}{}, r.DeleteProject(ctx, id) })
	return err
}

func (s *Store) FindBoardByID(ctx context.Context, id int64) (*board.Board, error) {
	return do(ctx, s, func(r *repo) (*board.Board, error) { return r.FindBoardByID(ctx, id) })
}

func (s *Store) FindBoardByColumnID(ctx context.Context, columnID int64) (*board.Board, error) {
	return do(ctx, s, func(r *repo) (*board.Board, error) { return r.FindBoardByColumnID(ctx, columnID) })
}

func (s *Store) FindBoardByCardID(ctx context.Context, cardID int64) (*board.Board, error) {
	return do(ctx, s, func(r *repo) (*board.Board, error) { return r.FindBoardByCardID(ctx, cardID) })
}

func (s *Store) FindBoardsByMemberID(ctx context.Context, userID int64) ([]*board.Board, error) {
	return do(ctx, s, func(r *repo) ([]*board.Board, error) { return r.FindBoardsByMemberID(ctx, userID) })
}

func (s *Store) FindBoardsByProjectID(ctx context.Context, projectID int64) ([]*board.Board, error) {
	return do(ctx, s, func(r *repo) ([]*board.Board, error) { return r.FindBoardsByProjectID(ctx, projectID) })
}

func (s *Store) FindAllBoards(ctx context.Context) ([]*board.Board, error) {
	return do(ctx, s, func(r *repo) ([]*board.Board, error) { return r.FindAllBoards(ctx) })
}

func (s *Store) SaveBoard(ctx context.Context, b *board.Board) error {
	_, err := do(ctx, s, func(r *repo) (struct{}, error) { return struct{}{}, r.SaveBoard(ctx, b) })
	return err
}

func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	_, err := do(ctx, s, func(r *repo) (struct{}, error) { return struct{}{}, r.DeleteBoard(ctx, id) })
	return err
}

// state is the full content of the store.
type state struct {
	nextID   int64
	users    map[int64]*user.User
	projects map[int64]*project.Project
	boards   map[int64]*board.Board
}

func newState() *state {
	return &state{
		users:    make(map[int64]*user.User),
		projects: make(map[int64]*project.Project),
		boards:   make(map[int64]*board.Board),
	}
}

func (st *state) clone() *state {
	out := &state{
		nextID:   st.nextID,
		users:    make(map[int64]*user.User, len(st.users)),
		projects: make(map[int64]*project.Project, len(st.projects)),
		boards:   make(map[int64]*board.Board, len(st.boards)),
	}
	for id, u := range st.users {
		cp := *u
		out.users[id] = &cp
	}
	for id, p := range st.projects {
		out.projects[id] = p.Clone()
	}
	for id, b := range st.boards {
		out.boards[id] = b.Clone()
	}
	return out
}

func (st *state) id() int64 {
	st.nextID++
	return st.nextID
}

// repo is the ports.Repository view of one unit of work. Values handed out
// are copies; callers mutate them and save them back.
type repo struct {
	state *state
	now   func() time.Time
}

func (r *repo) FindUserByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := r.state.users[id]
	if !ok {
		return nil, domain.NotFoundError("user", id)
	}
	cp := *u
	return &cp, nil
}

func (r *repo) FindUserByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.state.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user with email %q: %w", email, domain.ErrNotFound)
}

func (r *repo) SaveUser(_ context.Context, u *user.User) error {
	for id, other := range r.state.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return fmt.Errorf("email %q: %w: already registered", u.Email, domain.ErrConflict)
		}
	}
	now := r.now()
	if u.ID == 0 {
		u.ID = r.state.id()
		u.CreatedAt = now
	} else if _, ok := r.state.users[u.ID]; !ok {
		return domain.NotFoundError("user", u.ID)
	}
	u.UpdatedAt = now
	cp := *u
	r.state.users[u.ID] = &cp
	return nil
}

func (r *repo) FindProjectByID(_ context.Context, id int64) (*project.Project, error) {
	p, ok := r.state.projects[id]
	if !ok {
		return nil, domain.NotFoundError("project", id)
	}
	return r.loadProject(p), nil
}

func (r *repo) FindProjectsByMemberID(_ context.Context, userID int64) ([]*project.Project, error) {
	var out []*project.Project
	for _, id := range sortedKeys(r.state.projects) {
		p := r.state.projects[id]
		if p.HasMember(userID) {
			out = append(out, r.loadProject(p))
		}
	}
	return out, nil
}

func (r *repo) SaveProject(_ context.Context, p *project.Project) error {
	now := r.now()
	if p.ID == 0 {
		p.ID = r.state.id()
		p.CreatedAt = now
	} else if _, ok := r.state.projects[p.ID]; !ok {
		return domain.NotFoundError("project", p.ID)
	}
	p.UpdatedAt = now
	stored := p.Clone()
	stored.BoardIDs = nil
	r.state.projects[p.ID] = stored
	return nil
}

func (r *repo) DeleteProject(_ context.Context, id int64) error {
	if _, ok := r.state.projects[id]; !ok {
		return domain.NotFoundError("project", id)
	}
	delete(r.state.projects, id)
	return nil
}

func (r *repo) FindBoardByID(_ context.Context, id int64) (*board.Board, error) {
	b, ok := r.state.boards[id]
	if !ok {
		return nil, domain.NotFoundError("board", id)
	}
	return r.loadBoard(b), nil
}

func (r *repo) FindBoardByColumnID(_ context.Context, columnID int64) (*board.Board, error) {
	for _, b := range r.state.boards {
		if b.Column(columnID) != nil {
			return r.loadBoard(b), nil
		}
	}
	return nil, domain.NotFoundError("column", columnID)
}

func (r *repo) FindBoardByCardID(_ context.Context, cardID int64) (*board.Board, error) {
	for _, b := range r.state.boards {
		if _, c := b.FindCard(cardID); c != nil {
			return r.loadBoard(b), nil
		}
	}
	return nil, domain.NotFoundError("card", cardID)
}

func (r *repo) FindBoardsByMemberID(_ context.Context, userID int64) ([]*board.Board, error) {
	return r.filterBoards(func(b *board.Board) bool { return b.HasMember(userID) }), nil
}

func (r *repo) FindBoardsByProjectID(_ context.Context, projectID int64) ([]*board.Board, error) {
	return r.filterBoards(func(b *board.Board) bool {
		return b.ProjectID != nil && *b.ProjectID == projectID
	}), nil
}

func (r *repo) FindAllBoards(_ context.Context) ([]*board.Board, error) {
	return r.filterBoards(func(*board.Board) bool { return true }), nil
}

// SaveBoard replaces the stored aggregate and assigns IDs and back
// references to new columns, cards and card children.
func (r *repo) SaveBoard(_ context.Context, b *board.Board) error {
	now := r.now()
	if b.ID == 0 {
		b.ID = r.state.id()
		b.CreatedAt = now
	} else if _, ok := r.state.boards[b.ID]; !ok {
		return domain.NotFoundError("board", b.ID)
	}
	if b.ProjectID != nil {
		if _, ok := r.state.projects[*b.ProjectID]; !ok {
			return domain.NotFoundError("project", *b.ProjectID)
		}
	}
	b.UpdatedAt = now

	for i := range b.Columns {
		col := &b.Columns[i]
		col.BoardID = b.ID
		if col.ID == 0 {
			col.ID = r.state.id()
			col.CreatedAt = now
		}
		col.UpdatedAt = now
		for j := range col.Cards {
			c := &col.Cards[j]
			c.ColumnID = col.ID
			if c.ID == 0 {
				c.ID = r.state.id()
				c.CreatedAt = now
			}
			c.UpdatedAt = now
			for k := range c.Comments {
				c.Comments[k].CardID = c.ID
				if c.Comments[k].ID == 0 {
					c.Comments[k].ID = r.state.id()
					c.Comments[k].CreatedAt = now
				}
			}
			for k := range c.Attachments {
				c.Attachments[k].CardID = c.ID
				if c.Attachments[k].ID == 0 {
					c.Attachments[k].ID = r.state.id()
					c.Attachments[k].CreatedAt = now
				}
			}
			for k := range c.ChecklistItems {
				c.ChecklistItems[k].CardID = c.ID
				if c.ChecklistItems[k].ID == 0 {
					c.ChecklistItems[k].ID = r.state.id()
					c.ChecklistItems[k].CreatedAt = now
				}
			}
		}
	}

	r.state.boards[b.ID] = b.Clone()
	return nil
}

func (r *repo) DeleteBoard(_ context.Context, id int64) error {
	if _, ok := r.state.boards[id]; !ok {
		return domain.NotFoundError("board", id)
	}
	delete(r.state.boards, id)
	return nil
}

// loadProject returns a copy with member profiles refreshed and BoardIDs filled.
func (r *repo) loadProject(p *project.Project) *project.Project {
	out := p.Clone()
	out.Owner = r.refresh(out.Owner)
	for i := range out.Members {
		out.Members[i] = r.refresh(out.Members[i])
	}
	out.BoardIDs = nil
	for _, id := range sortedKeys(r.state.boards) {
		if pid := r.state.boards[id].ProjectID; pid != nil && *pid == p.ID {
			out.BoardIDs = append(out.BoardIDs, id)
		}
	}
	return out
}

func (r *repo) loadBoard(b *board.Board) *board.Board {
	out := b.Clone()
	out.Owner = r.refresh(out.Owner)
	for i := range out.Members {
		out.Members[i] = r.refresh(out.Members[i])
	}
	return out
}

func (r *repo) refresh(u user.User) user.User {
	if cur, ok := r.state.users[u.ID]; ok {
		return *cur
	}
	return u
}

func (r *repo) filterBoards(keep func(*board.Board) bool) []*board.Board {
	var out []*board.Board
	for _, id := range sortedKeys(r.state.boards) {
		if b := r.state.boards[id]; keep(b) {
			out = append(out, r.loadBoard(b))
		}
	}
	return out
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
