package ports

import (
	"context"

	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// Repository defines the persistence port for users, projects and boards.
// Implemented by store adapters; called by the application layer.
//
// Boards are aggregate roots: loading a board loads its columns, cards and
// card children, and saving a board replaces all of them. Saves assign IDs
// to new entities in place. Lookups of missing entities return an error
// wrapping domain.ErrNotFound.
type Repository interface {
	FindUserByID(ctx context.Context, id int64) (*user.User, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
	// SaveUser returns domain.ErrConflict when the email belongs to another user.
	SaveUser(ctx context.Context, u *user.User) error

	FindProjectByID(ctx context.Context, id int64) (*project.Project, error)
	FindProjectsByMemberID(ctx context.Context, userID int64) ([]*project.Project, error)
	SaveProject(ctx context.Context, p *project.Project) error
	DeleteProject(ctx context.Context, id int64) error

	FindBoardByID(ctx context.Context, id int64) (*board.Board, error)
	FindBoardByColumnID(ctx context.Context, columnID int64) (*board.Board, error)
	FindBoardByCardID(ctx context.Context, cardID int64) (*board.Board, error)
	FindBoardsByMemberID(ctx context.Context, userID int64) ([]*board.Board, error)
	FindBoardsByProjectID(ctx context.Context, projectID int64) ([]*board.Board, error)
	FindAllBoards(ctx context.Context) ([]*board.Board, error)
	SaveBoard(ctx context.Context, b *board.Board) error
	// DeleteBoard removes the board together with everything it owns.
	DeleteBoard(ctx context.Context, id int64) error
}

// Store is a Repository that can run a unit of work atomically.
// Either every write made through the Repository passed to fn is applied, or
// none is. Reads through it observe the unit's own writes.
type Store interface {
	Repository
	Atomically(ctx context.Context, fn func(repo Repository) error) error
}
