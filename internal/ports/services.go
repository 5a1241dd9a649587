package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/card"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// Every mutating service method takes the acting user explicitly. A nil actor
// is rejected with domain.ErrUnauthenticated except on public board reads.
// Access failures wrap domain.ErrForbidden; missing entities wrap
// domain.ErrNotFound.

// ProjectService defines the service port for project aggregate operations.
// Implemented by the application layer; called by inbound adapters (handlers).
type ProjectService interface {
	// CreateProject creates a project owned by the actor, who is also its
	// first member.
	CreateProject(ctx context.Context, actor *user.User, name, description string) (*project.Project, error)

	// GetProject returns a project the actor is a member of.
	GetProject(ctx context.Context, id int64, actor *user.User) (*project.Project, error)

	// ListProjects returns every project the actor is a member of.
	ListProjects(ctx context.Context, actor *user.User) ([]*project.Project, error)

	// UpdateProject changes name and description. Owner only.
	UpdateProject(ctx context.Context, id int64, actor *user.User, upd ProjectUpdate) (*project.Project, error)

	// DeleteProject deletes a project. Owner only. Boards under the project
	// are detached and kept.
	DeleteProject(ctx context.Context, id int64, actor *user.User) error

	// AddMember adds the user with the given email to the project and to
	// every board under it. Owner only. Idempotent.
	AddMember(ctx context.Context, id int64, actor *user.User, email string) (*project.Project, error)

	// RemoveMember removes a user from the project and from every board under
	// it. Owner only. Returns domain.ErrConflict for the project owner and a
	// *domain.PartialFailureError when some boards could not be saved.
	RemoveMember(ctx context.Context, id int64, actor *user.User, userID int64) (*project.Project, error)
}

// BoardService defines the service port for board aggregate operations.
type BoardService interface {
	// CreateBoard creates a board owned by the actor. When ProjectID is set
	// the actor must be a member of that project and the board starts with
	// the project's members.
	CreateBoard(ctx context.Context, actor *user.User, draft BoardDraft) (*board.Board, error)

	// GetBoard returns a board with columns and cards ordered by position.
	// Public boards are readable by anyone, including a nil actor.
	GetBoard(ctx context.Context, id int64, actor *user.User) (*board.Board, error)

	// ListBoards returns every board the actor is a member of.
	ListBoards(ctx context.Context, actor *user.User) ([]*board.Board, error)

	// ListPublicBoards returns every public board. The actor must be authenticated.
	ListPublicBoards(ctx context.Context, actor *user.User) ([]*board.Board, error)

	// UpdateBoard changes name, description and visibility. Owner only.
	UpdateBoard(ctx context.Context, id int64, actor *user.User, upd BoardUpdate) (*board.Board, error)

	// DeleteBoard deletes a board with all its columns and cards. Owner only.
	DeleteBoard(ctx context.Context, id int64, actor *user.User) error

	// AddMember adds a user to the board. Owner only. Idempotent.
	AddMember(ctx context.Context, id int64, actor *user.User, userID int64) (*board.Board, error)

	// RemoveMember removes a user from the board. Owner only.
	// Returns domain.ErrConflict when removing the board owner.
	RemoveMember(ctx context.Context, id int64, actor *user.User, userID int64) (*board.Board, error)
}

// ColumnService defines the service port for column operations. Columns are
// mutated through their board; the actor must be a board member.
type ColumnService interface {
	// CreateColumn appends a column, or places it at position when given.
	CreateColumn(ctx context.Context, boardID int64, actor *user.User, name string, position *int) (*board.Column, error)

	UpdateColumn(ctx context.Context, boardID, columnID int64, actor *user.User, upd ColumnUpdate) (*board.Column, error)

	// DeleteColumn deletes a column with all its cards.
	DeleteColumn(ctx context.Context, boardID, columnID int64, actor *user.User) error
}

// CardService defines the service port for card operations. The actor must
// be a member of the board holding the card.
type CardService interface {
	// CreateCard appends a card to a column. Name defaults to the title and
	// the card starts active.
	CreateCard(ctx context.Context, columnID int64, actor *user.User, draft CardDraft) (*card.Card, error)

	// UpdateCard applies only the fields set in upd.
	UpdateCard(ctx context.Context, cardID int64, actor *user.User, upd CardUpdate) (*card.Card, error)

	// DeleteCard deletes a card with its comments, attachments and checklist.
	DeleteCard(ctx context.Context, cardID int64, actor *user.User) error

	// MoveCard moves a card to another column, possibly on another board.
	// The actor must be a member of both boards. A nil position stores 0.
	MoveCard(ctx context.Context, cardID int64, actor *user.User, toColumnID int64, position *int) (*card.Card, error)

	AddComment(ctx context.Context, cardID int64, actor *user.User, body string) (*card.Comment, error)
	AddAttachment(ctx context.Context, cardID int64, actor *user.User, filename, location string) (*card.Attachment, error)
	AddChecklistItem(ctx context.Context, cardID int64, actor *user.User, name string) (*card.ChecklistItem, error)
	SetChecklistItemChecked(ctx context.Context, cardID, itemID int64, actor *user.User, checked bool) (*card.ChecklistItem, error)
}

// UserService defines the service port for user accounts.
type UserService interface {
	// Register creates a user. Returns domain.ErrConflict when the email is taken.
	Register(ctx context.Context, draft UserDraft) (*user.User, error)

	// GetUser returns any account to an authenticated actor.
	GetUser(ctx context.Context, id int64, actor *user.User) (*user.User, error)

	// UpdateProfile applies only the fields set in upd to the actor's account.
	UpdateProfile(ctx context.Context, actor *user.User, upd ProfileUpdate) (*user.User, error)
}

// IdentityResolver maps an authenticated email to the acting user.
// Implemented by UserService; called by the identity middleware.
type IdentityResolver interface {
	ResolveActor(ctx context.Context, email string) (*user.User, error)
}

// ProjectUpdate carries optional project changes; nil fields are left alone.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// BoardDraft carries the fields of a new board.
type BoardDraft struct {
	Name        string
	Description string
	IsPublic    bool
	ProjectID   *int64
}

// BoardUpdate carries optional board changes; nil fields are left alone.
type BoardUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// ColumnUpdate carries optional column changes. A supplied position is
// written verbatim.
type ColumnUpdate struct {
	Name     *string
	Position *int
}

// CardDraft carries the fields of a new card. An empty Name defaults to Title.
type CardDraft struct {
	Title       string
	Name        string
	Description string
	DueDate     *time.Time
}

// CardUpdate carries optional card changes; nil fields are left alone.
type CardUpdate struct {
	Title       *string
	Name        *string
	Description *string
	DueDate     *time.Time
}

// UserDraft carries the fields of a new account.
type UserDraft struct {
	Name      string
	Username  string
	Email     string
	AvatarURL string
}

// ProfileUpdate carries optional profile changes; nil fields are left alone.
type ProfileUpdate struct {
	Name      *string
	Username  *string
	Email     *string
	AvatarURL *string
}
