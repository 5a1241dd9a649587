// Package access decides whether an actor may act on a project or board.
// Every function is pure: it inspects already-loaded aggregates and returns
// a domain.ErrForbidden-wrapping error naming the actor and resource.
package access

import (
	"fmt"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// Governed is an aggregate with an owner and a member set.
// Implemented by *project.Project and *board.Board.
type Governed interface {
	OwnerID() int64
	HasMember(userID int64) bool
	Resource() (kind string, id int64)
}

// RequireMember fails unless the actor is a member of g.
func RequireMember(actor *user.User, g Governed) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor", domain.ErrUnauthenticated)
	}
	if !g.HasMember(actor.ID) {
		return denied(actor, g, "is not a member")
	}
	return nil
}

// RequireOwner fails unless the actor owns g.
func RequireOwner(actor *user.User, g Governed) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor", domain.ErrUnauthenticated)
	}
	if g.OwnerID() != actor.ID {
		return denied(actor, g, "is not the owner")
	}
	return nil
}

// RequireReadable lets any authenticated actor read a public board. Private
// boards need membership.
func RequireReadable(actor *user.User, b *board.Board) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor", domain.ErrUnauthenticated)
	}
	if b.IsPublic {
		return nil
	}
	return RequireMember(actor, b)
}

func denied(actor *user.User, g Governed, reason string) error {
	kind, id := g.Resource()
	return fmt.Errorf("%s %d: %w: user %d %s", kind, id, domain.ErrForbidden, actor.ID, reason)
}
