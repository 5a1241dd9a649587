// Package membership keeps a project's member set and the member sets of its
// boards in step. It mutates loaded aggregates only; persisting the changed
// boards is the caller's job.
package membership

import (
	"fmt"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// Result describes what a propagation changed.
type Result struct {
	// ProjectChanged is false when the call was a no-op on the project.
	ProjectChanged bool
	// Boards are the boards whose member set changed and must be saved.
	Boards []*board.Board
	// Retained lists boards the user owns and therefore still belongs to.
	Retained []int64
}

// PropagateAdd adds u to the project and to every board under it. Adding a
// user who is already a project member is a no-op.
func PropagateAdd(p *project.Project, u user.User, boards []*board.Board) Result {
	if !p.Members.Add(u) {
		return Result{}
	}

	res := Result{ProjectChanged: true}
	for _, b := range underProject(p, boards) {
		if b.Members.Add(u) {
			res.Boards = append(res.Boards, b)
		}
	}
	return res
}

// PropagateRemove removes the user from the project and from every board
// under it. Removing the project owner is a conflict. A board owned by the
// user keeps them as a member so the board is never left without its owner
// in the member set.
func PropagateRemove(p *project.Project, userID int64, boards []*board.Board) (Result, error) {
	if userID == p.OwnerID() {
		return Result{}, fmt.Errorf("project %d: %w: user %d is the owner and cannot be removed",
			p.ID, domain.ErrConflict, userID)
	}

	res := Result{ProjectChanged: p.Members.Remove(userID)}
	for _, b := range underProject(p, boards) {
		if b.OwnerID() == userID {
			res.Retained = append(res.Retained, b.ID)
			continue
		}
		if b.Members.Remove(userID) {
			res.Boards = append(res.Boards, b)
		}
	}
	return res, nil
}

// SeedBoard gives a new board under p the project's member set plus the
// creator. The creator, who becomes the owner, is always added first.
func SeedBoard(b *board.Board, p *project.Project) {
	b.Members.Add(b.Owner)
	for _, m := range p.Members {
		b.Members.Add(m)
	}
}

func underProject(p *project.Project, boards []*board.Board) []*board.Board {
	out := make([]*board.Board, 0, len(boards))
	for _, b := range boards {
		if b.ProjectID != nil && *b.ProjectID == p.ID {
			out = append(out, b)
		}
	}
	return out
}
