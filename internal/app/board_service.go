package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/access"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/membership"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/position"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// Compile-time check that BoardService implements ports.BoardService.
var _ ports.BoardService = (*BoardService)(nil)

// BoardService implements ports.BoardService.
type BoardService struct {
	store  ports.Store
	logger *slog.Logger
}

// NewBoardService creates a BoardService.
func NewBoardService(store ports.Store, logger *slog.Logger) *BoardService {
	return &BoardService{store: store, logger: orDiscard(logger)}
}

// CreateBoard creates a board owned by the actor. A board created under a
// project inherits the project's members.
func (s *BoardService) CreateBoard(ctx context.Context, actor *user.User, draft ports.BoardDraft) (*board.Board, error) {
	s.logger.InfoContext(ctx, "creating board", slog.String("name", draft.Name))

	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var created *board.Board
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		// Built per attempt: a rerun unit must not see the id of a rolled-back save.
		b := &board.Board{
			Name:        draft.Name,
			Description: draft.Description,
			IsPublic:    draft.IsPublic,
			Owner:       *actor,
			ProjectID:   draft.ProjectID,
		}
		if b.ProjectID == nil {
			b.Members.Add(*actor)
		} else {
			p, err := repo.FindProjectByID(ctx, *b.ProjectID)
			if err != nil {
				return err
			}
			if err := access.RequireMember(actor, p); err != nil {
				return err
			}
			membership.SeedBoard(b, p)
		}

		if err := b.Validate(); err != nil {
			return err
		}
		if err := repo.SaveBoard(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create board",
			slog.String("operation", "CreateBoard"),
			slog.Int64("actor_id", actor.ID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return created, nil
}

// GetBoard returns a board ordered for presentation. Public boards skip the
// membership check.
func (s *BoardService) GetBoard(ctx context.Context, id int64, actor *user.User) (*board.Board, error) {
	s.logger.InfoContext(ctx, "fetching board", slog.Int64("id", id))

	b, err := s.store.FindBoardByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch board",
			slog.String("operation", "GetBoard"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	if err := access.RequireReadable(actor, b); err != nil {
		return nil, err
	}
	position.SortBoard(b)
	return b, nil
}

// ListBoards returns every board the actor is a member of.
func (s *BoardService) ListBoards(ctx context.Context, actor *user.User) ([]*board.Board, error) {
	s.logger.InfoContext(ctx, "listing boards")

	if err := requireActor(actor); err != nil {
		return nil, err
	}

	boards, err := s.store.FindBoardsByMemberID(ctx, actor.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list boards",
			slog.String("operation", "ListBoards"),
			slog.Int64("actor_id", actor.ID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return boards, nil
}

// ListPublicBoards returns every public board to an authenticated actor.
func (s *BoardService) ListPublicBoards(ctx context.Context, actor *user.User) ([]*board.Board, error) {
	s.logger.InfoContext(ctx, "listing public boards")

	if err := requireActor(actor); err != nil {
		return nil, err
	}

	all, err := s.store.FindAllBoards(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list public boards",
			slog.String("operation", "ListPublicBoards"),
			slog.Any("error", err),
		)
		return nil, err
	}

	public := make([]*board.Board, 0, len(all))
	for _, b := range all {
		if b.IsPublic {
			public = append(public, b)
		}
	}
	return public, nil
}

// UpdateBoard applies the non-nil fields of upd. Owner only.
func (s *BoardService) UpdateBoard(ctx context.Context, id int64, actor *user.User, upd ports.BoardUpdate) (*board.Board, error) {
	s.logger.InfoContext(ctx, "updating board", slog.Int64("id", id))

	b, err := s.mutateAsOwner(ctx, id, actor, func(_ ports.Repository, b *board.Board) (bool, error) {
		if upd.Name != nil {
			b.Name = *upd.Name
		}
		if upd.Description != nil {
			b.Description = *upd.Description
		}
		if upd.IsPublic != nil {
			b.IsPublic = *upd.IsPublic
		}
		return true, b.Validate()
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update board",
			slog.String("operation", "UpdateBoard"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}
	return b, nil
}

// DeleteBoard deletes a board and everything it contains. Owner only.
func (s *BoardService) DeleteBoard(ctx context.Context, id int64, actor *user.User) error {
	s.logger.InfoContext(ctx, "deleting board", slog.Int64("id", id))

	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		b, err := repo.FindBoardByID(ctx, id)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actor, b); err != nil {
			return err
		}
		b.Cascade()
		return repo.DeleteBoard(ctx, id)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete board",
			slog.String("operation", "DeleteBoard"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// AddMember adds a user to the board. Owner only.
func (s *BoardService) AddMember(ctx context.Context, id int64, actor *user.User, userID int64) (*board.Board, error) {
	s.logger.InfoContext(ctx, "adding board member",
		slog.Int64("id", id),
		slog.Int64("user_id", userID),
	)

	b, err := s.mutateAsOwner(ctx, id, actor, func(repo ports.Repository, b *board.Board) (bool, error) {
		u, err := repo.FindUserByID(ctx, userID)
		if err != nil {
			return false, err
		}
		return b.Members.Add(*u), nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to add board member",
			slog.String("operation", "AddMember"),
			slog.Int64("id", id),
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return b, nil
}

// RemoveMember removes a user from the board. Owner only; the owner cannot
// be removed.
func (s *BoardService) RemoveMember(ctx context.Context, id int64, actor *user.User, userID int64) (*board.Board, error) {
	s.logger.InfoContext(ctx, "removing board member",
		slog.Int64("id", id),
		slog.Int64("user_id", userID),
	)

	b, err := s.mutateAsOwner(ctx, id, actor, func(repo ports.Repository, b *board.Board) (bool, error) {
		if userID == b.OwnerID() {
			return false, fmt.Errorf("board %d: %w: user %d is the owner and cannot be removed",
				b.ID, domain.ErrConflict, userID)
		}
		if _, err := repo.FindUserByID(ctx, userID); err != nil {
			return false, err
		}
		return b.Members.Remove(userID), nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to remove board member",
			slog.String("operation", "RemoveMember"),
			slog.Int64("id", id),
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return b, nil
}

// mutateAsOwner loads a board, checks ownership, applies fn and saves the
// board when fn reports a change.
func (s *BoardService) mutateAsOwner(
	ctx context.Context,
	id int64,
	actor *user.User,
	fn func(repo ports.Repository, b *board.Board) (bool, error),
) (*board.Board, error) {
	var out *board.Board
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		b, err := repo.FindBoardByID(ctx, id)
		if err != nil {
			return err
		}
		if err := access.RequireOwner(actor, b); err != nil {
			return err
		}
		changed, err := fn(repo, b)
		if err != nil {
			return err
		}
		out = b
		if !changed {
			return nil
		}
		return repo.SaveBoard(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	position.SortBoard(out)
	return out, nil
}
