// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
//
// Every mutation runs as one ports.Store unit of work: load the aggregate
// root, check access, apply the change, validate, save.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	appctx "github.com/jsamuelsen11/taskboard-service/internal/app/context"
	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/access"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// requireActor rejects anonymous callers on operations that need an identity
// but no aggregate membership (create, list).
func requireActor(actor *user.User) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor", domain.ErrUnauthenticated)
	}
	return nil
}

func boardKey(id int64) string {
	return "board:" + strconv.FormatInt(id, 10)
}

// boardProvider memoizes an already-loaded board under its ID so a second
// lookup of the same board in the scope returns the same instance.
func boardProvider(b *board.Board) *appctx.DataProvider[*board.Board] {
	return appctx.NewDataProvider(boardKey(b.ID), func(context.Context) (*board.Board, error) {
		return b, nil
	})
}

// saveDirtyBoards saves every board marked dirty in the scope.
func saveDirtyBoards(sc *appctx.Scope, repo ports.Repository) error {
	for _, b := range appctx.Dirty[*board.Board](sc) {
		if err := repo.SaveBoard(sc, b); err != nil {
			return fmt.Errorf("saving board %d: %w", b.ID, err)
		}
	}
	return nil
}

// mutateAsMember loads a board with load, checks that the actor is a member,
// applies fn and saves the board, all in one unit of work.
func mutateAsMember(
	ctx context.Context,
	store ports.Store,
	actor *user.User,
	load func(repo ports.Repository) (*board.Board, error),
	fn func(b *board.Board) error,
) error {
	return store.Atomically(ctx, func(repo ports.Repository) error {
		b, err := load(repo)
		if err != nil {
			return err
		}
		if err := access.RequireMember(actor, b); err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
		return repo.SaveBoard(ctx, b)
	})
}

func validationFailure(field, msg string) error {
	return &domain.ValidationError{Fields: map[string]string{field: msg}}
}
