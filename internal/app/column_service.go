package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/position"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// Compile-time check that ColumnService implements ports.ColumnService.
var _ ports.ColumnService = (*ColumnService)(nil)

// ColumnService implements ports.ColumnService. Columns are mutated through
// the board that owns them.
type ColumnService struct {
	store  ports.Store
	logger *slog.Logger
}

// NewColumnService creates a ColumnService.
func NewColumnService(store ports.Store, logger *slog.Logger) *ColumnService {
	return &ColumnService{store: store, logger: orDiscard(logger)}
}

// CreateColumn adds a column to a board. Without an explicit position the
// column is appended.
func (s *ColumnService) CreateColumn(ctx context.Context, boardID int64, actor *user.User, name string, pos *int) (*board.Column, error) {
	s.logger.InfoContext(ctx, "creating column",
		slog.Int64("board_id", boardID),
		slog.String("name", name),
	)

	var saved *board.Board
	err := mutateAsMember(ctx, s.store, actor, s.loadBoard(ctx, boardID), func(b *board.Board) error {
		col := board.Column{
			Name:     name,
			Position: position.Resolve(pos, position.NextColumn(b.Columns)),
		}
		if err := col.Validate(); err != nil {
			return err
		}
		b.Columns = append(b.Columns, col)
		saved = b
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create column",
			slog.String("operation", "CreateColumn"),
			slog.Int64("board_id", boardID),
			slog.Any("error", err),
		)
		return nil, err
	}

	// SaveBoard assigned the new column's ID in place.
	out := saved.Columns[len(saved.Columns)-1]
	return &out, nil
}

// UpdateColumn renames or repositions a column. A supplied position is
// written verbatim.
func (s *ColumnService) UpdateColumn(ctx context.Context, boardID, columnID int64, actor *user.User, upd ports.ColumnUpdate) (*board.Column, error) {
	s.logger.InfoContext(ctx, "updating column",
		slog.Int64("board_id", boardID),
		slog.Int64("column_id", columnID),
	)

	var updated *board.Column
	err := mutateAsMember(ctx, s.store, actor, s.loadBoard(ctx, boardID), func(b *board.Board) error {
		col := b.Column(columnID)
		if col == nil {
			return domain.NotFoundError("column", columnID)
		}
		if upd.Name != nil {
			col.Name = *upd.Name
		}
		if upd.Position != nil {
			col.Position = *upd.Position
		}
		if err := col.Validate(); err != nil {
			return err
		}
		updated = col
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update column",
			slog.String("operation", "UpdateColumn"),
			slog.Int64("board_id", boardID),
			slog.Int64("column_id", columnID),
			slog.Any("error", err),
		)
		return nil, err
	}
	out := *updated
	return &out, nil
}

// DeleteColumn deletes a column and every card in it.
func (s *ColumnService) DeleteColumn(ctx context.Context, boardID, columnID int64, actor *user.User) error {
	s.logger.InfoContext(ctx, "deleting column",
		slog.Int64("board_id", boardID),
		slog.Int64("column_id", columnID),
	)

	err := mutateAsMember(ctx, s.store, actor, s.loadBoard(ctx, boardID), func(b *board.Board) error {
		if _, ok := b.RemoveColumn(columnID); !ok {
			return domain.NotFoundError("column", columnID)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete column",
			slog.String("operation", "DeleteColumn"),
			slog.Int64("board_id", boardID),
			slog.Int64("column_id", columnID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func (s *ColumnService) loadBoard(ctx context.Context, id int64) func(ports.Repository) (*board.Board, error) {
	return func(repo ports.Repository) (*board.Board, error) {
		return repo.FindBoardByID(ctx, id)
	}
}
