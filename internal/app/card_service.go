package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	appctx "github.com/jsamuelsen11/taskboard-service/internal/app/context"
	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/access"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/card"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/position"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// Compile-time check that CardService implements ports.CardService.
var _ ports.CardService = (*CardService)(nil)

// CardService implements ports.CardService. Cards are mutated through the
// board that holds them.
type CardService struct {
	store  ports.Store
	logger *slog.Logger
}

// NewCardService creates a CardService.
func NewCardService(store ports.Store, logger *slog.Logger) *CardService {
	return &CardService{store: store, logger: orDiscard(logger)}
}

// CreateCard appends an active card to a column. An empty name defaults to
// the title.
func (s *CardService) CreateCard(ctx context.Context, columnID int64, actor *user.User, draft ports.CardDraft) (*card.Card, error) {
	s.logger.InfoContext(ctx, "creating card",
		slog.Int64("column_id", columnID),
		slog.String("title", draft.Title),
	)

	name := draft.Name
	if strings.TrimSpace(name) == "" {
		name = draft.Title
	}

	var created *card.Card
	load := func(repo ports.Repository) (*board.Board, error) {
		return repo.FindBoardByColumnID(ctx, columnID)
	}
	err := mutateAsMember(ctx, s.store, actor, load, func(b *board.Board) error {
		col := b.Column(columnID)
		c := card.Card{
			Title:       draft.Title,
			Name:        name,
			Description: draft.Description,
			DueDate:     draft.DueDate,
			IsActive:    true,
			Position:    position.NextCard(col.Cards),
		}
		if err := c.Validate(); err != nil {
			return err
		}
		col.Cards = append(col.Cards, c)
		created = &col.Cards[len(col.Cards)-1]
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create card",
			slog.String("operation", "CreateCard"),
			slog.Int64("column_id", columnID),
			slog.Any("error", err),
		)
		return nil, err
	}

	out := created.Clone()
	return &out, nil
}

// UpdateCard applies the non-nil fields of upd.
func (s *CardService) UpdateCard(ctx context.Context, cardID int64, actor *user.User, upd ports.CardUpdate) (*card.Card, error) {
	s.logger.InfoContext(ctx, "updating card", slog.Int64("card_id", cardID))

	var updated *card.Card
	err := s.mutateCard(ctx, cardID, actor, func(_ *board.Column, c *card.Card) error {
		if upd.Title != nil {
			c.Title = *upd.Title
		}
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Description != nil {
			c.Description = *upd.Description
		}
		if upd.DueDate != nil {
			due := *upd.DueDate
			c.DueDate = &due
		}
		updated = c
		return c.Validate()
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update card",
			slog.String("operation", "UpdateCard"),
			slog.Int64("card_id", cardID),
			slog.Any("error", err),
		)
		return nil, err
	}

	out := updated.Clone()
	return &out, nil
}

// DeleteCard deletes a card with its comments, attachments and checklist.
func (s *CardService) DeleteCard(ctx context.Context, cardID int64, actor *user.User) error {
	s.logger.InfoContext(ctx, "deleting card", slog.Int64("card_id", cardID))

	err := s.mutateCard(ctx, cardID, actor, func(col *board.Column, _ *card.Card) error {
		removed, _ := col.RemoveCard(cardID)
		removed.ClearChildren()
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete card",
			slog.String("operation", "DeleteCard"),
			slog.Int64("card_id", cardID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// MoveCard moves a card into another column, which may belong to another
// board. The actor must be a member of both boards. The card keeps its
// children and takes the given position, or 0 when none is given.
func (s *CardService) MoveCard(ctx context.Context, cardID int64, actor *user.User, toColumnID int64, pos *int) (*card.Card, error) {
	s.logger.InfoContext(ctx, "moving card",
		slog.Int64("card_id", cardID),
		slog.Int64("to_column_id", toColumnID),
	)

	if pos != nil && *pos < 0 {
		return nil, validationFailure("position", fmt.Sprintf("must not be negative, got %d", *pos))
	}

	var moved *card.Card
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		sc := appctx.New(ctx)

		found, err := repo.FindBoardByCardID(ctx, cardID)
		if err != nil {
			return err
		}
		src, err := boardProvider(found).Get(sc)
		if err != nil {
			return err
		}
		if err := access.RequireMember(actor, src); err != nil {
			return err
		}

		found, err = repo.FindBoardByColumnID(ctx, toColumnID)
		if err != nil {
			return err
		}
		// Same board: the provider returns src, so both sides edit one value.
		dst, err := boardProvider(found).Get(sc)
		if err != nil {
			return err
		}
		if err := access.RequireMember(actor, dst); err != nil {
			return err
		}

		srcCol, _ := src.FindCard(cardID)
		c, _ := srcCol.RemoveCard(cardID)
		c.Position = position.Resolve(pos, 0)

		dstCol := dst.Column(toColumnID)
		c.ColumnID = dstCol.ID
		dstCol.Cards = append(dstCol.Cards, c)
		moved = &dstCol.Cards[len(dstCol.Cards)-1]

		sc.MarkDirty(boardKey(src.ID))
		sc.MarkDirty(boardKey(dst.ID))
		return saveDirtyBoards(sc, repo)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to move card",
			slog.String("operation", "MoveCard"),
			slog.Int64("card_id", cardID),
			slog.Int64("to_column_id", toColumnID),
			slog.Any("error", err),
		)
		return nil, err
	}

	out := moved.Clone()
	return &out, nil
}

// AddComment records a comment by the actor on a card.
func (s *CardService) AddComment(ctx context.Context, cardID int64, actor *user.User, body string) (*card.Comment, error) {
	s.logger.InfoContext(ctx, "adding comment", slog.Int64("card_id", cardID))

	if strings.TrimSpace(body) == "" {
		return nil, validationFailure("body", domain.MsgRequired)
	}

	var added *card.Comment
	err := s.mutateCard(ctx, cardID, actor, func(_ *board.Column, c *card.Card) error {
		c.Comments = append(c.Comments, card.Comment{AuthorID: actor.ID, Body: body})
		added = &c.Comments[len(c.Comments)-1]
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to add comment",
			slog.String("operation", "AddComment"),
			slog.Int64("card_id", cardID),
			slog.Any("error", err),
		)
		return nil, err
	}

	out := *added
	return &out, nil
}

// AddAttachment records a file reference on a card.
func (s *CardService) AddAttachment(ctx context.Context, cardID int64, actor *user.User, filename, location string) (*card.Attachment, error) {
	s.logger.InfoContext(ctx, "adding attachment",
		slog.Int64("card_id", cardID),
		slog.String("filename", filename),
	)

	fields := make(map[string]string)
	if strings.TrimSpace(filename) == "" {
		fields["filename"] = domain.MsgRequired
	}
	if strings.TrimSpace(location) == "" {
		fields["location"] = domain.MsgRequired
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	var added *card.Attachment
	err := s.mutateCard(ctx, cardID, actor, func(_ *board.Column, c *card.Card) error {
		c.Attachments = append(c.Attachments, card.Attachment{Filename: filename, Location: location})
		added = &c.Attachments[len(c.Attachments)-1]
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to add attachment",
			slog.String("operation", "AddAttachment"),
			slog.Int64("card_id", cardID),
			slog.Any("error", err),
		)
		return nil, err
	}

	out := *added
	return &out, nil
}

// AddChecklistItem appends an unchecked item to a card's checklist.
func (s *CardService) AddChecklistItem(ctx context.Context, cardID int64, actor *user.User, name string) (*card.ChecklistItem, error) {
	s.logger.InfoContext(ctx, "adding checklist item", slog.Int64("card_id", cardID))

	if strings.TrimSpace(name) == "" {
		return nil, validationFailure("name", domain.MsgRequired)
	}

	var added *card.ChecklistItem
	err := s.mutateCard(ctx, cardID, actor, func(_ *board.Column, c *card.Card) error {
		c.ChecklistItems = append(c.ChecklistItems, card.ChecklistItem{
			Name:     name,
			Position: position.NextChecklistItem(c.ChecklistItems),
		})
		added = &c.ChecklistItems[len(c.ChecklistItems)-1]
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to add checklist item",
			slog.String("operation", "AddChecklistItem"),
			slog.Int64("card_id", cardID),
			slog.Any("error", err),
		)
		return nil, err
	}

	out := *added
	return &out, nil
}

// SetChecklistItemChecked checks or unchecks a checklist item.
func (s *CardService) SetChecklistItemChecked(ctx context.Context, cardID, itemID int64, actor *user.User, checked bool) (*card.ChecklistItem, error) {
	s.logger.InfoContext(ctx, "updating checklist item",
		slog.Int64("card_id", cardID),
		slog.Int64("item_id", itemID),
		slog.Bool("checked", checked),
	)

	var updated *card.ChecklistItem
	err := s.mutateCard(ctx, cardID, actor, func(_ *board.Column, c *card.Card) error {
		item := c.ChecklistItem(itemID)
		if item == nil {
			return domain.NotFoundError("checklist item", itemID)
		}
		item.Checked = checked
		updated = item
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update checklist item",
			slog.String("operation", "SetChecklistItemChecked"),
			slog.Int64("card_id", cardID),
			slog.Int64("item_id", itemID),
			slog.Any("error", err),
		)
		return nil, err
	}

	out := *updated
	return &out, nil
}

// mutateCard loads the board holding the card and applies fn to the card
// and its column as a board member.
func (s *CardService) mutateCard(ctx context.Context, cardID int64, actor *user.User, fn func(col *board.Column, c *card.Card) error) error {
	load := func(repo ports.Repository) (*board.Board, error) {
		return repo.FindBoardByCardID(ctx, cardID)
	}
	return mutateAsMember(ctx, s.store, actor, load, func(b *board.Board) error {
		col, c := b.FindCard(cardID)
		return fn(col, c)
	})
}
