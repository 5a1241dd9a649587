// Package board holds the Board aggregate root and its columns. A board owns
// its columns exclusively, and each column owns its cards; every column and
// card mutation goes through the board that contains it.
package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/card"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// Board is a named set of columns governed by an owner and a member set.
// ProjectID is nil for standalone boards.
type Board struct {
	ID          int64
	Name        string
	Description string
	IsPublic    bool
	Owner       user.User
	ProjectID   *int64
	Members     user.Members
	Columns     []Column
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Column is an ordered lane of cards on a board.
type Column struct {
	ID        int64
	BoardID   int64
	Name      string
	Position  int
	Cards     []card.Card
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID returns the ID of the board owner.
func (b *Board) OwnerID() int64 { return b.Owner.ID }

// HasMember reports whether the user is a member of the board.
func (b *Board) HasMember(userID int64) bool { return b.Members.Contains(userID) }

// Resource names the board in error messages.
func (b *Board) Resource() (string, int64) { return "board", b.ID }

// Validate checks business rules for the Board entity, including that the
// owner is a member.
func (b *Board) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(b.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if b.Owner.ID == 0 {
		fields["owner"] = domain.MsgRequired
	} else if !b.Members.Contains(b.Owner.ID) {
		fields["members"] = fmt.Sprintf("must contain owner %d", b.Owner.ID)
	}
	if b.ProjectID != nil && *b.ProjectID <= 0 {
		fields["project_id"] = fmt.Sprintf("must be positive, got %d", *b.ProjectID)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Column returns the column with the given ID, or nil.
func (b *Board) Column(id int64) *Column {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return &b.Columns[i]
		}
	}
	return nil
}

// FindCard returns the card with the given ID and the column holding it.
// Both are nil when the card is not on this board.
func (b *Board) FindCard(id int64) (*Column, *card.Card) {
	for i := range b.Columns {
		col := &b.Columns[i]
		for j := range col.Cards {
			if col.Cards[j].ID == id {
				return col, &col.Cards[j]
			}
		}
	}
	return nil, nil
}

// RemoveColumn detaches the column and its cards from the board and returns
// it. The second result is false if no such column exists.
func (b *Board) RemoveColumn(id int64) (Column, bool) {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			col := b.Columns[i]
			b.Columns = append(b.Columns[:i], b.Columns[i+1:]...)
			col.Cascade()
			return col, true
		}
	}
	return Column{}, false
}

// Cascade clears every column, card and card child owned by the board.
func (b *Board) Cascade() {
	for i := range b.Columns {
		b.Columns[i].Cascade()
	}
	b.Columns = nil
}

// Validate checks business rules for the Column entity.
func (c *Column) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(c.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if c.Position < 0 {
		fields["position"] = fmt.Sprintf("must not be negative, got %d", c.Position)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// RemoveCard detaches the card from the column and returns it unchanged, so
// a move can re-insert it elsewhere. The second result is false if no such
// card exists.
func (c *Column) RemoveCard(id int64) (card.Card, bool) {
	for i := range c.Cards {
		if c.Cards[i].ID == id {
			cd := c.Cards[i]
			c.Cards = append(c.Cards[:i], c.Cards[i+1:]...)
			return cd, true
		}
	}
	return card.Card{}, false
}

// Cascade clears every card in the column along with their children.
func (c *Column) Cascade() {
	for i := range c.Cards {
		c.Cards[i].ClearChildren()
	}
	c.Cards = nil
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := *b
	if b.ProjectID != nil {
		id := *b.ProjectID
		out.ProjectID = &id
	}
	out.Members = b.Members.Clone()
	if b.Columns != nil {
		out.Columns = make([]Column, len(b.Columns))
		for i := range b.Columns {
			out.Columns[i] = b.Columns[i].Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() Column {
	out := *c
	if c.Cards != nil {
		out.Cards = make([]card.Card, len(c.Cards))
		for i := range c.Cards {
			out.Cards[i] = c.Cards[i].Clone()
		}
	}
	return out
}
