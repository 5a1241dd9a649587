// Package card holds the Card entity and the children it exclusively owns:
// comments, attachments and checklist items.
package card

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
)

// Card is a unit of work placed in a column.
type Card struct {
	ID             int64
	ColumnID       int64
	Title          string
	Name           string
	Description    string
	Position       int
	IsActive       bool
	DueDate        *time.Time
	Comments       []Comment
	Attachments    []Attachment
	ChecklistItems []ChecklistItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Comment is a note left on a card by a user.
type Comment struct {
	ID        int64
	CardID    int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
}

// Attachment references a file stored outside the service.
type Attachment struct {
	ID        int64
	CardID    int64
	Filename  string
	Location  string
	CreatedAt time.Time
}

// ChecklistItem is a checkable sub-task of a card.
type ChecklistItem struct {
	ID        int64
	CardID    int64
	Name      string
	Checked   bool
	Position  int
	CreatedAt time.Time
}

// Validate checks business rules for the Card entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (c *Card) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(c.Title) == "" {
		fields["title"] = domain.MsgRequired
	}
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

// ChecklistItem returns the checklist item with the given ID, or nil.
func (c *Card) ChecklistItem(id int64) *ChecklistItem {
	for i := range c.ChecklistItems {
		if c.ChecklistItems[i].ID == id {
			return &c.ChecklistItems[i]
		}
	}
	return nil
}

// ClearChildren drops every comment, attachment and checklist item.
// Called before a card is deleted so nothing it owns outlives it.
func (c *Card) ClearChildren() {
	c.Comments = nil
	c.Attachments = nil
	c.ChecklistItems = nil
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() Card {
	out := *c
	if c.DueDate != nil {
		d := *c.DueDate
		out.DueDate = &d
	}
	out.Comments = cloneSlice(c.Comments)
	out.Attachments = cloneSlice(c.Attachments)
	out.ChecklistItems = cloneSlice(c.ChecklistItems)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
