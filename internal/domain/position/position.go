// Package position assigns ordinal positions to columns, cards and checklist
// items. Appends never reuse a position; explicit positions are written
// verbatim and siblings are never renumbered.
package position

import (
	"cmp"
	"slices"

	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/card"
)

// NextCard returns max(sibling positions)+1, or 1 for an empty column.
func NextCard(siblings []card.Card) int {
	highest := 0
	for i := range siblings {
		highest = max(highest, siblings[i].Position)
	}
	return highest + 1
}

// NextChecklistItem applies the card append policy to checklist items.
func NextChecklistItem(siblings []card.ChecklistItem) int {
	highest := 0
	for i := range siblings {
		highest = max(highest, siblings[i].Position)
	}
	return highest + 1
}

// NextColumn returns the zero-based append position for a new column.
func NextColumn(siblings []board.Column) int {
	return len(siblings)
}

// Resolve returns the explicit position when one is given, else fallback.
func Resolve(explicit *int, fallback int) int {
	if explicit != nil {
		return *explicit
	}
	return fallback
}

// SortColumns orders columns by (position, id) in place.
func SortColumns(cols []board.Column) {
	slices.SortStableFunc(cols, func(a, b board.Column) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
}

// SortCards orders cards by (position, id) in place.
func SortCards(cards []card.Card) {
	slices.SortStableFunc(cards, func(a, b card.Card) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
}

// SortBoard orders the board's columns and each column's cards for presentation.
func SortBoard(b *board.Board) {
	SortColumns(b.Columns)
	for i := range b.Columns {
		SortCards(b.Columns[i].Cards)
		items := b.Columns[i].Cards
		for j := range items {
			slices.SortStableFunc(items[j].ChecklistItems, func(x, y card.ChecklistItem) int {
				return cmp.Or(cmp.Compare(x.Position, y.Position), cmp.Compare(x.ID, y.ID))
			})
		}
	}
}
