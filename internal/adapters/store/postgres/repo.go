package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/card"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// repo is the ports.Repository view of one transaction.
type repo struct {
	tx *gorm.DB
}

func (r *repo) db(ctx context.Context) *gorm.DB {
	return r.tx.WithContext(ctx)
}

// write omits associations so GORM never upserts referenced rows.
func write(db *gorm.DB) *gorm.DB {
	return db.Omit(clause.Associations)
}

// upsert inserts a new row or saves an existing one. Save inserts when the
// update touches no row, which re-creates a card whose old row was removed
// by a cascade earlier in the same transaction.
func upsert[T any](db *gorm.DB, row *T, isNew bool) error {
	if isNew {
		return write(db).Create(row).Error
	}
	return write(db).Save(row).Error
}

func (r *repo) FindUserByID(ctx context.Context, id int64) (*user.User, error) {
	var row userRow
	if err := r.db(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	u := row.toDomain()
	return &u, nil
}

func (r *repo) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	var row userRow
	err := r.db(ctx).Where("LOWER(email) = LOWER(?)", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user with email %q: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u := row.toDomain()
	return &u, nil
}

func (r *repo) SaveUser(ctx context.Context, u *user.User) error {
	db := r.db(ctx)
	if u.ID != 0 {
		if err := db.Select("id").First(&userRow{}, u.ID).Error; err != nil {
			return notFound(err, "user", u.ID)
		}
	}

	row := userFromDomain(u)
	if err := upsert(db, &row, u.ID == 0); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email %q: %w: already registered", u.Email, domain.ErrConflict)
		}
		return err
	}
	u.ID, u.CreatedAt, u.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *repo) FindProjectByID(ctx context.Context, id int64) (*project.Project, error) {
	var row projectRow
	if err := r.db(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err, "project", id)
	}
	return r.loadProject(ctx, row)
}

func (r *repo) FindProjectsByMemberID(ctx context.Context, userID int64) ([]*project.Project, error) {
	var rows []projectRow
	err := r.db(ctx).
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("pm.user_id = ?", userID).
		Order("projects.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*project.Project, 0, len(rows))
	for _, row := range rows {
		p, err := r.loadProject(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *repo) SaveProject(ctx context.Context, p *project.Project) error {
	db := r.db(ctx)
	if p.ID != 0 {
		if err := db.Select("id").First(&projectRow{}, p.ID).Error; err != nil {
			return notFound(err, "project", p.ID)
		}
	}

	row := projectFromDomain(p)
	if err := upsert(db, &row, p.ID == 0); err != nil {
		return err
	}
	p.ID, p.CreatedAt, p.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt

	if err := db.Where("project_id = ?", p.ID).Delete(&projectMemberRow{}).Error; err != nil {
		return err
	}
	if len(p.Members) == 0 {
		return nil
	}
	members := make([]projectMemberRow, len(p.Members))
	for i, m := range p.Members {
		members[i] = projectMemberRow{ProjectID: p.ID, UserID: m.ID, Ordinal: i}
	}
	return write(db).Create(&members).Error
}

// DeleteProject removes the project row. Member rows cascade and boards are
// detached by the ON DELETE SET NULL foreign key.
func (r *repo) DeleteProject(ctx context.Context, id int64) error {
	res := r.db(ctx).Delete(&projectRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError("project", id)
	}
	return nil
}

func (r *repo) FindBoardByID(ctx context.Context, id int64) (*board.Board, error) {
	var row boardRow
	if err := r.db(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err, "board", id)
	}
	return r.loadBoard(ctx, row)
}

func (r *repo) FindBoardByColumnID(ctx context.Context, columnID int64) (*board.Board, error) {
	var col columnRow
	if err := r.db(ctx).Select("id", "board_id").First(&col, columnID).Error; err != nil {
		return nil, notFound(err, "column", columnID)
	}
	return r.FindBoardByID(ctx, col.BoardID)
}

func (r *repo) FindBoardByCardID(ctx context.Context, cardID int64) (*board.Board, error) {
	var boardIDs []int64
	err := r.db(ctx).Model(&cardRow{}).
		Joins("JOIN board_columns bc ON bc.id = cards.column_id").
		Where("cards.id = ?", cardID).
		Pluck("bc.board_id", &boardIDs).Error
	if err != nil {
		return nil, err
	}
	if len(boardIDs) == 0 {
		return nil, domain.NotFoundError("card", cardID)
	}
	return r.FindBoardByID(ctx, boardIDs[0])
}

func (r *repo) FindBoardsByMemberID(ctx context.Context, userID int64) ([]*board.Board, error) {
	return r.findBoards(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN board_members bm ON bm.board_id = boards.id").Where("bm.user_id = ?", userID)
	})
}

func (r *repo) FindBoardsByProjectID(ctx context.Context, projectID int64) ([]*board.Board, error) {
	return r.findBoards(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("boards.project_id = ?", projectID)
	})
}

func (r *repo) FindAllBoards(ctx context.Context) ([]*board.Board, error) {
	return r.findBoards(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

// SaveBoard writes the whole aggregate inside a savepoint: the board row,
// its member set, and every column, card and card child. Rows that are no
// longer part of the aggregate are deleted.
func (r *repo) SaveBoard(ctx context.Context, b *board.Board) error {
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveBoardRow(tx, b); err != nil {
			return err
		}
		if err := saveBoardMembers(tx, b); err != nil {
			return err
		}
		return saveColumns(tx, b)
	})
}

func (r *repo) DeleteBoard(ctx context.Context, id int64) error {
	res := r.db(ctx).Delete(&boardRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError("board", id)
	}
	return nil
}

func saveBoardRow(tx *gorm.DB, b *board.Board) error {
	if b.ID != 0 {
		if err := tx.Select("id").First(&boardRow{}, b.ID).Error; err != nil {
			return notFound(err, "board", b.ID)
		}
	}

	row := boardFromDomain(b)
	if err := upsert(tx, &row, b.ID == 0); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) && b.ProjectID != nil {
			return domain.NotFoundError("project", *b.ProjectID)
		}
		return err
	}
	b.ID, b.CreatedAt, b.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func saveBoardMembers(tx *gorm.DB, b *board.Board) error {
	if err := tx.Where("board_id = ?", b.ID).Delete(&boardMemberRow{}).Error; err != nil {
		return err
	}
	if len(b.Members) == 0 {
		return nil
	}
	rows := make([]boardMemberRow, len(b.Members))
	for i, m := range b.Members {
		rows[i] = boardMemberRow{BoardID: b.ID, UserID: m.ID, Ordinal: i}
	}
	return write(tx).Create(&rows).Error
}

func saveColumns(tx *gorm.DB, b *board.Board) error {
	keep := make([]int64, 0, len(b.Columns))
	for i := range b.Columns {
		col := &b.Columns[i]
		col.BoardID = b.ID

		row := columnFromDomain(col)
		if err := upsert(tx, &row, col.ID == 0); err != nil {
			return err
		}
		col.ID, col.CreatedAt, col.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
		keep = append(keep, col.ID)
	}
	if err := deleteMissing(tx, &columnRow{}, "board_id", b.ID, keep); err != nil {
		return err
	}

	for i := range b.Columns {
		if err := saveCards(tx, &b.Columns[i]); err != nil {
			return err
		}
	}
	return nil
}

func saveCards(tx *gorm.DB, col *board.Column) error {
	keep := make([]int64, 0, len(col.Cards))
	for i := range col.Cards {
		c := &col.Cards[i]
		c.ColumnID = col.ID

		row := cardFromDomain(c)
		if err := upsert(tx, &row, c.ID == 0); err != nil {
			return err
		}
		c.ID, c.CreatedAt, c.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
		keep = append(keep, c.ID)

		if err := saveCardChildren(tx, c); err != nil {
			return err
		}
	}
	return deleteMissing(tx, &cardRow{}, "column_id", col.ID, keep)
}

func saveCardChildren(tx *gorm.DB, c *card.Card) error {
	keep := make([]int64, 0, len(c.Comments))
	for i := range c.Comments {
		cm := &c.Comments[i]
		cm.CardID = c.ID
		row := commentRow{ID: cm.ID, CardID: c.ID, AuthorID: cm.AuthorID, Body: cm.Body, CreatedAt: cm.CreatedAt}
		if err := upsert(tx, &row, cm.ID == 0); err != nil {
			return err
		}
		cm.ID, cm.CreatedAt = row.ID, row.CreatedAt
		keep = append(keep, cm.ID)
	}
	if err := deleteMissing(tx, &commentRow{}, "card_id", c.ID, keep); err != nil {
		return err
	}

	keep = keep[:0]
	for i := range c.Attachments {
		a := &c.Attachments[i]
		a.CardID = c.ID
		row := attachmentRow{ID: a.ID, CardID: c.ID, Filename: a.Filename, Location: a.Location, CreatedAt: a.CreatedAt}
		if err := upsert(tx, &row, a.ID == 0); err != nil {
			return err
		}
		a.ID, a.CreatedAt = row.ID, row.CreatedAt
		keep = append(keep, a.ID)
	}
	if err := deleteMissing(tx, &attachmentRow{}, "card_id", c.ID, keep); err != nil {
		return err
	}

	keep = keep[:0]
	for i := range c.ChecklistItems {
		item := &c.ChecklistItems[i]
		item.CardID = c.ID
		row := checklistItemRow{
			ID:        item.ID,
			CardID:    c.ID,
			Name:      item.Name,
			Checked:   item.Checked,
			Position:  item.Position,
			CreatedAt: item.CreatedAt,
		}
		if err := upsert(tx, &row, item.ID == 0); err != nil {
			return err
		}
		item.ID, item.CreatedAt = row.ID, row.CreatedAt
		keep = append(keep, item.ID)
	}
	return deleteMissing(tx, &checklistItemRow{}, "card_id", c.ID, keep)
}

// deleteMissing deletes the rows under parentID whose IDs are not in keep.
func deleteMissing(tx *gorm.DB, model any, parentColumn string, parentID int64, keep []int64) error {
	q := tx.Where(parentColumn+" = ?", parentID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Delete(model).Error
}

func (r *repo) findBoards(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*board.Board, error) {
	var rows []boardRow
	if err := scope(r.db(ctx)).Order("boards.id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*board.Board, 0, len(rows))
	for _, row := range rows {
		b, err := r.loadBoard(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *repo) loadProject(ctx context.Context, row projectRow) (*project.Project, error) {
	db := r.db(ctx)

	owner, err := r.FindUserByID(ctx, row.OwnerID)
	if err != nil {
		return nil, err
	}
	members, err := loadMembers(db, &projectMemberRow{}, "project_members", "project_id", row.ID)
	if err != nil {
		return nil, err
	}
	var boardIDs []int64
	if err := db.Model(&boardRow{}).Where("project_id = ?", row.ID).Order("id").Pluck("id", &boardIDs).Error; err != nil {
		return nil, err
	}

	return &project.Project{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Owner:       *owner,
		Members:     members,
		BoardIDs:    boardIDs,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (r *repo) loadBoard(ctx context.Context, row boardRow) (*board.Board, error) {
	db := r.db(ctx)

	owner, err := r.FindUserByID(ctx, row.OwnerID)
	if err != nil {
		return nil, err
	}
	members, err := loadMembers(db, &boardMemberRow{}, "board_members", "board_id", row.ID)
	if err != nil {
		return nil, err
	}
	columns, err := loadColumns(db, row.ID)
	if err != nil {
		return nil, err
	}

	return &board.Board{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		IsPublic:    row.IsPublic,
		Owner:       *owner,
		ProjectID:   row.ProjectID,
		Members:     members,
		Columns:     columns,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// loadMembers returns the users of a member table in ordinal order.
func loadMembers(db *gorm.DB, model any, table, parentColumn string, parentID int64) (user.Members, error) {
	var rows []userRow
	err := db.Model(model).
		Select("users.*").
		Joins("JOIN users ON users.id = "+table+".user_id").
		Where(table+"."+parentColumn+" = ?", parentID).
		Order(table + ".ordinal").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make(user.Members, len(rows))
	for i, row := range rows {
		members[i] = row.toDomain()
	}
	return members, nil
}

func loadColumns(db *gorm.DB, boardID int64) ([]board.Column, error) {
	var colRows []columnRow
	if err := db.Where("board_id = ?", boardID).Order("position, id").Find(&colRows).Error; err != nil {
		return nil, err
	}
	if len(colRows) == 0 {
		return nil, nil
	}

	colIDs := make([]int64, len(colRows))
	for i, c := range colRows {
		colIDs[i] = c.ID
	}
	var cardRows []cardRow
	if err := db.Where("column_id IN ?", colIDs).Order("position, id").Find(&cardRows).Error; err != nil {
		return nil, err
	}

	cards, err := loadCards(db, cardRows)
	if err != nil {
		return nil, err
	}

	columns := make([]board.Column, len(colRows))
	index := make(map[int64]int, len(colRows))
	for i, row := range colRows {
		columns[i] = row.toDomain()
		index[row.ID] = i
	}
	for _, c := range cards {
		col := &columns[index[c.ColumnID]]
		col.Cards = append(col.Cards, c)
	}
	return columns, nil
}

func loadCards(db *gorm.DB, rows []cardRow) ([]card.Card, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var comments []commentRow
	if err := db.Where("card_id IN ?", ids).Order("id").Find(&comments).Error; err != nil {
		return nil, err
	}
	var attachments []attachmentRow
	if err := db.Where("card_id IN ?", ids).Order("id").Find(&attachments).Error; err != nil {
		return nil, err
	}
	var items []checklistItemRow
	if err := db.Where("card_id IN ?", ids).Order("position, id").Find(&items).Error; err != nil {
		return nil, err
	}

	cards := make([]card.Card, len(rows))
	index := make(map[int64]int, len(rows))
	for i, row := range rows {
		cards[i] = row.toDomain()
		index[row.ID] = i
	}
	for _, cm := range comments {
		c := &cards[index[cm.CardID]]
		c.Comments = append(c.Comments, cm.toDomain())
	}
	for _, a := range attachments {
		c := &cards[index[a.CardID]]
		c.Attachments = append(c.Attachments, a.toDomain())
	}
	for _, item := range items {
		c := &cards[index[item.CardID]]
		c.ChecklistItems = append(c.ChecklistItems, item.toDomain())
	}
	return cards, nil
}
