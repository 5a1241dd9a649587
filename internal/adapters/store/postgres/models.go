package postgres

import (
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/card"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// Row types mirror the relational schema. Aggregates are assembled from and
// decomposed into these rows by the repository.

type userRow struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Username  string
	Email     string    `gorm:"not null;uniqueIndex"`
	AvatarURL string
	Role      string    `gorm:"not null;default:USER"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (userRow) TableName() string { return "users" }

type projectRow struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	OwnerID     int64     `gorm:"not null;index"`
	Owner       userRow   `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (projectRow) TableName() string { return "projects" }

// projectMemberRow is one entry of an ordered member set. Ordinal keeps the
// insertion order of the set.
type projectMemberRow struct {
	ProjectID int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"primaryKey;index"`
	Ordinal   int   `gorm:"not null"`
	Project   projectRow `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	User      userRow    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (projectMemberRow) TableName() string { return "project_members" }

type boardRow struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	IsPublic    bool        `gorm:"not null;default:false;index"`
	OwnerID     int64       `gorm:"not null;index"`
	Owner       userRow     `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
	ProjectID   *int64      `gorm:"index"`
	Project     *projectRow `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime"`
}

func (boardRow) TableName() string { return "boards" }

type boardMemberRow struct {
	BoardID int64    `gorm:"primaryKey"`
	UserID  int64    `gorm:"primaryKey;index"`
	Ordinal int      `gorm:"not null"`
	Board   boardRow `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	User    userRow  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (boardMemberRow) TableName() string { return "board_members" }

type columnRow struct {
	ID        int64     `gorm:"primaryKey"`
	BoardID   int64     `gorm:"not null;index"`
	Board     boardRow  `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	Name      string    `gorm:"not null"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (columnRow) TableName() string { return "board_columns" }

type cardRow struct {
	ID          int64     `gorm:"primaryKey"`
	ColumnID    int64     `gorm:"not null;index"`
	Column      columnRow `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE"`
	Title       string    `gorm:"not null"`
	Name        string    `gorm:"not null"`
	Description string
	Position    int  `gorm:"not null"`
	IsActive    bool `gorm:"not null"`
	DueDate     *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (cardRow) TableName() string { return "cards" }

type commentRow struct {
	ID        int64     `gorm:"primaryKey"`
	CardID    int64     `gorm:"not null;index"`
	Card      cardRow   `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	AuthorID  int64     `gorm:"not null"`
	Body      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (commentRow) TableName() string { return "comments" }

type attachmentRow struct {
	ID        int64     `gorm:"primaryKey"`
	CardID    int64     `gorm:"not null;index"`
	Card      cardRow   `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	Filename  string    `gorm:"not null"`
	Location  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (attachmentRow) TableName() string { return "attachments" }

type checklistItemRow struct {
	ID        int64     `gorm:"primaryKey"`
	CardID    int64     `gorm:"not null;index"`
	Card      cardRow   `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	Name      string    `gorm:"not null"`
	Checked   bool      `gorm:"not null;default:false"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (checklistItemRow) TableName() string { return "checklist_items" }

// allModels lists the tables in dependency order for AutoMigrate.
func allModels() []any {
	return []any{
		&userRow{},
		&projectRow{},
		&projectMemberRow{},
		&boardRow{},
		&boardMemberRow{},
		&columnRow{},
		&cardRow{},
		&commentRow{},
		&attachmentRow{},
		&checklistItemRow{},
	}
}

func userFromDomain(u *user.User) userRow {
	return userRow{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:        r.ID,
		Name:      r.Name,
		Username:  r.Username,
		Email:     r.Email,
		AvatarURL: r.AvatarURL,
		Role:      user.Role(r.Role),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func projectFromDomain(p *project.Project) projectRow {
	return projectRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.Owner.ID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func boardFromDomain(b *board.Board) boardRow {
	return boardRow{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsPublic:    b.IsPublic,
		OwnerID:     b.Owner.ID,
		ProjectID:   b.ProjectID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func columnFromDomain(c *board.Column) columnRow {
	return columnRow{
		ID:        c.ID,
		BoardID:   c.BoardID,
		Name:      c.Name,
		Position:  c.Position,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r columnRow) toDomain() board.Column {
	return board.Column{
		ID:        r.ID,
		BoardID:   r.BoardID,
		Name:      r.Name,
		Position:  r.Position,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func cardFromDomain(c *card.Card) cardRow {
	return cardRow{
		ID:          c.ID,
		ColumnID:    c.ColumnID,
		Title:       c.Title,
		Name:        c.Name,
		Description: c.Description,
		Position:    c.Position,
		IsActive:    c.IsActive,
		DueDate:     c.DueDate,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r cardRow) toDomain() card.Card {
	return card.Card{
		ID:          r.ID,
		ColumnID:    r.ColumnID,
		Title:       r.Title,
		Name:        r.Name,
		Description: r.Description,
		Position:    r.Position,
		IsActive:    r.IsActive,
		DueDate:     r.DueDate,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r commentRow) toDomain() card.Comment {
	return card.Comment{ID: r.ID, CardID: r.CardID, AuthorID: r.AuthorID, Body: r.Body, CreatedAt: r.CreatedAt}
}

func (r attachmentRow) toDomain() card.Attachment {
	return card.Attachment{ID: r.ID, CardID: r.CardID, Filename: r.Filename, Location: r.Location, CreatedAt: r.CreatedAt}
}

func (r checklistItemRow) toDomain() card.ChecklistItem {
	return card.ChecklistItem{
		ID:        r.ID,
		CardID:    r.CardID,
		Name:      r.Name,
		Checked:   r.Checked,
		Position:  r.Position,
		CreatedAt: r.CreatedAt,
	}
}
