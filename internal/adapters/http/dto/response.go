// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/card"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// UserResponse represents a user account in HTTP responses.
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToUserResponse converts a domain User to an HTTP response DTO.
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      u.Role.String(),
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

// MemberResponse is the short form of a user inside a member list.
type MemberResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toMembers(members user.Members) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{ID: m.ID, Name: m.Name, Email: m.Email}
	}
	return out
}

// ProjectResponse represents a single project in HTTP responses.
type ProjectResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	OwnerID     int64            `json:"owner_id"`
	Members     []MemberResponse `json:"members"`
	BoardIDs    []int64          `json:"board_ids"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// ProjectListResponse represents a list of projects in HTTP responses.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Count    int               `json:"count"`
}

// ToProjectResponse converts a domain Project entity to an HTTP response DTO.
func ToProjectResponse(p *project.Project) ProjectResponse {
	boardIDs := p.BoardIDs
	if boardIDs == nil {
		boardIDs = []int64{}
	}
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.Owner.ID,
		Members:     toMembers(p.Members),
		BoardIDs:    boardIDs,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

// ToProjectListResponse converts a slice of domain Project entities to an
// HTTP list response DTO.
func ToProjectListResponse(projects []*project.Project) ProjectListResponse {
	items := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		items[i] = ToProjectResponse(p)
	}
	return ProjectListResponse{
		Projects: items,
		Count:    len(items),
	}
}

// BoardResponse represents a board with its columns and cards.
type BoardResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	IsPublic    bool             `json:"is_public"`
	OwnerID     int64            `json:"owner_id"`
	ProjectID   *int64           `json:"project_id"`
	Members     []MemberResponse `json:"members"`
	Columns     []ColumnResponse `json:"columns"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// BoardListResponse represents a list of boards.
type BoardListResponse struct {
	Boards []BoardResponse `json:"boards"`
	Count  int             `json:"count"`
}

// ToBoardResponse converts a domain Board to an HTTP response DTO. Columns
// and cards keep the order the service returned them in.
func ToBoardResponse(b *board.Board) BoardResponse {
	cols := make([]ColumnResponse, len(b.Columns))
	for i := range b.Columns {
		cols[i] = ToColumnResponse(&b.Columns[i])
	}
	return BoardResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsPublic:    b.IsPublic,
		OwnerID:     b.Owner.ID,
		ProjectID:   b.ProjectID,
		Members:     toMembers(b.Members),
		Columns:     cols,
		CreatedAt:   formatTime(b.CreatedAt),
		UpdatedAt:   formatTime(b.UpdatedAt),
	}
}

// ToBoardListResponse converts boards to an HTTP list response DTO.
func ToBoardListResponse(boards []*board.Board) BoardListResponse {
	items := make([]BoardResponse, len(boards))
	for i, b := range boards {
		items[i] = ToBoardResponse(b)
	}
	return BoardListResponse{Boards: items, Count: len(items)}
}

// ColumnResponse represents a column and its cards.
type ColumnResponse struct {
	ID       int64          `json:"id"`
	BoardID  int64          `json:"board_id"`
	Name     string         `json:"name"`
	Position int            `json:"position"`
	Cards    []CardResponse `json:"cards"`
}

// ToColumnResponse converts a domain Column to an HTTP response DTO.
func ToColumnResponse(c *board.Column) ColumnResponse {
	cards := make([]CardResponse, len(c.Cards))
	for i := range c.Cards {
		cards[i] = ToCardResponse(&c.Cards[i])
	}
	return ColumnResponse{ID: c.ID, BoardID: c.BoardID, Name: c.Name, Position: c.Position, Cards: cards}
}

// CardResponse represents a card with its children.
type CardResponse struct {
	ID          int64                   `json:"id"`
	ColumnID    int64                   `json:"column_id"`
	Title       string                  `json:"title"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Position    int                     `json:"position"`
	IsActive    bool                    `json:"is_active"`
	DueDate     *string                 `json:"due_date"`
	Comments    []CommentResponse       `json:"comments"`
	Attachments []AttachmentResponse    `json:"attachments"`
	Checklist   []ChecklistItemResponse `json:"checklist"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
}

// ToCardResponse converts a domain Card to an HTTP response DTO.
func ToCardResponse(c *card.Card) CardResponse {
	resp := CardResponse{
		ID:          c.ID,
		ColumnID:    c.ColumnID,
		Title:       c.Title,
		Name:        c.Name,
		Description: c.Description,
		Position:    c.Position,
		IsActive:    c.IsActive,
		Comments:    make([]CommentResponse, len(c.Comments)),
		Attachments: make([]AttachmentResponse, len(c.Attachments)),
		Checklist:   make([]ChecklistItemResponse, len(c.ChecklistItems)),
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
	if c.DueDate != nil {
		due := formatTime(*c.DueDate)
		resp.DueDate = &due
	}
	for i := range c.Comments {
		resp.Comments[i] = ToCommentResponse(&c.Comments[i])
	}
	for i := range c.Attachments {
		resp.Attachments[i] = ToAttachmentResponse(&c.Attachments[i])
	}
	for i := range c.ChecklistItems {
		resp.Checklist[i] = ToChecklistItemResponse(&c.ChecklistItems[i])
	}
	return resp
}

// CommentResponse represents a card comment.
type CommentResponse struct {
	ID        int64  `json:"id"`
	CardID    int64  `json:"card_id"`
	AuthorID  int64  `json:"author_id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// ToCommentResponse converts a domain Comment to an HTTP response DTO.
func ToCommentResponse(c *card.Comment) CommentResponse {
	return CommentResponse{ID: c.ID, CardID: c.CardID, AuthorID: c.AuthorID, Body: c.Body, CreatedAt: formatTime(c.CreatedAt)}
}

// AttachmentResponse represents a card attachment.
type AttachmentResponse struct {
	ID        int64  `json:"id"`
	CardID    int64  `json:"card_id"`
	Filename  string `json:"filename"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at"`
}

// ToAttachmentResponse converts a domain Attachment to an HTTP response DTO.
func ToAttachmentResponse(a *card.Attachment) AttachmentResponse {
	return AttachmentResponse{ID: a.ID, CardID: a.CardID, Filename: a.Filename, Location: a.Location, CreatedAt: formatTime(a.CreatedAt)}
}

// ChecklistItemResponse represents a checklist item.
type ChecklistItemResponse struct {
	ID       int64  `json:"id"`
	CardID   int64  `json:"card_id"`
	Name     string `json:"name"`
	Checked  bool   `json:"checked"`
	Position int    `json:"position"`
}

// ToChecklistItemResponse converts a domain ChecklistItem to an HTTP response DTO.
func ToChecklistItemResponse(i *card.ChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{ID: i.ID, CardID: i.CardID, Name: i.Name, Checked: i.Checked, Position: i.Position}
}
