package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"
	msgPositive     = "must be positive, got %d"
	msgNonNegative  = "must not be negative, got %d"
)

// validationResult returns a *domain.ValidationError for non-empty fields.
func validationResult(fields map[string]string) error {
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func requireText(fields map[string]string, name, value string) {
	if strings.TrimSpace(value) == "" {
		fields[name] = msgRequired
	}
}

func optionalText(fields map[string]string, name string, value *string) {
	if value != nil && strings.TrimSpace(*value) == "" {
		fields[name] = msgMustNotEmpty
	}
}

func optionalPosition(fields map[string]string, value *int) {
	if value != nil && *value < 0 {
		fields["position"] = fmt.Sprintf(msgNonNegative, *value)
	}
}

// RegisterUserRequest represents the JSON body for registering an account.
type RegisterUserRequest struct {
	Name      string `json:"name"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Validate checks that required fields are present.
func (r *RegisterUserRequest) Validate() error {
	fields := make(map[string]string)
	requireText(fields, "name", r.Name)
	requireText(fields, "email", r.Email)
	return validationResult(fields)
}

// ToDraft converts the request into the service input.
func (r *RegisterUserRequest) ToDraft() ports.UserDraft {
	return ports.UserDraft{Name: r.Name, Username: r.Username, Email: r.Email, AvatarURL: r.AvatarURL}
}

// UpdateProfileRequest represents the JSON body for changing the caller's
// profile. All fields are optional; nil means "do not change this field.".
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateProfileRequest) Validate() error {
	fields := make(map[string]string)
	optionalText(fields, "name", r.Name)
	optionalText(fields, "email", r.Email)
	return validationResult(fields)
}

// ToUpdate converts the request into the service input.
func (r *UpdateProfileRequest) ToUpdate() ports.ProfileUpdate {
	return ports.ProfileUpdate{Name: r.Name, Username: r.Username, Email: r.Email, AvatarURL: r.AvatarURL}
}

// CreateProjectRequest represents the JSON body for creating a new project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateProjectRequest) Validate() error {
	fields := make(map[string]string)
	requireText(fields, "name", r.Name)
	return validationResult(fields)
}

// UpdateProjectRequest represents the JSON body for updating an existing project.
// All fields are optional; nil means "do not change this field.".
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateProjectRequest) Validate() error {
	fields := make(map[string]string)
	optionalText(fields, "name", r.Name)
	return validationResult(fields)
}

// ToUpdate converts the request into the service input.
func (r *UpdateProjectRequest) ToUpdate() ports.ProjectUpdate {
	return ports.ProjectUpdate{Name: r.Name, Description: r.Description}
}

// AddProjectMemberRequest names the user to add by email.
type AddProjectMemberRequest struct {
	Email string `json:"email"`
}

// Validate checks that the email is present.
func (r *AddProjectMemberRequest) Validate() error {
	fields := make(map[string]string)
	requireText(fields, "email", r.Email)
	return validationResult(fields)
}

// CreateBoardRequest represents the JSON body for creating a board.
// ProjectID is omitted for a standalone board.
type CreateBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	ProjectID   *int64 `json:"project_id,omitempty"`
}

// Validate checks that required fields are present.
func (r *CreateBoardRequest) Validate() error {
	fields := make(map[string]string)
	requireText(fields, "name", r.Name)
	if r.ProjectID != nil && *r.ProjectID <= 0 {
		fields["project_id"] = fmt.Sprintf(msgPositive, *r.ProjectID)
	}
	return validationResult(fields)
}

// ToDraft converts the request into the service input.
func (r *CreateBoardRequest) ToDraft() ports.BoardDraft {
	return ports.BoardDraft{
		Name:        r.Name,
		Description: r.Description,
		IsPublic:    r.IsPublic,
		ProjectID:   r.ProjectID,
	}
}

// UpdateBoardRequest represents the JSON body for updating a board.
type UpdateBoardRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateBoardRequest) Validate() error {
	fields := make(map[string]string)
	optionalText(fields, "name", r.Name)
	return validationResult(fields)
}

// ToUpdate converts the request into the service input.
func (r *UpdateBoardRequest) ToUpdate() ports.BoardUpdate {
	return ports.BoardUpdate{Name: r.Name, Description: r.Description, IsPublic: r.IsPublic}
}

// AddBoardMemberRequest names the user to add by ID.
type AddBoardMemberRequest struct {
	UserID int64 `json:"user_id"`
}

// Validate checks that the user ID is set.
func (r *AddBoardMemberRequest) Validate() error {
	fields := make(map[string]string)
	if r.UserID <= 0 {
		fields["user_id"] = fmt.Sprintf(msgPositive, r.UserID)
	}
	return validationResult(fields)
}

// CreateColumnRequest represents the JSON body for creating a column.
// Position is optional; when omitted the column is appended.
type CreateColumnRequest struct {
	Name     string `json:"name"`
	Position *int   `json:"position,omitempty"`
}

// Validate checks that required fields are present.
func (r *CreateColumnRequest) Validate() error {
	fields := make(map[string]string)
	requireText(fields, "name", r.Name)
	optionalPosition(fields, r.Position)
	return validationResult(fields)
}

// UpdateColumnRequest represents the JSON body for updating a column.
type UpdateColumnRequest struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateColumnRequest) Validate() error {
	fields := make(map[string]string)
	optionalText(fields, "name", r.Name)
	optionalPosition(fields, r.Position)
	return validationResult(fields)
}

// ToUpdate converts the request into the service input.
func (r *UpdateColumnRequest) ToUpdate() ports.ColumnUpdate {
	return ports.ColumnUpdate{Name: r.Name, Position: r.Position}
}

// CreateCardRequest represents the JSON body for creating a card.
type CreateCardRequest struct {
	ColumnID    int64      `json:"column_id"`
	Title       string     `json:"title"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate checks that required fields are present.
func (r *CreateCardRequest) Validate() error {
	fields := make(map[string]string)
	if r.ColumnID <= 0 {
		fields["column_id"] = fmt.Sprintf(msgPositive, r.ColumnID)
	}
	requireText(fields, "title", r.Title)
	return validationResult(fields)
}

// ToDraft converts the request into the service input.
func (r *CreateCardRequest) ToDraft() ports.CardDraft {
	return ports.CardDraft{Title: r.Title, Name: r.Name, Description: r.Description, DueDate: r.DueDate}
}

// UpdateCardRequest represents the JSON body for updating a card.
type UpdateCardRequest struct {
	Title       *string    `json:"title,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateCardRequest) Validate() error {
	fields := make(map[string]string)
	optionalText(fields, "title", r.Title)
	optionalText(fields, "name", r.Name)
	return validationResult(fields)
}

// ToUpdate converts the request into the service input.
func (r *UpdateCardRequest) ToUpdate() ports.CardUpdate {
	return ports.CardUpdate{Title: r.Title, Name: r.Name, Description: r.Description, DueDate: r.DueDate}
}

// MoveCardRequest names the destination column and optional position.
type MoveCardRequest struct {
	ColumnID int64 `json:"column_id"`
	Position *int  `json:"position,omitempty"`
}

// Validate checks the destination and position.
func (r *MoveCardRequest) Validate() error {
	fields := make(map[string]string)
	if r.ColumnID <= 0 {
		fields["column_id"] = fmt.Sprintf(msgPositive, r.ColumnID)
	}
	optionalPosition(fields, r.Position)
	return validationResult(fields)
}

// AddCommentRequest represents the JSON body for commenting on a card.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// Validate checks that the body is present.
func (r *AddCommentRequest) Validate() error {
	fields := make(map[string]string)
	requireText(fields, "body", r.Body)
	return validationResult(fields)
}

// AddAttachmentRequest represents the JSON body for attaching a file
// reference to a card.
type AddAttachmentRequest struct {
	Filename string `json:"filename"`
	Location string `json:"location"`
}

// Validate checks that required fields are present.
func (r *AddAttachmentRequest) Validate() error {
	fields := make(map[string]string)
	requireText(fields, "filename", r.Filename)
	requireText(fields, "location", r.Location)
	return validationResult(fields)
}

// AddChecklistItemRequest represents the JSON body for adding a checklist item.
type AddChecklistItemRequest struct {
	Name string `json:"name"`
}

// Validate checks that the name is present.
func (r *AddChecklistItemRequest) Validate() error {
	fields := make(map[string]string)
	requireText(fields, "name", r.Name)
	return validationResult(fields)
}

// SetChecklistItemRequest toggles a checklist item.
type SetChecklistItemRequest struct {
	Checked *bool `json:"checked"`
}

// Validate checks that checked is present.
func (r *SetChecklistItemRequest) Validate() error {
	fields := make(map[string]string)
	if r.Checked == nil {
		fields["checked"] = msgRequired
	}
	return validationResult(fields)
}
