package project

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// Project groups boards under a shared member set.
// BoardIDs lists the boards whose parent is this project and is populated by
// the store on load; it is not written back on save.
type Project struct {
	ID          int64
	Name        string
	Description string
	Owner       user.User
	Members     user.Members
	BoardIDs    []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID returns the ID of the project owner.
func (p *Project) OwnerID() int64 { return p.Owner.ID }

// HasMember reports whether the user is a member of the project.
func (p *Project) HasMember(userID int64) bool { return p.Members.Contains(userID) }

// Resource names the project in error messages.
func (p *Project) Resource() (string, int64) { return "project", p.ID }

// Validate checks business rules for the Project entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (p *Project) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if p.Owner.ID == 0 {
		fields["owner"] = domain.MsgRequired
	} else if !p.Members.Contains(p.Owner.ID) {
		fields["members"] = fmt.Sprintf("must contain owner %d", p.Owner.ID)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	out := *p
	out.Members = p.Members.Clone()
	out.BoardIDs = slices.Clone(p.BoardIDs)
	return &out
}
