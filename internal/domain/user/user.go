// Package user holds the User entity and the member set shared by projects
// and boards.
package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
)

// Role is the global role of a user account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValid returns true if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// User is an account that can own and be a member of projects and boards.
// Email is unique and is the key the identity adapter authenticates against.
type User struct {
	ID        int64
	Name      string
	Username  string
	Email     string
	AvatarURL string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks business rules for the User entity.
func (u *User) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(u.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if strings.TrimSpace(u.Email) == "" {
		fields["email"] = domain.MsgRequired
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		fields["email"] = fmt.Sprintf("invalid: %q", u.Email)
	}
	if !u.Role.IsValid() {
		fields["role"] = fmt.Sprintf("invalid: %q", u.Role)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
