package user

import (
	"errors"
	"slices"
	"testing"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
)

func TestUser_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		user      User
		wantField string
	}{
		{
			name: "valid user",
			user: User{Name: "Ada", Email: "ada@example.com", Role: RoleUser},
		},
		{
			name:      "missing name",
			user:      User{Email: "ada@example.com", Role: RoleUser},
			wantField: "name",
		},
		{
			name:      "missing email",
			user:      User{Name: "Ada", Role: RoleUser},
			wantField: "email",
		},
		{
			name:      "malformed email",
			user:      User{Name: "Ada", Email: "not-an-address", Role: RoleUser},
			wantField: "email",
		},
		{
			name:      "unknown role",
			user:      User{Name: "Ada", Email: "ada@example.com", Role: "ROOT"},
			wantField: "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.user.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("errors.As(err, *ValidationError) = false, got %v", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("Fields missing %q, got %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestMembers(t *testing.T) {
	t.Parallel()

	var m Members
	if !m.Add(User{ID: 1}) {
		t.Fatal("Add(1) = false on empty set")
	}
	if m.Add(User{ID: 1, Name: "dup"}) {
		t.Error("Add(1) twice = true, want false")
	}
	m.Add(User{ID: 2})
	m.Add(User{ID: 3})

	if got := m.IDs(); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("IDs() = %v, want [1 2 3]", got)
	}
	if !m.Remove(2) {
		t.Error("Remove(2) = false, want true")
	}
	if m.Remove(2) {
		t.Error("Remove(2) twice = true, want false")
	}
	if m.Contains(2) {
		t.Error("Contains(2) after Remove = true")
	}

	clone := m.Clone()
	clone.Add(User{ID: 9})
	if m.Contains(9) {
		t.Error("mutating Clone() changed the original")
	}
}
