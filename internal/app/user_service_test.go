package app

import (
	"testing"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		draft   ports.UserDraft
		wantErr error
	}{
		{name: "valid", draft: ports.UserDraft{Name: "Dana", Email: "dana@example.com"}},
		{name: "duplicate email ignores case", draft: ports.UserDraft{Name: "A2", Email: "ALICE@example.com"}, wantErr: domain.ErrConflict},
		{name: "bad email", draft: ports.UserDraft{Name: "X", Email: "not-an-email"}, wantErr: domain.ErrValidation},
		{name: "missing name", draft: ports.UserDraft{Email: "x@example.com"}, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			got, err := f.users.Register(ctxBG(), tt.draft)
			if tt.wantErr != nil {
				requireErrorIs(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if got.ID == 0 || got.Role != user.RoleUser {
				t.Errorf("Register() = id %d role %s, want assigned id and USER", got.ID, got.Role)
			}
		})
	}
}

func TestUserService_GetUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got, err := f.users.GetUser(ctxBG(), f.bob.ID, f.alice)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Email != f.bob.Email {
		t.Errorf("Email = %q, want %q", got.Email, f.bob.Email)
	}

	_, err = f.users.GetUser(ctxBG(), 9999, f.alice)
	requireErrorIs(t, err, domain.ErrNotFound)

	_, err = f.users.GetUser(ctxBG(), f.bob.ID, nil)
	requireErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("changes flow into boards", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		b := f.board(t, f.alice, nil)

		got, err := f.users.UpdateProfile(ctxBG(), f.alice, ports.ProfileUpdate{Name: strPtr("Alicia")})
		if err != nil {
			t.Fatalf("UpdateProfile() error = %v", err)
		}
		if got.Name != "Alicia" {
			t.Errorf("Name = %q, want Alicia", got.Name)
		}
		if owner := f.loadBoard(t, b.ID).Owner; owner.Name != "Alicia" {
			t.Errorf("board owner name = %q, want Alicia", owner.Name)
		}
	})

	t.Run("email taken by someone else", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.users.UpdateProfile(ctxBG(), f.alice, ports.ProfileUpdate{Email: strPtr(f.bob.Email)})
		requireErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("own email with different case", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		if _, err := f.users.UpdateProfile(ctxBG(), f.alice, ports.ProfileUpdate{Email: strPtr("Alice@Example.com")}); err != nil {
			t.Fatalf("UpdateProfile() error = %v", err)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.users.UpdateProfile(ctxBG(), nil, ports.ProfileUpdate{})
		requireErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestUserService_ResolveActor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got, err := f.users.ResolveActor(ctxBG(), "carol@example.com")
	if err != nil {
		t.Fatalf("ResolveActor() error = %v", err)
	}
	if got.ID != f.carol.ID {
		t.Errorf("ResolveActor() = %d, want %d", got.ID, f.carol.ID)
	}

	_, err = f.users.ResolveActor(ctxBG(), "ghost@example.com")
	requireErrorIs(t, err, domain.ErrUnauthenticated)
}
