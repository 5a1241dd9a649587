package app

import (
	"errors"
	"slices"
	"testing"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

func TestNewProjectService_NilLogger(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(memory.New(), nil, nil)
	if svc.logger == nil {
		t.Fatal("NewProjectService(nil logger) should create a no-op logger, got nil")
	}
}

func TestProjectService_CreateProject(t *testing.T) {
	t.Parallel()

	t.Run("creator becomes owner and member", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		p, err := f.projects.CreateProject(ctxBG(), f.alice, "Apollo", "")
		if err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}
		if p.ID == 0 {
			t.Error("CreateProject() did not assign an ID")
		}
		if p.Owner.ID != f.alice.ID {
			t.Errorf("Owner = %d, want %d", p.Owner.ID, f.alice.ID)
		}
		if !p.HasMember(f.alice.ID) {
			t.Error("owner is not a member")
		}
	})

	t.Run("blank name is a validation error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.projects.CreateProject(ctxBG(), f.alice, "  ", "")
		requireErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("anonymous actor is rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.projects.CreateProject(ctxBG(), nil, "Apollo", "")
		requireErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestProjectService_GetProject(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.project(t, f.alice, f.bob)

	if _, err := f.projects.GetProject(ctxBG(), p.ID, f.bob); err != nil {
		t.Errorf("GetProject(member) error = %v", err)
	}

	_, err := f.projects.GetProject(ctxBG(), p.ID, f.carol)
	requireErrorIs(t, err, domain.ErrForbidden)

	_, err = f.projects.GetProject(ctxBG(), 9999, f.alice)
	requireErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_ListProjects(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	shared := f.project(t, f.alice, f.bob)
	f.project(t, f.alice)

	got, err := f.projects.ListProjects(ctxBG(), f.bob)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != shared.ID {
		t.Errorf("ListProjects(bob) = %d projects, want only project %d", len(got), shared.ID)
	}
}

func TestProjectService_UpdateProject(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.project(t, f.alice, f.bob)

	got, err := f.projects.UpdateProject(ctxBG(), p.ID, f.alice, ports.ProjectUpdate{Name: strPtr("Gemini")})
	if err != nil {
		t.Fatalf("UpdateProject() error = %v", err)
	}
	if got.Name != "Gemini" || got.Description != "moon shot" {
		t.Errorf("UpdateProject() = %q/%q, want Gemini/moon shot", got.Name, got.Description)
	}

	_, err = f.projects.UpdateProject(ctxBG(), p.ID, f.bob, ports.ProjectUpdate{Name: strPtr("x")})
	requireErrorIs(t, err, domain.ErrForbidden)

	_, err = f.projects.UpdateProject(ctxBG(), p.ID, f.alice, ports.ProjectUpdate{Name: strPtr("")})
	requireErrorIs(t, err, domain.ErrValidation)
}

func TestProjectService_DeleteProject(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.project(t, f.alice, f.bob)
	b := f.board(t, f.bob, &p.ID)

	err := f.projects.DeleteProject(ctxBG(), p.ID, f.bob)
	requireErrorIs(t, err, domain.ErrForbidden)

	if err := f.projects.DeleteProject(ctxBG(), p.ID, f.alice); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}

	_, err = f.projects.GetProject(ctxBG(), p.ID, f.alice)
	requireErrorIs(t, err, domain.ErrNotFound)

	detached := f.loadBoard(t, b.ID)
	if detached.ProjectID != nil {
		t.Errorf("board %d still points at deleted project %d", b.ID, *detached.ProjectID)
	}
}

func TestProjectService_AddMember(t *testing.T) {
	t.Parallel()

	t.Run("propagates to every board under the project", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p := f.project(t, f.alice)
		b1 := f.board(t, f.alice, &p.ID)
		b2 := f.board(t, f.alice, &p.ID)
		standalone := f.board(t, f.alice, nil)

		got, err := f.projects.AddMember(ctxBG(), p.ID, f.alice, f.carol.Email)
		if err != nil {
			t.Fatalf("AddMember() error = %v", err)
		}
		if !got.HasMember(f.carol.ID) {
			t.Error("project does not contain carol")
		}
		for _, id := range []int64{b1.ID, b2.ID} {
			if !f.loadBoard(t, id).HasMember(f.carol.ID) {
				t.Errorf("board %d does not contain carol", id)
			}
		}
		if f.loadBoard(t, standalone.ID).HasMember(f.carol.ID) {
			t.Error("standalone board gained carol")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p := f.project(t, f.alice, f.bob)
		b := f.board(t, f.alice, &p.ID)

		got, err := f.projects.AddMember(ctxBG(), p.ID, f.alice, f.bob.Email)
		if err != nil {
			t.Fatalf("AddMember() error = %v", err)
		}
		if len(got.Members) != 2 {
			t.Errorf("project has %d members, want 2", len(got.Members))
		}
		if n := len(f.loadBoard(t, b.ID).Members); n != 2 {
			t.Errorf("board has %d members, want 2", n)
		}
	})

	t.Run("only the owner may add", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p := f.project(t, f.alice, f.bob)

		_, err := f.projects.AddMember(ctxBG(), p.ID, f.bob, f.carol.Email)
		requireErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p := f.project(t, f.alice)

		_, err := f.projects.AddMember(ctxBG(), p.ID, f.alice, "nobody@example.com")
		requireErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectService_RemoveMember(t *testing.T) {
	t.Parallel()

	t.Run("removes from project and boards", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p := f.project(t, f.alice, f.bob, f.carol)
		b := f.board(t, f.alice, &p.ID)

		got, err := f.projects.RemoveMember(ctxBG(), p.ID, f.alice, f.carol.ID)
		if err != nil {
			t.Fatalf("RemoveMember() error = %v", err)
		}
		if got.HasMember(f.carol.ID) {
			t.Error("project still contains carol")
		}
		if f.loadBoard(t, b.ID).HasMember(f.carol.ID) {
			t.Error("board still contains carol")
		}
	})

	t.Run("owner removal is a conflict", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p := f.project(t, f.alice, f.bob)

		_, err := f.projects.RemoveMember(ctxBG(), p.ID, f.alice, f.alice.ID)
		requireErrorIs(t, err, domain.ErrConflict)

		got, err := f.projects.GetProject(ctxBG(), p.ID, f.alice)
		if err != nil {
			t.Fatalf("GetProject() error = %v", err)
		}
		if !got.HasMember(f.alice.ID) {
			t.Error("owner was removed")
		}
	})

	t.Run("board owner keeps their own board", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p := f.project(t, f.alice, f.bob)
		owned := f.board(t, f.bob, &p.ID)
		other := f.board(t, f.alice, &p.ID)

		if _, err := f.projects.RemoveMember(ctxBG(), p.ID, f.alice, f.bob.ID); err != nil {
			t.Fatalf("RemoveMember() error = %v", err)
		}
		if !f.loadBoard(t, owned.ID).HasMember(f.bob.ID) {
			t.Error("bob was removed from the board he owns")
		}
		if f.loadBoard(t, other.ID).HasMember(f.bob.ID) {
			t.Error("bob still on a board he does not own")
		}
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p := f.project(t, f.alice)

		_, err := f.projects.RemoveMember(ctxBG(), p.ID, f.alice, 4242)
		requireErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectService_PartialFailureRollsBack(t *testing.T) {
	t.Parallel()

	base := newFixture(t)
	p := base.project(t, base.alice)
	ok := base.board(t, base.alice, &p.ID)
	bad1 := base.board(t, base.alice, &p.ID)
	bad2 := base.board(t, base.alice, &p.ID)

	failing := &failingStore{
		Store: base.store,
		fail:  map[int64]error{bad1.ID: errDiskFull, bad2.ID: domain.ErrUnavailable},
	}
	svc := NewProjectService(failing, nil, discardLogger())

	_, err := svc.AddMember(ctxBG(), p.ID, base.alice, base.carol.Email)
	requireErrorIs(t, err, domain.ErrPartialFailure)
	requireErrorIs(t, err, errDiskFull)

	var perr *domain.PartialFailureError
	if !errors.As(err, &perr) {
		t.Fatalf("errors.As(*PartialFailureError) = false, got %T", err)
	}
	if got := perr.BoardIDs(); !slices.Equal(got, []int64{bad1.ID, bad2.ID}) {
		t.Errorf("BoardIDs() = %v, want [%d %d]", got, bad1.ID, bad2.ID)
	}

	proj, err := base.projects.GetProject(ctxBG(), p.ID, base.alice)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if proj.HasMember(base.carol.ID) {
		t.Error("project kept carol after a failed propagation")
	}
	if base.loadBoard(t, ok.ID).HasMember(base.carol.ID) {
		t.Error("successful board kept carol after the unit rolled back")
	}
}
